package layout

// Grid describes the uniform cell geometry used to place rows of boxes.
type Grid struct {
	BoxWidth  float64 // Width of every box
	BoxHeight float64 // Height of every box
	HSpacing  float64 // Gap between neighbouring boxes in a row
	VSpacing  float64 // Gap between consecutive rows
	Origin    Point   // Anchor of row 0; single-box rows start exactly here
}

// RowWidth returns the horizontal extent of a row holding n boxes.
func (g Grid) RowWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*g.BoxWidth + float64(n-1)*g.HSpacing
}

// RowStart returns the x coordinate of the first box in a row of n boxes.
//
// Rows with more than one box are shifted left by half the difference
// between one box and the whole row, so the row is centered on the first
// box's slot rather than on the canvas.
func (g Grid) RowStart(n int) float64 {
	if n > 1 {
		return g.Origin.X + (g.BoxWidth-g.RowWidth(n))/2
	}
	return g.Origin.X
}

// RowY returns the y coordinate of the given row.
func (g Grid) RowY(level int) float64 {
	return g.Origin.Y + float64(level)*(g.BoxHeight+g.VSpacing)
}

// PositionLayers computes a box for every ID in layers.
//
// Rows are laid out in ascending level order. A row's vertical position is
// derived from its level number, so gaps between explicit layer numbers are
// kept as empty rows.
func PositionLayers(layers Layers, grid Grid) map[string]Box {
	boxes := make(map[string]Box, layers.Count())
	for _, level := range layers.Levels() {
		ids := layers[level]
		x0 := grid.RowStart(len(ids))
		y := grid.RowY(level)
		for i, id := range ids {
			boxes[id] = Box{
				X:      x0 + float64(i)*(grid.BoxWidth+grid.HSpacing),
				Y:      y,
				Width:  grid.BoxWidth,
				Height: grid.BoxHeight,
			}
		}
	}
	return boxes
}

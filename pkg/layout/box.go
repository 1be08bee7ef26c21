package layout

// Point is a 2-D coordinate in canvas units (Excalidraw pixels).
// The y axis grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle identified by its top-left corner.
// Boxes are produced once per layout call and never mutated afterwards.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Left returns the x coordinate of the left edge.
func (b Box) Left() float64 { return b.X }

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Top returns the y coordinate of the top edge.
func (b Box) Top() float64 { return b.Y }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// Center returns the anchor in the middle of the box.
func (b Box) Center() Point { return Point{X: b.CenterX(), Y: b.CenterY()} }

// TopCenter returns the midpoint of the top edge.
func (b Box) TopCenter() Point { return Point{X: b.CenterX(), Y: b.Top()} }

// BottomCenter returns the midpoint of the bottom edge.
func (b Box) BottomCenter() Point { return Point{X: b.CenterX(), Y: b.Bottom()} }

// LeftCenter returns the midpoint of the left edge.
func (b Box) LeftCenter() Point { return Point{X: b.Left(), Y: b.CenterY()} }

// RightCenter returns the midpoint of the right edge.
func (b Box) RightCenter() Point { return Point{X: b.Right(), Y: b.CenterY()} }

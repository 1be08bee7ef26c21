package excalidraw

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/constellar/pkg/diagram"
	"github.com/matzehuels/constellar/pkg/errors"
	"github.com/matzehuels/constellar/pkg/layout"
)

// Defaults applied when a style field is left empty.
const (
	DefaultStroke      = diagram.ColorViolet
	DefaultTextColor   = diagram.ColorText
	DefaultStrokeWidth = 2
	DefaultFontSize    = 20
	DefaultFontFamily  = 1

	shapeLabelSize = 20
	arrowLabelSize = 16
)

// ArrowOptions extends a connector style with arrowheads. An empty
// StartArrowhead means none; an empty EndArrowhead means "arrow".
type ArrowOptions struct {
	diagram.ConnectorStyle
	StartArrowhead string
	EndArrowhead   string
}

// TextOptions configures a text element. Zero values select a 20px Virgil
// left/top-aligned light grey text.
type TextOptions struct {
	FontSize      float64
	FontFamily    int
	TextAlign     string
	VerticalAlign string
	Stroke        string
	ContainerID   string
}

// Factory builds Excalidraw elements. It implements [diagram.Factory].
type Factory struct {
	ids IDGenerator
}

var _ diagram.Factory = (*Factory)(nil)

// New returns a Factory that draws identifiers and seeds from ids.
// A nil ids selects [NewRandomIDs].
func New(ids IDGenerator) *Factory {
	if ids == nil {
		ids = NewRandomIDs()
	}
	return &Factory{ids: ids}
}

// Shape implements [diagram.ShapeFactory].
func (f *Factory) Shape(kind diagram.ShapeKind, box layout.Box, style diagram.ShapeStyle) (diagram.Shape, error) {
	var typ string
	var roundness *Roundness
	switch kind {
	case diagram.ShapeRectangle:
		typ, roundness = TypeRectangle, &Roundness{Type: 3}
	case diagram.ShapeEllipse:
		typ = TypeEllipse
	case diagram.ShapeDiamond:
		typ = TypeDiamond
	default:
		return diagram.Shape{}, errors.New(errors.ErrCodeInvalidStyle, "unknown shape kind %q", kind)
	}
	if err := validateShapeStyle(style); err != nil {
		return diagram.Shape{}, err
	}

	el := f.base(typ, box.X, box.Y, box.Width, box.Height)
	el.StrokeColor = or(style.Stroke, DefaultStroke)
	el.BackgroundColor = or(style.Background, diagram.ColorTransparent)
	el.StrokeWidth = orf(style.StrokeWidth, DefaultStrokeWidth)
	el.StrokeStyle = or(style.StrokeStyle, "solid")
	el.FillStyle = or(style.FillStyle, "solid")
	el.Roundness = roundness

	out := diagram.Shape{ID: el.ID, Box: box, Elements: []diagram.Element{el}}
	if style.Label != "" {
		c := box.Center()
		label := f.Text(c.X, c.Y, style.Label, TextOptions{
			FontSize:      shapeLabelSize,
			TextAlign:     "center",
			VerticalAlign: "middle",
			ContainerID:   el.ID,
		})
		el.bind(label)
		out.Elements = append(out.Elements, label)
	}
	return out, nil
}

// Connector implements [diagram.ConnectorFactory] with a plain arrow.
func (f *Factory) Connector(start, end layout.Point, style diagram.ConnectorStyle) (diagram.Connector, error) {
	return f.Arrow(start, end, ArrowOptions{ConnectorStyle: style})
}

// Arrow draws an arrow from start to end, labelled at its midpoint when
// opts.Label is set.
func (f *Factory) Arrow(start, end layout.Point, opts ArrowOptions) (diagram.Connector, error) {
	if err := validateConnectorStyle(opts.ConnectorStyle); err != nil {
		return diagram.Connector{}, err
	}
	if opts.StartArrowhead != "" {
		if err := errors.ValidateArrowhead(opts.StartArrowhead); err != nil {
			return diagram.Connector{}, err
		}
	}
	endHead := or(opts.EndArrowhead, "arrow")
	if err := errors.ValidateArrowhead(endHead); err != nil {
		return diagram.Connector{}, err
	}

	el := f.linear(TypeArrow, start, end, opts.ConnectorStyle)
	if opts.StartArrowhead != "" {
		el.StartArrowhead = &opts.StartArrowhead
	}
	el.EndArrowhead = &endHead

	out := diagram.Connector{ID: el.ID, Elements: []diagram.Element{el}}
	if opts.Label != "" {
		label := f.Text((start.X+end.X)/2, (start.Y+end.Y)/2, opts.Label, TextOptions{
			FontSize:      arrowLabelSize,
			TextAlign:     "center",
			VerticalAlign: "middle",
			ContainerID:   el.ID,
		})
		el.bind(label)
		out.Elements = append(out.Elements, label)
	}
	return out, nil
}

// Line draws a plain segment without arrowheads. Labels are ignored.
func (f *Factory) Line(start, end layout.Point, style diagram.ConnectorStyle) (diagram.Connector, error) {
	if err := validateConnectorStyle(style); err != nil {
		return diagram.Connector{}, err
	}
	el := f.linear(TypeLine, start, end, style)
	return diagram.Connector{ID: el.ID, Elements: []diagram.Element{el}}, nil
}

// Text builds a text element anchored at (x, y). Centered text is shifted
// left by half its width and middle-aligned text up by half its height.
func (f *Factory) Text(x, y float64, text string, opts TextOptions) *Element {
	size := orf(opts.FontSize, DefaultFontSize)
	align := or(opts.TextAlign, "left")
	valign := or(opts.VerticalAlign, "top")

	w, h := MeasureText(text, size)
	if align == "center" {
		x -= w / 2
	}
	if valign == "middle" {
		y -= h / 2
	}

	el := f.base(TypeText, x, y, w, h)
	el.StrokeColor = or(opts.Stroke, DefaultTextColor)
	el.TextProps = &TextProps{
		Text:          text,
		FontSize:      size,
		FontFamily:    max(opts.FontFamily, DefaultFontFamily),
		TextAlign:     align,
		VerticalAlign: valign,
		Baseline:      size,
		OriginalText:  text,
		LineHeight:    1.25,
	}
	if opts.ContainerID != "" {
		id := opts.ContainerID
		el.ContainerID = &id
	}
	return el
}

// MeasureText estimates the size of text at the given font size: 0.6em per
// character of the longest line and 1.4em per line.
func MeasureText(text string, fontSize float64) (width, height float64) {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	return float64(longest) * fontSize * 0.6, float64(len(lines)) * fontSize * 1.4
}

func (f *Factory) base(typ string, x, y, w, h float64) *Element {
	return &Element{
		ID:              f.ids.NewID(),
		Type:            typ,
		X:               x,
		Y:               y,
		Width:           w,
		Height:          h,
		StrokeColor:     DefaultStroke,
		BackgroundColor: diagram.ColorTransparent,
		FillStyle:       "solid",
		StrokeWidth:     DefaultStrokeWidth,
		StrokeStyle:     "solid",
		Roughness:       1,
		Opacity:         100,
		GroupIDs:        []string{},
		Seed:            f.ids.NewSeed(),
		Version:         1,
		VersionNonce:    f.ids.NewSeed(),
		Updated:         1,
	}
}

func (f *Factory) linear(typ string, start, end layout.Point, style diagram.ConnectorStyle) *Element {
	dx, dy := end.X-start.X, end.Y-start.Y
	el := f.base(typ, min(start.X, end.X), min(start.Y, end.Y), abs(dx), abs(dy))
	el.StrokeColor = or(style.Stroke, DefaultStroke)
	el.StrokeWidth = orf(style.StrokeWidth, DefaultStrokeWidth)
	el.StrokeStyle = or(style.StrokeStyle, "solid")
	el.LinearProps = &LinearProps{Points: [][2]float64{{0, 0}, {dx, dy}}}
	return el
}

func validateShapeStyle(s diagram.ShapeStyle) error {
	for _, c := range []string{s.Stroke, s.Background} {
		if c != "" {
			if err := errors.ValidateColor(c); err != nil {
				return err
			}
		}
	}
	if s.StrokeStyle != "" {
		if err := errors.ValidateStrokeStyle(s.StrokeStyle); err != nil {
			return err
		}
	}
	if s.FillStyle != "" {
		if err := errors.ValidateFillStyle(s.FillStyle); err != nil {
			return err
		}
	}
	if s.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "negative stroke width %g", s.StrokeWidth)
	}
	return nil
}

func validateConnectorStyle(s diagram.ConnectorStyle) error {
	if s.Stroke != "" {
		if err := errors.ValidateColor(s.Stroke); err != nil {
			return err
		}
	}
	if s.StrokeStyle != "" {
		if err := errors.ValidateStrokeStyle(s.StrokeStyle); err != nil {
			return err
		}
	}
	if s.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "negative stroke width %g", s.StrokeWidth)
	}
	return nil
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orf(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

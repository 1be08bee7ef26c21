package diagram

import "github.com/matzehuels/constellar/pkg/layout"

// Element is an opaque drawable produced by a factory. The assembler only
// ever reads its identifier.
type Element interface {
	ElementID() string
}

// ShapeStyle carries the visual attributes of a closed shape. Zero values
// select the factory's defaults.
type ShapeStyle struct {
	Stroke      string
	Background  string
	StrokeWidth float64
	StrokeStyle string
	FillStyle   string
	Label       string // Optional caption drawn inside the shape
}

// ConnectorStyle carries the visual attributes of a connector.
type ConnectorStyle struct {
	Stroke      string
	StrokeWidth float64
	StrokeStyle string
	Label       string // Optional caption drawn at the midpoint
}

// Shape is what a ShapeFactory returns: the container element followed by
// any label elements bound to it.
type Shape struct {
	ID       string
	Box      layout.Box
	Elements []Element
}

// Connector is what a ConnectorFactory returns.
type Connector struct {
	ID       string
	Elements []Element
}

// ShapeFactory draws closed shapes. When style.Label is set the factory
// appends a label element after the container and records the label's ID
// in the container's bound elements.
type ShapeFactory interface {
	Shape(kind ShapeKind, box layout.Box, style ShapeStyle) (Shape, error)
}

// ConnectorFactory draws directed connectors between two points.
type ConnectorFactory interface {
	Connector(start, end layout.Point, style ConnectorStyle) (Connector, error)
}

// Factory draws both shapes and connectors.
type Factory interface {
	ShapeFactory
	ConnectorFactory
}

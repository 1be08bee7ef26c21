package diagram

import (
	"fmt"
	"strings"

	"github.com/matzehuels/constellar/pkg/errors"
	"github.com/matzehuels/constellar/pkg/layout"
)

// =============================================================================
// Options
// =============================================================================

// FlowchartOptions configures [Assembler.Flowchart].
type FlowchartOptions struct {
	Grid            layout.Grid
	ConnectorStroke string
}

// DefaultFlowchartOptions returns 200x80 nodes with 120px between branches
// and 60px between rows, anchored at (100, 100).
func DefaultFlowchartOptions() FlowchartOptions {
	return FlowchartOptions{
		Grid: layout.Grid{
			BoxWidth:  200,
			BoxHeight: 80,
			HSpacing:  120,
			VSpacing:  60,
			Origin:    layout.Point{X: 100, Y: 100},
		},
		ConnectorStroke: ColorViolet,
	}
}

// ArchitectureOptions configures [Assembler.Architecture].
type ArchitectureOptions struct {
	Grid            layout.Grid
	ConnectorStroke string
}

// DefaultArchitectureOptions returns 180x120 components with 200px between
// neighbours and 150px between layers, anchored at (100, 100).
func DefaultArchitectureOptions() ArchitectureOptions {
	return ArchitectureOptions{
		Grid: layout.Grid{
			BoxWidth:  180,
			BoxHeight: 120,
			HSpacing:  200,
			VSpacing:  150,
			Origin:    layout.Point{X: 100, Y: 100},
		},
		ConnectorStroke: ColorSlate,
	}
}

// StepsOptions configures [Assembler.Steps].
type StepsOptions struct {
	Origin    layout.Point
	BoxWidth  float64
	BoxHeight float64
	Spacing   float64 // Vertical gap between consecutive boxes
}

// DefaultStepsOptions returns 200x80 boxes 60px apart, anchored at (100, 100).
func DefaultStepsOptions() StepsOptions {
	return StepsOptions{
		Origin:    layout.Point{X: 100, Y: 100},
		BoxWidth:  200,
		BoxHeight: 80,
		Spacing:   60,
	}
}

// =============================================================================
// Planning
// =============================================================================

// Plan is the resolved geometry of a diagram before anything is drawn.
type Plan struct {
	Layers layout.Layers
	Boxes  map[string]layout.Box
}

// Box returns the resolved box of id.
func (p *Plan) Box(id string) (layout.Box, bool) {
	b, ok := p.Boxes[id]
	return b, ok
}

// PlanFlowchart validates nodes, derives their levels and positions them.
func PlanFlowchart(nodes []Node, grid layout.Grid) (*Plan, error) {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	if err := checkIDs(ids); err != nil {
		return nil, err
	}

	vertices := make([]layout.Vertex, len(nodes))
	for i, n := range nodes {
		vertices[i] = layout.Vertex{ID: n.ID, Next: n.Next.Targets()}
	}

	layers := layout.Group(ids, layout.AssignLevels(vertices))
	return &Plan{Layers: layers, Boxes: layout.PositionLayers(layers, grid)}, nil
}

// PlanArchitecture validates components and positions them on their
// explicit layers.
func PlanArchitecture(components []Component, grid layout.Grid) (*Plan, error) {
	ids := make([]string, len(components))
	for i, c := range components {
		ids[i] = c.ID
	}
	if err := checkIDs(ids); err != nil {
		return nil, err
	}

	layers := make(layout.Layers)
	for _, c := range components {
		row := c.Row()
		if row < 0 {
			return nil, errors.New(errors.ErrCodeInvalidLayer, "component %q has negative layer %d", c.ID, row)
		}
		layers[row] = append(layers[row], c.ID)
	}
	return &Plan{Layers: layers, Boxes: layout.PositionLayers(layers, grid)}, nil
}

func checkIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if err := errors.ValidateNodeID(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidNode, err, "record %d", i)
		}
		if _, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeDuplicateNode, "duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// =============================================================================
// Assembly
// =============================================================================

// Assembler turns diagram descriptions into ordered element lists.
//
// Output order is shapes first, row by row and left to right within a row,
// each shape followed by its label; then connectors in input declaration
// order, each followed by its label. An Assembler holds no state of its own
// and is safe for concurrent use if its factories are.
type Assembler struct {
	shapes     ShapeFactory
	connectors ConnectorFactory
}

// NewAssembler returns an Assembler drawing with f.
func NewAssembler(f Factory) *Assembler {
	return &Assembler{shapes: f, connectors: f}
}

// NewAssemblerWith returns an Assembler using separate factories for shapes
// and connectors.
func NewAssemblerWith(shapes ShapeFactory, connectors ConnectorFactory) *Assembler {
	return &Assembler{shapes: shapes, connectors: connectors}
}

// Flowchart lays out nodes by derived level and connects every resolvable
// successor. Branch connectors are captioned with the upper-cased branch
// key. Successors that do not name a node are skipped.
func (a *Assembler) Flowchart(nodes []Node, opts FlowchartOptions) ([]Element, error) {
	plan, err := PlanFlowchart(nodes, opts.Grid)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	out := make([]Element, 0, 2*plan.Layers.Count())
	for _, level := range plan.Layers.Levels() {
		for _, id := range plan.Layers[level] {
			n := byID[id]
			look := AppearanceOf(FlowKind(n.Kind))
			shape, err := a.shapes.Shape(look.Shape, plan.Boxes[id], ShapeStyle{
				Stroke:     look.Stroke,
				Background: look.Background,
				Label:      n.Label,
			})
			if err != nil {
				return nil, fmt.Errorf("draw node %q: %w", id, err)
			}
			out = append(out, shape.Elements...)
		}
	}

	for _, n := range nodes {
		if n.Next.IsBranch() {
			for _, b := range n.Next.Branches {
				out, err = a.connect(out, plan, n.ID, b.Target, opts.ConnectorStroke, strings.ToUpper(b.Key))
				if err != nil {
					return nil, err
				}
			}
			continue
		}
		if n.Next.Target == "" {
			continue
		}
		out, err = a.connect(out, plan, n.ID, n.Next.Target, opts.ConnectorStroke, "")
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Architecture lays out components on their explicit layers and draws one
// connector per connection whose endpoints both exist. Component labels are
// prefixed with the icon of their kind.
func (a *Assembler) Architecture(components []Component, connections []Connection, opts ArchitectureOptions) ([]Element, error) {
	plan, err := PlanArchitecture(components, opts.Grid)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Component, len(components))
	for i := range components {
		byID[components[i].ID] = &components[i]
	}

	out := make([]Element, 0, 2*plan.Layers.Count())
	for _, level := range plan.Layers.Levels() {
		for _, id := range plan.Layers[level] {
			c := byID[id]
			look := AppearanceOf(ComponentKind(c.Kind))
			shape, err := a.shapes.Shape(look.Shape, plan.Boxes[id], ShapeStyle{
				Stroke:     look.Stroke,
				Background: look.Background,
				Label:      look.Icon + " " + c.Label,
			})
			if err != nil {
				return nil, fmt.Errorf("draw component %q: %w", id, err)
			}
			out = append(out, shape.Elements...)
		}
	}

	for _, conn := range connections {
		out, err = a.connect(out, plan, conn.From, conn.To, opts.ConnectorStroke, conn.Label)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Assembler) connect(out []Element, plan *Plan, from, to, stroke, label string) ([]Element, error) {
	src, ok := plan.Box(from)
	if !ok {
		return out, nil
	}
	dst, ok := plan.Box(to)
	if !ok {
		return out, nil
	}

	r := layout.RouteBetween(src, dst)
	conn, err := a.connectors.Connector(r.Start, r.End, ConnectorStyle{Stroke: stroke, Label: label})
	if err != nil {
		return nil, fmt.Errorf("draw connector %s -> %s: %w", from, to, err)
	}
	return append(out, conn.Elements...), nil
}

// Steps draws a vertical chain: a title diamond followed by one rectangle per
// step, each joined to the previous box by a bottom-to-top arrow. The last
// step is highlighted. Each arrow follows the step it points to.
func (a *Assembler) Steps(title string, steps []string, opts StepsOptions) ([]Element, error) {
	box := layout.Box{X: opts.Origin.X, Y: opts.Origin.Y, Width: opts.BoxWidth, Height: opts.BoxHeight}
	advance := opts.BoxHeight + opts.Spacing

	head, err := a.shapes.Shape(ShapeDiamond, box, ShapeStyle{
		Stroke:     ColorViolet,
		Background: ColorViolet400,
		Label:      title,
	})
	if err != nil {
		return nil, fmt.Errorf("draw title: %w", err)
	}
	out := append([]Element(nil), head.Elements...)

	prev := box
	for i, step := range steps {
		box.Y += advance

		bg := ColorViolet300
		if i == len(steps)-1 {
			bg = ColorViolet
		}
		shape, err := a.shapes.Shape(ShapeRectangle, box, ShapeStyle{
			Stroke:     ColorViolet,
			Background: bg,
			Label:      step,
		})
		if err != nil {
			return nil, fmt.Errorf("draw step %d: %w", i, err)
		}
		out = append(out, shape.Elements...)

		arrow, err := a.connectors.Connector(prev.BottomCenter(), box.TopCenter(), ConnectorStyle{Stroke: ColorViolet})
		if err != nil {
			return nil, fmt.Errorf("draw arrow to step %d: %w", i, err)
		}
		out = append(out, arrow.Elements...)
		prev = box
	}
	return out, nil
}

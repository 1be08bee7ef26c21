package tools

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/constellar/pkg/diagram"
	"github.com/matzehuels/constellar/pkg/errors"
	"github.com/matzehuels/constellar/pkg/excalidraw"
	"github.com/matzehuels/constellar/pkg/layout"
)

// Handler decodes a tool's JSON arguments and draws its elements with f.
type Handler func(f *excalidraw.Factory, args json.RawMessage) ([]diagram.Element, error)

// Param describes one tool argument for catalogues and help output.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Tool is a named drawing operation.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"parameters"`
	Handler     Handler `json:"-"`
}

// Call runs the tool with a fresh factory drawing identifiers from ids.
// A nil ids selects random identifiers.
func (t Tool) Call(ids excalidraw.IDGenerator, args json.RawMessage) ([]diagram.Element, error) {
	return t.Handler(excalidraw.New(ids), args)
}

var registry = func() map[string]Tool {
	m := make(map[string]Tool)
	for _, t := range []Tool{
		shapeTool("create_rectangle", "Draw a rounded rectangle with an optional centered label.", diagram.ShapeRectangle, 200, 100),
		shapeTool("create_ellipse", "Draw an ellipse with an optional centered label.", diagram.ShapeEllipse, 150, 150),
		shapeTool("create_diamond", "Draw a diamond with an optional centered label.", diagram.ShapeDiamond, 150, 150),
		arrowTool,
		lineTool,
		textTool,
		flowchartTool,
		advancedFlowchartTool,
		architectureTool,
	} {
		m[t.Name] = t
	}
	return m
}()

// Lookup returns the tool registered under name. Unknown or malformed names
// return an UNKNOWN_TOOL error.
func Lookup(name string) (Tool, error) {
	if err := errors.ValidateToolName(name); err != nil {
		return Tool{}, err
	}
	t, ok := registry[name]
	if !ok {
		return Tool{}, errors.New(errors.ErrCodeUnknownTool, "unknown tool %q", name)
	}
	return t, nil
}

// List returns every registered tool sorted by name.
func List() []Tool {
	out := make([]Tool, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Tool) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the sorted tool names.
func Names() []string {
	tools := List()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

// =============================================================================
// Shapes
// =============================================================================

type shapeArgs struct {
	common
	X               *float64 `json:"x"`
	Y               *float64 `json:"y"`
	Width           *float64 `json:"width"`
	Height          *float64 `json:"height"`
	StrokeColor     string   `json:"strokeColor"`
	BackgroundColor string   `json:"backgroundColor"`
	StrokeWidth     float64  `json:"strokeWidth"`
	StrokeStyle     string   `json:"strokeStyle"`
	FillStyle       string   `json:"fillStyle"`
	Label           string   `json:"label"`
}

func shapeTool(name, desc string, kind diagram.ShapeKind, width, height float64) Tool {
	return Tool{
		Name:        name,
		Description: desc,
		Params: append([]Param{
			{Name: "x", Type: "number", Required: true},
			{Name: "y", Type: "number", Required: true},
			{Name: "width", Type: "number", Default: width},
			{Name: "height", Type: "number", Default: height},
		}, styleParams(excalidraw.DefaultStroke)...),
		Handler: func(f *excalidraw.Factory, raw json.RawMessage) ([]diagram.Element, error) {
			var a shapeArgs
			if err := decodeArgs(raw, &a); err != nil {
				return nil, err
			}
			x, err := required("x", a.X)
			if err != nil {
				return nil, err
			}
			y, err := required("y", a.Y)
			if err != nil {
				return nil, err
			}
			box := layout.Box{X: x, Y: y, Width: orDefault(a.Width, width), Height: orDefault(a.Height, height)}
			if err := nonNegative("width", box.Width); err != nil {
				return nil, err
			}
			if err := nonNegative("height", box.Height); err != nil {
				return nil, err
			}
			shape, err := f.Shape(kind, box, diagram.ShapeStyle{
				Stroke:      a.StrokeColor,
				Background:  a.BackgroundColor,
				StrokeWidth: a.StrokeWidth,
				StrokeStyle: a.StrokeStyle,
				FillStyle:   a.FillStyle,
				Label:       a.Label,
			})
			if err != nil {
				return nil, err
			}
			return shape.Elements, nil
		},
	}
}

func styleParams(stroke string) []Param {
	return []Param{
		{Name: "strokeColor", Type: "string", Default: stroke},
		{Name: "backgroundColor", Type: "string", Default: diagram.ColorTransparent},
		{Name: "strokeWidth", Type: "number", Default: excalidraw.DefaultStrokeWidth},
		{Name: "strokeStyle", Type: "string", Default: "solid", Description: "solid, dashed or dotted"},
		{Name: "fillStyle", Type: "string", Default: "solid", Description: "solid, hachure, cross-hatch or zigzag"},
		{Name: "label", Type: "string", Description: "text centered inside the shape"},
	}
}

// =============================================================================
// Connectors and text
// =============================================================================

type segmentArgs struct {
	common
	StartX      *float64 `json:"startX"`
	StartY      *float64 `json:"startY"`
	EndX        *float64 `json:"endX"`
	EndY        *float64 `json:"endY"`
	StrokeColor string   `json:"strokeColor"`
	StrokeWidth float64  `json:"strokeWidth"`
	StrokeStyle string   `json:"strokeStyle"`
}

func (a *segmentArgs) points() (start, end layout.Point, err error) {
	if start.X, err = required("startX", a.StartX); err != nil {
		return
	}
	if start.Y, err = required("startY", a.StartY); err != nil {
		return
	}
	if end.X, err = required("endX", a.EndX); err != nil {
		return
	}
	end.Y, err = required("endY", a.EndY)
	return
}

func (a *segmentArgs) style(label string) diagram.ConnectorStyle {
	return diagram.ConnectorStyle{
		Stroke:      a.StrokeColor,
		StrokeWidth: a.StrokeWidth,
		StrokeStyle: a.StrokeStyle,
		Label:       label,
	}
}

var segmentParams = []Param{
	{Name: "startX", Type: "number", Required: true},
	{Name: "startY", Type: "number", Required: true},
	{Name: "endX", Type: "number", Required: true},
	{Name: "endY", Type: "number", Required: true},
	{Name: "strokeColor", Type: "string", Default: excalidraw.DefaultStroke},
	{Name: "strokeWidth", Type: "number", Default: excalidraw.DefaultStrokeWidth},
	{Name: "strokeStyle", Type: "string", Default: "solid"},
}

var arrowTool = Tool{
	Name:        "create_arrow",
	Description: "Draw an arrow between two points with an optional midpoint label.",
	Params: append(slices.Clone(segmentParams),
		Param{Name: "startArrowhead", Type: "string", Description: "arrow, bar, dot or triangle; none when omitted"},
		Param{Name: "endArrowhead", Type: "string", Default: "arrow"},
		Param{Name: "label", Type: "string"},
	),
	Handler: func(f *excalidraw.Factory, raw json.RawMessage) ([]diagram.Element, error) {
		var a struct {
			segmentArgs
			StartArrowhead string `json:"startArrowhead"`
			EndArrowhead   string `json:"endArrowhead"`
			Label          string `json:"label"`
		}
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		start, end, err := a.points()
		if err != nil {
			return nil, err
		}
		conn, err := f.Arrow(start, end, excalidraw.ArrowOptions{
			ConnectorStyle: a.style(a.Label),
			StartArrowhead: a.StartArrowhead,
			EndArrowhead:   a.EndArrowhead,
		})
		if err != nil {
			return nil, err
		}
		return conn.Elements, nil
	},
}

var lineTool = Tool{
	Name:        "create_line",
	Description: "Draw a straight line between two points.",
	Params:      slices.Clone(segmentParams),
	Handler: func(f *excalidraw.Factory, raw json.RawMessage) ([]diagram.Element, error) {
		var a segmentArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		start, end, err := a.points()
		if err != nil {
			return nil, err
		}
		conn, err := f.Line(start, end, a.style(""))
		if err != nil {
			return nil, err
		}
		return conn.Elements, nil
	},
}

var textTool = Tool{
	Name:        "create_text_standalone",
	Description: "Place free text on the canvas.",
	Params: []Param{
		{Name: "x", Type: "number", Required: true},
		{Name: "y", Type: "number", Required: true},
		{Name: "text", Type: "string", Required: true},
		{Name: "fontSize", Type: "number", Default: excalidraw.DefaultFontSize},
		{Name: "fontFamily", Type: "integer", Default: excalidraw.DefaultFontFamily, Description: "1 Virgil, 2 Helvetica, 3 Cascadia"},
		{Name: "textAlign", Type: "string", Default: "left"},
		{Name: "strokeColor", Type: "string", Default: excalidraw.DefaultTextColor},
	},
	Handler: func(f *excalidraw.Factory, raw json.RawMessage) ([]diagram.Element, error) {
		var a struct {
			common
			X           *float64 `json:"x"`
			Y           *float64 `json:"y"`
			Text        *string  `json:"text"`
			FontSize    *float64 `json:"fontSize"`
			FontFamily  int      `json:"fontFamily"`
			TextAlign   string   `json:"textAlign"`
			StrokeColor string   `json:"strokeColor"`
		}
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		x, err := required("x", a.X)
		if err != nil {
			return nil, err
		}
		y, err := required("y", a.Y)
		if err != nil {
			return nil, err
		}
		if a.Text == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing required argument %q", "text")
		}
		size := orDefault(a.FontSize, excalidraw.DefaultFontSize)
		if err := positive("fontSize", size); err != nil {
			return nil, err
		}
		if a.FontFamily < 0 || a.FontFamily > 3 {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "fontFamily must be 1, 2 or 3, got %d", a.FontFamily)
		}
		if a.TextAlign != "" {
			if err := errors.ValidateTextAlign(a.TextAlign); err != nil {
				return nil, err
			}
		}
		if a.StrokeColor != "" {
			if err := errors.ValidateColor(a.StrokeColor); err != nil {
				return nil, err
			}
		}
		el := f.Text(x, y, *a.Text, excalidraw.TextOptions{
			FontSize:   size,
			FontFamily: a.FontFamily,
			TextAlign:  a.TextAlign,
			Stroke:     a.StrokeColor,
		})
		return []diagram.Element{el}, nil
	},
}

// =============================================================================
// Diagrams
// =============================================================================

var flowchartTool = Tool{
	Name:        "create_flowchart",
	Description: "Draw a title diamond followed by a vertical column of steps joined by arrows.",
	Params: []Param{
		{Name: "title", Type: "string", Required: true},
		{Name: "steps", Type: "array", Required: true, Description: "step labels, top to bottom"},
		{Name: "x", Type: "number", Default: 100},
		{Name: "y", Type: "number", Default: 100},
		{Name: "boxWidth", Type: "number", Default: 200},
		{Name: "boxHeight", Type: "number", Default: 80},
		{Name: "verticalSpacing", Type: "number", Default: 60},
	},
	Handler: func(f *excalidraw.Factory, raw json.RawMessage) ([]diagram.Element, error) {
		var a struct {
			common
			Title           *string  `json:"title"`
			Steps           []string `json:"steps"`
			X               *float64 `json:"x"`
			Y               *float64 `json:"y"`
			BoxWidth        *float64 `json:"boxWidth"`
			BoxHeight       *float64 `json:"boxHeight"`
			VerticalSpacing *float64 `json:"verticalSpacing"`
		}
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		if a.Title == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing required argument %q", "title")
		}
		if a.Steps == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing required argument %q", "steps")
		}
		opts := diagram.DefaultStepsOptions()
		opts.Origin.X = orDefault(a.X, opts.Origin.X)
		opts.Origin.Y = orDefault(a.Y, opts.Origin.Y)
		opts.BoxWidth = orDefault(a.BoxWidth, opts.BoxWidth)
		opts.BoxHeight = orDefault(a.BoxHeight, opts.BoxHeight)
		opts.Spacing = orDefault(a.VerticalSpacing, opts.Spacing)
		return diagram.NewAssembler(f).Steps(*a.Title, a.Steps, opts)
	},
}

var advancedFlowchartTool = Tool{
	Name:        "create_advanced_flowchart",
	Description: "Lay out a flowchart of typed nodes in levels, branching decisions side by side.",
	Params: []Param{
		{Name: "nodes", Type: "array", Required: true, Description: `[{"id","type","label","next"}]; next is an id or a {"branch": id} object`},
		{Name: "x", Type: "number", Default: 100},
		{Name: "y", Type: "number", Default: 100},
		{Name: "nodeWidth", Type: "number", Default: 200},
		{Name: "nodeHeight", Type: "number", Default: 80},
		{Name: "horizontalSpacing", Type: "number", Default: 120},
		{Name: "verticalSpacing", Type: "number", Default: 60},
	},
	Handler: func(f *excalidraw.Factory, raw json.RawMessage) ([]diagram.Element, error) {
		var a struct {
			common
			Nodes             []diagram.Node `json:"nodes"`
			X                 *float64       `json:"x"`
			Y                 *float64       `json:"y"`
			NodeWidth         *float64       `json:"nodeWidth"`
			NodeHeight        *float64       `json:"nodeHeight"`
			HorizontalSpacing *float64       `json:"horizontalSpacing"`
			VerticalSpacing   *float64       `json:"verticalSpacing"`
		}
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		if a.Nodes == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing required argument %q", "nodes")
		}
		opts := diagram.DefaultFlowchartOptions()
		g := &opts.Grid
		g.Origin.X = orDefault(a.X, g.Origin.X)
		g.Origin.Y = orDefault(a.Y, g.Origin.Y)
		g.BoxWidth = orDefault(a.NodeWidth, g.BoxWidth)
		g.BoxHeight = orDefault(a.NodeHeight, g.BoxHeight)
		g.HSpacing = orDefault(a.HorizontalSpacing, g.HSpacing)
		g.VSpacing = orDefault(a.VerticalSpacing, g.VSpacing)
		return diagram.NewAssembler(f).Flowchart(a.Nodes, opts)
	},
}

var architectureTool = Tool{
	Name:        "create_system_architecture",
	Description: "Lay out system components in explicit layers and connect them.",
	Params: []Param{
		{Name: "components", Type: "array", Required: true, Description: `[{"id","type","label","layer"}]`},
		{Name: "connections", Type: "array", Description: `[{"from","to","label"}]`},
		{Name: "x", Type: "number", Default: 100},
		{Name: "y", Type: "number", Default: 100},
		{Name: "componentWidth", Type: "number", Default: 180},
		{Name: "componentHeight", Type: "number", Default: 120},
		{Name: "horizontalSpacing", Type: "number", Default: 200},
		{Name: "verticalSpacing", Type: "number", Default: 150},
	},
	Handler: func(f *excalidraw.Factory, raw json.RawMessage) ([]diagram.Element, error) {
		var a struct {
			common
			Components        []diagram.Component  `json:"components"`
			Connections       []diagram.Connection `json:"connections"`
			X                 *float64             `json:"x"`
			Y                 *float64             `json:"y"`
			ComponentWidth    *float64             `json:"componentWidth"`
			ComponentHeight   *float64             `json:"componentHeight"`
			HorizontalSpacing *float64             `json:"horizontalSpacing"`
			VerticalSpacing   *float64             `json:"verticalSpacing"`
		}
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		if a.Components == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing required argument %q", "components")
		}
		opts := diagram.DefaultArchitectureOptions()
		g := &opts.Grid
		g.Origin.X = orDefault(a.X, g.Origin.X)
		g.Origin.Y = orDefault(a.Y, g.Origin.Y)
		g.BoxWidth = orDefault(a.ComponentWidth, g.BoxWidth)
		g.BoxHeight = orDefault(a.ComponentHeight, g.BoxHeight)
		g.HSpacing = orDefault(a.HorizontalSpacing, g.HSpacing)
		g.VSpacing = orDefault(a.VerticalSpacing, g.VSpacing)
		return diagram.NewAssembler(f).Architecture(a.Components, a.Connections, opts)
	},
}

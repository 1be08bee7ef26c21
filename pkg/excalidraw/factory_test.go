package excalidraw

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/constellar/pkg/diagram"
	"github.com/matzehuels/constellar/pkg/errors"
	"github.com/matzehuels/constellar/pkg/layout"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestShapeWithLabel(t *testing.T) {
	f := New(&SequentialIDs{Prefix: "el"})
	box := layout.Box{X: 100, Y: 100, Width: 200, Height: 80}

	shape, err := f.Shape(diagram.ShapeRectangle, box, diagram.ShapeStyle{Background: "#c4b5fd", Label: "Hello"})
	if err != nil {
		t.Fatalf("Shape() error: %v", err)
	}
	if len(shape.Elements) != 2 {
		t.Fatalf("got %d elements, want container and label", len(shape.Elements))
	}

	rect := shape.Elements[0].(*Element)
	label := shape.Elements[1].(*Element)

	if rect.ID != "el1" || shape.ID != rect.ID {
		t.Errorf("container id = %q (shape id %q), want el1", rect.ID, shape.ID)
	}
	if rect.Type != TypeRectangle || rect.Roundness == nil || rect.Roundness.Type != 3 {
		t.Errorf("rectangle = %s roundness %+v", rect.Type, rect.Roundness)
	}
	if rect.StrokeColor != DefaultStroke || rect.BackgroundColor != "#c4b5fd" {
		t.Errorf("colors = %s/%s", rect.StrokeColor, rect.BackgroundColor)
	}
	if rect.X != 100 || rect.Y != 100 || rect.Width != 200 || rect.Height != 80 {
		t.Errorf("geometry = %v,%v %vx%v", rect.X, rect.Y, rect.Width, rect.Height)
	}
	if len(rect.BoundElements) != 1 || rect.BoundElements[0] != (BoundElement{Type: "text", ID: label.ID}) {
		t.Errorf("boundElements = %+v, want text %s", rect.BoundElements, label.ID)
	}

	if label.Type != TypeText || label.ContainerID == nil || *label.ContainerID != rect.ID {
		t.Fatalf("label not contained in %s: %+v", rect.ID, label)
	}
	if label.FontSize != 20 || label.TextAlign != "center" || label.VerticalAlign != "middle" {
		t.Errorf("label text props = %+v", label.TextProps)
	}
	// "Hello" at 20px: 60 wide, 28 tall, centered on (200, 140).
	if !approx(label.Width, 60) || !approx(label.Height, 28) {
		t.Errorf("label size = %vx%v, want 60x28", label.Width, label.Height)
	}
	if !approx(label.X, 170) || !approx(label.Y, 126) {
		t.Errorf("label at (%v, %v), want (170, 126)", label.X, label.Y)
	}
	if label.StrokeColor != DefaultTextColor || label.LineHeight != 1.25 || label.Baseline != 20 {
		t.Errorf("label style = %s lineHeight %v baseline %v", label.StrokeColor, label.LineHeight, label.Baseline)
	}
}

func TestShapeKinds(t *testing.T) {
	f := New(nil)
	box := layout.Box{Width: 150, Height: 150}
	tests := []struct {
		kind      diagram.ShapeKind
		typ       string
		roundness bool
	}{
		{diagram.ShapeRectangle, TypeRectangle, true},
		{diagram.ShapeEllipse, TypeEllipse, false},
		{diagram.ShapeDiamond, TypeDiamond, false},
	}
	for _, tt := range tests {
		shape, err := f.Shape(tt.kind, box, diagram.ShapeStyle{})
		if err != nil {
			t.Fatalf("Shape(%s) error: %v", tt.kind, err)
		}
		el := shape.Elements[0].(*Element)
		if el.Type != tt.typ || (el.Roundness != nil) != tt.roundness {
			t.Errorf("Shape(%s) = %s roundness %v", tt.kind, el.Type, el.Roundness)
		}
		if len(shape.Elements) != 1 || el.BoundElements != nil {
			t.Errorf("Shape(%s) without label produced %d elements", tt.kind, len(shape.Elements))
		}
		if el.BackgroundColor != "transparent" || el.FillStyle != "solid" || el.StrokeWidth != 2 {
			t.Errorf("Shape(%s) defaults = %s/%s/%v", tt.kind, el.BackgroundColor, el.FillStyle, el.StrokeWidth)
		}
	}
}

func TestArrow(t *testing.T) {
	f := New(&SequentialIDs{})
	conn, err := f.Arrow(layout.Point{X: 200, Y: 180}, layout.Point{X: 100, Y: 240}, ArrowOptions{
		ConnectorStyle: diagram.ConnectorStyle{Stroke: "#64748b", Label: "YES"},
	})
	if err != nil {
		t.Fatalf("Arrow() error: %v", err)
	}
	if len(conn.Elements) != 2 {
		t.Fatalf("got %d elements, want arrow and label", len(conn.Elements))
	}
	arrow := conn.Elements[0].(*Element)
	label := conn.Elements[1].(*Element)

	if arrow.X != 100 || arrow.Y != 180 || arrow.Width != 100 || arrow.Height != 60 {
		t.Errorf("arrow bounds = %v,%v %vx%v", arrow.X, arrow.Y, arrow.Width, arrow.Height)
	}
	want := [][2]float64{{0, 0}, {-100, 60}}
	if len(arrow.Points) != 2 || arrow.Points[0] != want[0] || arrow.Points[1] != want[1] {
		t.Errorf("points = %v, want %v", arrow.Points, want)
	}
	if arrow.StartArrowhead != nil || arrow.EndArrowhead == nil || *arrow.EndArrowhead != "arrow" {
		t.Errorf("arrowheads = %v/%v", arrow.StartArrowhead, arrow.EndArrowhead)
	}
	if arrow.StrokeColor != "#64748b" {
		t.Errorf("stroke = %s", arrow.StrokeColor)
	}

	// Midpoint (150, 210); "YES" at 16px is 28.8 x 22.4.
	if label.FontSize != 16 || !approx(label.X, 150-14.4) || !approx(label.Y, 210-11.2) {
		t.Errorf("label = %vpx at (%v, %v)", label.FontSize, label.X, label.Y)
	}
	if *label.ContainerID != arrow.ID || arrow.BoundElements[0].ID != label.ID {
		t.Errorf("label not bound to arrow")
	}
}

func TestArrowheads(t *testing.T) {
	f := New(nil)
	conn, err := f.Arrow(layout.Point{}, layout.Point{X: 10}, ArrowOptions{StartArrowhead: "dot", EndArrowhead: "triangle"})
	if err != nil {
		t.Fatalf("Arrow() error: %v", err)
	}
	el := conn.Elements[0].(*Element)
	if *el.StartArrowhead != "dot" || *el.EndArrowhead != "triangle" {
		t.Errorf("arrowheads = %s/%s", *el.StartArrowhead, *el.EndArrowhead)
	}
}

func TestLine(t *testing.T) {
	f := New(nil)
	conn, err := f.Line(layout.Point{X: 10, Y: 10}, layout.Point{X: 40, Y: 0}, diagram.ConnectorStyle{StrokeStyle: "dashed", Label: "ignored"})
	if err != nil {
		t.Fatalf("Line() error: %v", err)
	}
	if len(conn.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(conn.Elements))
	}
	el := conn.Elements[0].(*Element)
	if el.Type != TypeLine || el.StartArrowhead != nil || el.EndArrowhead != nil || el.StrokeStyle != "dashed" {
		t.Errorf("line = %+v", el)
	}
	if el.X != 10 || el.Y != 0 || el.Width != 30 || el.Height != 10 {
		t.Errorf("line bounds = %v,%v %vx%v", el.X, el.Y, el.Width, el.Height)
	}
}

func TestInvalidStyles(t *testing.T) {
	f := New(nil)
	box := layout.Box{Width: 10, Height: 10}
	var p layout.Point

	tests := []struct {
		name string
		call func() error
	}{
		{"shape kind", func() error { _, err := f.Shape("hexagon", box, diagram.ShapeStyle{}); return err }},
		{"stroke color", func() error {
			_, err := f.Shape(diagram.ShapeRectangle, box, diagram.ShapeStyle{Stroke: "red"})
			return err
		}},
		{"background", func() error {
			_, err := f.Shape(diagram.ShapeEllipse, box, diagram.ShapeStyle{Background: "#12345"})
			return err
		}},
		{"fill style", func() error {
			_, err := f.Shape(diagram.ShapeDiamond, box, diagram.ShapeStyle{FillStyle: "zigzag"})
			return err
		}},
		{"stroke width", func() error {
			_, err := f.Shape(diagram.ShapeRectangle, box, diagram.ShapeStyle{StrokeWidth: -1})
			return err
		}},
		{"stroke style", func() error { _, err := f.Line(p, p, diagram.ConnectorStyle{StrokeStyle: "wavy"}); return err }},
		{"start arrowhead", func() error { _, err := f.Arrow(p, p, ArrowOptions{StartArrowhead: "spear"}); return err }},
		{"end arrowhead", func() error { _, err := f.Arrow(p, p, ArrowOptions{EndArrowhead: "spear"}); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("error = %v, want INVALID_STYLE", err)
			}
		})
	}
}

func TestText(t *testing.T) {
	f := New(nil)
	el := f.Text(50, 60, "two\nlines!", TextOptions{})
	if el.X != 50 || el.Y != 60 {
		t.Errorf("left/top text moved to (%v, %v)", el.X, el.Y)
	}
	if el.ContainerID != nil || el.TextAlign != "left" || el.VerticalAlign != "top" || el.FontFamily != 1 {
		t.Errorf("text props = %+v", el.TextProps)
	}
	if !approx(el.Width, 6*12) || !approx(el.Height, 2*28) {
		t.Errorf("size = %vx%v, want 72x56", el.Width, el.Height)
	}
	if el.Text != "two\nlines!" || el.OriginalText != el.Text {
		t.Errorf("text = %q / %q", el.Text, el.OriginalText)
	}
}

func TestMeasureText(t *testing.T) {
	tests := []struct {
		text string
		size float64
		w, h float64
	}{
		{"", 20, 0, 28},
		{"abc", 10, 18, 14},
		{"a\nabcd\nab", 10, 24, 42},
		{"héllo", 10, 30, 14},
	}
	for _, tt := range tests {
		w, h := MeasureText(tt.text, tt.size)
		if !approx(w, tt.w) || !approx(h, tt.h) {
			t.Errorf("MeasureText(%q, %v) = %v, %v, want %v, %v", tt.text, tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestElementJSON(t *testing.T) {
	f := New(&SequentialIDs{})
	shape, _ := f.Shape(diagram.ShapeEllipse, layout.Box{Width: 1, Height: 1}, diagram.ShapeStyle{})
	arrow, _ := f.Arrow(layout.Point{}, layout.Point{X: 5}, ArrowOptions{})

	decode := func(el diagram.Element) map[string]any {
		data, err := json.Marshal(el)
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("Unmarshal() error: %v", err)
		}
		return m
	}

	s := decode(shape.Elements[0])
	for _, key := range []string{"frameId", "roundness", "boundElements", "link"} {
		if v, ok := s[key]; !ok || v != nil {
			t.Errorf("shape %s = %v (present %v), want null", key, v, ok)
		}
	}
	if _, ok := s["points"]; ok {
		t.Errorf("shape has linear properties")
	}
	if _, ok := s["text"]; ok {
		t.Errorf("shape has text properties")
	}
	if g, ok := s["groupIds"].([]any); !ok || len(g) != 0 {
		t.Errorf("groupIds = %v, want []", s["groupIds"])
	}

	a := decode(arrow.Elements[0])
	if v, ok := a["startArrowhead"]; !ok || v != nil {
		t.Errorf("startArrowhead = %v, want null", v)
	}
	if a["endArrowhead"] != "arrow" {
		t.Errorf("endArrowhead = %v", a["endArrowhead"])
	}
	if v, ok := a["lastCommittedPoint"]; !ok || v != nil {
		t.Errorf("lastCommittedPoint = %v, want null", v)
	}
}

func TestScene(t *testing.T) {
	f := New(&SequentialIDs{})
	shape, _ := f.Shape(diagram.ShapeRectangle, layout.Box{Width: 10, Height: 10}, diagram.ShapeStyle{Label: "x"})

	scene, err := SceneOf(shape.Elements)
	if err != nil {
		t.Fatalf("SceneOf() error: %v", err)
	}
	var buf bytes.Buffer
	if err := scene.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	var got struct {
		Type     string           `json:"type"`
		Version  int              `json:"version"`
		Elements []map[string]any `json:"elements"`
		AppState map[string]any   `json:"appState"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Type != "excalidraw" || got.Version != 2 || len(got.Elements) != 2 {
		t.Errorf("scene = %s v%d with %d elements", got.Type, got.Version, len(got.Elements))
	}
	if got.AppState["viewBackgroundColor"] != DefaultBackground {
		t.Errorf("appState = %v", got.AppState)
	}

	buf.Reset()
	if err := NewScene(nil).Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"elements": []`)) {
		t.Errorf("empty scene should encode elements as []:\n%s", buf.String())
	}
}

func TestAssemblerIntegration(t *testing.T) {
	nodes := []diagram.Node{
		{ID: "start", Kind: diagram.KindStart, Label: "Start", Next: diagram.To("check")},
		{ID: "check", Kind: diagram.KindDecision, Label: "OK?", Next: diagram.Branches("yes", "end", "no", "start")},
		{ID: "end", Kind: diagram.KindEnd, Label: "End"},
	}
	els, err := diagram.NewAssembler(New(NewSeededIDs(7))).Flowchart(nodes, diagram.DefaultFlowchartOptions())
	if err != nil {
		t.Fatalf("Flowchart() error: %v", err)
	}

	byID := make(map[string]*Element, len(els))
	for _, e := range els {
		el := e.(*Element)
		if _, dup := byID[el.ID]; dup {
			t.Fatalf("duplicate element id %s", el.ID)
		}
		byID[el.ID] = el
	}
	labels := 0
	for _, el := range byID {
		if el.TextProps == nil || el.ContainerID == nil {
			continue
		}
		labels++
		owner, ok := byID[*el.ContainerID]
		if !ok {
			t.Errorf("label %s points at missing container %s", el.ID, *el.ContainerID)
			continue
		}
		if len(owner.BoundElements) != 1 || owner.BoundElements[0].ID != el.ID {
			t.Errorf("container %s does not reference label %s", owner.ID, el.ID)
		}
	}
	// Three shape labels and two branch labels.
	if labels != 5 {
		t.Errorf("got %d labels, want 5", labels)
	}
}

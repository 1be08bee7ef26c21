package diagram

import (
	"fmt"

	"github.com/matzehuels/constellar/pkg/layout"
)

// drawn is the element type produced by recorder.
type drawn struct {
	id    string
	kind  string // "rectangle", "ellipse", "diamond", "connector" or "label"
	owner string // for labels
	box   layout.Box
	start layout.Point
	end   layout.Point
	text  string
	shape ShapeStyle
	conn  ConnectorStyle
	bound []string
}

func (d *drawn) ElementID() string { return d.id }

// recorder is a Factory that hands out sequential IDs and remembers what it
// was asked to draw.
type recorder struct {
	next int
	err  error
}

func (r *recorder) newID() string {
	r.next++
	return fmt.Sprintf("e%d", r.next)
}

func (r *recorder) Shape(kind ShapeKind, box layout.Box, style ShapeStyle) (Shape, error) {
	if r.err != nil {
		return Shape{}, r.err
	}
	el := &drawn{id: r.newID(), kind: string(kind), box: box, shape: style}
	out := Shape{ID: el.id, Box: box, Elements: []Element{el}}
	if style.Label != "" {
		lbl := &drawn{id: r.newID(), kind: "label", owner: el.id, text: style.Label}
		el.bound = append(el.bound, lbl.id)
		out.Elements = append(out.Elements, lbl)
	}
	return out, nil
}

func (r *recorder) Connector(start, end layout.Point, style ConnectorStyle) (Connector, error) {
	if r.err != nil {
		return Connector{}, r.err
	}
	el := &drawn{id: r.newID(), kind: "connector", start: start, end: end, conn: style}
	out := Connector{ID: el.id, Elements: []Element{el}}
	if style.Label != "" {
		lbl := &drawn{id: r.newID(), kind: "label", owner: el.id, text: style.Label}
		el.bound = append(el.bound, lbl.id)
		out.Elements = append(out.Elements, lbl)
	}
	return out, nil
}

func elems(els []Element) []*drawn {
	out := make([]*drawn, len(els))
	for i, e := range els {
		out[i] = e.(*drawn)
	}
	return out
}

func shapes(els []Element) []*drawn {
	var out []*drawn
	for _, d := range elems(els) {
		if d.kind != "connector" && d.kind != "label" {
			out = append(out, d)
		}
	}
	return out
}

func connectors(els []Element) []*drawn {
	var out []*drawn
	for _, d := range elems(els) {
		if d.kind == "connector" {
			out = append(out, d)
		}
	}
	return out
}

// labelOf returns the caption bound to d, or "".
func labelOf(els []Element, d *drawn) string {
	for _, e := range elems(els) {
		if e.kind == "label" && e.owner == d.id {
			return e.text
		}
	}
	return ""
}

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/constellar/pkg/diagram"
	"github.com/matzehuels/constellar/pkg/layout"
)

// Options configures preview generation.
type Options struct {
	// Detailed adds the node id, kind and level to labels.
	// When false, only the label (or the id when unlabelled) is shown.
	Detailed bool
}

type vertex struct {
	id    string
	label string
	kind  string
	look  diagram.Appearance
}

type edge struct {
	from, to, label string
}

// FlowchartDOT converts flowchart nodes to Graphviz DOT, one rank per level.
// Branch keys become upper-cased edge labels. Edges to unknown nodes are
// dropped, as in the assembled diagram.
func FlowchartDOT(nodes []diagram.Node, opts Options) (string, error) {
	plan, err := diagram.PlanFlowchart(nodes, diagram.DefaultFlowchartOptions().Grid)
	if err != nil {
		return "", err
	}

	vs := make(map[string]vertex, len(nodes))
	for _, n := range nodes {
		kind := diagram.FlowKind(n.Kind)
		vs[n.ID] = vertex{id: n.ID, label: n.Label, kind: string(kind), look: diagram.AppearanceOf(kind)}
	}
	var es []edge
	for _, n := range nodes {
		if n.Next.IsBranch() {
			for _, b := range n.Next.Branches {
				es = append(es, edge{n.ID, b.Target, strings.ToUpper(b.Key)})
			}
		} else if n.Next.Target != "" {
			es = append(es, edge{n.ID, n.Next.Target, ""})
		}
	}
	return toDOT(plan.Layers, vs, es, opts), nil
}

// ArchitectureDOT converts components and connections to Graphviz DOT, one
// rank per layer. Component labels carry the kind icon.
func ArchitectureDOT(components []diagram.Component, connections []diagram.Connection, opts Options) (string, error) {
	plan, err := diagram.PlanArchitecture(components, diagram.DefaultArchitectureOptions().Grid)
	if err != nil {
		return "", err
	}

	vs := make(map[string]vertex, len(components))
	for _, c := range components {
		kind := diagram.ComponentKind(c.Kind)
		look := diagram.AppearanceOf(kind)
		vs[c.ID] = vertex{id: c.ID, label: look.Icon + " " + c.Label, kind: string(kind), look: look}
	}
	es := make([]edge, 0, len(connections))
	for _, c := range connections {
		es = append(es, edge{c.From, c.To, c.Label})
	}
	return toDOT(plan.Layers, vs, es, opts), nil
}

func toDOT(layers layout.Layers, vs map[string]vertex, es []edge, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for _, level := range layers.Levels() {
		ids := layers[level]
		buf.WriteString("\n")
		quoted := make([]string, len(ids))
		for i, id := range ids {
			v := vs[id]
			fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(v, level, opts.Detailed), ", "))
			quoted[i] = strconv.Quote(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	for _, e := range es {
		if _, ok := vs[e.from]; !ok {
			continue
		}
		if _, ok := vs[e.to]; !ok {
			continue
		}
		if e.label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.from, e.to, e.label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(v vertex, level int, detailed bool) []string {
	label := strings.TrimSpace(v.label)
	if label == "" {
		label = v.id
	}
	if detailed {
		label = fmt.Sprintf("%s\nid: %s\nkind: %s\nlevel: %d", label, v.id, v.kind, level)
	}

	shape := "box"
	switch v.look.Shape {
	case diagram.ShapeEllipse:
		shape = "ellipse"
	case diagram.ShapeDiamond:
		shape = "diamond"
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		"shape=" + shape,
		fmt.Sprintf("color=%q", v.look.Stroke),
		fmt.Sprintf("fillcolor=%q", v.look.Background),
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag to a zero-origin viewBox with
// matching pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

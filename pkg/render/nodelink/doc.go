// Package nodelink renders diagram inputs as Graphviz node-link previews.
//
// # Overview
//
// A preview shows the graph a diagram is built from: one Graphviz node per
// flowchart node or architecture component, one edge per successor or
// connection, and one rank per layout level. Shapes and fills follow the
// kind styles used for the Excalidraw output, so a preview is a quick way
// to check a node file before generating a scene.
//
// # Usage
//
// Convert nodes to DOT format, then render to SVG:
//
//	dot, err := nodelink.FlowchartDOT(nodes, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the id, kind and level
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink

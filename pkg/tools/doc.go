// Package tools exposes constellar's drawing operations as named tools.
//
// Each [Tool] decodes a JSON argument object, applies defaults and returns
// Excalidraw elements. The registry is fixed at build time; [Lookup] and
// [List] are safe for concurrent use.
//
// # Tools
//
//   - create_rectangle, create_ellipse, create_diamond: a single labelled shape
//   - create_arrow, create_line: a straight connector between two points
//   - create_text_standalone: free text
//   - create_flowchart: a title diamond followed by a vertical column of steps
//   - create_advanced_flowchart: a layered flowchart with decision branches
//   - create_system_architecture: components in explicit layers
//
// # Execution
//
// [Runner] wraps tool execution with logging, observability hooks and an
// optional cache. Every tool accepts an extra "seed" argument; seeded calls
// produce deterministic identifiers and are therefore cacheable.
//
//	r := tools.NewRunner(c, nil, logger)
//	res, err := r.Run(ctx, "create_rectangle", json.RawMessage(`{"x":0,"y":0,"label":"API"}`))
package tools

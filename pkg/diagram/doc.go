// Package diagram assembles flowcharts and architecture diagrams into ordered
// lists of drawable elements.
//
// # Overview
//
// The package sits between the caller's description of a diagram and a
// drawing backend. It validates the description, resolves a [Plan] with the
// [layout] package, and then asks a [ShapeFactory] and a [ConnectorFactory]
// for the elements to draw. Elements are opaque: the package never looks at
// anything but their identifiers.
//
// Three diagram styles are supported:
//
//   - [Assembler.Flowchart]: typed nodes linked by "next" references. Levels
//     are derived so that sources sit on the first row.
//   - [Assembler.Architecture]: typed components on caller-supplied layers,
//     linked by explicit connections.
//   - [Assembler.Steps]: a title and a linear list of steps.
//
// # Kinds
//
// Every node and component carries a [Kind]. [AppearanceOf] maps a kind to
// a shape and a color pair. Unknown flowchart kinds are drawn as process
// steps and unknown component kinds as services.
//
// # Output Order
//
// Shapes come first, row by row and left to right, then connectors in the
// order the caller declared them. A label always directly follows the shape
// or connector it belongs to. Identical input produces identical geometry.
//
// # Errors
//
// References to unknown IDs are skipped silently and cycles are tolerated.
// Empty or duplicate IDs, negative layers and malformed "next" fields are
// reported as [errors.Error] values with a matching code.
//
// [errors.Error]: github.com/matzehuels/constellar/pkg/errors.Error
package diagram

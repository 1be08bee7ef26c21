// Package excalidraw builds Excalidraw scene elements.
//
// [Factory] implements the diagram package's shape and connector factories
// and also exposes the lower-level builders ([Factory.Arrow],
// [Factory.Line], [Factory.Text]) used by the primitive drawing tools.
// Labels are separate text elements bound to their container through
// boundElements and containerId.
//
// Identifiers and stroke seeds come from an injected [IDGenerator]:
// [RandomIDs] for normal use, [NewSeededIDs] for reproducible output,
// [UUIDs] for globally unique IDs, and [SequentialIDs] for tests.
package excalidraw

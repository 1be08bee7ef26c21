// Package layout computes row-based positions and connector endpoints for
// diagrams made of equally sized boxes.
//
// # Overview
//
// Layout happens in three steps, each usable on its own:
//
//  1. [AssignLevels] ranks vertices of a directed graph so that sources land
//     on row 0 and terminals on the last row.
//  2. [PositionLayers] turns rows of IDs into [Box] values on a uniform
//     [Grid], centering multi-box rows around the origin.
//  3. [RouteBetween] picks which edges of two boxes a connector should join.
//
// # Cycles and Dangling References
//
// Input graphs come from users and are not validated. A successor that is
// already on the current walk counts as depth 0, and successors that do not
// exist count as depth 0 as well. Level assignment therefore always
// terminates, though levels inside a cycle depend on where the walk entered
// it.
//
// # Concurrency
//
// All functions are pure and allocate their results per call. They are safe
// to call from multiple goroutines.
package layout

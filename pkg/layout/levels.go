package layout

import (
	"maps"
	"slices"
)

// Vertex is the minimal view of a diagram node needed for level assignment:
// an identifier and the identifiers of its successors, in declaration order.
// Successor IDs that do not belong to any vertex are allowed; they count as
// terminal nodes of depth 0.
type Vertex struct {
	ID   string
	Next []string
}

// Layers groups node IDs by row index. Within a row, IDs keep the order in
// which they were declared by the caller.
type Layers map[int][]string

// Levels returns the row indices present in l in ascending order.
func (l Layers) Levels() []int {
	return slices.Sorted(maps.Keys(l))
}

// Count returns the total number of node IDs across all rows.
func (l Layers) Count() int {
	n := 0
	for _, ids := range l {
		n += len(ids)
	}
	return n
}

// Depths computes, for each vertex, the length of the longest path from it
// to a terminal vertex.
//
// The walk is repeated from every vertex with a fresh path set. A successor
// that is already on the current path contributes depth 0, which breaks
// cycles instead of failing; successors that are unknown also contribute
// depth 0. Shared descendants are walked once per path that reaches them and
// results are not memoised, because the depth of a vertex inside a cycle
// depends on the path used to reach it.
//
// Depths is iterative and uses an explicit stack, so deep chains do not
// exhaust the goroutine stack.
func Depths(vertices []Vertex) map[string]int {
	succ := make(map[string][]string, len(vertices))
	for _, v := range vertices {
		succ[v.ID] = v.Next
	}

	depths := make(map[string]int, len(vertices))
	for _, v := range vertices {
		depths[v.ID] = depthFrom(v.ID, succ)
	}
	return depths
}

type depthFrame struct {
	id   string
	next int
	best int
}

func depthFrom(root string, succ map[string][]string) int {
	onPath := map[string]bool{root: true}
	stack := []depthFrame{{id: root}}

	for {
		top := &stack[len(stack)-1]
		children := succ[top.id]

		if top.next < len(children) {
			child := children[top.next]
			top.next++

			_, known := succ[child]
			if onPath[child] || !known {
				top.best = max(top.best, 1)
				continue
			}
			onPath[child] = true
			stack = append(stack, depthFrame{id: child})
			continue
		}

		d := top.best
		delete(onPath, top.id)
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return d
		}
		parent := &stack[len(stack)-1]
		parent.best = max(parent.best, d+1)
	}
}

// AssignLevels maps every vertex to a row so that sources sit at row 0 and
// terminals at the highest row: level = maxDepth - depth.
//
// Every input vertex receives exactly one non-negative level, and row 0
// always holds the vertices of maximal depth. An empty input yields an
// empty map. Duplicate IDs collapse into one entry.
func AssignLevels(vertices []Vertex) map[string]int {
	depths := Depths(vertices)

	maxDepth := 0
	for _, d := range depths {
		maxDepth = max(maxDepth, d)
	}

	levels := make(map[string]int, len(depths))
	for id, d := range depths {
		levels[id] = maxDepth - d
	}
	return levels
}

// Group buckets ids into rows using levels. The order of ids is preserved
// within each row. IDs without a level are placed on row 0.
func Group(ids []string, levels map[string]int) Layers {
	layers := make(Layers)
	for _, id := range ids {
		lvl := levels[id]
		layers[lvl] = append(layers[lvl], id)
	}
	return layers
}

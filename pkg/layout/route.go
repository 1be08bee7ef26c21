package layout

// Direction names the pair of box edges a connector joins.
type Direction int

const (
	// Downward joins the source's bottom edge to the target's top edge.
	Downward Direction = iota
	// Rightward joins the source's right edge to the target's left edge.
	Rightward
	// Leftward joins the source's left edge to the target's right edge.
	Leftward
)

// String returns a lowercase name for d.
func (d Direction) String() string {
	switch d {
	case Downward:
		return "downward"
	case Rightward:
		return "rightward"
	case Leftward:
		return "leftward"
	default:
		return "unknown"
	}
}

// Route is a resolved connector: the two endpoints and the edges they sit on.
type Route struct {
	Start     Point
	End       Point
	Direction Direction
}

// RouteBetween selects connector endpoints between two boxes.
//
// The rules are checked in order:
//  1. source strictly above target: bottom center to top center
//  2. source center left of target center: right center to left center
//  3. otherwise: left center to right center
//
// Boxes that share a row and an x center fall into rule 3. No attempt is made
// to avoid overlapping or intervening boxes.
func RouteBetween(from, to Box) Route {
	switch {
	case from.Bottom() < to.Top():
		return Route{Start: from.BottomCenter(), End: to.TopCenter(), Direction: Downward}
	case from.CenterX() < to.CenterX():
		return Route{Start: from.RightCenter(), End: to.LeftCenter(), Direction: Rightward}
	default:
		return Route{Start: from.LeftCenter(), End: to.RightCenter(), Direction: Leftward}
	}
}

package item

import "github.com/gaphor/gaphas/pkg/solver"

// Handle is a movable point on an item: a Position plus the flags that
// govern how the user and the connections registry may interact with
// it.
type Handle struct {
	Position *solver.Position

	// Strength records the strength NewHandle gave Position's variables
	// (Normal). The solver reads the variables' own strengths, never this
	// field; raising a handle's resistance (for example while it is being
	// dragged) is done via Position.X/Y's Bind, so the Variable tracks
	// its own pre-bind strength.
	Strength solver.Strength

	Connectable bool
	Movable     bool
	Visible     bool
}

// NewHandle creates a Handle at (x, y) with Normal strength and the
// usual interactive defaults: connectable, movable, and visible.
func NewHandle(x, y float64) *Handle {
	return &Handle{
		Position:    solver.NewPosition(x, y, solver.Normal),
		Strength:    solver.Normal,
		Connectable: true,
		Movable:     true,
		Visible:     true,
	}
}

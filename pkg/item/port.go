package item

import "github.com/gaphor/gaphas/pkg/solver"

// Port is a connectable region on an item, expressed in common (canvas)
// coordinates so that a handle on a different item can glue to it
// without either item knowing about the other's local coordinate space.
type Port interface {
	// Glue returns the closest point on the port to p and the distance
	// to it, both in common coordinates.
	Glue(p Point) (glued Point, distance float64)

	// Constraint returns the Constraint that pins commonHandle (a
	// handle's position, itself expressed in common coordinates via a
	// projection) to this port. The returned constraint is registered
	// through the connections registry, not added directly to the
	// solver by the caller.
	Constraint(commonHandle *solver.Position) solver.Constraint
}

// PointPort is a fixed connectable point.
type PointPort struct {
	// Common is the port's position in common coordinates. For a port
	// that should move with its owning item, Common's X and Y are
	// MatrixProjections built against that item's matrix; for a
	// standalone anchor, Common can hold plain Variables.
	Common *solver.Position
}

// Glue implements Port.
func (p *PointPort) Glue(pt Point) (Point, float64) {
	x, y := p.Common.Value()
	return Point{X: x, Y: y}, distance(pt.X, pt.Y, x, y)
}

// Constraint implements Port, returning a PositionEqual that keeps the
// handle coincident with the port.
func (p *PointPort) Constraint(commonHandle *solver.Position) solver.Constraint {
	return &solver.PositionEqual{A: commonHandle, B: p.Common}
}

// LinePort is a connectable line segment between two common-coordinate
// endpoints, typically the projected positions of two of the owning
// item's own handles (an Element's edge, for instance).
type LinePort struct {
	Common0, Common1 *solver.Position
}

// Glue implements Port, projecting pt onto the segment and clamping to
// its endpoints.
func (p *LinePort) Glue(pt Point) (Point, float64) {
	x0, y0 := p.Common0.Value()
	x1, y1 := p.Common1.Value()

	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	var t float64
	if lenSq > solver.Epsilon {
		t = ((pt.X-x0)*dx + (pt.Y-y0)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	gx, gy := x0+t*dx, y0+t*dy
	return Point{X: gx, Y: gy}, distance(pt.X, pt.Y, gx, gy)
}

// Constraint implements Port, returning a LineConstraint that keeps the
// handle on the segment.
func (p *LinePort) Constraint(commonHandle *solver.Position) solver.Constraint {
	return &solver.LineConstraint{Point: commonHandle, Line0: p.Common0, Line1: p.Common1}
}

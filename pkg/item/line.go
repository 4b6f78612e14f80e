package item

import (
	"fmt"

	"github.com/gaphor/gaphas/pkg/geometry"
	"github.com/gaphor/gaphas/pkg/solver"
)

// Line is a polyline of two or more Handles connected end to end by
// LinePorts over each segment. Orthogonal lines alternate axis-aligned
// segments; a Horizontal line starts with a horizontal first segment.
type Line struct {
	Base

	Orthogonal bool
	Horizontal bool

	projections []*geometry.MatrixProjection
}

// NewLine creates a Line through the given points, which must contain at
// least two points.
func NewLine(points []Point) (*Line, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("item: a Line needs at least 2 points, got %d", len(points))
	}

	l := &Line{}
	l.initBase()
	l.handles = make([]*Handle, len(points))
	for i, p := range points {
		l.handles[i] = NewHandle(p.X, p.Y)
	}
	l.rebuildPorts()
	return l, nil
}

// rebuildPorts regenerates the segment ports, common-space projections,
// and routing constraints from the current handle list; called after
// construction and after Split inserts a handle.
func (l *Line) rebuildPorts() {
	m := l.CanvasMatrix()
	commons := make([]*solver.Position, len(l.handles))
	l.projections = l.projections[:0]
	for i, h := range l.handles {
		cx, cy := geometry.NewMatrixProjectionPair(h.Position, m)
		commons[i] = &solver.Position{X: cx, Y: cy}
		l.projections = append(l.projections, cx, cy)
	}

	l.ports = make([]Port, 0, len(commons)-1)
	for i := 0; i+1 < len(commons); i++ {
		l.ports = append(l.ports, &LinePort{Common0: commons[i], Common1: commons[i+1]})
	}

	l.constraints = l.routingConstraints()
}

// routingConstraints builds the internal Equality constraints that
// enforce the Orthogonal and Horizontal flags over the current handle
// list. An Orthogonal line alternates axis-aligned segments, starting
// with a horizontal segment when Horizontal is set and a vertical one
// otherwise; a non-orthogonal Horizontal line only pins its first
// segment level. Reshaping the line after it has joined a canvas (via
// Split) requires the host to re-register the line's Constraints with
// the Solver, the same as any other structural change to a registered
// item.
func (l *Line) routingConstraints() []solver.Constraint {
	if len(l.handles) < 2 || (!l.Orthogonal && !l.Horizontal) {
		return nil
	}
	if !l.Orthogonal {
		return []solver.Constraint{
			&solver.Equality{A: l.handles[0].Position.Y, B: l.handles[1].Position.Y},
		}
	}

	cs := make([]solver.Constraint, 0, len(l.handles)-1)
	for i := 0; i+1 < len(l.handles); i++ {
		a, b := l.handles[i], l.handles[i+1]
		if l.Horizontal == (i%2 == 0) {
			cs = append(cs, &solver.Equality{A: a.Position.Y, B: b.Position.Y})
		} else {
			cs = append(cs, &solver.Equality{A: a.Position.X, B: b.Position.X})
		}
	}
	return cs
}

// SetOrthogonal sets the Orthogonal flag and rebuilds the line's routing
// constraints to reflect it.
func (l *Line) SetOrthogonal(orthogonal bool) {
	l.Orthogonal = orthogonal
	l.rebuildPorts()
}

// SetHorizontal sets the Horizontal flag and rebuilds the line's routing
// constraints to reflect it.
func (l *Line) SetHorizontal(horizontal bool) {
	l.Horizontal = horizontal
	l.rebuildPorts()
}

// Projections returns the line's handle-to-common-space projections, so
// the update pipeline can mark them dirty after recomputing the line's
// matrix.
func (l *Line) Projections() []*geometry.MatrixProjection {
	return l.projections
}

// Split inserts a new Handle at the midpoint of the segment following
// handle index afterHandle, implementing Splittable.
func (l *Line) Split(afterHandle int) (*Handle, error) {
	if afterHandle < 0 || afterHandle+1 >= len(l.handles) {
		return nil, fmt.Errorf("item: no segment follows handle %d", afterHandle)
	}
	x0, y0 := l.handles[afterHandle].Position.Value()
	x1, y1 := l.handles[afterHandle+1].Position.Value()
	mid := NewHandle((x0+x1)/2, (y0+y1)/2)

	handles := make([]*Handle, 0, len(l.handles)+1)
	handles = append(handles, l.handles[:afterHandle+1]...)
	handles = append(handles, mid)
	handles = append(handles, l.handles[afterHandle+1:]...)
	l.handles = handles

	l.rebuildPorts()
	return mid, nil
}

// Point implements Item, returning the distance from (x, y) to the
// nearest segment of the polyline.
func (l *Line) Point(x, y float64) float64 {
	best := -1.0
	for i := 0; i+1 < len(l.handles); i++ {
		x0, y0 := l.handles[i].Position.Value()
		x1, y1 := l.handles[i+1].Position.Value()
		d := segmentDistance(x, y, x0, y0, x1, y1)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func segmentDistance(px, py, x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	if lenSq <= solver.Epsilon {
		return distance(px, py, x0, y0)
	}
	t := ((px-x0)*dx + (py-y0)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return distance(px, py, x0+t*dx, y0+t*dy)
}

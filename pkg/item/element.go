package item

import (
	"math"

	"github.com/gaphor/gaphas/pkg/geometry"
	"github.com/gaphor/gaphas/pkg/solver"
)

// Corner handle indices, in the stable order Element keeps them: top-left,
// top-right, bottom-right, bottom-left.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// Edge port indices, matching the corner pair each edge spans.
const (
	EdgeTop = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Element is a rectangular item with four corner Handles and four edge
// LinePorts. Internal Equality constraints keep the four corners forming
// a rectangle as any one of them moves; LessThan constraints enforce
// MinWidth and MinHeight as Strong lower bounds.
type Element struct {
	Base

	MinWidth, MinHeight float64

	minWidthVar, minHeightVar *solver.Variable
	projections               []*geometry.MatrixProjection
}

// NewElement creates a rectangular Element with top-left corner at
// (x, y), the given width and height, and the given minimum width and
// height (enforced at Strong strength).
func NewElement(x, y, width, height, minWidth, minHeight float64) *Element {
	e := &Element{MinWidth: minWidth, MinHeight: minHeight}
	e.initBase()

	corners := [4]*Handle{
		NewHandle(x, y),
		NewHandle(x+width, y),
		NewHandle(x+width, y+height),
		NewHandle(x, y+height),
	}
	e.handles = corners[:]

	e.minWidthVar = solver.NewVariable(minWidth, solver.Strong)
	e.minHeightVar = solver.NewVariable(minHeight, solver.Strong)

	e.constraints = []solver.Constraint{
		&solver.Equality{A: corners[CornerTopLeft].Position.Y, B: corners[CornerTopRight].Position.Y},
		&solver.Equality{A: corners[CornerTopRight].Position.X, B: corners[CornerBottomRight].Position.X},
		&solver.Equality{A: corners[CornerBottomRight].Position.Y, B: corners[CornerBottomLeft].Position.Y},
		&solver.Equality{A: corners[CornerBottomLeft].Position.X, B: corners[CornerTopLeft].Position.X},
		&solver.LessThan{
			Smaller: e.minWidthVar,
			Bigger:  &solver.SpanVar{Lo: corners[CornerTopLeft].Position.X, Hi: corners[CornerTopRight].Position.X},
		},
		&solver.LessThan{
			Smaller: e.minHeightVar,
			Bigger:  &solver.SpanVar{Lo: corners[CornerTopLeft].Position.Y, Hi: corners[CornerBottomLeft].Position.Y},
		},
	}

	m := e.CanvasMatrix()
	var commons [4]*solver.Position
	for i, h := range corners {
		cx, cy := geometry.NewMatrixProjectionPair(h.Position, m)
		commons[i] = &solver.Position{X: cx, Y: cy}
		e.projections = append(e.projections, cx, cy)
	}

	e.ports = []Port{
		&LinePort{Common0: commons[CornerTopLeft], Common1: commons[CornerTopRight]},
		&LinePort{Common0: commons[CornerTopRight], Common1: commons[CornerBottomRight]},
		&LinePort{Common0: commons[CornerBottomRight], Common1: commons[CornerBottomLeft]},
		&LinePort{Common0: commons[CornerBottomLeft], Common1: commons[CornerTopLeft]},
	}

	return e
}

// Projections returns the element's four corner-to-common-space
// projections, so the update pipeline can mark them dirty after
// recomputing the element's matrix.
func (e *Element) Projections() []*geometry.MatrixProjection {
	return e.projections
}

// Width returns the element's current local-space width.
func (e *Element) Width() float64 {
	x0, _ := e.handles[CornerTopLeft].Position.Value()
	x1, _ := e.handles[CornerTopRight].Position.Value()
	return x1 - x0
}

// Height returns the element's current local-space height.
func (e *Element) Height() float64 {
	_, y0 := e.handles[CornerTopLeft].Position.Value()
	_, y1 := e.handles[CornerBottomLeft].Position.Value()
	return y1 - y0
}

// Point implements Item, returning the distance from (x, y) to the
// element's bounding rectangle (0 if the point is inside it).
func (e *Element) Point(x, y float64) float64 {
	x0, y0 := e.handles[CornerTopLeft].Position.Value()
	x1, y1 := e.handles[CornerBottomRight].Position.Value()

	dx := math.Max(x0-x, x-x1)
	dy := math.Max(y0-y, y-y1)
	if dx <= 0 && dy <= 0 {
		return 0
	}
	if dx <= 0 {
		return dy
	}
	if dy <= 0 {
		return dx
	}
	return math.Sqrt(dx*dx + dy*dy)
}

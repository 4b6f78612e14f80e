package geometry

import "github.com/gaphor/gaphas/pkg/solver"

// Axis selects which coordinate a MatrixProjection reads and writes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// MatrixProjection is a Var that reads and writes a coordinate of a local
// solver.Position through a Matrix, so that a constraint written in terms
// of plain Vars can operate on an item's position expressed in some
// ancestor's coordinate space. Value() returns the local position
// transformed by the matrix; SetValue inverts the matrix and writes the
// result back to the local position.
//
// A MatrixProjection satisfies solver.Var, so it can be used anywhere a
// plain solver.Variable can, per the tagged-variant design that avoids
// duck-typed attribute access between the two kinds of operand.
type MatrixProjection struct {
	local  *solver.Position
	matrix *Matrix
	axis   Axis

	matrixDirty      bool
	lastErr          error
	strengthOverride *solver.Strength
}

// NewMatrixProjectionPair returns the X and Y projections of local through
// matrix. The two share the same local position and matrix pointer, so a
// write through either one updates both axes of local consistently.
func NewMatrixProjectionPair(local *solver.Position, matrix *Matrix) (x, y *MatrixProjection) {
	x = &MatrixProjection{local: local, matrix: matrix, axis: AxisX}
	y = &MatrixProjection{local: local, matrix: matrix, axis: AxisY}
	return x, y
}

// NewMatrixProjectionPairWithStrength is NewMatrixProjectionPair but pins
// both axes' reported Strength() to s, independent of local's own
// Variable strength. A connecting handle's common-space projection uses
// this to report a strength strictly weaker than the port-anchor
// projections it is constrained against, so the Solver's weakest-operand
// target selection picks it structurally rather than by which item
// happened to be constructed (and so serial-stamped) first.
func NewMatrixProjectionPairWithStrength(local *solver.Position, matrix *Matrix, s solver.Strength) (x, y *MatrixProjection) {
	x, y = NewMatrixProjectionPair(local, matrix)
	x.strengthOverride = &s
	y.strengthOverride = &s
	return x, y
}

// Value returns the projected coordinate: the local position transformed
// through the matrix.
func (p *MatrixProjection) Value() float64 {
	lx, ly := p.local.Value()
	tx, ty := p.matrix.Transform(lx, ly)
	if p.axis == AxisX {
		return tx
	}
	return ty
}

// SetValue inverts the matrix and writes the resulting local coordinate
// back to the underlying Position. If the matrix cannot be inverted, the
// write is dropped and the error is recorded instead of panicking or
// corrupting the local position; LastError reports it. The update
// pipeline does not read LastError, so no diagnostic event is emitted
// for a dropped write.
func (p *MatrixProjection) SetValue(v float64) {
	inv, err := p.matrix.Invert()
	if err != nil {
		p.lastErr = err
		return
	}
	lx, ly := p.local.Value()
	wx, wy := p.axisValues(v, lx, ly)
	nx, ny := inv.Transform(wx, wy)
	p.local.SetValue(nx, ny)
	p.lastErr = nil
}

// axisValues fills in the coordinate being set (v) alongside the current
// projected value of the other axis, so that inverting always solves for
// both coordinates together.
func (p *MatrixProjection) axisValues(v, localX, localY float64) (float64, float64) {
	tx, ty := p.matrix.Transform(localX, localY)
	if p.axis == AxisX {
		return v, ty
	}
	return tx, v
}

// LastError returns the error from the most recent SetValue, or nil if it
// succeeded or has not been called.
func (p *MatrixProjection) LastError() error {
	return p.lastErr
}

// Strength returns the override strength set by
// NewMatrixProjectionPairWithStrength, if any, or else delegates to the
// underlying axis Variable.
func (p *MatrixProjection) Strength() solver.Strength {
	if p.strengthOverride != nil {
		return *p.strengthOverride
	}
	return p.axisVar().Strength()
}

// Dirty reports whether the underlying axis Variable changed, or whether
// the matrix itself was marked dirty by MarkMatrixDirty.
func (p *MatrixProjection) Dirty() bool {
	return p.matrixDirty || p.axisVar().Dirty()
}

// MarkClean clears both the underlying axis Variable's dirty flag and
// this projection's matrix-dirty flag.
func (p *MatrixProjection) MarkClean() {
	p.matrixDirty = false
	p.axisVar().MarkClean()
}

// MarkDirty forces the underlying axis Variable into the dirty state.
func (p *MatrixProjection) MarkDirty() {
	p.axisVar().MarkDirty()
}

// MarkMatrixDirty flags this projection as dirty because its matrix
// changed, independent of whether the local position itself changed.
// The update pipeline calls this after recomputing an item's matrix.
func (p *MatrixProjection) MarkMatrixDirty() {
	p.matrixDirty = true
}

// Serial delegates to the underlying axis Variable.
func (p *MatrixProjection) Serial() uint64 {
	return p.axisVar().Serial()
}

// Vars returns a single-element slice containing the projection itself,
// satisfying solver.Operand the same way a plain Variable does.
func (p *MatrixProjection) Vars() []solver.Var { return []solver.Var{p} }

func (p *MatrixProjection) axisVar() solver.Var {
	if p.axis == AxisX {
		return p.local.X
	}
	return p.local.Y
}

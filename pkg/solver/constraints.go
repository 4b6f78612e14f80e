package solver

import (
	"fmt"
	"math"
)

// Equality keeps A and B at the same value.
type Equality struct {
	A, B Var
}

// Operands implements Constraint.
func (c *Equality) Operands() []Operand { return []Operand{c.A, c.B} }

// SolveFor implements Constraint, writing target to match the other
// operand's value.
func (c *Equality) SolveFor(target Operand) error {
	if target == Operand(c.A) {
		c.A.SetValue(c.B.Value())
		return nil
	}
	c.B.SetValue(c.A.Value())
	return nil
}

// LessThan keeps Smaller at or below Bigger. It never writes when the
// relation already holds, so it contributes nothing to the dirty set at
// rest.
type LessThan struct {
	Smaller, Bigger Var
}

// Operands implements Constraint.
func (c *LessThan) Operands() []Operand { return []Operand{c.Smaller, c.Bigger} }

// SolveFor implements Constraint.
func (c *LessThan) SolveFor(target Operand) error {
	if c.Smaller.Value() <= c.Bigger.Value()+Epsilon {
		return nil
	}
	if target == Operand(c.Smaller) {
		c.Smaller.SetValue(c.Bigger.Value())
		return nil
	}
	c.Bigger.SetValue(c.Smaller.Value())
	return nil
}

// Center keeps Center exactly between A and B.
type Center struct {
	A, Center, B Var
}

// Operands implements Constraint.
func (c *Center) Operands() []Operand { return []Operand{c.A, c.Center, c.B} }

// SolveFor implements Constraint.
func (c *Center) SolveFor(target Operand) error {
	switch target {
	case Operand(c.Center):
		c.Center.SetValue((c.A.Value() + c.B.Value()) / 2)
	case Operand(c.A):
		c.A.SetValue(2*c.Center.Value() - c.B.Value())
	default:
		c.B.SetValue(2*c.Center.Value() - c.A.Value())
	}
	return nil
}

// Balance keeps V positioned between A and B at the given Ratio, where
// Ratio 0 places V at A and Ratio 1 places V at B.
type Balance struct {
	A, V, B Var
	Ratio   float64
}

// Operands implements Constraint.
func (c *Balance) Operands() []Operand { return []Operand{c.A, c.V, c.B} }

// SolveFor implements Constraint.
func (c *Balance) SolveFor(target Operand) error {
	switch target {
	case Operand(c.V):
		c.V.SetValue(c.A.Value() + c.Ratio*(c.B.Value()-c.A.Value()))
	case Operand(c.A):
		if c.Ratio >= 1 {
			return nil
		}
		c.A.SetValue((c.V.Value() - c.Ratio*c.B.Value()) / (1 - c.Ratio))
	default:
		if c.Ratio <= 0 {
			return nil
		}
		c.B.SetValue((c.V.Value() - (1-c.Ratio)*c.A.Value()) / c.Ratio)
	}
	return nil
}

const (
	equationInitialStep   = 1.0
	equationMaxDoublings  = 32
	equationTolerance     = 1e-10
	equationMaxIterations = 100
)

// Equation constrains F(vars...) to equal zero, solved by moving target
// via bisection. F is evaluated with the operand values in the same
// order as Vars; target's own current value is replaced by the trial
// value during the search.
type Equation struct {
	Vars []Var
	F    func(values []float64) float64
}

// Operands implements Constraint.
func (c *Equation) Operands() []Operand {
	ops := make([]Operand, len(c.Vars))
	for i, v := range c.Vars {
		ops[i] = v
	}
	return ops
}

// SolveFor implements Constraint, bracketing a root around target's
// current value and bisecting to within equationTolerance or
// equationMaxIterations, whichever comes first.
func (c *Equation) SolveFor(target Operand) error {
	idx := -1
	for i, v := range c.Vars {
		if Operand(v) == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("solver: equation constraint solved for a target that is not one of its own vars")
	}

	values := make([]float64, len(c.Vars))
	for i, v := range c.Vars {
		values[i] = v.Value()
	}

	eval := func(x float64) float64 {
		values[idx] = x
		return c.F(values)
	}

	x0 := values[idx]
	f0 := eval(x0)
	if math.Abs(f0) <= equationTolerance {
		return nil
	}

	lo, hi := x0, x0
	flo, fhi := f0, f0
	step := equationInitialStep
	bracketed := false
	for i := 0; i < equationMaxDoublings; i++ {
		lo = x0 - step
		hi = x0 + step
		flo = eval(lo)
		fhi = eval(hi)
		if (flo <= 0 && fhi >= 0) || (flo >= 0 && fhi <= 0) {
			bracketed = true
			break
		}
		step *= 2
	}
	if !bracketed {
		return &NonConvergentEquationError{Constraint: c}
	}

	for i := 0; i < equationMaxIterations; i++ {
		mid := (lo + hi) / 2
		fmid := eval(mid)
		if math.Abs(fmid) <= equationTolerance || (hi-lo)/2 <= equationTolerance {
			c.Vars[idx].SetValue(mid)
			return nil
		}
		if (flo <= 0 && fmid >= 0) || (flo >= 0 && fmid <= 0) {
			hi = mid
			fhi = fmid
		} else {
			lo = mid
			flo = fmid
		}
	}
	return &NonConvergentEquationError{Constraint: c}
}

// LineConstraint keeps Point on the line segment between Line0 and
// Line1, moving Point to its foot of perpendicular and clamping to the
// segment's endpoints.
type LineConstraint struct {
	Point, Line0, Line1 *Position
}

// Operands implements Constraint.
func (c *LineConstraint) Operands() []Operand {
	return []Operand{c.Point, c.Line0, c.Line1}
}

// SolveFor implements Constraint. Only Point can be adjusted; Line0 and
// Line1 define the segment and must never be weaker than Point, or
// selectTarget will offer one of them up instead. Callers that build a
// LineConstraint to glue a handle to a port (see Connections.Connect in
// package canvas) are responsible for giving Point's operand a strictly
// weaker strength than Line0/Line1's. If some other wiring lets
// selectTarget choose Line0 or Line1 anyway, SolveFor reports an error
// rather than silently leaving the constraint unsatisfied.
func (c *LineConstraint) SolveFor(target Operand) error {
	if target != Operand(c.Point) {
		return fmt.Errorf("solver: line constraint cannot solve for its own line endpoint")
	}
	x0, y0 := c.Line0.Value()
	x1, y1 := c.Line1.Value()
	px, py := c.Point.Value()

	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	if lenSq <= Epsilon {
		c.Point.SetValue(x0, y0)
		return nil
	}

	t := ((px-x0)*dx + (py-y0)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	c.Point.SetValue(x0+t*dx, y0+t*dy)
	return nil
}

// PositionEqual keeps two Positions coincident.
type PositionEqual struct {
	A, B *Position
}

// Operands implements Constraint.
func (c *PositionEqual) Operands() []Operand { return []Operand{c.A, c.B} }

// SolveFor implements Constraint.
func (c *PositionEqual) SolveFor(target Operand) error {
	if target == Operand(c.A) {
		x, y := c.B.Value()
		c.A.SetValue(x, y)
		return nil
	}
	x, y := c.A.Value()
	c.B.SetValue(x, y)
	return nil
}

package solver

import "math"

// Epsilon is the tolerance used to decide whether an assignment actually
// changed a Variable's value, and whether a Constraint's residual counts
// as satisfied.
const Epsilon = 1e-9

// Var is the scalar-valued operand a Constraint reads and, when chosen as
// the solve target, writes. Both a plain Variable and a projection that
// reads/writes through an affine transform satisfy Var, so constraints
// never need to know which kind of operand they hold.
type Var interface {
	Value() float64
	SetValue(v float64)
	Strength() Strength
	Dirty() bool
	MarkClean()
	MarkDirty()
	Serial() uint64

	// Vars returns a single-element slice containing the Var itself, so
	// that any Var's method set is a superset of Operand's and needs no
	// explicit wrapping to be used as a Constraint operand.
	Vars() []Var
}

// Operand is anything a Constraint can name among its Operands() and a
// Solver can choose as a solve target: a scalar Var or a two-axis
// Position. Both satisfy Operand so Constraint implementations that work
// variable-by-variable (Equality, LessThan) and ones that must move both
// axes together (LineConstraint, PositionEqual) share one selection rule.
type Operand interface {
	Vars() []Var
	Strength() Strength
	Serial() uint64
}

var serialCounter uint64

// nextSerial returns a process-wide monotonically increasing write serial.
// The engine's solve loop is single-threaded (see package canvas), so a
// plain counter is sufficient; it is not safe for concurrent solves.
func nextSerial() uint64 {
	serialCounter++
	return serialCounter
}

// Variable is a single scalar layout value participating in constraints.
type Variable struct {
	value           float64
	strength        Strength
	preBindStrength Strength
	dirty           bool
	serial          uint64
	refs            int
}

// NewVariable creates a Variable at the given initial value and strength.
func NewVariable(value float64, strength Strength) *Variable {
	return &Variable{value: value, strength: strength, serial: nextSerial()}
}

// Value returns the variable's current value.
func (v *Variable) Value() float64 { return v.value }

// SetValue assigns a new value. Assignments within Epsilon of the current
// value are no-ops: they do not mark the variable dirty and do not bump
// its write serial.
func (v *Variable) SetValue(val float64) {
	if math.Abs(val-v.value) <= Epsilon {
		return
	}
	v.value = val
	v.dirty = true
	v.serial = nextSerial()
}

// Strength returns the variable's resistance to being chosen as a solve
// target.
func (v *Variable) Strength() Strength { return v.strength }

// SetStrength changes the variable's strength. On a bound variable (see
// Bind) the new strength takes effect at once and is replaced by the
// pre-bind strength when the last Unbind runs.
func (v *Variable) SetStrength(s Strength) { v.strength = s }

// Dirty reports whether the variable changed since the last MarkClean.
func (v *Variable) Dirty() bool { return v.dirty }

// MarkDirty forces the variable into the dirty state without changing its
// value, used by Solver.RequestResolve when a host assigns the variable
// directly.
func (v *Variable) MarkDirty() { v.dirty = true }

// MarkClean clears the dirty flag once the solver has propagated the
// variable's current value to all constraints that read it.
func (v *Variable) MarkClean() { v.dirty = false }

// Serial returns the write-serial stamped on the variable's last actual
// value change, used to break ties between equally-strong solve targets
// in favor of the one written least recently.
func (v *Variable) Serial() uint64 { return v.serial }

// Vars implements Operand for a bare scalar Variable.
func (v *Variable) Vars() []Var { return []Var{v} }

// Bind raises the variable to Required strength for the duration of an
// external hold (for example, a handle being dragged by the user).
// Unbind restores the prior strength. Nested Bind/Unbind calls are
// reference-counted, so binding an already-bound variable is not an
// error; Bind always returns nil.
func (v *Variable) Bind() error {
	if v.refs == 0 {
		v.preBindStrength = v.strength
		v.strength = Required
	}
	v.refs++
	return nil
}

// Unbind releases one hold acquired by Bind, restoring the variable's
// original strength once the last hold is released.
func (v *Variable) Unbind() {
	if v.refs == 0 {
		return
	}
	v.refs--
	if v.refs == 0 {
		v.strength = v.preBindStrength
	}
}

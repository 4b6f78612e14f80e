package solver

// Position pairs two Var operands representing a point's X and Y
// coordinates. X and Y are stored as the Var interface rather than
// *Variable so a Position can equally hold plain variables or
// projections that read/write through an affine transform.
type Position struct {
	X Var
	Y Var
}

// NewPosition builds a Position backed by two fresh Variables.
func NewPosition(x, y float64, strength Strength) *Position {
	return &Position{X: NewVariable(x, strength), Y: NewVariable(y, strength)}
}

// Vars implements Operand, exposing both axes as solve candidates.
func (p *Position) Vars() []Var { return []Var{p.X, p.Y} }

// Strength reports the weaker of the two axes' strengths, since a
// Position-level constraint can only be satisfied if both axes are free
// to move.
func (p *Position) Strength() Strength {
	if p.X.Strength() < p.Y.Strength() {
		return p.X.Strength()
	}
	return p.Y.Strength()
}

// Serial reports the most recent write serial of either axis.
func (p *Position) Serial() uint64 {
	if p.X.Serial() > p.Y.Serial() {
		return p.X.Serial()
	}
	return p.Y.Serial()
}

// Dirty reports whether either axis changed since its last MarkClean.
func (p *Position) Dirty() bool {
	return p.X.Dirty() || p.Y.Dirty()
}

// MarkClean clears the dirty flag on both axes.
func (p *Position) MarkClean() {
	p.X.MarkClean()
	p.Y.MarkClean()
}

// SetValue assigns both axes at once.
func (p *Position) SetValue(x, y float64) {
	p.X.SetValue(x)
	p.Y.SetValue(y)
}

// Value returns both axes' current values.
func (p *Position) Value() (x, y float64) {
	return p.X.Value(), p.Y.Value()
}

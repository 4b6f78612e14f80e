package solver

// SpanVar exposes the distance between two Vars (Hi - Lo) as a single Var.
// Reading it returns the current distance; writing it adjusts Hi so the
// distance becomes the assigned value, leaving Lo untouched. This lets a
// derived quantity like an element's width participate directly in a
// constraint (for example, as the Bigger operand of a LessThan enforcing
// a minimum width) without a shadow variable that would have to be kept
// in sync separately.
type SpanVar struct {
	Lo, Hi Var
}

// Value returns Hi.Value() - Lo.Value().
func (s *SpanVar) Value() float64 { return s.Hi.Value() - s.Lo.Value() }

// SetValue assigns Hi so that Hi - Lo equals v.
func (s *SpanVar) SetValue(v float64) { s.Hi.SetValue(s.Lo.Value() + v) }

// Strength delegates to Hi, the Var this SpanVar writes.
func (s *SpanVar) Strength() Strength { return s.Hi.Strength() }

// Dirty reports whether either endpoint changed.
func (s *SpanVar) Dirty() bool { return s.Lo.Dirty() || s.Hi.Dirty() }

// MarkClean clears both endpoints' dirty flags.
func (s *SpanVar) MarkClean() {
	s.Lo.MarkClean()
	s.Hi.MarkClean()
}

// MarkDirty forces Hi into the dirty state.
func (s *SpanVar) MarkDirty() { s.Hi.MarkDirty() }

// Serial reports Hi's write serial.
func (s *SpanVar) Serial() uint64 { return s.Hi.Serial() }

// Vars returns a single-element slice containing the SpanVar itself.
func (s *SpanVar) Vars() []Var { return []Var{s} }

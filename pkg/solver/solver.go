package solver

const (
	maxRevisits   = 100
	maxIterations = 1000
)

// Solver tracks a set of constraints and resolves them to a fixed point
// on demand. It is not safe for concurrent use; the update pipeline in
// package canvas owns exactly one Solver and drives it from a single
// goroutine.
type Solver struct {
	constraints map[Constraint]struct{}
	varIndex    map[Var][]Constraint
}

// NewSolver returns an empty Solver.
func NewSolver() *Solver {
	return &Solver{
		constraints: make(map[Constraint]struct{}),
		varIndex:    make(map[Var][]Constraint),
	}
}

// AddConstraint registers a constraint and marks it for resolution on
// the next Solve.
func (s *Solver) AddConstraint(c Constraint) {
	if _, ok := s.constraints[c]; ok {
		return
	}
	s.constraints[c] = struct{}{}
	for _, op := range c.Operands() {
		for _, v := range op.Vars() {
			s.varIndex[v] = append(s.varIndex[v], c)
		}
	}
}

// RemoveConstraint unregisters a constraint, returning an
// UnknownConstraintError if it was not tracked by this Solver.
func (s *Solver) RemoveConstraint(c Constraint) error {
	if _, ok := s.constraints[c]; !ok {
		return &UnknownConstraintError{Constraint: c}
	}
	delete(s.constraints, c)
	for _, op := range c.Operands() {
		for _, v := range op.Vars() {
			s.varIndex[v] = removeConstraint(s.varIndex[v], c)
		}
	}
	return nil
}

func removeConstraint(cs []Constraint, target Constraint) []Constraint {
	out := cs[:0]
	for _, c := range cs {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}

// Constraints returns the set of constraints currently registered, in no
// particular order.
func (s *Solver) Constraints() []Constraint {
	out := make([]Constraint, 0, len(s.constraints))
	for c := range s.constraints {
		out = append(out, c)
	}
	return out
}

// RequestResolve marks v dirty so every constraint touching it is
// considered for re-evaluation on the next Solve, used when a host
// assigns a Variable directly (for example, dragging a handle) rather
// than through a constraint.
func (s *Solver) RequestResolve(v Var) {
	v.MarkDirty()
}

// Solve repeatedly picks a dirty constraint, asks it to adjust its
// weakest-or-least-recently-written operand, and enqueues every other
// constraint sharing a variable with it, until the queue drains (a fixed
// point) or the iteration/revisit budget is exhausted. A nil error means
// every constraint reached a fixed point; otherwise the returned
// UnresolvableConstraintsError names every constraint left unresolved.
//
// Variable dirty flags are only consulted to seed the initial queue and
// are cleared in bulk once Solve returns, so that downstream consumers
// (the update pipeline's matrix refresh, in particular) see a clean slate
// between solves.
func (s *Solver) Solve() error {
	queue := make([]Constraint, 0, len(s.constraints))
	queued := make(map[Constraint]bool, len(s.constraints))
	for c := range s.constraints {
		if constraintDirty(c) {
			queue = append(queue, c)
			queued[c] = true
		}
	}

	revisits := make(map[Constraint]int)
	suppressed := make(map[Constraint]bool)
	stale := make(map[Constraint]bool)

	iterations := 0
	for len(queue) > 0 && iterations < maxIterations {
		iterations++

		c := queue[0]
		queue = queue[1:]
		queued[c] = false

		if suppressed[c] {
			continue
		}

		target := selectTarget(c.Operands())
		if target == nil {
			suppressed[c] = true
			continue
		}

		if err := c.SolveFor(target); err != nil {
			suppressed[c] = true
			continue
		}

		revisits[c]++
		if revisits[c] > maxRevisits {
			// c's last write is not propagated, so every dependent not
			// already waiting in the queue is left unresolved with it.
			suppressed[c] = true
			for _, dep := range s.dependents(c) {
				if !queued[dep] {
					stale[dep] = true
				}
			}
			continue
		}
		delete(stale, c)

		for _, dep := range s.dependents(c) {
			if !queued[dep] && !suppressed[dep] {
				queue = append(queue, dep)
				queued[dep] = true
			}
		}
	}

	unresolved := make(map[Constraint]bool)
	for c := range suppressed {
		unresolved[c] = true
	}
	for c := range stale {
		unresolved[c] = true
	}
	for _, c := range queue {
		if queued[c] {
			unresolved[c] = true
		}
	}

	for v := range s.varIndex {
		v.MarkClean()
	}

	if len(unresolved) > 0 {
		out := make([]Constraint, 0, len(unresolved))
		for c := range unresolved {
			out = append(out, c)
		}
		return &UnresolvableConstraintsError{Constraints: out}
	}
	return nil
}

// dependents returns every other constraint that shares at least one Var
// with c, the set that may have become newly dirty as a side effect of
// resolving c.
func (s *Solver) dependents(c Constraint) []Constraint {
	seen := make(map[Constraint]bool)
	var out []Constraint
	for _, op := range c.Operands() {
		for _, v := range op.Vars() {
			for _, dep := range s.varIndex[v] {
				if dep == c || seen[dep] {
					continue
				}
				seen[dep] = true
				out = append(out, dep)
			}
		}
	}
	return out
}

func constraintDirty(c Constraint) bool {
	for _, op := range c.Operands() {
		for _, v := range op.Vars() {
			if v.Dirty() {
				return true
			}
		}
	}
	return false
}

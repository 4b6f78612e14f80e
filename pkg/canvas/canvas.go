package canvas

import (
	"fmt"

	"github.com/gaphor/gaphas/pkg/events"
	"github.com/gaphor/gaphas/pkg/item"
	"github.com/gaphor/gaphas/pkg/solver"
)

// Canvas owns one item tree, one solver, one connections registry, and
// one event bus, and is the unit a host builds a diagram against. None
// of Canvas's state is shared across Canvas instances; a process can
// hold as many independent canvases as it likes.
type Canvas struct {
	tree        *Tree
	solver      *solver.Solver
	connections *Connections
	bus         *events.Bus
	updating    bool
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	s := solver.NewSolver()
	return &Canvas{
		tree:        NewTree(),
		solver:      s,
		connections: NewConnections(s),
		bus:         events.NewBus(),
	}
}

// Solver returns the canvas's constraint solver, for callers that need
// to add or remove constraints directly (for example, a caller wiring a
// guide or an alignment constraint between two items).
func (c *Canvas) Solver() *solver.Solver { return c.solver }

// Bus returns the canvas's event bus, so a host can attach observers or
// subscribers before making mutations.
func (c *Canvas) Bus() *events.Bus { return c.bus }

// Tree returns the canvas's item tree for read-only traversal.
func (c *Canvas) Tree() *Tree { return c.tree }

// Connections returns the canvas's connection registry.
func (c *Canvas) Connections() *Connections { return c.connections }

// AddItem inserts it into the tree as a child of parent at index,
// registers its internal constraints with the solver, and emits an
// "add" event whose Revert removes it again. The tree mutation itself
// happens inside the event's commit, after observers have been
// notified and before subscribers are, so observers always see the
// pre-mutation tree.
func (c *Canvas) AddItem(it item.Item, parent item.Item, index int) error {
	if err := c.tree.CanAdd(it, parent); err != nil {
		return err
	}

	ev := events.Event{
		Op:       "add",
		Receiver: it,
		Args:     []any{parent, index},
		Revert:   func() { c.removeNoEvent(it) },
	}
	c.bus.Emit(ev, func() {
		_ = c.tree.Add(it, parent, index)
		for _, constraint := range it.Constraints() {
			c.solver.AddConstraint(constraint)
		}
	})
	return nil
}

// RemoveItem deletes it and every descendant from the tree, tears down
// every connection and internal constraint they held, and emits one
// "remove" event for it; descendants removed with it get no event of
// their own. As with AddItem, the removal itself
// happens inside the event's commit so observers see the tree as it
// stood immediately before removal.
func (c *Canvas) RemoveItem(it item.Item) error {
	if !c.tree.Contains(it) {
		return fmt.Errorf("canvas: item is not in the tree")
	}
	parent := c.tree.Parent(it)
	index := c.tree.IndexOf(it)

	ev := events.Event{
		Op:       "remove",
		Receiver: it,
		Args:     []any{parent, index},
		Revert:   func() { c.tree.Add(it, parent, index) },
	}
	c.bus.Emit(ev, func() {
		removed, _ := c.tree.Remove(it)
		for _, r := range removed {
			c.connections.RemoveItem(r)
			for _, constraint := range r.Constraints() {
				c.solver.RemoveConstraint(constraint)
			}
		}
	})
	return nil
}

func (c *Canvas) removeNoEvent(it item.Item) {
	removed, err := c.tree.Remove(it)
	if err != nil {
		return
	}
	for _, r := range removed {
		c.connections.RemoveItem(r)
		for _, constraint := range r.Constraints() {
			c.solver.RemoveConstraint(constraint)
		}
	}
}

// Reparent moves it under newParent at index, emitting a "reparent"
// event whose Revert restores its previous parent and index. Like
// AddItem and RemoveItem, the move happens inside the event's commit.
func (c *Canvas) Reparent(it item.Item, newParent item.Item, index int) error {
	if err := c.tree.CanReparent(it, newParent); err != nil {
		return err
	}
	oldParent := c.tree.Parent(it)
	oldIndex := c.tree.IndexOf(it)

	ev := events.Event{
		Op:       "reparent",
		Receiver: it,
		Args:     []any{newParent, index},
		Revert:   func() { c.tree.Reparent(it, oldParent, oldIndex) },
	}
	c.bus.Emit(ev, func() {
		_ = c.tree.Reparent(it, newParent, index)
	})
	return nil
}

// Connect glues handleIndex of it to port on connectedItem, adding the
// resulting constraint to the solver and emitting a "connect" event
// whose Revert disconnects it again.
func (c *Canvas) Connect(it item.Item, handleIndex int, connectedItem item.Item, port item.Port) error {
	var rec *ConnectionRecord
	disconnectCallback := func() {}

	ev := events.Event{
		Op:   "connect",
		Args: []any{handleIndex, connectedItem, port},
		Revert: func() {
			if rec != nil {
				c.connections.Disconnect(rec.Item, rec.HandleIndex)
			}
		},
	}
	ev.Receiver = it

	var connectErr error
	c.bus.Emit(ev, func() {
		rec, connectErr = c.connections.Connect(it, handleIndex, connectedItem, port, disconnectCallback)
	})
	return connectErr
}

// Disconnect removes the connection at (it, handleIndex), if any,
// emitting a "disconnect" event. Disconnecting an unconnected handle is
// a no-op, matching Connections.Disconnect.
func (c *Canvas) Disconnect(it item.Item, handleIndex int) {
	rec, ok := c.connections.Lookup(it, handleIndex)
	if !ok {
		return
	}

	ev := events.Event{
		Op:       "disconnect",
		Receiver: it,
		Args:     []any{handleIndex},
		Revert: func() {
			c.connections.Connect(rec.Item, rec.HandleIndex, rec.ConnectedItem, rec.Port, func() {})
		},
	}
	c.bus.Emit(ev, func() {
		c.connections.Disconnect(it, handleIndex)
	})
}

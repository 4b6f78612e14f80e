package canvas

import (
	"github.com/gaphor/gaphas/pkg/geometry"
	"github.com/gaphor/gaphas/pkg/item"
	"github.com/gaphor/gaphas/pkg/solver"
)

// ConnectionRecord is the stored form of one connection: which handle of
// which item is glued to which port of which other item, the constraint
// enforcing it, and the callback to run on disconnect. commonX/commonY
// project the connecting handle through its own item's matrix, so the
// constraint operates in the same common coordinate space as the port's
// own endpoints; the update pipeline marks them dirty on every matrix
// refresh alongside each item's own projections.
type ConnectionRecord struct {
	Item          item.Item
	HandleIndex   int
	ConnectedItem item.Item
	Port          item.Port
	Constraint    solver.Constraint
	Disconnect    func()

	commonX, commonY *geometry.MatrixProjection
}

// Projections returns every MatrixProjection built by this registry to
// express connecting handles in common coordinates.
func (c *Connections) Projections() []*geometry.MatrixProjection {
	var out []*geometry.MatrixProjection
	for _, rec := range c.byHandle {
		out = append(out, rec.commonX, rec.commonY)
	}
	return out
}

type connKey struct {
	item   item.ID
	handle int
}

// Connections is the registry of connection records, keyed by the
// stable (itemID, handleIndex) pair rather than by pointer, so items
// never need a back-reference into the registry.
type Connections struct {
	solver   *solver.Solver
	byHandle map[connKey]*ConnectionRecord
	byItemID map[item.ID][]*ConnectionRecord
}

// NewConnections returns an empty registry backed by s.
func NewConnections(s *solver.Solver) *Connections {
	return &Connections{
		solver:   s,
		byHandle: make(map[connKey]*ConnectionRecord),
		byItemID: make(map[item.ID][]*ConnectionRecord),
	}
}

// Connect registers a new connection from handleIndex of it to port on
// connectedItem, building the constraint through port.Constraint and
// adding it to the solver. It returns a DuplicateConnectionError if
// (it, handleIndex) already has a connection.
func (c *Connections) Connect(it item.Item, handleIndex int, connectedItem item.Item, port item.Port, disconnect func()) (*ConnectionRecord, error) {
	key := connKey{item: it.ID(), handle: handleIndex}
	if _, exists := c.byHandle[key]; exists {
		return nil, &DuplicateConnectionError{Item: it, HandleIndex: handleIndex}
	}

	// The connecting handle's common-space projection is pinned to Weak,
	// strictly below any port anchor's own strength (Normal, the default
	// NewHandle gives every corner/segment handle a port is built from).
	// This makes the Solver's target selection for the resulting
	// constraint structural: the connecting handle is always the weakest
	// operand and is always the one solved for, regardless of which item
	// happened to be constructed first and so carries the lower
	// tie-breaking write-serial.
	handle := it.Handles()[handleIndex]
	commonX, commonY := geometry.NewMatrixProjectionPairWithStrength(handle.Position, it.CanvasMatrix(), solver.Weak)
	commonPos := &solver.Position{X: commonX, Y: commonY}

	constraint := port.Constraint(commonPos)
	c.solver.AddConstraint(constraint)

	rec := &ConnectionRecord{
		Item:          it,
		HandleIndex:   handleIndex,
		ConnectedItem: connectedItem,
		Port:          port,
		Constraint:    constraint,
		Disconnect:    disconnect,
		commonX:       commonX,
		commonY:       commonY,
	}
	c.byHandle[key] = rec
	c.byItemID[it.ID()] = append(c.byItemID[it.ID()], rec)
	if connectedItem.ID() != it.ID() {
		c.byItemID[connectedItem.ID()] = append(c.byItemID[connectedItem.ID()], rec)
	}
	return rec, nil
}

// Disconnect removes the connection at (it, handleIndex), if any,
// removing its constraint from the solver and invoking its disconnect
// callback exactly once. Disconnecting an unconnected handle is a no-op.
func (c *Connections) Disconnect(it item.Item, handleIndex int) {
	key := connKey{item: it.ID(), handle: handleIndex}
	rec, ok := c.byHandle[key]
	if !ok {
		return
	}
	delete(c.byHandle, key)
	c.unindex(rec.Item.ID(), rec)
	if rec.ConnectedItem.ID() != rec.Item.ID() {
		c.unindex(rec.ConnectedItem.ID(), rec)
	}
	c.solver.RemoveConstraint(rec.Constraint)
	if rec.Disconnect != nil {
		rec.Disconnect()
	}
}

// RemoveItem disconnects every connection record referencing it, as
// either the connecting item or the connected-to item. Canvas calls
// this when an item leaves the tree.
func (c *Connections) RemoveItem(it item.Item) {
	for _, rec := range append([]*ConnectionRecord(nil), c.byItemID[it.ID()]...) {
		c.Disconnect(rec.Item, rec.HandleIndex)
	}
}

// SolvableConstraints returns the constraints anchored to it as the
// connecting item, for prioritized resolution.
func (c *Connections) SolvableConstraints(it item.Item) []solver.Constraint {
	var out []solver.Constraint
	for _, rec := range c.byItemID[it.ID()] {
		if rec.Item.ID() == it.ID() {
			out = append(out, rec.Constraint)
		}
	}
	return out
}

// Lookup returns the connection record for (it, handleIndex), if any.
func (c *Connections) Lookup(it item.Item, handleIndex int) (*ConnectionRecord, bool) {
	rec, ok := c.byHandle[connKey{item: it.ID(), handle: handleIndex}]
	return rec, ok
}

// Records returns every connection record currently registered, in no
// particular order, for callers (such as a drawing backend) that need
// to enumerate all connections rather than look one up.
func (c *Connections) Records() []*ConnectionRecord {
	out := make([]*ConnectionRecord, 0, len(c.byHandle))
	for _, rec := range c.byHandle {
		out = append(out, rec)
	}
	return out
}

func (c *Connections) unindex(id item.ID, target *ConnectionRecord) {
	recs := c.byItemID[id]
	out := recs[:0]
	for _, r := range recs {
		if r != target {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		delete(c.byItemID, id)
	} else {
		c.byItemID[id] = out
	}
}

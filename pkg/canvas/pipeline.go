package canvas

import (
	"github.com/gaphor/gaphas/pkg/geometry"
	"github.com/gaphor/gaphas/pkg/item"
)

// Update runs one full resolution pass over the canvas: pre-update
// hooks, a matrix refresh, constraint solving, handle normalization, a
// second matrix refresh, then post-update hooks. It returns a
// *solver.UnresolvableConstraintsError if solving failed to converge,
// and a ReentrantUpdateError if called while already running.
func (c *Canvas) Update(ctx item.Context) error {
	if c.updating {
		return &ReentrantUpdateError{}
	}
	c.updating = true
	defer func() { c.updating = false }()

	order := c.tree.Order()

	for _, it := range order {
		it.PreUpdate(ctx)
	}

	c.refreshMatrices(order)

	if err := c.solver.Solve(); err != nil {
		return err
	}

	normalize(order)
	c.refreshMatrices(order)

	for _, it := range order {
		it.PostUpdate(ctx)
	}
	return nil
}

// refreshMatrices recomputes every item's canvas-to-item matrix as the
// composition of its own local matrix with its parent's (already
// up-to-date, since order is depth-first and parents precede their
// children) canvas-to-item matrix, then marks every projection built
// against a changed matrix dirty: the item's own corner/handle
// projections and every connection anchored to it.
func (c *Canvas) refreshMatrices(order []item.Item) {
	for _, it := range order {
		local := *it.Matrix()
		if parent := c.tree.Parent(it); parent != nil {
			*it.CanvasMatrix() = local.Multiply(*parent.CanvasMatrix())
		} else {
			*it.CanvasMatrix() = local
		}

		if hp, ok := it.(item.HasProjections); ok {
			for _, p := range hp.Projections() {
				p.MarkMatrixDirty()
			}
		}
	}

	for _, p := range c.connections.Projections() {
		p.MarkMatrixDirty()
	}
}

// normalize translates each item's handles so its first handle sits at
// the item's local origin, folding the removed offset into the item's
// matrix so every point the item projects into common space is
// unchanged.
func normalize(order []item.Item) {
	for _, it := range order {
		hh, ok := it.(item.HasHandles)
		if !ok {
			continue
		}
		handles := hh.Handles()
		if len(handles) == 0 {
			continue
		}

		x0, y0 := handles[0].Position.Value()
		if x0 == 0 && y0 == 0 {
			continue
		}

		for _, h := range handles {
			hx, hy := h.Position.Value()
			h.Position.SetValue(hx-x0, hy-y0)
		}

		shift := geometry.NewMatrix(1, 0, 0, 1, x0, y0)
		m := it.Matrix()
		*m = shift.Multiply(*m)
	}
}

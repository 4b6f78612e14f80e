// Package item implements the placed objects of a diagram: handles,
// ports, and the two standard item shapes (Element and Line) built on
// top of package solver's constraint variables and package geometry's
// affine matrices.
package item

import (
	"context"

	"github.com/gaphor/gaphas/pkg/geometry"
	"github.com/gaphor/gaphas/pkg/solver"
)

// ID is a stable, opaque identifier minted by the item tree on Add. Items
// are keyed by ID rather than by pointer wherever a registry (the
// connections table, most prominently) needs to refer back to an item,
// so that items never carry a back-pointer into that registry.
type ID uint64

// Context is the measurement handle passed to an item's PreUpdate and
// PostUpdate hooks. The core never interprets it beyond carrying a
// cancellation signal and a text-measurement callback; the host supplies
// a concrete implementation (typically backed by its drawing toolkit).
type Context interface {
	context.Context
	Measure(text string) (width, height float64)
}

// Item is the protocol every placed object implements: an ordered list
// of Handles and Ports, a hit-test, and lifecycle hooks run by the
// update pipeline.
type Item interface {
	ID() ID
	Matrix() *geometry.Matrix
	CanvasMatrix() *geometry.Matrix
	Handles() []*Handle
	Ports() []Port
	Constraints() []solver.Constraint
	Point(x, y float64) float64
	PreUpdate(ctx Context)
	PostUpdate(ctx Context)
}

// HasHandles is satisfied by any item exposing movable handles; it is
// the same set of items that satisfies Item's Handles() method, named
// separately so capability-based dispatch (finding handles, computing
// guides) doesn't need to know about Port or lifecycle methods.
type HasHandles interface {
	Handles() []*Handle
}

// HasPorts is satisfied by any item exposing connectable ports.
type HasPorts interface {
	Ports() []Port
}

// Splittable is satisfied by items that can insert a new Handle into an
// existing segment, such as Line.
type Splittable interface {
	Split(afterHandle int) (*Handle, error)
}

// HasProjections is satisfied by items that expose MatrixProjections
// built against their own matrix, such as Element and Line. The update
// pipeline marks these dirty after recomputing an item's matrix so that
// cross-item constraints re-evaluate against the new transform.
type HasProjections interface {
	Projections() []*geometry.MatrixProjection
}

// Base holds the fields and default behavior common to every item kind.
// Element and Line embed Base and override Point, and add their own
// handles, ports, and internal constraints. initBase must be called once
// by every constructor before the item is used, since the zero value of
// geometry.Matrix is singular, not the identity an item starts at.
type Base struct {
	id           ID
	matrix       geometry.Matrix
	canvasMatrix geometry.Matrix
	handles      []*Handle
	ports        []Port
	constraints  []solver.Constraint
}

// initBase sets the item's local and canvas-to-item matrices to the
// identity. Called once by each concrete item's constructor.
func (b *Base) initBase() {
	b.matrix = geometry.Identity()
	b.canvasMatrix = geometry.Identity()
}

// ID returns the item's stable identifier, or 0 if it has not yet been
// added to a tree.
func (b *Base) ID() ID { return b.id }

// SetID assigns the item's identifier. It is called exactly once, by the
// tree, when the item is added.
func (b *Base) SetID(id ID) { b.id = id }

// Matrix returns a pointer to the item's local affine transform, relative
// to its parent (or to common space, for a root item). Hosts mutate this
// directly, e.g. to translate an item; the update pipeline's matrix
// refresh recomposes CanvasMatrix from it on the next Update.
func (b *Base) Matrix() *geometry.Matrix { return &b.matrix }

// CanvasMatrix returns a pointer to the item's canvas-to-item matrix: the
// composition of every ancestor's local matrix with this item's own,
// kept current by the update pipeline's matrix-refresh step. Every
// MatrixProjection built against this item reads and writes through this
// matrix, not the local one, so that cross-item constraints operate in a
// single shared common coordinate space regardless of tree depth.
func (b *Base) CanvasMatrix() *geometry.Matrix { return &b.canvasMatrix }

// Handles returns the item's ordered handle list.
func (b *Base) Handles() []*Handle { return b.handles }

// Ports returns the item's ordered port list.
func (b *Base) Ports() []Port { return b.ports }

// Constraints returns the constraints the item owns internally (for
// example, an Element's rectangularity constraints). These are added to
// the solver once, when the item joins a canvas.
func (b *Base) Constraints() []solver.Constraint { return b.constraints }

// PreUpdate is a no-op by default; item kinds override it to recompute
// derived state before the solver runs.
func (b *Base) PreUpdate(ctx Context) {}

// PostUpdate is a no-op by default.
func (b *Base) PostUpdate(ctx Context) {}

// Point returns the distance from (x, y), in the item's local
// coordinates, to the nearest handle. Element and Line override this
// with shape-specific hit-testing.
func (b *Base) Point(x, y float64) float64 {
	best := -1.0
	for _, h := range b.handles {
		hx, hy := h.Position.Value()
		d := distance(x, y, hx, hy)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

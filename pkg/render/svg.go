// Package render implements one concrete drawing-backend collaborator for
// a *canvas.Canvas: a read-only SVG export of a diagram's current state.
// Spec's drawing backend is named only as an external interface; this
// supplies a minimal, realistic instance of it so the engine is
// demonstrably exercisable end to end.
package render

import (
	"bytes"
	"fmt"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/gaphor/gaphas/pkg/canvas"
	"github.com/gaphor/gaphas/pkg/geometry"
	"github.com/gaphor/gaphas/pkg/item"
)

// Options configures an SVG export.
type Options struct {
	Width, Height int
	ShowHandles   bool
	Background    string
}

// DefaultOptions returns sensible export defaults.
func DefaultOptions() Options {
	return Options{
		Width:       1000,
		Height:      800,
		ShowHandles: true,
		Background:  "#1a1a2e",
	}
}

// ExportSVG renders every item's shape (an Element's rectangle, a Line's
// polyline) and every connection registered on c, in common coordinates,
// into an SVG byte slice. It does not mutate c and does not run Update;
// callers that want the rendered state to reflect a pending drag should
// call Canvas.Update first.
func ExportSVG(c *canvas.Canvas, opts Options) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("render: canvas cannot be nil")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}

	buf := new(bytes.Buffer)
	out := svg.New(buf)
	out.Start(opts.Width, opts.Height)
	if opts.Background != "" {
		out.Rect(0, 0, opts.Width, opts.Height, fmt.Sprintf("fill:%s", opts.Background))
	}

	order := c.Tree().Order()
	for _, it := range order {
		drawItem(out, it, opts)
	}
	drawConnections(out, c)

	out.End()
	return buf.Bytes(), nil
}

// SaveSVG renders c to an SVG file, writing the bytes through writeFile
// (typically os.WriteFile), so callers that never touch a filesystem can
// still exercise ExportSVG in tests.
func SaveSVG(c *canvas.Canvas, path string, opts Options, writeFile func(path string, data []byte) error) error {
	data, err := ExportSVG(c, opts)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func drawItem(out *svg.SVG, it item.Item, opts Options) {
	m := it.CanvasMatrix()

	if e, ok := it.(*item.Element); ok {
		drawElement(out, e, m)
	} else {
		drawPolyline(out, it.Handles(), m)
	}

	if opts.ShowHandles {
		for _, h := range it.Handles() {
			if !h.Visible {
				continue
			}
			hx, hy := h.Position.Value()
			cx, cy := m.Transform(hx, hy)
			out.Circle(int(cx), int(cy), 4, "fill:#f6e05e;stroke:#1a1a2e;stroke-width:1")
		}
	}
}

func drawElement(out *svg.SVG, e *item.Element, m *geometry.Matrix) {
	corners := e.Handles()
	xs := make([]int, len(corners))
	ys := make([]int, len(corners))
	for i, h := range corners {
		hx, hy := h.Position.Value()
		cx, cy := m.Transform(hx, hy)
		xs[i], ys[i] = int(cx), int(cy)
	}
	out.Polygon(xs, ys, "fill:#2d3748;stroke:#63b3ed;stroke-width:2")
}

func drawPolyline(out *svg.SVG, handles []*item.Handle, m *geometry.Matrix) {
	for i := 0; i+1 < len(handles); i++ {
		x0, y0 := handles[i].Position.Value()
		x1, y1 := handles[i+1].Position.Value()
		cx0, cy0 := m.Transform(x0, y0)
		cx1, cy1 := m.Transform(x1, y1)
		out.Line(int(cx0), int(cy0), int(cx1), int(cy1), "stroke:#e2e8f0;stroke-width:2")
	}
}

// drawConnections marks each connected handle's common-space position
// with a small ring, so a glued connection is visually distinct from an
// ordinary handle.
func drawConnections(out *svg.SVG, c *canvas.Canvas) {
	recs := c.Connections().Records()
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Item.ID() != recs[j].Item.ID() {
			return recs[i].Item.ID() < recs[j].Item.ID()
		}
		return recs[i].HandleIndex < recs[j].HandleIndex
	})
	for _, rec := range recs {
		h := rec.Item.Handles()[rec.HandleIndex]
		hx, hy := h.Position.Value()
		cx, cy := rec.Item.CanvasMatrix().Transform(hx, hy)
		out.Circle(int(cx), int(cy), 5, "fill:none;stroke:#f56565;stroke-width:2")
	}
}

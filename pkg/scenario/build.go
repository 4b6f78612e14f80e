package scenario

import (
	"fmt"

	"github.com/gaphor/gaphas/pkg/canvas"
	"github.com/gaphor/gaphas/pkg/item"
)

// Build constructs a fresh Canvas from cfg: every item is created and
// added to the tree (parents before their children, regardless of
// declaration order), then every connection is wired. It returns the
// canvas along with a lookup from each item's configured ID to the Item
// it built, so a caller (typically cmd/gaphasdemo) can refer back to a
// named item after Build returns.
func Build(cfg *Config) (*canvas.Canvas, map[string]item.Item, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("scenario: %w", err)
	}

	byID := make(map[string]*ItemCfg, len(cfg.Items))
	for i := range cfg.Items {
		byID[cfg.Items[i].ID] = &cfg.Items[i]
	}

	built := make(map[string]item.Item, len(cfg.Items))
	inProgress := make(map[string]bool, len(cfg.Items))
	c := canvas.NewCanvas()

	var add func(id string) error
	add = func(id string) error {
		if _, ok := built[id]; ok {
			return nil
		}
		if inProgress[id] {
			return fmt.Errorf("scenario: parent chain for item %q forms a cycle", id)
		}
		inProgress[id] = true
		itCfg := byID[id]

		var parent item.Item
		if itCfg.Parent != "" {
			if err := add(itCfg.Parent); err != nil {
				return err
			}
			parent = built[itCfg.Parent]
		}

		it, err := buildItem(itCfg)
		if err != nil {
			return fmt.Errorf("scenario: building item %q: %w", id, err)
		}
		if err := c.AddItem(it, parent, -1); err != nil {
			return fmt.Errorf("scenario: adding item %q: %w", id, err)
		}
		built[id] = it
		return nil
	}

	for i := range cfg.Items {
		if err := add(cfg.Items[i].ID); err != nil {
			return nil, nil, err
		}
	}

	for i, connCfg := range cfg.Connections {
		it := built[connCfg.Item]
		connectedItem := built[connCfg.ConnectedItem]
		port, err := resolvePort(connectedItem, connCfg.Port)
		if err != nil {
			return nil, nil, fmt.Errorf("scenario: connection[%d]: %w", i, err)
		}
		if err := c.Connect(it, connCfg.Handle, connectedItem, port); err != nil {
			return nil, nil, fmt.Errorf("scenario: connection[%d]: %w", i, err)
		}
	}

	return c, built, nil
}

func buildItem(cfg *ItemCfg) (item.Item, error) {
	switch cfg.Kind {
	case KindElement:
		return item.NewElement(cfg.X, cfg.Y, cfg.Width, cfg.Height, cfg.MinWidth, cfg.MinHeight), nil
	case KindLine:
		points := make([]item.Point, len(cfg.Points))
		for i, p := range cfg.Points {
			points[i] = item.Point{X: p[0], Y: p[1]}
		}
		l, err := item.NewLine(points)
		if err != nil {
			return nil, err
		}
		if cfg.Orthogonal {
			l.SetOrthogonal(true)
		}
		if cfg.Horizontal {
			l.SetHorizontal(true)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q", cfg.Kind)
	}
}

var edgeByName = map[string]int{
	"top":    item.EdgeTop,
	"right":  item.EdgeRight,
	"bottom": item.EdgeBottom,
	"left":   item.EdgeLeft,
}

func resolvePort(connectedItem item.Item, ref PortRef) (item.Port, error) {
	ports := connectedItem.Ports()
	if ref.Edge != "" {
		idx, ok := edgeByName[ref.Edge]
		if !ok {
			return nil, fmt.Errorf("unknown port edge %q", ref.Edge)
		}
		if idx >= len(ports) {
			return nil, fmt.Errorf("edge %q has no matching port on this item", ref.Edge)
		}
		return ports[idx], nil
	}
	if ref.Point < 0 || ref.Point >= len(ports) {
		return nil, fmt.Errorf("port index %d out of range (item has %d ports)", ref.Point, len(ports))
	}
	return ports[ref.Point], nil
}

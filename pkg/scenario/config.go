// Package scenario loads a demo diagram from YAML: a set of items, their
// initial geometry, and the connections wiring them together. It does
// not persist a live Canvas's state — there is no reverse direction, a
// Config only ever builds a fresh Canvas.
package scenario

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ItemKind names the shape a scenario item builds.
type ItemKind string

const (
	KindElement ItemKind = "element"
	KindLine    ItemKind = "line"
)

// ItemCfg describes one item to place on the canvas.
type ItemCfg struct {
	ID     string   `yaml:"id"`
	Kind   ItemKind `yaml:"kind"`
	Parent string   `yaml:"parent,omitempty"`

	// Element fields.
	X         float64 `yaml:"x,omitempty"`
	Y         float64 `yaml:"y,omitempty"`
	Width     float64 `yaml:"width,omitempty"`
	Height    float64 `yaml:"height,omitempty"`
	MinWidth  float64 `yaml:"minWidth,omitempty"`
	MinHeight float64 `yaml:"minHeight,omitempty"`

	// Line fields.
	Points     [][2]float64 `yaml:"points,omitempty"`
	Orthogonal bool         `yaml:"orthogonal,omitempty"`
	Horizontal bool         `yaml:"horizontal,omitempty"`
}

// PortRef names a connectable region on an item, by edge name for an
// Element or otherwise by index into the item's port list (for a Line,
// port i is the segment from handle i to handle i+1).
type PortRef struct {
	Edge  string `yaml:"edge,omitempty"`  // "top", "right", "bottom", "left"
	Point int    `yaml:"point,omitempty"` // index into the item's Ports(), used when Edge is empty
}

// ConnectionCfg wires handleIndex of item to the named port of
// connectedItem.
type ConnectionCfg struct {
	Item          string  `yaml:"item"`
	Handle        int     `yaml:"handle"`
	ConnectedItem string  `yaml:"connectedItem"`
	Port          PortRef `yaml:"port"`
}

// Config is a complete scenario: a seed (set to the seed a -stress
// scenario was synthesized from, so both sources of demo input share one
// shape; Build does not read it), a set of items, and the connections
// between them.
type Config struct {
	Seed        uint64          `yaml:"seed"`
	Items       []ItemCfg       `yaml:"items"`
	Connections []ConnectionCfg `yaml:"connections,omitempty"`
}

// LoadConfig reads and validates a YAML scenario file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses and validates YAML scenario data.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scenario: parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every item ID is unique and present, parent and
// connection references resolve to a declared item, and each item's
// shape-specific fields are well formed.
func (c *Config) Validate() error {
	if len(c.Items) == 0 {
		return fmt.Errorf("at least one item must be specified")
	}

	ids := make(map[string]*ItemCfg, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		if it.ID == "" {
			return fmt.Errorf("item[%d]: id is required", i)
		}
		if _, dup := ids[it.ID]; dup {
			return fmt.Errorf("item[%d]: duplicate id %q", i, it.ID)
		}
		ids[it.ID] = it
	}

	for i, it := range c.Items {
		switch it.Kind {
		case KindElement:
			if it.Width <= 0 || it.Height <= 0 {
				return fmt.Errorf("item[%d] %q: element width and height must be positive", i, it.ID)
			}
		case KindLine:
			if len(it.Points) < 2 {
				return fmt.Errorf("item[%d] %q: line needs at least 2 points, got %d", i, it.ID, len(it.Points))
			}
		default:
			return fmt.Errorf("item[%d] %q: unknown kind %q", i, it.ID, it.Kind)
		}
		if it.Parent != "" {
			if _, ok := ids[it.Parent]; !ok {
				return fmt.Errorf("item[%d] %q: parent %q is not a declared item", i, it.ID, it.Parent)
			}
		}
	}

	for id, it := range ids {
		seen := map[string]bool{id: true}
		for cur := it; cur.Parent != ""; cur = ids[cur.Parent] {
			if seen[cur.Parent] {
				return fmt.Errorf("item %q: parent chain forms a cycle", id)
			}
			seen[cur.Parent] = true
		}
	}

	for i, conn := range c.Connections {
		if _, ok := ids[conn.Item]; !ok {
			return fmt.Errorf("connection[%d]: item %q is not a declared item", i, conn.Item)
		}
		if _, ok := ids[conn.ConnectedItem]; !ok {
			return fmt.Errorf("connection[%d]: connectedItem %q is not a declared item", i, conn.ConnectedItem)
		}
		if conn.Handle < 0 {
			return fmt.Errorf("connection[%d]: handle index must be >= 0", i)
		}
	}

	return nil
}

// Hash returns a content hash of the configuration, computed over its
// canonical YAML encoding so the same scenario always hashes the same
// way regardless of how it was constructed.
func (c *Config) Hash() ([]byte, error) {
	data, err := c.toYAML()
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(data)
	return h[:], nil
}

func (c *Config) toYAML() ([]byte, error) {
	// Connections are sorted so Hash is stable regardless of the order a
	// caller appended them in after loading.
	sorted := *c
	sorted.Connections = append([]ConnectionCfg(nil), c.Connections...)
	sort.Slice(sorted.Connections, func(i, j int) bool {
		if sorted.Connections[i].Item != sorted.Connections[j].Item {
			return sorted.Connections[i].Item < sorted.Connections[j].Item
		}
		return sorted.Connections[i].Handle < sorted.Connections[j].Handle
	})
	return yaml.Marshal(&sorted)
}

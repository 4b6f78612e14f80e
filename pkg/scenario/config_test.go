package scenario_test

import (
	"context"
	"testing"

	"github.com/gaphor/gaphas/pkg/item"
	"github.com/gaphor/gaphas/pkg/scenario"
)

type testContext struct {
	context.Context
}

func (testContext) Measure(text string) (float64, float64) {
	return float64(len(text)) * 6, 14
}

const validYAML = `
items:
  - id: box
    kind: element
    x: 0
    y: 0
    width: 100
    height: 60
    minWidth: 10
    minHeight: 10
  - id: wire
    kind: line
    points: [[0, 0], [150, 80]]
connections:
  - item: wire
    handle: 1
    connectedItem: box
    port:
      edge: top
`

func TestLoadConfigFromBytesValid(t *testing.T) {
	cfg, err := scenario.LoadConfigFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes: %v", err)
	}
	if len(cfg.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(cfg.Items))
	}
}

func TestValidateRejectsDuplicateID(t *testing.T) {
	cfg := &scenario.Config{Items: []scenario.ItemCfg{
		{ID: "a", Kind: scenario.KindElement, Width: 10, Height: 10},
		{ID: "a", Kind: scenario.KindElement, Width: 10, Height: 10},
	}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for duplicate item ids")
	}
}

func TestValidateRejectsUnknownParent(t *testing.T) {
	cfg := &scenario.Config{Items: []scenario.ItemCfg{
		{ID: "a", Kind: scenario.KindElement, Width: 10, Height: 10, Parent: "missing"},
	}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unresolvable parent reference")
	}
}

func TestValidateRejectsParentCycle(t *testing.T) {
	cfg := &scenario.Config{Items: []scenario.ItemCfg{
		{ID: "a", Kind: scenario.KindElement, Width: 10, Height: 10, Parent: "b"},
		{ID: "b", Kind: scenario.KindElement, Width: 10, Height: 10, Parent: "a"},
	}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a cyclic parent chain")
	}
}

func TestValidateRejectsUnresolvableConnection(t *testing.T) {
	cfg := &scenario.Config{
		Items: []scenario.ItemCfg{
			{ID: "a", Kind: scenario.KindElement, Width: 10, Height: 10},
		},
		Connections: []scenario.ConnectionCfg{
			{Item: "a", Handle: 0, ConnectedItem: "missing"},
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a connection naming an undeclared item")
	}
}

func TestHashIsStableUnderConnectionReordering(t *testing.T) {
	base := scenario.Config{
		Items: []scenario.ItemCfg{
			{ID: "a", Kind: scenario.KindElement, Width: 10, Height: 10},
			{ID: "b", Kind: scenario.KindElement, Width: 10, Height: 10},
		},
	}

	c1 := base
	c1.Connections = []scenario.ConnectionCfg{
		{Item: "a", Handle: 0, ConnectedItem: "b", Port: scenario.PortRef{Edge: "top"}},
		{Item: "b", Handle: 1, ConnectedItem: "a", Port: scenario.PortRef{Edge: "left"}},
	}

	c2 := base
	c2.Connections = []scenario.ConnectionCfg{
		{Item: "b", Handle: 1, ConnectedItem: "a", Port: scenario.PortRef{Edge: "left"}},
		{Item: "a", Handle: 0, ConnectedItem: "b", Port: scenario.PortRef{Edge: "top"}},
	}

	h1, err := c1.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := c2.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if string(h1) != string(h2) {
		t.Error("Hash should not depend on connection declaration order")
	}
}

func TestBuildConstructsConnectedCanvas(t *testing.T) {
	cfg, err := scenario.LoadConfigFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes: %v", err)
	}

	c, items, err := scenario.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := items["box"].(*item.Element); !ok {
		t.Error("expected box to build an *item.Element")
	}
	if _, ok := items["wire"].(*item.Line); !ok {
		t.Error("expected wire to build an *item.Line")
	}
	if len(c.Tree().Order()) != 2 {
		t.Fatalf("len(Tree().Order()) = %d, want 2", len(c.Tree().Order()))
	}
	if err := c.Update(testContext{context.Background()}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestBuildAddsParentsBeforeChildren(t *testing.T) {
	cfg := &scenario.Config{
		Items: []scenario.ItemCfg{
			{ID: "child", Kind: scenario.KindElement, Width: 10, Height: 10, Parent: "parent"},
			{ID: "parent", Kind: scenario.KindElement, X: 50, Y: 50, Width: 100, Height: 100},
		},
	}

	c, items, err := scenario.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Tree().Parent(items["child"]) != items["parent"] {
		t.Error("expected child's tree parent to be parent, regardless of declaration order")
	}
}

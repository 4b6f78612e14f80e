// Package canvas implements the item forest, the connections registry,
// and the update pipeline that together keep a diagram's items
// mathematically consistent.
package canvas

import (
	"fmt"

	"github.com/gaphor/gaphas/pkg/item"
)

type treeNode struct {
	item     item.Item
	parent   *treeNode
	children []*treeNode
}

// Tree is an ordered forest of items with a unique root sequence,
// iterated depth-first in insertion-stable order. It mints the stable
// ID each item carries once added; items are looked up by that ID or by
// their own identity, never by position.
type Tree struct {
	byItem map[item.Item]*treeNode
	byID   map[item.ID]*treeNode
	roots  []*treeNode
	nextID item.ID
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		byItem: make(map[item.Item]*treeNode),
		byID:   make(map[item.ID]*treeNode),
	}
}

type idSetter interface {
	SetID(item.ID)
}

// Add inserts it as a child of parent at index (appended if index < 0 or
// past the end), minting a fresh ID for it. If parent is nil, it becomes
// a new root. Adding an item already in the tree is an error.
func (t *Tree) Add(it item.Item, parent item.Item, index int) error {
	if _, exists := t.byItem[it]; exists {
		return fmt.Errorf("canvas: item is already in the tree")
	}

	var pn *treeNode
	if parent != nil {
		var ok bool
		pn, ok = t.byItem[parent]
		if !ok {
			return fmt.Errorf("canvas: parent is not in the tree")
		}
	}

	t.nextID++
	id := t.nextID
	if setter, ok := it.(idSetter); ok {
		setter.SetID(id)
	}

	node := &treeNode{item: it, parent: pn}
	if pn != nil {
		pn.children = insertNode(pn.children, node, index)
	} else {
		t.roots = insertNode(t.roots, node, index)
	}

	t.byItem[it] = node
	t.byID[id] = node
	return nil
}

// Remove deletes it and every descendant from the tree, returning the
// full set of removed items (it first, then its descendants in
// depth-first order) so the caller can cascade connection cleanup.
func (t *Tree) Remove(it item.Item) ([]item.Item, error) {
	node, ok := t.byItem[it]
	if !ok {
		return nil, fmt.Errorf("canvas: item is not in the tree")
	}

	if node.parent != nil {
		node.parent.children = removeNode(node.parent.children, node)
	} else {
		t.roots = removeNode(t.roots, node)
	}

	var removed []item.Item
	var collect func(n *treeNode)
	collect = func(n *treeNode) {
		removed = append(removed, n.item)
		delete(t.byItem, n.item)
		delete(t.byID, n.item.ID())
		for _, c := range n.children {
			collect(c)
		}
	}
	collect(node)
	return removed, nil
}

// Reparent moves it to become a child of newParent at index, preserving
// its ID and subtree. newParent nil makes it a new root. Reparenting an
// item under itself or one of its own descendants is rejected.
func (t *Tree) Reparent(it item.Item, newParent item.Item, index int) error {
	node, ok := t.byItem[it]
	if !ok {
		return fmt.Errorf("canvas: item is not in the tree")
	}

	var pn *treeNode
	if newParent != nil {
		if newParent == it {
			return fmt.Errorf("canvas: cannot reparent an item under itself")
		}
		var ok bool
		pn, ok = t.byItem[newParent]
		if !ok {
			return fmt.Errorf("canvas: new parent is not in the tree")
		}
		if isDescendant(node, pn) {
			return fmt.Errorf("canvas: cannot reparent an item under its own descendant")
		}
	}

	if node.parent != nil {
		node.parent.children = removeNode(node.parent.children, node)
	} else {
		t.roots = removeNode(t.roots, node)
	}

	node.parent = pn
	if pn != nil {
		pn.children = insertNode(pn.children, node, index)
	} else {
		t.roots = insertNode(t.roots, node, index)
	}
	return nil
}

// CanAdd reports whether Add(it, parent, _) would succeed, without
// mutating the tree. Canvas uses this to validate a mutation before
// emitting its observable event, so observers never see a notification
// for an add that turns out to be rejected.
func (t *Tree) CanAdd(it item.Item, parent item.Item) error {
	if _, exists := t.byItem[it]; exists {
		return fmt.Errorf("canvas: item is already in the tree")
	}
	if parent != nil {
		if _, ok := t.byItem[parent]; !ok {
			return fmt.Errorf("canvas: parent is not in the tree")
		}
	}
	return nil
}

// CanReparent reports whether Reparent(it, newParent, _) would succeed,
// without mutating the tree.
func (t *Tree) CanReparent(it item.Item, newParent item.Item) error {
	node, ok := t.byItem[it]
	if !ok {
		return fmt.Errorf("canvas: item is not in the tree")
	}
	if newParent != nil {
		if newParent == it {
			return fmt.Errorf("canvas: cannot reparent an item under itself")
		}
		pn, ok := t.byItem[newParent]
		if !ok {
			return fmt.Errorf("canvas: new parent is not in the tree")
		}
		if isDescendant(node, pn) {
			return fmt.Errorf("canvas: cannot reparent an item under its own descendant")
		}
	}
	return nil
}

// Parent returns it's parent, or nil if it is a root.
func (t *Tree) Parent(it item.Item) item.Item {
	node, ok := t.byItem[it]
	if !ok || node.parent == nil {
		return nil
	}
	return node.parent.item
}

// IndexOf returns it's position among its siblings.
func (t *Tree) IndexOf(it item.Item) int {
	node, ok := t.byItem[it]
	if !ok {
		return -1
	}
	siblings := t.roots
	if node.parent != nil {
		siblings = node.parent.children
	}
	for i, n := range siblings {
		if n == node {
			return i
		}
	}
	return -1
}

// ItemByID looks up an item by its stable ID.
func (t *Tree) ItemByID(id item.ID) (item.Item, bool) {
	node, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return node.item, true
}

// Contains reports whether it is currently in the tree.
func (t *Tree) Contains(it item.Item) bool {
	_, ok := t.byItem[it]
	return ok
}

// Order returns every item in depth-first, insertion-stable order.
func (t *Tree) Order() []item.Item {
	var out []item.Item
	var walk func(nodes []*treeNode)
	walk = func(nodes []*treeNode) {
		for _, n := range nodes {
			out = append(out, n.item)
			walk(n.children)
		}
	}
	walk(t.roots)
	return out
}

func isDescendant(ancestor, node *treeNode) bool {
	for n := node; n != nil; n = n.parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

func insertNode(nodes []*treeNode, node *treeNode, index int) []*treeNode {
	if index < 0 || index >= len(nodes) {
		return append(nodes, node)
	}
	nodes = append(nodes, nil)
	copy(nodes[index+1:], nodes[index:])
	nodes[index] = node
	return nodes
}

func removeNode(nodes []*treeNode, target *treeNode) []*treeNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

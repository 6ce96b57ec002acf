package semantic

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

var ErrNotFound = errors.New("node not found")

// Tree is the node registry for one build. Nodes are created only through
// its factory methods and are never removed.
type Tree struct {
	nodes map[ID]*Node
	ids   *roaring.Bitmap
	next  ID

	Root ID
}

func NewTree() *Tree {
	return &Tree{
		nodes: make(map[ID]*Node),
		ids:   roaring.New(),
		Root:  NoID,
	}
}

func (t *Tree) register(id ID) *Node {
	n := &Node{
		ID:           id,
		FencePointer: NoID,
		Parent:       NoID,
	}
	t.nodes[id] = n
	t.ids.Add(uint32(id))
	if id >= t.next {
		t.next = id + 1
	}
	return n
}

func (t *Tree) fresh() *Node {
	return t.register(t.next)
}

// CreateNode registers a node under an externally chosen id. If the id is
// already registered the existing node is returned, so repeated references
// to one id share a node.
func (t *Tree) CreateNode(id ID) *Node {
	if n, ok := t.nodes[id]; ok {
		return n
	}
	return t.register(id)
}

// MakeLeaf creates a text-bearing node. Callers assign Type and Role.
func (t *Tree) MakeLeaf(text string, font Font) *Node {
	n := t.fresh()
	n.TextContent = text
	n.Font = font
	return n
}

// MakeBranch creates a structural node and wires parents of its children
// and content.
func (t *Tree) MakeBranch(typ Type, children, content []*Node) *Node {
	n := t.fresh()
	n.Type = typ
	t.SetChildren(n, children)
	t.SetContent(n, content)
	return n
}

// MakeEmpty creates a placeholder for an absent operand.
func (t *Tree) MakeEmpty() *Node {
	n := t.fresh()
	n.Type = TypeEmpty
	return n
}

// MakeUnprocessed creates the fallback node for unrecognized input. The raw
// tag becomes the role.
func (t *Tree) MakeUnprocessed(origin *Origin) *Node {
	n := t.fresh()
	n.Type = TypeUnknown
	n.Role = RoleUnknown
	if origin != nil {
		n.Role = Role(origin.Tag)
		n.Origin = origin
	}
	return n
}

// MakeComma creates an invisible separator.
func (t *Tree) MakeComma() *Node {
	n := t.fresh()
	n.UpdateContent(InvisibleComma, true)
	return n
}

// SetChildren replaces n's children.
func (t *Tree) SetChildren(n *Node, children []*Node) {
	n.Children = make([]ID, 0, len(children))
	for _, c := range children {
		c.Parent = n.ID
		n.Children = append(n.Children, c.ID)
	}
}

// SetContent replaces n's content nodes.
func (t *Tree) SetContent(n *Node, content []*Node) {
	n.Content = make([]ID, 0, len(content))
	for _, c := range content {
		c.Parent = n.ID
		n.Content = append(n.Content, c.ID)
	}
}

// ReplaceChild swaps old for replacement in n's children.
func (t *Tree) ReplaceChild(n, old, replacement *Node) {
	for i, id := range n.Children {
		if id == old.ID {
			n.Children[i] = replacement.ID
			replacement.Parent = n.ID
			return
		}
	}
}

// Node returns the node registered under id.
func (t *Tree) Node(id ID) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return n, nil
}

// Get is Node without the error; nil when absent.
func (t *Tree) Get(id ID) *Node {
	return t.nodes[id]
}

// Has reports whether id is registered.
func (t *Tree) Has(id ID) bool {
	return id >= 0 && t.ids.Contains(uint32(id))
}

// RootNode returns the root, or nil for an empty tree.
func (t *Tree) RootNode() *Node {
	return t.nodes[t.Root]
}

// Children resolves n's children.
func (t *Tree) Children(n *Node) []*Node {
	return t.resolve(n.Children)
}

// Content resolves n's content nodes.
func (t *Tree) Content(n *Node) []*Node {
	return t.resolve(n.Content)
}

// Child returns n's i-th child or nil.
func (t *Tree) Child(n *Node, i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return t.nodes[n.Children[i]]
}

func (t *Tree) resolve(ids []ID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n := t.nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Len is the number of registered nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// IDs lists registered ids in ascending order.
func (t *Tree) IDs() []ID {
	raw := t.ids.ToArray()
	out := make([]ID, len(raw))
	for i, v := range raw {
		out[i] = ID(v)
	}
	return out
}

// Walk visits the subtree under id in preorder, children only.
func (t *Tree) Walk(id ID, fn func(n *Node) bool) {
	n := t.nodes[id]
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		t.Walk(c, fn)
	}
}

// Validate checks the registry invariants reachable from the root: every
// referenced id is registered and appears in at most one children list and
// at most one content list.
func (t *Tree) Validate() error {
	if t.Root == NoID {
		return nil
	}
	if !t.Has(t.Root) {
		return fmt.Errorf("root: %w: %d", ErrNotFound, t.Root)
	}
	asChild := roaring.New()
	asContent := roaring.New()
	visited := roaring.New()
	var visit func(id ID) error
	visit = func(id ID) error {
		if !visited.CheckedAdd(uint32(id)) {
			return nil
		}
		n := t.nodes[id]
		for _, c := range n.Children {
			if !t.Has(c) {
				return fmt.Errorf("child of %d: %w: %d", id, ErrNotFound, c)
			}
			if !asChild.CheckedAdd(uint32(c)) {
				return fmt.Errorf("node %d is a child more than once", c)
			}
			if err := visit(c); err != nil {
				return err
			}
		}
		for _, c := range n.Content {
			if !t.Has(c) {
				return fmt.Errorf("content of %d: %w: %d", id, ErrNotFound, c)
			}
			if !asContent.CheckedAdd(uint32(c)) {
				return fmt.Errorf("node %d is content more than once", c)
			}
			if err := visit(c); err != nil {
				return err
			}
		}
		if n.Type == TypeTensor && len(n.Children) != 5 {
			return fmt.Errorf("tensor %d has %d children", id, len(n.Children))
		}
		return nil
	}
	return visit(t.Root)
}

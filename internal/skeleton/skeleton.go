// Package skeleton encodes how semantic nodes were folded into a single
// presentational element, as nested id lists such as "(5 (c 6) 1 (7 2 3))".
package skeleton

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/semtree/internal/semantic"
)

var ErrRepeatedID = errors.New("skeleton repeats an id")

// Kind distinguishes the three shapes of a skeleton value.
type Kind int

const (
	Simple    Kind = iota // bare id
	Composite             // (id child...)
	Content               // (c id...), only as the first item of a composite
)

// Skeleton is one value of the encoding. Content lists have no ID.
type Skeleton struct {
	ID    semantic.ID
	Kind  Kind
	Items []*Skeleton
}

func Leaf(id semantic.ID) *Skeleton {
	return &Skeleton{ID: id, Kind: Simple}
}

func Node(id semantic.ID, items ...*Skeleton) *Skeleton {
	return &Skeleton{ID: id, Kind: Composite, Items: items}
}

func ContentList(ids ...semantic.ID) *Skeleton {
	s := &Skeleton{ID: semantic.NoID, Kind: Content}
	for _, id := range ids {
		s.Items = append(s.Items, Leaf(id))
	}
	return s
}

func (s *Skeleton) IsSimple() bool  { return s != nil && s.Kind == Simple }
func (s *Skeleton) IsContent() bool { return s != nil && s.Kind == Content }

// IsPunctuated holds for a composite whose first item is a content list.
func (s *Skeleton) IsPunctuated() bool {
	return s != nil && s.Kind == Composite && len(s.Items) > 0 && s.Items[0].IsContent()
}

// Item returns the i-th item of a composite, or nil.
func (s *Skeleton) Item(i int) *Skeleton {
	if s == nil || i < 0 || i >= len(s.Items) {
		return nil
	}
	return s.Items[i]
}

// Children returns the child items of a composite, skipping a leading
// content list.
func (s *Skeleton) Children() []*Skeleton {
	if s.IsPunctuated() {
		return s.Items[1:]
	}
	return s.Items
}

// ContentIDs returns the ids of the leading content list, if any.
func (s *Skeleton) ContentIDs() []semantic.ID {
	if !s.IsPunctuated() {
		return nil
	}
	out := make([]semantic.ID, 0, len(s.Items[0].Items))
	for _, it := range s.Items[0].Items {
		out = append(out, it.ID)
	}
	return out
}

// IDs lists every id in the value in reading order.
func (s *Skeleton) IDs() []semantic.ID {
	var out []semantic.ID
	var walk func(*Skeleton)
	walk = func(v *Skeleton) {
		if v.Kind != Content {
			out = append(out, v.ID)
		}
		for _, it := range v.Items {
			walk(it)
		}
	}
	walk(s)
	return out
}

// Validate rejects values that repeat an id.
func (s *Skeleton) Validate() error {
	seen := roaring.New()
	for _, id := range s.IDs() {
		if id < 0 || !seen.CheckedAdd(uint32(id)) {
			return fmt.Errorf("%w: %d", ErrRepeatedID, id)
		}
	}
	return nil
}

func (s *Skeleton) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Skeleton) write(b *strings.Builder) {
	switch s.Kind {
	case Simple:
		b.WriteString(strconv.Itoa(int(s.ID)))
		return
	case Content:
		b.WriteString("(c")
	case Composite:
		b.WriteString("(")
		b.WriteString(strconv.Itoa(int(s.ID)))
	}
	for _, it := range s.Items {
		b.WriteByte(' ')
		it.write(b)
	}
	b.WriteByte(')')
}

// FromNode serialises the structure under id. The root is always expanded;
// below it, only nodes for which expand returns true are expanded, all
// others appear as bare ids. Expanded punctuated nodes lead with their
// content list.
func FromNode(t *semantic.Tree, id semantic.ID, expand func(*semantic.Node) bool) *Skeleton {
	n := t.Get(id)
	if n == nil {
		return Leaf(id)
	}
	return fromNode(t, n, expand)
}

func fromNode(t *semantic.Tree, n *semantic.Node, expand func(*semantic.Node) bool) *Skeleton {
	if len(n.Children) == 0 && len(n.Content) == 0 {
		return Leaf(n.ID)
	}
	s := Node(n.ID)
	if n.Type == semantic.TypePunctuated && len(n.Content) > 0 {
		s.Items = append(s.Items, ContentList(n.Content...))
	}
	for _, c := range t.Children(n) {
		if expand(c) {
			s.Items = append(s.Items, fromNode(t, c, expand))
		} else {
			s.Items = append(s.Items, Leaf(c.ID))
		}
	}
	return s
}

// Rewire sets the children of every composite in the value to the nodes
// its items name. Unregistered ids are skipped.
func (s *Skeleton) Rewire(t *semantic.Tree) *semantic.Node {
	if s.Kind != Composite {
		return t.Get(s.ID)
	}
	parent := t.Get(s.ID)
	if parent == nil {
		return nil
	}
	var children []*semantic.Node
	for _, it := range s.Children() {
		if c := it.Rewire(t); c != nil {
			children = append(children, c)
		}
	}
	t.SetChildren(parent, children)
	return parent
}

// Package enrich writes a semantic tree onto a fresh presentational element
// tree. Every node that cannot be synthesized again from its parent gets an
// element carrying its data-semantic-* attributes; folded composites carry a
// collapse skeleton instead of elements for their synthesized parts.
package enrich

import (
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/semtree/api"
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/agentic-research/semtree/internal/skeleton"
)

// Enrich renders t as an annotated math element.
func Enrich(t *semantic.Tree) *mathml.Element {
	root := t.RootNode()
	if root == nil {
		return mathml.NewElement("math", nil)
	}
	e := &enricher{t: t, folded: roaring.New(), emitted: roaring.New()}
	e.fold(root)
	el := e.emit(root, nil)
	if el.Name != "math" {
		el = mathml.NewElement("math", nil, el)
	}
	el.Reindex()
	return el
}

type enricher struct {
	t *semantic.Tree
	// nodes that the reverse builder re-synthesizes from a skeleton
	folded  *roaring.Bitmap
	emitted *roaring.Bitmap
}

func (e *enricher) isFolded(n *semantic.Node) bool {
	return n != nil && e.folded.Contains(uint32(n.ID))
}

// fold marks every foldable node under n.
func (e *enricher) fold(n *semantic.Node) {
	switch n.Type {
	case semantic.TypeSuperscript:
		if inner := e.t.Child(n, 0); subsupInner(n, inner) {
			e.folded.Add(uint32(inner.ID))
		}
	case semantic.TypeUnderscore, semantic.TypeOverscore:
		if inner := e.t.Child(n, 0); e.underoverInner(n, inner) {
			e.folded.Add(uint32(inner.ID))
		}
	}
	for i, role := range IndexSlots(n.Type) {
		idx := e.t.Child(n, i)
		if idx == nil || !e.synthesizedIndex(idx, role) {
			continue
		}
		e.folded.Add(uint32(idx.ID))
		for _, c := range idx.Content {
			e.folded.Add(uint32(c))
		}
	}
	for _, c := range e.t.Children(n) {
		e.fold(c)
	}
	for _, c := range e.t.Content(n) {
		e.fold(c)
	}
}

// IndexSlots maps child positions of script and tensor types to the role a
// synthesized index in that position carries.
func IndexSlots(t semantic.Type) map[int]semantic.Role {
	switch t {
	case semantic.TypeSubscript:
		return map[int]semantic.Role{1: semantic.RoleRightSub}
	case semantic.TypeSuperscript:
		return map[int]semantic.Role{1: semantic.RoleRightSuper}
	case semantic.TypeTensor:
		return map[int]semantic.Role{
			1: semantic.RoleLeftSub,
			2: semantic.RoleLeftSuper,
			3: semantic.RoleRightSub,
			4: semantic.RoleRightSuper,
		}
	}
	return nil
}

// synthesized reports whether n has exactly the fields the reverse builder
// gives a node it creates from a skeleton reference.
func synthesized(n *semantic.Node, typ semantic.Type, role semantic.Role) bool {
	return n.Origin == nil && n.Type == typ && n.Role == role &&
		n.Font == semantic.FontNone && n.Embellished == semantic.TypeNone &&
		n.FencePointer == semantic.NoID && n.TextContent == "" && len(n.Annotation) == 0
}

func (e *enricher) synthesizedIndex(n *semantic.Node, role semantic.Role) bool {
	if synthesized(n, semantic.TypeEmpty, role) {
		return n.IsLeaf()
	}
	if !synthesized(n, semantic.TypePunctuated, role) || len(n.Content) == 0 {
		return false
	}
	for _, c := range e.t.Content(n) {
		if c.Origin != nil || !c.IsLeaf() || c.Type != semantic.TypePunctuation ||
			c.Role != semantic.RoleDummy || c.Font != semantic.FontNone ||
			c.TextContent != semantic.InvisibleComma || slices.Contains(n.Children, c.ID) {
			return false
		}
	}
	return len(n.Children) == len(n.Content)+1
}

// subsupInner holds for the subscript that msubsup processing nests inside
// a superscript.
func subsupInner(outer, inner *semantic.Node) bool {
	return inner != nil && len(inner.Children) == 2 && len(inner.Content) == 0 &&
		synthesizedWrapper(outer, inner, semantic.TypeSubscript, semantic.RoleSubsup)
}

func (e *enricher) underoverInner(outer, inner *semantic.Node) bool {
	if inner == nil || len(inner.Children) != 2 || len(inner.Content) != 0 {
		return false
	}
	want := semantic.TypeOverscore
	if outer.Type == semantic.TypeOverscore {
		want = semantic.TypeUnderscore
	}
	over := e.t.Child(inner, 1).Role == semantic.RoleOverAccent
	return over == (want == semantic.TypeOverscore) &&
		synthesizedWrapper(outer, inner, want, semantic.RoleUnderover)
}

func synthesizedWrapper(outer, inner *semantic.Node, typ semantic.Type, role semantic.Role) bool {
	return inner.Origin == nil && inner.Type == typ && inner.Role == role &&
		inner.Font == semantic.FontNone && inner.TextContent == "" && len(inner.Annotation) == 0 &&
		inner.Embellished == outer.Embellished && inner.FencePointer == outer.FencePointer
}

// composite returns the annotated type name and whether n is collapsed.
func (e *enricher) composite(n *semantic.Node) (string, bool) {
	first := e.t.Child(n, 0)
	switch {
	case n.Type == semantic.TypeSuperscript && e.isFolded(first):
		return semantic.TypeSubsup.String(), true
	case (n.Type == semantic.TypeUnderscore || n.Type == semantic.TypeOverscore) && e.isFolded(first):
		return semantic.TypeUnderover.String(), true
	case n.Type == semantic.TypeTensor:
		return n.Type.String(), true
	}
	for i := range IndexSlots(n.Type) {
		if e.isFolded(e.t.Child(n, i)) {
			return n.Type.String(), true
		}
	}
	return n.Type.String(), false
}

func (e *enricher) emit(n, parent *semantic.Node) *mathml.Element {
	e.emitted.Add(uint32(n.ID))
	typ, collapsed := e.composite(n)
	a := api.Annotation{
		ID:           int(n.ID),
		Type:         typ,
		Role:         string(n.Role),
		Font:         n.Font.String(),
		Embellished:  n.Embellished.String(),
		FencePointer: int(n.FencePointer),
		Annotation:   n.AnnotationString(),
		Children:     ints(n.Children),
		Content:      ints(n.Content),
	}
	if parent != nil && slices.Contains(parent.Content, n.ID) {
		a.Operator = parent.Type.String() + "," + parent.TextContent
	}

	var items []semantic.ID
	if collapsed {
		sk := skeleton.FromNode(e.t, n.ID, e.isFolded)
		a.Collapsed = sk.String()
		items = append(sk.IDs()[1:], n.Content...)
	} else {
		items = ReadingOrder(n)
	}

	name := elementName(n)
	if n.IsLeaf() {
		return mathml.NewToken(name, n.TextContent, a.Attrs())
	}
	el := mathml.NewElement(name, a.Attrs())
	for _, id := range items {
		c := e.t.Get(id)
		if c == nil || e.isFolded(c) || e.emitted.Contains(uint32(id)) {
			continue
		}
		el.Children = append(el.Children, e.emit(c, n))
	}
	return el
}

// ReadingOrder interleaves operands with their operators and places fences
// around what they enclose.
func ReadingOrder(n *semantic.Node) []semantic.ID {
	switch n.Type {
	case semantic.TypePunctuated:
		if !containsAll(n.Children, n.Content) {
			return interleave(n)
		}
	case semantic.TypeInfixOp, semantic.TypeRelSeq, semantic.TypeMultiRel, semantic.TypeAppl:
		return interleave(n)
	case semantic.TypeFenced, semantic.TypeMatrix, semantic.TypeVector:
		if len(n.Content) == 2 {
			out := []semantic.ID{n.Content[0]}
			out = append(out, n.Children...)
			return append(out, n.Content[1])
		}
	case semantic.TypePrefixOp, semantic.TypeCases:
		return append(slices.Clone(n.Content), n.Children...)
	}
	return append(slices.Clone(n.Children), n.Content...)
}

func interleave(n *semantic.Node) []semantic.ID {
	var out []semantic.ID
	for i, c := range n.Children {
		out = append(out, c)
		if i < len(n.Content) {
			out = append(out, n.Content[i])
		}
	}
	if len(n.Content) > len(n.Children) {
		out = append(out, n.Content[len(n.Children):]...)
	}
	return out
}

func containsAll(ids, sub []semantic.ID) bool {
	for _, id := range sub {
		if !slices.Contains(ids, id) {
			return false
		}
	}
	return true
}

func elementName(n *semantic.Node) string {
	if n.Origin != nil && n.Origin.Tag != "" {
		return n.Origin.Tag
	}
	if !n.IsLeaf() || n.Type == semantic.TypeEmpty {
		return "mrow"
	}
	switch n.Type {
	case semantic.TypeNumber:
		return "mn"
	case semantic.TypeOperator, semantic.TypeRelation, semantic.TypeFence,
		semantic.TypePunctuation, semantic.TypeLargeOp:
		return "mo"
	case semantic.TypeText:
		return "mtext"
	}
	return "mi"
}

func ints(ids []semantic.ID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

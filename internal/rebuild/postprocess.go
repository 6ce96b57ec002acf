package rebuild

import (
	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/agentic-research/semtree/internal/skeleton"
)

// postProcess re-synthesizes the folded parts of a collapsed composite,
// then rewires children along the skeleton.
func (p *processor) postProcess(n *semantic.Node, sk *skeleton.Skeleton) {
	switch n.Type {
	case semantic.TypeSubsup:
		n.Type = semantic.TypeSuperscript
		p.subsup(n, sk.Item(0))
		p.index(sk.Item(1), semantic.RoleRightSuper)
	case semantic.TypeSubscript:
		p.item(sk.Item(0))
		p.index(sk.Item(1), semantic.RoleRightSub)
	case semantic.TypeSuperscript:
		p.item(sk.Item(0))
		p.index(sk.Item(1), semantic.RoleRightSuper)
	case semantic.TypeTensor:
		p.item(sk.Item(0))
		p.index(sk.Item(1), semantic.RoleLeftSub)
		p.index(sk.Item(2), semantic.RoleLeftSuper)
		p.index(sk.Item(3), semantic.RoleRightSub)
		p.index(sk.Item(4), semantic.RoleRightSuper)
	case semantic.TypeUnderover:
		p.underover(n, sk)
	case semantic.TypePunctuated:
		p.punctuated(sk, n.Role)
	default:
		p.log.Debug("collapse skeleton on plain node", "id", n.ID, "type", n.Type.String())
		for _, it := range sk.Children() {
			p.item(it)
		}
	}
	sk.Rewire(p.t)
}

// subsup creates the subscript folded inside a superscript. It shares the
// embellishment of the outer node, whose chain it belongs to.
func (p *processor) subsup(outer *semantic.Node, sk *skeleton.Skeleton) {
	if sk == nil {
		return
	}
	if p.known(sk.ID) {
		p.resolve(sk.ID)
		return
	}
	inner := p.t.CreateNode(sk.ID)
	inner.Type = semantic.TypeSubscript
	inner.Role = semantic.RoleSubsup
	inner.Embellished = outer.Embellished
	inner.FencePointer = outer.FencePointer
	p.item(sk.Item(0))
	p.index(sk.Item(1), semantic.RoleRightSub)
}

// underover splits a folded score pair. The inner score is an overscore
// exactly when its index is an over accent.
func (p *processor) underover(n *semantic.Node, sk *skeleton.Skeleton) {
	in := sk.Item(0)
	if in == nil || p.known(in.ID) {
		n.Type = semantic.TypeOverscore
		p.item(in)
		p.item(sk.Item(1))
		return
	}
	p.item(in.Item(0))
	idx := p.item(in.Item(1))
	p.item(sk.Item(1))
	innerType, outerType := semantic.TypeUnderscore, semantic.TypeOverscore
	if idx != nil && idx.Role == semantic.RoleOverAccent {
		innerType, outerType = semantic.TypeOverscore, semantic.TypeUnderscore
	}
	n.Type = outerType
	inner := p.t.CreateNode(in.ID)
	inner.Type = innerType
	inner.Role = semantic.RoleUnderover
	inner.Embellished = n.Embellished
	inner.FencePointer = n.FencePointer
}

// item resolves a skeleton value that names an ordinary node.
func (p *processor) item(sk *skeleton.Skeleton) *semantic.Node {
	if sk == nil || sk.IsContent() {
		return nil
	}
	if p.known(sk.ID) {
		return p.resolve(sk.ID)
	}
	if sk.IsPunctuated() {
		return p.punctuated(sk, semantic.RoleNone)
	}
	p.log.Debug("missing reference", "id", sk.ID)
	n := p.empty(sk.ID, semantic.RoleNone)
	for _, it := range sk.Children() {
		p.item(it)
	}
	return n
}

// index resolves a script index. Indices without an element are
// synthesized with the role of their slot: an empty node for a bare id, an
// invisible-comma list for a content-led composite.
func (p *processor) index(sk *skeleton.Skeleton, role semantic.Role) *semantic.Node {
	if sk == nil {
		return nil
	}
	if p.known(sk.ID) {
		return p.resolve(sk.ID)
	}
	if sk.IsPunctuated() {
		return p.punctuated(sk, role)
	}
	if sk.IsSimple() {
		return p.empty(sk.ID, role)
	}
	return p.item(sk)
}

// punctuated synthesizes a list joined by invisible commas. The commas are
// content only.
func (p *processor) punctuated(sk *skeleton.Skeleton, role semantic.Role) *semantic.Node {
	n := p.t.Get(sk.ID)
	if n == nil {
		n = p.t.CreateNode(sk.ID)
		n.Type = semantic.TypePunctuated
		n.Role = role
	}
	commas := make([]*semantic.Node, 0, len(sk.ContentIDs()))
	for _, id := range sk.ContentIDs() {
		if p.known(id) {
			commas = append(commas, p.resolve(id))
			continue
		}
		c := p.t.CreateNode(id)
		c.UpdateContent(semantic.InvisibleComma, true)
		commas = append(commas, c)
	}
	p.t.SetContent(n, commas)
	for _, it := range sk.Children() {
		p.item(it)
	}
	return n
}

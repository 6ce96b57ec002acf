package builder

import (
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
)

func arity(tag mathml.Tag) int {
	switch tag {
	case mathml.TagMsubsup, mathml.TagMunderover:
		return 3
	}
	return 2
}

func (p *processor) scripts(e *mathml.Element, tag mathml.Tag) *semantic.Node {
	return p.limits(tag, p.parseArgs(e, arity(tag)))
}

// limits builds script nodes keyed by the source tag. Bases that take
// limits (large operators, limit functions) produce limit nodes instead.
func (p *processor) limits(tag mathml.Tag, args []*semantic.Node) *semantic.Node {
	base := args[0]
	if pred.IsLimitBase(p.t, base) {
		switch tag {
		case mathml.TagMsub, mathml.TagMunder:
			return p.script(semantic.TypeLimLower, base.Role, base, args[1])
		case mathml.TagMsup, mathml.TagMover:
			return p.script(semantic.TypeLimUpper, base.Role, base, args[1])
		default:
			return p.script(semantic.TypeLimBoth, base.Role, base, args[1], args[2])
		}
	}
	switch tag {
	case mathml.TagMsub:
		return p.script(semantic.TypeSubscript, base.Role, base, args[1])
	case mathml.TagMsup:
		return p.script(semantic.TypeSuperscript, base.Role, base, args[1])
	case mathml.TagMsubsup:
		inner := p.script(semantic.TypeSubscript, semantic.RoleSubsup, base, args[1])
		return p.script(semantic.TypeSuperscript, base.Role, inner, args[2])
	case mathml.TagMunder:
		accentRole(args[1], semantic.RoleUnderAccent)
		return p.script(semantic.TypeUnderscore, base.Role, base, args[1])
	case mathml.TagMover:
		accentRole(args[1], semantic.RoleOverAccent)
		return p.script(semantic.TypeOverscore, base.Role, base, args[1])
	default:
		under, over := args[1], args[2]
		underAccent := accentRole(under, semantic.RoleUnderAccent)
		overAccent := accentRole(over, semantic.RoleOverAccent)
		if overAccent && !underAccent {
			inner := p.script(semantic.TypeOverscore, semantic.RoleUnderover, base, over)
			return p.script(semantic.TypeUnderscore, base.Role, inner, under)
		}
		inner := p.script(semantic.TypeUnderscore, semantic.RoleUnderover, base, under)
		return p.script(semantic.TypeOverscore, base.Role, inner, over)
	}
}

func (p *processor) script(typ semantic.Type, role semantic.Role, children ...*semantic.Node) *semantic.Node {
	n := p.t.MakeBranch(typ, children, nil)
	n.Role = role
	semantic.Embellish(n, children[0])
	return n
}

func accentRole(n *semantic.Node, role semantic.Role) bool {
	if !pred.IsAccent(n) {
		return false
	}
	n.Role = role
	return true
}

// multiscripts partitions the indices around mprescripts. Without left
// indices the result is an ordinary script node; otherwise a tensor with
// all four index slots.
func (p *processor) multiscripts(e *mathml.Element) *semantic.Node {
	elems := children(e)
	if len(elems) == 0 {
		return p.t.MakeEmpty()
	}
	base := p.parse(elems[0])
	var rsub, rsup, lsub, lsup []*semantic.Node
	left := false
	i := 0
	for _, c := range elems[1:] {
		if c.Tag() == mathml.TagMprescripts {
			left = true
			i = 0
			continue
		}
		n := p.parse(c)
		switch {
		case !left && i%2 == 0:
			rsub = append(rsub, n)
		case !left:
			rsup = append(rsup, n)
		case i%2 == 0:
			lsub = append(lsub, n)
		default:
			lsup = append(lsup, n)
		}
		i++
	}
	if !anyNonEmpty(lsub) && !anyNonEmpty(lsup) {
		return p.pseudoTensor(base, rsub, rsup)
	}
	n := p.t.MakeBranch(semantic.TypeTensor, []*semantic.Node{
		base,
		p.scriptIndex(lsub, semantic.RoleLeftSub, false),
		p.scriptIndex(lsup, semantic.RoleLeftSuper, false),
		p.scriptIndex(rsub, semantic.RoleRightSub, false),
		p.scriptIndex(rsup, semantic.RoleRightSuper, false),
	}, nil)
	n.Role = base.Role
	semantic.Embellish(n, base)
	return n
}

func anyNonEmpty(nodes []*semantic.Node) bool {
	for _, n := range nodes {
		if n.Type != semantic.TypeEmpty {
			return true
		}
	}
	return false
}

func (p *processor) pseudoTensor(base *semantic.Node, sub, sup []*semantic.Node) *semantic.Node {
	hasSub, hasSup := anyNonEmpty(sub), anyNonEmpty(sup)
	switch {
	case hasSub && hasSup:
		return p.limits(mathml.TagMsubsup, []*semantic.Node{
			base,
			p.scriptIndex(sub, semantic.RoleRightSub, true),
			p.scriptIndex(sup, semantic.RoleRightSuper, true),
		})
	case hasSub:
		return p.limits(mathml.TagMsub, []*semantic.Node{base, p.scriptIndex(sub, semantic.RoleRightSub, true)})
	case hasSup:
		return p.limits(mathml.TagMsup, []*semantic.Node{base, p.scriptIndex(sup, semantic.RoleRightSuper, true)})
	}
	return base
}

// scriptIndex merges the indices of one slot. A missing index is a
// synthesized empty node; several indices form an invisible-comma list.
// keepSingle leaves the role of a lone index untouched.
func (p *processor) scriptIndex(nodes []*semantic.Node, role semantic.Role, keepSingle bool) *semantic.Node {
	var n *semantic.Node
	switch len(nodes) {
	case 0:
		n = p.t.MakeEmpty()
	case 1:
		n = nodes[0]
		if keepSingle {
			return n
		}
	default:
		n = p.dummy(nodes)
	}
	n.Role = role
	return n
}

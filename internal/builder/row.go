package builder

import (
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
)

type nodePred func(*semantic.Node) bool

// partition splits nodes at every match. comp has one more entry than rel;
// entries may be empty.
func partition(nodes []*semantic.Node, match nodePred) (comp [][]*semantic.Node, rel []*semantic.Node) {
	current := []*semantic.Node{}
	for _, n := range nodes {
		if match(n) {
			comp = append(comp, current)
			rel = append(rel, n)
			current = []*semantic.Node{}
			continue
		}
		current = append(current, n)
	}
	comp = append(comp, current)
	return comp, rel
}

// cut splits nodes at the first match. div is nil when nothing matches.
func cut(nodes []*semantic.Node, match nodePred) (head []*semantic.Node, div *semantic.Node, tail []*semantic.Node) {
	for i, n := range nodes {
		if match(n) {
			return nodes[:i:i], n, append([]*semantic.Node(nil), nodes[i+1:]...)
		}
	}
	return nodes, nil, nil
}

// row combines sibling nodes into one node. The stages run in a fixed
// order: fences, tables, punctuation, text, functions, then relations and
// operators.
func (p *processor) row(nodes []*semantic.Node) *semantic.Node {
	kept := make([]*semantic.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != semantic.TypeEmpty {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return p.t.MakeEmpty()
	}
	kept = p.fencesInRow(kept)
	kept = p.tablesInRow(kept)
	kept = p.punctuationInRow(kept)
	kept = p.textInRow(kept)
	kept = p.functionsInRow(kept)
	return p.relationsInRow(kept)
}

func (p *processor) punctuationInRow(nodes []*semantic.Node) []*semantic.Node {
	if len(nodes) <= 1 {
		return nodes
	}
	allowed := func(n *semantic.Node) bool {
		switch n.Type {
		case semantic.TypePunctuation, semantic.TypeText, semantic.TypeOperator, semantic.TypeRelation:
			return true
		}
		return false
	}
	index := make(map[*semantic.Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	// An ellipsis between operators or text is an operand, not a separator.
	separator := func(n *semantic.Node) bool {
		if !pred.IsPunctuation(n) {
			return false
		}
		if n.Role != semantic.RoleEllipsis {
			return true
		}
		i := index[n]
		switch {
		case i == 0:
			return !(len(nodes) > 1 && allowed(nodes[1]))
		case i == len(nodes)-1:
			return !allowed(nodes[i-1])
		}
		return !(allowed(nodes[i-1]) && allowed(nodes[i+1]))
	}
	comp, rel := partition(nodes, separator)
	if len(rel) == 0 {
		return nodes
	}
	var out []*semantic.Node
	for i, c := range comp {
		if i > 0 {
			out = append(out, rel[i-1])
		}
		if len(c) > 0 {
			out = append(out, p.row(c))
		}
	}
	return []*semantic.Node{p.punctuated(out, rel)}
}

func (p *processor) punctuated(nodes, puncts []*semantic.Node) *semantic.Node {
	n := p.t.MakeBranch(semantic.TypePunctuated, nodes, puncts)
	if len(puncts) == len(nodes) {
		first := puncts[0].Role
		same := first != semantic.RoleUnknown
		for _, x := range puncts[1:] {
			same = same && x.Role == first
		}
		if same {
			n.Role = first
			return n
		}
	}
	allDummy := true
	for _, x := range puncts {
		allDummy = allDummy && x.Role == semantic.RoleDummy
	}
	switch {
	case pred.SinglePunctAtPosition(nodes, puncts, 0):
		n.Role = semantic.RoleStartPunct
	case pred.SinglePunctAtPosition(nodes, puncts, len(nodes)-1):
		n.Role = semantic.RoleEndPunct
	case allDummy:
		n.Role = semantic.RoleText
	default:
		n.Role = semantic.RoleSequence
	}
	return n
}

// dummy joins nodes with synthesized invisible commas held as content only.
func (p *processor) dummy(nodes []*semantic.Node) *semantic.Node {
	commas := make([]*semantic.Node, 0, len(nodes)-1)
	for range len(nodes) - 1 {
		commas = append(commas, p.t.MakeComma())
	}
	return p.punctuated(nodes, commas)
}

func (p *processor) textInRow(nodes []*semantic.Node) []*semantic.Node {
	if len(nodes) <= 1 {
		return nodes
	}
	comp, rel := partition(nodes, pred.IsAttribute(pred.FieldType, semantic.TypeText))
	if len(rel) == 0 {
		return nodes
	}
	var out []*semantic.Node
	for i, c := range comp {
		if i > 0 {
			out = append(out, rel[i-1])
		}
		if len(c) > 0 {
			out = append(out, p.row(c))
		}
	}
	if len(out) == 1 {
		return out
	}
	return []*semantic.Node{p.dummy(out)}
}

func (p *processor) relationsInRow(nodes []*semantic.Node) *semantic.Node {
	comp, rel := partition(nodes, pred.IsRelation)
	if len(rel) == 0 {
		return p.operationsInRow(nodes)
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	operands := make([]*semantic.Node, 0, len(comp))
	for _, c := range comp {
		operands = append(operands, p.operationsInRow(c))
	}
	first := rel[0]
	text := p.t.EmbellishedInner(first).TextContent
	same := true
	for _, r := range rel[1:] {
		same = same && p.sameOperator(r, first)
	}
	if same {
		n := p.t.MakeBranch(semantic.TypeRelSeq, operands, rel)
		n.Role = first.Role
		n.TextContent = text
		return n
	}
	n := p.t.MakeBranch(semantic.TypeMultiRel, operands, rel)
	n.Role = first.Role
	for _, r := range rel[1:] {
		if r.Role != first.Role {
			n.Role = semantic.RoleUnknown
			break
		}
	}
	n.TextContent = text
	return n
}

// sameOperator compares the innermost cores of two operators or relations.
func (p *processor) sameOperator(a, b *semantic.Node) bool {
	ia, ib := p.t.EmbellishedInner(a), p.t.EmbellishedInner(b)
	return ia.Type == ib.Type && ia.Role == ib.Role && ia.TextContent == ib.TextContent
}

func (p *processor) appendChild(n, c *semantic.Node) {
	n.Children = append(n.Children, c.ID)
	c.Parent = n.ID
}

func (p *processor) appendContent(n, c *semantic.Node) {
	n.Content = append(n.Content, c.ID)
	c.Parent = n.ID
}

func (p *processor) popChild(n *semantic.Node) *semantic.Node {
	if len(n.Children) == 0 {
		return nil
	}
	last := n.Children[len(n.Children)-1]
	n.Children = n.Children[:len(n.Children)-1]
	return p.t.Get(last)
}

func (p *processor) lastChild(n *semantic.Node) *semantic.Node {
	return p.t.Child(n, len(n.Children)-1)
}

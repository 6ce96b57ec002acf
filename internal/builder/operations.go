package builder

import (
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
)

func (p *processor) operationsInRow(nodes []*semantic.Node) *semantic.Node {
	switch len(nodes) {
	case 0:
		return p.t.MakeEmpty()
	case 1:
		return nodes[0]
	}
	var prefix []*semantic.Node
	for len(nodes) > 0 && pred.IsOperator(nodes[0]) {
		prefix = append(prefix, nodes[0])
		nodes = nodes[1:]
	}
	switch len(nodes) {
	case 0:
		last := prefix[len(prefix)-1]
		return p.prefixNode(last, prefix[:len(prefix)-1])
	case 1:
		return p.prefixNode(nodes[0], prefix)
	}
	comp, ops := partition(nodes, pred.IsOperator)
	root := p.prefixNode(p.implicit(comp[0]), prefix)
	if len(ops) == 0 {
		return root
	}
	return p.operationsTree(root, ops, comp[1:])
}

// operationsTree folds the remaining operators into root. comps[i] holds
// the operands following ops[i]; an empty entry means the next operator is
// a prefix of the following operand, or a postfix at the end of the row.
func (p *processor) operationsTree(root *semantic.Node, ops []*semantic.Node, comps [][]*semantic.Node) *semantic.Node {
	var pending []*semantic.Node
	for i, op := range ops {
		pending = append(pending, op)
		if len(comps[i]) == 0 {
			continue
		}
		operand := p.prefixNode(p.implicit(comps[i]), pending[1:])
		root = p.appendOperand(root, pending[0], operand)
		pending = nil
	}
	if len(pending) == 0 {
		return root
	}
	if root.Type == semantic.TypeInfixOp && !pred.IsImplicit(p.t, root) {
		last := p.popChild(root)
		p.appendChild(root, p.postfixNode(last, pending))
		return root
	}
	return p.postfixNode(root, pending)
}

func (p *processor) appendOperand(root, op, operand *semantic.Node) *semantic.Node {
	if root.Type != semantic.TypeInfixOp {
		return p.infix([]*semantic.Node{root, operand}, op)
	}
	if op.Role == semantic.RoleDivision {
		if pred.IsImplicit(p.t, root) {
			return p.infix([]*semantic.Node{root, operand}, op)
		}
		return p.appendLastOperand(root, op, operand)
	}
	if root.Role == semantic.RoleDivision {
		return p.infix([]*semantic.Node{root, operand}, op)
	}
	if p.appendExistingOperator(root, op, operand) {
		return root
	}
	if op.Role == semantic.RoleMultiplication {
		if pred.IsImplicit(p.t, root) {
			return p.infix([]*semantic.Node{root, operand}, op)
		}
		return p.appendLastOperand(root, op, operand)
	}
	return p.infix([]*semantic.Node{root, operand}, op)
}

// appendLastOperand binds op tighter than the operators of root by
// combining it with root's rightmost explicit operand.
func (p *processor) appendLastOperand(root, op, operand *semantic.Node) *semantic.Node {
	parent := root
	last := p.lastChild(root)
	for last != nil && last.Type == semantic.TypeInfixOp && !pred.IsImplicit(p.t, last) {
		parent = last
		last = p.lastChild(parent)
	}
	left := p.popChild(parent)
	p.appendChild(parent, p.infix([]*semantic.Node{left, operand}, op))
	return root
}

// appendExistingOperator extends an infix chain of the same operator along
// the rightmost spine of root.
func (p *processor) appendExistingOperator(root, op, operand *semantic.Node) bool {
	for n := root; n != nil; n = p.lastChild(n) {
		if n.Type != semantic.TypeInfixOp || pred.IsImplicit(p.t, n) {
			return false
		}
		if existing := p.t.Get(n.Content[0]); existing != nil && p.sameOperator(existing, op) {
			p.appendContent(n, op)
			p.appendChild(n, operand)
			return true
		}
	}
	return false
}

func (p *processor) infix(operands []*semantic.Node, op *semantic.Node) *semantic.Node {
	n := p.t.MakeBranch(semantic.TypeInfixOp, operands, []*semantic.Node{op})
	n.Role = op.Role
	n.TextContent = p.t.EmbellishedInner(op).TextContent
	return n
}

// prefixNode applies operators right to left. Subtraction signs make
// negations.
func (p *processor) prefixNode(n *semantic.Node, ops []*semantic.Node) *semantic.Node {
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		wrapped := p.t.MakeBranch(semantic.TypePrefixOp, []*semantic.Node{n}, []*semantic.Node{op})
		wrapped.Role = semantic.RolePrefixOp
		if p.t.EmbellishedInner(op).Role == semantic.RoleSubtraction {
			wrapped.Role = semantic.RoleNegative
		}
		wrapped.TextContent = p.t.EmbellishedInner(op).TextContent
		n = wrapped
	}
	return n
}

func (p *processor) postfixNode(n *semantic.Node, ops []*semantic.Node) *semantic.Node {
	for _, op := range ops {
		wrapped := p.t.MakeBranch(semantic.TypePostfixOp, []*semantic.Node{n}, []*semantic.Node{op})
		wrapped.Role = semantic.RolePostfixOp
		wrapped.TextContent = p.t.EmbellishedInner(op).TextContent
		n = wrapped
	}
	return n
}

// implicit joins juxtaposed operands with invisible times. Products of
// units are unit role; an integer followed by a vulgar fraction is a mixed
// number.
func (p *processor) implicit(nodes []*semantic.Node) *semantic.Node {
	nodes = p.mixedNumbers(nodes)
	switch len(nodes) {
	case 0:
		return p.t.MakeEmpty()
	case 1:
		return nodes[0]
	}
	ops := make([]*semantic.Node, 0, len(nodes)-1)
	for range len(nodes) - 1 {
		ops = append(ops, p.symbol(semantic.InvisibleTimes))
	}
	n := p.t.MakeBranch(semantic.TypeInfixOp, nodes, ops)
	n.TextContent = semantic.InvisibleTimes
	n.Role = semantic.RoleImplicit
	units := true
	for _, c := range nodes {
		units = units && pred.IsPureUnit(p.t, c)
	}
	if units {
		n.Role = semantic.RoleUnit
	}
	return n
}

func (p *processor) mixedNumbers(nodes []*semantic.Node) []*semantic.Node {
	out := make([]*semantic.Node, 0, len(nodes))
	for _, n := range nodes {
		if len(out) > 0 && isVulgar(n) && isInteger(out[len(out)-1]) {
			whole := out[len(out)-1]
			mixed := p.t.MakeBranch(semantic.TypeNumber, []*semantic.Node{whole, n}, nil)
			mixed.Role = semantic.RoleMixed
			out[len(out)-1] = mixed
			continue
		}
		out = append(out, n)
	}
	return out
}

func isVulgar(n *semantic.Node) bool {
	return n.Role == semantic.RoleVulgar &&
		(n.Type == semantic.TypeFraction || n.Type == semantic.TypeNumber)
}

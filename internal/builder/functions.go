package builder

import (
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
)

type funcKind int

const (
	notFunction funcKind = iota
	simpleFunc
	prefixFunc
	bigOpFunc
	integralFunc
)

func (p *processor) functionsInRow(nodes []*semantic.Node) []*semantic.Node {
	var out []*semantic.Node
	for len(nodes) > 0 {
		first, rest := nodes[0], nodes[1:]
		kind, rest := p.classifyFunction(first, rest)
		if kind == notFunction {
			out = append(out, first)
			nodes = rest
			continue
		}
		processed := p.functionsInRow(rest)
		return append(out, p.functionArgs(first, processed, kind)...)
	}
	return out
}

// classifyFunction decides how fn takes arguments. An explicit function
// application operator following fn is removed from rest and kept for
// reuse as the application content.
func (p *processor) classifyFunction(fn *semantic.Node, rest []*semantic.Node) (funcKind, []*semantic.Node) {
	switch fn.Type {
	case semantic.TypeAppl, semantic.TypeBigOp, semantic.TypeIntegral:
		return notFunction, rest
	}
	if len(rest) > 0 && rest[0].TextContent == semantic.FunctionApplication {
		p.funcAppls[fn.ID] = rest[0]
		role := semantic.RoleSimpleFunc
		if fn.Role == semantic.RolePrefixFunc || fn.Role == semantic.RoleLimFunc {
			role = fn.Role
		}
		p.propagateFunctionRole(fn, role)
		return prefixFunc, rest[1:]
	}
	switch fn.Role {
	case semantic.RoleIntegral:
		return integralFunc, rest
	case semantic.RoleSum:
		return bigOpFunc, rest
	case semantic.RolePrefixFunc, semantic.RoleLimFunc, semantic.RoleSimpleFunc:
		return prefixFunc, rest
	}
	if pred.IsSimpleFunctionHead(fn) {
		return simpleFunc, rest
	}
	return notFunction, rest
}

// propagateFunctionRole sets role on fn and on the bases of its scripts.
func (p *processor) propagateFunctionRole(fn *semantic.Node, role semantic.Role) {
	for n := fn; n != nil; {
		switch n.Type {
		case semantic.TypeSubscript, semantic.TypeSuperscript, semantic.TypeTensor,
			semantic.TypeLimLower, semantic.TypeLimUpper, semantic.TypeLimBoth,
			semantic.TypeUnderscore, semantic.TypeOverscore:
			if n.Role != semantic.RoleSubsup && n.Role != semantic.RoleUnderover {
				n.Role = role
			}
			n = p.t.Child(n, 0)
			continue
		}
		n.Role = role
		return
	}
}

func (p *processor) functionArgs(fn *semantic.Node, rest []*semantic.Node, kind funcKind) []*semantic.Node {
	switch kind {
	case integralFunc:
		integrand, intvar, tail := p.integralArgs(rest)
		if intvar == nil && len(integrand) == 0 {
			return append([]*semantic.Node{fn}, tail...)
		}
		n := p.integral(fn, p.row(integrand), intvar)
		return append([]*semantic.Node{n}, tail...)
	case prefixFunc:
		if len(rest) > 0 && rest[0].Type == semantic.TypeFenced {
			arg := rest[0]
			if arg.Role != semantic.RoleNeutral {
				arg.Role = semantic.RoleLeftRight
			}
			return append([]*semantic.Node{p.application(fn, arg)}, rest[1:]...)
		}
		head, div, tail := cut(rest, pred.IsPrefixFunctionBoundary)
		var arg *semantic.Node
		if len(head) == 0 {
			if div == nil || div.Type != semantic.TypeAppl {
				return append([]*semantic.Node{fn}, rest...)
			}
			arg = div
		} else {
			arg = p.row(head)
			if div != nil {
				tail = append([]*semantic.Node{div}, tail...)
			}
		}
		return append([]*semantic.Node{p.application(fn, arg)}, tail...)
	case bigOpFunc:
		head, div, tail := cut(rest, pred.IsBigOpBoundary)
		if len(head) == 0 {
			return append([]*semantic.Node{fn}, rest...)
		}
		n := p.t.MakeBranch(semantic.TypeBigOp, []*semantic.Node{fn, p.row(head)}, nil)
		n.Role = fn.Role
		if div != nil {
			tail = append([]*semantic.Node{div}, tail...)
		}
		return append([]*semantic.Node{n}, tail...)
	default:
		if len(rest) == 0 {
			return []*semantic.Node{fn}
		}
		arg := rest[0]
		if arg.Type == semantic.TypeFenced && arg.Role != semantic.RoleNeutral &&
			pred.IsSimpleFunctionScope(p.t, arg) {
			p.propagateFunctionRole(fn, semantic.RoleSimpleFunc)
			return append([]*semantic.Node{p.application(fn, arg)}, rest[1:]...)
		}
		return append([]*semantic.Node{fn}, rest...)
	}
}

// integralArgs collects the integrand up to a boundary or a differential.
func (p *processor) integralArgs(nodes []*semantic.Node) (integrand []*semantic.Node, intvar *semantic.Node, rest []*semantic.Node) {
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if pred.IsGeneralFunctionBoundary(n) {
			return nodes[:i:i], nil, nodes[i:]
		}
		if pred.IsIntegralDxBoundarySingle(n) {
			n.Role = semantic.RoleIntegral
			return nodes[:i:i], n, nodes[i+1:]
		}
		if i+1 < len(nodes) && pred.IsIntegralDxBoundary(n, nodes[i+1]) {
			v := p.prefixNode(nodes[i+1], []*semantic.Node{n})
			v.Role = semantic.RoleIntegral
			return nodes[:i:i], v, nodes[i+2:]
		}
	}
	return nodes, nil, nil
}

func (p *processor) integral(op, integrand, intvar *semantic.Node) *semantic.Node {
	if intvar == nil {
		intvar = p.t.MakeEmpty()
	}
	n := p.t.MakeBranch(semantic.TypeIntegral, []*semantic.Node{op, integrand, intvar}, nil)
	n.Role = op.Role
	return n
}

// application joins a function and its argument. An explicit application
// operator from the source is reused as content.
func (p *processor) application(fn, arg *semantic.Node) *semantic.Node {
	op := p.funcAppls[fn.ID]
	if op == nil {
		op = p.symbol(semantic.FunctionApplication)
	}
	n := p.t.MakeBranch(semantic.TypeAppl, []*semantic.Node{fn, arg}, []*semantic.Node{op})
	n.Role = fn.Role
	return n
}

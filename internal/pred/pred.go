// Package pred holds the disambiguation predicates the builders use to
// decide types, roles and structural boundaries. All functions are pure.
package pred

import (
	"slices"
	"strings"
	"unicode"

	"github.com/agentic-research/semtree/internal/semantic"
)

// Field names a node attribute tested by IsAttribute.
type Field int

const (
	FieldType Field = iota
	FieldRole
	FieldFont
	FieldEmbellished
)

// IsAttribute returns a predicate testing one node field for equality.
// value must be a semantic.Type, semantic.Role or semantic.Font matching
// the field; mismatched kinds never match.
func IsAttribute(field Field, value any) func(*semantic.Node) bool {
	return func(n *semantic.Node) bool {
		if n == nil {
			return false
		}
		switch field {
		case FieldType:
			v, ok := value.(semantic.Type)
			return ok && n.Type == v
		case FieldRole:
			v, ok := value.(semantic.Role)
			return ok && n.Role == v
		case FieldFont:
			v, ok := value.(semantic.Font)
			return ok && n.Font == v
		case FieldEmbellished:
			v, ok := value.(semantic.Type)
			return ok && n.Embellished == v
		}
		return false
	}
}

func isType(n *semantic.Node, types ...semantic.Type) bool {
	return n != nil && slices.Contains(types, n.Type)
}

// IsEmbellished returns the type n embellishes, or TypeNone.
func IsEmbellished(n *semantic.Node) semantic.Type {
	return semantic.EmbellishedType(n)
}

func IsOperator(n *semantic.Node) bool {
	return n != nil && (n.Type == semantic.TypeOperator || n.Embellished == semantic.TypeOperator)
}

func IsRelation(n *semantic.Node) bool {
	return n != nil && (n.Type == semantic.TypeRelation || n.Embellished == semantic.TypeRelation)
}

func IsPunctuation(n *semantic.Node) bool {
	return n != nil && (n.Type == semantic.TypePunctuation || n.Embellished == semantic.TypePunctuation)
}

func IsFence(n *semantic.Node) bool {
	return n != nil && (n.Type == semantic.TypeFence || n.Embellished == semantic.TypeFence)
}

// IsAccent decides whether a script symbol attaches as an accent.
func IsAccent(n *semantic.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case semantic.TypeFence, semantic.TypePunctuation, semantic.TypeRelation:
		return true
	case semantic.TypeOperator:
		return !hasInfinity(n.TextContent)
	case semantic.TypeIdentifier:
		return n.Role == semantic.RoleUnknown &&
			!strings.ContainsFunc(semantic.Fold(n.TextContent), unicode.IsLetter) &&
			!hasInfinity(n.TextContent)
	}
	return false
}

func hasInfinity(s string) bool {
	return strings.ContainsAny(s, "∞᪲")
}

// IsSimpleFunctionScope holds for an argument list that is empty, or a
// single argument that is not an explicit infix operation. An implicit
// multiplication qualifies only when none of its operands is infix.
func IsSimpleFunctionScope(t *semantic.Tree, args *semantic.Node) bool {
	if len(args.Children) == 0 {
		return true
	}
	if len(args.Children) > 1 {
		return false
	}
	child := t.Child(args, 0)
	if child == nil || child.Type != semantic.TypeInfixOp {
		return true
	}
	if child.Role != semantic.RoleImplicit {
		return false
	}
	for _, c := range t.Children(child) {
		if c.Type == semantic.TypeInfixOp {
			return false
		}
	}
	return true
}

func IsGeneralFunctionBoundary(n *semantic.Node) bool {
	return IsRelation(n) || IsPunctuation(n)
}

func IsPrefixFunctionBoundary(n *semantic.Node) bool {
	return (IsOperator(n) && n.Role != semantic.RoleDivision) ||
		isType(n, semantic.TypeAppl) ||
		IsGeneralFunctionBoundary(n)
}

func IsBigOpBoundary(n *semantic.Node) bool {
	return IsOperator(n) || IsGeneralFunctionBoundary(n)
}

// IsIntegralDxBoundary detects a differential "d" followed by an identifier.
func IsIntegralDxBoundary(first, second *semantic.Node) bool {
	return first != nil && second != nil &&
		second.Type == semantic.TypeIdentifier &&
		semantic.IsCharacterD(first.TextContent)
}

// IsIntegralDxBoundarySingle detects "dx" written as one identifier.
func IsIntegralDxBoundarySingle(n *semantic.Node) bool {
	if n == nil || n.Type != semantic.TypeIdentifier {
		return false
	}
	runes := []rune(n.TextContent)
	return len(runes) > 1 && semantic.IsCharacterD(string(runes[0]))
}

// IsEligibleEmbellishedFence rejects fences embellished on both sides, or on
// the side facing their partner.
func IsEligibleEmbellishedFence(t *semantic.Tree, n *semantic.Node) bool {
	if n == nil || !IsFence(n) {
		return false
	}
	if n.Embellished == semantic.TypeNone {
		return true
	}
	for n != nil && n.Embellished != semantic.TypeNone {
		if bothSided(t, n) {
			return false
		}
		if n.Role == semantic.RoleClose && n.Type == semantic.TypeTensor {
			return false
		}
		if n.Role == semantic.RoleOpen && isType(n, semantic.TypeSubscript, semantic.TypeSuperscript) {
			return false
		}
		n = t.Child(n, 0)
	}
	return true
}

func bothSided(t *semantic.Tree, n *semantic.Node) bool {
	if n.Type != semantic.TypeTensor {
		return false
	}
	nonEmpty := func(i int) bool { return !isType(t.Child(n, i), semantic.TypeEmpty) }
	return (nonEmpty(1) || nonEmpty(2)) && (nonEmpty(3) || nonEmpty(4))
}

// EligibleLeftNeutral reports whether a neutral fence may open a pair.
func EligibleLeftNeutral(t *semantic.Tree, n *semantic.Node) bool {
	if n == nil || n.Role != semantic.RoleNeutral {
		return false
	}
	if n.Embellished == semantic.TypeNone {
		return true
	}
	if isType(n, semantic.TypeSuperscript, semantic.TypeSubscript) {
		return false
	}
	if n.Type == semantic.TypeTensor &&
		(!isType(t.Child(n, 3), semantic.TypeEmpty) || !isType(t.Child(n, 4), semantic.TypeEmpty)) {
		return false
	}
	return true
}

// EligibleRightNeutral reports whether a neutral fence may close a pair.
func EligibleRightNeutral(t *semantic.Tree, n *semantic.Node) bool {
	if n == nil || n.Role != semantic.RoleNeutral {
		return false
	}
	if n.Embellished == semantic.TypeNone {
		return true
	}
	if n.Type == semantic.TypeTensor &&
		(!isType(t.Child(n, 1), semantic.TypeEmpty) || !isType(t.Child(n, 2), semantic.TypeEmpty)) {
		return false
	}
	return true
}

// CompareNeutralFences holds when both fences are neutral and their
// innermost fence characters are identical.
func CompareNeutralFences(t *semantic.Tree, a, b *semantic.Node) bool {
	if a == nil || b == nil || a.Role != semantic.RoleNeutral || b.Role != semantic.RoleNeutral {
		return false
	}
	return t.EmbellishedInner(a).TextContent == t.EmbellishedInner(b).TextContent
}

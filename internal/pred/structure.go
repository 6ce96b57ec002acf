package pred

import (
	"slices"

	"github.com/agentic-research/semtree/internal/semantic"
)

func IsTableOrMultiline(n *semantic.Node) bool {
	return isType(n, semantic.TypeTable, semantic.TypeMultiline)
}

// IsFencedElement holds for a paired fenced node with one child.
func IsFencedElement(n *semantic.Node) bool {
	return isType(n, semantic.TypeFenced) &&
		(n.Role == semantic.RoleLeftRight || n.Role == semantic.RoleNeutral) &&
		len(n.Children) == 1
}

// TableIsMatrixOrVector holds for a fenced node wrapping a table.
func TableIsMatrixOrVector(t *semantic.Tree, n *semantic.Node) bool {
	return IsFencedElement(n) && IsTableOrMultiline(t.Child(n, 0))
}

// TableIsCases holds when the table directly follows an unmatched open
// fence, which row processing has already turned into punctuation.
func TableIsCases(_ *semantic.Node, prev []*semantic.Node) bool {
	return len(prev) > 0 && prev[len(prev)-1].Role == semantic.RoleOpenFence
}

// TableIsMultiline holds when no row has more than one cell.
func TableIsMultiline(t *semantic.Tree, table *semantic.Node) bool {
	for _, row := range t.Children(table) {
		if len(row.Children) > 1 {
			return false
		}
	}
	return true
}

func IsBinomial(table *semantic.Node) bool {
	return len(table.Children) == 2
}

// IsLimitBase holds for bases whose scripts are limits.
func IsLimitBase(t *semantic.Tree, n *semantic.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case semantic.TypeLargeOp, semantic.TypeLimBoth, semantic.TypeLimLower, semantic.TypeLimUpper:
		return true
	case semantic.TypeFunction:
		return n.Role == semantic.RoleLimFunc
	case semantic.TypeOverscore, semantic.TypeUnderscore:
		return IsLimitBase(t, t.Child(n, 0))
	}
	return false
}

func IsSimpleFunctionHead(n *semantic.Node) bool {
	return n != nil && (n.Type == semantic.TypeIdentifier ||
		n.Role == semantic.RoleLatinLetter ||
		n.Role == semantic.RoleGreekLetter ||
		n.Role == semantic.RoleOtherLetter)
}

// SinglePunctAtPosition holds when puncts is exactly the punctuation node at
// nodes[position].
func SinglePunctAtPosition(nodes, puncts []*semantic.Node, position int) bool {
	if len(puncts) != 1 || position < 0 || position >= len(nodes) {
		return false
	}
	n := nodes[position]
	return IsPunctuation(n) && n == puncts[0]
}

func IsSimpleFunction(n *semantic.Node) bool {
	return isType(n, semantic.TypeIdentifier) && n.Role == semantic.RoleSimpleFunc
}

var (
	leftBraces  = []string{"{", "﹛", "｛"}
	rightBraces = []string{"}", "﹜", "｝"}
)

func IsLeftBrace(n *semantic.Node) bool {
	return n != nil && slices.Contains(leftBraces, n.TextContent)
}

func IsRightBrace(n *semantic.Node) bool {
	return n != nil && slices.Contains(rightBraces, n.TextContent)
}

// IsSetNode holds for a node fenced by curly braces.
func IsSetNode(t *semantic.Tree, n *semantic.Node) bool {
	content := t.Content(n)
	return len(content) == 2 && IsLeftBrace(content[0]) && IsRightBrace(content[1])
}

var illegalSingleton = []semantic.Type{
	semantic.TypePunctuation,
	semantic.TypePunctuated,
	semantic.TypeRelSeq,
	semantic.TypeMultiRel,
	semantic.TypeTable,
	semantic.TypeMultiline,
	semantic.TypeCases,
	semantic.TypeInference,
}

var scriptedElement = []semantic.Type{
	semantic.TypeLimUpper,
	semantic.TypeLimLower,
	semantic.TypeLimBoth,
	semantic.TypeSubscript,
	semantic.TypeSuperscript,
	semantic.TypeUnderscore,
	semantic.TypeOverscore,
	semantic.TypeTensor,
}

// IsSingletonSetContent decides whether a braced expression denotes a
// one-element set.
func IsSingletonSetContent(t *semantic.Tree, n *semantic.Node) bool {
	if n == nil {
		return false
	}
	if slices.Contains(illegalSingleton, n.Type) ||
		(n.Type == semantic.TypeInfixOp && n.Role != semantic.RoleImplicit) {
		return false
	}
	if n.Type == semantic.TypeFenced {
		if n.Role == semantic.RoleLeftRight {
			return IsSingletonSetContent(t, t.Child(n, 0))
		}
		return true
	}
	if slices.Contains(scriptedElement, n.Type) {
		return IsSingletonSetContent(t, t.Child(n, 0))
	}
	return true
}

func IsNumber(n *semantic.Node) bool {
	return isType(n, semantic.TypeNumber) &&
		(n.Role == semantic.RoleInteger || n.Role == semantic.RoleFloat)
}

func IsUnitCounter(n *semantic.Node) bool {
	return IsNumber(n) || (n != nil && (n.Role == semantic.RoleVulgar || n.Role == semantic.RoleMixed))
}

// IsPureUnit holds for a unit leaf or a unit product of units.
func IsPureUnit(t *semantic.Tree, n *semantic.Node) bool {
	if n == nil || n.Role != semantic.RoleUnit {
		return false
	}
	first := t.Child(n, 0)
	return first == nil || first.Role == semantic.RoleUnit
}

// IsImplicit holds for implicit multiplication, including unit products
// joined by invisible times.
func IsImplicit(t *semantic.Tree, n *semantic.Node) bool {
	if n == nil {
		return false
	}
	if n.Role == semantic.RoleImplicit {
		return true
	}
	if n.Role != semantic.RoleUnit || len(n.Content) == 0 {
		return false
	}
	op := t.Get(n.Content[0])
	return op != nil && op.TextContent == semantic.InvisibleTimes
}

func IsImplicitOp(n *semantic.Node) bool {
	return isType(n, semantic.TypeInfixOp) && n.Role == semantic.RoleImplicit
}

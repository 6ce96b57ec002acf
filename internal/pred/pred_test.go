package pred

import (
	"testing"

	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/stretchr/testify/assert"
)

func node(t *semantic.Tree, typ semantic.Type, role semantic.Role, text string) *semantic.Node {
	n := t.MakeLeaf(text, semantic.FontNormal)
	n.Type, n.Role = typ, role
	return n
}

func branch(t *semantic.Tree, typ semantic.Type, role semantic.Role, children ...*semantic.Node) *semantic.Node {
	n := t.MakeBranch(typ, children, nil)
	n.Role = role
	return n
}

func TestIsAttribute(t *testing.T) {
	tree := semantic.NewTree()
	x := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "x")
	assert.True(t, IsAttribute(FieldType, semantic.TypeIdentifier)(x))
	assert.True(t, IsAttribute(FieldRole, semantic.RoleLatinLetter)(x))
	assert.True(t, IsAttribute(FieldFont, semantic.FontNormal)(x))
	assert.True(t, IsAttribute(FieldEmbellished, semantic.TypeNone)(x))
	assert.False(t, IsAttribute(FieldType, semantic.RoleLatinLetter)(x))
	assert.False(t, IsAttribute(FieldRole, semantic.RoleGreekLetter)(x))
	assert.False(t, IsAttribute(FieldType, semantic.TypeIdentifier)(nil))
}

func TestIsAccent(t *testing.T) {
	tree := semantic.NewTree()
	tests := []struct {
		n    *semantic.Node
		want bool
	}{
		{node(tree, semantic.TypeOperator, semantic.RoleUnknown, "^"), true},
		{node(tree, semantic.TypeOperator, semantic.RoleUnknown, "∞"), false},
		{node(tree, semantic.TypeFence, semantic.RoleOpen, "("), true},
		{node(tree, semantic.TypeRelation, semantic.RoleArrow, "→"), true},
		{node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "*"), true},
		{node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "x"), false},
		{node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "ab"), false},
		{node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "x∞"), false},
		{node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "*∞"), false},
		{node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "*𝐚"), false},
		{node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "**"), true},
		{node(tree, semantic.TypeOperator, semantic.RoleUnknown, "-∞"), false},
		{node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "x"), false},
		{node(tree, semantic.TypeNumber, semantic.RoleInteger, "2"), false},
		{nil, false},
	}
	for _, tc := range tests {
		text := "<nil>"
		if tc.n != nil {
			text = tc.n.TextContent
		}
		assert.Equal(t, tc.want, IsAccent(tc.n), text)
	}
}

func TestBoundaries(t *testing.T) {
	tree := semantic.NewTree()
	plus := node(tree, semantic.TypeOperator, semantic.RoleAddition, "+")
	div := node(tree, semantic.TypeOperator, semantic.RoleDivision, "/")
	eq := node(tree, semantic.TypeRelation, semantic.RoleEquality, "=")
	comma := node(tree, semantic.TypePunctuation, semantic.RoleComma, ",")
	x := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "x")
	appl := branch(tree, semantic.TypeAppl, semantic.RoleSimpleFunc, x)

	assert.True(t, IsGeneralFunctionBoundary(eq))
	assert.True(t, IsGeneralFunctionBoundary(comma))
	assert.False(t, IsGeneralFunctionBoundary(plus))

	assert.True(t, IsPrefixFunctionBoundary(plus))
	assert.False(t, IsPrefixFunctionBoundary(div))
	assert.True(t, IsPrefixFunctionBoundary(appl))
	assert.False(t, IsPrefixFunctionBoundary(x))

	assert.True(t, IsBigOpBoundary(div))
	assert.False(t, IsBigOpBoundary(x))

	d := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "d")
	assert.True(t, IsIntegralDxBoundary(d, x))
	assert.False(t, IsIntegralDxBoundary(x, d))
	assert.False(t, IsIntegralDxBoundary(d, nil))
	assert.True(t, IsIntegralDxBoundarySingle(node(tree, semantic.TypeIdentifier, semantic.RoleUnknown, "dx")))
	assert.False(t, IsIntegralDxBoundarySingle(d))
}

func TestIsSimpleFunctionScope(t *testing.T) {
	tree := semantic.NewTree()
	x := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "x")
	y := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "y")
	assert.True(t, IsSimpleFunctionScope(tree, branch(tree, semantic.TypeRow, semantic.RoleNone)))
	assert.True(t, IsSimpleFunctionScope(tree, branch(tree, semantic.TypeRow, semantic.RoleNone, x)))

	sum := branch(tree, semantic.TypeInfixOp, semantic.RoleAddition, x, y)
	assert.False(t, IsSimpleFunctionScope(tree, branch(tree, semantic.TypeRow, semantic.RoleNone, sum)))

	a := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "a")
	b := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "b")
	implicit := branch(tree, semantic.TypeInfixOp, semantic.RoleImplicit, a, b)
	assert.True(t, IsSimpleFunctionScope(tree, branch(tree, semantic.TypeRow, semantic.RoleNone, implicit)))

	c := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "c")
	nested := branch(tree, semantic.TypeInfixOp, semantic.RoleImplicit, sum, c)
	assert.False(t, IsSimpleFunctionScope(tree, branch(tree, semantic.TypeRow, semantic.RoleNone, nested)))
}

// scripted wraps a fence in a subscript so that it becomes embellished.
func scripted(tree *semantic.Tree, typ semantic.Type, fence *semantic.Node) *semantic.Node {
	n := branch(tree, typ, fence.Role, fence, node(tree, semantic.TypeNumber, semantic.RoleInteger, "2"))
	semantic.Embellish(n, fence)
	return n
}

func tensor(tree *semantic.Tree, fence *semantic.Node, filled ...int) *semantic.Node {
	children := []*semantic.Node{fence}
	for i := 1; i <= 4; i++ {
		if len(filled) > 0 && filled[0] == i {
			children = append(children, node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "i"))
			filled = filled[1:]
			continue
		}
		children = append(children, tree.MakeEmpty())
	}
	n := branch(tree, semantic.TypeTensor, fence.Role, children...)
	semantic.Embellish(n, fence)
	return n
}

func TestEmbellishedFences(t *testing.T) {
	tree := semantic.NewTree()
	open := func() *semantic.Node { return node(tree, semantic.TypeFence, semantic.RoleOpen, "(") }
	closing := func() *semantic.Node { return node(tree, semantic.TypeFence, semantic.RoleClose, ")") }
	bar := func() *semantic.Node { return node(tree, semantic.TypeFence, semantic.RoleNeutral, "|") }

	assert.True(t, IsEligibleEmbellishedFence(tree, open()))
	assert.False(t, IsEligibleEmbellishedFence(tree, scripted(tree, semantic.TypeSubscript, open())))
	assert.True(t, IsEligibleEmbellishedFence(tree, scripted(tree, semantic.TypeSubscript, closing())))
	assert.False(t, IsEligibleEmbellishedFence(tree, tensor(tree, closing(), 1)))
	assert.False(t, IsEligibleEmbellishedFence(tree, tensor(tree, open(), 1, 3)))
	assert.False(t, IsEligibleEmbellishedFence(tree, node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "x")))

	assert.True(t, EligibleLeftNeutral(tree, bar()))
	assert.False(t, EligibleLeftNeutral(tree, scripted(tree, semantic.TypeSuperscript, bar())))
	assert.True(t, EligibleLeftNeutral(tree, tensor(tree, bar(), 1)))
	assert.False(t, EligibleLeftNeutral(tree, tensor(tree, bar(), 3)))
	assert.False(t, EligibleLeftNeutral(tree, open()))

	assert.True(t, EligibleRightNeutral(tree, scripted(tree, semantic.TypeSuperscript, bar())))
	assert.True(t, EligibleRightNeutral(tree, tensor(tree, bar(), 4)))
	assert.False(t, EligibleRightNeutral(tree, tensor(tree, bar(), 2)))

	assert.True(t, CompareNeutralFences(tree, bar(), scripted(tree, semantic.TypeSubscript, bar())))
	assert.False(t, CompareNeutralFences(tree, bar(), node(tree, semantic.TypeFence, semantic.RoleNeutral, "‖")))
	assert.False(t, CompareNeutralFences(tree, bar(), open()))
}

func TestTables(t *testing.T) {
	tree := semantic.NewTree()
	cell := func() *semantic.Node {
		return branch(tree, semantic.TypeCell, semantic.RoleNone, node(tree, semantic.TypeNumber, semantic.RoleInteger, "1"))
	}
	narrow := branch(tree, semantic.TypeTable, semantic.RoleNone,
		branch(tree, semantic.TypeRow, semantic.RoleNone, cell()),
		branch(tree, semantic.TypeRow, semantic.RoleNone, cell()))
	wide := branch(tree, semantic.TypeTable, semantic.RoleNone,
		branch(tree, semantic.TypeRow, semantic.RoleNone, cell(), cell()))

	assert.True(t, TableIsMultiline(tree, narrow))
	assert.False(t, TableIsMultiline(tree, wide))
	assert.True(t, IsBinomial(narrow))
	assert.False(t, IsBinomial(wide))
	assert.True(t, IsTableOrMultiline(wide))

	fenced := branch(tree, semantic.TypeFenced, semantic.RoleLeftRight, wide)
	assert.True(t, IsFencedElement(fenced))
	assert.True(t, TableIsMatrixOrVector(tree, fenced))
	assert.False(t, TableIsMatrixOrVector(tree, branch(tree, semantic.TypeFenced, semantic.RoleLeftRight, cell())))

	brace := node(tree, semantic.TypePunctuation, semantic.RoleOpenFence, "{")
	assert.True(t, TableIsCases(wide, []*semantic.Node{brace}))
	assert.False(t, TableIsCases(wide, nil))
}

func TestSets(t *testing.T) {
	tree := semantic.NewTree()
	x := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "x")
	set := tree.MakeBranch(semantic.TypeFenced, []*semantic.Node{x}, []*semantic.Node{
		node(tree, semantic.TypeFence, semantic.RoleOpen, "{"),
		node(tree, semantic.TypeFence, semantic.RoleClose, "}"),
	})
	assert.True(t, IsSetNode(tree, set))
	assert.True(t, IsLeftBrace(tree.Content(set)[0]))
	assert.True(t, IsRightBrace(tree.Content(set)[1]))

	paren := tree.MakeBranch(semantic.TypeFenced, nil, []*semantic.Node{
		node(tree, semantic.TypeFence, semantic.RoleOpen, "("),
		node(tree, semantic.TypeFence, semantic.RoleClose, ")"),
	})
	assert.False(t, IsSetNode(tree, paren))

	assert.True(t, IsSingletonSetContent(tree, x))
	y := node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "y")
	assert.False(t, IsSingletonSetContent(tree, branch(tree, semantic.TypeInfixOp, semantic.RoleAddition, x, y)))
	assert.False(t, IsSingletonSetContent(tree, branch(tree, semantic.TypePunctuated, semantic.RoleSequence)))
	scripted := branch(tree, semantic.TypeSubscript, semantic.RoleNone,
		branch(tree, semantic.TypeRelSeq, semantic.RoleEquality), y)
	assert.False(t, IsSingletonSetContent(tree, scripted))
	assert.False(t, IsSingletonSetContent(tree, nil))
}

func TestNumbersAndUnits(t *testing.T) {
	tree := semantic.NewTree()
	two := node(tree, semantic.TypeNumber, semantic.RoleInteger, "2")
	half := node(tree, semantic.TypeNumber, semantic.RoleVulgar, "½")
	assert.True(t, IsNumber(two))
	assert.False(t, IsNumber(half))
	assert.True(t, IsUnitCounter(half))
	assert.False(t, IsUnitCounter(node(tree, semantic.TypeIdentifier, semantic.RoleLatinLetter, "x")))

	m := node(tree, semantic.TypeIdentifier, semantic.RoleUnit, "m")
	s := node(tree, semantic.TypeIdentifier, semantic.RoleUnit, "s")
	times := node(tree, semantic.TypeOperator, semantic.RoleMultiplication, semantic.InvisibleTimes)
	product := tree.MakeBranch(semantic.TypeInfixOp, []*semantic.Node{m, s}, []*semantic.Node{times})
	product.Role = semantic.RoleUnit
	assert.True(t, IsPureUnit(tree, m))
	assert.True(t, IsPureUnit(tree, product))
	assert.True(t, IsImplicit(tree, product))
	assert.False(t, IsImplicitOp(product))

	implicit := branch(tree, semantic.TypeInfixOp, semantic.RoleImplicit, two, m)
	assert.True(t, IsImplicit(tree, implicit))
	assert.True(t, IsImplicitOp(implicit))
}

func TestLimitBase(t *testing.T) {
	tree := semantic.NewTree()
	sum := node(tree, semantic.TypeLargeOp, semantic.RoleSum, "∑")
	lim := node(tree, semantic.TypeFunction, semantic.RoleLimFunc, "lim")
	sin := node(tree, semantic.TypeFunction, semantic.RolePrefixFunc, "sin")
	assert.True(t, IsLimitBase(tree, sum))
	assert.True(t, IsLimitBase(tree, lim))
	assert.False(t, IsLimitBase(tree, sin))
	over := branch(tree, semantic.TypeOverscore, semantic.RoleNone, sum, tree.MakeEmpty())
	assert.True(t, IsLimitBase(tree, over))
	assert.False(t, IsLimitBase(tree, nil))
}

func TestFunctionHeads(t *testing.T) {
	tree := semantic.NewTree()
	f := node(tree, semantic.TypeIdentifier, semantic.RoleSimpleFunc, "f")
	assert.True(t, IsSimpleFunction(f))
	assert.True(t, IsSimpleFunctionHead(f))
	assert.False(t, IsSimpleFunctionHead(node(tree, semantic.TypeNumber, semantic.RoleInteger, "1")))

	comma := node(tree, semantic.TypePunctuation, semantic.RoleComma, ",")
	nodes := []*semantic.Node{f, comma}
	assert.True(t, SinglePunctAtPosition(nodes, []*semantic.Node{comma}, 1))
	assert.False(t, SinglePunctAtPosition(nodes, []*semantic.Node{comma}, 0))
	assert.False(t, SinglePunctAtPosition(nodes, []*semantic.Node{comma}, 5))
}

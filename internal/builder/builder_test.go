package builder

import (
	"testing"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, src string) *semantic.Tree {
	t.Helper()
	e, err := mathml.ParseString(src)
	require.NoError(t, err)
	tree := Build(e)
	require.NoError(t, tree.Validate())
	return tree
}

func texts(nodes []*semantic.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.TextContent)
	}
	return out
}

func TestBuild_FractionMissingDenominator(t *testing.T) {
	tree := build(t, `<math><mfrac><mn>1</mn></mfrac></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeFraction, root.Type)
	assert.Equal(t, semantic.RoleDivision, root.Role)

	kids := tree.Children(root)
	require.Len(t, kids, 2)
	assert.Equal(t, semantic.TypeNumber, kids[0].Type)
	assert.Equal(t, semantic.RoleInteger, kids[0].Role)
	assert.Equal(t, "1", kids[0].TextContent)
	assert.Equal(t, semantic.TypeEmpty, kids[1].Type)
}

func TestBuild_FractionRoles(t *testing.T) {
	tree := build(t, `<math><mfrac><mn>1</mn><mn>2</mn></mfrac></math>`)
	assert.Equal(t, semantic.RoleVulgar, tree.RootNode().Role)

	tree = build(t, `<math><mfrac bevelled="true"><mi>a</mi><mi>b</mi></mfrac></math>`)
	assert.Equal(t, semantic.RoleBevelled, tree.RootNode().Role)
}

func TestBuild_Space(t *testing.T) {
	cases := []struct {
		width string
		want  semantic.Type
	}{
		{"0.6em", semantic.TypeText},
		{"0.3em", semantic.TypeEmpty},
		{"0.4cm", semantic.TypeText},
		{"1ex", semantic.TypeText},
		{"4pt", semantic.TypeEmpty},
		{"5mm", semantic.TypeText},
		{"20px", semantic.TypeEmpty},
		{"thickmathspace", semantic.TypeEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.width, func(t *testing.T) {
			tree := build(t, `<math><mspace width="`+tc.width+`"/></math>`)
			root := tree.RootNode()
			assert.Equal(t, tc.want, root.Type)
			if tc.want == semantic.TypeText {
				assert.Equal(t, semantic.RoleSpace, root.Role)
			}
		})
	}

	tree := build(t, `<math><mspace/></math>`)
	assert.Equal(t, semantic.TypeEmpty, tree.RootNode().Type)
}

func TestBuild_SpaceThresholdConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpaceThresholds["em"] = 1
	e, err := mathml.ParseString(`<math><mspace width="0.6em"/></math>`)
	require.NoError(t, err)
	tree := New(cfg).Build(e)
	assert.Equal(t, semantic.TypeEmpty, tree.RootNode().Type)
}

func TestBuild_EmbellishedNeutralFencePair(t *testing.T) {
	tree := build(t, `<math><mo>|</mo><mi>x</mi><msup><mo>|</mo><mn>2</mn></msup></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeSuperscript, root.Type)
	assert.Equal(t, semantic.TypeNone, root.Embellished)

	fenced := tree.Child(root, 0)
	require.Equal(t, semantic.TypeFenced, fenced.Type)
	assert.Equal(t, semantic.RoleNeutral, fenced.Role)
	assert.Equal(t, []string{"|", "|"}, texts(tree.Content(fenced)))
	assert.Equal(t, "x", tree.Child(fenced, 0).TextContent)
	assert.Equal(t, fenced.Content[1], root.FencePointer)
	assert.Equal(t, "2", tree.Child(root, 1).TextContent)
}

func TestBuild_NeutralFencesPairLeftmost(t *testing.T) {
	tree := build(t, `<math><mo>|</mo><mi>a</mi><mo>|</mo><mi>b</mi><mo>|</mo><mi>c</mi><mo>|</mo></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeInfixOp, root.Type)
	assert.Equal(t, semantic.RoleImplicit, root.Role)
	kids := tree.Children(root)
	require.Len(t, kids, 3)
	assert.Equal(t, semantic.TypeFenced, kids[0].Type)
	assert.Equal(t, "b", kids[1].TextContent)
	assert.Equal(t, semantic.TypeFenced, kids[2].Type)
}

func TestBuild_UnmatchedFenceBecomesPunctuation(t *testing.T) {
	tree := build(t, `<math><mo>(</mo><mi>a</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypePunctuated, root.Type)
	assert.Equal(t, semantic.RoleStartPunct, root.Role)
	punct := tree.Content(root)
	require.Len(t, punct, 1)
	assert.Equal(t, semantic.TypePunctuation, punct[0].Type)
	assert.Equal(t, semantic.RoleOpenFence, punct[0].Role)
}

func TestBuild_PseudoTensor(t *testing.T) {
	tree := build(t, `<math><mmultiscripts><mi>X</mi><mi>a</mi><mi>b</mi></mmultiscripts></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeSuperscript, root.Type)
	assert.Equal(t, semantic.RoleLatinLetter, root.Role)

	inner := tree.Child(root, 0)
	require.Equal(t, semantic.TypeSubscript, inner.Type)
	assert.Equal(t, semantic.RoleSubsup, inner.Role)
	assert.Equal(t, "X", tree.Child(inner, 0).TextContent)
	assert.Equal(t, "a", tree.Child(inner, 1).TextContent)
	assert.Equal(t, "b", tree.Child(root, 1).TextContent)

	tree.Walk(tree.Root, func(n *semantic.Node) bool {
		assert.NotEqual(t, semantic.TypeTensor, n.Type)
		return true
	})
}

func TestBuild_PseudoTensorSeveralIndices(t *testing.T) {
	tree := build(t, `<math><mmultiscripts><mi>X</mi><mi>a</mi><none/><mi>b</mi><none/></mmultiscripts></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeSubscript, root.Type)
	index := tree.Child(root, 1)
	require.Equal(t, semantic.TypePunctuated, index.Type)
	assert.Equal(t, semantic.RoleRightSub, index.Role)
	assert.Equal(t, []string{"a", "b"}, texts(tree.Children(index)))
	commas := tree.Content(index)
	require.Len(t, commas, 1)
	assert.Equal(t, semantic.InvisibleComma, commas[0].TextContent)
	assert.Nil(t, commas[0].Origin)
}

func TestBuild_Tensor(t *testing.T) {
	tree := build(t, `<math><mmultiscripts><mi>X</mi><mi>a</mi><mi>b</mi><mprescripts/><mi>c</mi><none/></mmultiscripts></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeTensor, root.Type)
	kids := tree.Children(root)
	require.Len(t, kids, 5)
	assert.Equal(t, "X", kids[0].TextContent)
	assert.Equal(t, semantic.RoleLeftSub, kids[1].Role)
	assert.Equal(t, "c", kids[1].TextContent)
	assert.Equal(t, semantic.TypeEmpty, kids[2].Type)
	assert.Equal(t, semantic.RoleLeftSuper, kids[2].Role)
	assert.Equal(t, semantic.RoleRightSub, kids[3].Role)
	assert.Equal(t, semantic.RoleRightSuper, kids[4].Role)

	tree = build(t, `<math><mmultiscripts><mi>X</mi><mprescripts/><mi>c</mi><mi>d</mi></mmultiscripts></math>`)
	kids = tree.Children(tree.RootNode())
	require.Len(t, kids, 5)
	assert.Equal(t, semantic.TypeEmpty, kids[3].Type)
	assert.Equal(t, semantic.TypeEmpty, kids[4].Type)
	assert.Nil(t, kids[3].Origin)
}

func TestBuild_EmbellishedOperator(t *testing.T) {
	tree := build(t, `<math><msubsup><mo>+</mo><mi>a</mi><mi>b</mi></msubsup></math>`)
	root := tree.RootNode()
	assert.Equal(t, semantic.TypeOperator, root.Embellished)
	assert.Equal(t, semantic.RoleAddition, root.Role)
	inner := tree.Child(root, 0)
	assert.Equal(t, semantic.TypeOperator, inner.Embellished)
	assert.Equal(t, semantic.RoleSubsup, inner.Role)
	assert.Equal(t, "+", tree.EmbellishedInner(root).TextContent)
	assert.Equal(t, semantic.NoID, root.FencePointer)
}

func TestBuild_EmbellishedFencePointer(t *testing.T) {
	tree := build(t, `<math><msub><msup><mo>)</mo><mn>2</mn></msup><mn>1</mn></msub></math>`)
	root := tree.RootNode()
	leaf := tree.EmbellishedInner(root)
	require.Equal(t, semantic.TypeFence, leaf.Type)
	assert.Equal(t, semantic.TypeFence, root.Embellished)
	assert.Equal(t, leaf.ID, root.FencePointer)
	assert.Equal(t, leaf.ID, tree.Child(root, 0).FencePointer)
}

func TestBuild_Accents(t *testing.T) {
	tree := build(t, `<math><mover><mi>x</mi><mo>^</mo></mover></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeOverscore, root.Type)
	assert.Equal(t, semantic.RoleOverAccent, tree.Child(root, 1).Role)

	tree = build(t, `<math><munderover><mi>x</mi><mi>a</mi><mo>~</mo></munderover></math>`)
	root = tree.RootNode()
	require.Equal(t, semantic.TypeUnderscore, root.Type)
	inner := tree.Child(root, 0)
	assert.Equal(t, semantic.TypeOverscore, inner.Type)
	assert.Equal(t, semantic.RoleUnderover, inner.Role)
}

func TestBuild_Limits(t *testing.T) {
	tree := build(t, `<math><munderover><mo>∑</mo><mi>i</mi><mi>n</mi></munderover><mi>i</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeBigOp, root.Type)
	assert.Equal(t, semantic.RoleSum, root.Role)
	op := tree.Child(root, 0)
	assert.Equal(t, semantic.TypeLimBoth, op.Type)
	assert.Len(t, op.Children, 3)

	tree = build(t, `<math><munder><mi>lim</mi><mi>x</mi></munder><mi>f</mi></math>`)
	root = tree.RootNode()
	require.Equal(t, semantic.TypeAppl, root.Type)
	assert.Equal(t, semantic.TypeLimLower, tree.Child(root, 0).Type)
}

func TestBuild_FunctionApplication(t *testing.T) {
	tree := build(t, `<math><mi>f</mi><mo>(</mo><mi>x</mi><mo>)</mo></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeAppl, root.Type)
	assert.Equal(t, semantic.RoleSimpleFunc, root.Role)
	assert.Equal(t, semantic.RoleSimpleFunc, tree.Child(root, 0).Role)
	assert.Equal(t, semantic.TypeFenced, tree.Child(root, 1).Type)
	content := tree.Content(root)
	require.Len(t, content, 1)
	assert.Equal(t, semantic.FunctionApplication, content[0].TextContent)

	tree = build(t, `<math><mi>a</mi><mo>(</mo><mi>b</mi><mo>+</mo><mi>c</mi><mo>)</mo></math>`)
	root = tree.RootNode()
	require.Equal(t, semantic.TypeInfixOp, root.Type)
	assert.Equal(t, semantic.RoleImplicit, root.Role)
	assert.Equal(t, semantic.InvisibleTimes, root.TextContent)
}

func TestBuild_ExplicitApplicationReused(t *testing.T) {
	tree := build(t, `<math><mi>g</mi><mo>&#x2061;</mo><mi>x</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeAppl, root.Type)
	content := tree.Content(root)
	require.Len(t, content, 1)
	require.NotNil(t, content[0].Origin)
	assert.Equal(t, "mo", content[0].Origin.Tag)
}

func TestBuild_PrefixFunction(t *testing.T) {
	tree := build(t, `<math><mi>sin</mi><mi>x</mi><mo>+</mo><mn>1</mn></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeInfixOp, root.Type)
	appl := tree.Child(root, 0)
	require.Equal(t, semantic.TypeAppl, appl.Type)
	assert.Equal(t, semantic.RolePrefixFunc, appl.Role)
	assert.Equal(t, "x", tree.Child(appl, 1).TextContent)
}

func TestBuild_Integral(t *testing.T) {
	tree := build(t, `<math><mo>∫</mo><mi>f</mi><mi>d</mi><mi>x</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeIntegral, root.Type)
	kids := tree.Children(root)
	require.Len(t, kids, 3)
	assert.Equal(t, "f", kids[1].TextContent)
	assert.Equal(t, semantic.TypePrefixOp, kids[2].Type)
	assert.Equal(t, semantic.RoleIntegral, kids[2].Role)

	tree = build(t, `<math><mo>∫</mo><mi>f</mi><mi>dx</mi></math>`)
	kids = tree.Children(tree.RootNode())
	require.Len(t, kids, 3)
	assert.Equal(t, "dx", kids[2].TextContent)
	assert.Equal(t, semantic.RoleIntegral, kids[2].Role)
}

func TestBuild_OperatorPrecedence(t *testing.T) {
	tree := build(t, `<math><mi>a</mi><mo>+</mo><mi>b</mi><mo>×</mo><mi>c</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeInfixOp, root.Type)
	assert.Equal(t, semantic.RoleAddition, root.Role)
	right := tree.Child(root, 1)
	assert.Equal(t, semantic.TypeInfixOp, right.Type)
	assert.Equal(t, semantic.RoleMultiplication, right.Role)

	tree = build(t, `<math><mi>a</mi><mo>-</mo><mi>b</mi><mo>-</mo><mi>c</mi></math>`)
	root = tree.RootNode()
	assert.Len(t, root.Children, 3)
	assert.Len(t, root.Content, 2)
}

func TestBuild_PrefixAndPostfix(t *testing.T) {
	tree := build(t, `<math><mo>-</mo><mi>a</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypePrefixOp, root.Type)
	assert.Equal(t, semantic.RoleNegative, root.Role)

	tree = build(t, `<math><mi>n</mi><mo>!</mo></math>`)
	root = tree.RootNode()
	require.Equal(t, semantic.TypePostfixOp, root.Type)
	assert.Equal(t, "n", tree.Child(root, 0).TextContent)
}

func TestBuild_Relations(t *testing.T) {
	tree := build(t, `<math><mi>x</mi><mo>=</mo><mi>y</mi><mo>=</mo><mi>z</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeRelSeq, root.Type)
	assert.Equal(t, semantic.RoleEquality, root.Role)
	assert.Len(t, root.Children, 3)

	tree = build(t, `<math><mi>x</mi><mo>&lt;</mo><mi>y</mi><mo>=</mo><mi>z</mi></math>`)
	root = tree.RootNode()
	require.Equal(t, semantic.TypeMultiRel, root.Type)
	assert.Equal(t, semantic.RoleUnknown, root.Role)
}

func TestBuild_Matrix(t *testing.T) {
	const grid = `<mtable><mtr><mtd><mn>1</mn></mtd><mtd><mn>2</mn></mtd></mtr>` +
		`<mtr><mtd><mn>3</mn></mtd><mtd><mn>4</mn></mtd></mtr></mtable>`
	tree := build(t, `<math><mo>(</mo>`+grid+`<mo>)</mo></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeMatrix, root.Type)
	assert.Equal(t, semantic.RoleSquareMatrix, root.Role)
	assert.Equal(t, []string{"(", ")"}, texts(tree.Content(root)))
	for _, row := range tree.Children(root) {
		assert.Equal(t, semantic.TypeRow, row.Type)
		assert.Equal(t, semantic.RoleSquareMatrix, row.Role)
	}

	tree = build(t, `<math><mo>|</mo>`+grid+`<mo>|</mo></math>`)
	assert.Equal(t, semantic.RoleDeterminant, tree.RootNode().Role)
}

func TestBuild_Cases(t *testing.T) {
	tree := build(t, `<math><mo>{</mo><mtable><mtr><mtd><mn>1</mn></mtd><mtd><mi>x</mi></mtd></mtr>`+
		`<mtr><mtd><mn>0</mn></mtd><mtd><mi>y</mi></mtd></mtr></mtable></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeCases, root.Type)
	content := tree.Content(root)
	require.Len(t, content, 1)
	assert.Equal(t, "{", content[0].TextContent)
	for _, row := range tree.Children(root) {
		assert.Equal(t, semantic.RoleCases, row.Role)
	}
}

func TestBuild_Multiline(t *testing.T) {
	tree := build(t, `<math><mtable><mtr><mtd><mi>a</mi></mtd></mtr><mtr><mtd><mi>b</mi></mtd></mtr></mtable></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeMultiline, root.Type)
	for _, line := range tree.Children(root) {
		assert.Equal(t, semantic.TypeLine, line.Type)
		assert.Equal(t, semantic.RoleMultiline, line.Role)
		require.Len(t, line.Children, 1)
		assert.Equal(t, semantic.TypeIdentifier, tree.Child(line, 0).Type)
	}
}

func TestBuild_Binomial(t *testing.T) {
	tree := build(t, `<math><mo>(</mo><mfrac linethickness="0"><mi>n</mi><mi>k</mi></mfrac><mo>)</mo></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeVector, root.Type)
	assert.Equal(t, semantic.RoleBinomial, root.Role)
}

func TestBuild_Sets(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want semantic.Role
	}{
		{"single", `<mo>{</mo><mi>x</mi><mo>}</mo>`, semantic.RoleSetSingle},
		{"empty", `<mo>{</mo><mo>}</mo>`, semantic.RoleSetEmpty},
		{"collect", `<mo>{</mo><mi>a</mi><mo>,</mo><mi>b</mi><mo>}</mo>`, semantic.RoleSetCollect},
		{"extension", `<mo>{</mo><mi>x</mi><mo>:</mo><mi>x</mi><mo>}</mo>`, semantic.RoleSetExt},
		{"parens", `<mo>(</mo><mi>a</mi><mo>,</mo><mi>b</mi><mo>)</mo>`, semantic.RoleLeftRight},
		{"sum", `<mo>{</mo><mi>a</mi><mo>+</mo><mi>b</mi><mo>}</mo>`, semantic.RoleLeftRight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := build(t, `<math>`+tc.src+`</math>`)
			root := tree.RootNode()
			require.Equal(t, semantic.TypeFenced, root.Type)
			assert.Equal(t, tc.want, root.Role)
		})
	}
}

func TestBuild_TextRow(t *testing.T) {
	tree := build(t, `<math><mtext>if</mtext><mi>x</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypePunctuated, root.Type)
	assert.Equal(t, semantic.RoleText, root.Role)
	assert.Len(t, root.Children, 2)
	commas := tree.Content(root)
	require.Len(t, commas, 1)
	assert.Equal(t, semantic.RoleDummy, commas[0].Role)
}

func TestBuild_Punctuation(t *testing.T) {
	tree := build(t, `<math><mi>a</mi><mo>,</mo><mi>b</mi><mo>,</mo><mi>c</mi></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypePunctuated, root.Type)
	assert.Equal(t, semantic.RoleSequence, root.Role)
	assert.Len(t, root.Children, 5)
	assert.Len(t, root.Content, 2)

	tree = build(t, `<math><mi>x</mi><mo>.</mo></math>`)
	assert.Equal(t, semantic.RoleEndPunct, tree.RootNode().Role)
}

func TestBuild_MixedNumber(t *testing.T) {
	tree := build(t, `<math><mn>3</mn><mfrac><mn>1</mn><mn>2</mn></mfrac></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeNumber, root.Type)
	assert.Equal(t, semantic.RoleMixed, root.Role)
	assert.Len(t, root.Children, 2)
}

func TestBuild_Mfenced(t *testing.T) {
	tree := build(t, `<math><mfenced><mi>a</mi><mi>b</mi></mfenced></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeFenced, root.Type)
	assert.Equal(t, semantic.RoleLeftRight, root.Role)
	assert.Equal(t, []string{"(", ")"}, texts(tree.Content(root)))
	inner := tree.Child(root, 0)
	require.Equal(t, semantic.TypePunctuated, inner.Type)
	assert.Equal(t, ",", tree.Content(inner)[0].TextContent)

	tree = build(t, `<math><mfenced open="[" close="]" separators=";"><mi>a</mi><mi>b</mi></mfenced></math>`)
	root = tree.RootNode()
	assert.Equal(t, []string{"[", "]"}, texts(tree.Content(root)))
	assert.Equal(t, ";", tree.Content(tree.Child(root, 0))[0].TextContent)
}

func TestBuild_RootAndSqrt(t *testing.T) {
	tree := build(t, `<math><mroot><mi>x</mi><mn>3</mn></mroot></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeRoot, root.Type)
	assert.Equal(t, "3", tree.Child(root, 0).TextContent)
	assert.Equal(t, "x", tree.Child(root, 1).TextContent)

	tree = build(t, `<math><mroot><mi>x</mi></mroot></math>`)
	assert.Equal(t, semantic.TypeSqrt, tree.RootNode().Type)
}

func TestBuild_Enclose(t *testing.T) {
	tree := build(t, `<math><menclose notation="box"><mi>x</mi></menclose></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeEnclose, root.Type)
	assert.Equal(t, semantic.Role("box"), root.Role)
}

func TestBuild_Unprocessed(t *testing.T) {
	tree := build(t, `<math><mblah> raw </mblah></math>`)
	root := tree.RootNode()
	assert.Equal(t, semantic.TypeUnknown, root.Type)
	assert.Equal(t, semantic.Role("mblah"), root.Role)
	assert.Equal(t, "raw", root.TextContent)
}

func TestBuild_Leaves(t *testing.T) {
	tree := build(t, `<math><mi>x</mi></math>`)
	root := tree.RootNode()
	assert.Equal(t, semantic.TypeIdentifier, root.Type)
	assert.Equal(t, semantic.RoleLatinLetter, root.Role)
	assert.Equal(t, semantic.FontItalic, root.Font)

	tree = build(t, `<math><mi mathvariant="double-struck">R</mi></math>`)
	root = tree.RootNode()
	assert.Equal(t, semantic.FontDoubleStruck, root.Font)
	assert.Equal(t, semantic.RoleNumberSet, root.Role)

	tree = build(t, `<math><mn>3.14</mn></math>`)
	assert.Equal(t, semantic.RoleFloat, tree.RootNode().Role)

	tree = build(t, `<math><mi class="MathML-Unit">km</mi></math>`)
	assert.Equal(t, semantic.RoleUnit, tree.RootNode().Role)
}

func TestBuild_Proof(t *testing.T) {
	tree := build(t, `<math><mtable semantics="bspr_inferenceRule:down;bspr_labelledRule:right">`+
		`<mtr><mtd><mi>A</mi></mtd><mtd><mi>B</mi></mtd><mtd semantics="bspr_label:right"><mtext>R</mtext></mtd></mtr>`+
		`<mtr><mtd><mi>C</mi></mtd></mtr></mtable></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeInference, root.Type)
	assert.Equal(t, semantic.RoleDown, root.Role)
	kids := tree.Children(root)
	require.Len(t, kids, 2)
	assert.Equal(t, "C", kids[0].TextContent)
	assert.Equal(t, semantic.TypePremises, kids[1].Type)
	assert.Equal(t, []string{"A", "B"}, texts(tree.Children(kids[1])))
	labels := tree.Content(root)
	require.Len(t, labels, 1)
	assert.Equal(t, semantic.RoleRight, labels[0].Role)
	assert.Equal(t, []string{"labelled-right"}, root.Annotation["proof"])
}

func TestBuild_Maction(t *testing.T) {
	tree := build(t, `<math><maction selection="2"><mi>a</mi><mi>b</mi></maction></math>`)
	assert.Equal(t, "b", tree.RootNode().TextContent)

	tree = build(t, `<math><semantics><mi>a</mi><annotation>x</annotation></semantics></math>`)
	assert.Equal(t, "a", tree.RootNode().TextContent)
}

func TestBuild_OriginsAndParents(t *testing.T) {
	tree := build(t, `<math><mi>a</mi><mo>+</mo><mi>b</mi></math>`)
	root := tree.RootNode()
	assert.Equal(t, semantic.NoID, root.Parent)
	require.NotNil(t, root.Origin)
	assert.Equal(t, "math", root.Origin.Tag)
	for _, c := range tree.Children(root) {
		assert.Equal(t, root.ID, c.Parent)
		require.NotNil(t, c.Origin)
		assert.Equal(t, "mi", c.Origin.Tag)
	}
}

func TestBuild_CompareNeutralFencesThroughScripts(t *testing.T) {
	tree := build(t, `<math><mrow><msup><mo>|</mo><mn>2</mn></msup></mrow></math>`)
	bare := tree.MakeLeaf("|", semantic.FontNormal)
	bare.Type, bare.Role = semantic.TypeFence, semantic.RoleNeutral
	assert.True(t, pred.CompareNeutralFences(tree, tree.RootNode(), bare))
}

func TestBuild_NeutralOpenerScriptedOnInnerSide(t *testing.T) {
	tree := build(t, `<math><msup><mo>|</mo><mn>2</mn></msup><mi>x</mi><mo>|</mo></math>`)
	var fenced []semantic.ID
	var visit func(n *semantic.Node)
	visit = func(n *semantic.Node) {
		if n.Type == semantic.TypeFenced {
			fenced = append(fenced, n.ID)
		}
		for _, c := range append(tree.Children(n), tree.Content(n)...) {
			visit(c)
		}
	}
	visit(tree.RootNode())
	assert.Empty(t, fenced)

	tree = build(t, `<math><mo>|</mo><mi>x</mi><mo>|</mo></math>`)
	assert.Equal(t, semantic.TypeFenced, tree.RootNode().Type)
}

func TestBuild_WordIsNotAnAccent(t *testing.T) {
	tree := build(t, `<math><mover><mi>x</mi><mi>ab</mi></mover></math>`)
	root := tree.RootNode()
	require.Equal(t, semantic.TypeOverscore, root.Type)
	assert.Equal(t, semantic.RoleUnknown, tree.Child(root, 1).Role)

	tree = build(t, `<math><mover><mi>x</mi><mi>*</mi></mover></math>`)
	assert.Equal(t, semantic.RoleOverAccent, tree.Child(tree.RootNode(), 1).Role)
}

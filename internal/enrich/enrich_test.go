package enrich

import (
	"testing"

	"github.com/agentic-research/semtree/api"
	"github.com/agentic-research/semtree/internal/builder"
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrich(t *testing.T, src string) *mathml.Element {
	t.Helper()
	e, err := mathml.ParseString(src)
	require.NoError(t, err)
	return Enrich(builder.Build(e))
}

func byID(root *mathml.Element) map[string]*mathml.Element {
	out := map[string]*mathml.Element{}
	root.Walk(func(e *mathml.Element) bool {
		if id, ok := e.Attr(api.AttrID); ok {
			out[id] = e
		}
		return true
	})
	return out
}

func TestEnrich_InfixAnnotations(t *testing.T) {
	root := enrich(t, `<math><mi>a</mi><mo>+</mo><mi>b</mi></math>`)
	assert.Equal(t, "math", root.Name)
	assert.Equal(t, "infixop", root.AttrOr(api.AttrType, ""))
	assert.Equal(t, "addition", root.AttrOr(api.AttrRole, ""))
	assert.Equal(t, "0,2", root.AttrOr(api.AttrChildren, ""))
	assert.Equal(t, "1", root.AttrOr(api.AttrContent, ""))

	require.Len(t, root.Children, 3)
	assert.Equal(t, "a", root.Children[0].Text)
	plus := root.Children[1]
	assert.Equal(t, "mo", plus.Name)
	assert.Equal(t, "infixop,+", plus.AttrOr(api.AttrOperator, ""))
	_, hasOp := root.Children[0].Attr(api.AttrOperator)
	assert.False(t, hasOp)
}

func TestEnrich_SubsupCollapsed(t *testing.T) {
	root := enrich(t, `<math><msubsup><mi>x</mi><mi>a</mi><mi>b</mi></msubsup></math>`)
	els := byID(root)

	outer := els["4"]
	require.NotNil(t, outer)
	assert.Equal(t, "msubsup", outer.Name)
	assert.Equal(t, "subsup", outer.AttrOr(api.AttrType, ""))
	assert.Equal(t, "(4 (3 0 1) 2)", outer.AttrOr(api.AttrCollapsed, ""))
	assert.Equal(t, "3,2", outer.AttrOr(api.AttrChildren, ""))
	assert.NotContains(t, els, "3")
	assert.Contains(t, els, "0")
	assert.Contains(t, els, "1")
	assert.Contains(t, els, "2")
}

func TestEnrich_TensorPlaceholdersFolded(t *testing.T) {
	root := enrich(t, `<math><mmultiscripts><mi>X</mi><mprescripts/><mi>c</mi><mi>d</mi></mmultiscripts></math>`)
	els := byID(root)
	tensor := els["5"]
	require.NotNil(t, tensor)
	assert.Equal(t, "tensor", tensor.AttrOr(api.AttrType, ""))
	assert.Equal(t, "(5 0 1 2 3 4)", tensor.AttrOr(api.AttrCollapsed, ""))
	assert.NotContains(t, els, "3")
	assert.NotContains(t, els, "4")
	assert.Equal(t, "leftsub", els["1"].AttrOr(api.AttrRole, ""))
}

func TestEnrich_CommaListIndexFolded(t *testing.T) {
	root := enrich(t, `<math><mmultiscripts><mi>X</mi><mi>a</mi><none/><mi>b</mi><none/></mmultiscripts></math>`)
	var sub *mathml.Element
	root.Walk(func(e *mathml.Element) bool {
		if e.AttrOr(api.AttrType, "") == "subscript" {
			sub = e
			return false
		}
		return true
	})
	require.NotNil(t, sub)
	collapsed := sub.AttrOr(api.AttrCollapsed, "")
	assert.Contains(t, collapsed, "(c ")

	for _, e := range byID(root) {
		assert.NotEqual(t, "punctuated", e.AttrOr(api.AttrType, ""))
	}
}

func TestEnrich_MissingIndexIsEmitted(t *testing.T) {
	root := enrich(t, `<math><msub><mi>x</mi></msub></math>`)
	els := byID(root)
	empty := els["1"]
	require.NotNil(t, empty)
	assert.Equal(t, "mrow", empty.Name)
	assert.Equal(t, "empty", empty.AttrOr(api.AttrType, ""))
	_, collapsed := els["2"].Attr(api.AttrCollapsed)
	assert.False(t, collapsed)
}

func TestEnrich_UnderoverCollapsed(t *testing.T) {
	root := enrich(t, `<math><munderover><mi>x</mi><mi>a</mi><mo>^</mo></munderover></math>`)
	assert.Equal(t, "underover", root.Children[0].AttrOr(api.AttrType, ""))
	assert.Equal(t, "(4 (3 0 2) 1)", root.Children[0].AttrOr(api.AttrCollapsed, ""))
}

func TestEnrich_FenceReadingOrder(t *testing.T) {
	root := enrich(t, `<math><mo>(</mo><mi>x</mi><mo>)</mo></math>`)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "(", root.Children[0].Text)
	assert.Equal(t, "x", root.Children[1].Text)
	assert.Equal(t, ")", root.Children[2].Text)
	assert.Equal(t, "fenced,", root.Children[0].AttrOr(api.AttrOperator, ""))
}

func TestEnrich_EmptyTree(t *testing.T) {
	root := enrich(t, `<math></math>`)
	assert.Equal(t, "math", root.Name)
	assert.Equal(t, "empty", root.AttrOr(api.AttrType, ""))
}

package aural

import (
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/semtree/internal/enrich"
	"github.com/agentic-research/semtree/internal/semantic"
)

// Pauses inserted by Describe.
const (
	ShortPause Pause = 250
	LongPause  Pause = 500
)

// ScriptPitch is the pitch offset of a superscript index; subscripts use
// its negation.
const ScriptPitch = 0.35

// Describe walks the tree in reading order and evaluates every leaf.
func Describe(t *semantic.Tree, ev Evaluator) []Item {
	root := t.RootNode()
	if root == nil {
		return nil
	}
	return DescribeNode(t, root, ev)
}

// DescribeNode walks the subtree under n. Script indices raise or lower
// the pitch of their descriptions; separators and table rows are followed
// by pauses.
func DescribeNode(t *semantic.Tree, n *semantic.Node, ev Evaluator) []Item {
	d := &describer{t: t, ev: ev, seen: roaring.New()}
	d.node(n, nil)
	return d.out
}

type describer struct {
	t    *semantic.Tree
	ev   Evaluator
	seen *roaring.Bitmap
	out  []Item
}

// node describes n unless it was described before.
func (d *describer) node(n *semantic.Node, pers map[string]float64) bool {
	if n == nil || !d.seen.CheckedAdd(uint32(n.ID)) {
		return false
	}
	if n.IsLeaf() {
		for _, desc := range d.ev.EvaluateDefault(d.t, n) {
			desc.Personality = merge(desc.Personality, pers)
			d.out = append(d.out, desc)
		}
		return true
	}
	slots := enrich.IndexSlots(n.Type)
	rows := isTable(n.Type)
	for _, id := range enrich.ReadingOrder(n) {
		c := d.t.Get(id)
		p := pers
		if i := slices.Index(n.Children, id); i >= 0 {
			if role, ok := slots[i]; ok {
				p = shift(pers, Pitch, scriptPitch(role))
			}
		}
		if !d.node(c, p) {
			continue
		}
		switch {
		case n.Type == semantic.TypePunctuated && slices.Contains(n.Content, id) && audible(c):
			d.pause(ShortPause)
		case rows && slices.Contains(n.Children, id) && id != n.Children[len(n.Children)-1]:
			d.pause(LongPause)
		}
	}
	return true
}

// pause keeps the longer of two adjacent pauses.
func (d *describer) pause(p Pause) {
	if len(d.out) > 0 {
		if last, ok := d.out[len(d.out)-1].(Pause); ok {
			d.out[len(d.out)-1] = max(last, p)
			return
		}
	}
	d.out = append(d.out, p)
}

func isTable(t semantic.Type) bool {
	switch t {
	case semantic.TypeMatrix, semantic.TypeVector, semantic.TypeTable,
		semantic.TypeMultiline, semantic.TypeCases:
		return true
	}
	return false
}

func scriptPitch(r semantic.Role) float64 {
	switch r {
	case semantic.RoleRightSuper, semantic.RoleLeftSuper:
		return ScriptPitch
	}
	return -ScriptPitch
}

func audible(n *semantic.Node) bool {
	return n.TextContent != "" && !invisible(n.TextContent)
}

func shift(pers map[string]float64, key string, by float64) map[string]float64 {
	out := maps.Clone(pers)
	if out == nil {
		out = make(map[string]float64)
	}
	out[key] += by
	return out
}

func merge(own, inherited map[string]float64) map[string]float64 {
	if len(inherited) == 0 {
		return own
	}
	out := maps.Clone(inherited)
	for k, v := range own {
		out[k] += v
	}
	return out
}

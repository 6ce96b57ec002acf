package semantic

import (
	"fmt"
	"slices"
)

// Diff compares two trees field by field, starting at their roots, and
// returns one line per mismatch. Source linkage and annotations are not
// compared.
func Diff(a, b *Tree) []string {
	var out []string
	if a.Root != b.Root {
		return []string{fmt.Sprintf("root: %d != %d", a.Root, b.Root)}
	}
	seen := make(map[ID]bool)
	var cmp func(id ID)
	cmp = func(id ID) {
		if seen[id] {
			return
		}
		seen[id] = true
		x, y := a.Get(id), b.Get(id)
		switch {
		case x == nil && y == nil:
			return
		case x == nil || y == nil:
			out = append(out, fmt.Sprintf("node %d: present on one side only", id))
			return
		}
		if x.Type != y.Type {
			out = append(out, fmt.Sprintf("node %d: type %q != %q", id, x.Type, y.Type))
		}
		if x.Role != y.Role {
			out = append(out, fmt.Sprintf("node %d: role %q != %q", id, x.Role, y.Role))
		}
		if x.Font != y.Font {
			out = append(out, fmt.Sprintf("node %d: font %q != %q", id, x.Font, y.Font))
		}
		if x.Embellished != y.Embellished {
			out = append(out, fmt.Sprintf("node %d: embellished %q != %q", id, x.Embellished, y.Embellished))
		}
		if x.FencePointer != y.FencePointer {
			out = append(out, fmt.Sprintf("node %d: fencePointer %d != %d", id, x.FencePointer, y.FencePointer))
		}
		if x.TextContent != y.TextContent {
			out = append(out, fmt.Sprintf("node %d: text %q != %q", id, x.TextContent, y.TextContent))
		}
		if !slices.Equal(x.Children, y.Children) {
			out = append(out, fmt.Sprintf("node %d: children %v != %v", id, x.Children, y.Children))
		}
		if !slices.Equal(x.Content, y.Content) {
			out = append(out, fmt.Sprintf("node %d: content %v != %v", id, x.Content, y.Content))
		}
		for _, c := range x.Children {
			cmp(c)
		}
		for _, c := range x.Content {
			cmp(c)
		}
	}
	cmp(a.Root)
	return out
}

package semantic

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Data converts the subtree under id into generic JSON-shaped data.
// Content nodes are inlined the same way as children.
func (t *Tree) Data(id ID) map[string]any {
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	m := map[string]any{
		"id":   int64(n.ID),
		"type": n.Type.String(),
	}
	if n.Role != RoleNone {
		m["role"] = string(n.Role)
	}
	if n.Font != FontNone {
		m["font"] = n.Font.String()
	}
	if n.Embellished != TypeNone {
		m["embellished"] = n.Embellished.String()
	}
	if n.FencePointer != NoID {
		m["fencePointer"] = int64(n.FencePointer)
	}
	if n.TextContent != "" {
		m["text"] = n.TextContent
	}
	if a := n.AnnotationString(); a != "" {
		m["annotation"] = a
	}
	if len(n.Children) > 0 {
		children := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			children = append(children, t.Data(c))
		}
		m["children"] = children
	}
	if len(n.Content) > 0 {
		content := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			content = append(content, t.Data(c))
		}
		m["content"] = content
	}
	return m
}

// JSON renders the whole tree with sorted keys.
func (t *Tree) JSON(indent int) string {
	return oj.JSON(t.Data(t.Root), &oj.Options{Sort: true, Indent: indent})
}

// Select evaluates a JSONPath expression against Data(Root) and returns the
// nodes whose objects matched.
func (t *Tree) Select(path string) ([]*Node, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", path, err)
	}
	var out []*Node
	for _, r := range x.Get(t.Data(t.Root)) {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		var id ID
		switch v := obj["id"].(type) {
		case int64:
			id = ID(v)
		case int:
			id = ID(v)
		case float64:
			id = ID(v)
		default:
			continue
		}
		if n := t.nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

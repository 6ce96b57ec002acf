// Package mathml is the presentational element model consumed by the
// forward builder and produced by the enricher.
package mathml

import (
	"sort"
	"strings"
)

// Element is one presentational node. Text pseudo-elements have an empty
// Name and carry only Text.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
	Text     string
	Index    int // preorder position within the parsed document
}

// NewElement builds an element with the given children.
func NewElement(name string, attrs map[string]string, children ...*Element) *Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Element{Name: name, Attrs: attrs, Children: children}
}

// NewToken builds a leaf element holding literal text.
func NewToken(name, text string, attrs map[string]string) *Element {
	e := NewElement(name, attrs)
	e.Text = text
	return e
}

// NewText builds a text pseudo-element.
func NewText(text string) *Element {
	return &Element{Text: text}
}

// Tag resolves the element name to the closed tag set.
func (e *Element) Tag() Tag {
	return LookupTag(e.Name)
}

// Attr returns an attribute value and whether it was set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// AttrOr returns an attribute value or def when unset.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attrs[name]; ok {
		return v
	}
	return def
}

// SetAttr sets an attribute, allocating the map on demand.
func (e *Element) SetAttr(name, value string) {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[name] = value
}

// IsText reports whether e is a text pseudo-element.
func (e *Element) IsText() bool {
	return e.Name == ""
}

// IsWhitespace reports whether e is a text pseudo-element holding only
// whitespace.
func (e *Element) IsWhitespace() bool {
	return e.IsText() && strings.TrimSpace(e.Text) == ""
}

// TextContent concatenates the text of e and all descendants.
func (e *Element) TextContent() string {
	if len(e.Children) == 0 {
		return e.Text
	}
	var b strings.Builder
	b.WriteString(e.Text)
	for _, c := range e.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// AttrNames lists attribute names in sorted order.
func (e *Element) AttrNames() []string {
	names := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Walk visits e and its descendants in preorder until fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Reindex assigns preorder indices to e and its descendants.
func (e *Element) Reindex() {
	i := 0
	e.Walk(func(x *Element) bool {
		x.Index = i
		i++
		return true
	})
}

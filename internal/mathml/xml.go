package mathml

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// DefaultSelector matches every math element regardless of namespace.
const DefaultSelector = "//*[local-name()='math']"

// Parse reads an XML document and returns the elements matching the XPath
// selector, each converted and indexed independently.
func Parse(r io.Reader, selector string) ([]*Element, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	return Select(doc, selector)
}

// ParseString parses a single MathML fragment. The document element is
// returned when no math element is present.
func ParseString(s string) (*Element, error) {
	doc, err := xmlquery.Parse(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	found, err := Select(doc, DefaultSelector)
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found[0], nil
	}
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			e := convert(n)
			e.Reindex()
			return e, nil
		}
	}
	return nil, fmt.Errorf("parse xml: no element found")
}

// Select runs a compiled XPath selector over a parsed document.
func Select(doc *xmlquery.Node, selector string) ([]*Element, error) {
	if selector == "" {
		selector = DefaultSelector
	}
	expr, err := xpath.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	var out []*Element
	for _, n := range xmlquery.QuerySelectorAll(doc, expr) {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		e := convert(n)
		e.Reindex()
		out = append(out, e)
	}
	return out, nil
}

func convert(n *xmlquery.Node) *Element {
	e := &Element{Name: n.Data, Attrs: make(map[string]string, len(n.Attr))}
	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		e.Attrs[a.Name.Local] = a.Value
	}
	textOnly := true
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			textOnly = false
			break
		}
	}
	if textOnly {
		e.Text = n.InnerText()
		return e
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			e.Children = append(e.Children, convert(c))
		case xmlquery.TextNode, xmlquery.CharDataNode:
			e.Children = append(e.Children, NewText(c.Data))
		}
	}
	return e
}

// XML renders e as markup.
func (e *Element) XML() string {
	return e.node().OutputXML(true)
}

func (e *Element) node() *xmlquery.Node {
	if e.IsText() {
		return &xmlquery.Node{Type: xmlquery.TextNode, Data: e.Text}
	}
	n := &xmlquery.Node{Type: xmlquery.ElementNode, Data: e.Name}
	for _, k := range e.AttrNames() {
		xmlquery.AddAttr(n, k, e.Attrs[k])
	}
	if e.Text != "" {
		xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: e.Text})
	}
	for _, c := range e.Children {
		xmlquery.AddChild(n, c.node())
	}
	return n
}

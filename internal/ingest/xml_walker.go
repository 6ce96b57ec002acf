package ingest

import (
	"fmt"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/antchfx/xmlquery"
)

// XmlWalker implements Walker for parsed markup documents.
type XmlWalker struct{}

func NewXmlWalker() *XmlWalker {
	return &XmlWalker{}
}

// Query implements Walker. An empty selector matches every math element.
func (w *XmlWalker) Query(root any, selector string) ([]Match, error) {
	doc, ok := root.(*xmlquery.Node)
	if !ok {
		return nil, fmt.Errorf("xml walker needs a parsed document, got %T", root)
	}
	found, err := mathml.Select(doc, selector)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(found))
	for i, e := range found {
		matches[i] = elementMatch{e}
	}
	return matches, nil
}

type elementMatch struct {
	e *mathml.Element
}

// Element implements Match.
func (m elementMatch) Element() (*mathml.Element, error) {
	return m.e, nil
}

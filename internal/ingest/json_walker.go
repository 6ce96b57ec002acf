package ingest

import (
	"fmt"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/ohler55/ojg/jp"
)

// JsonWalker implements Walker for JSON-like data whose selected values are
// MathML strings.
type JsonWalker struct{}

func NewJsonWalker() *JsonWalker {
	return &JsonWalker{}
}

// Query implements Walker.
func (w *JsonWalker) Query(root any, selector string) ([]Match, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	results := x.Get(root)
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = &jsonMatch{value: r}
	}
	return matches, nil
}

type jsonMatch struct {
	value any
}

// Element implements Match.
func (m *jsonMatch) Element() (*mathml.Element, error) {
	s, ok := m.value.(string)
	if !ok {
		return nil, fmt.Errorf("jsonpath match is %T, not a markup string", m.value)
	}
	return mathml.ParseString(s)
}

// Package aural is the consumer side of the semantic tree: speech
// evaluators turn nodes into auditory descriptions and renderers turn
// description sequences into markup.
package aural

import (
	"strings"

	"github.com/agentic-research/semtree/internal/semantic"
)

// Personality properties a description may carry.
const (
	Rate   = "rate"
	Pitch  = "pitch"
	Volume = "volume"
)

// Description is one spoken unit.
type Description struct {
	Context    string
	Text       string
	Annotation string
	// Personality offsets, nominally in [-2, 2].
	Personality map[string]float64
}

func (d Description) IsEmpty() bool {
	return d.Context == "" && d.Text == "" && d.Annotation == ""
}

// String joins the non-empty parts with spaces.
func (d Description) String() string {
	var parts []string
	for _, s := range []string{d.Context, d.Text, d.Annotation} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Item is an element of a renderer's input: a Description or a Pause.
type Item interface {
	item()
}

func (Description) item() {}

// Pause separates descriptions, in milliseconds.
type Pause int

func (Pause) item() {}

// Evaluator produces descriptions. EvaluateDefault covers nodes without a
// dedicated rule; the others handle raw text.
type Evaluator interface {
	EvaluateDefault(t *semantic.Tree, n *semantic.Node) []Description
	EvaluateWhitespace(s string) []Description
	EvaluateString(s string) []Description
	EvaluateCharacter(c string) []Description
}

// Renderer produces final markup.
type Renderer interface {
	Markup(items []Item) string
}

package aural

import (
	"strings"
	"unicode"

	"github.com/agentic-research/semtree/internal/semantic"
)

// DefaultNames spells common operators and fences.
var DefaultNames = map[string]string{
	"+": "plus",
	"-": "minus",
	"−": "minus",
	"±": "plus minus",
	"×": "times",
	"·": "times",
	"/": "divided by",
	"÷": "divided by",
	"=": "equals",
	"≠": "not equals",
	"<": "less than",
	">": "greater than",
	"≤": "less than or equal to",
	"≥": "greater than or equal to",
	"(": "open paren",
	")": "close paren",
	"[": "open bracket",
	"]": "close bracket",
	"{": "open brace",
	"}": "close brace",
	"|": "vertical bar",
	",": "comma",
	"!": "factorial",
	"∑": "sum",
	"∏": "product",
	"∫": "integral",
	"∞": "infinity",
	"√": "square root",
}

// Literal reads leaves as written, spelling symbols through Names.
type Literal struct {
	Names map[string]string
}

func NewLiteral() *Literal {
	return &Literal{Names: DefaultNames}
}

var _ Evaluator = (*Literal)(nil)

func invisible(s string) bool {
	switch s {
	case semantic.InvisibleTimes, semantic.FunctionApplication,
		semantic.InvisibleComma, semantic.InvisiblePlus:
		return true
	}
	return false
}

// EvaluateDefault describes a leaf by its text and a branch by its leaves
// in reading order.
func (l *Literal) EvaluateDefault(t *semantic.Tree, n *semantic.Node) []Description {
	if !n.IsLeaf() {
		var out []Description
		for _, it := range DescribeNode(t, n, l) {
			if d, ok := it.(Description); ok {
				out = append(out, d)
			}
		}
		return out
	}
	text := n.TextContent
	switch {
	case text == "" || invisible(text):
		return nil
	case n.Type == semantic.TypeText:
		return l.EvaluateWhitespace(text)
	case n.Type == semantic.TypeNumber:
		return []Description{{Text: text}}
	}
	return l.EvaluateString(text)
}

// EvaluateWhitespace describes each whitespace-separated word.
func (l *Literal) EvaluateWhitespace(s string) []Description {
	var out []Description
	for _, w := range strings.Fields(s) {
		out = append(out, l.EvaluateString(w)...)
	}
	return out
}

// EvaluateString keeps words of letters whole and spells anything else
// character by character.
func (l *Literal) EvaluateString(s string) []Description {
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return l.EvaluateWhitespace(s)
	}
	if name, ok := l.name(s); ok {
		return []Description{{Text: name}}
	}
	runes := []rune(s)
	if len(runes) > 1 && !strings.ContainsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) {
		return []Description{{Text: s}}
	}
	var out []Description
	for _, r := range runes {
		out = append(out, l.EvaluateCharacter(string(r))...)
	}
	return out
}

// EvaluateCharacter names a single character. Invisible operators are
// silent.
func (l *Literal) EvaluateCharacter(c string) []Description {
	if invisible(c) {
		return nil
	}
	if name, ok := l.name(c); ok {
		return []Description{{Text: name}}
	}
	return []Description{{Text: semantic.Fold(c)}}
}

func (l *Literal) name(s string) (string, bool) {
	if name, ok := l.Names[s]; ok {
		return name, true
	}
	name, ok := l.Names[semantic.Fold(s)]
	return name, ok
}

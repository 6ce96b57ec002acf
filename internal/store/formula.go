// Package store persists enriched formulas and their semantic nodes in
// SQLite. Trees are read back through the reverse builder, so the markup
// column alone is enough to recover them.
package store

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/agentic-research/semtree/api"
	"github.com/agentic-research/semtree/internal/enrich"
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/zeebo/blake3"
)

var ErrNotFound = errors.New("formula not found")

// Formula is one math element of a source document.
type Formula struct {
	ID     string
	RunID  string
	Source string
	Index  int
	// blake3 of MathML, hex encoded
	Digest string
	// enriched markup
	MathML string
	// collapse skeletons of the folded composites, in document order
	Skeletons []string
	TreeJSON  string

	// set when the formula was built in this process
	Tree *semantic.Tree
}

// NewFormula enriches tree and records the result for the index-th math
// element of source.
func NewFormula(runID, source string, index int, tree *semantic.Tree) *Formula {
	el := enrich.Enrich(tree)
	markup := el.XML()
	sum := blake3.Sum256([]byte(markup))
	return &Formula{
		ID:        FormulaID(source, index),
		RunID:     runID,
		Source:    source,
		Index:     index,
		Digest:    hex.EncodeToString(sum[:]),
		MathML:    markup,
		Skeletons: skeletons(el),
		TreeJSON:  tree.JSON(0),
		Tree:      tree,
	}
}

// FormulaID names the index-th formula of a source.
func FormulaID(source string, index int) string {
	return source + "#" + strconv.Itoa(index)
}

func skeletons(el *mathml.Element) []string {
	var out []string
	el.Walk(func(e *mathml.Element) bool {
		if s, ok := e.Attr(api.AttrCollapsed); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}

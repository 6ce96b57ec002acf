package ingest

import (
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/store"
)

// Target receives the formulas of an ingest run.
type Target interface {
	AddFormula(f *store.Formula) error
}

// Walker abstracts over XPath (markup documents) and JSONPath (JSON
// records). It finds the math elements a selector matches in a parsed
// document.
type Walker interface {
	// Query executes a selector against root. Root is an *xmlquery.Node for
	// markup and a generic Go value for JSON.
	Query(root any, selector string) ([]Match, error)
}

// Match is a single selector result.
type Match interface {
	// Element returns the math element the match stands for. JSON matches
	// hold markup that is parsed on demand.
	Element() (*mathml.Element, error)
}

// Package ingest walks MathML corpora, builds the semantic tree of every
// selected math element, and hands the enriched formulas to a store.
package ingest

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentic-research/semtree/internal/builder"
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/agentic-research/semtree/internal/store"
	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"
	"github.com/ohler55/ojg/oj"
)

// DefaultJSONPath selects every string under a "mathml" key.
const DefaultJSONPath = "$..mathml"

// Config selects what an Engine reads.
type Config struct {
	// XPath selector for markup files; empty means every math element.
	Selector string
	// JSONPath selector for .json files and record databases.
	JSONPath string
	// Builder tunes the forward builder.
	Builder builder.Config
	// RunID tags the formulas of this engine; a random id when empty.
	RunID  string
	Logger *slog.Logger
}

// Stats counts the work of an engine.
type Stats struct {
	Files    int
	Formulas int
	Skipped  int
}

// Engine drives the ingestion process.
type Engine struct {
	Store   Target
	cfg     Config
	builder *builder.Builder
	log     *slog.Logger
	stats   Stats
}

func NewEngine(target Target, cfg Config) *Engine {
	if cfg.JSONPath == "" {
		cfg.JSONPath = DefaultJSONPath
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Builder.Logger == nil {
		cfg.Builder.Logger = cfg.Logger
	}
	return &Engine{
		Store:   target,
		cfg:     cfg,
		builder: builder.New(cfg.Builder),
		log:     cfg.Logger,
	}
}

func (e *Engine) RunID() string { return e.cfg.RunID }

func (e *Engine) Stats() Stats { return e.stats }

// Ingest processes a file or directory. Sources are named relative to path
// when it is a directory.
func (e *Engine) Ingest(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return e.ingestFile(path, filepath.Base(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		return e.ingestFile(p, filepath.ToSlash(rel))
	})
}

func (e *Engine) ingestFile(path, source string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".mml", ".xhtml":
		return e.ingestMarkup(path, source)
	case ".json":
		return e.ingestJSON(path, source)
	case ".db":
		return e.ingestSQLite(path, source)
	default:
		return nil
	}
}

func (e *Engine) ingestMarkup(path, source string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	e.stats.Files++
	return e.process(NewXmlWalker(), doc, e.cfg.Selector, source)
}

func (e *Engine) ingestJSON(path, source string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data, err := oj.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse json %s: %w", path, err)
	}
	e.stats.Files++
	return e.process(NewJsonWalker(), data, e.cfg.JSONPath, source)
}

// ingestSQLite reads a record database one record at a time. Each record
// is its own source.
func (e *Engine) ingestSQLite(path, source string) error {
	e.stats.Files++
	walker := NewJsonWalker()
	return StreamSQLite(path, func(recordID string, record any) error {
		return e.process(walker, record, e.cfg.JSONPath, source+"/"+recordID)
	})
}

// process builds every match. Matches that do not parse are logged and
// skipped; store errors abort the run.
func (e *Engine) process(walker Walker, root any, selector, source string) error {
	matches, err := walker.Query(root, selector)
	if err != nil {
		return fmt.Errorf("query failed for %s: %w", source, err)
	}
	for i, m := range matches {
		el, err := m.Element()
		if err != nil {
			e.log.Warn("skipping formula", "source", source, "index", i, "error", err)
			e.stats.Skipped++
			continue
		}
		if err := e.Store.AddFormula(e.Formula(source, i, el)); err != nil {
			return err
		}
		e.stats.Formulas++
	}
	return nil
}

// Formula builds and enriches one math element.
func (e *Engine) Formula(source string, index int, el *mathml.Element) *store.Formula {
	tree := e.builder.Build(el)
	if err := tree.Validate(); err != nil {
		e.log.Warn("inconsistent tree", "source", source, "index", index, "error", err)
	}
	e.log.Debug("built formula", "source", source, "index", index, "nodes", countNodes(tree))
	return store.NewFormula(e.cfg.RunID, source, index, tree)
}

func countNodes(t *semantic.Tree) int {
	n := 0
	t.Walk(t.Root, func(*semantic.Node) bool {
		n++
		return true
	})
	return n
}

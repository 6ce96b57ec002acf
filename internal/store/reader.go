package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/rebuild"
	"github.com/agentic-research/semtree/internal/semantic"
	_ "modernc.org/sqlite"
)

// Reader queries a formula database written by Writer.
type Reader struct {
	db      *sql.DB
	rebuild *rebuild.Builder
}

// Open opens an existing database.
func Open(dbPath string) (*Reader, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	return &Reader{db: db, rebuild: rebuild.New(nil)}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

const formulaColumns = `id, run_id, source, idx, digest, mathml, skeleton, tree`

type scanner interface {
	Scan(dest ...any) error
}

func scanFormula(row scanner) (*Formula, error) {
	var (
		f        Formula
		skel, js sql.NullString
	)
	if err := row.Scan(&f.ID, &f.RunID, &f.Source, &f.Index, &f.Digest, &f.MathML, &skel, &js); err != nil {
		return nil, err
	}
	if skel.String != "" {
		f.Skeletons = splitSkeletons(skel.String)
	}
	f.TreeJSON = js.String
	return &f, nil
}

// splitSkeletons undoes the space join of top-level skeleton values.
func splitSkeletons(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				out = append(out, s[start:i+1])
			}
		}
	}
	return out
}

// Formula loads one formula by id.
func (r *Reader) Formula(id string) (*Formula, error) {
	f, err := scanFormula(r.db.QueryRow(`SELECT `+formulaColumns+` FROM formulas WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load formula %s: %w", id, err)
	}
	return f, nil
}

// Each streams formulas ordered by source and position, one at a time.
func (r *Reader) Each(fn func(*Formula) error) error {
	rows, err := r.db.Query(`SELECT ` + formulaColumns + ` FROM formulas ORDER BY source, idx`)
	if err != nil {
		return fmt.Errorf("query formulas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		f, err := scanFormula(rows)
		if err != nil {
			return fmt.Errorf("scan formula: %w", err)
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Tree reconstructs the semantic tree of a stored formula from its
// annotated markup.
func (r *Reader) Tree(id string) (*semantic.Tree, error) {
	f, err := r.Formula(id)
	if err != nil {
		return nil, err
	}
	el, err := mathml.ParseString(f.MathML)
	if err != nil {
		return nil, fmt.Errorf("formula %s: %w", id, err)
	}
	return r.rebuild.Rebuild(el), nil
}

// WithNode lists the ids of formulas containing a node of the given type,
// and of the given role when role is not empty.
func (r *Reader) WithNode(typ, role string) ([]string, error) {
	q := `SELECT DISTINCT formula_id FROM nodes WHERE type = ?`
	args := []any{typ}
	if role != "" {
		q += ` AND role = ?`
		args = append(args, role)
	}
	rows, err := r.db.Query(q+` ORDER BY formula_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Count returns the number of stored formulas per run id.
func (r *Reader) Count() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT run_id, COUNT(*) FROM formulas GROUP BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("count formulas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int)
	for rows.Next() {
		var run string
		var n int
		if err := rows.Scan(&run, &n); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out[run] = n
	}
	return out, rows.Err()
}

// Duplicates groups formula ids sharing a digest, for digests seen more
// than once.
func (r *Reader) Duplicates() (map[string][]string, error) {
	rows, err := r.db.Query(`
		SELECT digest, group_concat(id, char(10)) FROM formulas
		GROUP BY digest HAVING COUNT(*) > 1`)
	if err != nil {
		return nil, fmt.Errorf("query digests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]string)
	for rows.Next() {
		var digest, ids string
		if err := rows.Scan(&digest, &ids); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out[digest] = strings.Split(ids, "\n")
	}
	return out, rows.Err()
}

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/semtree/internal/semantic"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS formulas (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	idx INTEGER NOT NULL,
	digest TEXT NOT NULL,
	mathml TEXT NOT NULL,
	skeleton TEXT,
	tree JSON
);
CREATE TABLE IF NOT EXISTS nodes (
	formula_id TEXT NOT NULL,
	id INTEGER NOT NULL,
	type TEXT NOT NULL,
	role TEXT,
	font TEXT,
	embellished TEXT,
	fence_pointer INTEGER,
	text TEXT,
	parent INTEGER,
	children TEXT,
	content TEXT,
	PRIMARY KEY (formula_id, id)
) WITHOUT ROWID;
`

// Writer batches formulas into SQLite transactions. It is safe for
// concurrent use.
type Writer struct {
	db          *sql.DB
	tx          *sql.Tx
	stmtFormula *sql.Stmt
	stmtNode    *sql.Stmt
	stmtClear   *sql.Stmt
	batchSize   int
	count       int
	log         *slog.Logger
	mu          sync.Mutex
}

// NewWriter opens dbPath and creates the schema.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	for _, pragma := range []string{"PRAGMA synchronous = OFF", "PRAGMA journal_mode = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	w := &Writer{db: db, batchSize: 500, log: slog.Default()}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmtFormula, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO formulas (id, run_id, source, idx, digest, mathml, skeleton, tree)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	w.stmtClear, err = w.tx.Prepare(`DELETE FROM nodes WHERE formula_id = ?`)
	if err != nil {
		return err
	}
	w.stmtNode, err = w.tx.Prepare(`
		INSERT INTO nodes (formula_id, id, type, role, font, embellished, fence_pointer, text, parent, children, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	return err
}

func (w *Writer) commitTx() error {
	for _, s := range []*sql.Stmt{w.stmtFormula, w.stmtClear, w.stmtNode} {
		if s != nil {
			_ = s.Close()
		}
	}
	return w.tx.Commit()
}

// AddFormula writes f and one row per node reachable from its root
// through children or content. Writing a formula id again replaces the
// earlier rows.
func (w *Writer) AddFormula(f *Formula) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.stmtFormula.Exec(
		f.ID, f.RunID, f.Source, f.Index, f.Digest, f.MathML,
		strings.Join(f.Skeletons, " "), f.TreeJSON,
	); err != nil {
		return fmt.Errorf("insert formula %s: %w", f.ID, err)
	}
	if _, err := w.stmtClear.Exec(f.ID); err != nil {
		return fmt.Errorf("clear nodes of %s: %w", f.ID, err)
	}
	if f.Tree != nil {
		if err := w.addNodes(f.ID, f.Tree); err != nil {
			return err
		}
	}

	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		if err := w.beginTx(); err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		w.count = 0
	}
	return nil
}

func (w *Writer) addNodes(formulaID string, t *semantic.Tree) error {
	seen := roaring.New()
	var visit func(id semantic.ID) error
	visit = func(id semantic.ID) error {
		n := t.Get(id)
		if n == nil || !seen.CheckedAdd(uint32(id)) {
			return nil
		}
		var fp, parent *int64
		if n.FencePointer != semantic.NoID {
			v := int64(n.FencePointer)
			fp = &v
		}
		if n.Parent != semantic.NoID {
			v := int64(n.Parent)
			parent = &v
		}
		if _, err := w.stmtNode.Exec(
			formulaID, int64(n.ID), n.Type.String(), string(n.Role), n.Font.String(),
			n.Embellished.String(), fp, n.TextContent, parent,
			joinIDs(n.Children), joinIDs(n.Content),
		); err != nil {
			return fmt.Errorf("insert node %d of %s: %w", n.ID, formulaID, err)
		}
		for _, c := range slices.Concat(n.Children, n.Content) {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(t.Root)
}

func joinIDs(ids []semantic.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}

// Close commits pending rows, indexes node types and closes the database.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type, role)`); err != nil {
		w.log.Warn("index creation failed", "error", err)
	}
	return w.db.Close()
}

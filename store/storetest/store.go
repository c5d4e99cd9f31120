// Package storetest provides an in-memory fake of the store for tests. It
// understands the chain queries used by the models package; any other query is
// treated as a migration script execution.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.hackfix.me/cymig/store/types"
)

// DB is an in-memory store fake implementing types.Querier. Mutations made
// inside a transaction become visible only after Commit.
type DB struct {
	mu  sync.Mutex
	now func() time.Time

	// Nodes holds the committed chain nodes, in insertion order.
	Nodes []map[string]any
	// Scripts holds the committed script executions, in order.
	Scripts []string
	// FailScripts maps a script text to the error its execution returns.
	FailScripts map[string]error

	// BeginErr, when set, is returned by Begin.
	BeginErr error
	// CommitErr, when set, is returned by the next Commit.
	CommitErr error

	Begun      int
	Committed  int
	RolledBack int
}

var _ types.Querier = (*DB)(nil)

// New creates a fake store using the given time source.
func New(now func() time.Time) *DB {
	return &DB{now: now, FailScripts: map[string]error{}}
}

// NewContext returns a fresh background context.
func (d *DB) NewContext() context.Context {
	return context.Background()
}

// TimeNow returns the current fake time.
func (d *DB) TimeNow() time.Time {
	return d.now()
}

// Begin starts a fake transaction.
func (d *DB) Begin(_ context.Context) (types.Txn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.BeginErr != nil {
		return nil, d.BeginErr
	}
	d.Begun++
	return &txn{db: d}, nil
}

// Node returns the committed chain node with the given file name, or nil.
func (d *DB) Node(fileName string) map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, node := range d.Nodes {
		if node["file_name"] == fileName {
			return node
		}
	}
	return nil
}

type txn struct {
	db      *DB
	nodes   []map[string]any
	scripts []string
	done    bool
}

var _ types.Txn = (*txn)(nil)

func (t *txn) Run(_ context.Context, query string, params map[string]any) (types.Rows, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	switch {
	case strings.Contains(query, "CREATE (m:DataModelMigration"):
		node, _ := params["migrationNode"].(map[string]any)
		t.nodes = append(t.nodes, node)
		return &rows{}, nil
	case strings.Contains(query, "file_name: $migration_file_name"):
		var matches []map[string]any
		for _, node := range t.db.Nodes {
			if node["file_name"] == params["migration_file_name"] {
				matches = append(matches, map[string]any{"m": node})
			}
		}
		return &rows{records: matches}, nil
	case strings.Contains(query, "ORDER BY m.version"):
		nodes := make([]map[string]any, len(t.db.Nodes))
		copy(nodes, t.db.Nodes)
		sort.SliceStable(nodes, func(i, j int) bool {
			vi, _ := nodes[i]["version"].(int64)
			vj, _ := nodes[j]["version"].(int64)
			return vi < vj
		})
		records := make([]map[string]any, len(nodes))
		for i, node := range nodes {
			records[i] = map[string]any{"m": node}
		}
		return &rows{records: records}, nil
	default:
		if err := t.db.FailScripts[query]; err != nil {
			return nil, err
		}
		t.scripts = append(t.scripts, query)
		return &rows{}, nil
	}
}

func (t *txn) Commit(_ context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	if t.db.CommitErr != nil {
		err := t.db.CommitErr
		t.db.CommitErr = nil
		return err
	}
	t.db.Committed++
	t.db.Nodes = append(t.db.Nodes, t.nodes...)
	t.db.Scripts = append(t.db.Scripts, t.scripts...)
	return nil
}

func (t *txn) Rollback(_ context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.db.RolledBack++
	t.nodes, t.scripts = nil, nil
	return nil
}

type rows struct {
	records []map[string]any
	pos     int
	current map[string]any
}

var _ types.Rows = (*rows)(nil)

func (r *rows) Next(_ context.Context) bool {
	if r.pos >= len(r.records) {
		return false
	}
	r.current = r.records[r.pos]
	r.pos++
	return true
}

func (r *rows) Record() map[string]any {
	return r.current
}

func (r *rows) Err() error {
	return nil
}

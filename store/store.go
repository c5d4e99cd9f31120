package store

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"go.hackfix.me/cymig/store/types"
)

// DB wraps a Neo4j driver with additional context, and scopes all transactions
// to a single named database.
type DB struct {
	driver   neo4j.DriverWithContext
	ctx      context.Context
	timeNow  func() time.Time
	database string
}

var _ types.Querier = (*DB)(nil)

// Open creates a new Neo4j connection and verifies that the server is
// reachable.
func Open(
	ctx context.Context, uri, username, password, database string,
	timeNow func() time.Time,
) (*DB, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed creating Neo4j driver: %w", err)
	}

	if err = driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed connecting to Neo4j at %s: %w", uri, err)
	}

	return &DB{driver: driver, ctx: ctx, timeNow: timeNow, database: database}, nil
}

// Begin opens a new session on the target database and starts an explicit
// transaction on it. The session is closed together with the transaction, on
// either Commit or Rollback.
func (d *DB) Begin(ctx context.Context) (types.Txn, error) {
	session := d.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: d.database})
	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		_ = session.Close(ctx)
		return nil, fmt.Errorf("failed starting transaction: %w", err)
	}

	return &txn{session: session, tx: tx}, nil
}

// Close releases the underlying driver and all of its connections.
func (d *DB) Close(ctx context.Context) error {
	//nolint:wrapcheck // Driver errors are propagated unchanged.
	return d.driver.Close(ctx)
}

// NewContext returns a new child context of the main store context.
func (d *DB) NewContext() context.Context {
	ctx, _ := context.WithCancel(d.ctx) //nolint:govet // The parent handles cancellation.
	return ctx
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}

type txn struct {
	session neo4j.SessionWithContext
	tx      neo4j.ExplicitTransaction
	done    bool
}

var _ types.Txn = (*txn)(nil)

func (t *txn) Run(ctx context.Context, query string, params map[string]any) (types.Rows, error) {
	result, err := t.tx.Run(ctx, query, params)
	if err != nil {
		//nolint:wrapcheck // Execution errors are propagated unchanged.
		return nil, err
	}
	return &rows{result: result}, nil
}

func (t *txn) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	err := t.tx.Commit(ctx)
	_ = t.session.Close(ctx)
	//nolint:wrapcheck // Commit errors are propagated unchanged.
	return err
}

func (t *txn) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	err := t.tx.Rollback(ctx)
	_ = t.session.Close(ctx)
	//nolint:wrapcheck // Rollback errors are propagated unchanged.
	return err
}

type rows struct {
	result neo4j.ResultWithContext
}

var _ types.Rows = (*rows)(nil)

func (r *rows) Next(ctx context.Context) bool {
	return r.result.Next(ctx)
}

func (r *rows) Record() map[string]any {
	rec := r.result.Record()
	if rec == nil {
		return nil
	}

	row := make(map[string]any, len(rec.Keys))
	for i, key := range rec.Keys {
		switch v := rec.Values[i].(type) {
		case neo4j.Node:
			row[key] = v.Props
		case neo4j.Relationship:
			row[key] = v.Props
		default:
			row[key] = v
		}
	}

	return row
}

func (r *rows) Err() error {
	return r.result.Err()
}

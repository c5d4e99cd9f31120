package types

import (
	"context"
	"time"
)

// Querier exposes only the store capabilities the rest of the application
// needs: starting explicit transactions scoped to the target database, and
// some helper functions.
type Querier interface {
	NewContext() context.Context
	TimeNow() time.Time
	Begin(ctx context.Context) (Txn, error)
}

// Txn is a single explicit transaction against the store. It must be released
// with either Commit or Rollback on every exit path; calling Rollback after a
// successful Commit is a no-op.
type Txn interface {
	Run(ctx context.Context, query string, params map[string]any) (Rows, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Rows is a stream of query results. Each row is exposed as a map of column
// name to value; node values surface as their property maps, so consumers
// never depend on the driver's own types.
type Rows interface {
	Next(ctx context.Context) bool
	Record() map[string]any
	Err() error
}

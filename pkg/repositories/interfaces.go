// Package repositories defines interfaces for graph database access.
package repositories

import (
	"context"
)

// Row is one materialized result record, keyed by return alias.
type Row map[string]any

// QueryRepository defines read and write access to the graph database.
// Every call runs in its own session, released on every exit path; there is
// no session reuse across calls.
type QueryRepository interface {
	// ExecuteQuery executes a read query and returns materialized rows.
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]Row, error)
	// ExecuteWrite executes a write query and returns the number of nodes created.
	ExecuteWrite(ctx context.Context, query string, params map[string]any) (int64, error)
	// Close releases the underlying driver.
	Close(ctx context.Context) error
}

// Factory opens a fresh repository connection. The repetition runner opens
// one per run and closes it when the run ends, so connection setup cost never
// leaks across runs.
type Factory func(ctx context.Context) (QueryRepository, error)

// Package database defines the connection-executor contract the core
// components depend on, plus the tabular result shape query execution
// returns.
//
// The statement generator and the catalog introspector are written
// against Executor only — they never import an engine package directly.
package database

import (
	"context"

	"github.com/amadren/relkit/internal/statement"
)

// Executor is the connection lifecycle and statement execution contract.
// One Executor represents one logical connection used sequentially: no
// implicit pooling, no parallel in-flight statements.
//
// Open and Close are idempotent; Close on an already-closed connection is
// a no-op. Using an unopened Executor is a configuration error
// (errs.ErrKindNotConfigured), not a recoverable condition.
type Executor interface {
	// Open establishes the connection. Opening an already-open
	// connection is a no-op.
	Open(ctx context.Context) error

	// Close releases the connection. Closing an already-closed or
	// never-opened connection is a no-op.
	Close() error

	// ExecuteNonQuery runs a statement that returns no rows and reports
	// the number of rows affected.
	ExecuteNonQuery(ctx context.Context, sql string, params statement.Parameters) (int64, error)

	// ExecuteScalar runs a query and returns the first column of its
	// first row.
	ExecuteScalar(ctx context.Context, sql string, params statement.Parameters) (any, error)

	// ExecuteQuery runs a query and returns the full tabular result.
	ExecuteQuery(ctx context.Context, sql string, params statement.Parameters) (*Result, error)
}

// Row is one result row, addressable by column name.
type Row map[string]any

// Result is a fully materialised tabular query result: ordered columns,
// ordered rows.
type Result struct {
	Columns []string
	Rows    []Row
}

// First returns the first row, if any.
func (r *Result) First() (Row, bool) {
	if len(r.Rows) == 0 {
		return nil, false
	}
	return r.Rows[0], true
}

// Len returns the number of rows.
func (r *Result) Len() int {
	return len(r.Rows)
}

// Package sqlite implements the database executor and catalog source for
// SQLite, the embedded engine relkit targets by default.
//
// SQLite has no information-schema; catalog introspection reads
// sqlite_master and the table_info / foreign_key_list pragmas instead.
// Generated statements bind named parameters (@name), which the engine
// supports natively.
//
// Usage:
//
//	conn := sqlite.New("app.db")
//	if err := conn.Open(ctx); err != nil { ... }
//	defer conn.Close()
//
//	result, err := conn.ExecuteQuery(ctx, sql, params)
package sqlite

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/amadren/relkit/internal/database"
	"github.com/amadren/relkit/internal/errs"
	"github.com/amadren/relkit/internal/statement"
)

// Connection is a single logical SQLite connection implementing
// database.Executor and catalog.Source. Statements run sequentially: the
// underlying pool is pinned to one connection, so there is never more
// than one in-flight statement.
type Connection struct {
	dsn string

	mu sync.Mutex
	db *sqlx.DB
}

// New returns an unopened Connection for the given data source. The DSN
// is a file path, or ":memory:" for a transient in-memory database.
func New(dsn string) *Connection {
	return &Connection{dsn: dsn}
}

// Open establishes the connection and verifies it with a ping. Opening
// an already-open connection is a no-op.
func (c *Connection) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	db, err := sqlx.Open("sqlite3", c.dsn)
	if err != nil {
		return errs.Wrapf(errs.ErrKindConnectionFailed, err, "open sqlite database %q", c.dsn)
	}

	// One logical connection, one in-flight statement. This also keeps
	// an in-memory database alive across statements.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return mapError(err, "ping sqlite database "+c.dsn)
	}

	c.db = db
	return nil
}

// Close releases the connection. Closing an already-closed or
// never-opened connection is a no-op.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, "close sqlite database", err)
	}
	return nil
}

// handle returns the open database or a configuration error. Executing
// against an unopened connection is a caller bug, not a transient state.
func (c *Connection) handle() (*sqlx.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil, errs.New(errs.ErrKindNotConfigured, "sqlite connection is not open")
	}
	return c.db, nil
}

// ExecuteNonQuery runs a statement that returns no rows and reports the
// number of rows affected.
func (c *Connection) ExecuteNonQuery(ctx context.Context, sql string, params statement.Parameters) (int64, error) {
	db, err := c.handle()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, sql, params.Args()...)
	if err != nil {
		return 0, mapError(err, "execute statement")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, mapError(err, "read affected row count")
	}
	return affected, nil
}

// ExecuteScalar runs a query and returns the first column of its first
// row.
func (c *Connection) ExecuteScalar(ctx context.Context, sql string, params statement.Parameters) (any, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}

	var value any
	if err := db.QueryRowContext(ctx, sql, params.Args()...).Scan(&value); err != nil {
		return nil, mapError(err, "execute scalar query")
	}
	return value, nil
}

// ExecuteQuery runs a query and returns the full tabular result.
func (c *Connection) ExecuteQuery(ctx context.Context, sql string, params statement.Parameters) (*database.Result, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, sql, params.Args()...)
	if err != nil {
		return nil, mapError(err, "execute query")
	}
	return database.Collect(rows)
}

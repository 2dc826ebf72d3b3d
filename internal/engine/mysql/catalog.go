// Package mysql implements the catalog source for MySQL.
//
// As with the postgres package, only the catalog capability lives here;
// the assembly logic in internal/catalog is shared across engines.
// MySQL's information_schema scopes tables by database, so the Catalog
// derives its scope from the DSN's database name.
package mysql

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/amadren/relkit/internal/catalog"
	"github.com/amadren/relkit/internal/errs"
)

// Catalog reads table, column, and foreign-key metadata from
// information_schema. It is safe for concurrent use.
type Catalog struct {
	db     *sql.DB
	dbName string
}

// New connects to MySQL using the given DSN
// (user:pass@tcp(host:port)/dbname) and returns a Catalog scoped to the
// DSN's database. It pings before returning.
func New(ctx context.Context, dsn string) (*Catalog, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "parse mysql DSN", err)
	}
	if cfg.DBName == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "mysql DSN must name a database")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "open mysql connection", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, mapError(err, "ping mysql")
	}
	return &Catalog{db: db, dbName: cfg.DBName}, nil
}

// Close releases the underlying connections.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Tables lists all base table names in the configured database.
func (c *Catalog) Tables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := c.db.QueryContext(ctx, q, c.dbName)
	if err != nil {
		return nil, mapError(err, "list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err, "scan table name")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate tables")
	}
	return tables, nil
}

// Columns lists the column metadata of one table.
func (c *Catalog) Columns(ctx context.Context, table string) ([]catalog.Column, error) {
	const q = `
		SELECT column_name,
		       data_type,
		       is_nullable = 'NO'
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name   = ?
		ORDER BY ordinal_position`

	rows, err := c.db.QueryContext(ctx, q, c.dbName, table)
	if err != nil {
		return nil, mapError(err, "fetch columns of "+table)
	}
	defer rows.Close()

	var cols []catalog.Column
	for rows.Next() {
		var col catalog.Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.NotNull); err != nil {
			return nil, mapError(err, "scan column of "+table)
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate columns of "+table)
	}
	return cols, nil
}

// ForeignKeys lists the foreign keys of one table, one entry per
// referencing column.
func (c *Catalog) ForeignKeys(ctx context.Context, table string) ([]catalog.ForeignKeyRef, error) {
	const q = `
		SELECT column_name,
		       referenced_table_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
		  AND table_name   = ?
		  AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position`

	rows, err := c.db.QueryContext(ctx, q, c.dbName, table)
	if err != nil {
		return nil, mapError(err, "fetch foreign keys of "+table)
	}
	defer rows.Close()

	var refs []catalog.ForeignKeyRef
	for rows.Next() {
		var ref catalog.ForeignKeyRef
		if err := rows.Scan(&ref.Column, &ref.Table); err != nil {
			return nil, mapError(err, "scan foreign key of "+table)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate foreign keys of "+table)
	}
	return refs, nil
}

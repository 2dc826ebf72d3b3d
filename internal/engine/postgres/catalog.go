// Package postgres implements the catalog source for PostgreSQL.
//
// Only the catalog capability is implemented here: the statement
// generator's named-parameter dialect targets the embedded engine, while
// introspection is the documented multi-engine seam — swapping engines
// means reimplementing these three queries, not the assembly logic.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amadren/relkit/internal/catalog"
	"github.com/amadren/relkit/internal/errs"
)

// Catalog reads table, column, and foreign-key metadata from
// information_schema. It is safe for concurrent use.
type Catalog struct {
	pool   *pgxpool.Pool
	schema string
}

// New connects to PostgreSQL and returns a Catalog scoped to the given
// schema ("public" when empty). It pings before returning.
func New(ctx context.Context, dsn, schema string) (*Catalog, error) {
	if schema == "" {
		schema = "public"
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "create postgres pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapError(err, "ping postgres")
	}
	return &Catalog{pool: pool, schema: schema}, nil
}

// Close drains the connection pool.
func (c *Catalog) Close() {
	c.pool.Close()
}

// Tables lists all user table names in the configured schema.
func (c *Catalog) Tables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := c.pool.Query(ctx, q, c.schema)
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
		WHERE table_schema = $1
		  AND table_name   = $2
		ORDER BY ordinal_position`

	rows, err := c.pool.Query(ctx, q, c.schema, table)
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
		SELECT kcu.column_name,
		       ccu.table_name AS ref_table
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON tc.constraint_name = ccu.constraint_name
		 AND tc.table_schema    = ccu.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema    = $1
		  AND tc.table_name      = $2
		ORDER BY kcu.ordinal_position`

	rows, err := c.pool.Query(ctx, q, c.schema, table)
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

package sqlite

import (
	"context"
	"strings"

	"github.com/amadren/relkit/internal/catalog"
)

// The three fixed catalog query shapes, in SQLite's native dialect.
// sqlite_master is the engine's schema table; column and foreign-key
// metadata come from pragmas, which cannot be parameterized — the table
// name is inserted as a quoted identifier.

// Tables lists all user table names, skipping SQLite's internal tables.
func (c *Connection) Tables(ctx context.Context) ([]string, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}

	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	var tables []string
	if err := db.SelectContext(ctx, &tables, q); err != nil {
		return nil, mapError(err, "list tables")
	}
	return tables, nil
}

// tableInfoRow mirrors one row of PRAGMA table_info.
type tableInfoRow struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// Columns lists the column metadata of one table via PRAGMA table_info.
func (c *Connection) Columns(ctx context.Context, table string) ([]catalog.Column, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}

	var rows []tableInfoRow
	if err := db.SelectContext(ctx, &rows, "PRAGMA table_info("+quoteIdent(table)+")"); err != nil {
		return nil, mapError(err, "table_info of "+table)
	}

	cols := make([]catalog.Column, len(rows))
	for i, r := range rows {
		cols[i] = catalog.Column{
			Name:     r.Name,
			DataType: r.Type,
			NotNull:  r.NotNull != 0,
		}
	}
	return cols, nil
}

// foreignKeyRow mirrors one row of PRAGMA foreign_key_list. Composite
// keys produce one row per column (seq counts them); each row is
// reported as its own reference.
type foreignKeyRow struct {
	ID       int     `db:"id"`
	Seq      int     `db:"seq"`
	Table    string  `db:"table"`
	From     string  `db:"from"`
	To       *string `db:"to"`
	OnUpdate string  `db:"on_update"`
	OnDelete string  `db:"on_delete"`
	Match    string  `db:"match"`
}

// ForeignKeys lists the foreign keys of one table via
// PRAGMA foreign_key_list.
func (c *Connection) ForeignKeys(ctx context.Context, table string) ([]catalog.ForeignKeyRef, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}

	var rows []foreignKeyRow
	if err := db.SelectContext(ctx, &rows, "PRAGMA foreign_key_list("+quoteIdent(table)+")"); err != nil {
		return nil, mapError(err, "foreign_key_list of "+table)
	}

	refs := make([]catalog.ForeignKeyRef, len(rows))
	for i, r := range rows {
		refs[i] = catalog.ForeignKeyRef{
			Table:  r.Table,
			Column: r.From,
		}
	}
	return refs, nil
}

// quoteIdent wraps an identifier in double-quotes for use in pragma
// arguments, which the wire protocol cannot parameterize.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

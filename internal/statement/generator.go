// Package statement synthesises single-table CRUD statements from a
// record shape.
//
// A Generator is configured once with a shape and a table name, then
// produces SQL text for SELECT, INSERT, UPDATE, and DELETE plus the
// parameter map for a given row. Every generated statement is
// column-complete and names its parameters identically to the columns, so
// MapParameters output binds directly against any generated statement
// with no name translation.
//
// Generation is pure computation over the configured shape: no I/O, no
// shared mutable state after configuration, safe for concurrent use.
//
// Usage:
//
//	gen := statement.NewGenerator()
//	gen.SetShape(users)
//	gen.SetTable("Users")
//
//	sql, err := gen.Insert()
//	params, err := gen.MapParameters(row)
//	affected, err := conn.ExecuteNonQuery(ctx, sql, params)
package statement

import (
	"strings"

	"github.com/amadren/relkit/internal/errs"
	"github.com/amadren/relkit/internal/shape"
)

// Generator builds CRUD statements for one (shape, table) pair.
type Generator struct {
	shape *shape.Shape
	table string
}

// NewGenerator returns an unconfigured Generator. SetShape and SetTable
// must both be called before any generation method.
func NewGenerator() *Generator {
	return &Generator{}
}

// SetShape configures the record shape that drives column and parameter
// lists.
func (g *Generator) SetShape(s *shape.Shape) {
	g.shape = s
}

// SetTable configures the target table. The name is inserted into
// generated text as a quoted identifier — the wire protocol parameterizes
// values, not identifiers — so callers must supply only trusted names.
func (g *Generator) SetTable(name string) {
	g.table = name
}

// ready checks the configuration preconditions shared by all generation
// methods.
func (g *Generator) ready() error {
	if g.shape == nil {
		return errs.New(errs.ErrKindNotConfigured, "statement generator has no shape")
	}
	if g.table == "" {
		return errs.New(errs.ErrKindNotConfigured, "statement generator has no table name")
	}
	if g.shape.Len() == 0 {
		return errs.New(errs.ErrKindEmptyShape, "record shape has zero fields")
	}
	return nil
}

// key returns the primary-key field or a MissingPrimaryKey error for the
// generation methods that filter by key. Never guesses a key column.
func (g *Generator) key() (shape.Field, error) {
	pk, ok := g.shape.PrimaryKey()
	if !ok {
		return shape.Field{}, errs.Newf(errs.ErrKindMissingPrimaryKey,
			"shape for table %q has no primary key field", g.table)
	}
	return pk, nil
}

// Select generates a SELECT over all columns. With filterByKey set, the
// statement is restricted to the row matching the primary-key parameter.
func (g *Generator) Select(filterByKey bool) (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columnList(g.shape.Fields()))
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(g.table))

	if filterByKey {
		pk, err := g.key()
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(keyPredicate(pk))
	}
	return sb.String(), nil
}

// Insert generates a column-complete INSERT with one placeholder per
// field, in declaration order.
func (g *Generator) Insert() (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}

	fields := g.shape.Fields()
	refs := make([]string, len(fields))
	for i, f := range fields {
		refs[i] = paramRef(f.Name)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(g.table))
	sb.WriteString(" (")
	sb.WriteString(columnList(fields))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(refs, ", "))
	sb.WriteString(")")
	return sb.String(), nil
}

// Update generates an UPDATE keyed on the primary-key column. The key
// column is excluded from the SET list.
func (g *Generator) Update() (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	pk, err := g.key()
	if err != nil {
		return "", err
	}

	var assigns []string
	for _, f := range g.shape.Fields() {
		if f.PrimaryKey {
			continue
		}
		assigns = append(assigns, quoteIdent(f.Name)+" = "+paramRef(f.Name))
	}
	if len(assigns) == 0 {
		return "", errs.Newf(errs.ErrKindInvalidInput,
			"shape for table %q has no non-key fields to update", g.table)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(quoteIdent(g.table))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assigns, ", "))
	sb.WriteString(" WHERE ")
	sb.WriteString(keyPredicate(pk))
	return sb.String(), nil
}

// Delete generates a DELETE keyed on the primary-key column.
func (g *Generator) Delete() (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	pk, err := g.key()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(quoteIdent(g.table))
	sb.WriteString(" WHERE ")
	sb.WriteString(keyPredicate(pk))
	return sb.String(), nil
}

// MapParameters reads one value per shape field out of row (keyed by
// column name) and emits the ordered parameter map. Values pass through
// as tagged bindings and are never interpolated into SQL text — this is
// the sole injection-safety mechanism for values. A column absent from
// the row binds NULL.
func (g *Generator) MapParameters(row map[string]any) (Parameters, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}

	fields := g.shape.Fields()
	params := make(Parameters, 0, len(fields))
	for _, f := range fields {
		v, err := valueFor(f.Type, row[f.Name])
		if err != nil {
			return nil, errs.Wrapf(errs.ErrKindInvalidInput, err,
				"mapping column %q of table %q", f.Name, g.table)
		}
		params = append(params, Parameter{Name: f.Name, Value: v})
	}
	return params, nil
}

// MapKey reads only the primary-key value out of row and emits the
// single-entry parameter map used by key-filtered SELECT and DELETE
// statements, whose text mentions no other placeholder.
func (g *Generator) MapKey(row map[string]any) (Parameters, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	pk, err := g.key()
	if err != nil {
		return nil, err
	}

	v, err := valueFor(pk.Type, row[pk.Name])
	if err != nil {
		return nil, errs.Wrapf(errs.ErrKindInvalidInput, err,
			"mapping key column %q of table %q", pk.Name, g.table)
	}
	return Parameters{{Name: pk.Name, Value: v}}, nil
}

// --- identifier and placeholder formatting ---
//
// All quoting lives here so the four statement generators cannot diverge.

// quoteIdent wraps a SQL identifier in double-quotes (ANSI standard).
// This safely handles reserved words and mixed-case names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// paramRef formats the named-parameter placeholder for a column.
func paramRef(name string) string {
	return "@" + name
}

// keyPredicate formats the WHERE condition used by every key-filtered
// statement.
func keyPredicate(pk shape.Field) string {
	return quoteIdent(pk.Name) + " = " + paramRef(pk.Name)
}

// columnList renders the quoted, comma-separated column list in field
// declaration order.
func columnList(fields []shape.Field) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = quoteIdent(f.Name)
	}
	return strings.Join(cols, ", ")
}

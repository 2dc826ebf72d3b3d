// Package catalog reconstructs a generic entity/relationship graph from a
// database's own metadata.
//
// The assembly logic is engine-independent: it consumes a Source, the
// narrow three-query capability each engine package implements (list
// tables, columns of a table, foreign keys of a table). Swapping engines
// means reimplementing only the Source, never the assembly.
package catalog

import "context"

// Attribute describes one column of a discovered entity.
type Attribute struct {
	DataType string `json:"dataType"`
	Nullable bool   `json:"nullable"`
}

// Entity is a reconstructed table descriptor: name plus column
// attributes. Entities are never mutated after creation.
type Entity struct {
	Name       string               `json:"name"`
	Attributes map[string]Attribute `json:"attributes"`
}

// Relationship is one foreign-key edge: the column Key on FromEntity
// references ToEntity. Tables with multiple foreign keys produce one
// Relationship per key; composite keys emit one edge per column.
type Relationship struct {
	FromEntity string `json:"fromEntity"`
	ToEntity   string `json:"toEntity"`
	Key        string `json:"key"`
}

// Column is one row of an engine's column-metadata query.
type Column struct {
	Name     string
	DataType string
	NotNull  bool
}

// ForeignKeyRef is one row of an engine's foreign-key query: the local
// referencing column and the table it points at.
type ForeignKeyRef struct {
	Table  string // referenced table
	Column string // local column holding the reference
}

// Source is the catalog query capability an engine must provide. These
// are the only three query shapes introspection relies on; their
// engine-specific syntax lives entirely in the engine packages.
type Source interface {
	// Tables lists all user table names.
	Tables(ctx context.Context) ([]string, error)

	// Columns lists the column metadata of one table.
	Columns(ctx context.Context, table string) ([]Column, error)

	// ForeignKeys lists the foreign keys of one table, one entry per
	// referencing column.
	ForeignKeys(ctx context.Context, table string) ([]ForeignKeyRef, error)
}

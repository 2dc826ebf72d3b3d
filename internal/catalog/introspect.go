package catalog

import (
	"context"

	"github.com/amadren/relkit/internal/errs"
)

// Introspector assembles entities and relationships from a Source.
//
// Each load issues N+1 catalog queries (one table list plus one per-table
// metadata query) strictly sequentially against the Source's connection.
// Any query failure aborts the whole call — partial lists are never
// returned — and surfaces as an errs.ErrKindQueryFailed error naming the
// operation and table.
type Introspector struct {
	src Source
}

// NewIntrospector returns an Introspector reading from src.
func NewIntrospector(src Source) *Introspector {
	return &Introspector{src: src}
}

// LoadEntities discovers all tables and their column attributes. Entities
// appear in the order the catalog returns tables; callers must not rely
// on that order being stable across calls.
func (in *Introspector) LoadEntities(ctx context.Context) ([]Entity, error) {
	tables, err := in.src.Tables(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "load entities: list tables", err)
	}

	entities := make([]Entity, 0, len(tables))
	for _, table := range tables {
		cols, err := in.src.Columns(ctx, table)
		if err != nil {
			return nil, errs.Wrapf(errs.ErrKindQueryFailed, err,
				"load entities: columns of table %q", table)
		}

		attrs := make(map[string]Attribute, len(cols))
		for _, col := range cols {
			attrs[col.Name] = Attribute{
				DataType: col.DataType,
				Nullable: !col.NotNull,
			}
		}
		entities = append(entities, Entity{Name: table, Attributes: attrs})
	}
	return entities, nil
}

// LoadRelationships discovers all foreign-key edges. A table with no
// foreign keys contributes nothing; a table with several contributes one
// Relationship per key, with no de-duplication.
func (in *Introspector) LoadRelationships(ctx context.Context) ([]Relationship, error) {
	tables, err := in.src.Tables(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "load relationships: list tables", err)
	}

	rels := make([]Relationship, 0)
	for _, table := range tables {
		fks, err := in.src.ForeignKeys(ctx, table)
		if err != nil {
			return nil, errs.Wrapf(errs.ErrKindQueryFailed, err,
				"load relationships: foreign keys of table %q", table)
		}

		for _, fk := range fks {
			rels = append(rels, Relationship{
				FromEntity: table,
				ToEntity:   fk.Table,
				Key:        fk.Column,
			})
		}
	}
	return rels, nil
}

package database

import (
	"github.com/amadren/relkit/internal/errs"
)

// Rows is the minimal iteration surface a driver result set must expose.
// *sql.Rows satisfies it directly; other drivers wrap their native rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Close() error
	Err() error
}

// Collect drains a driver result set into a Result, keying each row's
// values by column name.
//
// Collect always closes rows — callers do not call Close themselves.
// Result.Rows is non-nil even for zero rows.
func Collect(rows Rows) (*Result, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "read column names", err)
	}

	result := &Result{
		Columns: columns,
		Rows:    make([]Row, 0),
	}

	for rows.Next() {
		// Scan targets are *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan row", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = dest[i]
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "iterate rows", err)
	}
	return result, nil
}

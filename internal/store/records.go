package store

import (
	"context"

	"github.com/smndtrl/nocodb/internal/errs"
)

// ReadRecords executes a query and materializes the result set as generic
// row maps keyed by result column name, the shape the hook and filter layers
// consume.
func ReadRecords(ctx context.Context, db DB, sql string, args ...any) ([]map[string]any, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "reading result columns", err)
	}

	var records []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scanning record", err)
		}

		record := make(map[string]any, len(cols))
		for i, col := range cols {
			record[col] = normalizeValue(values[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "iterating records", err)
	}
	return records, nil
}

// normalizeValue converts driver-specific scan results into plain Go values.
// Byte slices become strings: every driver returns text columns differently
// and the layers above only deal in strings.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

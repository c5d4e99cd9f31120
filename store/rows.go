package store

import (
	"context"

	"go.hackfix.me/cymig/store/types"
)

// ScanFunc converts a single result row into a typed value.
type ScanFunc[T any] func(row map[string]any) (*T, error)

// GetSingle returns the first row of the result converted with scan, or nil if
// the result is empty. Use it for lookups where absence is a normal outcome.
func GetSingle[T any](ctx context.Context, rows types.Rows, scan ScanFunc[T]) (*T, error) {
	if !rows.Next(ctx) {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return scan(rows.Record())
}

// Single returns the first row of the result converted with scan, and fails
// with types.NoResultError if the result is empty.
func Single[T any](
	ctx context.Context, rows types.Rows, modelName, id string, scan ScanFunc[T],
) (*T, error) {
	result, err := GetSingle(ctx, rows, scan)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, types.NoResultError{ModelName: modelName, ID: id}
	}

	return result, nil
}

// All collects every row of the result converted with scan. Rows that fail to
// convert are skipped.
func All[T any](ctx context.Context, rows types.Rows, scan ScanFunc[T]) ([]*T, error) {
	var out []*T
	for rows.Next(ctx) {
		result, err := scan(rows.Record())
		if err != nil {
			continue
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

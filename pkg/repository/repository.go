// Package repository provides typed helpers over database/sql for the record
// store adapter: single-row, multi-row, and conditional write execution.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Querier is implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor is implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner abstracts row scanning for use with query helpers.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc converts a Scanner into a typed value.
type ScanFunc[T any] func(Scanner) (T, error)

// QueryOne executes a query expected to return exactly one row.
// A missing row surfaces as sql.ErrNoRows.
func QueryOne[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) (T, error) {
	var zero T
	row := q.QueryRowContext(ctx, query, args...)
	result, err := scan(row)
	if err != nil {
		return zero, err
	}
	return result, nil
}

// QueryOptional executes a query that may match zero or one row.
// A missing row is reported as found=false with a nil error.
func QueryOptional[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) (T, bool, error) {
	result, err := QueryOne(ctx, q, query, args, scan)
	if errors.Is(err, sql.ErrNoRows) {
		return result, false, nil
	}
	if err != nil {
		return result, false, err
	}
	return result, true, nil
}

// QueryMany executes a query expected to return multiple rows.
// Returns an empty, non-nil slice if no rows are found.
func QueryMany[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ExecAffected executes a conditional write and reports whether any row matched.
func ExecAffected(ctx context.Context, e Executor, query string, args ...any) (bool, error) {
	result, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

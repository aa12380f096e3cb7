// Package repository holds the SQL for each table. Repositories are built on a
// database.Querier so the same code runs on the pool or inside a transaction.
package repository

import (
	"context"
	"fmt"

	"chorechart/internal/database"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// execAffected runs a statement and reports whether it touched any row
func execAffected(ctx context.Context, db database.Querier, op, query string, args ...interface{}) (bool, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	return n > 0, nil
}

// execCount runs a statement and returns the number of rows it touched
func execCount(ctx context.Context, db database.Querier, op, query string, args ...interface{}) (int, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	return int(n), nil
}

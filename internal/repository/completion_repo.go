package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chorechart/internal/database"
)

// CompletionRepository handles database operations for chore completions
type CompletionRepository struct {
	db database.Querier
}

// NewCompletionRepository creates a new completion repository
func NewCompletionRepository(db database.Querier) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// FindCompletion returns the id of the completion for an assignment on a day
func (r *CompletionRepository) FindCompletion(ctx context.Context, assignmentID, kidID int64, day string) (int64, bool, error) {
	var id int64
	query := "SELECT id FROM chore_completions WHERE assignment_id = ? AND kid_id = ? AND date_completed = ?"
	err := r.db.QueryRowContext(ctx, query, assignmentID, kidID, day).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find completion: %w", err)
	}
	return id, true, nil
}

// CreateCompletion records an assignment as done on a day
func (r *CompletionRepository) CreateCompletion(ctx context.Context, assignmentID, kidID, choreID int64, day string) (int64, error) {
	query := "INSERT INTO chore_completions (assignment_id, kid_id, chore_id, date_completed) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, assignmentID, kidID, choreID, day)
	if err != nil {
		return 0, fmt.Errorf("failed to create completion: %w", err)
	}
	return id, nil
}

// DeleteCompletion removes the completion for an assignment on a day
func (r *CompletionRepository) DeleteCompletion(ctx context.Context, assignmentID, kidID int64, day string) (bool, error) {
	query := "DELETE FROM chore_completions WHERE assignment_id = ? AND kid_id = ? AND date_completed = ?"
	return execAffected(ctx, r.db, "delete completion", query, assignmentID, kidID, day)
}

// CompletedAssignmentIDs returns the set of assignments a kid completed on a day
func (r *CompletionRepository) CompletedAssignmentIDs(ctx context.Context, kidID int64, day string) (map[int64]bool, error) {
	query := "SELECT assignment_id FROM chore_completions WHERE kid_id = ? AND date_completed = ? AND assignment_id IS NOT NULL"
	rows, err := r.db.QueryContext(ctx, query, kidID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	done := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		done[id] = true
	}
	return done, rows.Err()
}

// DeleteCompletionsForDay removes every completion a kid recorded on a day
func (r *CompletionRepository) DeleteCompletionsForDay(ctx context.Context, kidID int64, day string) (int, error) {
	query := "DELETE FROM chore_completions WHERE kid_id = ? AND date_completed = ?"
	return execCount(ctx, r.db, "delete completions", query, kidID, day)
}

package service

import (
	"context"
	"fmt"
	"time"

	"chorechart/internal/database"
	"chorechart/internal/models"
	"chorechart/internal/repository"
	"chorechart/internal/schedule"
)

// Ledger answers which chores are due on a day and records completions.
// It runs on whatever Querier it was built with, usually the action's Tx.
type Ledger struct {
	assignments *repository.AssignmentRepository
	completions *repository.CompletionRepository
}

// NewLedger creates a ledger over q
func NewLedger(q database.Querier) *Ledger {
	return &Ledger{
		assignments: repository.NewAssignmentRepository(q),
		completions: repository.NewCompletionRepository(q),
	}
}

// ListDueToday returns the kid's active assignments due on day, each marked
// with whether it was completed that day.
func (l *Ledger) ListDueToday(ctx context.Context, kidID int64, day time.Time) ([]models.DueChore, error) {
	active, err := l.assignments.GetActiveAssignmentsForKid(ctx, kidID)
	if err != nil {
		return nil, err
	}

	done, err := l.completions.CompletedAssignmentIDs(ctx, kidID, schedule.Day(day))
	if err != nil {
		return nil, err
	}

	due := []models.DueChore{}
	for _, chore := range active {
		if !schedule.IsDue(chore.Frequency, day) {
			continue
		}
		chore.CompletedToday = done[chore.AssignmentID]
		due = append(due, chore)
	}
	return due, nil
}

// RecordCompletion inserts a completion unless one already exists for the
// assignment on day, in which case alreadyComplete is true and nothing changes.
func (l *Ledger) RecordCompletion(ctx context.Context, assignmentID, kidID, choreID int64, day time.Time) (id int64, alreadyComplete bool, err error) {
	key := schedule.Day(day)
	existing, found, err := l.completions.FindCompletion(ctx, assignmentID, kidID, key)
	if err != nil {
		return 0, false, err
	}
	if found {
		return existing, true, nil
	}

	id, err = l.completions.CreateCompletion(ctx, assignmentID, kidID, choreID, key)
	if err != nil {
		return 0, false, fmt.Errorf("failed to record completion: %w", err)
	}
	return id, false, nil
}

// RemoveCompletion deletes the completion for the assignment on day. Removing
// an absent completion is not an error.
func (l *Ledger) RemoveCompletion(ctx context.Context, assignmentID, kidID int64, day time.Time) (bool, error) {
	return l.completions.DeleteCompletion(ctx, assignmentID, kidID, schedule.Day(day))
}

// AllDone reports whether there is at least one due chore and all are completed
func AllDone(due []models.DueChore) bool {
	if len(due) == 0 {
		return false
	}
	for _, chore := range due {
		if !chore.CompletedToday {
			return false
		}
	}
	return true
}

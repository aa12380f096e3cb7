package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chorechart/internal/database"
	"chorechart/internal/models"
)

// AssignmentRepository handles database operations for chore assignments
type AssignmentRepository struct {
	db database.Querier
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db database.Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CreateAssignment binds a chore to a kid. New assignments are active.
func (r *AssignmentRepository) CreateAssignment(ctx context.Context, kidID, choreID int64, frequency string) (int64, error) {
	query := "INSERT INTO chore_assignments (kid_id, chore_id, frequency, is_active) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, kidID, choreID, frequency, true)
	if err != nil {
		return 0, fmt.Errorf("failed to create assignment: %w", err)
	}
	return id, nil
}

// AssignmentExists reports whether the (kid, chore, frequency) triple is taken
func (r *AssignmentRepository) AssignmentExists(ctx context.Context, kidID, choreID int64, frequency string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM chore_assignments WHERE kid_id = ? AND chore_id = ? AND frequency = ?"
	if err := r.db.QueryRowContext(ctx, query, kidID, choreID, frequency).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}

// GetAssignmentByID retrieves an assignment. It returns nil when it does not exist.
func (r *AssignmentRepository) GetAssignmentByID(ctx context.Context, assignmentID int64) (*models.Assignment, error) {
	a := &models.Assignment{}
	query := "SELECT id, kid_id, chore_id, frequency, is_active FROM chore_assignments WHERE id = ?"
	err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&a.ID, &a.KidID, &a.ChoreID, &a.Frequency, &a.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// GetAllAssignments lists every assignment with kid and chore names
func (r *AssignmentRepository) GetAllAssignments(ctx context.Context) ([]models.AssignmentDetail, error) {
	query := `
		SELECT ca.id, ca.kid_id, ca.chore_id, ca.frequency, ca.is_active, k.name, cm.name, cm.icon
		FROM chore_assignments ca
		JOIN kids k ON ca.kid_id = k.id
		JOIN chores_master cm ON ca.chore_id = cm.id
		ORDER BY k.name ASC, cm.name ASC, ca.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.AssignmentDetail{}
	for rows.Next() {
		var a models.AssignmentDetail
		if err := rows.Scan(&a.ID, &a.KidID, &a.ChoreID, &a.Frequency, &a.IsActive, &a.KidName, &a.ChoreName, &a.ChoreIcon); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetActiveAssignmentsForKid lists a kid's active assignments joined with
// their chores. CompletedToday is left false for the caller to fill in.
func (r *AssignmentRepository) GetActiveAssignmentsForKid(ctx context.Context, kidID int64) ([]models.DueChore, error) {
	query := `
		SELECT ca.id, ca.kid_id, ca.chore_id, cm.name, cm.icon, ca.frequency
		FROM chore_assignments ca
		JOIN chores_master cm ON ca.chore_id = cm.id
		WHERE ca.kid_id = ? AND ca.is_active = ?
		ORDER BY ca.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, kidID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query kid assignments: %w", err)
	}
	defer rows.Close()

	var chores []models.DueChore
	for rows.Next() {
		var c models.DueChore
		if err := rows.Scan(&c.AssignmentID, &c.KidID, &c.ChoreID, &c.ChoreName, &c.ChoreIcon, &c.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan kid assignment: %w", err)
		}
		chores = append(chores, c)
	}
	return chores, rows.Err()
}

// UpdateFrequency changes an assignment's recurrence rule
func (r *AssignmentRepository) UpdateFrequency(ctx context.Context, assignmentID int64, frequency string) (bool, error) {
	return execAffected(ctx, r.db, "update assignment", "UPDATE chore_assignments SET frequency = ? WHERE id = ?", frequency, assignmentID)
}

// SetActive activates or deactivates an assignment
func (r *AssignmentRepository) SetActive(ctx context.Context, assignmentID int64, active bool) (bool, error) {
	return execAffected(ctx, r.db, "update assignment", "UPDATE chore_assignments SET is_active = ? WHERE id = ?", active, assignmentID)
}

// DeleteAssignment removes an assignment and, by cascade, its completions
func (r *AssignmentRepository) DeleteAssignment(ctx context.Context, assignmentID int64) (bool, error) {
	return execAffected(ctx, r.db, "delete assignment", "DELETE FROM chore_assignments WHERE id = ?", assignmentID)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chorechart/internal/database"
	"chorechart/internal/models"
)

// ChoreRepository handles database operations for the master chore catalog
type ChoreRepository struct {
	db database.Querier
}

// NewChoreRepository creates a new chore repository
func NewChoreRepository(db database.Querier) *ChoreRepository {
	return &ChoreRepository{db: db}
}

// CreateChore adds a chore to the catalog
func (r *ChoreRepository) CreateChore(ctx context.Context, name, icon string) (*models.Chore, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO chores_master (name, icon) VALUES (?, ?)", name, icon)
	if err != nil {
		return nil, fmt.Errorf("failed to create chore: %w", err)
	}
	return &models.Chore{ID: id, Name: name, Icon: icon}, nil
}

// GetChoreByID retrieves a chore by ID. It returns nil when the chore does not exist.
func (r *ChoreRepository) GetChoreByID(ctx context.Context, choreID int64) (*models.Chore, error) {
	chore := &models.Chore{}
	err := r.db.QueryRowContext(ctx, "SELECT id, name, icon FROM chores_master WHERE id = ?", choreID).
		Scan(&chore.ID, &chore.Name, &chore.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chore: %w", err)
	}
	return chore, nil
}

// GetAllChores lists the catalog ordered by name
func (r *ChoreRepository) GetAllChores(ctx context.Context) ([]models.Chore, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, icon FROM chores_master ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query chores: %w", err)
	}
	defer rows.Close()

	chores := []models.Chore{}
	for rows.Next() {
		var chore models.Chore
		if err := rows.Scan(&chore.ID, &chore.Name, &chore.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan chore: %w", err)
		}
		chores = append(chores, chore)
	}
	return chores, rows.Err()
}

// UpdateChore changes a chore's name and icon
func (r *ChoreRepository) UpdateChore(ctx context.Context, choreID int64, name, icon string) (bool, error) {
	return execAffected(ctx, r.db, "update chore", "UPDATE chores_master SET name = ?, icon = ? WHERE id = ?", name, icon, choreID)
}

// DeleteChore removes a chore. Its assignments and completions cascade.
func (r *ChoreRepository) DeleteChore(ctx context.Context, choreID int64) (bool, error) {
	return execAffected(ctx, r.db, "delete chore", "DELETE FROM chores_master WHERE id = ?", choreID)
}

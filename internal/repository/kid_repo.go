package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chorechart/internal/database"
	"chorechart/internal/models"
)

const kidColumns = "id, name, avatar_color, balloons, train_track_length, train_laps_completed, created_at"

// KidRepository handles database operations for kids
type KidRepository struct {
	db database.Querier
}

// NewKidRepository creates a new kid repository
func NewKidRepository(db database.Querier) *KidRepository {
	return &KidRepository{db: db}
}

func scanKid(row rowScanner, kid *models.Kid) error {
	return row.Scan(
		&kid.ID,
		&kid.Name,
		&kid.AvatarColor,
		&kid.Balloons,
		&kid.TrainTrackLength,
		&kid.TrainLapsCompleted,
		&kid.CreatedAt,
	)
}

// CreateKid creates a new kid profile
func (r *KidRepository) CreateKid(ctx context.Context, name, avatarColor string, trackLength int) (*models.Kid, error) {
	query := "INSERT INTO kids (name, avatar_color, train_track_length) VALUES (?, ?, ?)"
	kidID, err := r.db.ExecReturningID(ctx, query, name, avatarColor, trackLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create kid: %w", err)
	}

	return r.GetKidByID(ctx, kidID)
}

// GetKidByID retrieves a kid by ID. It returns nil when the kid does not exist.
func (r *KidRepository) GetKidByID(ctx context.Context, kidID int64) (*models.Kid, error) {
	query := "SELECT " + kidColumns + " FROM kids WHERE id = ?"
	kid := &models.Kid{}
	err := scanKid(r.db.QueryRowContext(ctx, query, kidID), kid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kid: %w", err)
	}
	return kid, nil
}

// LockKid reads a kid row and holds a write lock on it until the surrounding
// transaction ends. On SQLite the transaction already owns the database write
// lock, so the plain SELECT is enough.
func (r *KidRepository) LockKid(ctx context.Context, kidID int64) (*models.Kid, error) {
	query := "SELECT " + kidColumns + " FROM kids WHERE id = ?" + r.db.GetDialect().ForUpdate()
	kid := &models.Kid{}
	err := scanKid(r.db.QueryRowContext(ctx, query, kidID), kid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock kid: %w", err)
	}
	return kid, nil
}

// GetKidWithStats retrieves a kid together with their star count
func (r *KidRepository) GetKidWithStats(ctx context.Context, kidID int64) (*models.KidWithStats, error) {
	query := `
		SELECT k.id, k.name, k.avatar_color, k.balloons, k.train_track_length, k.train_laps_completed, k.created_at,
			(SELECT COUNT(*) FROM stars s WHERE s.kid_id = k.id) AS stars_count
		FROM kids k
		WHERE k.id = ?
	`
	kid := &models.KidWithStats{}
	err := r.db.QueryRowContext(ctx, query, kidID).Scan(
		&kid.ID,
		&kid.Name,
		&kid.AvatarColor,
		&kid.Balloons,
		&kid.TrainTrackLength,
		&kid.TrainLapsCompleted,
		&kid.CreatedAt,
		&kid.StarsCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kid stats: %w", err)
	}
	return kid, nil
}

// GetAllKids retrieves every kid with their star count, ordered by name
func (r *KidRepository) GetAllKids(ctx context.Context) ([]models.KidWithStats, error) {
	query := `
		SELECT k.id, k.name, k.avatar_color, k.balloons, k.train_track_length, k.train_laps_completed, k.created_at,
			(SELECT COUNT(*) FROM stars s WHERE s.kid_id = k.id) AS stars_count
		FROM kids k
		ORDER BY k.name ASC, k.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query kids: %w", err)
	}
	defer rows.Close()

	kids := []models.KidWithStats{}
	for rows.Next() {
		var kid models.KidWithStats
		if err := rows.Scan(
			&kid.ID,
			&kid.Name,
			&kid.AvatarColor,
			&kid.Balloons,
			&kid.TrainTrackLength,
			&kid.TrainLapsCompleted,
			&kid.CreatedAt,
			&kid.StarsCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan kid: %w", err)
		}
		kids = append(kids, kid)
	}

	return kids, rows.Err()
}

// UpdateKid changes a kid's name and track length
func (r *KidRepository) UpdateKid(ctx context.Context, kidID int64, name string, trackLength int) (bool, error) {
	query := "UPDATE kids SET name = ?, train_track_length = ? WHERE id = ?"
	return execAffected(ctx, r.db, "update kid", query, name, trackLength, kidID)
}

// DeleteKid removes a kid. Assignments, completions and stars cascade.
func (r *KidRepository) DeleteKid(ctx context.Context, kidID int64) (bool, error) {
	return execAffected(ctx, r.db, "delete kid", "DELETE FROM kids WHERE id = ?", kidID)
}

// SetBalloons overwrites the cached balloon count
func (r *KidRepository) SetBalloons(ctx context.Context, kidID int64, balloons int) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE kids SET balloons = ? WHERE id = ?", balloons, kidID); err != nil {
		return fmt.Errorf("failed to set balloons: %w", err)
	}
	return nil
}

// SetLaps overwrites the cached lap count
func (r *KidRepository) SetLaps(ctx context.Context, kidID int64, laps int) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE kids SET train_laps_completed = ? WHERE id = ?", laps, kidID); err != nil {
		return fmt.Errorf("failed to set laps: %w", err)
	}
	return nil
}

// SetTrackLength overwrites the train track length
func (r *KidRepository) SetTrackLength(ctx context.Context, kidID int64, length int) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE kids SET train_track_length = ? WHERE id = ?", length, kidID); err != nil {
		return fmt.Errorf("failed to set track length: %w", err)
	}
	return nil
}

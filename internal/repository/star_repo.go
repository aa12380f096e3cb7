package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"chorechart/internal/database"
	"chorechart/internal/models"
)

// StarRepository handles database operations for the star ledger
type StarRepository struct {
	db database.Querier
}

// NewStarRepository creates a new star repository
func NewStarRepository(db database.Querier) *StarRepository {
	return &StarRepository{db: db}
}

// CreateStar appends a star to a kid's ledger
func (r *StarRepository) CreateStar(ctx context.Context, kidID int64, day string, starType models.StarType, reason string) (int64, error) {
	query := "INSERT INTO stars (kid_id, date_awarded, type, reason) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, kidID, day, string(starType), reason)
	if err != nil {
		return 0, fmt.Errorf("failed to create star: %w", err)
	}
	return id, nil
}

// LatestStarOfType returns the most recently inserted star of a type awarded on a day
func (r *StarRepository) LatestStarOfType(ctx context.Context, kidID int64, starType models.StarType, day string) (int64, bool, error) {
	var id int64
	query := "SELECT id FROM stars WHERE kid_id = ? AND type = ? AND date_awarded = ? ORDER BY id DESC LIMIT 1"
	err := r.db.QueryRowContext(ctx, query, kidID, string(starType), day).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find star: %w", err)
	}
	return id, true, nil
}

// DeleteStar revokes a single star
func (r *StarRepository) DeleteStar(ctx context.Context, starID int64) (bool, error) {
	return execAffected(ctx, r.db, "delete star", "DELETE FROM stars WHERE id = ?", starID)
}

// DeleteStarsOfType revokes every star of a type a kid was awarded on a day
func (r *StarRepository) DeleteStarsOfType(ctx context.Context, kidID int64, starType models.StarType, day string) (int, error) {
	query := "DELETE FROM stars WHERE kid_id = ? AND type = ? AND date_awarded = ?"
	return execCount(ctx, r.db, "delete stars", query, kidID, string(starType), day)
}

// CountStars returns the size of a kid's ledger
func (r *StarRepository) CountStars(ctx context.Context, kidID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stars WHERE kid_id = ?", kidID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count stars: %w", err)
	}
	return count, nil
}

// OldestStars returns up to limit stars, oldest award first with ties broken
// by insertion order. An empty starType matches every type.
func (r *StarRepository) OldestStars(ctx context.Context, kidID int64, starType models.StarType, limit int) ([]models.Star, error) {
	query := "SELECT id, kid_id, date_awarded, type, reason FROM stars WHERE kid_id = ?"
	args := []interface{}{kidID}
	if starType != "" {
		query += " AND type = ?"
		args = append(args, string(starType))
	}
	query += " ORDER BY date_awarded ASC, id ASC LIMIT ?"
	args = append(args, limit)

	return r.queryStars(ctx, query, args...)
}

// DeleteStarsByID revokes the given stars and returns how many were removed
func (r *StarRepository) DeleteStarsByID(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return execCount(ctx, r.db, "delete stars", "DELETE FROM stars WHERE id IN ("+placeholders+")", args...)
}

// GetStarsForKid lists a kid's ledger, newest first
func (r *StarRepository) GetStarsForKid(ctx context.Context, kidID int64) ([]models.Star, error) {
	query := "SELECT id, kid_id, date_awarded, type, reason FROM stars WHERE kid_id = ? ORDER BY date_awarded DESC, id DESC"
	return r.queryStars(ctx, query, kidID)
}

func (r *StarRepository) queryStars(ctx context.Context, query string, args ...interface{}) ([]models.Star, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stars: %w", err)
	}
	defer rows.Close()

	stars := []models.Star{}
	for rows.Next() {
		var s models.Star
		var starType string
		if err := rows.Scan(&s.ID, &s.KidID, &s.DateAwarded, &starType, &s.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan star: %w", err)
		}
		s.Type = models.StarType(starType)
		stars = append(stars, s)
	}
	return stars, rows.Err()
}

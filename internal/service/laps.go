package service

import (
	"context"
	"fmt"

	"chorechart/internal/database"
	"chorechart/internal/models"
	"chorechart/internal/repository"
)

// LapCounter keeps the cached train_laps_completed field in step with the
// star ledger.
type LapCounter struct{}

// Recompute sets laps to total stars divided by track length and returns the
// stored value. A track length of zero or less leaves the cached laps alone.
func (LapCounter) Recompute(ctx context.Context, q database.Querier, kidID int64) (int, error) {
	kids := repository.NewKidRepository(q)
	kid, err := kids.GetKidByID(ctx, kidID)
	if err != nil {
		return 0, err
	}
	if kid == nil {
		return 0, ErrKidNotFound
	}

	stars, err := repository.NewStarRepository(q).CountStars(ctx, kidID)
	if err != nil {
		return 0, err
	}

	laps, ok := models.LapsFor(stars, kid.TrainTrackLength)
	if !ok {
		return kid.TrainLapsCompleted, nil
	}
	if laps == kid.TrainLapsCompleted {
		return laps, nil
	}
	if err := kids.SetLaps(ctx, kidID, laps); err != nil {
		return 0, fmt.Errorf("failed to recompute laps: %w", err)
	}
	return laps, nil
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"chorechart/internal/database"
	"chorechart/internal/models"
	"chorechart/internal/repository"
	"chorechart/internal/schedule"
	"chorechart/internal/utils"
)

// AllKids is the kid selector that assigns a chore to every kid.
const AllKids = "all"

// AssignResult reports the assignments created by AssignChore. Triples that
// already existed are skipped and counted in Skipped.
type AssignResult struct {
	AssignmentIDs []int64 `json:"assignment_ids"`
	Skipped       int     `json:"skipped"`
}

// CatalogService manages kids, master chores and assignments
type CatalogService struct {
	db   *database.DB
	laps LapCounter
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *database.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListKids returns every kid with their star count
func (s *CatalogService) ListKids(ctx context.Context) ([]models.KidWithStats, error) {
	kids, err := repository.NewKidRepository(s.db).GetAllKids(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list kids: %w", err)
	}
	return kids, nil
}

// GetKid returns a kid with their star count
func (s *CatalogService) GetKid(ctx context.Context, kidID int64) (*models.KidWithStats, error) {
	return snapshot(ctx, s.db, kidID)
}

// CreateKid adds a kid. A track length of zero selects the default.
func (s *CatalogService) CreateKid(ctx context.Context, name, avatarColor string, trackLength int) (*models.KidWithStats, error) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateName(name); err != nil {
		return nil, err
	}
	if trackLength == 0 {
		trackLength = models.DefaultTrackLength
	}
	if err := utils.ValidatePositive("train_track_length", trackLength); err != nil {
		return nil, err
	}

	kid, err := repository.NewKidRepository(s.db).CreateKid(ctx, name, strings.TrimSpace(avatarColor), trackLength)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"kid_id": kid.ID, "name": kid.Name}).Info("Kid created")
	return &models.KidWithStats{Kid: *kid}, nil
}

// UpdateKid renames a kid and changes the track length, recomputing laps
func (s *CatalogService) UpdateKid(ctx context.Context, kidID int64, name string, trackLength int) (*models.KidWithStats, error) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateName(name); err != nil {
		return nil, err
	}
	if err := utils.ValidatePositive("train_track_length", trackLength); err != nil {
		return nil, err
	}

	var kid *models.KidWithStats
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := lockKid(ctx, tx, kidID); err != nil {
			return err
		}
		if _, err := repository.NewKidRepository(tx).UpdateKid(ctx, kidID, name, trackLength); err != nil {
			return err
		}
		if _, err := s.laps.Recompute(ctx, tx, kidID); err != nil {
			return err
		}
		var err error
		kid, err = snapshot(ctx, tx, kidID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return kid, nil
}

// DeleteKid removes a kid and everything that belongs to them
func (s *CatalogService) DeleteKid(ctx context.Context, kidID int64) error {
	deleted, err := repository.NewKidRepository(s.db).DeleteKid(ctx, kidID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrKidNotFound
	}
	log.WithField("kid_id", kidID).Info("Kid deleted")
	return nil
}

// ListChores returns the master chore catalog
func (s *CatalogService) ListChores(ctx context.Context) ([]models.Chore, error) {
	chores, err := repository.NewChoreRepository(s.db).GetAllChores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chores: %w", err)
	}
	return chores, nil
}

// CreateChore adds a chore to the catalog
func (s *CatalogService) CreateChore(ctx context.Context, name, icon string) (*models.Chore, error) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateName(name); err != nil {
		return nil, err
	}
	chore, err := repository.NewChoreRepository(s.db).CreateChore(ctx, name, strings.TrimSpace(icon))
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"chore_id": chore.ID, "name": chore.Name}).Info("Chore created")
	return chore, nil
}

// UpdateChore changes a chore's name and icon
func (s *CatalogService) UpdateChore(ctx context.Context, choreID int64, name, icon string) (*models.Chore, error) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateName(name); err != nil {
		return nil, err
	}
	chores := repository.NewChoreRepository(s.db)
	updated, err := chores.UpdateChore(ctx, choreID, name, strings.TrimSpace(icon))
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrChoreNotFound
	}
	return chores.GetChoreByID(ctx, choreID)
}

// DeleteChore removes a chore with its assignments and completions
func (s *CatalogService) DeleteChore(ctx context.Context, choreID int64) error {
	deleted, err := repository.NewChoreRepository(s.db).DeleteChore(ctx, choreID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrChoreNotFound
	}
	log.WithField("chore_id", choreID).Info("Chore deleted")
	return nil
}

// ListAssignments returns every assignment with kid and chore names
func (s *CatalogService) ListAssignments(ctx context.Context) ([]models.AssignmentDetail, error) {
	assignments, err := repository.NewAssignmentRepository(s.db).GetAllAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// AssignChore assigns a chore to one kid, or to every kid when kidSelector is
// "all". Assignments that already exist are skipped.
func (s *CatalogService) AssignChore(ctx context.Context, kidSelector string, choreID int64, frequency string) (*AssignResult, error) {
	if err := utils.ValidateID("choreId", choreID); err != nil {
		return nil, err
	}
	freq, err := schedule.Parse(frequency)
	if err != nil {
		return nil, err
	}

	result := &AssignResult{AssignmentIDs: []int64{}}
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		chore, err := repository.NewChoreRepository(tx).GetChoreByID(ctx, choreID)
		if err != nil {
			return err
		}
		if chore == nil {
			return ErrChoreNotFound
		}

		kidIDs, err := s.resolveKids(ctx, tx, kidSelector)
		if err != nil {
			return err
		}

		assignments := repository.NewAssignmentRepository(tx)
		for _, kidID := range kidIDs {
			exists, err := assignments.AssignmentExists(ctx, kidID, choreID, string(freq))
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}
			id, err := assignments.CreateAssignment(ctx, kidID, choreID, string(freq))
			if err != nil {
				return err
			}
			result.AssignmentIDs = append(result.AssignmentIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"chore_id":  choreID,
		"kids":      kidSelector,
		"frequency": freq,
		"created":   len(result.AssignmentIDs),
		"skipped":   result.Skipped,
	}).Info("Chore assigned")
	return result, nil
}

func (s *CatalogService) resolveKids(ctx context.Context, q database.Querier, selector string) ([]int64, error) {
	selector = strings.TrimSpace(selector)
	kids := repository.NewKidRepository(q)

	if strings.EqualFold(selector, AllKids) {
		all, err := kids.GetAllKids(ctx)
		if err != nil {
			return nil, err
		}
		if len(all) == 0 {
			return nil, utils.ValidationError{Field: "kidId", Message: "no kids found to assign chores to"}
		}
		ids := make([]int64, len(all))
		for i, kid := range all {
			ids[i] = kid.ID
		}
		return ids, nil
	}

	if selector == "" {
		return nil, utils.ValidationError{Field: "kidId", Message: "kid id or 'all' is required"}
	}
	kidID, err := strconv.ParseInt(selector, 10, 64)
	if err != nil || kidID <= 0 {
		return nil, utils.ValidationError{Field: "kidId", Message: "invalid kid id"}
	}
	kid, err := kids.GetKidByID(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if kid == nil {
		return nil, ErrKidNotFound
	}
	return []int64{kidID}, nil
}

// UpdateAssignmentFrequency changes an assignment's recurrence rule
func (s *CatalogService) UpdateAssignmentFrequency(ctx context.Context, assignmentID int64, frequency string) (*models.Assignment, error) {
	freq, err := schedule.Parse(frequency)
	if err != nil {
		return nil, err
	}

	var assignment *models.Assignment
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		assignments := repository.NewAssignmentRepository(tx)
		var err error
		assignment, err = assignments.GetAssignmentByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return ErrAssignmentNotFound
		}
		if assignment.Frequency == string(freq) {
			return nil
		}

		exists, err := assignments.AssignmentExists(ctx, assignment.KidID, assignment.ChoreID, string(freq))
		if err != nil {
			return err
		}
		if exists {
			return utils.ValidationError{Field: "frequency", Message: "this chore is already assigned to the kid with that frequency"}
		}
		if _, err := assignments.UpdateFrequency(ctx, assignmentID, string(freq)); err != nil {
			return err
		}
		assignment.Frequency = string(freq)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// ToggleAssignmentActive flips an assignment between active and inactive
func (s *CatalogService) ToggleAssignmentActive(ctx context.Context, assignmentID int64) (*models.Assignment, error) {
	var assignment *models.Assignment
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		assignments := repository.NewAssignmentRepository(tx)
		var err error
		assignment, err = assignments.GetAssignmentByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return ErrAssignmentNotFound
		}
		assignment.IsActive = !assignment.IsActive
		_, err = assignments.SetActive(ctx, assignmentID, assignment.IsActive)
		return err
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment and its completions
func (s *CatalogService) DeleteAssignment(ctx context.Context, assignmentID int64) error {
	deleted, err := repository.NewAssignmentRepository(s.db).DeleteAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAssignmentNotFound
	}
	return nil
}

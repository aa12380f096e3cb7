package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"chorechart/internal/database"
	"chorechart/internal/models"
	"chorechart/internal/repository"
	"chorechart/internal/schedule"
	"chorechart/internal/utils"
)

// BalloonsPerStar is how many balloons convert into one star.
const BalloonsPerStar = 10

const (
	conversionReason = "10 balloons earned"
	dailyReason      = "All daily chores completed"
	notifyTimeout    = 15 * time.Second
)

// RewardObserver is told about reward events once their transaction commits
type RewardObserver interface {
	ChoreCompleted(balloons int)
	ChoreUnchecked()
	StarsAwarded(starType models.StarType, n int)
	StarsRevoked(starType models.StarType, n int)
}

// StarNotifier tells a parent that a kid earned stars
type StarNotifier interface {
	NotifyStarsEarned(ctx context.Context, kid models.KidWithStats, earned int, reason string) error
}

// RewardOption configures a RewardService
type RewardOption func(*RewardService)

// WithClock replaces time.Now as the source of "today"
func WithClock(now func() time.Time) RewardOption {
	return func(s *RewardService) {
		s.now = now
	}
}

// WithLocation sets the time zone that decides where a calendar day starts
func WithLocation(loc *time.Location) RewardOption {
	return func(s *RewardService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithObserver registers a reward event observer
func WithObserver(o RewardObserver) RewardOption {
	return func(s *RewardService) {
		s.observer = o
	}
}

// WithNotifier registers a parent notifier for earned stars
func WithNotifier(n StarNotifier) RewardOption {
	return func(s *RewardService) {
		s.notifier = n
	}
}

// RewardService converts chore completions into balloons, stars and laps.
// Every action is one transaction that starts by locking the kid row, so
// actions on the same kid never interleave.
type RewardService struct {
	db       *database.DB
	now      func() time.Time
	loc      *time.Location
	laps     LapCounter
	observer RewardObserver
	notifier StarNotifier
	pending  sync.WaitGroup
}

// NewRewardService creates a new reward service
func NewRewardService(db *database.DB, opts ...RewardOption) *RewardService {
	s := &RewardService{
		db:  db,
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RewardService) today() time.Time {
	return s.now().In(s.loc)
}

// Wait blocks until in-flight parent notifications have finished
func (s *RewardService) Wait() {
	s.pending.Wait()
}

// lockKid loads and locks the kid for the rest of the transaction
func lockKid(ctx context.Context, tx *database.Tx, kidID int64) (*models.Kid, error) {
	kid, err := repository.NewKidRepository(tx).LockKid(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if kid == nil {
		return nil, ErrKidNotFound
	}
	return kid, nil
}

func snapshot(ctx context.Context, q database.Querier, kidID int64) (*models.KidWithStats, error) {
	kid, err := repository.NewKidRepository(q).GetKidWithStats(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if kid == nil {
		return nil, ErrKidNotFound
	}
	return kid, nil
}

// CompleteChore checks off an assignment for today. It awards one balloon,
// converts every full block of BalloonsPerStar balloons into a star and
// awards the daily star when this completion finishes the day's chores.
// Completing an assignment twice on one day changes nothing.
func (s *RewardService) CompleteChore(ctx context.Context, kidID, assignmentID, choreID int64) (*models.CompleteResult, error) {
	if err := utils.ValidateID("kidId", kidID); err != nil {
		return nil, err
	}
	if err := utils.ValidateID("assignmentId", assignmentID); err != nil {
		return nil, err
	}

	today := s.today()
	day := schedule.Day(today)
	result := &models.CompleteResult{}
	var kidStats *models.KidWithStats

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		kid, err := lockKid(ctx, tx, kidID)
		if err != nil {
			return err
		}

		assignment, err := repository.NewAssignmentRepository(tx).GetAssignmentByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if assignment == nil || assignment.KidID != kidID {
			return ErrAssignmentNotFound
		}
		if choreID != 0 && choreID != assignment.ChoreID {
			return utils.ValidationError{Field: "choreId", Message: "chore does not match assignment"}
		}

		ledger := NewLedger(tx)
		_, already, err := ledger.RecordCompletion(ctx, assignmentID, kidID, assignment.ChoreID, today)
		if err != nil {
			return err
		}

		if already {
			result.AlreadyComplete = true
		} else {
			if err := s.awardBalloon(ctx, tx, kid, day, result); err != nil {
				return err
			}
			if err := s.awardDailyStarIfDone(ctx, tx, ledger, kidID, today, result); err != nil {
				return err
			}
		}

		kidStats, err = snapshot(ctx, tx, kidID)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Kid = kidStats.Snapshot()

	if result.AlreadyComplete {
		return result, nil
	}

	log.WithFields(log.Fields{
		"kid_id":              kidID,
		"assignment_id":       assignmentID,
		"stars_from_balloons": result.StarsFromBalloons,
		"daily_star_awarded":  result.DailyStarAwarded,
		"balloons":            result.Kid.Balloons,
	}).Info("Chore completed")

	if s.observer != nil {
		s.observer.ChoreCompleted(result.BalloonsAwarded)
		s.observer.StarsAwarded(models.StarBalloonConversion, result.StarsFromBalloons)
		if result.DailyStarAwarded {
			s.observer.StarsAwarded(models.StarDaily, 1)
		}
	}

	earned := result.StarsFromBalloons
	var reasons []string
	if earned > 0 {
		reasons = append(reasons, conversionReason)
	}
	if result.DailyStarAwarded {
		earned++
		reasons = append(reasons, dailyReason)
	}
	s.notify(*kidStats, earned, strings.Join(reasons, "; "))

	return result, nil
}

func (s *RewardService) awardBalloon(ctx context.Context, tx *database.Tx, kid *models.Kid, day string, result *models.CompleteResult) error {
	balloons := kid.Balloons + 1
	result.BalloonsAwarded = 1

	if balloons >= BalloonsPerStar {
		result.StarsFromBalloons = balloons / BalloonsPerStar
		balloons %= BalloonsPerStar
	}
	if err := repository.NewKidRepository(tx).SetBalloons(ctx, kid.ID, balloons); err != nil {
		return err
	}

	stars := repository.NewStarRepository(tx)
	for i := 0; i < result.StarsFromBalloons; i++ {
		if _, err := stars.CreateStar(ctx, kid.ID, day, models.StarBalloonConversion, conversionReason); err != nil {
			return err
		}
		if _, err := s.laps.Recompute(ctx, tx, kid.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *RewardService) awardDailyStarIfDone(ctx context.Context, tx *database.Tx, ledger *Ledger, kidID int64, today time.Time, result *models.CompleteResult) error {
	due, err := ledger.ListDueToday(ctx, kidID, today)
	if err != nil {
		return err
	}
	if !AllDone(due) {
		return nil
	}

	day := schedule.Day(today)
	stars := repository.NewStarRepository(tx)
	_, exists, err := stars.LatestStarOfType(ctx, kidID, models.StarDaily, day)
	if err != nil || exists {
		return err
	}

	if _, err := stars.CreateStar(ctx, kidID, day, models.StarDaily, dailyReason); err != nil {
		return err
	}
	result.DailyStarAwarded = true
	_, err = s.laps.Recompute(ctx, tx, kidID)
	return err
}

// UncheckChore reverses CompleteChore for today. When the kid has no balloons
// left, the completion is assumed to have just produced the most recent
// conversion star dated today; that star is revoked and BalloonsPerStar-1
// balloons are restored. The daily star is revoked once the due list is no
// longer fully done.
func (s *RewardService) UncheckChore(ctx context.Context, kidID, assignmentID int64) (*models.UncheckResult, error) {
	if err := utils.ValidateID("kidId", kidID); err != nil {
		return nil, err
	}
	if err := utils.ValidateID("assignmentId", assignmentID); err != nil {
		return nil, err
	}

	today := s.today()
	day := schedule.Day(today)
	result := &models.UncheckResult{}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		kid, err := lockKid(ctx, tx, kidID)
		if err != nil {
			return err
		}

		ledger := NewLedger(tx)
		removed, err := ledger.RemoveCompletion(ctx, assignmentID, kidID, today)
		if err != nil {
			return err
		}

		if !removed {
			result.WasNotComplete = true
		} else {
			if err := s.reverseBalloon(ctx, tx, kid, day, result); err != nil {
				return err
			}
			if err := s.revokeDailyStarIfUndone(ctx, tx, ledger, kidID, today, result); err != nil {
				return err
			}
		}

		kidStats, err := snapshot(ctx, tx, kidID)
		if err != nil {
			return err
		}
		result.Kid = kidStats.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.WasNotComplete {
		return result, nil
	}

	log.WithFields(log.Fields{
		"kid_id":                     kidID,
		"assignment_id":              assignmentID,
		"daily_star_revoked":         result.DailyStarRevoked,
		"star_from_balloons_revoked": result.StarFromBalloonsRevoked,
		"balloons":                   result.Kid.Balloons,
	}).Info("Chore unchecked")

	if s.observer != nil {
		s.observer.ChoreUnchecked()
		if result.StarFromBalloonsRevoked {
			s.observer.StarsRevoked(models.StarBalloonConversion, 1)
		}
		if result.DailyStarRevoked {
			s.observer.StarsRevoked(models.StarDaily, 1)
		}
	}

	return result, nil
}

func (s *RewardService) reverseBalloon(ctx context.Context, tx *database.Tx, kid *models.Kid, day string, result *models.UncheckResult) error {
	kids := repository.NewKidRepository(tx)
	if kid.Balloons > 0 {
		return kids.SetBalloons(ctx, kid.ID, kid.Balloons-1)
	}

	stars := repository.NewStarRepository(tx)
	starID, found, err := stars.LatestStarOfType(ctx, kid.ID, models.StarBalloonConversion, day)
	if err != nil || !found {
		return err
	}
	if _, err := stars.DeleteStar(ctx, starID); err != nil {
		return err
	}
	if err := kids.SetBalloons(ctx, kid.ID, BalloonsPerStar-1); err != nil {
		return err
	}
	result.StarFromBalloonsRevoked = true
	_, err = s.laps.Recompute(ctx, tx, kid.ID)
	return err
}

func (s *RewardService) revokeDailyStarIfUndone(ctx context.Context, tx *database.Tx, ledger *Ledger, kidID int64, today time.Time, result *models.UncheckResult) error {
	due, err := ledger.ListDueToday(ctx, kidID, today)
	if err != nil {
		return err
	}

	stars := repository.NewStarRepository(tx)
	starID, exists, err := stars.LatestStarOfType(ctx, kidID, models.StarDaily, schedule.Day(today))
	if err != nil || !exists || AllDone(due) {
		return err
	}

	if _, err := stars.DeleteStar(ctx, starID); err != nil {
		return err
	}
	result.DailyStarRevoked = true
	_, err = s.laps.Recompute(ctx, tx, kidID)
	return err
}

// ListDueToday returns the kid's snapshot and the chores due today
func (s *RewardService) ListDueToday(ctx context.Context, kidID int64) (*models.KidChores, error) {
	kid, err := snapshot(ctx, s.db, kidID)
	if err != nil {
		return nil, err
	}

	chores, err := NewLedger(s.db).ListDueToday(ctx, kidID, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to list chores: %w", err)
	}

	return &models.KidChores{Kid: *kid, Chores: chores}, nil
}

// ListStars returns the kid's star ledger, newest first
func (s *RewardService) ListStars(ctx context.Context, kidID int64) ([]models.Star, error) {
	kid, err := repository.NewKidRepository(s.db).GetKidByID(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if kid == nil {
		return nil, ErrKidNotFound
	}
	return repository.NewStarRepository(s.db).GetStarsForKid(ctx, kidID)
}

// AwardBonusStar adds a bonus star dated today
func (s *RewardService) AwardBonusStar(ctx context.Context, kidID int64, reason string) (*models.KidSnapshot, error) {
	var kidStats *models.KidWithStats
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := lockKid(ctx, tx, kidID); err != nil {
			return err
		}
		if _, err := repository.NewStarRepository(tx).CreateStar(ctx, kidID, schedule.Day(s.today()), models.StarBonus, strings.TrimSpace(reason)); err != nil {
			return err
		}
		if _, err := s.laps.Recompute(ctx, tx, kidID); err != nil {
			return err
		}
		var err error
		kidStats, err = snapshot(ctx, tx, kidID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"kid_id": kidID, "reason": reason}).Info("Bonus star awarded")
	if s.observer != nil {
		s.observer.StarsAwarded(models.StarBonus, 1)
	}
	s.notify(*kidStats, 1, reason)

	snap := kidStats.Snapshot()
	return &snap, nil
}

// DecrementBalloons removes up to count balloons, never going below zero,
// and returns the new balloon total.
func (s *RewardService) DecrementBalloons(ctx context.Context, kidID int64, count int) (int, error) {
	if err := utils.ValidatePositive("count", count); err != nil {
		return 0, err
	}

	var balloons int
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		kid, err := lockKid(ctx, tx, kidID)
		if err != nil {
			return err
		}
		balloons = kid.Balloons - count
		if balloons < 0 {
			balloons = 0
		}
		return repository.NewKidRepository(tx).SetBalloons(ctx, kidID, balloons)
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{"kid_id": kidID, "count": count, "balloons": balloons}).Info("Balloons decremented")
	return balloons, nil
}

// DecrementStars removes up to count stars, oldest award first, optionally
// restricted to one star type ("any" or empty means every type). It returns
// how many stars were removed.
func (s *RewardService) DecrementStars(ctx context.Context, kidID int64, count int, typeFilter string) (int, error) {
	if err := utils.ValidatePositive("count", count); err != nil {
		return 0, err
	}

	var starType models.StarType
	if filter := strings.ToLower(strings.TrimSpace(typeFilter)); filter != "" && filter != "any" {
		starType = models.StarType(filter)
		if !starType.Valid() {
			return 0, utils.ValidationError{Field: "type", Message: "type must be daily, bonus, balloon_conversion or any"}
		}
	}

	var removed []models.Star
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := lockKid(ctx, tx, kidID); err != nil {
			return err
		}

		stars := repository.NewStarRepository(tx)
		var err error
		removed, err = stars.OldestStars(ctx, kidID, starType, count)
		if err != nil {
			return err
		}
		if len(removed) == 0 {
			return ErrNoMatchingStars
		}

		ids := make([]int64, len(removed))
		for i, star := range removed {
			ids[i] = star.ID
		}
		if _, err := stars.DeleteStarsByID(ctx, ids); err != nil {
			return err
		}
		_, err = s.laps.Recompute(ctx, tx, kidID)
		return err
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{"kid_id": kidID, "removed": len(removed), "type": typeFilter}).Info("Stars decremented")
	if s.observer != nil {
		byType := make(map[models.StarType]int)
		for _, star := range removed {
			byType[star.Type]++
		}
		for t, n := range byType {
			s.observer.StarsRevoked(t, n)
		}
	}
	return len(removed), nil
}

// ResetDailyChores deletes today's completions and today's daily star
func (s *RewardService) ResetDailyChores(ctx context.Context, kidID int64) (*models.ResetResult, error) {
	day := schedule.Day(s.today())
	result := &models.ResetResult{}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := lockKid(ctx, tx, kidID); err != nil {
			return err
		}

		var err error
		result.CompletionsRemoved, err = repository.NewCompletionRepository(tx).DeleteCompletionsForDay(ctx, kidID, day)
		if err != nil {
			return err
		}

		revoked, err := repository.NewStarRepository(tx).DeleteStarsOfType(ctx, kidID, models.StarDaily, day)
		if err != nil {
			return err
		}
		if revoked > 0 {
			result.DailyStarRevoked = true
			if _, err := s.laps.Recompute(ctx, tx, kidID); err != nil {
				return err
			}
		}

		kidStats, err := snapshot(ctx, tx, kidID)
		if err != nil {
			return err
		}
		result.Kid = kidStats.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"kid_id":              kidID,
		"completions_removed": result.CompletionsRemoved,
		"daily_star_revoked":  result.DailyStarRevoked,
	}).Info("Daily chores reset")
	if s.observer != nil && result.DailyStarRevoked {
		s.observer.StarsRevoked(models.StarDaily, 1)
	}
	return result, nil
}

// ConfigureTrainTrack changes the kid's track length and recomputes laps
func (s *RewardService) ConfigureTrainTrack(ctx context.Context, kidID int64, length int) (*models.KidSnapshot, error) {
	if err := utils.ValidatePositive("train_track_length", length); err != nil {
		return nil, err
	}

	var kidStats *models.KidWithStats
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := lockKid(ctx, tx, kidID); err != nil {
			return err
		}
		if err := repository.NewKidRepository(tx).SetTrackLength(ctx, kidID, length); err != nil {
			return err
		}
		if _, err := s.laps.Recompute(ctx, tx, kidID); err != nil {
			return err
		}
		var err error
		kidStats, err = snapshot(ctx, tx, kidID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"kid_id": kidID, "train_track_length": length}).Info("Train track configured")
	snap := kidStats.Snapshot()
	return &snap, nil
}

// notify sends the parent notification in the background so the caller is
// not held up by the mail provider.
func (s *RewardService) notify(kid models.KidWithStats, earned int, reason string) {
	if s.notifier == nil || earned <= 0 {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyStarsEarned(ctx, kid, earned, reason); err != nil {
			log.WithError(err).WithField("kid_id", kid.ID).Warn("Failed to send star notification")
		}
	}()
}

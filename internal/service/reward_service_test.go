package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chorechart/internal/database"
	"chorechart/internal/models"
	"chorechart/internal/testutil"
	"chorechart/internal/utils"
)

type recordingObserver struct {
	mu        sync.Mutex
	completed int
	unchecked int
	awarded   map[models.StarType]int
	revoked   map[models.StarType]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{awarded: map[models.StarType]int{}, revoked: map[models.StarType]int{}}
}

func (o *recordingObserver) ChoreCompleted(balloons int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed++
}

func (o *recordingObserver) ChoreUnchecked() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unchecked++
}

func (o *recordingObserver) StarsAwarded(starType models.StarType, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.awarded[starType] += n
}

func (o *recordingObserver) StarsRevoked(starType models.StarType, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.revoked[starType] += n
}

type notification struct {
	kid    string
	earned int
	reason string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) NotifyStarsEarned(ctx context.Context, kid models.KidWithStats, earned int, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{kid: kid.Name, earned: earned, reason: reason})
	return nil
}

type rewardFixture struct {
	db       *database.DB
	clock    *testutil.Clock
	svc      *RewardService
	observer *recordingObserver
	notifier *recordingNotifier
	kidID    int64
}

func newRewardFixture(t *testing.T, trackLength int) *rewardFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	clock := testutil.NewClock(testutil.Monday)
	observer := newRecordingObserver()
	notifier := &recordingNotifier{}
	svc := NewRewardService(db,
		WithClock(clock.Now),
		WithLocation(time.UTC),
		WithObserver(observer),
		WithNotifier(notifier),
	)
	return &rewardFixture{
		db:       db,
		clock:    clock,
		svc:      svc,
		observer: observer,
		notifier: notifier,
		kidID:    testutil.CreateKid(t, db, "Ada", trackLength),
	}
}

// assign creates a chore and assigns it to the fixture kid
func (f *rewardFixture) assign(t *testing.T, name, frequency string) (assignmentID, choreID int64) {
	t.Helper()
	choreID = testutil.CreateChore(t, f.db, name)
	return testutil.Assign(t, f.db, f.kidID, choreID, frequency), choreID
}

func (f *rewardFixture) snapshot(t *testing.T) models.KidSnapshot {
	t.Helper()
	kid, err := snapshot(context.Background(), f.db, f.kidID)
	require.NoError(t, err)
	return kid.Snapshot()
}

func (f *rewardFixture) stars(t *testing.T, starType models.StarType) int {
	t.Helper()
	return testutil.CountRows(t, f.db, "stars", "kid_id = ? AND type = ?", f.kidID, string(starType))
}

func TestCompleteChoreAwardsOneBalloon(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	f.assign(t, "Laundry", "daily")

	result, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)

	assert.False(t, result.AlreadyComplete)
	assert.Equal(t, 1, result.BalloonsAwarded)
	assert.Zero(t, result.StarsFromBalloons)
	assert.False(t, result.DailyStarAwarded)
	assert.Equal(t, models.KidSnapshot{Balloons: 1, TrainTrackLength: 10}, result.Kid)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "chore_completions", "date_completed = ?", "2024-06-03"))
}

func TestCompleteChoreIsIdempotent(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")

	first, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)
	afterFirst := f.snapshot(t)

	second, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)

	assert.False(t, first.AlreadyComplete)
	assert.True(t, second.AlreadyComplete)
	assert.Zero(t, second.BalloonsAwarded)
	assert.Zero(t, second.StarsFromBalloons)
	assert.False(t, second.DailyStarAwarded)
	assert.Equal(t, afterFirst, second.Kid)
	assert.Equal(t, afterFirst, f.snapshot(t))
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "chore_completions", ""))
	assert.Equal(t, 1, f.observer.completed)
}

func TestBalloonConversion(t *testing.T) {
	f := newRewardFixture(t, 1)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	f.assign(t, "Laundry", "daily")
	testutil.SetBalloons(t, f.db, f.kidID, 9)

	result, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)

	assert.Equal(t, 1, result.StarsFromBalloons)
	assert.False(t, result.DailyStarAwarded)
	assert.Equal(t, 0, result.Kid.Balloons)
	assert.Equal(t, 1, result.Kid.StarsCount)
	assert.Equal(t, 1, result.Kid.TrainLapsCompleted, "laps recomputed after the conversion star")
	assert.Equal(t, 1, f.stars(t, models.StarBalloonConversion))
	assert.Equal(t, 1, f.observer.awarded[models.StarBalloonConversion])
}

func TestBalloonConversionCarriesRemainder(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	f.assign(t, "Laundry", "daily")
	testutil.SetBalloons(t, f.db, f.kidID, 24)

	result, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)

	assert.Equal(t, 2, result.StarsFromBalloons)
	assert.Equal(t, 5, result.Kid.Balloons)
	assert.Equal(t, 2, f.stars(t, models.StarBalloonConversion))
}

func TestDailyStarOnlyAfterLastDueChore(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	laundry, laundryChore := f.assign(t, "Laundry", "weekdays")
	// Not due on a Monday, so it must not block the daily star.
	f.assign(t, "Garden", "saturday")

	first, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)
	assert.False(t, first.DailyStarAwarded)
	assert.Zero(t, f.stars(t, models.StarDaily))

	second, err := f.svc.CompleteChore(ctx, f.kidID, laundry, laundryChore)
	require.NoError(t, err)
	assert.True(t, second.DailyStarAwarded)
	assert.Equal(t, 1, f.stars(t, models.StarDaily))
	assert.Equal(t, 1, second.Kid.StarsCount)

	again, err := f.svc.CompleteChore(ctx, f.kidID, laundry, laundryChore)
	require.NoError(t, err)
	assert.True(t, again.AlreadyComplete)
	assert.Equal(t, 1, f.stars(t, models.StarDaily))
}

func TestInactiveAssignmentsAreNeverDue(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	laundry, _ := f.assign(t, "Laundry", "daily")
	_, err := f.db.ExecContext(ctx, "UPDATE chore_assignments SET is_active = ? WHERE id = ?", false, laundry)
	require.NoError(t, err)

	chores, err := f.svc.ListDueToday(ctx, f.kidID)
	require.NoError(t, err)
	require.Len(t, chores.Chores, 1)
	assert.Equal(t, dishes, chores.Chores[0].AssignmentID)

	result, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)
	assert.True(t, result.DailyStarAwarded)
}

func TestUncheckIsInverseOfComplete(t *testing.T) {
	tests := []struct {
		name             string
		startBalloons    int
		trackLength      int
		extraDueChore    bool
		wantBalloonStar  bool
		wantDailyRevoked bool
	}{
		{name: "plain balloon", startBalloons: 3, trackLength: 10, extraDueChore: true},
		{name: "conversion star reversed", startBalloons: 9, trackLength: 1, extraDueChore: true, wantBalloonStar: true},
		{name: "daily star reversed", startBalloons: 3, trackLength: 1, wantDailyRevoked: true},
		{name: "conversion and daily star reversed", startBalloons: 9, trackLength: 1, wantBalloonStar: true, wantDailyRevoked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRewardFixture(t, tt.trackLength)
			ctx := context.Background()
			dishes, dishesChore := f.assign(t, "Dishes", "daily")
			if tt.extraDueChore {
				f.assign(t, "Laundry", "daily")
			}
			testutil.SetBalloons(t, f.db, f.kidID, tt.startBalloons)
			testutil.AddStar(t, f.db, f.kidID, "2024-05-01", "bonus")
			_, err := f.svc.laps.Recompute(ctx, f.db, f.kidID)
			require.NoError(t, err)
			before := f.snapshot(t)

			_, err = f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
			require.NoError(t, err)

			result, err := f.svc.UncheckChore(ctx, f.kidID, dishes)
			require.NoError(t, err)

			assert.False(t, result.WasNotComplete)
			assert.Equal(t, tt.wantBalloonStar, result.StarFromBalloonsRevoked)
			assert.Equal(t, tt.wantDailyRevoked, result.DailyStarRevoked)
			assert.Equal(t, before, result.Kid)
			assert.Equal(t, before, f.snapshot(t))
			assert.Zero(t, testutil.CountRows(t, f.db, "chore_completions", ""))
		})
	}
}

func TestUncheckWhenNotComplete(t *testing.T) {
	f := newRewardFixture(t, 10)
	dishes, _ := f.assign(t, "Dishes", "daily")
	testutil.SetBalloons(t, f.db, f.kidID, 4)

	result, err := f.svc.UncheckChore(context.Background(), f.kidID, dishes)
	require.NoError(t, err)
	assert.True(t, result.WasNotComplete)
	assert.Equal(t, 4, result.Kid.Balloons)
	assert.Zero(t, f.observer.unchecked)
}

func TestUncheckWithNoBalloonsAndNoConversionToday(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	f.assign(t, "Laundry", "daily")

	_, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)
	testutil.SetBalloons(t, f.db, f.kidID, 0)
	// A conversion from another day is never touched.
	testutil.AddStar(t, f.db, f.kidID, "2024-06-02", "balloon_conversion")

	result, err := f.svc.UncheckChore(ctx, f.kidID, dishes)
	require.NoError(t, err)
	assert.False(t, result.StarFromBalloonsRevoked)
	assert.Zero(t, result.Kid.Balloons)
	assert.Equal(t, 1, result.Kid.StarsCount)
}

func TestUncheckRevokesMostRecentConversionStar(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	f.assign(t, "Laundry", "daily")
	older := testutil.AddStar(t, f.db, f.kidID, "2024-06-03", "balloon_conversion")
	testutil.SetBalloons(t, f.db, f.kidID, 9)

	_, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)
	require.Equal(t, 2, f.stars(t, models.StarBalloonConversion))

	_, err = f.svc.UncheckChore(ctx, f.kidID, dishes)
	require.NoError(t, err)

	remaining := testutil.CountRows(t, f.db, "stars", "id = ?", older)
	assert.Equal(t, 1, remaining, "the older conversion star survives")
	assert.Equal(t, 1, f.observer.revoked[models.StarBalloonConversion])
}

func TestCompletionsAreScopedToTheDay(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")

	_, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)

	f.clock.AddDays(1)
	chores, err := f.svc.ListDueToday(ctx, f.kidID)
	require.NoError(t, err)
	require.Len(t, chores.Chores, 1)
	assert.False(t, chores.Chores[0].CompletedToday)

	result, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)
	assert.False(t, result.AlreadyComplete)
	assert.True(t, result.DailyStarAwarded)
	assert.Equal(t, 2, f.stars(t, models.StarDaily))
	assert.Equal(t, 2, result.Kid.Balloons)
}

func TestCompleteChoreErrors(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	otherKid := testutil.CreateKid(t, f.db, "Grace", 10)
	otherAssignment := testutil.Assign(t, f.db, otherKid, dishesChore, "daily")

	_, err := f.svc.CompleteChore(ctx, 999, dishes, dishesChore)
	assert.ErrorIs(t, err, ErrKidNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CompleteChore(ctx, f.kidID, otherAssignment, dishesChore)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)

	_, err = f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore+100)
	var verr utils.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = f.svc.CompleteChore(ctx, 0, dishes, dishesChore)
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "kidId", verr.Field)

	assert.Zero(t, testutil.CountRows(t, f.db, "chore_completions", ""))
}

func TestListDueToday(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	f.assign(t, "Garden", "weekends")
	monday, _ := f.assign(t, "Bins", "monday")

	_, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)

	chores, err := f.svc.ListDueToday(ctx, f.kidID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", chores.Kid.Name)
	require.Len(t, chores.Chores, 2)
	assert.Equal(t, dishes, chores.Chores[0].AssignmentID)
	assert.True(t, chores.Chores[0].CompletedToday)
	assert.Equal(t, monday, chores.Chores[1].AssignmentID)
	assert.False(t, chores.Chores[1].CompletedToday)

	_, err = f.svc.ListDueToday(ctx, 999)
	assert.ErrorIs(t, err, ErrKidNotFound)
}

func TestLapCounter(t *testing.T) {
	f := newRewardFixture(t, 5)
	ctx := context.Background()
	for i := 0; i < 11; i++ {
		testutil.AddStar(t, f.db, f.kidID, "2024-05-01", "bonus")
	}

	snap, err := f.svc.AwardBonusStar(ctx, f.kidID, "tidy room")
	require.NoError(t, err)
	assert.Equal(t, 12, snap.StarsCount)
	assert.Equal(t, 2, snap.TrainLapsCompleted)

	_, err = f.db.ExecContext(ctx, "UPDATE kids SET train_track_length = 0 WHERE id = ?", f.kidID)
	require.NoError(t, err)
	snap, err = f.svc.AwardBonusStar(ctx, f.kidID, "")
	require.NoError(t, err)
	assert.Equal(t, 13, snap.StarsCount)
	assert.Equal(t, 2, snap.TrainLapsCompleted, "zero track leaves laps unchanged")
}

func TestAwardBonusStarNotifiesParent(t *testing.T) {
	f := newRewardFixture(t, 10)

	_, err := f.svc.AwardBonusStar(context.Background(), f.kidID, "helped with groceries")
	require.NoError(t, err)
	f.svc.Wait()

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification{kid: "Ada", earned: 1, reason: "helped with groceries"}, f.notifier.sent[0])
	assert.Equal(t, 1, f.observer.awarded[models.StarBonus])

	_, err = f.svc.AwardBonusStar(context.Background(), 999, "")
	assert.ErrorIs(t, err, ErrKidNotFound)
}

func TestDecrementBalloons(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	testutil.SetBalloons(t, f.db, f.kidID, 5)

	balloons, err := f.svc.DecrementBalloons(ctx, f.kidID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, balloons)

	balloons, err = f.svc.DecrementBalloons(ctx, f.kidID, 10)
	require.NoError(t, err)
	assert.Zero(t, balloons, "floors at zero")

	_, err = f.svc.DecrementBalloons(ctx, f.kidID, 0)
	var verr utils.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = f.svc.DecrementBalloons(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrKidNotFound)
}

func TestDecrementStarsOldestFirst(t *testing.T) {
	f := newRewardFixture(t, 2)
	ctx := context.Background()
	newest := testutil.AddStar(t, f.db, f.kidID, "2024-06-03", "daily")
	oldestA := testutil.AddStar(t, f.db, f.kidID, "2024-06-01", "bonus")
	oldestB := testutil.AddStar(t, f.db, f.kidID, "2024-06-01", "balloon_conversion")
	middle := testutil.AddStar(t, f.db, f.kidID, "2024-06-02", "bonus")

	removed, err := f.svc.DecrementStars(ctx, f.kidID, 2, "any")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Zero(t, testutil.CountRows(t, f.db, "stars", "id IN (?, ?)", oldestA, oldestB))
	assert.Equal(t, 2, testutil.CountRows(t, f.db, "stars", "id IN (?, ?)", middle, newest))
	assert.Equal(t, 1, f.snapshot(t).TrainLapsCompleted)

	removed, err = f.svc.DecrementStars(ctx, f.kidID, 5, "bonus")
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "never removes more than available")

	_, err = f.svc.DecrementStars(ctx, f.kidID, 1, "bonus")
	assert.ErrorIs(t, err, ErrNoMatchingStars)

	removed, err = f.svc.DecrementStars(ctx, f.kidID, 3, "")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Zero(t, f.snapshot(t).TrainLapsCompleted)

	assert.Equal(t, 1, f.observer.revoked[models.StarDaily])
	assert.Equal(t, 2, f.observer.revoked[models.StarBonus])
	assert.Equal(t, 1, f.observer.revoked[models.StarBalloonConversion])
}

func TestDecrementStarsValidation(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	testutil.AddStar(t, f.db, f.kidID, "2024-06-03", "bonus")

	var verr utils.ValidationError
	_, err := f.svc.DecrementStars(ctx, f.kidID, 0, "any")
	assert.True(t, errors.As(err, &verr))

	_, err = f.svc.DecrementStars(ctx, f.kidID, 1, "gold")
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "type", verr.Field)

	_, err = f.svc.DecrementStars(ctx, 999, 1, "any")
	assert.ErrorIs(t, err, ErrKidNotFound)
}

func TestResetDailyChores(t *testing.T) {
	f := newRewardFixture(t, 1)
	ctx := context.Background()
	dishes, dishesChore := f.assign(t, "Dishes", "daily")
	testutil.AddStar(t, f.db, f.kidID, "2024-06-02", "daily")

	_, err := f.svc.CompleteChore(ctx, f.kidID, dishes, dishesChore)
	require.NoError(t, err)
	require.Equal(t, 2, f.stars(t, models.StarDaily))

	result, err := f.svc.ResetDailyChores(ctx, f.kidID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CompletionsRemoved)
	assert.True(t, result.DailyStarRevoked)
	assert.Equal(t, 1, result.Kid.Balloons, "balloons are not reset")
	assert.Equal(t, 1, result.Kid.StarsCount, "yesterday's daily star survives")
	assert.Equal(t, 1, result.Kid.TrainLapsCompleted)

	again, err := f.svc.ResetDailyChores(ctx, f.kidID)
	require.NoError(t, err)
	assert.Zero(t, again.CompletionsRemoved)
	assert.False(t, again.DailyStarRevoked)
}

func TestConfigureTrainTrack(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		testutil.AddStar(t, f.db, f.kidID, "2024-05-01", "bonus")
	}

	snap, err := f.svc.ConfigureTrainTrack(ctx, f.kidID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.TrainTrackLength)
	assert.Equal(t, 2, snap.TrainLapsCompleted)

	_, err = f.svc.ConfigureTrainTrack(ctx, f.kidID, 0)
	var verr utils.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 5, f.snapshot(t).TrainTrackLength)
}

func TestListStars(t *testing.T) {
	f := newRewardFixture(t, 10)
	testutil.AddStar(t, f.db, f.kidID, "2024-06-01", "bonus")
	latest := testutil.AddStar(t, f.db, f.kidID, "2024-06-03", "daily")

	stars, err := f.svc.ListStars(context.Background(), f.kidID)
	require.NoError(t, err)
	require.Len(t, stars, 2)
	assert.Equal(t, latest, stars[0].ID)

	_, err = f.svc.ListStars(context.Background(), 999)
	assert.ErrorIs(t, err, ErrKidNotFound)
}

func TestConcurrentCompletionsForOneKid(t *testing.T) {
	f := newRewardFixture(t, 10)
	ctx := context.Background()

	type pair struct{ assignment, chore int64 }
	var pairs []pair
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		a, c := f.assign(t, "Chore "+name, "daily")
		pairs = append(pairs, pair{a, c})
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(pairs)*2)
	for _, p := range pairs {
		// Each chore is submitted twice to race the idempotence check as well.
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(p pair) {
				defer wg.Done()
				if _, err := f.svc.CompleteChore(ctx, f.kidID, p.assignment, p.chore); err != nil {
					errs <- err
				}
			}(p)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("CompleteChore: %v", err)
	}

	snap := f.snapshot(t)
	assert.Equal(t, 0, snap.Balloons)
	assert.Equal(t, 1, f.stars(t, models.StarBalloonConversion))
	assert.Equal(t, 1, f.stars(t, models.StarDaily))
	assert.Equal(t, 2, snap.StarsCount)
	assert.Equal(t, 10, testutil.CountRows(t, f.db, "chore_completions", ""))
}

package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chorechart/internal/database"
	"chorechart/internal/models"
	"chorechart/internal/repository"
	"chorechart/internal/testutil"
)

func TestKidRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewKidRepository(db)

	kid, err := repo.CreateKid(ctx, "Ada", "#336699", 5)
	require.NoError(t, err)
	assert.Equal(t, "Ada", kid.Name)
	assert.Equal(t, 5, kid.TrainTrackLength)
	assert.Zero(t, kid.Balloons)

	require.NoError(t, repo.SetBalloons(ctx, kid.ID, 7))
	require.NoError(t, repo.SetLaps(ctx, kid.ID, 2))
	testutil.AddStar(t, db, kid.ID, "2024-06-03", "bonus")

	stats, err := repo.GetKidWithStats(ctx, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KidSnapshot{Balloons: 7, TrainTrackLength: 5, TrainLapsCompleted: 2, StarsCount: 1}, stats.Snapshot())

	updated, err := repo.UpdateKid(ctx, kid.ID, "Ada L", 8)
	require.NoError(t, err)
	assert.True(t, updated)

	all, err := repo.GetAllKids(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ada L", all[0].Name)
	assert.Equal(t, 1, all[0].StarsCount)

	missing, err := repo.GetKidByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.DeleteKid(ctx, kid.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Zero(t, testutil.CountRows(t, db, "stars", ""))
}

func TestLockKidInsideTransaction(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	kidID := testutil.CreateKid(t, db, "Ada", 10)

	err := db.WithTx(ctx, func(tx *database.Tx) error {
		kid, err := repository.NewKidRepository(tx).LockKid(ctx, kidID)
		require.NoError(t, err)
		require.NotNil(t, kid)
		assert.Equal(t, kidID, kid.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestLockKidUsesForUpdateOnPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := database.Wrap(sqlDB, database.NewPostgresDialect())

	rows := sqlmock.NewRows([]string{"id", "name", "avatar_color", "balloons", "train_track_length", "train_laps_completed", "created_at"}).
		AddRow(3, "Ada", "", 4, 10, 0, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM kids WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	kid, err := repository.NewKidRepository(db).LockKid(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 4, kid.Balloons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewAssignmentRepository(db)
	kidID := testutil.CreateKid(t, db, "Ada", 10)
	choreID := testutil.CreateChore(t, db, "Feed the cat")

	id, err := repo.CreateAssignment(ctx, kidID, choreID, "daily")
	require.NoError(t, err)

	exists, err := repo.AssignmentExists(ctx, kidID, choreID, "daily")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.AssignmentExists(ctx, kidID, choreID, "weekends")
	require.NoError(t, err)
	assert.False(t, exists)

	active, err := repo.GetActiveAssignmentsForKid(ctx, kidID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Feed the cat", active[0].ChoreName)

	ok, err := repo.SetActive(ctx, id, false)
	require.NoError(t, err)
	assert.True(t, ok)

	active, err = repo.GetActiveAssignmentsForKid(ctx, kidID)
	require.NoError(t, err)
	assert.Empty(t, active)

	a, err := repo.GetAssignmentByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, a.IsActive)

	details, err := repo.GetAllAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Ada", details[0].KidName)
}

func TestDeletingAssignmentRemovesItsCompletions(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	kidID := testutil.CreateKid(t, db, "Ada", 10)
	choreID := testutil.CreateChore(t, db, "Dishes")
	assignmentID := testutil.Assign(t, db, kidID, choreID, "daily")

	completions := repository.NewCompletionRepository(db)
	_, err := completions.CreateCompletion(ctx, assignmentID, kidID, choreID, "2024-06-03")
	require.NoError(t, err)

	deleted, err := repository.NewAssignmentRepository(db).DeleteAssignment(ctx, assignmentID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Zero(t, testutil.CountRows(t, db, "chore_completions", ""))
}

func TestCompletionRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewCompletionRepository(db)
	kidID := testutil.CreateKid(t, db, "Ada", 10)
	choreID := testutil.CreateChore(t, db, "Dishes")
	assignmentID := testutil.Assign(t, db, kidID, choreID, "daily")

	_, found, err := repo.FindCompletion(ctx, assignmentID, kidID, "2024-06-03")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := repo.CreateCompletion(ctx, assignmentID, kidID, choreID, "2024-06-03")
	require.NoError(t, err)

	gotID, found, err := repo.FindCompletion(ctx, assignmentID, kidID, "2024-06-03")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, gotID)

	_, err = repo.CreateCompletion(ctx, assignmentID, kidID, choreID, "2024-06-03")
	assert.Error(t, err, "second completion on the same day must violate the unique key")

	done, err := repo.CompletedAssignmentIDs(ctx, kidID, "2024-06-03")
	require.NoError(t, err)
	assert.True(t, done[assignmentID])

	done, err = repo.CompletedAssignmentIDs(ctx, kidID, "2024-06-04")
	require.NoError(t, err)
	assert.Empty(t, done)

	removed, err := repo.DeleteCompletion(ctx, assignmentID, kidID, "2024-06-03")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteCompletion(ctx, assignmentID, kidID, "2024-06-03")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStarRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewStarRepository(db)
	kidID := testutil.CreateKid(t, db, "Ada", 10)

	bonusOld, err := repo.CreateStar(ctx, kidID, "2024-06-01", models.StarBonus, "helped")
	require.NoError(t, err)
	daily, err := repo.CreateStar(ctx, kidID, "2024-06-02", models.StarDaily, "")
	require.NoError(t, err)
	bonusNew, err := repo.CreateStar(ctx, kidID, "2024-06-03", models.StarBonus, "")
	require.NoError(t, err)
	conv1, err := repo.CreateStar(ctx, kidID, "2024-06-03", models.StarBalloonConversion, "")
	require.NoError(t, err)
	conv2, err := repo.CreateStar(ctx, kidID, "2024-06-03", models.StarBalloonConversion, "")
	require.NoError(t, err)

	count, err := repo.CountStars(ctx, kidID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	latest, found, err := repo.LatestStarOfType(ctx, kidID, models.StarBalloonConversion, "2024-06-03")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, conv2, latest)

	_, found, err = repo.LatestStarOfType(ctx, kidID, models.StarDaily, "2024-06-03")
	require.NoError(t, err)
	assert.False(t, found)

	oldest, err := repo.OldestStars(ctx, kidID, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{bonusOld, daily}, starIDs(oldest))
	assert.Equal(t, models.StarDaily, oldest[1].Type)

	oldest, err = repo.OldestStars(ctx, kidID, models.StarBonus, 10)
	require.NoError(t, err)
	ids := starIDs(oldest)
	assert.Equal(t, []int64{bonusOld, bonusNew}, ids)

	removed, err := repo.DeleteStarsByID(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	stars, err := repo.GetStarsForKid(ctx, kidID)
	require.NoError(t, err)
	require.Len(t, stars, 3)
	assert.Equal(t, conv2, stars[0].ID)
	assert.Equal(t, conv1, stars[1].ID)

	n, err := repo.DeleteStarsOfType(ctx, kidID, models.StarDaily, "2024-06-02")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func starIDs(stars []models.Star) []int64 {
	ids := make([]int64, len(stars))
	for i, s := range stars {
		ids[i] = s.ID
	}
	return ids
}

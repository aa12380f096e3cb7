package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chorechart/internal/models"
	"chorechart/internal/testutil"
)

func TestAllDone(t *testing.T) {
	tests := []struct {
		name string
		due  []models.DueChore
		want bool
	}{
		{name: "nothing due", due: nil, want: false},
		{name: "one open", due: []models.DueChore{{CompletedToday: true}, {CompletedToday: false}}, want: false},
		{name: "all complete", due: []models.DueChore{{CompletedToday: true}, {CompletedToday: true}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllDone(tt.due))
		})
	}
}

func TestLedgerRecordAndRemove(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	kidID := testutil.CreateKid(t, db, "Ada", 10)
	choreID := testutil.CreateChore(t, db, "Dishes")
	assignmentID := testutil.Assign(t, db, kidID, choreID, "daily")
	ledger := NewLedger(db)
	monday := testutil.Monday

	id, already, err := ledger.RecordCompletion(ctx, assignmentID, kidID, choreID, monday)
	require.NoError(t, err)
	assert.False(t, already)

	again, already, err := ledger.RecordCompletion(ctx, assignmentID, kidID, choreID, monday)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, testutil.CountRows(t, db, "chore_completions", ""))

	due, err := ledger.ListDueToday(ctx, kidID, monday)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.True(t, due[0].CompletedToday)
	assert.True(t, AllDone(due))

	removed, err := ledger.RemoveCompletion(ctx, assignmentID, kidID, monday)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = ledger.RemoveCompletion(ctx, assignmentID, kidID, monday)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLedgerListDueTodayFollowsWeekday(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	kidID := testutil.CreateKid(t, db, "Ada", 10)
	weekdays := testutil.Assign(t, db, kidID, testutil.CreateChore(t, db, "School bag"), "weekdays")
	weekends := testutil.Assign(t, db, kidID, testutil.CreateChore(t, db, "Garden"), "weekends")
	ledger := NewLedger(db)

	due, err := ledger.ListDueToday(ctx, kidID, testutil.Monday)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, weekdays, due[0].AssignmentID)

	saturday := testutil.Monday.AddDate(0, 0, 5)
	due, err = ledger.ListDueToday(ctx, kidID, saturday)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, weekends, due[0].AssignmentID)
}

package service

import (
	"context"
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGoalTest(t *testing.T) (*GoalService, *store.Store) {
	t.Helper()

	s := newTestStore(t)
	return NewGoalService(s, validation.New(), testLogger()), s
}

func TestGoalService_SetAndGet(t *testing.T) {
	goals, _ := setupGoalTest(t)
	ctx := context.Background()

	goal, err := goals.Set(ctx, "user-1", 2026, SetGoalRequest{TargetBooks: 24, TargetPages: 8000})
	require.NoError(t, err)
	assert.Equal(t, 24, goal.TargetBooks)
	assert.Equal(t, 0, goal.CurrentBooks)

	got, err := goals.Get(ctx, "user-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 8000, got.TargetPages)
}

func TestGoalService_GetMissing(t *testing.T) {
	goals, _ := setupGoalTest(t)

	_, err := goals.Get(context.Background(), "user-1", 2026)
	require.ErrorIs(t, err, store.ErrReadingGoalNotFound)
}

func TestGoalService_RevisePreservesProgress(t *testing.T) {
	goals, s := setupGoalTest(t)
	ctx := context.Background()

	_, err := goals.Set(ctx, "user-1", 2026, SetGoalRequest{TargetBooks: 24})
	require.NoError(t, err)

	// Simulate finished books
	goal, err := s.GetReadingGoal(ctx, "user-1", 2026)
	require.NoError(t, err)
	goal.RecordFinishedBook(300)
	goal.RecordFinishedBook(250)
	require.NoError(t, s.UpsertReadingGoal(ctx, goal))

	revised, err := goals.Set(ctx, "user-1", 2026, SetGoalRequest{TargetBooks: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, revised.TargetBooks)
	assert.Equal(t, 2, revised.CurrentBooks)
	assert.Equal(t, 550, revised.CurrentPages)
}

func TestGoalService_Validation(t *testing.T) {
	goals, _ := setupGoalTest(t)
	ctx := context.Background()

	_, err := goals.Set(ctx, "user-1", 2026, SetGoalRequest{TargetBooks: 0})
	require.Error(t, err)

	_, err = goals.Set(ctx, "user-1", 12026, SetGoalRequest{TargetBooks: 10})
	require.Error(t, err)

	_, err = goals.Get(ctx, "user-1", -5)
	require.Error(t, err)
}

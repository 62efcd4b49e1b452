package store_test

import (
	"context"
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingGoalUpsert(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := s.GetReadingGoal(ctx, "user-123", 2026)
	assert.ErrorIs(t, err, store.ErrReadingGoalNotFound)

	goal := domain.NewReadingGoal("user-123", 2026, 24, 8000)
	require.NoError(t, s.UpsertReadingGoal(ctx, goal))

	retrieved, err := s.GetReadingGoal(ctx, "user-123", 2026)
	require.NoError(t, err)
	assert.Equal(t, 24, retrieved.TargetBooks)
	assert.Equal(t, 0, retrieved.CurrentBooks)

	// Progress bump is an upsert on the same (user, year) row
	retrieved.RecordFinishedBook(320)
	require.NoError(t, s.UpsertReadingGoal(ctx, retrieved))

	retrieved, err = s.GetReadingGoal(ctx, "user-123", 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, retrieved.CurrentBooks)
	assert.Equal(t, 320, retrieved.CurrentPages)

	// Different year is a different row
	_, err = s.GetReadingGoal(ctx, "user-123", 2025)
	assert.ErrorIs(t, err, store.ErrReadingGoalNotFound)
}

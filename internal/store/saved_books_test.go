package store_test

import (
	"context"
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedBookCRUD(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	sb := domain.NewSavedBook("user-123", domain.Book{
		ID:      "book-456",
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
	}, domain.StatusWantToRead)

	// Create
	err := s.UpsertSavedBook(ctx, sb)
	require.NoError(t, err)

	// Read
	retrieved, err := s.GetSavedBook(ctx, "user-123", "book-456")
	require.NoError(t, err)
	assert.Equal(t, "Dune", retrieved.Book.Title)
	assert.Equal(t, domain.StatusWantToRead, retrieved.Status)
	assert.False(t, retrieved.IsRead)

	// Update (upsert semantics - same key overwrites)
	rating := 5
	retrieved.SetStatus(domain.StatusRead)
	retrieved.UserRating = &rating
	err = s.UpsertSavedBook(ctx, retrieved)
	require.NoError(t, err)

	retrieved, err = s.GetSavedBook(ctx, "user-123", "book-456")
	require.NoError(t, err)
	assert.True(t, retrieved.IsRead)
	assert.Equal(t, 100, retrieved.ReadingProgress)
	require.NotNil(t, retrieved.UserRating)
	assert.Equal(t, 5, *retrieved.UserRating)
	require.NotNil(t, retrieved.ReadAt)

	// Delete
	err = s.DeleteSavedBook(ctx, "user-123", "book-456")
	require.NoError(t, err)

	_, err = s.GetSavedBook(ctx, "user-123", "book-456")
	assert.ErrorIs(t, err, store.ErrSavedBookNotFound)

	// Delete again is idempotent
	assert.NoError(t, s.DeleteSavedBook(ctx, "user-123", "book-456"))
}

func TestListSavedBooks_ScopedToUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for _, bookID := range []string{"book-1", "book-2", "book-3"} {
		sb := domain.NewSavedBook("user-123", domain.Book{ID: bookID, Title: bookID}, domain.StatusWantToRead)
		require.NoError(t, s.UpsertSavedBook(ctx, sb))
	}

	// Another user's book must not leak into the listing
	other := domain.NewSavedBook("user-other", domain.Book{ID: "book-1", Title: "book-1"}, domain.StatusRead)
	require.NoError(t, s.UpsertSavedBook(ctx, other))

	books, err := s.ListSavedBooks(ctx, "user-123")
	require.NoError(t, err)
	assert.Len(t, books, 3)

	books, err = s.ListSavedBooks(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestUpsertSavedBook_LastWriteWins(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first := domain.NewSavedBook("user-123", domain.Book{ID: "book-1", Title: "First"}, domain.StatusWantToRead)
	require.NoError(t, s.UpsertSavedBook(ctx, first))

	second := domain.NewSavedBook("user-123", domain.Book{ID: "book-1", Title: "Second"}, domain.StatusCurrentlyReading)
	second.Notes = "halfway through"
	require.NoError(t, s.UpsertSavedBook(ctx, second))

	retrieved, err := s.GetSavedBook(ctx, "user-123", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Second", retrieved.Book.Title)
	assert.Equal(t, domain.StatusCurrentlyReading, retrieved.Status)
	assert.Equal(t, "halfway through", retrieved.Notes)

	// Only one row for the key
	books, err := s.ListSavedBooks(ctx, "user-123")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

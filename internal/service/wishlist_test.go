package service

import (
	"context"
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWishlistTest(t *testing.T) (*WishlistService, *store.Store) {
	t.Helper()

	s := newTestStore(t)
	return NewWishlistService(s, validation.New(), testLogger()), s
}

func TestWishlistService_AddAndList(t *testing.T) {
	wishlist, _ := setupWishlistTest(t)
	ctx := context.Background()

	item, err := wishlist.Add(ctx, "user-1", AddToWishlistRequest{
		Book:     testBook("b1", "Dune"),
		Comments: "recommended by a friend",
		Priority: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "recommended by a friend", item.Comments)

	items, err := wishlist.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Other users see nothing
	items, err = wishlist.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistService_Update(t *testing.T) {
	wishlist, _ := setupWishlistTest(t)
	ctx := context.Background()

	_, err := wishlist.Add(ctx, "user-1", AddToWishlistRequest{Book: testBook("b1", "Dune")})
	require.NoError(t, err)

	priority := 5
	item, err := wishlist.Update(ctx, "user-1", "b1", UpdateWishlistItemRequest{Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Priority)

	_, err = wishlist.Update(ctx, "user-1", "missing", UpdateWishlistItemRequest{Priority: &priority})
	require.ErrorIs(t, err, store.ErrWishlistItemNotFound)
}

func TestWishlistService_MoveToLibrary(t *testing.T) {
	wishlist, s := setupWishlistTest(t)
	ctx := context.Background()

	rating := 4
	_, err := wishlist.Add(ctx, "user-1", AddToWishlistRequest{
		Book:       testBook("b1", "Dune"),
		UserRating: &rating,
		Comments:   "heard great things",
		Tags:       []string{"classic"},
	})
	require.NoError(t, err)

	sb, err := wishlist.MoveToLibrary(ctx, "user-1", "b1", MoveToLibraryRequest{Status: "currently_reading"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCurrentlyReading, sb.Status)

	// Ratings, comments and tags carry over
	require.NotNil(t, sb.UserRating)
	assert.Equal(t, 4, *sb.UserRating)
	assert.Equal(t, "heard great things", sb.Notes)
	assert.Equal(t, []string{"classic"}, sb.Tags)

	// Wishlist entry is gone, library entry exists
	items, err := wishlist.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	saved, err := s.GetSavedBook(ctx, "user-1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", saved.Book.Title)
}

func TestWishlistService_MoveMissingLeavesLibraryUntouched(t *testing.T) {
	wishlist, s := setupWishlistTest(t)
	ctx := context.Background()

	_, err := wishlist.MoveToLibrary(ctx, "user-1", "missing", MoveToLibraryRequest{})
	require.ErrorIs(t, err, store.ErrWishlistItemNotFound)

	_, err = s.GetSavedBook(ctx, "user-1", "missing")
	require.ErrorIs(t, err, store.ErrSavedBookNotFound)
}

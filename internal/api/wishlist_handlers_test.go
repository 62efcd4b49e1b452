package api

import (
	"net/http"
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListWishlist(t *testing.T) {
	ts := newTestServer(t, "")
	auth := setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/wishlist", auth, map[string]any{
		"book":     bookBody("b1", "Dune"),
		"comments": "recommended by a friend",
		"priority": 2,
		"tags":     []string{"scifi"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var item testEnvelope[domain.WishlistItem]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &item))
	assert.Equal(t, "Dune", item.Data.Book.Title)
	assert.Equal(t, "recommended by a friend", item.Data.Comments)
	assert.Equal(t, 2, item.Data.Priority)

	resp = ts.api.Get("/api/v1/wishlist", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[WishlistResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Data.Total)
}

func TestAddToWishlist_OverwritesExisting(t *testing.T) {
	ts := newTestServer(t, "")
	auth := setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/wishlist", auth, map[string]any{
		"book": bookBody("b1", "Dune"), "priority": 1,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/wishlist", auth, map[string]any{
		"book": bookBody("b1", "Dune"), "priority": 5,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/wishlist", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[WishlistResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &list))
	require.Equal(t, 1, list.Data.Total)
	assert.Equal(t, 5, list.Data.Items[0].Priority)
}

func TestUpdateWishlistItem(t *testing.T) {
	ts := newTestServer(t, "")
	auth := setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/wishlist", auth, map[string]any{
		"book": bookBody("b1", "Dune"),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/wishlist/b1", auth, map[string]any{
		"user_rating": 4,
		"comments":    "heard great things",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var item testEnvelope[domain.WishlistItem]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &item))
	require.NotNil(t, item.Data.UserRating)
	assert.Equal(t, 4, *item.Data.UserRating)
	assert.Equal(t, "heard great things", item.Data.Comments)
}

func TestUpdateWishlistItem_NotFound(t *testing.T) {
	ts := newTestServer(t, "")
	auth := setupAndLogin(t, ts)

	resp := ts.api.Patch("/api/v1/wishlist/missing", auth, map[string]any{
		"user_rating": 4,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRemoveFromWishlist(t *testing.T) {
	ts := newTestServer(t, "")
	auth := setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/wishlist", auth, map[string]any{
		"book": bookBody("b1", "Dune"),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/wishlist/b1", auth)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/wishlist", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[WishlistResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Data.Total)
}

func TestMoveToLibrary(t *testing.T) {
	ts := newTestServer(t, "")
	auth := setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/wishlist", auth, map[string]any{
		"book":        bookBody("b1", "Dune"),
		"user_rating": 4,
		"comments":    "birthday gift idea",
		"tags":        []string{"scifi"},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/wishlist/b1/move", auth, map[string]any{
		"status": "currently_reading",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var saved testEnvelope[domain.SavedBook]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &saved))
	assert.Equal(t, domain.StatusCurrentlyReading, saved.Data.Status)
	require.NotNil(t, saved.Data.UserRating)
	assert.Equal(t, 4, *saved.Data.UserRating)
	assert.Equal(t, "birthday gift idea", saved.Data.Notes)
	assert.Equal(t, []string{"scifi"}, saved.Data.Tags)

	// The wishlist entry is gone and the book is in the library
	resp = ts.api.Get("/api/v1/wishlist", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[WishlistResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Data.Total)

	resp = ts.api.Get("/api/v1/library/b1", auth)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMoveToLibrary_NotOnWishlist(t *testing.T) {
	ts := newTestServer(t, "")
	auth := setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/wishlist/missing/move", auth, map[string]any{
		"status": "read",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

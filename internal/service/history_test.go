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

func setupHistoryTest(t *testing.T) (*HistoryService, *store.Store) {
	t.Helper()

	s := newTestStore(t)
	return NewHistoryService(s, validation.New(), testLogger()), s
}

func seedSearchRecord(t *testing.T, s *store.Store, userID, searchID, query string) {
	t.Helper()

	record := domain.NewSearchRecord(searchID, userID, query, 3, domain.SearchMetadata{})
	require.NoError(t, s.CreateSearchRecord(context.Background(), record))
}

func TestHistoryService_RecordClick(t *testing.T) {
	history, s := setupHistoryTest(t)
	ctx := context.Background()

	seedSearchRecord(t, s, "user-1", "search-abc", "space opera")

	err := history.RecordClick(ctx, "user-1", "search-abc", ClickRequest{
		BookID:     "b1",
		Title:      "Dune",
		Authors:    []string{"Frank Herbert"},
		Categories: []string{"Science Fiction"},
		Rating:     4.3,
	})
	require.NoError(t, err)

	record, err := s.GetSearchRecord(ctx, "user-1", "search-abc")
	require.NoError(t, err)
	require.Len(t, record.ClickedBooks, 1)
	assert.Equal(t, "b1", record.ClickedBooks[0].BookID)
	assert.Equal(t, []string{"Frank Herbert"}, record.ClickedBooks[0].Authors)
	assert.Equal(t, []string{"Science Fiction"}, record.ClickedBooks[0].Categories)
	assert.InDelta(t, 4.3, record.ClickedBooks[0].Rating, 0.0001)
	assert.False(t, record.ClickedBooks[0].ClickedAt.IsZero())

	// Clicks are append-only
	err = history.RecordClick(ctx, "user-1", "search-abc", ClickRequest{BookID: "b2", Title: "Hyperion"})
	require.NoError(t, err)

	record, err = s.GetSearchRecord(ctx, "user-1", "search-abc")
	require.NoError(t, err)
	assert.Len(t, record.ClickedBooks, 2)
}

func TestHistoryService_ClickWithoutSearchIDIsNoop(t *testing.T) {
	history, _ := setupHistoryTest(t)

	err := history.RecordClick(context.Background(), "user-1", "", ClickRequest{BookID: "b1", Title: "Dune"})
	require.NoError(t, err)
}

func TestHistoryService_ClickForUnknownSearchIsNoop(t *testing.T) {
	history, _ := setupHistoryTest(t)

	err := history.RecordClick(context.Background(), "user-1", "search-nope", ClickRequest{BookID: "b1", Title: "Dune"})
	require.NoError(t, err)
}

func TestHistoryService_ClickScopedToOwner(t *testing.T) {
	history, s := setupHistoryTest(t)
	ctx := context.Background()

	seedSearchRecord(t, s, "user-1", "search-abc", "space opera")

	// Another user clicking with this search ID hits nothing
	err := history.RecordClick(ctx, "user-2", "search-abc", ClickRequest{BookID: "b1", Title: "Dune"})
	require.NoError(t, err)

	record, err := s.GetSearchRecord(ctx, "user-1", "search-abc")
	require.NoError(t, err)
	assert.Empty(t, record.ClickedBooks)
}

func TestHistoryService_ListAndRecentQueries(t *testing.T) {
	history, s := setupHistoryTest(t)
	ctx := context.Background()

	seedSearchRecord(t, s, "user-1", "search-1", "first query")
	seedSearchRecord(t, s, "user-1", "search-2", "second query")

	records, err := history.List(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	queries, err := history.RecentQueries(ctx, "user-1", 1)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "second query", queries[0])
}

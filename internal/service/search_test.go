package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/discovery"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookOKBody = `{
	"success": true,
	"results": [
		{"id": "b1", "title": "Dune", "authors": ["Frank Herbert"]},
		{"id": "b2", "title": "Hyperion", "authors": ["Dan Simmons"]}
	],
	"totalResults": 2,
	"processingTime": "0.8s"
}`

func setupSearchTest(t *testing.T, handler http.Handler) (*SearchService, *store.Store) {
	t.Helper()

	s := newTestStore(t)

	webhookURL := ""
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		webhookURL = srv.URL
	}

	catalog := discovery.NewCatalog("", testLogger())
	t.Cleanup(func() { _ = catalog.Close() })

	client := discovery.New(webhookURL, catalog, testLogger())
	t.Cleanup(client.Close)

	return NewSearchService(s, client, validation.New(), testLogger()), s
}

func TestSearchService_RecordsHistory(t *testing.T) {
	svc, s := setupSearchTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(webhookOKBody))
	}))
	ctx := context.Background()

	resp, err := svc.Search(ctx, "user-1", SearchRequest{Query: "epic sci-fi", Mood: "adventurous"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SearchID)
	assert.Len(t, resp.Books, 2)
	assert.False(t, resp.Fallback)
	assert.False(t, resp.Stale)

	record, err := s.GetSearchRecord(ctx, "user-1", resp.SearchID)
	require.NoError(t, err)
	assert.Equal(t, "epic sci-fi", record.Query)
	assert.Equal(t, 2, record.ResultsCount)
	assert.Equal(t, "0.8s", record.Metadata.ProcessingTime)
	assert.Equal(t, "adventurous", record.Metadata.Mood)
	assert.False(t, record.Metadata.Fallback)
}

func TestSearchService_FallbackIsRecorded(t *testing.T) {
	svc, s := setupSearchTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ctx := context.Background()

	resp, err := svc.Search(ctx, "user-1", SearchRequest{Query: "anything"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SearchID)
	assert.True(t, resp.Fallback)
	assert.NotEmpty(t, resp.Books)
	assert.Equal(t, "2.1s", resp.ProcessingTime)

	record, err := s.GetSearchRecord(ctx, "user-1", resp.SearchID)
	require.NoError(t, err)
	assert.True(t, record.Metadata.Fallback)
	assert.Equal(t, "2.1s", record.Metadata.ProcessingTime)
}

func TestSearchService_ValidatesQuery(t *testing.T) {
	svc, _ := setupSearchTest(t, nil)

	_, err := svc.Search(context.Background(), "user-1", SearchRequest{Query: ""})
	require.Error(t, err)
}

func TestSearchService_SequenceGuard(t *testing.T) {
	svc, _ := setupSearchTest(t, nil)

	s1 := svc.nextSequence("user-1")
	s2 := svc.nextSequence("user-1")

	assert.False(t, svc.isCurrent("user-1", s1))
	assert.True(t, svc.isCurrent("user-1", s2))

	// Sequences are per user
	other := svc.nextSequence("user-2")
	assert.True(t, svc.isCurrent("user-2", other))
	assert.True(t, svc.isCurrent("user-1", s2))
}

func TestSearchService_StaleResponseDropped(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls atomic.Int32

	svc, s := setupSearchTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(webhookOKBody))
	}))
	ctx := context.Background()

	type result struct {
		resp *SearchResponse
		err  error
	}
	firstDone := make(chan result, 1)

	go func() {
		resp, err := svc.Search(ctx, "user-1", SearchRequest{Query: "first"})
		firstDone <- result{resp, err}
	}()

	// Wait until the first search is in flight, then issue a newer one
	<-firstStarted
	second, err := svc.Search(ctx, "user-1", SearchRequest{Query: "second"})
	require.NoError(t, err)
	assert.False(t, second.Stale)
	assert.NotEmpty(t, second.SearchID)

	close(releaseFirst)
	first := <-firstDone
	require.NoError(t, first.err)

	// The superseded search still answers its caller but is dropped from
	// history, so its clicks can't be attributed.
	assert.True(t, first.resp.Stale)
	assert.Empty(t, first.resp.SearchID)

	records, err := s.ListSearchRecords(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "second", records[0].Query)
}

package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflifeapp/shelflife-server/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Environment: "production"})
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	catalog := NewCatalog("", nil)
	c := New(url, catalog, testLogger().Logger)
	t.Cleanup(c.Close)
	return c
}

func TestSearch_Success(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"results": [
				{"id": "b1", "title": "Dune", "authors": ["Frank Herbert"], "rating": 4.3, "similarityScore": 0.93, "categories": ["Science Fiction"]}
			],
			"totalResults": 1,
			"processingTime": "0.8s"
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Search(context.Background(), "desert planet epic", "")
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	require.Len(t, result.Books, 1)
	assert.Equal(t, "Dune", result.Books[0].Title)
	assert.InDelta(t, 0.93, result.Books[0].SimilarityScore, 0.0001)
	assert.Equal(t, "0.8s", result.ProcessingTime)
	assert.Equal(t, 1, result.TotalResults)

	// Request carries the nested body.query shape the webhook expects
	assert.Contains(t, gotBody, `"body"`)
	assert.Contains(t, gotBody, `"query"`)
	assert.Contains(t, gotBody, "desert planet epic")
}

func TestSearch_EmptySuccessIsNotFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "results": []}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Search(context.Background(), "obscure query with no matches", "")
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	assert.Empty(t, result.Books)
	assert.Equal(t, 0, result.TotalResults)
	assert.NotEqual(t, fallbackProcessingTime, result.ProcessingTime)
}

func TestSearch_FallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Search(context.Background(), "anything", "")
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Len(t, result.Books, 3)
	assert.Equal(t, "2.1s", result.ProcessingTime)
}

func TestSearch_FallbackOnMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"succ`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Search(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, "2.1s", result.ProcessingTime)
}

func TestSearch_FallbackOnMissingSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"id": "b1", "title": "Dune"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Search(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.True(t, result.Fallback)
}

func TestSearch_FallbackOnEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Search(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.True(t, result.Fallback)
}

func TestSearch_NoWebhookConfigured(t *testing.T) {
	c := newTestClient(t, "")

	result, err := c.Search(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Len(t, result.Books, 3)
}

func TestSearch_CanceledContext(t *testing.T) {
	c := newTestClient(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, "anything", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_MoodModifier(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		n, _ := r.Body.Read(buf)
		gotBody = buf[:n]
		_, _ = w.Write([]byte(`{"success": true, "results": []}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Search(context.Background(), "a mystery novel", "cozy")
	require.NoError(t, err)
	assert.Contains(t, string(gotBody), "with a cozy, comforting atmosphere")

	// Unknown moods leave the query untouched
	_, err = c.Search(context.Background(), "a mystery novel", "grumpy")
	require.NoError(t, err)
	assert.Contains(t, string(gotBody), "a mystery novel")
	assert.NotContains(t, string(gotBody), "grumpy")
}

func TestSearch_SlowUpstreamFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success": true, "results": []}`))
	}))
	defer server.Close()

	catalog := NewCatalog("", nil)
	c := New(server.URL, catalog, testLogger().Logger)
	t.Cleanup(c.Close)
	c.http.Timeout = 50 * time.Millisecond

	result, err := c.Search(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.True(t, result.Fallback)
}

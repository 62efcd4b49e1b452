package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflifeapp/shelflife-server/internal/auth"
	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/covers"
	"github.com/shelflifeapp/shelflife-server/internal/discovery"
	"github.com/shelflifeapp/shelflife-server/internal/search"
	"github.com/shelflifeapp/shelflife-server/internal/service"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// unmarshalBody decodes a JSON response body.
func unmarshalBody(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// testEnvelope mirrors the envelope structure for decoding test responses.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testServer bundles the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// newTestServer creates a fully wired server backed by temp-dir storage.
// webhookURL may be empty; searches then serve the fallback catalog.
func newTestServer(t *testing.T, webhookURL string) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(tmpDir+"/db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: tmpDir + "/index"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	st.SetSearchIndexer(idx)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:     "Test Server",
			LocalURL: "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 30 * 24 * time.Hour,
		},
	}

	testKeyHex := strings.Repeat("ab", 32)
	tokenService, err := auth.NewTokenService(testKeyHex, cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
	require.NoError(t, err)

	catalog := discovery.NewCatalog("", logger)
	t.Cleanup(func() { _ = catalog.Close() })
	discoveryClient := discovery.New(webhookURL, catalog, logger)
	t.Cleanup(discoveryClient.Close)

	coverStorage, err := covers.NewStorage(tmpDir)
	require.NoError(t, err)

	validator := validation.New()

	instanceService := service.NewInstanceService(st, logger, cfg)
	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, instanceService, validator, logger)
	userService := service.NewUserService(st, validator, logger)
	searchService := service.NewSearchService(st, discoveryClient, validator, logger)
	historyService := service.NewHistoryService(st, validator, logger)
	libraryService := service.NewLibraryService(st, idx, nil, validator, logger)
	wishlistService := service.NewWishlistService(st, validator, logger)
	goalService := service.NewGoalService(st, validator, logger)
	recommendationService := service.NewRecommendationService(st, logger)

	services := &Services{
		Instance:       instanceService,
		Auth:           authService,
		Session:        sessionService,
		User:           userService,
		Search:         searchService,
		History:        historyService,
		Library:        libraryService,
		Wishlist:       wishlistService,
		Goal:           goalService,
		Recommendation: recommendationService,
	}

	storage := &StorageServices{Covers: coverStorage}

	server := NewServer(st, services, storage, idx, logger)

	_, err = instanceService.InitializeInstance(context.Background())
	require.NoError(t, err)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
	}
}

// setupAndLogin runs initial setup and returns a bearer token header value.
func setupAndLogin(t *testing.T, ts *testServer) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "admin@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Admin",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	return "Authorization: Bearer " + envelope.Data.AccessToken
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))

	assert.Equal(t, EnvelopeVersion, envelope.V)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Contains(t, envelope.Data.Components, "database")
	assert.Contains(t, envelope.Data.Components, "search")
}

func TestGetInstance(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Get("/api/v1/instance")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[InstanceResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "Test Server", envelope.Data.Name)
	assert.True(t, envelope.Data.SetupRequired)
}

func TestGetInstance_SetupCompleteAfterSetup(t *testing.T) {
	ts := newTestServer(t, "")
	setupAndLogin(t, ts)

	resp := ts.api.Get("/api/v1/instance")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[InstanceResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.SetupRequired)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t, "")

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/library"},
		{http.MethodGet, "/api/v1/wishlist"},
		{http.MethodGet, "/api/v1/recommendations"},
		{http.MethodGet, "/api/v1/search/history"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/goals/2026"},
	}

	for _, tt := range paths {
		t.Run(tt.path, func(t *testing.T) {
			resp := ts.api.Do(tt.method, tt.path)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestServeCover(t *testing.T) {
	ts := newTestServer(t, "")

	cover := []byte("\xff\xd8\xff\xe0 not a real jpeg but bytes are bytes")
	require.NoError(t, ts.storage.Covers.Save("book-1", cover))

	req := httptest.NewRequest(http.MethodGet, "/covers/book-1", http.NoBody)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, cover, w.Body.Bytes())
	assert.Equal(t, "public, max-age=604800", w.Header().Get("Cache-Control"))

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.True(t, etag[0] == '"' && etag[len(etag)-1] == '"', "ETag should be quoted")

	// Conditional request returns 304 with no body
	req2 := httptest.NewRequest(http.MethodGet, "/covers/book-1", http.NoBody)
	req2.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	ts.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusNotModified, w2.Code)
	assert.Empty(t, w2.Body.Bytes())
}

func TestServeCover_NotFound(t *testing.T) {
	ts := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/covers/missing", http.NoBody)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

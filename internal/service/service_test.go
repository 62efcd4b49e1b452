package service

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shelflifeapp/shelflife-server/internal/auth"
	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
	"github.com/stretchr/testify/require"
)

// testKeyHex is a fixed 32-byte PASETO key for tests.
var testKeyHex = strings.Repeat("ab", 32)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Name:     "Test Server",
			LocalURL: "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 30 * 24 * time.Hour,
		},
	}
}

// setupAuthTest creates the auth service stack on temporary storage.
func setupAuthTest(t *testing.T) (*AuthService, *InstanceService) {
	t.Helper()

	s := newTestStore(t)
	cfg := testConfig()

	tokenService, err := auth.NewTokenService(testKeyHex, cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)
	instanceService := NewInstanceService(s, nil, cfg)
	authService := NewAuthService(s, tokenService, sessionService, instanceService, validation.New(), nil)

	return authService, instanceService
}

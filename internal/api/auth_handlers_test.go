package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Success(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "admin@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Admin",
		"last_name":  "User",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "admin@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Admin", envelope.Data.User.FirstName)
	assert.True(t, envelope.Data.User.IsRoot)
	assert.Positive(t, envelope.Data.ExpiresIn)
}

func TestSetup_AlreadyConfigured(t *testing.T) {
	ts := newTestServer(t, "")
	setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "admin2@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Admin2",
		"last_name":  "User",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestSetup_ValidationErrors(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name: "missing email",
			body: map[string]any{
				"password":   "SecurePassword123!",
				"first_name": "Admin",
				"last_name":  "User",
			},
			wantStatus: http.StatusUnprocessableEntity, // Huma returns 422 for missing required fields
		},
		{
			name: "invalid email format",
			body: map[string]any{
				"email":      "not-an-email",
				"password":   "SecurePassword123!",
				"first_name": "Admin",
				"last_name":  "User",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			body: map[string]any{
				"email":      "admin@example.com",
				"password":   "short",
				"first_name": "Admin",
				"last_name":  "User",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/setup", tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}

func TestRegister_RequiresSetup(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "reader@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Rae",
		"last_name":  "Reader",
	})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRegister_Success(t *testing.T) {
	ts := newTestServer(t, "")
	setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "reader@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Rae",
		"last_name":  "Reader",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "reader@example.com", envelope.Data.User.Email)
	assert.False(t, envelope.Data.User.IsRoot)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t, "")
	setupAndLogin(t, ts)

	body := map[string]any{
		"email":      "reader@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Rae",
		"last_name":  "Reader",
	}

	resp := ts.api.Post("/api/v1/auth/register", body)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/register", body)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	ts := newTestServer(t, "")
	setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "SecurePassword123!",
		"device_info": map[string]any{
			"device_type": "mobile",
			"platform":    "iOS",
		},
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.SessionID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t, "")
	setupAndLogin(t, ts)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong email", email: "wrong@example.com", password: "SecurePassword123!"},
		{name: "wrong password", email: "admin@example.com", password: "WrongPassword123!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/login", map[string]any{
				"email":    tt.email,
				"password": tt.password,
				"device_info": map[string]any{
					"device_type": "web",
					"platform":    "Web",
				},
			})

			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestLogin_MissingDeviceInfo(t *testing.T) {
	ts := newTestServer(t, "")
	setupAndLogin(t, ts)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "SecurePassword123!",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRefresh_Rotation(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "admin@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Admin",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var setupEnvelope testEnvelope[AuthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &setupEnvelope))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setupEnvelope.Data.RefreshToken,
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var refreshEnvelope testEnvelope[AuthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &refreshEnvelope))

	assert.NotEmpty(t, refreshEnvelope.Data.AccessToken)
	assert.NotEqual(t, setupEnvelope.Data.RefreshToken, refreshEnvelope.Data.RefreshToken)

	// The old refresh token is spent
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setupEnvelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefresh_InvalidToken(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": "invalid-token-12345",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_Success(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "admin@example.com",
		"password":   "SecurePassword123!",
		"first_name": "Admin",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &envelope))

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": envelope.Data.SessionID,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	// The session's refresh token no longer works
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": envelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

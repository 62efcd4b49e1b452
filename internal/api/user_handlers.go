package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Updates the authenticated user's profile fields",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/sessions",
		Summary:     "List sessions",
		Description: "Returns the authenticated user's active sessions",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)
}

// === DTOs ===

// GetCurrentUserInput contains parameters for fetching the current user.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100" doc:"Display name"`
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=100" doc:"First name"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=100" doc:"Last name"`
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// SessionResponse describes an active session.
type SessionResponse struct {
	ID         string    `json:"id" doc:"Session ID"`
	DeviceName string    `json:"device_name" doc:"Human-readable device description"`
	Platform   string    `json:"platform,omitempty" doc:"Client platform"`
	IPAddress  string    `json:"ip_address,omitempty" doc:"Last known IP address"`
	CreatedAt  time.Time `json:"created_at" doc:"Session creation time"`
	LastSeenAt time.Time `json:"last_seen_at" doc:"Last activity time"`
	ExpiresAt  time.Time `json:"expires_at" doc:"Expiration time"`
}

// ListSessionsInput contains parameters for listing sessions.
type ListSessionsInput struct {
	Authorization string `header:"Authorization"`
}

// ListSessionsResponse contains the user's sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions" doc:"Active sessions"`
}

// ListSessionsOutput wraps the session list for Huma.
type ListSessionsOutput struct {
	Body ListSessionsResponse
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, service.UpdateProfileRequest{
		DisplayName: input.Body.DisplayName,
		FirstName:   input.Body.FirstName,
		LastName:    input.Body.LastName,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Session.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		resp[i] = SessionResponse{
			ID:         sess.ID,
			DeviceName: sess.DisplayName(),
			Platform:   sess.Platform,
			IPAddress:  sess.IPAddress,
			CreatedAt:  sess.CreatedAt,
			LastSeenAt: sess.LastSeenAt,
			ExpiresAt:  sess.ExpiresAt,
		}
	}

	return &ListSessionsOutput{Body: ListSessionsResponse{Sessions: resp}}, nil
}

// === Helpers ===

func mapUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsRoot:      user.IsRoot,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

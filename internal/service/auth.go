package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelflifeapp/shelflife-server/internal/auth"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	domainerrors "github.com/shelflifeapp/shelflife-server/internal/errors"
	"github.com/shelflifeapp/shelflife-server/internal/id"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// AuthService handles user authentication (setup, registration, login, token
// verification). Session lifecycle is delegated to SessionService.
type AuthService struct {
	store           *store.Store
	tokenService    *auth.TokenService
	sessionService  *SessionService
	instanceService *InstanceService
	validator       *validation.Validator
	logger          *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	instanceService *InstanceService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:           store,
		tokenService:    tokenService,
		sessionService:  sessionService,
		instanceService: instanceService,
		validator:       validator,
		logger:          logger,
	}
}

// SetupRequest contains the initial root user creation data.
type SetupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginRequest contains user credentials and device information.
type LoginRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required"`
	DeviceInfo auth.DeviceInfo `json:"device_info"`
	IPAddress  string          `json:"-"` // Extracted from request by handler
}

// RefreshRequest contains the refresh token and updated device info.
type RefreshRequest struct {
	RefreshToken string          `json:"refresh_token" validate:"required"`
	DeviceInfo   auth.DeviceInfo `json:"device_info"` // Optional updates
	IPAddress    string          `json:"-"`           // Extracted from request by handler
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Setup creates the first user (root) and completes initial server configuration.
// This endpoint can only be used once, before any users exist.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Verify setup is required
	setupRequired, err := s.instanceService.IsSetupRequired(ctx)
	if err != nil {
		return nil, fmt.Errorf("check setup status: %w", err)
	}
	if !setupRequired {
		return nil, domainerrors.AlreadyConfigured("server is already configured")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.FirstName, req.LastName, true)
	if err != nil {
		return nil, err
	}

	// Configure instance with root user
	if err := s.instanceService.SetRootUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("configure instance: %w", err)
	}

	// Setup happens via web UI, so use basic web device info
	deviceInfo := auth.DeviceInfo{
		DeviceType:    "web",
		Platform:      "Web",
		ClientName:    "ShelfLife Web",
		ClientVersion: "1.0.0",
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, deviceInfo, "")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Server setup complete",
			"user_id", user.ID,
			"email", user.Email,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Register creates a new member account. Registration requires the server to
// be set up first; new members are active immediately.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	setupRequired, err := s.instanceService.IsSetupRequired(ctx)
	if err != nil {
		return nil, fmt.Errorf("check setup status: %w", err)
	}
	if setupRequired {
		return nil, domainerrors.Forbidden("server setup is not complete")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.FirstName, req.LastName, false)
	if err != nil {
		return nil, err
	}

	deviceInfo := auth.DeviceInfo{
		DeviceType:    "web",
		Platform:      "Web",
		ClientName:    "ShelfLife Web",
		ClientVersion: "1.0.0",
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, deviceInfo, "")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User registered",
			"user_id", user.ID,
			"email", user.Email,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// createUser hashes the password and persists a new user record.
func (s *AuthService) createUser(ctx context.Context, email, password, firstName, lastName string, isRoot bool) (*domain.User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	role := domain.RoleMember
	if isRoot {
		role = domain.RoleAdmin
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        email,
		PasswordHash: passwordHash,
		IsRoot:       isRoot,
		Role:         role,
		FirstName:    firstName,
		LastName:     lastName,
		DisplayName:  firstName + " " + lastName,
		LastLoginAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if !req.DeviceInfo.IsValid() {
		return nil, domainerrors.Validation("device_info is required (device_type and platform)")
	}

	// Find user by email
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether email exists
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// Verify password
	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	// Update last login
	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.DeviceInfo, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in",
			"user_id", user.ID,
			"device", req.DeviceInfo.Platform,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens generates new tokens using a refresh token.
// The old refresh token is invalidated (token rotation).
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.DeviceInfo, req.IPAddress)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes a session, invalidating its refresh token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid token: %w", err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, errors.New("user not found")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	domainerrors "github.com/shelflifeapp/shelflife-server/internal/errors"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// UserService handles user profile operations.
type UserService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// UpdateProfileRequest contains optional profile updates.
// Only non-nil fields are applied.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found").WithCause(err)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the user's profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

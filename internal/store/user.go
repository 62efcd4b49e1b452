package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const (
	sessionPrefix        = "session:"
	sessionByUserPrefix  = "idx:sessions:user:"  // For listing user sessions
	sessionByTokenPrefix = "idx:sessions:token:" // For refresh token lookups
)

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when attempting to create a user with an email that's already in use.
	ErrEmailExists = errors.New("email already in use")
	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session expired")
)

// User persistence rides the generic Users entity, which enforces email
// uniqueness case-insensitively through its index.

// CreateUser creates a new user account.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		var idxErr *IndexConflictError
		if errors.As(err, &idxErr) {
			return ErrEmailExists
		}
		if errors.Is(err, ErrAlreadyExists) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address. Lookup is case-insensitive.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	return user, nil
}

// UpdateUser updates an existing user. Email index entries migrate with the
// user when the address changes.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()

	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		var idxErr *IndexConflictError
		if errors.As(err, &idxErr) {
			return ErrEmailExists
		}
		if errors.Is(err, ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ListUsers returns all users (for admin view).
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// normalizeEmail normalizes an email address for consistent lookups.
// Lowercases and trims whitespace.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package service contains the business logic between the API handlers and
// the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	domainerrors "github.com/shelflifeapp/shelflife-server/internal/errors"
	"github.com/shelflifeapp/shelflife-server/internal/store"
)

// serverVersion is reported in the instance record and health checks.
const serverVersion = "1.0.0"

// InstanceService handles business logic for server instance configuration.
type InstanceService struct {
	store  *store.Store
	logger *slog.Logger
	config *config.Config
}

// NewInstanceService creates a new instance service.
func NewInstanceService(store *store.Store, logger *slog.Logger, config *config.Config) *InstanceService {
	return &InstanceService{
		store:  store,
		logger: logger,
		config: config,
	}
}

// GetInstance retrieves the server instance configuration.
func (s *InstanceService) GetInstance(ctx context.Context) (*domain.Instance, error) {
	instance, err := s.store.GetInstance(ctx)
	if err != nil {
		if errors.Is(err, store.ErrInstanceNotFound) {
			return nil, domainerrors.NotFound("instance configuration not found").WithCause(err)
		}
		return nil, fmt.Errorf("get instance: %w", err)
	}

	return instance, nil
}

// InitializeInstance ensures a server instance record exists, creating one on
// first run. Config values override the stored name and URLs on every boot.
func (s *InstanceService) InitializeInstance(ctx context.Context) (*domain.Instance, error) {
	instance, err := s.store.GetInstance(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrInstanceNotFound) {
			return nil, fmt.Errorf("get instance: %w", err)
		}

		now := time.Now()
		instance = &domain.Instance{
			ID:        uuid.New().String(),
			Version:   serverVersion,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if s.logger != nil {
			s.logger.Info("Created server instance", "instance_id", instance.ID)
		}
	}

	if s.config.Server.Name != "" {
		instance.Name = s.config.Server.Name
	}
	if s.config.Server.LocalURL != "" {
		instance.LocalURL = s.config.Server.LocalURL
	}
	if s.config.Server.RemoteURL != "" {
		instance.RemoteURL = s.config.Server.RemoteURL
	}
	instance.Version = serverVersion
	instance.UpdatedAt = time.Now()

	if err := s.store.SaveInstance(ctx, instance); err != nil {
		return nil, fmt.Errorf("save instance: %w", err)
	}

	return instance, nil
}

// IsSetupRequired checks if the server requires initial setup.
// Setup is required until the first (root) user has been created.
func (s *InstanceService) IsSetupRequired(ctx context.Context) (bool, error) {
	instance, err := s.GetInstance(ctx)
	if err != nil {
		return false, err
	}

	return !instance.HasRootUser, nil
}

// SetRootUser marks the instance as configured with a root user.
// This should only be called once during initial setup.
func (s *InstanceService) SetRootUser(ctx context.Context, userID string) error {
	instance, err := s.GetInstance(ctx)
	if err != nil {
		return fmt.Errorf("get instance: %w", err)
	}

	if instance.HasRootUser {
		return domainerrors.AlreadyConfigured("root user already configured")
	}

	instance.HasRootUser = true
	instance.UpdatedAt = time.Now()

	if err := s.store.SaveInstance(ctx, instance); err != nil {
		return fmt.Errorf("save instance: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Root user configured",
			"instance_id", instance.ID,
			"root_user_id", userID,
		)
	}

	return nil
}

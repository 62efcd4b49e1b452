package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	domainerrors "github.com/shelflifeapp/shelflife-server/internal/errors"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// GoalService manages per-year reading goals.
type GoalService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *GoalService {
	return &GoalService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// SetGoalRequest contains the targets for a year's reading goal.
type SetGoalRequest struct {
	TargetBooks int `json:"target_books" validate:"required,gte=1,lte=10000"`
	TargetPages int `json:"target_pages,omitempty" validate:"omitempty,gte=0"`
}

// Get retrieves the goal for a user+year.
func (s *GoalService) Get(ctx context.Context, userID string, year int) (*domain.ReadingGoal, error) {
	if year < 1970 || year > 3000 {
		return nil, domainerrors.Validation("year is out of range")
	}
	return s.store.GetReadingGoal(ctx, userID, year)
}

// Set creates or updates the goal for a user+year. Progress made so far is
// preserved when a goal's targets are revised.
func (s *GoalService) Set(ctx context.Context, userID string, year int, req SetGoalRequest) (*domain.ReadingGoal, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if year < 1970 || year > 3000 {
		return nil, domainerrors.Validation("year is out of range")
	}

	goal, err := s.store.GetReadingGoal(ctx, userID, year)
	if err != nil {
		goal = domain.NewReadingGoal(userID, year, req.TargetBooks, req.TargetPages)
	} else {
		goal.TargetBooks = req.TargetBooks
		goal.TargetPages = req.TargetPages
	}
	goal.Touch()

	if err := s.store.UpsertReadingGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("save reading goal: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Reading goal set",
			"user_id", userID,
			"year", year,
			"target_books", req.TargetBooks,
		)
	}

	return goal, nil
}

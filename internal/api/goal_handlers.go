package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingGoal",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/{year}",
		Summary:     "Get reading goal",
		Description: "Returns the user's reading goal for a year",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "setReadingGoal",
		Method:      http.MethodPut,
		Path:        "/api/v1/goals/{year}",
		Summary:     "Set reading goal",
		Description: "Creates or revises the reading goal for a year. Progress is preserved across revisions.",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetGoal)
}

// === DTOs ===

// GetGoalInput contains parameters for fetching a reading goal.
type GetGoalInput struct {
	Authorization string `header:"Authorization"`
	Year          int    `path:"year" doc:"Goal year"`
}

// SetGoalInput wraps the goal request for Huma.
type SetGoalInput struct {
	Authorization string `header:"Authorization"`
	Year          int    `path:"year" doc:"Goal year"`
	Body          service.SetGoalRequest
}

// GoalOutput wraps the reading goal for Huma.
type GoalOutput struct {
	Body domain.ReadingGoal
}

// === Handlers ===

func (s *Server) handleGetGoal(ctx context.Context, input *GetGoalInput) (*GoalOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.Get(ctx, userID, input.Year)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: *goal}, nil
}

func (s *Server) handleSetGoal(ctx context.Context, input *SetGoalInput) (*GoalOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.Set(ctx, userID, input.Year, input.Body)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: *goal}, nil
}

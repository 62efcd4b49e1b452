package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shelflifeapp/shelflife-server/internal/recommend"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations",
		Summary:     "Get recommendations",
		Description: "Returns reading suggestions derived from the user's library and recent searches",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecommendations)
}

// GetRecommendationsInput contains parameters for fetching recommendations.
type GetRecommendationsInput struct {
	Authorization string `header:"Authorization"`
}

// RecommendationsResponse contains reading suggestions.
type RecommendationsResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations" doc:"Suggested directions, each with a ready-to-run search query"`
}

// RecommendationsOutput wraps the recommendations for Huma.
type RecommendationsOutput struct {
	Body RecommendationsResponse
}

func (s *Server) handleGetRecommendations(ctx context.Context, input *GetRecommendationsInput) (*RecommendationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recs, err := s.services.Recommendation.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &RecommendationsOutput{Body: RecommendationsResponse{Recommendations: recs}}, nil
}

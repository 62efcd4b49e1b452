package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelflifeapp/shelflife-server/internal/recommend"
	"github.com/shelflifeapp/shelflife-server/internal/store"
)

// recentQueryWindow is how many recent searches feed the recommender.
const recentQueryWindow = 10

// RecommendationService assembles the inputs for the pure recommender.
type RecommendationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(store *store.Store, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		store:  store,
		logger: logger,
	}
}

// ForUser generates recommendations from the user's library and recent
// search queries.
func (s *RecommendationService) ForUser(ctx context.Context, userID string) ([]recommend.Recommendation, error) {
	books, err := s.store.ListSavedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved books: %w", err)
	}

	records, err := s.store.ListSearchRecords(ctx, userID, recentQueryWindow)
	if err != nil {
		return nil, fmt.Errorf("list search records: %w", err)
	}

	queries := make([]string, 0, len(records))
	for _, r := range records {
		queries = append(queries, r.Query)
	}

	return recommend.Generate(recommend.Input{
		SavedBooks:    books,
		RecentQueries: queries,
	}), nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shelflifeapp/shelflife-server/internal/discovery"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/id"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// SearchService runs natural-language book searches through the discovery
// client and records them in the user's history.
//
// Each user has a monotonic search sequence. A response that arrives after
// the user has issued a newer search is stale: it is still returned to its
// own caller, but it gets no search ID and is not written to history, so
// clicks on it cannot be attributed.
type SearchService struct {
	store     *store.Store
	discovery *discovery.Client
	validator *validation.Validator
	logger    *slog.Logger

	mu  sync.Mutex
	seq map[string]uint64 // userID -> latest issued sequence
}

// NewSearchService creates a new search service.
func NewSearchService(
	store *store.Store,
	discovery *discovery.Client,
	validator *validation.Validator,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		store:     store,
		discovery: discovery,
		validator: validator,
		logger:    logger,
		seq:       make(map[string]uint64),
	}
}

// SearchRequest contains the natural-language query and optional mood.
type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
	Mood  string `json:"mood,omitempty" validate:"omitempty,max=50"`
}

// SearchResponse is the result set plus the history record's ID. SearchID is
// empty for stale responses; clicks without a search ID are dropped.
type SearchResponse struct {
	SearchID       string        `json:"search_id,omitempty"`
	Query          string        `json:"query"`
	Books          []domain.Book `json:"books"`
	TotalResults   int           `json:"total_results"`
	ProcessingTime string        `json:"processing_time"`
	Fallback       bool          `json:"fallback"`
	Stale          bool          `json:"stale,omitempty"`
}

// Search dispatches the query upstream and records the search in history.
// Upstream failures degrade silently inside the discovery client; the only
// error surfaced from there is context cancellation.
func (s *SearchService) Search(ctx context.Context, userID string, req SearchRequest) (*SearchResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	seq := s.nextSequence(userID)

	result, err := s.discovery.Search(ctx, req.Query, req.Mood)
	if err != nil {
		return nil, err
	}

	resp := &SearchResponse{
		Query:          result.Query,
		Books:          result.Books,
		TotalResults:   result.TotalResults,
		ProcessingTime: result.ProcessingTime,
		Fallback:       result.Fallback,
	}

	if !s.isCurrent(userID, seq) {
		resp.Stale = true
		if s.logger != nil {
			s.logger.Debug("dropping stale search response",
				"user_id", userID,
				"query", req.Query,
			)
		}
		return resp, nil
	}

	searchID, err := id.Generate("search")
	if err != nil {
		return nil, fmt.Errorf("generate search ID: %w", err)
	}

	record := domain.NewSearchRecord(searchID, userID, req.Query, len(result.Books), domain.SearchMetadata{
		ProcessingTime: result.ProcessingTime,
		TotalResults:   result.TotalResults,
		Fallback:       result.Fallback,
		Mood:           req.Mood,
	})

	if err := s.store.CreateSearchRecord(ctx, record); err != nil {
		// History is best effort; the user still gets their results.
		if s.logger != nil {
			s.logger.Warn("failed to record search history",
				"user_id", userID,
				"error", err,
			)
		}
		return resp, nil
	}

	resp.SearchID = searchID
	return resp, nil
}

// nextSequence issues the next search sequence number for a user.
func (s *SearchService) nextSequence(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[userID]++
	return s.seq[userID]
}

// isCurrent reports whether seq is still the user's latest search.
func (s *SearchService) isCurrent(userID string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[userID] == seq
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// defaultHistoryLimit caps history listings when the client doesn't ask for
// a specific page size.
const defaultHistoryLimit = 50

// HistoryService manages search history and click attribution.
type HistoryService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// ClickRequest identifies the result the user opened.
type ClickRequest struct {
	BookID     string   `json:"book_id" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Authors    []string `json:"authors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Rating     float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// RecordClick appends a clicked book to the search record it came from.
// Clicks with no search ID, or one that doesn't resolve to a record owned by
// this user, are silently dropped: the click came from a stale or expired
// result set and there is nothing to attribute it to.
func (s *HistoryService) RecordClick(ctx context.Context, userID, searchID string, req ClickRequest) error {
	if searchID == "" {
		return nil
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	record, err := s.store.GetSearchRecord(ctx, userID, searchID)
	if err != nil {
		if errors.Is(err, store.ErrSearchRecordNotFound) {
			if s.logger != nil {
				s.logger.Debug("dropping click for unknown search",
					"user_id", userID,
					"search_id", searchID,
				)
			}
			return nil
		}
		return fmt.Errorf("get search record: %w", err)
	}

	record.AddClick(domain.ClickedBook{
		BookID:     req.BookID,
		Title:      req.Title,
		Authors:    req.Authors,
		Categories: req.Categories,
		Rating:     req.Rating,
	})

	if err := s.store.UpdateSearchRecord(ctx, record); err != nil {
		return fmt.Errorf("update search record: %w", err)
	}

	return nil
}

// List returns the user's search history, newest first.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]*domain.SearchRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := s.store.ListSearchRecords(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}

	return records, nil
}

// RecentQueries returns the query text of the user's latest searches, newest
// first. Used as a recommendation signal.
func (s *HistoryService) RecentQueries(ctx context.Context, userID string, limit int) ([]string, error) {
	records, err := s.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	queries := make([]string, 0, len(records))
	for _, r := range records {
		queries = append(queries, r.Query)
	}
	return queries, nil
}

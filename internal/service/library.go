package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelflifeapp/shelflife-server/internal/covers"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	domainerrors "github.com/shelflifeapp/shelflife-server/internal/errors"
	"github.com/shelflifeapp/shelflife-server/internal/recommend"
	"github.com/shelflifeapp/shelflife-server/internal/search"
	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// LibraryService manages a user's personal library of saved books.
type LibraryService struct {
	store       *store.Store
	searchIndex *search.Index
	downloader  *covers.Downloader // optional, nil disables cover caching
	validator   *validation.Validator
	logger      *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	store *store.Store,
	searchIndex *search.Index,
	downloader *covers.Downloader,
	validator *validation.Validator,
	logger *slog.Logger,
) *LibraryService {
	return &LibraryService{
		store:       store,
		searchIndex: searchIndex,
		downloader:  downloader,
		validator:   validator,
		logger:      logger,
	}
}

// SaveBookRequest contains the book and its initial library state.
type SaveBookRequest struct {
	Book       domain.Book `json:"book" validate:"required"`
	Status     string      `json:"status,omitempty" validate:"omitempty,oneof=want_to_read currently_reading read"`
	UserRating *int        `json:"user_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Notes      string      `json:"notes,omitempty" validate:"omitempty,max=10000"`
	Tags       []string    `json:"tags,omitempty" validate:"omitempty,dive,max=64"`
	Priority   int         `json:"priority,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// UpdateBookRequest contains optional updates to a saved book.
// Only non-nil fields are applied.
type UpdateBookRequest struct {
	Status          *string  `json:"status,omitempty" validate:"omitempty,oneof=want_to_read currently_reading read"`
	ReadingProgress *int     `json:"reading_progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	UserRating      *int     `json:"user_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Notes           *string  `json:"notes,omitempty" validate:"omitempty,max=10000"`
	Tags            []string `json:"tags,omitempty" validate:"omitempty,dive,max=64"`
	Priority        *int     `json:"priority,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// SaveBook adds a book to the user's library, or overwrites the existing
// entry for the same book. Last write wins.
func (s *LibraryService) SaveBook(ctx context.Context, userID string, req SaveBookRequest) (*domain.SavedBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Book.ID == "" || req.Book.Title == "" {
		return nil, domainerrors.Validation("book id and title are required")
	}

	sb := domain.NewSavedBook(userID, req.Book, domain.ReadingStatus(req.Status))
	sb.UserRating = req.UserRating
	sb.Notes = req.Notes
	sb.Tags = req.Tags
	sb.Priority = req.Priority

	if err := s.store.UpsertSavedBook(ctx, sb); err != nil {
		return nil, fmt.Errorf("save book: %w", err)
	}

	if sb.IsRead {
		s.bumpReadingGoal(ctx, userID, sb.Book.PageCount)
	}

	s.cacheCoverAsync(userID, sb.Book)

	if s.logger != nil {
		s.logger.Info("Book saved to library",
			"user_id", userID,
			"book_id", sb.Book.ID,
			"status", sb.Status,
		)
	}

	return sb, nil
}

// UpdateBook applies a partial update to a saved book.
// A transition into read status bumps the current year's reading goal.
func (s *LibraryService) UpdateBook(ctx context.Context, userID, bookID string, req UpdateBookRequest) (*domain.SavedBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sb, err := s.store.GetSavedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	wasRead := sb.IsRead

	if req.Status != nil {
		sb.SetStatus(domain.ReadingStatus(*req.Status))
	}
	if req.ReadingProgress != nil {
		sb.ReadingProgress = *req.ReadingProgress
	}
	if req.UserRating != nil {
		sb.UserRating = req.UserRating
	}
	if req.Notes != nil {
		sb.Notes = *req.Notes
	}
	if req.Tags != nil {
		sb.Tags = req.Tags
	}
	if req.Priority != nil {
		sb.Priority = *req.Priority
	}
	sb.Touch()

	if err := s.store.UpsertSavedBook(ctx, sb); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	// Goal progress counts each finish transition, not re-saves of an
	// already-read book.
	if !wasRead && sb.IsRead {
		s.bumpReadingGoal(ctx, userID, sb.Book.PageCount)
	}

	return sb, nil
}

// GetBook retrieves one saved book.
func (s *LibraryService) GetBook(ctx context.Context, userID, bookID string) (*domain.SavedBook, error) {
	return s.store.GetSavedBook(ctx, userID, bookID)
}

// RemoveBook deletes a book from the library. Idempotent.
func (s *LibraryService) RemoveBook(ctx context.Context, userID, bookID string) error {
	if err := s.store.DeleteSavedBook(ctx, userID, bookID); err != nil {
		return fmt.Errorf("remove book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book removed from library", "user_id", userID, "book_id", bookID)
	}

	return nil
}

// ListBooks returns all saved books for a user, optionally filtered by status.
func (s *LibraryService) ListBooks(ctx context.Context, userID string, status string) ([]*domain.SavedBook, error) {
	books, err := s.store.ListSavedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	if status == "" {
		return books, nil
	}

	filtered := make([]*domain.SavedBook, 0, len(books))
	for _, sb := range books {
		if string(sb.Status) == status {
			filtered = append(filtered, sb)
		}
	}
	return filtered, nil
}

// SearchLibrary runs a full-text query over the user's saved books.
// Results come back in relevance order.
func (s *LibraryService) SearchLibrary(ctx context.Context, userID, query string, limit int) ([]*domain.SavedBook, error) {
	if query == "" {
		return nil, domainerrors.Validation("query is required")
	}

	bookIDs, err := s.searchIndex.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search library: %w", err)
	}

	results := make([]*domain.SavedBook, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		sb, err := s.store.GetSavedBook(ctx, userID, bookID)
		if err != nil {
			// Index can briefly lag behind deletes
			continue
		}
		results = append(results, sb)
	}

	return results, nil
}

// Stats recomputes library statistics from the stored rows.
func (s *LibraryService) Stats(ctx context.Context, userID string) (*domain.LibraryStats, error) {
	books, err := s.store.ListSavedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books for stats: %w", err)
	}

	stats := &domain.LibraryStats{
		TotalBooks:   len(books),
		StatusCounts: make(map[string]int),
	}

	ratedCount := 0
	ratingSum := 0
	for _, sb := range books {
		stats.StatusCounts[string(sb.Status)]++
		switch sb.Status {
		case domain.StatusRead:
			stats.BooksRead++
		case domain.StatusCurrentlyReading:
			stats.CurrentlyReading++
		case domain.StatusWantToRead:
			stats.WantToRead++
		}
		if sb.UserRating != nil {
			ratedCount++
			ratingSum += *sb.UserRating
		}
	}

	if ratedCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(ratedCount)
	}

	stats.TopGenres = recommend.TopGenres(books, 3)

	return stats, nil
}

// RebuildSearchIndex re-indexes every user's saved books.
// Run on startup when the index was rebuilt from scratch.
func (s *LibraryService) RebuildSearchIndex(ctx context.Context) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	total := 0
	for _, user := range users {
		books, err := s.store.ListSavedBooks(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list books for %s: %w", user.ID, err)
		}
		if err := s.searchIndex.IndexAll(ctx, books); err != nil {
			return fmt.Errorf("index books for %s: %w", user.ID, err)
		}
		total += len(books)
	}

	if s.logger != nil {
		s.logger.Info("Rebuilt library search index", "books", total)
	}

	return nil
}

// bumpReadingGoal adds a finished book to the user's goal for the current
// year, if one exists. Missing goals and write failures never block the
// library write that triggered the bump.
func (s *LibraryService) bumpReadingGoal(ctx context.Context, userID string, pages int) {
	year := time.Now().Year()

	goal, err := s.store.GetReadingGoal(ctx, userID, year)
	if err != nil {
		return
	}

	goal.RecordFinishedBook(pages)

	if err := s.store.UpsertReadingGoal(ctx, goal); err != nil && s.logger != nil {
		s.logger.Warn("failed to update reading goal",
			"user_id", userID,
			"year", year,
			"error", err,
		)
	}
}

// cacheCoverAsync downloads and caches the book's cover in the background,
// then writes the computed BlurHash back onto the saved book.
func (s *LibraryService) cacheCoverAsync(userID string, book domain.Book) {
	if s.downloader == nil || book.CoverURL == "" {
		return
	}

	go func() {
		ctx := context.Background()

		hash, err := s.downloader.Download(ctx, book.ID, book.CoverURL)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to cache cover",
					"book_id", book.ID,
					"error", err,
				)
			}
			return
		}
		if hash == "" {
			return
		}

		sb, err := s.store.GetSavedBook(ctx, userID, book.ID)
		if err != nil {
			return // removed in the meantime
		}
		sb.Book.CoverBlurHash = hash
		if err := s.store.UpsertSavedBook(ctx, sb); err != nil && s.logger != nil {
			s.logger.Warn("failed to store cover blurhash", "book_id", book.ID, "error", err)
		}
	}()
}

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

// WishlistService manages a user's wishlist of books to acquire later.
type WishlistService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// AddToWishlistRequest contains the book and optional wishlist metadata.
type AddToWishlistRequest struct {
	Book       domain.Book `json:"book" validate:"required"`
	UserRating *int        `json:"user_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Comments   string      `json:"comments,omitempty" validate:"omitempty,max=10000"`
	Priority   int         `json:"priority,omitempty" validate:"omitempty,gte=1,lte=5"`
	Tags       []string    `json:"tags,omitempty" validate:"omitempty,dive,max=64"`
}

// UpdateWishlistItemRequest contains optional updates. Only non-nil fields
// are applied.
type UpdateWishlistItemRequest struct {
	UserRating *int     `json:"user_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Comments   *string  `json:"comments,omitempty" validate:"omitempty,max=10000"`
	Priority   *int     `json:"priority,omitempty" validate:"omitempty,gte=1,lte=5"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,dive,max=64"`
}

// MoveToLibraryRequest carries the reading status for a wishlist book being
// moved to the library.
type MoveToLibraryRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=want_to_read currently_reading read"`
}

// Add puts a book on the user's wishlist, overwriting any existing entry for
// the same book. Last write wins.
func (s *WishlistService) Add(ctx context.Context, userID string, req AddToWishlistRequest) (*domain.WishlistItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Book.ID == "" || req.Book.Title == "" {
		return nil, domainerrors.Validation("book id and title are required")
	}

	item := domain.NewWishlistItem(userID, req.Book)
	item.UserRating = req.UserRating
	item.Comments = req.Comments
	item.Priority = req.Priority
	item.Tags = req.Tags

	if err := s.store.UpsertWishlistItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book added to wishlist", "user_id", userID, "book_id", req.Book.ID)
	}

	return item, nil
}

// Update applies a partial update to a wishlist item.
func (s *WishlistService) Update(ctx context.Context, userID, bookID string, req UpdateWishlistItemRequest) (*domain.WishlistItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.store.GetWishlistItem(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if req.UserRating != nil {
		item.UserRating = req.UserRating
	}
	if req.Comments != nil {
		item.Comments = *req.Comments
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.Tags != nil {
		item.Tags = req.Tags
	}
	item.Touch()

	if err := s.store.UpsertWishlistItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update wishlist item: %w", err)
	}

	return item, nil
}

// Remove deletes a book from the wishlist. Idempotent.
func (s *WishlistService) Remove(ctx context.Context, userID, bookID string) error {
	if err := s.store.DeleteWishlistItem(ctx, userID, bookID); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

// List returns the user's wishlist.
func (s *WishlistService) List(ctx context.Context, userID string) ([]*domain.WishlistItem, error) {
	items, err := s.store.ListWishlistItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

// MoveToLibrary atomically moves a wishlist book into the library. The
// wishlist entry must exist; ratings, tags and notes carry over. When the
// move fails the wishlist entry is untouched.
func (s *WishlistService) MoveToLibrary(ctx context.Context, userID, bookID string, req MoveToLibraryRequest) (*domain.SavedBook, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.store.GetWishlistItem(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	sb := domain.NewSavedBook(userID, item.Book, domain.ReadingStatus(req.Status))
	sb.UserRating = item.UserRating
	sb.Notes = item.Comments
	sb.Tags = item.Tags
	sb.Priority = item.Priority

	if err := s.store.MoveWishlistItemToLibrary(ctx, userID, bookID, sb); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Book moved from wishlist to library",
			"user_id", userID,
			"book_id", bookID,
			"status", sb.Status,
		)
	}

	return sb, nil
}

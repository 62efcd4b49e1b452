package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

func (s *Server) registerWishlistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listWishlist",
		Method:      http.MethodGet,
		Path:        "/api/v1/wishlist",
		Summary:     "List wishlist",
		Description: "Returns the user's wishlist",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToWishlist",
		Method:      http.MethodPost,
		Path:        "/api/v1/wishlist",
		Summary:     "Add to wishlist",
		Description: "Adds a book to the user's wishlist. Adding the same book again overwrites the entry.",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateWishlistItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/wishlist/{bookID}",
		Summary:     "Update wishlist item",
		Description: "Updates rating, comments, priority or tags on a wishlist entry",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateWishlistItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromWishlist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/wishlist/{bookID}",
		Summary:     "Remove from wishlist",
		Description: "Removes a book from the user's wishlist",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveWishlistItemToLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/wishlist/{bookID}/move",
		Summary:     "Move to library",
		Description: "Atomically moves a wishlist book into the library, carrying over rating, comments and tags",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMoveToLibrary)
}

// === DTOs ===

// ListWishlistInput contains parameters for listing the wishlist.
type ListWishlistInput struct {
	Authorization string `header:"Authorization"`
}

// WishlistResponse contains the user's wishlist.
type WishlistResponse struct {
	Items []*domain.WishlistItem `json:"items" doc:"Wishlist entries"`
	Total int                    `json:"total" doc:"Number of entries returned"`
}

// WishlistOutput wraps the wishlist for Huma.
type WishlistOutput struct {
	Body WishlistResponse
}

// WishlistItemOutput wraps a single wishlist entry for Huma.
type WishlistItemOutput struct {
	Body domain.WishlistItem
}

// AddToWishlistInput wraps the add request for Huma.
type AddToWishlistInput struct {
	Authorization string `header:"Authorization"`
	Body          service.AddToWishlistRequest
}

// UpdateWishlistItemInput wraps the update request for Huma.
type UpdateWishlistItemInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
	Body          service.UpdateWishlistItemRequest
}

// RemoveFromWishlistInput contains parameters for removing a wishlist entry.
type RemoveFromWishlistInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
}

// MoveToLibraryInput wraps the move request for Huma.
type MoveToLibraryInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
	Body          service.MoveToLibraryRequest
}

// === Handlers ===

func (s *Server) handleListWishlist(ctx context.Context, input *ListWishlistInput) (*WishlistOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Wishlist.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &WishlistOutput{Body: WishlistResponse{Items: items, Total: len(items)}}, nil
}

func (s *Server) handleAddToWishlist(ctx context.Context, input *AddToWishlistInput) (*WishlistItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Wishlist.Add(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &WishlistItemOutput{Body: *item}, nil
}

func (s *Server) handleUpdateWishlistItem(ctx context.Context, input *UpdateWishlistItemInput) (*WishlistItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Wishlist.Update(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}

	return &WishlistItemOutput{Body: *item}, nil
}

func (s *Server) handleRemoveFromWishlist(ctx context.Context, input *RemoveFromWishlistInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Wishlist.Remove(ctx, userID, input.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book removed from wishlist"}}, nil
}

func (s *Server) handleMoveToLibrary(ctx context.Context, input *MoveToLibraryInput) (*SavedBookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sb, err := s.services.Wishlist.MoveToLibrary(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}

	return &SavedBookOutput{Body: *sb}, nil
}

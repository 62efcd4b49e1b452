package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library",
		Summary:     "List library",
		Description: "Returns the user's saved books, optionally filtered by reading status",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/library",
		Summary:     "Save book",
		Description: "Adds a book to the user's library. Saving the same book again overwrites the entry.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/search",
		Summary:     "Search library",
		Description: "Full-text search over the user's saved books",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibraryStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/stats",
		Summary:     "Get library stats",
		Description: "Returns aggregate statistics over the user's library",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLibraryStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSavedBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{bookID}",
		Summary:     "Get saved book",
		Description: "Returns a single book from the user's library",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSavedBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSavedBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{bookID}",
		Summary:     "Update saved book",
		Description: "Updates reading status, rating, notes, tags or progress",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSavedBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeSavedBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/library/{bookID}",
		Summary:     "Remove saved book",
		Description: "Removes a book from the user's library",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveSavedBook)
}

// === DTOs ===

// ListLibraryInput contains parameters for listing the library.
type ListLibraryInput struct {
	Authorization string `header:"Authorization"`
	Status        string `query:"status" enum:"want_to_read,currently_reading,read" doc:"Filter by reading status"`
}

// SavedBookOutput wraps a single saved book for Huma.
type SavedBookOutput struct {
	Body domain.SavedBook
}

// LibraryResponse contains the user's saved books.
type LibraryResponse struct {
	Books []*domain.SavedBook `json:"books" doc:"Saved books"`
	Total int                 `json:"total" doc:"Number of books returned"`
}

// LibraryOutput wraps the library list for Huma.
type LibraryOutput struct {
	Body LibraryResponse
}

// SaveBookInput wraps the save request for Huma.
type SaveBookInput struct {
	Authorization string `header:"Authorization"`
	Body          service.SaveBookRequest
}

// GetSavedBookInput contains parameters for fetching a saved book.
type GetSavedBookInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
}

// UpdateSavedBookInput wraps the update request for Huma.
type UpdateSavedBookInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
	Body          service.UpdateBookRequest
}

// RemoveSavedBookInput contains parameters for removing a saved book.
type RemoveSavedBookInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookID" doc:"Book ID"`
}

// SearchLibraryInput contains parameters for searching the library.
type SearchLibraryInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" required:"true" doc:"Search query"`
	Limit         int    `query:"limit" doc:"Maximum results (default 50)"`
}

// LibraryStatsInput contains parameters for library stats.
type LibraryStatsInput struct {
	Authorization string `header:"Authorization"`
}

// LibraryStatsOutput wraps the stats response for Huma.
type LibraryStatsOutput struct {
	Body domain.LibraryStats
}

// === Handlers ===

func (s *Server) handleListLibrary(ctx context.Context, input *ListLibraryInput) (*LibraryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Library.ListBooks(ctx, userID, input.Status)
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: LibraryResponse{Books: books, Total: len(books)}}, nil
}

func (s *Server) handleSaveBook(ctx context.Context, input *SaveBookInput) (*SavedBookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sb, err := s.services.Library.SaveBook(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &SavedBookOutput{Body: *sb}, nil
}

func (s *Server) handleGetSavedBook(ctx context.Context, input *GetSavedBookInput) (*SavedBookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sb, err := s.services.Library.GetBook(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}

	return &SavedBookOutput{Body: *sb}, nil
}

func (s *Server) handleUpdateSavedBook(ctx context.Context, input *UpdateSavedBookInput) (*SavedBookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sb, err := s.services.Library.UpdateBook(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}

	return &SavedBookOutput{Body: *sb}, nil
}

func (s *Server) handleRemoveSavedBook(ctx context.Context, input *RemoveSavedBookInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.RemoveBook(ctx, userID, input.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book removed from library"}}, nil
}

func (s *Server) handleSearchLibrary(ctx context.Context, input *SearchLibraryInput) (*LibraryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Library.SearchLibrary(ctx, userID, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: LibraryResponse{Books: books, Total: len(books)}}, nil
}

func (s *Server) handleLibraryStats(ctx context.Context, input *LibraryStatsInput) (*LibraryStatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Library.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &LibraryStatsOutput{Body: *stats}, nil
}

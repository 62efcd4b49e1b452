package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search for books",
		Description: "Sends a natural-language query to the discovery engine and records it in search history",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordSearchClick",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/{searchID}/clicks",
		Summary:     "Record result click",
		Description: "Attributes a clicked result to a previous search. Unknown search IDs are ignored.",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRecordClick)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSearchHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/history",
		Summary:     "Get search history",
		Description: "Returns the user's recent searches, newest first",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchHistory)
}

// === DTOs ===

// SearchRequest is the request body for a book search.
type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500" doc:"Natural-language search query"`
	Mood  string `json:"mood,omitempty" validate:"omitempty,max=50" doc:"Optional mood hint (cozy, adventurous, ...)"`
}

// SearchInput wraps the search request for Huma.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Body          SearchRequest
}

// SearchResponse contains search results and attribution metadata.
type SearchResponse struct {
	SearchID       string        `json:"search_id,omitempty" doc:"History record ID, used for click attribution. Empty for stale responses."`
	Query          string        `json:"query" doc:"The query as executed"`
	Books          []domain.Book `json:"books" doc:"Matching books"`
	TotalResults   int           `json:"total_results" doc:"Total result count"`
	ProcessingTime string        `json:"processing_time" doc:"Upstream processing time"`
	Fallback       bool          `json:"fallback" doc:"Whether results came from the local fallback catalog"`
	Stale          bool          `json:"stale,omitempty" doc:"Set when a newer search superseded this one"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// ClickRequest is the request body for recording a result click.
type ClickRequest struct {
	BookID     string   `json:"book_id" validate:"required" doc:"Clicked book ID"`
	Title      string   `json:"title" validate:"required" doc:"Clicked book title"`
	Authors    []string `json:"authors,omitempty" doc:"Clicked book authors"`
	Categories []string `json:"categories,omitempty" doc:"Clicked book categories"`
	Rating     float64  `json:"rating,omitempty" doc:"Clicked book average rating"`
}

// ClickInput wraps the click request for Huma.
type ClickInput struct {
	Authorization string `header:"Authorization"`
	SearchID      string `path:"searchID" doc:"Search record ID"`
	Body          ClickRequest
}

// SearchHistoryInput contains parameters for listing search history.
type SearchHistoryInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Maximum entries to return (default 50)"`
}

// ClickedBookResponse describes a clicked search result.
type ClickedBookResponse struct {
	BookID     string    `json:"book_id" doc:"Book ID"`
	Title      string    `json:"title" doc:"Book title"`
	Authors    []string  `json:"authors,omitempty" doc:"Book authors"`
	Categories []string  `json:"categories,omitempty" doc:"Book categories"`
	Rating     float64   `json:"rating,omitempty" doc:"Book average rating"`
	ClickedAt  time.Time `json:"clicked_at" doc:"Click time"`
}

// SearchRecordResponse is one entry in search history.
type SearchRecordResponse struct {
	ID             string                `json:"id" doc:"Search record ID"`
	Query          string                `json:"query" doc:"Search query"`
	ResultsCount   int                   `json:"results_count" doc:"Number of results returned"`
	ClickedBooks   []ClickedBookResponse `json:"clicked_books,omitempty" doc:"Results the user opened"`
	Mood           string                `json:"mood,omitempty" doc:"Mood hint used for the search"`
	Fallback       bool                  `json:"fallback,omitempty" doc:"Whether the search was served from the fallback catalog"`
	ProcessingTime string                `json:"processing_time,omitempty" doc:"Upstream processing time"`
	CreatedAt      time.Time             `json:"created_at" doc:"Search time"`
}

// SearchHistoryResponse contains the user's search history.
type SearchHistoryResponse struct {
	Searches []SearchRecordResponse `json:"searches" doc:"Recent searches, newest first"`
}

// SearchHistoryOutput wraps the search history response for Huma.
type SearchHistoryOutput struct {
	Body SearchHistoryResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Search.Search(ctx, userID, service.SearchRequest{
		Query: input.Body.Query,
		Mood:  input.Body.Mood,
	})
	if err != nil {
		return nil, err
	}

	return &SearchOutput{
		Body: SearchResponse{
			SearchID:       resp.SearchID,
			Query:          resp.Query,
			Books:          resp.Books,
			TotalResults:   resp.TotalResults,
			ProcessingTime: resp.ProcessingTime,
			Fallback:       resp.Fallback,
			Stale:          resp.Stale,
		},
	}, nil
}

func (s *Server) handleRecordClick(ctx context.Context, input *ClickInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	err = s.services.History.RecordClick(ctx, userID, input.SearchID, service.ClickRequest{
		BookID:     input.Body.BookID,
		Title:      input.Body.Title,
		Authors:    input.Body.Authors,
		Categories: input.Body.Categories,
		Rating:     input.Body.Rating,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Click recorded"}}, nil
}

func (s *Server) handleSearchHistory(ctx context.Context, input *SearchHistoryInput) (*SearchHistoryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	records, err := s.services.History.List(ctx, userID, input.Limit)
	if err != nil {
		return nil, err
	}

	resp := make([]SearchRecordResponse, len(records))
	for i, r := range records {
		clicks := make([]ClickedBookResponse, len(r.ClickedBooks))
		for j, c := range r.ClickedBooks {
			clicks[j] = ClickedBookResponse{
				BookID:     c.BookID,
				Title:      c.Title,
				Authors:    c.Authors,
				Categories: c.Categories,
				Rating:     c.Rating,
				ClickedAt:  c.ClickedAt,
			}
		}
		resp[i] = SearchRecordResponse{
			ID:             r.ID,
			Query:          r.Query,
			ResultsCount:   r.ResultsCount,
			ClickedBooks:   clicks,
			Mood:           r.Metadata.Mood,
			Fallback:       r.Metadata.Fallback,
			ProcessingTime: r.Metadata.ProcessingTime,
			CreatedAt:      r.CreatedAt,
		}
	}

	return &SearchHistoryOutput{Body: SearchHistoryResponse{Searches: resp}}, nil
}

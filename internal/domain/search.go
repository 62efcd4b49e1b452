package domain

import "time"

// ClickedBook records a single result the user opened from a search. It keeps
// a snapshot of the result's descriptive fields so history survives the result
// set expiring.
type ClickedBook struct {
	BookID     string    `json:"book_id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	ClickedAt  time.Time `json:"clicked_at"`
}

// SearchMetadata carries optional upstream details about how a search was served.
type SearchMetadata struct {
	ProcessingTime string `json:"processing_time,omitempty"`
	TotalResults   int    `json:"total_results,omitempty"`
	Fallback       bool   `json:"fallback,omitempty"`
	Mood           string `json:"mood,omitempty"`
}

// SearchRecord is one entry in a user's search history. ClickedBooks is
// append-only; clicks are attributed by the record's ID, which is returned to
// the client alongside the result set.
type SearchRecord struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Query        string         `json:"query"`
	ResultsCount int            `json:"results_count"`
	ClickedBooks []ClickedBook  `json:"clicked_books,omitempty"`
	Metadata     SearchMetadata `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SearchRecordKey generates composite key: "userID:search:searchID"
func SearchRecordKey(userID, searchID string) string {
	return userID + ":search:" + searchID
}

// NewSearchRecord creates a search history record with timestamps set.
func NewSearchRecord(id, userID, query string, resultsCount int, meta SearchMetadata) *SearchRecord {
	now := time.Now()
	return &SearchRecord{
		ID:           id,
		UserID:       userID,
		Query:        query,
		ResultsCount: resultsCount,
		Metadata:     meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddClick appends a clicked book to the record.
func (r *SearchRecord) AddClick(book ClickedBook) {
	if book.ClickedAt.IsZero() {
		book.ClickedAt = time.Now()
	}
	r.ClickedBooks = append(r.ClickedBooks, book)
	r.UpdatedAt = time.Now()
}

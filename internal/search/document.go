// Package search provides the Bleve-backed index over a user's saved books,
// so library search works entirely offline.
package search

import (
	"strings"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

// Document is the indexed representation of a saved book. Documents are
// scoped per user; the index ID is "userID:bookID".
type Document struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	BookID     string   `json:"book_id"`
	Title      string   `json:"title"`
	Authors    string   `json:"authors"`
	Categories []string `json:"categories"`
	Notes      string   `json:"notes"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

// DocumentID builds the index ID for a user+book.
func DocumentID(userID, bookID string) string {
	return userID + ":" + bookID
}

// NewDocument converts a saved book into its indexed form.
func NewDocument(sb *domain.SavedBook) *Document {
	return &Document{
		ID:         DocumentID(sb.UserID, sb.Book.ID),
		UserID:     sb.UserID,
		BookID:     sb.Book.ID,
		Title:      sb.Book.Title,
		Authors:    strings.Join(sb.Book.Authors, " "),
		Categories: sb.Book.Categories,
		Notes:      sb.Notes,
		Tags:       sb.Tags,
		Status:     string(sb.Status),
	}
}

// ToMap converts the document to a map so field names match the mapping.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"id":         d.ID,
		"user_id":    d.UserID,
		"book_id":    d.BookID,
		"title":      d.Title,
		"authors":    d.Authors,
		"categories": d.Categories,
		"notes":      d.Notes,
		"tags":       d.Tags,
		"status":     d.Status,
	}
}

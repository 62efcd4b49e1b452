// Package domain contains the core business entities and domain logic for the ShelfLife book discovery server.
package domain

import "strings"

// Book represents a book as returned by the discovery webhook or stored in a
// user's library. It is a snapshot: once saved, the copy in the library does
// not track upstream changes.
type Book struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Authors          []string `json:"authors,omitempty"`
	Description      string   `json:"description,omitempty"`
	CoverURL         string   `json:"cover_url,omitempty"`
	CoverBlurHash    string   `json:"cover_blurhash,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	RatingsCount     int      `json:"ratings_count,omitempty"`
	SimilarityScore  float64  `json:"similarity_score,omitempty"` // 0-1, relevance assigned by the discovery webhook
	Categories       []string `json:"categories,omitempty"`
	Publisher        string   `json:"publisher,omitempty"`
	PublishedDate    string   `json:"published_date,omitempty"`
	PageCount        int      `json:"page_count,omitempty"`
	ISBN             string   `json:"isbn,omitempty"`
	Language         string   `json:"language,omitempty"`
	PreviewLink      string   `json:"preview_link,omitempty"`
	AIRecommendation string   `json:"ai_recommendation,omitempty"`
}

// PrimaryAuthor returns the first listed author, or empty if unknown.
func (b *Book) PrimaryAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// HasCategory reports whether the book lists a category containing the given
// substring, case-insensitively.
func (b *Book) HasCategory(substr string) bool {
	substr = strings.ToLower(substr)
	for _, c := range b.Categories {
		if strings.Contains(strings.ToLower(c), substr) {
			return true
		}
	}
	return false
}

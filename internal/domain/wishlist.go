package domain

import "time"

// WishlistItem is a book on a user's wishlist, keyed by (user, book).
// Like SavedBook it carries a snapshot of the book and upserts last-writer-wins.
type WishlistItem struct {
	UserID string `json:"user_id"`
	Book   Book   `json:"book"`

	UserRating *int     `json:"user_rating,omitempty"` // 1-5, nil = unrated
	Comments   string   `json:"comments,omitempty"`
	Priority   int      `json:"priority,omitempty"` // 1-5
	Tags       []string `json:"tags,omitempty"`

	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WishlistItemID generates composite key: "userID:wish:bookID"
func WishlistItemID(userID, bookID string) string {
	return userID + ":wish:" + bookID
}

// NewWishlistItem creates a wishlist item with timestamps set.
func NewWishlistItem(userID string, book Book) *WishlistItem {
	now := time.Now()
	return &WishlistItem{
		UserID:    userID,
		Book:      book,
		AddedAt:   now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (w *WishlistItem) Touch() {
	w.UpdatedAt = time.Now()
}

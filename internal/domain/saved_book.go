package domain

import "time"

// ReadingStatus represents where a saved book sits in the user's reading life.
type ReadingStatus string

const (
	// StatusWantToRead marks a book the user intends to read.
	StatusWantToRead ReadingStatus = "want_to_read"
	// StatusCurrentlyReading marks a book the user is reading now.
	StatusCurrentlyReading ReadingStatus = "currently_reading"
	// StatusRead marks a finished book.
	StatusRead ReadingStatus = "read"
)

// Valid reports whether the status is one of the known values.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusCurrentlyReading, StatusRead:
		return true
	}
	return false
}

// SavedBook is a book in a user's personal library, keyed by (user, book).
// Writes are upserts with last-writer-wins semantics.
type SavedBook struct {
	UserID string `json:"user_id"`
	Book   Book   `json:"book"`

	IsRead          bool          `json:"is_read"`
	Status          ReadingStatus `json:"status"`
	ReadingProgress int           `json:"reading_progress"`     // 0-100 percent
	UserRating      *int          `json:"user_rating,omitempty"` // 1-5, nil = unrated
	Notes           string        `json:"notes,omitempty"`
	Tags            []string      `json:"tags,omitempty"`
	Priority        int           `json:"priority,omitempty"` // 1-5

	SavedAt   time.Time  `json:"saved_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SavedBookID generates composite key: "userID:saved:bookID"
func SavedBookID(userID, bookID string) string {
	return userID + ":saved:" + bookID
}

// NewSavedBook creates a saved book with defaults applied.
func NewSavedBook(userID string, book Book, status ReadingStatus) *SavedBook {
	now := time.Now()
	if status == "" {
		status = StatusWantToRead
	}
	sb := &SavedBook{
		UserID:    userID,
		Book:      book,
		Status:    status,
		SavedAt:   now,
		UpdatedAt: now,
	}
	if status == StatusRead {
		sb.markRead(now)
	}
	return sb
}

// SetStatus transitions the book to a new status, keeping IsRead, progress
// and ReadAt consistent with it.
func (sb *SavedBook) SetStatus(status ReadingStatus) {
	sb.Status = status
	now := time.Now()
	if status == StatusRead {
		sb.markRead(now)
	} else {
		sb.IsRead = false
		sb.ReadAt = nil
	}
	sb.UpdatedAt = now
}

func (sb *SavedBook) markRead(now time.Time) {
	sb.IsRead = true
	sb.ReadingProgress = 100
	if sb.ReadAt == nil {
		sb.ReadAt = &now
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (sb *SavedBook) Touch() {
	sb.UpdatedAt = time.Now()
}

// LibraryStats summarizes a user's library. Recomputed from the stored rows
// after every mutation, never incrementally maintained.
type LibraryStats struct {
	TotalBooks       int            `json:"total_books"`
	BooksRead        int            `json:"books_read"`
	CurrentlyReading int            `json:"currently_reading"`
	WantToRead       int            `json:"want_to_read"`
	AverageRating    float64        `json:"average_rating"` // over rated books only, 0 when none
	TopGenres        []string       `json:"top_genres,omitempty"`
	StatusCounts     map[string]int `json:"status_counts"`
}

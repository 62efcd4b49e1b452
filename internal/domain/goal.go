package domain

import (
	"strconv"
	"time"
)

// ReadingGoal is a per-user, per-year target. One row per (user, year),
// upserted on change. CurrentBooks is bumped when a saved book transitions
// to read.
type ReadingGoal struct {
	UserID       string    `json:"user_id"`
	Year         int       `json:"year"`
	TargetBooks  int       `json:"target_books"`
	CurrentBooks int       `json:"current_books"`
	TargetPages  int       `json:"target_pages,omitempty"`
	CurrentPages int       `json:"current_pages,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReadingGoalID generates composite key: "userID:goal:year"
func ReadingGoalID(userID string, year int) string {
	return userID + ":goal:" + strconv.Itoa(year)
}

// NewReadingGoal creates a goal for the given year with timestamps set.
func NewReadingGoal(userID string, year, targetBooks, targetPages int) *ReadingGoal {
	now := time.Now()
	return &ReadingGoal{
		UserID:      userID,
		Year:        year,
		TargetBooks: targetBooks,
		TargetPages: targetPages,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordFinishedBook bumps progress for a finished book.
func (g *ReadingGoal) RecordFinishedBook(pages int) {
	g.CurrentBooks++
	g.CurrentPages += pages
	g.UpdatedAt = time.Now()
}

// Touch updates the UpdatedAt timestamp to the current time.
func (g *ReadingGoal) Touch() {
	g.UpdatedAt = time.Now()
}

// Completed reports whether the books target has been met.
func (g *ReadingGoal) Completed() bool {
	return g.TargetBooks > 0 && g.CurrentBooks >= g.TargetBooks
}

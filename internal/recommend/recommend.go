// Package recommend builds heuristic book recommendations from a user's
// library and recent searches. Generate is a pure function: no I/O, no
// clock, deterministic for a given input.
package recommend

import (
	"fmt"
	"strings"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const (
	topGenreCount  = 3
	topAuthorCount = 2

	// defaultAverageRating stands in when the user hasn't rated anything.
	defaultAverageRating = 4.0
)

// Input carries everything Generate needs. RecentQueries should be ordered
// newest first, though the order only affects keyword matching, not ranking.
type Input struct {
	SavedBooks    []*domain.SavedBook
	RecentQueries []string
}

// Recommendation is one suggested direction for the user, rendered as a
// pseudo-book entry so clients can reuse their result card UI.
type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Reason      string   `json:"reason"`
	Categories  []string `json:"categories,omitempty"`
	Author      string   `json:"author,omitempty"`
	SearchQuery string   `json:"search_query"`
}

// Generate produces the recommendation list:
//
//  1. Count genre frequency over saved books, one count per book-genre pair.
//  2. Count author frequency the same way.
//  3. Average the user's ratings (rated books only, 4.0 when none).
//  4. Emit conditional entries in fixed order: science fiction, fantasy,
//     favorite author, highly rated in top genre.
//  5. If nothing matched, emit two fixed fallback entries.
func Generate(in Input) []Recommendation {
	topGenres := topN(genreCounts(in.SavedBooks), topGenreCount)
	topAuthors := topN(authorCounts(in.SavedBooks), topAuthorCount)
	avgRating := AverageUserRating(in.SavedBooks)

	var recs []Recommendation

	if matchesInterest(topGenres, in.RecentQueries, "science fiction", "science") {
		recs = append(recs, Recommendation{
			ID:          "rec-scifi",
			Title:       "New science fiction for you",
			Reason:      "Based on your library and recent searches, you gravitate toward science fiction.",
			Categories:  []string{"Science Fiction"},
			SearchQuery: "acclaimed recent science fiction novels",
		})
	}

	if matchesInterest(topGenres, in.RecentQueries, "fantasy", "fantasy") {
		recs = append(recs, Recommendation{
			ID:          "rec-fantasy",
			Title:       "Fantasy worlds to explore",
			Reason:      "Fantasy features heavily in what you save and search for.",
			Categories:  []string{"Fantasy"},
			SearchQuery: "immersive fantasy series with strong worldbuilding",
		})
	}

	if len(topAuthors) > 0 {
		author := topAuthors[0]
		recs = append(recs, Recommendation{
			ID:          "rec-author",
			Title:       fmt.Sprintf("More from %s", author),
			Reason:      fmt.Sprintf("%s shows up most in your library.", author),
			Author:      author,
			SearchQuery: fmt.Sprintf("books by %s or similar authors", author),
		})
	}

	if len(topGenres) > 0 && avgRating >= defaultAverageRating {
		genre := topGenres[0]
		recs = append(recs, Recommendation{
			ID:          "rec-highly-rated",
			Title:       fmt.Sprintf("Highly rated %s picks", genre),
			Reason:      "You rate books generously, so here are critically loved picks in your top genre.",
			Categories:  []string{genre},
			SearchQuery: fmt.Sprintf("highest rated %s books", genre),
		})
	}

	if len(recs) == 0 {
		return fallbackRecommendations()
	}

	return recs
}

// AverageUserRating is the mean of the user's own ratings, over rated books
// only. Returns 4.0 when no saved book carries a rating.
func AverageUserRating(books []*domain.SavedBook) float64 {
	var sum, count float64
	for _, sb := range books {
		if sb.UserRating != nil {
			sum += float64(*sb.UserRating)
			count++
		}
	}
	if count == 0 {
		return defaultAverageRating
	}
	return sum / count
}

// TopGenres returns the user's n most common genres, ties in first-seen
// order. Shared with library statistics.
func TopGenres(books []*domain.SavedBook, n int) []string {
	return topN(genreCounts(books), n)
}

// genreCounts tallies one count per book-genre pair. A genre listed twice
// on the same book still counts once.
func genreCounts(books []*domain.SavedBook) *orderedCounts {
	counts := newOrderedCounts()
	for _, sb := range books {
		seen := make(map[string]bool, len(sb.Book.Categories))
		for _, genre := range sb.Book.Categories {
			if genre != "" && !seen[genre] {
				seen[genre] = true
				counts.add(genre)
			}
		}
	}
	return counts
}

// authorCounts tallies one count per book-author pair.
func authorCounts(books []*domain.SavedBook) *orderedCounts {
	counts := newOrderedCounts()
	for _, sb := range books {
		seen := make(map[string]bool, len(sb.Book.Authors))
		for _, author := range sb.Book.Authors {
			if author != "" && !seen[author] {
				seen[author] = true
				counts.add(author)
			}
		}
	}
	return counts
}

// matchesInterest reports whether the user's top genres contain the genre
// substring, or any recent query mentions the keyword. Both comparisons are
// case-insensitive.
func matchesInterest(topGenres, recentQueries []string, genreSubstr, queryKeyword string) bool {
	for _, g := range topGenres {
		if strings.Contains(strings.ToLower(g), genreSubstr) {
			return true
		}
	}
	for _, q := range recentQueries {
		if strings.Contains(strings.ToLower(q), queryKeyword) {
			return true
		}
	}
	return false
}

// fallbackRecommendations is the fixed two-entry list for users with no
// signal yet.
func fallbackRecommendations() []Recommendation {
	return []Recommendation{
		{
			ID:          "rec-bestsellers",
			Title:       "Start with the crowd favorites",
			Reason:      "Save a few books and rate them to get personal recommendations.",
			SearchQuery: "current bestselling fiction everyone is talking about",
		},
		{
			ID:          "rec-selfhelp",
			Title:       "Small habits, big changes",
			Reason:      "Popular and practical reads to get your library started.",
			Categories:  []string{"Self-Help"},
			SearchQuery: "most recommended self improvement books",
		},
	}
}

// orderedCounts is a frequency table that remembers first-seen order so
// ties rank stably.
type orderedCounts struct {
	counts map[string]int
	order  []string
}

func newOrderedCounts() *orderedCounts {
	return &orderedCounts{counts: make(map[string]int)}
}

func (c *orderedCounts) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// topN returns the n highest-count keys. Ties keep first-seen order because
// the selection scans in insertion order and only strictly greater counts
// displace earlier picks.
func topN(c *orderedCounts, n int) []string {
	var top []string
	for len(top) < n {
		bestCount := 0
		best := ""
		for _, key := range c.order {
			if contains(top, key) {
				continue
			}
			if c.counts[key] > bestCount {
				bestCount = c.counts[key]
				best = key
			}
		}
		if best == "" {
			break
		}
		top = append(top, best)
	}
	return top
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

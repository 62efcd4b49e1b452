package recommend

import (
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedBook(title string, authors, categories []string, rating *int) *domain.SavedBook {
	return &domain.SavedBook{
		UserID: "user-123",
		Book: domain.Book{
			ID:         "book-" + title,
			Title:      title,
			Authors:    authors,
			Categories: categories,
		},
		UserRating: rating,
	}
}

func intPtr(v int) *int { return &v }

func TestAverageUserRating(t *testing.T) {
	// Mean over rated books only: (5+3)/2 = 4.0, the unrated book is excluded
	books := []*domain.SavedBook{
		savedBook("a", nil, nil, intPtr(5)),
		savedBook("b", nil, nil, intPtr(3)),
		savedBook("c", nil, nil, nil),
	}
	assert.InDelta(t, 4.0, AverageUserRating(books), 0.0001)

	// No rated books defaults to 4.0
	assert.InDelta(t, 4.0, AverageUserRating([]*domain.SavedBook{savedBook("d", nil, nil, nil)}), 0.0001)
	assert.InDelta(t, 4.0, AverageUserRating(nil), 0.0001)

	// All rated
	assert.InDelta(t, 2.0, AverageUserRating([]*domain.SavedBook{
		savedBook("e", nil, nil, intPtr(1)),
		savedBook("f", nil, nil, intPtr(3)),
	}), 0.0001)
}

func TestGenerate_EmptyLibraryGetsFixedFallbacks(t *testing.T) {
	recs := Generate(Input{})

	require.Len(t, recs, 2)
	assert.Equal(t, "rec-bestsellers", recs[0].ID)
	assert.Equal(t, "rec-selfhelp", recs[1].ID)
}

func TestGenerate_SciFiFromLibrary(t *testing.T) {
	in := Input{
		SavedBooks: []*domain.SavedBook{
			savedBook("Dune", []string{"Frank Herbert"}, []string{"Science Fiction"}, intPtr(5)),
			savedBook("Hyperion", []string{"Dan Simmons"}, []string{"Science Fiction"}, nil),
		},
	}

	recs := Generate(in)
	require.NotEmpty(t, recs)
	assert.Equal(t, "rec-scifi", recs[0].ID)
}

func TestGenerate_SciFiFromQueriesAlone(t *testing.T) {
	in := Input{
		RecentQueries: []string{"popular science books about space"},
	}

	recs := Generate(in)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-scifi", recs[0].ID)
}

func TestGenerate_FixedEntryOrder(t *testing.T) {
	// Library hits every condition: sci-fi and fantasy genres, a repeat
	// author, and a generous average rating.
	in := Input{
		SavedBooks: []*domain.SavedBook{
			savedBook("Dune", []string{"Frank Herbert"}, []string{"Science Fiction"}, intPtr(5)),
			savedBook("Dune Messiah", []string{"Frank Herbert"}, []string{"Science Fiction"}, intPtr(4)),
			savedBook("Mistborn", []string{"Brandon Sanderson"}, []string{"Fantasy"}, intPtr(5)),
		},
	}

	recs := Generate(in)
	require.Len(t, recs, 4)
	assert.Equal(t, "rec-scifi", recs[0].ID)
	assert.Equal(t, "rec-fantasy", recs[1].ID)
	assert.Equal(t, "rec-author", recs[2].ID)
	assert.Equal(t, "Frank Herbert", recs[2].Author)
	assert.Equal(t, "rec-highly-rated", recs[3].ID)
	assert.Equal(t, []string{"Science Fiction"}, recs[3].Categories)
}

func TestGenerate_NoHighlyRatedWhenAverageLow(t *testing.T) {
	in := Input{
		SavedBooks: []*domain.SavedBook{
			savedBook("Dune", []string{"Frank Herbert"}, []string{"Science Fiction"}, intPtr(2)),
			savedBook("Hyperion", []string{"Dan Simmons"}, []string{"Science Fiction"}, intPtr(3)),
		},
	}

	recs := Generate(in)
	for _, r := range recs {
		assert.NotEqual(t, "rec-highly-rated", r.ID)
	}
}

func TestGenerate_UnratedLibraryUsesDefaultAverage(t *testing.T) {
	// No ratings at all: average defaults to 4.0, which qualifies for the
	// highly rated entry.
	in := Input{
		SavedBooks: []*domain.SavedBook{
			savedBook("Mistborn", []string{"Brandon Sanderson"}, []string{"Fantasy"}, nil),
		},
	}

	recs := Generate(in)
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, "rec-highly-rated")
}

func TestGenerate_Deterministic(t *testing.T) {
	in := Input{
		SavedBooks: []*domain.SavedBook{
			savedBook("Dune", []string{"Frank Herbert"}, []string{"Science Fiction", "Classics"}, intPtr(5)),
			savedBook("Mistborn", []string{"Brandon Sanderson"}, []string{"Fantasy"}, nil),
		},
		RecentQueries: []string{"epic fantasy", "science books"},
	}

	first := Generate(in)
	for range 10 {
		assert.Equal(t, first, Generate(in))
	}
}

func TestTopN_StableTies(t *testing.T) {
	c := newOrderedCounts()
	// Insertion order: Mystery, Fantasy, Romance, all tied at 2; Horror at 1
	for range 2 {
		c.add("Mystery")
		c.add("Fantasy")
		c.add("Romance")
	}
	c.add("Horror")

	assert.Equal(t, []string{"Mystery", "Fantasy", "Romance"}, topN(c, 3))

	// A strictly higher count displaces the earlier-seen keys
	c.add("Romance")
	assert.Equal(t, []string{"Romance", "Mystery", "Fantasy"}, topN(c, 3))

	// Asking for more than exists returns everything
	assert.Len(t, topN(c, 10), 4)
}

func TestGenreCounts_OnePerBookGenrePair(t *testing.T) {
	books := []*domain.SavedBook{
		savedBook("a", nil, []string{"Fantasy", "Fantasy"}, nil),
		savedBook("b", nil, []string{"Fantasy"}, nil),
	}

	counts := genreCounts(books)
	// A duplicate genre listed twice on one book counts once for that book
	assert.Equal(t, 2, counts.counts["Fantasy"])
}

package discovery

import "github.com/shelflifeapp/shelflife-server/internal/domain"

// Result is the outcome of a discovery search. Fallback indicates the results
// came from the local catalog rather than the webhook; an empty Books slice
// with Fallback=false is a genuine empty result from upstream.
type Result struct {
	Books          []domain.Book `json:"books"`
	TotalResults   int           `json:"total_results"`
	ProcessingTime string        `json:"processing_time"`
	Query          string        `json:"query"`
	Fallback       bool          `json:"fallback"`
}

// webhookRequest is the wire format the recommendation webhook expects.
type webhookRequest struct {
	Body webhookRequestBody `json:"body"`
}

type webhookRequestBody struct {
	Query string `json:"query"`
}

// webhookResponse is the wire format the recommendation webhook returns.
// Success must be present and true for the response to count.
type webhookResponse struct {
	Success        bool          `json:"success"`
	Results        []webhookBook `json:"results"`
	TotalResults   int           `json:"totalResults"`
	ProcessingTime string        `json:"processingTime"`
	Query          string        `json:"query"`
}

type webhookBook struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Authors          []string `json:"authors"`
	Description      string   `json:"description"`
	CoverURL         string   `json:"coverUrl"`
	Rating           float64  `json:"rating"`
	RatingsCount     int      `json:"ratingsCount"`
	SimilarityScore  float64  `json:"similarityScore"`
	Categories       []string `json:"categories"`
	Publisher        string   `json:"publisher"`
	PublishedDate    string   `json:"publishedDate"`
	PageCount        int      `json:"pageCount"`
	ISBN             string   `json:"isbn"`
	Language         string   `json:"language"`
	PreviewLink      string   `json:"previewLink"`
	AIRecommendation string   `json:"aiRecommendation"`
}

// toDomain converts a webhook book into the domain type, normalizing any
// HTML the upstream model produced into Markdown.
func (b webhookBook) toDomain() domain.Book {
	return domain.Book{
		ID:               b.ID,
		Title:            b.Title,
		Authors:          b.Authors,
		Description:      htmlToMarkdown(b.Description),
		CoverURL:         b.CoverURL,
		Rating:           b.Rating,
		RatingsCount:     b.RatingsCount,
		SimilarityScore:  b.SimilarityScore,
		Categories:       b.Categories,
		Publisher:        b.Publisher,
		PublishedDate:    b.PublishedDate,
		PageCount:        b.PageCount,
		ISBN:             b.ISBN,
		Language:         b.Language,
		PreviewLink:      b.PreviewLink,
		AIRecommendation: htmlToMarkdown(b.AIRecommendation),
	}
}

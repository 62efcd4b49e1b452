package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

// mappingVersion is incremented whenever the index mapping changes.
// This triggers an automatic rebuild on startup when the version doesn't match.
const mappingVersion = "1"

// Index wraps a Bleve index over saved books.
//
// Thread safety: all public methods are safe for concurrent use. The mutex
// protects against index corruption during rebuild operations.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses stderr text handler if nil)
}

// NewIndex creates or opens the library search index.
// A corrupted index or a mapping version mismatch triggers a rebuild.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "library.bleve")
	versionPath := filepath.Join(opts.DataPath, "library.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild with current mapping",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		indexMapping := buildIndexMapping()
		index, err = bleve.New(indexPath, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexSavedBook indexes a saved book. Implements store.SearchIndexer.
func (s *Index) IndexSavedBook(ctx context.Context, sb *domain.SavedBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := NewDocument(sb)
	// Convert to map to ensure field names match the mapping (lowercase)
	return s.index.Index(doc.ID, doc.ToMap())
}

// DeleteSavedBook removes a saved book from the index. Implements store.SearchIndexer.
func (s *Index) DeleteSavedBook(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(DocumentID(userID, bookID))
}

// IndexAll indexes a batch of saved books. Used for the startup rebuild.
func (s *Index) IndexAll(ctx context.Context, books []*domain.SavedBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(books); i += batchSize {
		end := min(i+batchSize, len(books))

		batch := s.index.NewBatch()
		for _, sb := range books[i:end] {
			doc := NewDocument(sb)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// Search runs a full-text query over one user's saved books and returns
// matching book IDs in relevance order.
func (s *Index) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	// Scope to the user with an exact term filter, then match the query
	// text across the analyzed fields.
	userQuery := bleve.NewTermQuery(userID)
	userQuery.SetField("user_id")

	textQuery := bleve.NewMatchQuery(query)

	combined := bleve.NewConjunctionQuery(userQuery, textQuery)

	req := bleve.NewSearchRequestOptions(combined, limit, 0, false)
	req.Fields = []string{"book_id"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if bookID, ok := hit.Fields["book_id"].(string); ok {
			ids = append(ids, bookID)
		}
	}

	return ids, nil
}

// DocumentCount returns the total number of indexed documents.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

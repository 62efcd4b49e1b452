package discovery

import (
	"encoding/json/v2"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

// defaultCatalog is the embedded fallback result set served when the webhook
// is unreachable or returns garbage. Deterministic so clients always get
// something sensible to render.
var defaultCatalog = []domain.Book{
	{
		ID:               "fallback-1",
		Title:            "The Midnight Library",
		Authors:          []string{"Matt Haig"},
		Description:      "Between life and death there is a library, and within that library, the shelves go on forever. Every book provides a chance to try another life you could have lived.",
		CoverURL:         "https://books.google.com/books/content?id=ho-rDwAAQBAJ&printsec=frontcover&img=1&zoom=1",
		Rating:           4.2,
		RatingsCount:     12034,
		Categories:       []string{"Fiction", "Fantasy"},
		Publisher:        "Viking",
		PublishedDate:    "2020-08-13",
		PageCount:        304,
		AIRecommendation: "A warm, philosophical story about regret and second chances that suits almost any reader.",
	},
	{
		ID:               "fallback-2",
		Title:            "Project Hail Mary",
		Authors:          []string{"Andy Weir"},
		Description:      "Ryland Grace is the sole survivor on a desperate, last-chance mission. Except that right now, he doesn't know that. He can't even remember his own name.",
		CoverURL:         "https://books.google.com/books/content?id=Hdt_DwAAQBAJ&printsec=frontcover&img=1&zoom=1",
		Rating:           4.5,
		RatingsCount:     9876,
		Categories:       []string{"Science Fiction"},
		Publisher:        "Ballantine Books",
		PublishedDate:    "2021-05-04",
		PageCount:        496,
		AIRecommendation: "Problem-solving science fiction with real heart, ideal if you enjoyed The Martian.",
	},
	{
		ID:               "fallback-3",
		Title:            "Atomic Habits",
		Authors:          []string{"James Clear"},
		Description:      "No matter your goals, Atomic Habits offers a proven framework for improving every day through tiny changes in behavior.",
		CoverURL:         "https://books.google.com/books/content?id=XfFvDwAAQBAJ&printsec=frontcover&img=1&zoom=1",
		Rating:           4.4,
		RatingsCount:     15890,
		Categories:       []string{"Self-Help"},
		Publisher:        "Avery",
		PublishedDate:    "2018-10-16",
		PageCount:        320,
		AIRecommendation: "A practical, widely loved guide to building better habits one small step at a time.",
	},
}

// Catalog serves the fallback result set. The embedded default can be
// overridden by a JSON file on disk, which is hot-reloaded on change so
// operators can curate fallback results without a restart.
type Catalog struct {
	mu      sync.RWMutex
	books   []domain.Book
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewCatalog creates a catalog. If path is non-empty and the file exists, it
// replaces the embedded defaults and is watched for changes. A missing or
// malformed file falls back to the defaults.
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	c := &Catalog{
		books:  defaultCatalog,
		path:   path,
		logger: logger,
	}

	if path == "" {
		return c
	}

	c.loadFile()
	c.watch()

	return c
}

// Books returns a copy of the current fallback catalog.
func (c *Catalog) Books() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	books := make([]domain.Book, len(c.books))
	copy(books, c.books)
	return books
}

// Close stops the file watcher if one is running.
func (c *Catalog) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// loadFile reads the catalog override file, keeping current books on any failure.
func (c *Catalog) loadFile() {
	//#nosec G304 -- Catalog path comes from server configuration
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) && c.logger != nil {
			c.logger.Warn("failed to read fallback catalog file", "path", c.path, "error", err)
		}
		return
	}

	var books []domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		if c.logger != nil {
			c.logger.Warn("invalid fallback catalog file, keeping current catalog", "path", c.path, "error", err)
		}
		return
	}

	if len(books) == 0 {
		return
	}

	c.mu.Lock()
	c.books = books
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("loaded fallback catalog from file", "path", c.path, "books", len(books))
	}
}

// watch starts an fsnotify watcher on the catalog file's directory.
// Watching the directory instead of the file survives editor rename-on-save.
func (c *Catalog) watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("failed to create catalog watcher", "error", err)
		}
		return
	}

	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		if c.logger != nil {
			c.logger.Warn("failed to watch catalog directory", "dir", dir, "error", err)
		}
		_ = watcher.Close()
		return
	}

	c.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(c.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					c.loadFile()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if c.logger != nil {
					c.logger.Warn("catalog watcher error", "error", err)
				}
			}
		}
	}()
}

package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/logger"
	"github.com/shelflifeapp/shelflife-server/internal/search"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve library search index and wires it
// into the store so library writes keep it in sync.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the library index in the background
// when it is empty but saved books exist. Should be called after all services
// are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	libraryService := do.MustInvoke[*service.LibraryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	users, err := storeHandle.ListUsers(ctx)
	if err != nil || len(users) == 0 {
		return
	}

	hasBooks := false
	for _, user := range users {
		books, err := storeHandle.ListSavedBooks(ctx, user.ID)
		if err == nil && len(books) > 0 {
			hasBooks = true
			break
		}
	}
	if !hasBooks {
		return
	}

	log.Info("Search index is empty but saved books exist, triggering reindex")

	go func() {
		if err := libraryService.RebuildSearchIndex(context.Background()); err != nil {
			log.Error("Library search reindex failed", "error", err)
		}
	}()
}

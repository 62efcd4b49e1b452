package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/covers"
	"github.com/shelflifeapp/shelflife-server/internal/logger"
)

// ProvideCoverStorage provides the on-disk cover image storage.
func ProvideCoverStorage(i do.Injector) (*covers.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := covers.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("Cover storage initialized", "path", cfg.Data.BasePath)

	return storage, nil
}

// ProvideCoverDownloader provides the cover downloader used to cache cover
// art for saved books.
func ProvideCoverDownloader(i do.Injector) (*covers.Downloader, error) {
	storage := do.MustInvoke[*covers.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewDownloader(storage, log.Logger), nil
}

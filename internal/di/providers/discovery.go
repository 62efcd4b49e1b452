package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/discovery"
	"github.com/shelflifeapp/shelflife-server/internal/logger"
)

// CatalogHandle wraps the fallback catalog with shutdown capability so its
// file watcher is released on exit.
type CatalogHandle struct {
	*discovery.Catalog
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalog provides the fallback book catalog.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	catalog := discovery.NewCatalog(cfg.Discovery.CatalogPath, log.Logger)

	if cfg.Discovery.CatalogPath != "" {
		log.Info("Fallback catalog loaded from file", "path", cfg.Discovery.CatalogPath)
	}

	return &CatalogHandle{Catalog: catalog}, nil
}

// DiscoveryClientHandle wraps the webhook client with shutdown capability.
type DiscoveryClientHandle struct {
	*discovery.Client
}

// Shutdown implements do.Shutdownable.
func (h *DiscoveryClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideDiscoveryClient provides the recommendation webhook client.
func ProvideDiscoveryClient(i do.Injector) (*DiscoveryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)

	client := discovery.New(cfg.Discovery.WebhookURL, catalogHandle.Catalog, log.Logger)

	if cfg.Discovery.WebhookURL == "" {
		log.Warn("No webhook URL configured, all searches serve the fallback catalog")
	} else {
		log.Info("Discovery webhook configured", "url", cfg.Discovery.WebhookURL)
	}

	return &DiscoveryClientHandle{Client: client}, nil
}

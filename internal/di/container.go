// Package di provides dependency injection configuration for the ShelfLife server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelflifeapp/shelflife-server/internal/auth"
	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/di/providers"
	"github.com/shelflifeapp/shelflife-server/internal/logger"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Discovery layer
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideDiscoveryClient)

	// Storage layer
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverDownloader)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideInstanceService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideHistoryService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideWishlistService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.CatalogHandle](injector)
	_ = do.MustInvoke[*providers.DiscoveryClientHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.InstanceService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.HistoryService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.WishlistService](injector)
	_ = do.MustInvoke[*service.GoalService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	// Rebuild the library search index if it came up empty
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}

package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelflifeapp/shelflife-server/internal/auth"
	"github.com/shelflifeapp/shelflife-server/internal/config"
	"github.com/shelflifeapp/shelflife-server/internal/covers"
	"github.com/shelflifeapp/shelflife-server/internal/logger"
	"github.com/shelflifeapp/shelflife-server/internal/service"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

// ProvideInstanceService provides the instance service.
func ProvideInstanceService(i do.Injector) (*service.InstanceService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	cfg := do.MustInvoke[*config.Config](i)

	return service.NewInstanceService(storeHandle.Store, log.Logger, cfg), nil
}

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	instanceService := do.MustInvoke[*service.InstanceService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, instanceService, validator, log.Logger), nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideSearchService provides the book search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*DiscoveryClientHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(storeHandle.Store, clientHandle.Client, validator, log.Logger), nil
}

// ProvideHistoryService provides the search history service.
func ProvideHistoryService(i do.Injector) (*service.HistoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHistoryService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideLibraryService provides the personal library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	downloader := do.MustInvoke[*covers.Downloader](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, indexHandle.Index, downloader, validator, log.Logger), nil
}

// ProvideWishlistService provides the wishlist service.
func ProvideWishlistService(i do.Injector) (*service.WishlistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWishlistService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideGoalService provides the reading goal service.
func ProvideGoalService(i do.Injector) (*service.GoalService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGoalService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(storeHandle.Store, log.Logger), nil
}

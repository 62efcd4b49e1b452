package api

import (
	"github.com/shelflifeapp/shelflife-server/internal/covers"
	"github.com/shelflifeapp/shelflife-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Instance       *service.InstanceService
	Auth           *service.AuthService
	Session        *service.SessionService
	User           *service.UserService
	Search         *service.SearchService
	History        *service.HistoryService
	Library        *service.LibraryService
	Wishlist       *service.WishlistService
	Goal           *service.GoalService
	Recommendation *service.RecommendationService
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	Covers *covers.Storage // Cached book cover images
}

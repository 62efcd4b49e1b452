// Package api implements the HTTP API server for ShelfLife.
//
// Routes are registered through huma for OpenAPI generation and request
// validation, mounted on a chi router. All JSON responses are wrapped in a
// versioned envelope by EnvelopeTransformer.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelflifeapp/shelflife-server/internal/search"
	"github.com/shelflifeapp/shelflife-server/internal/store"
)

// Server handles HTTP requests for the ShelfLife API.
type Server struct {
	store           *store.Store
	services        *Services
	storage         *StorageServices
	searchIndex     *search.Index
	router          chi.Router
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
}

// NewServer creates a configured API server with all routes registered.
func NewServer(st *store.Store, services *Services, storage *StorageServices, searchIndex *search.Index, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Credential endpoints get a tighter per-IP limit than the rest of the API.
	authRateLimiter := NewRateLimiter(20, time.Minute, 10)
	router.Use(limitAuthRoutes(authRateLimiter, logger))

	humaConfig := huma.DefaultConfig("ShelfLife API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		storage:         storage,
		searchIndex:     searchIndex,
		router:          router,
		api:             humaAPI,
		logger:          logger,
		authRateLimiter: authRateLimiter,
	}

	s.registerHealthRoutes()
	s.registerInstanceRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerSearchRoutes()
	s.registerLibraryRoutes()
	s.registerWishlistRoutes()
	s.registerGoalRoutes()
	s.registerRecommendationRoutes()
	s.registerCoverRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// limitAuthRoutes applies the rate limiter to authentication endpoints only.
func limitAuthRoutes(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := RateLimitMiddleware(limiter, logger)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/v1/auth/") {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

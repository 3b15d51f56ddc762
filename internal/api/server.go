// Package api provides the HTTP API server and handlers for the Watchlog application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/watchlogapp/watchlog-server/internal/config"
	"github.com/watchlogapp/watchlog-server/internal/ratelimit"
	"github.com/watchlogapp/watchlog-server/internal/store"
)

// apiVersion reported in the OpenAPI document.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store         *store.Store
	services      *Services
	router        *chi.Mux
	api           huma.API
	logger        *slog.Logger
	searchLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(userIDMiddleware)

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", apiVersion)
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:         st,
		services:      services,
		router:        router,
		api:           api,
		logger:        logger,
		searchLimiter: ratelimit.New(cfg.Search.RateRPS, cfg.Search.RateBurst),
	}

	s.registerHealthRoutes()
	s.registerEntryRoutes()
	s.registerCatalogRoutes()
	s.registerSearchRoutes()
	s.registerTransferRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources. The HTTP listener itself is owned by
// the caller.
func (s *Server) Close() {
	s.searchLimiter.Stop()
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable result"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

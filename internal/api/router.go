// Package api provides the HTTP management API for metarwatch.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/api/handler"
	"github.com/metarwatch/metarwatch/internal/api/middleware"
	"github.com/metarwatch/metarwatch/internal/auth"
	"github.com/metarwatch/metarwatch/internal/history"
	"github.com/metarwatch/metarwatch/internal/owner"
	"github.com/metarwatch/metarwatch/internal/station"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	AuthService    *auth.Service
	Stations       station.Repository
	Owners         owner.Repository
	HistoryService *history.Service
	ReadyChecks    []handler.DependencyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "metarwatch-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadyChecks...)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	stationHandler := handler.NewStationHandler(cfg.Stations)
	ownerHandler := handler.NewOwnerHandler(cfg.Owners)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min
	adminRateLimit := middleware.RateLimitByAdmin(middleware.StandardRateLimit) // 100 req/min per admin

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/bootstrap", authHandler.Bootstrap)
			r.Post("/login", authHandler.Login)
			r.Post("/reset", authHandler.RequestPasswordReset)
			r.Post("/reset/confirm", authHandler.ConfirmPasswordReset)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Station config endpoints (authenticated)
		r.Route("/stations", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminRateLimit)
			r.Get("/", stationHandler.ListStations)
			r.Route("/{stationId}", func(r chi.Router) {
				r.Get("/", stationHandler.GetStation)
				r.Put("/", stationHandler.PutStation)
				r.Delete("/", stationHandler.DeleteStation)
			})
		})

		// Owner config endpoints (authenticated)
		r.Route("/owners", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminRateLimit)
			r.Get("/", ownerHandler.ListOwners)
			r.Route("/{ownerId}", func(r chi.Router) {
				r.Get("/", ownerHandler.GetOwner)
				r.Put("/", ownerHandler.PutOwner)
				r.Delete("/", ownerHandler.DeleteOwner)
			})
		})

		// History endpoints (authenticated) - standard rate limiting
		r.Route("/history", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/runs", historyHandler.ListRuns)
			r.Get("/metars", historyHandler.ListObservations)
		})
	})

	return r
}

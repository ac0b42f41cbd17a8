// Package api provides the HTTP API for the licensing engine.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/michaeldubu/quantum-licensing-engine/internal/api/handlers"
	"github.com/michaeldubu/quantum-licensing-engine/internal/api/middleware"
	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
)

// Config holds configuration for the API router.
type Config struct {
	// RateLimitRequests is the number of requests allowed per period. Zero disables limiting.
	RateLimitRequests int64
	RateLimitPeriod   time.Duration
	// Gatherer backs the /metrics endpoint. Nil disables it.
	Gatherer prometheus.Gatherer
	// Version information for the health and version endpoints.
	Version   string
	Commit    string
	BuildDate string
}

// DefaultConfig returns a Config with sensible defaults for development.
func DefaultConfig() Config {
	return Config{
		RateLimitRequests: 100,
		RateLimitPeriod:   time.Minute,
		Version:           "dev",
		Commit:            "unknown",
		BuildDate:         "unknown",
	}
}

// Router wraps a Gin engine with configured middleware and routes.
type Router struct {
	Engine *gin.Engine
	logger zerolog.Logger
}

// NewRouter creates a new Router serving the given licensing engine.
func NewRouter(cfg Config, eng *engine.Engine, logger zerolog.Logger) (*Router, error) {
	r := &Router{
		Engine: gin.New(),
		logger: logger.With().Str("component", "router").Logger(),
	}

	// Global middleware
	r.Engine.Use(gin.Recovery())
	r.Engine.Use(middleware.RequestLogger(logger))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitPeriod)
	if err != nil {
		return nil, err
	}

	info := handlers.VersionInfo{Version: cfg.Version, Commit: cfg.Commit, BuildDate: cfg.BuildDate}
	handlers.NewHealthHandler(eng.Catalog(), info, logger).RegisterPublicRoutes(r.Engine)

	if cfg.Gatherer != nil {
		handlers.NewMetricsHandler(cfg.Gatherer, logger).RegisterPublicRoutes(r.Engine)
	}

	// Health and metrics are not rate limited.
	apiV1 := r.Engine.Group("/api/v1")
	apiV1.Use(rateLimiter)
	handlers.NewLicensingHandler(eng, logger).RegisterRoutes(apiV1)

	r.logger.Debug().
		Int64("rate_limit_requests", cfg.RateLimitRequests).
		Dur("rate_limit_period", cfg.RateLimitPeriod).
		Bool("metrics", cfg.Gatherer != nil).
		Msg("router configured")

	return r, nil
}

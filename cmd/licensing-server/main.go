// Package main is the entrypoint for the licensing HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/michaeldubu/quantum-licensing-engine/internal/api"
	"github.com/michaeldubu/quantum-licensing-engine/internal/config"
	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
	"github.com/michaeldubu/quantum-licensing-engine/internal/metrics"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func newLogger(cfg config.ServerConfig) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("version", Version).Logger()
	if !cfg.IsProduction() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

func run() int {
	cfg := config.LoadServerConfig()
	logger := newLogger(cfg)

	logger.Info().
		Str("version", Version).
		Str("commit", Commit).
		Str("build_date", BuildDate).
		Str("environment", string(cfg.Environment)).
		Msg("Starting licensing server")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	routerCfg := api.DefaultConfig()
	routerCfg.RateLimitRequests = cfg.RateLimitRequests
	routerCfg.RateLimitPeriod = cfg.RateLimitPeriod
	routerCfg.Version = Version
	routerCfg.Commit = Commit
	routerCfg.BuildDate = BuildDate

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := metrics.NewPrometheusMetrics(reg)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to register metrics")
			return 1
		}
		engineOpts = append(engineOpts, engine.WithRecorder(m))
		routerCfg.Gatherer = reg
	}

	eng, err := config.LoadEngine(cfg.PricingConfig, engineOpts...)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.PricingConfig).Msg("Failed to load pricing configuration")
		return 1
	}
	logger.Info().
		Int("tiers", len(eng.Catalog().Tiers())).
		Bool("custom_pricing", cfg.PricingConfig != "").
		Msg("Pricing catalog loaded")

	router, err := api.NewRouter(routerCfg, eng, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create router")
		return 1
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("HTTP server error")
		return 1
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
		return 1
	}

	logger.Info().Msg("Server stopped gracefully")
	return 0
}

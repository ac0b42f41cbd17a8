package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
)

// VersionInfo contains server version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status  string      `json:"status"`
	Tiers   int         `json:"tiers"`
	Version VersionInfo `json:"version"`
}

// HealthHandler handles health and version endpoints.
type HealthHandler struct {
	catalog *catalog.Catalog
	info    VersionInfo
	logger  zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cat *catalog.Catalog, info VersionInfo, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: cat,
		info:    info,
		logger:  logger.With().Str("component", "health_handler").Logger(),
	}
}

// RegisterPublicRoutes registers health and version routes.
func (h *HealthHandler) RegisterPublicRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/version", h.Version)
}

// Health reports whether the server has a usable catalog loaded.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.catalog == nil || len(h.catalog.Tiers()) == 0 {
		h.logger.Error().Msg("health check failed: no catalog loaded")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Version: h.info})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Tiers:   len(h.catalog.Tiers()),
		Version: h.info,
	})
}

// Version returns the server version information.
// GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
	"github.com/michaeldubu/quantum-licensing-engine/internal/marketing"
)

// QuoteRequest is the request body for creating a license quote.
type QuoteRequest struct {
	CompanyName string `json:"company_name"`
	Tier        string `json:"tier" binding:"required"`
	Users       int    `json:"users"`
	TermMonths  int    `json:"term_months"`
}

// ForecastQuery holds the query parameters of the forecast endpoint. Either
// Tier or Start selects the starting monthly revenue.
type ForecastQuery struct {
	Tier   string `form:"tier"`
	Start  string `form:"start"`
	Months *int   `form:"months" binding:"omitempty,min=1,max=120"`
	Growth string `form:"growth"`
}

// ForecastResponse is the response for the forecast endpoint.
type ForecastResponse struct {
	Start      decimal.Decimal  `json:"start"`
	Months     int              `json:"months"`
	GrowthRate decimal.Decimal  `json:"growth_rate"`
	Points     []forecast.Point `json:"points"`
	Summary    forecast.Summary `json:"summary"`
}

// TiersResponse lists the catalog.
type TiersResponse struct {
	Tiers     []catalog.Tier            `json:"tiers"`
	Discounts []catalog.DiscountBracket `json:"discounts"`
}

// LicensingHandler exposes the licensing engine over HTTP.
type LicensingHandler struct {
	engine *engine.Engine
	now    func() time.Time
	logger zerolog.Logger
}

// NewLicensingHandler creates a new LicensingHandler.
func NewLicensingHandler(eng *engine.Engine, logger zerolog.Logger) *LicensingHandler {
	return &LicensingHandler{
		engine: eng,
		now:    time.Now,
		logger: logger.With().Str("component", "licensing_handler").Logger(),
	}
}

// RegisterRoutes registers licensing routes on the given router group.
func (h *LicensingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/tiers", h.ListTiers)
	r.GET("/tiers/:id", h.GetTier)
	r.POST("/quotes", h.CreateQuote)
	r.GET("/forecast", h.Forecast)
	r.GET("/timeline", h.Timeline)
}

// ListTiers returns every tier and discount bracket.
// GET /api/v1/tiers
func (h *LicensingHandler) ListTiers(c *gin.Context) {
	cat := h.engine.Catalog()
	c.JSON(http.StatusOK, TiersResponse{Tiers: cat.Tiers(), Discounts: cat.Brackets()})
}

// GetTier returns a single tier.
// GET /api/v1/tiers/:id
func (h *LicensingHandler) GetTier(c *gin.Context) {
	tier, err := h.engine.Catalog().Resolve(catalog.TierID(c.Param("id")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tier)
}

// CreateQuote issues a license and returns it with its quote and forecast.
// POST /api/v1/quotes
func (h *LicensingHandler) CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	res, err := h.engine.Evaluate(engine.Request{
		CompanyName: req.CompanyName,
		TierID:      catalog.TierID(req.Tier),
		UserCount:   req.Users,
		TermMonths:  req.TermMonths,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.logger.Info().
		Str("license_id", res.License.ID.String()).
		Str("tier", string(res.License.Tier.ID)).
		Msg("quote issued")

	c.JSON(http.StatusCreated, res)
}

// Forecast projects monthly revenue from a tier's base fee or a given start.
// GET /api/v1/forecast?tier=ENTERPRISE or ?start=1000&months=12&growth=0.15
// Horizons and precision are bounded by forecast.CheckRequest.
func (h *LicensingHandler) Forecast(c *gin.Context) {
	var q ForecastQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err)
		return
	}

	start, err := h.forecastStart(q)
	if err != nil {
		var bad badRequestError
		if errors.As(err, &bad) {
			abortBadRequest(c, err)
		} else {
			abortWithError(c, err)
		}
		return
	}

	f := h.engine.Forecaster()
	months := f.Months()
	if q.Months != nil {
		months = *q.Months
	}
	growth := f.GrowthRate()
	if q.Growth != "" {
		growth, err = decimal.NewFromString(q.Growth)
		if err != nil {
			abortBadRequest(c, badRequestError{fmt.Sprintf("invalid growth %q", q.Growth)})
			return
		}
	}

	if err := forecast.CheckRequest(start, months, growth); err != nil {
		abortBadRequest(c, err)
		return
	}

	points, err := h.engine.Project(start, months, growth)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ForecastResponse{
		Start:      start,
		Months:     months,
		GrowthRate: growth,
		Points:     points,
		Summary:    forecast.Summarize(points),
	})
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func (h *LicensingHandler) forecastStart(q ForecastQuery) (decimal.Decimal, error) {
	switch {
	case q.Tier != "" && q.Start != "":
		return decimal.Zero, badRequestError{"tier and start are mutually exclusive"}
	case q.Tier != "":
		tier, err := h.engine.Catalog().Resolve(catalog.TierID(q.Tier))
		if err != nil {
			return decimal.Zero, err
		}
		return tier.BaseMonthlyFee, nil
	case q.Start != "":
		start, err := decimal.NewFromString(q.Start)
		if err != nil {
			return decimal.Zero, badRequestError{fmt.Sprintf("invalid start %q", q.Start)}
		}
		return start, nil
	default:
		return decimal.Zero, badRequestError{"tier or start is required"}
	}
}

// Timeline returns the dated marketing launch plan.
// GET /api/v1/timeline?start=2026-03-01
func (h *LicensingHandler) Timeline(c *gin.Context) {
	start := h.now().UTC()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			abortBadRequest(c, badRequestError{fmt.Sprintf("invalid start date %q, want YYYY-MM-DD", raw)})
			return
		}
		start = parsed
	}

	c.JSON(http.StatusOK, marketing.Schedule(start))
}

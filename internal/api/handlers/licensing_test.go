package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
	"github.com/michaeldubu/quantum-licensing-engine/internal/marketing"
)

func setupLicensingTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLicensingHandler(engine.New(catalog.Default()), zerolog.Nop())
	h.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestListTiers(t *testing.T) {
	r := setupLicensingTestRouter()

	w := doRequest(r, "GET", "/api/v1/tiers", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp TiersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tiers, 5)
	assert.Equal(t, catalog.TierBasic, resp.Tiers[0].ID)
	assert.Equal(t, catalog.Unlimited, resp.Tiers[4].APICallsPerSecond)
	require.Len(t, resp.Discounts, 3)
	assert.Equal(t, 100, resp.Discounts[1].Threshold)
}

func TestGetTier(t *testing.T) {
	r := setupLicensingTestRouter()

	t.Run("case insensitive lookup", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/tiers/enterprise", "")
		require.Equal(t, http.StatusOK, w.Code)

		var tier catalog.Tier
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tier))
		assert.Equal(t, catalog.TierEnterprise, tier.ID)
		assert.Equal(t, "250000.00", tier.BaseMonthlyFee.StringFixed(2))
	})

	t.Run("unknown tier", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/tiers/GOLD", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "unknown_tier", decodeError(t, w).Error)
	})
}

func TestCreateQuote(t *testing.T) {
	r := setupLicensingTestRouter()

	w := doRequest(r, "POST", "/api/v1/quotes",
		`{"company_name":"TechCorp","tier":"ENTERPRISE","users":100,"term_months":12}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res engine.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.License)
	require.NotNil(t, res.Quote)

	assert.Equal(t, "TechCorp", res.License.CompanyName)
	assert.True(t, strings.HasPrefix(res.License.AccessCredential, "saam-api-"))
	assert.True(t, strings.HasPrefix(res.License.LicenseKey, "SAAAM-"))
	assert.Equal(t, "300000.00", res.Quote.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "3600000.00", res.Quote.TotalCost.StringFixed(2))
	require.Len(t, res.Forecast, 12)
	assert.Equal(t, "1163097.85", res.Forecast[11].ProjectedRevenue.StringFixed(2))

	var raw struct {
		Quote map[string]any `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw.Quote, "license", "the quote must not repeat the license")
}

func TestCreateQuote_Errors(t *testing.T) {
	r := setupLicensingTestRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"tier":`, http.StatusBadRequest, "invalid_request"},
		{"missing tier", `{"company_name":"Acme","users":1,"term_months":1}`, http.StatusBadRequest, "invalid_request"},
		{"unknown tier", `{"company_name":"Acme","tier":"GOLD","users":1,"term_months":1}`, http.StatusNotFound, "unknown_tier"},
		{"empty company", `{"company_name":"  ","tier":"BASIC","users":1,"term_months":1}`, http.StatusBadRequest, "invalid_company_name"},
		{"zero users", `{"company_name":"Acme","tier":"BASIC","users":0,"term_months":1}`, http.StatusBadRequest, "invalid_quantity"},
		{"negative term", `{"company_name":"Acme","tier":"BASIC","users":1,"term_months":-2}`, http.StatusBadRequest, "invalid_quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, "POST", "/api/v1/quotes", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
		})
	}
}

func TestForecast(t *testing.T) {
	r := setupLicensingTestRouter()

	t.Run("from start amount", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/forecast?start=1000&months=12&growth=0.15", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp ForecastResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Points, 12)
		assert.Equal(t, "1000.00", resp.Points[0].ProjectedRevenue.StringFixed(2))
		assert.Equal(t, "4652.39", resp.Points[11].ProjectedRevenue.StringFixed(2))
		assert.Equal(t, 12, resp.Summary.Months)
	})

	t.Run("longest horizon", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/forecast?start=1000&months=120&growth=0.000001", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp ForecastResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Points, forecast.MaxRequestMonths)
	})

	t.Run("from tier with defaults", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/forecast?tier=basic", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp ForecastResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, forecast.DefaultMonths, resp.Months)
		assert.True(t, resp.GrowthRate.Equal(forecast.DefaultGrowthRate))
		assert.True(t, resp.Start.Equal(decimal.NewFromInt(10000)))
	})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"no start", "", http.StatusBadRequest, "invalid_request"},
		{"both tier and start", "?tier=BASIC&start=10", http.StatusBadRequest, "invalid_request"},
		{"bad start", "?start=abc", http.StatusBadRequest, "invalid_request"},
		{"bad growth", "?start=10&growth=fast", http.StatusBadRequest, "invalid_request"},
		{"bad months", "?start=10&months=twelve", http.StatusBadRequest, "invalid_request"},
		{"zero months", "?start=10&months=0", http.StatusBadRequest, "invalid_request"},
		{"months past bound", "?start=1000&months=10000", http.StatusBadRequest, "invalid_request"},
		{"months just past bound", "?start=1000&months=121", http.StatusBadRequest, "invalid_request"},
		{"growth too precise", "?start=1000&months=12&growth=0.12345678901234567890123456789", http.StatusBadRequest, "invalid_request"},
		{"start too precise", "?start=1000.0000001&months=12", http.StatusBadRequest, "invalid_request"},
		{"growth at -1", "?start=10&growth=-1", http.StatusBadRequest, "invalid_parameter"},
		{"unknown tier", "?tier=GOLD", http.StatusNotFound, "unknown_tier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, "GET", "/api/v1/forecast"+tt.query, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
		})
	}
}

func TestTimeline(t *testing.T) {
	r := setupLicensingTestRouter()

	t.Run("explicit start", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/timeline?start=2026-05-01", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Start       time.Time `json:"start"`
			TotalDays   int       `json:"total_days"`
			TotalImpact any       `json:"total_impact"`
			Phases      []struct {
				Name string `json:"name"`
			} `json:"phases"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Start.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)), "start = %v", resp.Start)
		assert.Equal(t, 143, resp.TotalDays)
		assert.Equal(t, "unlimited", resp.TotalImpact)
		require.Len(t, resp.Phases, 5)
		assert.Equal(t, marketing.PhaseTeaser, resp.Phases[0].Name)
	})

	t.Run("defaults to today", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/timeline", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"start":"2026-03-01T00:00:00Z"`)
	})

	t.Run("bad date", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/v1/timeline?start=03/01/2026", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decodeError(t, w).Error)
	})
}

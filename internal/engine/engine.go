// Package engine composes the catalog, issuer, quote calculator and
// forecaster into a single call that returns structured results.
package engine

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
	"github.com/michaeldubu/quantum-licensing-engine/internal/license"
	"github.com/michaeldubu/quantum-licensing-engine/internal/quote"
)

// Request describes one licensing evaluation.
type Request struct {
	CompanyName string         `json:"company_name"`
	TierID      catalog.TierID `json:"tier"`
	UserCount   int            `json:"users"`
	TermMonths  int            `json:"term_months"`
}

// Result bundles the license, quote and forecast produced for a Request.
type Result struct {
	License  *license.License `json:"license"`
	Quote    *quote.Quote     `json:"quote"`
	Forecast []forecast.Point `json:"forecast"`
	Summary  forecast.Summary `json:"forecast_summary"`
}

// Recorder observes engine operations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	LicenseIssued(tier catalog.TierID)
	QuoteComputed(q *quote.Quote)
	ForecastComputed(months int)
	EvaluationFailed(stage string, err error)
	ObserveDuration(operation string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) LicenseIssued(catalog.TierID)          {}
func (nopRecorder) QuoteComputed(*quote.Quote)            {}
func (nopRecorder) ForecastComputed(int)                  {}
func (nopRecorder) EvaluationFailed(string, error)        {}
func (nopRecorder) ObserveDuration(string, time.Duration) {}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With().Str("component", "licensing_engine").Logger()
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithIssuerOptions passes options to the underlying license issuer.
func WithIssuerOptions(opts ...license.IssuerOption) Option {
	return func(e *Engine) {
		e.issuerOpts = append(e.issuerOpts, opts...)
	}
}

// WithForecaster replaces the default 12-month, 15% forecaster.
func WithForecaster(f *forecast.Forecaster) Option {
	return func(e *Engine) {
		if f != nil {
			e.forecaster = f
		}
	}
}

// Engine is the invocation surface of the licensing core. It is safe for
// concurrent use.
type Engine struct {
	catalog    *catalog.Catalog
	issuer     *license.Issuer
	calculator *quote.Calculator
	forecaster *forecast.Forecaster
	recorder   Recorder
	logger     zerolog.Logger
	issuerOpts []license.IssuerOption
}

// New creates a new engine over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:    cat,
		calculator: quote.NewCalculator(cat),
		forecaster: forecast.New(),
		recorder:   nopRecorder{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.issuer = license.NewIssuer(cat, e.issuerOpts...)
	return e
}

// Catalog returns the catalog the engine prices against.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Forecaster returns the engine's forecaster.
func (e *Engine) Forecaster() *forecast.Forecaster { return e.forecaster }

// Evaluate issues a license, quotes it and forecasts revenue from its
// monthly fee. Any invalid input fails the whole call.
func (e *Engine) Evaluate(req Request) (*Result, error) {
	start := time.Now()
	defer func() {
		e.recorder.ObserveDuration("evaluate", time.Since(start))
	}()

	e.logger.Debug().
		Str("company", req.CompanyName).
		Str("tier", string(req.TierID)).
		Int("users", req.UserCount).
		Int("term_months", req.TermMonths).
		Msg("evaluating license request")

	// Quantities are validated before a license is issued.
	if err := quote.ValidateQuantities(req.UserCount, req.TermMonths); err != nil {
		e.fail("quote", err)
		return nil, err
	}

	lic, err := e.Issue(req.CompanyName, req.TierID)
	if err != nil {
		return nil, err
	}

	q, err := e.Quote(lic, req.UserCount, req.TermMonths)
	if err != nil {
		return nil, err
	}

	points, err := e.Forecast(lic)
	if err != nil {
		return nil, err
	}

	return &Result{
		License:  lic,
		Quote:    q,
		Forecast: points,
		Summary:  forecast.Summarize(points),
	}, nil
}

// Issue issues a license for the company and tier.
func (e *Engine) Issue(companyName string, tierID catalog.TierID) (*license.License, error) {
	lic, err := e.issuer.Issue(companyName, tierID)
	if err != nil {
		e.fail("issue", err)
		return nil, err
	}
	e.recorder.LicenseIssued(lic.Tier.ID)
	e.logger.Debug().
		Str("license_id", lic.ID.String()).
		Str("tier", string(lic.Tier.ID)).
		Msg("license issued")
	return lic, nil
}

// Quote prices a license.
func (e *Engine) Quote(lic *license.License, userCount, termMonths int) (*quote.Quote, error) {
	q, err := e.calculator.Quote(lic, userCount, termMonths)
	if err != nil {
		e.fail("quote", err)
		return nil, err
	}
	e.recorder.QuoteComputed(q)
	return q, nil
}

// Forecast projects revenue from the license's monthly fee.
func (e *Engine) Forecast(lic *license.License) ([]forecast.Point, error) {
	points, err := e.forecaster.Forecast(forecast.MonthlyRevenue(lic))
	if err != nil {
		e.fail("forecast", err)
		return nil, err
	}
	e.recorder.ForecastComputed(len(points))
	return points, nil
}

// Project forecasts revenue from an arbitrary starting amount, bypassing the
// engine's forecaster settings.
func (e *Engine) Project(start decimal.Decimal, months int, growth decimal.Decimal) ([]forecast.Point, error) {
	points, err := forecast.Project(start, months, growth)
	if err != nil {
		e.fail("forecast", err)
		return nil, err
	}
	e.recorder.ForecastComputed(len(points))
	return points, nil
}

func (e *Engine) fail(stage string, err error) {
	e.recorder.EvaluationFailed(stage, err)
	e.logger.Debug().Err(err).Str("stage", stage).Msg("licensing operation rejected")
}

// Package metrics provides Prometheus metrics for licensing operations.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
	"github.com/michaeldubu/quantum-licensing-engine/internal/license"
	"github.com/michaeldubu/quantum-licensing-engine/internal/quote"
)

const namespace = "licensing"

// PrometheusMetrics holds the collectors for engine operations. It satisfies
// engine.Recorder.
type PrometheusMetrics struct {
	LicensesIssued    *prometheus.CounterVec
	QuotesComputed    *prometheus.CounterVec
	QuotedMonthly     *prometheus.HistogramVec
	ForecastsComputed prometheus.Counter
	Failures          *prometheus.CounterVec
	Duration          *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		LicensesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "licenses_issued_total",
			Help:      "Total number of licenses issued, by tier.",
		}, []string{"tier"}),
		QuotesComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Total number of quotes computed, by tier.",
		}, []string{"tier"}),
		QuotedMonthly: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_monthly_payment",
			Help:      "Monthly payment of computed quotes in currency units.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
		}, []string{"tier"}),
		ForecastsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_total",
			Help:      "Total number of revenue forecasts computed.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Total number of rejected operations, by stage and reason.",
		}, []string{"stage", "reason"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of licensing operations in seconds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{
		m.LicensesIssued,
		m.QuotesComputed,
		m.QuotedMonthly,
		m.ForecastsComputed,
		m.Failures,
		m.Duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// LicenseIssued counts an issued license.
func (m *PrometheusMetrics) LicenseIssued(tier catalog.TierID) {
	m.LicensesIssued.WithLabelValues(string(tier)).Inc()
}

// QuoteComputed counts a quote and observes its monthly payment.
func (m *PrometheusMetrics) QuoteComputed(q *quote.Quote) {
	tier := ""
	if q.License != nil {
		tier = string(q.License.Tier.ID)
	}
	m.QuotesComputed.WithLabelValues(tier).Inc()
	m.QuotedMonthly.WithLabelValues(tier).Observe(q.MonthlyPayment.InexactFloat64())
}

// ForecastComputed counts a forecast.
func (m *PrometheusMetrics) ForecastComputed(int) {
	m.ForecastsComputed.Inc()
}

// EvaluationFailed counts a rejected operation.
func (m *PrometheusMetrics) EvaluationFailed(stage string, err error) {
	m.Failures.WithLabelValues(stage, Reason(err)).Inc()
}

// ObserveDuration records how long an operation took.
func (m *PrometheusMetrics) ObserveDuration(operation string, d time.Duration) {
	m.Duration.WithLabelValues(operation).Observe(d.Seconds())
}

// Reason maps an error to a low-cardinality label value.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, catalog.ErrUnknownTier):
		return "unknown_tier"
	case errors.Is(err, license.ErrInvalidCompanyName):
		return "invalid_company_name"
	case errors.Is(err, license.ErrCredentialCollision):
		return "credential_collision"
	case errors.Is(err, quote.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, forecast.ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "internal"
	}
}

// Package reports renders licensing results, tier catalogs and launch
// timelines as human-readable text.
package reports

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
	"github.com/michaeldubu/quantum-licensing-engine/internal/license"
	"github.com/michaeldubu/quantum-licensing-engine/internal/marketing"
	"github.com/michaeldubu/quantum-licensing-engine/internal/money"
)

const dateLayout = "2006-01-02"

// Option configures a Generator.
type Option func(*Generator)

// WithLanguage sets the locale used for number grouping.
func WithLanguage(tag language.Tag) Option {
	return func(g *Generator) {
		g.printer = message.NewPrinter(tag)
	}
}

// WithRevealedCredentials prints access credentials in full instead of masked.
func WithRevealedCredentials() Option {
	return func(g *Generator) {
		g.revealCredentials = true
	}
}

// Generator renders text reports.
type Generator struct {
	logger            zerolog.Logger
	printer           *message.Printer
	revealCredentials bool
}

// NewGenerator creates a new report generator.
func NewGenerator(logger zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		logger:  logger.With().Str("component", "report_generator").Logger(),
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Money formats an amount as currency with grouped thousands and two decimals.
func (g *Generator) Money(d decimal.Decimal) string {
	d = money.Round(d)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(money.Places).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, g.printer.Sprintf("%d", whole.IntPart()), cents)
}

// Count formats an integer with grouped thousands.
func (g *Generator) Count(n int64) string {
	return g.printer.Sprintf("%d", n)
}

func (g *Generator) impact(i marketing.Impact) string {
	if i.IsUnlimited() {
		return i.String()
	}
	return g.Count(int64(i))
}

// MaskCredential hides all but the prefix and last four characters.
func MaskCredential(credential string) string {
	rest, ok := strings.CutPrefix(credential, license.CredentialPrefix)
	if !ok || len(rest) <= 4 {
		return strings.Repeat("*", len(credential))
	}
	return license.CredentialPrefix + strings.Repeat("*", len(rest)-4) + rest[len(rest)-4:]
}

// WriteResult renders a full evaluation: license, quote and forecast. When
// cat is non-nil an upgrade hint for the next tier is appended.
func (g *Generator) WriteResult(w io.Writer, res *engine.Result, cat *catalog.Catalog) error {
	g.logger.Debug().
		Str("tier", string(res.License.Tier.ID)).
		Int("forecast_months", len(res.Forecast)).
		Msg("rendering result report")

	rw := &reportWriter{w: w}
	lic := res.License
	credential := lic.AccessCredential
	if !g.revealCredentials {
		credential = MaskCredential(credential)
	}

	rw.printf("=== Commercial License ===\n")
	rw.printf("Company: %s\n", lic.CompanyName)
	rw.printf("Tier: %s\n", lic.Tier.ID)
	rw.printf("License ID: %s\n", lic.ID)
	rw.printf("License Key: %s\n", lic.LicenseKey)
	rw.printf("Access Credential: %s\n", credential)
	rw.printf("Monthly Fee: %s\n", g.Money(lic.MonthlyFee))
	rw.printf("Valid: %s to %s\n", lic.IssuedAt.Format(dateLayout), lic.ExpiresAt.Format(dateLayout))

	q := res.Quote
	rw.printf("\n=== Customer Quote ===\n")
	rw.printf("Users: %s for %d month(s)\n", g.Count(int64(q.UserCount)), q.TermMonths)
	if q.PricedUserCount != q.UserCount {
		rw.printf("Priced At: %s users\n", g.Count(int64(q.PricedUserCount)))
	}
	rw.printf("Base Monthly Cost: %s\n", g.Money(q.BaseMonthlyCost))
	rw.printf("Volume Discount: %s%%\n", q.DiscountRate.Shift(2).String())
	rw.printf("Monthly Payment: %s\n", g.Money(q.MonthlyPayment))
	rw.printf("Total Cost: %s\n", g.Money(q.TotalCost))

	if rw.err == nil {
		rw.err = g.WriteForecast(w, res.Forecast)
	}

	if cat != nil && rw.err == nil {
		next, ok, err := cat.Upgrade(lic.Tier.ID)
		switch {
		case err != nil:
			g.logger.Warn().Err(err).Msg("upgrade lookup failed")
		case ok:
			rw.printf("\nUpgrade available: %s from %s/month\n", next.ID, g.Money(next.BaseMonthlyFee))
		}
	}

	return rw.err
}

// WriteForecast renders a monthly revenue projection with its summary.
func (g *Generator) WriteForecast(w io.Writer, points []forecast.Point) error {
	rw := &reportWriter{w: w}
	rw.printf("\n=== %d-Month Revenue Forecast ===\n", len(points))
	for _, p := range points {
		rw.printf("Month %d: %s\n", p.MonthIndex, g.Money(p.ProjectedRevenue))
	}
	s := forecast.Summarize(points)
	rw.printf("Total: %s\n", g.Money(s.TotalRevenue))
	return rw.err
}

// WriteTiers renders the catalog as a table.
func (g *Generator) WriteTiers(w io.Writer, tiers []catalog.Tier) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rw := &reportWriter{w: tw}

	rw.printf("TIER\tBASE FEE\tPER USER\tINCLUDED\tAPI CALLS/S\tQUBITS\tFEATURES\n")
	for _, t := range tiers {
		calls := g.Count(int64(t.APICallsPerSecond))
		if t.IsRateUnlimited() {
			calls = "unlimited"
		}
		rw.printf("%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
			t.ID, g.Money(t.BaseMonthlyFee), g.Money(t.PerUserRate), t.IncludedUsers,
			calls, g.Count(int64(t.QuantumAllocation)), len(t.Features))
	}

	if rw.err != nil {
		return rw.err
	}
	return tw.Flush()
}

// WriteTimeline renders the dated marketing launch plan.
func (g *Generator) WriteTimeline(w io.Writer, tl marketing.Timeline) error {
	rw := &reportWriter{w: w}

	rw.printf("=== Launch Timeline ===\n")
	rw.printf("Window: %s to %s\n", tl.Start.Format(dateLayout), tl.End.Format(dateLayout))
	rw.printf("Total Duration: %d days\n", tl.TotalDays)
	rw.printf("Total Impact: %s impressions\n", g.impact(tl.TotalImpact))
	rw.printf("Total Reach: %s audience\n", g.Count(tl.TotalReach))
	rw.printf("Total Investment: %s\n", g.Money(tl.TotalInvestment))

	rw.printf("\n=== Launch Phases ===\n")
	for _, p := range tl.Phases {
		rw.printf("\n%s (%s to %s):\n", p.Name, p.Start.Format(dateLayout), p.End.Format(dateLayout))
		rw.printf("Duration: %d days\n", p.DurationDays)
		rw.printf("Message: %s\n", p.KeyMessage)
		rw.printf("Impact: %s\n", g.impact(p.EstimatedImpact))
		rw.printf("Channels: %s\n", strings.Join(p.Channels, ", "))
		rw.printf("Quantum Demonstrations: %s\n", yesNo(p.QuantumDemonstrations))
		rw.printf("Reality Showcases: %s\n", yesNo(p.RealityShowcases))
	}

	rw.printf("\n=== Key Events ===\n")
	for _, e := range tl.KeyEvents {
		rw.printf("\n%s:\n", e.Name)
		rw.printf("Phase: %s\n", e.Phase)
		rw.printf("Reach: %s\n", g.Count(e.ExpectedReach))
		rw.printf("Impact: %s\n", g.Money(e.EstimatedImpact))
	}

	rw.printf("\n=== Channel Activation ===\n")
	for _, c := range tl.Channels {
		rw.printf("\n%s:\n", c.ID)
		rw.printf("Reach: %s\n", g.Count(c.AudienceReach))
		rw.printf("Impact Multiplier: %sx\n", c.ImpactMultiplier)
		rw.printf("Activation Cost: %s\n", g.Money(c.ActivationCost))
	}

	return rw.err
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// reportWriter keeps the first write error so rendering code stays linear.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

// Package forecast projects monthly revenue under compounding growth.
package forecast

import (
	"errors"
	"fmt"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/michaeldubu/quantum-licensing-engine/internal/license"
	"github.com/michaeldubu/quantum-licensing-engine/internal/money"
)

// ErrInvalidParameter indicates a non-positive horizon or a growth rate at or below -100%.
var ErrInvalidParameter = errors.New("invalid forecast parameter")

const (
	// DefaultMonths is the default forecast horizon.
	DefaultMonths = 12
)

// DefaultGrowthRate is the default compounding monthly growth (15%).
var DefaultGrowthRate = decimal.RequireFromString("0.15")

// Point is one month of projected revenue.
type Point struct {
	MonthIndex       int             `json:"month_index"`
	ProjectedRevenue decimal.Decimal `json:"projected_revenue"`
}

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithGrowthRate overrides DefaultGrowthRate.
func WithGrowthRate(rate decimal.Decimal) Option {
	return func(f *Forecaster) {
		f.growth = rate
	}
}

// WithMonths overrides DefaultMonths.
func WithMonths(months int) Option {
	return func(f *Forecaster) {
		f.months = months
	}
}

// Forecaster holds a horizon and growth rate. It has no other state and is
// safe for concurrent use.
type Forecaster struct {
	months int
	growth decimal.Decimal
}

// New creates a new forecaster with the given options.
func New(opts ...Option) *Forecaster {
	f := &Forecaster{
		months: DefaultMonths,
		growth: DefaultGrowthRate,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Months returns the forecast horizon.
func (f *Forecaster) Months() int { return f.months }

// GrowthRate returns the monthly growth rate.
func (f *Forecaster) GrowthRate() decimal.Decimal { return f.growth }

// Forecast returns the projection starting at the given monthly revenue.
func (f *Forecaster) Forecast(start decimal.Decimal) ([]Point, error) {
	return Project(start, f.months, f.growth)
}

// Points returns a lazy projection. The sequence can be ranged over any
// number of times and yields the same points each time.
func (f *Forecaster) Points(start decimal.Decimal) (iter.Seq[Point], error) {
	return Sequence(start, f.months, f.growth)
}

// Project returns months points where point i is start * (1+growth)^(i-1),
// each rounded to cents on its own.
func Project(start decimal.Decimal, months int, growth decimal.Decimal) ([]Point, error) {
	seq, err := Sequence(start, months, growth)
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, months)
	for p := range seq {
		points = append(points, p)
	}
	return points, nil
}

// Sequence is the lazy form of Project.
func Sequence(start decimal.Decimal, months int, growth decimal.Decimal) (iter.Seq[Point], error) {
	if err := validate(months, growth); err != nil {
		return nil, err
	}

	factor := decimal.NewFromInt(1).Add(growth)
	return func(yield func(Point) bool) {
		for i := 1; i <= months; i++ {
			p := Point{
				MonthIndex:       i,
				ProjectedRevenue: money.Round(start.Mul(money.PowInt(factor, i-1))),
			}
			if !yield(p) {
				return
			}
		}
	}, nil
}

func validate(months int, growth decimal.Decimal) error {
	if months <= 0 {
		return fmt.Errorf("%w: months %d must be positive", ErrInvalidParameter, months)
	}
	if growth.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("%w: growth rate %s must be greater than -1", ErrInvalidParameter, growth)
	}
	return nil
}

// MonthlyRevenue sums the monthly fees of the given licenses.
func MonthlyRevenue(licenses ...*license.License) decimal.Decimal {
	total := decimal.Zero
	for _, l := range licenses {
		if l == nil {
			continue
		}
		total = total.Add(l.MonthlyFee)
	}
	return total
}

// Summary aggregates a projection.
type Summary struct {
	Months       int             `json:"months"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	FinalMonth   decimal.Decimal `json:"final_month"`
}

// Summarize totals the projected revenue of points.
func Summarize(points []Point) Summary {
	s := Summary{Months: len(points), TotalRevenue: decimal.Zero, FinalMonth: decimal.Zero}
	for _, p := range points {
		s.TotalRevenue = s.TotalRevenue.Add(p.ProjectedRevenue)
	}
	if len(points) > 0 {
		s.FinalMonth = points[len(points)-1].ProjectedRevenue
	}
	return s
}

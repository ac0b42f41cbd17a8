package forecast

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaeldubu/quantum-licensing-engine/internal/license"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestForecast_DefaultCurve(t *testing.T) {
	points, err := New().Forecast(dec("1000"))
	require.NoError(t, err)

	want := []string{
		"1000.00", "1150.00", "1322.50", "1520.88", "1749.01", "2011.36",
		"2313.06", "2660.02", "3059.02", "3517.88", "4045.56", "4652.39",
	}
	require.Len(t, points, len(want))
	for i, p := range points {
		assert.Equal(t, i+1, p.MonthIndex)
		assert.Equal(t, want[i], p.ProjectedRevenue.StringFixed(2), "month %d", i+1)
	}
}

func TestForecast_FirstPointIsRoundedStart(t *testing.T) {
	for _, start := range []string{"0", "1234.565", "250000", "0.004", "99.999"} {
		points, err := New().Forecast(dec(start))
		require.NoError(t, err)
		assert.True(t, points[0].ProjectedRevenue.Equal(dec(start).Round(2)),
			"start %s: first point %s", start, points[0].ProjectedRevenue)
	}
}

func TestForecast_Options(t *testing.T) {
	f := New(WithMonths(4), WithGrowthRate(dec("-0.1")))
	assert.Equal(t, 4, f.Months())
	assert.True(t, f.GrowthRate().Equal(dec("-0.1")))

	points, err := f.Forecast(dec("500"))
	require.NoError(t, err)

	var got []string
	for _, p := range points {
		got = append(got, p.ProjectedRevenue.StringFixed(2))
	}
	assert.Equal(t, []string{"500.00", "450.00", "405.00", "364.50"}, got)
}

func TestForecast_ZeroGrowthIsFlat(t *testing.T) {
	points, err := Project(dec("42.42"), 6, decimal.Zero)
	require.NoError(t, err)
	for _, p := range points {
		assert.Equal(t, "42.42", p.ProjectedRevenue.StringFixed(2))
	}
}

func TestForecast_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		months int
		growth string
	}{
		{"zero months", 0, "0.15"},
		{"negative months", -3, "0.15"},
		{"growth of minus one", 12, "-1"},
		{"growth below minus one", 12, "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(dec("1000"), tt.months, dec(tt.growth))
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Project() error = %v, want ErrInvalidParameter", err)
			}
			_, err = New(WithMonths(tt.months), WithGrowthRate(dec(tt.growth))).Points(dec("1000"))
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Points() error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestPoints_Restartable(t *testing.T) {
	seq, err := New().Points(dec("1000"))
	require.NoError(t, err)

	collect := func() []Point {
		var out []Point
		for p := range seq {
			out = append(out, p)
		}
		return out
	}

	first := collect()
	second := collect()
	require.Len(t, first, DefaultMonths)
	assert.Equal(t, first, second)
}

func TestPoints_EarlyStop(t *testing.T) {
	seq, err := New().Points(dec("1000"))
	require.NoError(t, err)

	count := 0
	for p := range seq {
		count++
		if p.MonthIndex == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestMonthlyRevenue(t *testing.T) {
	a := &license.License{MonthlyFee: dec("10000")}
	b := &license.License{MonthlyFee: dec("250000")}

	assert.Equal(t, "260000", MonthlyRevenue(a, nil, b).String())
	assert.True(t, MonthlyRevenue().IsZero())
}

func TestSummarize(t *testing.T) {
	points, err := New().Forecast(dec("1000"))
	require.NoError(t, err)

	s := Summarize(points)
	assert.Equal(t, 12, s.Months)
	assert.Equal(t, "29001.68", s.TotalRevenue.StringFixed(2))
	assert.Equal(t, "4652.39", s.FinalMonth.StringFixed(2))

	empty := Summarize(nil)
	assert.True(t, empty.TotalRevenue.IsZero())
	assert.True(t, empty.FinalMonth.IsZero())
}

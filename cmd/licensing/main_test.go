package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteCmd(t *testing.T) {
	out, err := execute(t, "quote", "--company", "TechCorp", "--tier", "enterprise", "--users", "100", "--months", "12")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly Payment: $300,000.00")
	assert.Contains(t, out, "Total Cost: $3,600,000.00")
	assert.Contains(t, out, "Month 12: $1,163,097.85")
	assert.Contains(t, out, "saam-api-****")
}

func TestQuoteCmd_JSON(t *testing.T) {
	out, err := execute(t, "quote", "--company", "Acme", "--tier", "BASIC", "--users", "10", "--months", "6", "--json")
	require.NoError(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "11000.00", res.Quote.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "66000.00", res.Quote.TotalCost.StringFixed(2))
}

func TestQuoteCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing company", []string{"quote", "--tier", "BASIC"}},
		{"unknown tier", []string{"quote", "--company", "Acme", "--tier", "GOLD"}},
		{"zero users", []string{"quote", "--company", "Acme", "--tier", "BASIC", "--users", "0"}},
		{"missing config", []string{"quote", "--company", "Acme", "--tier", "BASIC", "--config", "/nonexistent/pricing.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestForecastCmd(t *testing.T) {
	out, err := execute(t, "forecast", "--start", "1000", "--months", "12", "--growth", "0.15", "--json")
	require.NoError(t, err)

	var points []forecast.Point
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 12)
	assert.Equal(t, "4652.39", points[11].ProjectedRevenue.StringFixed(2))

	out, err = execute(t, "forecast", "--tier", "BASIC", "--months", "2", "--growth", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Month 2: $10,000.00")

	_, err = execute(t, "forecast", "--start", "1000", "--tier", "BASIC")
	assert.Error(t, err)
	_, err = execute(t, "forecast")
	assert.Error(t, err)
	_, err = execute(t, "forecast", "--start", "1000", "--months", "0")
	assert.ErrorIs(t, err, forecast.ErrInvalidParameter)
	_, err = execute(t, "forecast", "--start", "1000", "--months", "10000")
	assert.ErrorIs(t, err, forecast.ErrRequestTooLarge)
	_, err = execute(t, "forecast", "--start", "1000", "--growth", "0.12345678901234567890123456789")
	assert.ErrorIs(t, err, forecast.ErrRequestTooLarge)
}

func TestTiersCmd(t *testing.T) {
	out, err := execute(t, "tiers")
	require.NoError(t, err)
	assert.Contains(t, out, "QUANTUM_ENTERPRISE")
	assert.Contains(t, out, "$1,000,000.00")
}

func TestTimelineCmd(t *testing.T) {
	out, err := execute(t, "timeline", "--start", "2026-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Duration: 143 days")
	assert.Contains(t, out, "Quantum Teaser (2026-03-01 to 2026-03-31):")

	_, err = execute(t, "timeline", "--start", "tomorrow")
	assert.Error(t, err)
}

func TestConfigCmds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "5 tiers, 3 discount brackets OK")

	out, err = execute(t, "--config", path, "quote", "--company", "TechCorp", "--tier", "ENTERPRISE", "--users", "100", "--months", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly Payment: $300,000.00")

	_, err = execute(t, "config", "validate")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Licensing Engine dev")
}

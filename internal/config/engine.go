package config

import (
	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
)

// EngineOptions returns engine options that apply the configured forecaster
// and issuer overrides.
func (c *PricingConfig) EngineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithForecaster(forecast.New(c.ForecastOptions()...)),
	}
	if issuerOpts := c.IssuerOptions(); len(issuerOpts) > 0 {
		opts = append(opts, engine.WithIssuerOptions(issuerOpts...))
	}
	return opts
}

// LoadEngine builds an engine from the pricing file at path, or from the
// built-in catalog when path is empty. Extra options apply after the
// configured ones.
func LoadEngine(path string, extra ...engine.Option) (*engine.Engine, error) {
	if path == "" {
		return engine.New(catalog.Default(), extra...), nil
	}

	cfg, err := LoadPricing(path)
	if err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	return engine.New(cat, append(cfg.EngineOptions(), extra...)...), nil
}

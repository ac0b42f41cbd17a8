// Package config provides configuration loading for the licensing engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
	"github.com/michaeldubu/quantum-licensing-engine/internal/license"
)

// ErrInvalidConfig indicates the pricing configuration failed validation.
var ErrInvalidConfig = errors.New("invalid pricing config")

// TierConfig is the file representation of a catalog tier.
type TierConfig struct {
	ID                string          `yaml:"id" validate:"required"`
	DisplayName       string          `yaml:"display_name,omitempty"`
	BaseFee           decimal.Decimal `yaml:"base_fee"`
	PerUserRate       decimal.Decimal `yaml:"per_user_rate"`
	IncludedUsers     int             `yaml:"included_users" validate:"gte=0"`
	Features          []string        `yaml:"features,omitempty" validate:"dive,required"`
	APICallsPerSecond int             `yaml:"api_calls_per_second" validate:"gte=-1"`
	QuantumAllocation int             `yaml:"quantum_allocation" validate:"gte=0"`
	AccessLevel       decimal.Decimal `yaml:"access_level"`
}

// BracketConfig is the file representation of a volume discount bracket.
type BracketConfig struct {
	Threshold int             `yaml:"threshold" validate:"gt=0"`
	Fraction  decimal.Decimal `yaml:"fraction"`
}

// ForecastConfig overrides the forecaster defaults. Zero values keep the defaults.
type ForecastConfig struct {
	GrowthRate *decimal.Decimal `yaml:"growth_rate,omitempty"`
	Months     int              `yaml:"months,omitempty" validate:"gte=0,lte=120"`
}

// PricingConfig holds the externally loadable tier table and discount brackets.
type PricingConfig struct {
	Tiers             []TierConfig    `yaml:"tiers" validate:"required,min=1,dive"`
	DiscountBrackets  []BracketConfig `yaml:"discount_brackets,omitempty" validate:"dive"`
	Forecast          ForecastConfig  `yaml:"forecast,omitempty"`
	BillingPeriodDays int             `yaml:"billing_period_days,omitempty" validate:"gte=0"`
}

// DefaultPricing returns the built-in catalog as a PricingConfig.
func DefaultPricing() *PricingConfig {
	cfg := &PricingConfig{}
	for _, t := range catalog.DefaultTiers() {
		features := make([]string, len(t.Features))
		for i, f := range t.Features {
			features[i] = string(f)
		}
		cfg.Tiers = append(cfg.Tiers, TierConfig{
			ID:                string(t.ID),
			DisplayName:       t.DisplayName,
			BaseFee:           t.BaseMonthlyFee,
			PerUserRate:       t.PerUserRate,
			IncludedUsers:     t.IncludedUsers,
			Features:          features,
			APICallsPerSecond: t.APICallsPerSecond,
			QuantumAllocation: t.QuantumAllocation,
			AccessLevel:       t.AccessLevel,
		})
	}
	for _, b := range catalog.DefaultBrackets() {
		cfg.DiscountBrackets = append(cfg.DiscountBrackets, BracketConfig{
			Threshold: b.Threshold,
			Fraction:  b.Fraction,
		})
	}
	growth := forecast.DefaultGrowthRate
	cfg.Forecast = ForecastConfig{GrowthRate: &growth, Months: forecast.DefaultMonths}
	cfg.BillingPeriodDays = int(license.DefaultBillingPeriod / (24 * time.Hour))
	return cfg
}

// LoadPricing reads a pricing configuration from the given YAML file.
func LoadPricing(path string) (*PricingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing config: %w", err)
	}
	return ParsePricing(data)
}

// ParsePricing decodes and validates a YAML pricing configuration.
func ParsePricing(data []byte) (*PricingConfig, error) {
	var cfg PricingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse pricing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to the given path, creating directories as needed.
func (c *PricingConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal pricing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pricing config: %w", err)
	}
	return nil
}

// Validate checks field constraints and that the tier table forms a valid catalog.
func (c *PricingConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, msgForTag(fe))
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}

	if c.Forecast.GrowthRate != nil && c.Forecast.GrowthRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("%w: forecast.growth_rate must be greater than -1", ErrInvalidConfig)
	}

	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func msgForTag(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Catalog builds the tier catalog described by the configuration.
func (c *PricingConfig) Catalog() (*catalog.Catalog, error) {
	tiers := make([]catalog.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		features := make([]catalog.Feature, len(t.Features))
		for i, f := range t.Features {
			features[i] = catalog.Feature(f)
		}
		tiers = append(tiers, catalog.Tier{
			ID:                catalog.TierID(t.ID),
			DisplayName:       t.DisplayName,
			BaseMonthlyFee:    t.BaseFee,
			PerUserRate:       t.PerUserRate,
			IncludedUsers:     t.IncludedUsers,
			Features:          features,
			APICallsPerSecond: t.APICallsPerSecond,
			QuantumAllocation: t.QuantumAllocation,
			AccessLevel:       t.AccessLevel,
		})
	}

	brackets := make([]catalog.DiscountBracket, 0, len(c.DiscountBrackets))
	for _, b := range c.DiscountBrackets {
		brackets = append(brackets, catalog.DiscountBracket{Threshold: b.Threshold, Fraction: b.Fraction})
	}

	return catalog.New(tiers, brackets)
}

// ForecastOptions returns forecaster options for any configured overrides.
func (c *PricingConfig) ForecastOptions() []forecast.Option {
	var opts []forecast.Option
	if c.Forecast.GrowthRate != nil {
		opts = append(opts, forecast.WithGrowthRate(*c.Forecast.GrowthRate))
	}
	if c.Forecast.Months > 0 {
		opts = append(opts, forecast.WithMonths(c.Forecast.Months))
	}
	return opts
}

// IssuerOptions returns issuer options for any configured overrides.
func (c *PricingConfig) IssuerOptions() []license.IssuerOption {
	if c.BillingPeriodDays <= 0 {
		return nil
	}
	return []license.IssuerOption{
		license.WithBillingPeriod(time.Duration(c.BillingPeriodDays) * 24 * time.Hour),
	}
}

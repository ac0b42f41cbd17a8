// Package catalog provides the immutable tier and discount table used for pricing.
package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// TierID identifies a license tier.
type TierID string

const (
	// TierBasic is the entry tier with core processing features.
	TierBasic TierID = "BASIC"
	// TierProfessional adds machine learning and parallel processing.
	TierProfessional TierID = "PROFESSIONAL"
	// TierEnterprise adds custom circuits, priority support and dedicated infrastructure.
	TierEnterprise TierID = "ENTERPRISE"
	// TierQuantumEnterprise adds unlimited scaling on top of enterprise.
	TierQuantumEnterprise TierID = "QUANTUM_ENTERPRISE"
	// TierUnlimited unlocks every feature.
	TierUnlimited TierID = "UNLIMITED"
)

// Normalize upper-cases and trims a tier identifier.
func (id TierID) Normalize() TierID {
	return TierID(strings.ToUpper(strings.TrimSpace(string(id))))
}

// Feature represents a capability unlocked by a tier.
type Feature string

const (
	FeatureQuantumProcessing       Feature = "quantum_processing"
	FeatureBasicOptimization       Feature = "basic_optimization"
	FeatureAdvancedOptimization    Feature = "advanced_optimization"
	FeaturePatternRecognition      Feature = "pattern_recognition"
	FeatureQuantumML               Feature = "quantum_ml"
	FeatureParallelProcessing      Feature = "parallel_processing"
	FeatureCustomQuantumCircuits   Feature = "custom_quantum_circuits"
	FeaturePrioritySupport         Feature = "priority_support"
	FeatureDedicatedInfrastructure Feature = "dedicated_infrastructure"
	FeatureUnlimitedScaling        Feature = "unlimited_scaling"
	FeatureDirectQuantumAccess     Feature = "direct_quantum_access"
	FeatureCustomDevelopment       Feature = "custom_development"
)

// Unlimited is a sentinel value indicating no limit on a resource.
const Unlimited = -1

// Tier is a named pricing and feature bundle.
type Tier struct {
	ID                TierID          `json:"id"`
	DisplayName       string          `json:"display_name"`
	BaseMonthlyFee    decimal.Decimal `json:"base_monthly_fee"`
	PerUserRate       decimal.Decimal `json:"per_user_rate"`
	IncludedUsers     int             `json:"included_users"`
	Features          []Feature       `json:"features"`
	APICallsPerSecond int             `json:"api_calls_per_second"`
	QuantumAllocation int             `json:"quantum_allocation"`
	AccessLevel       decimal.Decimal `json:"access_level"`
}

// HasFeature returns true if the tier unlocks the given feature.
func (t Tier) HasFeature(feature Feature) bool {
	return slices.Contains(t.Features, feature)
}

// IsRateUnlimited returns true if the tier has no API rate limit.
func (t Tier) IsRateUnlimited() bool {
	return t.APICallsPerSecond == Unlimited
}

// clone returns a copy that shares no mutable state with t.
func (t Tier) clone() Tier {
	t.Features = slices.Clone(t.Features)
	return t
}

// DiscountBracket grants Fraction off the monthly cost once the user count
// reaches Threshold.
type DiscountBracket struct {
	Threshold int             `json:"threshold"`
	Fraction  decimal.Decimal `json:"fraction"`
}

package catalog

import (
	"slices"

	"github.com/michaeldubu/quantum-licensing-engine/internal/money"
)

var (
	basicFeatures = []Feature{
		FeatureQuantumProcessing,
		FeatureBasicOptimization,
		FeaturePatternRecognition,
	}
	professionalFeatures = []Feature{
		FeatureQuantumProcessing,
		FeatureAdvancedOptimization,
		FeaturePatternRecognition,
		FeatureQuantumML,
		FeatureParallelProcessing,
	}
	enterpriseFeatures = slices.Concat(professionalFeatures, []Feature{
		FeatureCustomQuantumCircuits,
		FeaturePrioritySupport,
		FeatureDedicatedInfrastructure,
	})
	quantumEnterpriseFeatures = slices.Concat(enterpriseFeatures, []Feature{
		FeatureUnlimitedScaling,
	})
	unlimitedFeatures = slices.Concat(quantumEnterpriseFeatures, []Feature{
		FeatureDirectQuantumAccess,
		FeatureCustomDevelopment,
	})
)

// DefaultTiers returns the built-in tier table in ascending price order.
func DefaultTiers() []Tier {
	return []Tier{
		{
			ID:                TierBasic,
			DisplayName:       "Quantum Basic",
			BaseMonthlyFee:    money.MustParse("10000"),
			PerUserRate:       money.MustParse("100"),
			IncludedUsers:     0,
			Features:          slices.Clone(basicFeatures),
			APICallsPerSecond: 10,
			QuantumAllocation: 128,
			AccessLevel:       money.MustParse("0.25"),
		},
		{
			ID:                TierProfessional,
			DisplayName:       "Quantum Professional",
			BaseMonthlyFee:    money.MustParse("50000"),
			PerUserRate:       money.MustParse("200"),
			IncludedUsers:     0,
			Features:          slices.Clone(professionalFeatures),
			APICallsPerSecond: 50,
			QuantumAllocation: 512,
			AccessLevel:       money.MustParse("0.5"),
		},
		{
			ID:                TierEnterprise,
			DisplayName:       "Quantum Enterprise",
			BaseMonthlyFee:    money.MustParse("250000"),
			PerUserRate:       money.MustParse("1666.6666"),
			IncludedUsers:     50,
			Features:          slices.Clone(enterpriseFeatures),
			APICallsPerSecond: 250,
			QuantumAllocation: 1024,
			AccessLevel:       money.MustParse("0.75"),
		},
		{
			ID:                TierQuantumEnterprise,
			DisplayName:       "Quantum Enterprise Plus",
			BaseMonthlyFee:    money.MustParse("500000"),
			PerUserRate:       money.MustParse("2500"),
			IncludedUsers:     100,
			Features:          slices.Clone(quantumEnterpriseFeatures),
			APICallsPerSecond: 500,
			QuantumAllocation: 1536,
			AccessLevel:       money.MustParse("0.85"),
		},
		{
			ID:                TierUnlimited,
			DisplayName:       "Quantum Unlimited",
			BaseMonthlyFee:    money.MustParse("1000000"),
			PerUserRate:       money.MustParse("5000"),
			IncludedUsers:     250,
			Features:          slices.Clone(unlimitedFeatures),
			APICallsPerSecond: Unlimited,
			QuantumAllocation: 2048,
			// Never full access.
			AccessLevel: money.MustParse("0.95"),
		},
	}
}

// DefaultBrackets returns the built-in volume discount brackets.
func DefaultBrackets() []DiscountBracket {
	return []DiscountBracket{
		{Threshold: 50, Fraction: money.MustParse("0.05")},
		{Threshold: 100, Fraction: money.MustParse("0.10")},
		{Threshold: 500, Fraction: money.MustParse("0.20")},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultTiers(), DefaultBrackets())
	if err != nil {
		panic("catalog: built-in table is invalid: " + err.Error())
	}
	return c
}

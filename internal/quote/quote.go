// Package quote computes cost estimates for a license, user count and term.
package quote

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/license"
	"github.com/michaeldubu/quantum-licensing-engine/internal/money"
)

var (
	// ErrInvalidQuantity indicates a non-positive user count or term length.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrNilLicense indicates a quote was requested without a license.
	ErrNilLicense = errors.New("nil license")
)

// Quote is a computed cost estimate. It is a value object and is never persisted.
// BaseMonthlyCost and DiscountRate both describe PricedUserCount seats, so
// MonthlyPayment is BaseMonthlyCost less DiscountRate, rounded to cents.
type Quote struct {
	License         *license.License `json:"-"`
	UserCount       int              `json:"user_count"`
	TermMonths      int              `json:"term_months"`
	BaseMonthlyCost decimal.Decimal  `json:"base_monthly_cost"`
	DiscountRate    decimal.Decimal  `json:"discount_rate"`
	PricedUserCount int              `json:"priced_user_count"`
	MonthlyPayment  decimal.Decimal  `json:"monthly_payment"`
	TotalCost       decimal.Decimal  `json:"total_cost"`
}

// Calculator prices licenses against a catalog's discount brackets.
// It is stateless and safe for concurrent use.
type Calculator struct {
	catalog *catalog.Catalog
}

// NewCalculator creates a new quote calculator.
func NewCalculator(cat *catalog.Catalog) *Calculator {
	return &Calculator{catalog: cat}
}

// Quote prices userCount seats on lic for termMonths.
//
// The monthly cost is the license fee plus the per-user rate for every user
// above the tier allowance, less the volume discount of the highest bracket
// whose threshold does not exceed userCount. The result is capped at the
// discounted cost of any larger bracket threshold, so buying more seats never
// lowers the total.
func (c *Calculator) Quote(lic *license.License, userCount, termMonths int) (*Quote, error) {
	if lic == nil {
		return nil, ErrNilLicense
	}
	if err := ValidateQuantities(userCount, termMonths); err != nil {
		return nil, err
	}

	priced := userCount
	monthly, rate := c.discounted(lic, userCount)
	for _, b := range c.catalog.Brackets() {
		if b.Threshold <= userCount {
			continue
		}
		candidate, candidateRate := c.discounted(lic, b.Threshold)
		if candidate.LessThan(monthly) {
			monthly, rate, priced = candidate, candidateRate, b.Threshold
		}
	}

	payment := money.Round(monthly)
	return &Quote{
		License:         lic,
		UserCount:       userCount,
		TermMonths:      termMonths,
		BaseMonthlyCost: baseMonthlyCost(lic, priced),
		DiscountRate:    rate,
		PricedUserCount: priced,
		MonthlyPayment:  payment,
		TotalCost:       payment.Mul(decimal.NewFromInt(int64(termMonths))),
	}, nil
}

// ValidateQuantities checks that the user count and term are both positive.
func ValidateQuantities(userCount, termMonths int) error {
	if userCount <= 0 {
		return fmt.Errorf("%w: user count %d must be positive", ErrInvalidQuantity, userCount)
	}
	if termMonths <= 0 {
		return fmt.Errorf("%w: term %d months must be positive", ErrInvalidQuantity, termMonths)
	}
	return nil
}

// discounted returns the unrounded monthly cost of users seats and the discount applied.
func (c *Calculator) discounted(lic *license.License, users int) (decimal.Decimal, decimal.Decimal) {
	base := baseMonthlyCost(lic, users)
	bracket, ok := c.catalog.DiscountFor(users)
	if !ok {
		return base, decimal.Zero
	}
	return base.Mul(decimal.NewFromInt(1).Sub(bracket.Fraction)), bracket.Fraction
}

func baseMonthlyCost(lic *license.License, users int) decimal.Decimal {
	extra := users - lic.Tier.IncludedUsers
	if extra <= 0 {
		return lic.MonthlyFee
	}
	return lic.MonthlyFee.Add(lic.Tier.PerUserRate.Mul(decimal.NewFromInt(int64(extra))))
}

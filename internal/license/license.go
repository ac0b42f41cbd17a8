// Package license issues licenses that grant a catalog tier to a company.
package license

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
)

var (
	// ErrInvalidCompanyName indicates the company name is empty or whitespace.
	ErrInvalidCompanyName = errors.New("invalid company name")
	// ErrCredentialCollision indicates no unique access credential could be generated.
	ErrCredentialCollision = errors.New("access credential collision")
)

// DefaultBillingPeriod is how long an issued license stays valid.
const DefaultBillingPeriod = 30 * 24 * time.Hour

// License grants a tier to a named company. A License is never modified
// after issuance; re-pricing requires issuing a new one.
type License struct {
	ID               uuid.UUID       `json:"id"`
	CompanyName      string          `json:"company_name"`
	Tier             catalog.Tier    `json:"tier"`
	LicenseKey       string          `json:"license_key"`
	AccessCredential string          `json:"access_credential"`
	IssuedAt         time.Time       `json:"issued_at"`
	ExpiresAt        time.Time       `json:"expires_at"`
	MonthlyFee       decimal.Decimal `json:"monthly_fee"`
}

// HasFeature returns true if the licensed tier unlocks the feature.
func (l *License) HasFeature(feature catalog.Feature) bool {
	if l == nil {
		return false
	}
	return l.Tier.HasFeature(feature)
}

// IsExpired reports whether the license has expired at the given time.
func (l *License) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// DaysRemaining returns whole days left before expiry at the given time, or 0 if expired.
func (l *License) DaysRemaining(now time.Time) int {
	days := int(l.ExpiresAt.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

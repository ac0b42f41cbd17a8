package license

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
)

// MaxCredentialAttempts bounds regeneration when a uniqueness check rejects a credential.
const MaxCredentialAttempts = 5

// UniquenessCheck reports whether a credential is unused, typically by
// consulting a caller-owned registry.
type UniquenessCheck func(credential string) (bool, error)

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithCredentialGenerator replaces the default crypto/rand credential source.
func WithCredentialGenerator(g CredentialGenerator) IssuerOption {
	return func(i *Issuer) {
		if g != nil {
			i.credentials = g
		}
	}
}

// WithUniquenessCheck makes the issuer reject credentials the check reports as taken.
func WithUniquenessCheck(check UniquenessCheck) IssuerOption {
	return func(i *Issuer) {
		i.unique = check
	}
}

// WithClock overrides the time source used for IssuedAt and ExpiresAt.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithBillingPeriod overrides DefaultBillingPeriod.
func WithBillingPeriod(d time.Duration) IssuerOption {
	return func(i *Issuer) {
		if d > 0 {
			i.period = d
		}
	}
}

// Issuer creates licenses against a catalog. It holds no mutable state and
// is safe for concurrent use as long as its UniquenessCheck is.
type Issuer struct {
	catalog     *catalog.Catalog
	credentials CredentialGenerator
	unique      UniquenessCheck
	now         func() time.Time
	period      time.Duration
}

// NewIssuer creates a new license issuer.
func NewIssuer(cat *catalog.Catalog, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		catalog:     cat,
		credentials: RandomCredentials{},
		now:         time.Now,
		period:      DefaultBillingPeriod,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue creates a license granting tierID to companyName. The monthly fee is
// the tier's base fee at the time of issuance.
func (i *Issuer) Issue(companyName string, tierID catalog.TierID) (*License, error) {
	company := strings.TrimSpace(companyName)
	if company == "" {
		return nil, ErrInvalidCompanyName
	}

	tier, err := i.catalog.Resolve(tierID)
	if err != nil {
		return nil, err
	}

	credential, err := i.newCredential()
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate license id: %w", err)
	}

	key, err := deriveLicenseKey(company, tier.ID, id, credential)
	if err != nil {
		return nil, err
	}

	issuedAt := i.now().UTC()
	return &License{
		ID:               id,
		CompanyName:      company,
		Tier:             tier,
		LicenseKey:       key,
		AccessCredential: credential,
		IssuedAt:         issuedAt,
		ExpiresAt:        issuedAt.Add(i.period),
		MonthlyFee:       tier.BaseMonthlyFee,
	}, nil
}

func (i *Issuer) newCredential() (string, error) {
	for attempt := 0; attempt < MaxCredentialAttempts; attempt++ {
		credential, err := i.credentials.NewCredential()
		if err != nil {
			return "", fmt.Errorf("generate access credential: %w", err)
		}
		if i.unique == nil {
			return credential, nil
		}
		ok, err := i.unique(credential)
		if err != nil {
			return "", fmt.Errorf("check credential uniqueness: %w", err)
		}
		if ok {
			return credential, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCredentialCollision, MaxCredentialAttempts)
}

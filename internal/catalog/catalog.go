package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownTier indicates the tier identifier is not in the catalog.
	ErrUnknownTier = errors.New("unknown license tier")
	// ErrInvalidCatalog indicates the tier or discount table is malformed.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is an immutable tier and discount table. It is safe for concurrent use.
type Catalog struct {
	tiers    []Tier
	index    map[TierID]int
	brackets []DiscountBracket
}

// New builds a catalog from tiers listed in ascending price order and
// discount brackets listed in ascending threshold order.
func New(tiers []Tier, brackets []DiscountBracket) (*Catalog, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers defined", ErrInvalidCatalog)
	}

	c := &Catalog{
		tiers:    make([]Tier, 0, len(tiers)),
		index:    make(map[TierID]int, len(tiers)),
		brackets: slices.Clone(brackets),
	}

	for i, t := range tiers {
		t = t.clone()
		t.ID = t.ID.Normalize()
		if err := validateTier(t); err != nil {
			return nil, err
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate tier %s", ErrInvalidCatalog, t.ID)
		}
		if i > 0 {
			prev := c.tiers[i-1]
			if !t.BaseMonthlyFee.GreaterThan(prev.BaseMonthlyFee) {
				return nil, fmt.Errorf("%w: tier %s base fee %s must exceed %s base fee %s",
					ErrInvalidCatalog, t.ID, t.BaseMonthlyFee, prev.ID, prev.BaseMonthlyFee)
			}
		}
		c.index[t.ID] = i
		c.tiers = append(c.tiers, t)
	}

	if err := validateBrackets(c.brackets); err != nil {
		return nil, err
	}

	return c, nil
}

func validateTier(t Tier) error {
	if t.ID == "" {
		return fmt.Errorf("%w: tier with empty id", ErrInvalidCatalog)
	}
	if !t.BaseMonthlyFee.IsPositive() {
		return fmt.Errorf("%w: tier %s base fee must be positive", ErrInvalidCatalog, t.ID)
	}
	if t.PerUserRate.IsNegative() {
		return fmt.Errorf("%w: tier %s per-user rate must not be negative", ErrInvalidCatalog, t.ID)
	}
	if t.IncludedUsers < 0 {
		return fmt.Errorf("%w: tier %s included users must not be negative", ErrInvalidCatalog, t.ID)
	}
	return nil
}

func validateBrackets(brackets []DiscountBracket) error {
	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		if b.Threshold <= 0 {
			return fmt.Errorf("%w: discount threshold %d must be positive", ErrInvalidCatalog, b.Threshold)
		}
		if b.Fraction.IsNegative() || !b.Fraction.LessThan(one) {
			return fmt.Errorf("%w: discount fraction %s must be in [0, 1)", ErrInvalidCatalog, b.Fraction)
		}
		if i > 0 && b.Threshold <= brackets[i-1].Threshold {
			return fmt.Errorf("%w: discount thresholds must be strictly increasing (%d after %d)",
				ErrInvalidCatalog, b.Threshold, brackets[i-1].Threshold)
		}
	}
	return nil
}

// Resolve returns the tier for the given identifier.
func (c *Catalog) Resolve(id TierID) (Tier, error) {
	i, ok := c.index[id.Normalize()]
	if !ok {
		return Tier{}, fmt.Errorf("%w: %q", ErrUnknownTier, string(id))
	}
	return c.tiers[i].clone(), nil
}

// Tiers returns all tiers in ascending price order.
func (c *Catalog) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = t.clone()
	}
	return out
}

// Brackets returns the discount brackets in ascending threshold order.
func (c *Catalog) Brackets() []DiscountBracket {
	return slices.Clone(c.brackets)
}

// DiscountFor returns the bracket with the highest threshold not exceeding
// userCount. ok is false when no bracket applies.
func (c *Catalog) DiscountFor(userCount int) (bracket DiscountBracket, ok bool) {
	for _, b := range c.brackets {
		if b.Threshold > userCount {
			break
		}
		bracket, ok = b, true
	}
	return bracket, ok
}

// Upgrade returns the next tier above id. ok is false at the top tier.
func (c *Catalog) Upgrade(id TierID) (next Tier, ok bool, err error) {
	i, found := c.index[id.Normalize()]
	if !found {
		return Tier{}, false, fmt.Errorf("%w: %q", ErrUnknownTier, string(id))
	}
	if i+1 >= len(c.tiers) {
		return Tier{}, false, nil
	}
	return c.tiers[i+1].clone(), true, nil
}

package forecast

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Bounds for forecasts requested through the CLI and HTTP API. Project
// itself accepts any horizon.
const (
	MaxRequestMonths   = 120
	MaxRequestDecimals = 6
)

// ErrRequestTooLarge indicates a forecast request exceeds the request bounds.
var ErrRequestTooLarge = errors.New("forecast request too large")

// CheckRequest rejects horizons beyond MaxRequestMonths and starting amounts
// or growth rates with more than MaxRequestDecimals decimal places.
// Non-positive horizons are left to Project.
func CheckRequest(start decimal.Decimal, months int, growth decimal.Decimal) error {
	if months > MaxRequestMonths {
		return fmt.Errorf("%w: months %d exceeds %d", ErrRequestTooLarge, months, MaxRequestMonths)
	}
	if decimals(start) > MaxRequestDecimals {
		return fmt.Errorf("%w: start %s has more than %d decimal places", ErrRequestTooLarge, start, MaxRequestDecimals)
	}
	if decimals(growth) > MaxRequestDecimals {
		return fmt.Errorf("%w: growth rate %s has more than %d decimal places", ErrRequestTooLarge, growth, MaxRequestDecimals)
	}
	return nil
}

func decimals(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

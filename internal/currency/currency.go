// Package currency converts billed amounts from the base currency into the
// currency requested on an invoice.
package currency

import (
	"errors"
	"strings"
)

// Code is an ISO 4217 currency code, e.g. "COP" or "USD".
type Code string

var (
	ErrMissingExchangeRate = errors.New("missing_exchange_rate")
	ErrInvalidAmount       = errors.New("invalid_amount")
)

// Normalize upper-cases and trims a raw currency code.
func Normalize(raw string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(raw)))
}

// Converter converts base-currency amounts into a target currency. Rates are
// quoted as target-per-base divisors: target = base / rate. Every caller
// converts in this one direction; the inverse is never derived.
type Converter struct {
	base Code
}

func NewConverter(base Code) Converter {
	return Converter{base: Normalize(string(base))}
}

func (c Converter) Base() Code { return c.base }

// Convert returns amount expressed in target. A rate must be supplied
// whenever target differs from the base currency.
func (c Converter) Convert(amount float64, target Code, rate float64) (float64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	target = Normalize(string(target))
	if target == "" || target == c.base {
		return amount, nil
	}
	if rate <= 0 {
		return 0, ErrMissingExchangeRate
	}
	return amount / rate, nil
}

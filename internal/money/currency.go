// Package money owns the fixed currency table and all conversion between the
// base unit (USD) and a display currency. Every monetary value elsewhere in
// the system is a base-unit float64; converting to a display currency happens
// only at presentation boundaries.
package money

import (
	"fmt"

	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
)

// Currency is a static, immutable table entry. RateToBase is the multiplier
// such that displayAmount = baseAmount * RateToBase. Exactly one currency has
// rate 1.0 (the base).
type Currency struct {
	Code       string  `json:"code"`
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	RateToBase float64 `json:"rate"`
}

// BaseCurrencyCode is the code of the currency all amounts are stored in.
const BaseCurrencyCode = "USD"

// currencies is the fixed table. Rates are deliberately static: this is a
// simulator, not a pricing oracle.
var currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", RateToBase: 1.0},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", RateToBase: 0.85},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", RateToBase: 0.73},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", RateToBase: 110.0},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", RateToBase: 1.25},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", RateToBase: 1.35},
}

// ByCode looks up a currency. An unknown code is a programming error for
// internal callers; user input is validated before it reaches this package.
func ByCode(code string) (Currency, error) {
	c, ok := currencies[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, code)
	}
	return c, nil
}

// MustByCode is ByCode for codes that are known-valid by construction.
func MustByCode(code string) Currency {
	c, err := ByCode(code)
	if err != nil {
		panic(err)
	}
	return c
}

// IsKnownCode reports whether code exists in the currency table.
func IsKnownCode(code string) bool {
	_, ok := currencies[code]
	return ok
}

// All returns the currency table in a stable code order.
func All() []Currency {
	codes := []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}
	out := make([]Currency, 0, len(codes))
	for _, code := range codes {
		out = append(out, currencies[code])
	}
	return out
}

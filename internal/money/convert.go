package money

import "github.com/shopspring/decimal"

// ToDisplay converts a base-unit amount to the given display currency.
func ToDisplay(baseAmount float64, c Currency) float64 {
	return baseAmount * c.RateToBase
}

// ToBase converts a display-currency amount back to base units.
// ToBase(ToDisplay(x, c), c) is within 1e-9 relative tolerance of x; exact
// equality is not guaranteed and must not be relied on.
func ToBase(displayAmount float64, c Currency) float64 {
	return displayAmount / c.RateToBase
}

// Round2 rounds to 2 decimals, half away from zero. Prices and per-asset
// valuations are kept at cent precision after every simulation step.
func Round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

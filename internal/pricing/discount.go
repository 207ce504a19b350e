package pricing

// ApplyDiscount applies an institutional dark-pool discount percentage to a
// base-unit price. Discounts are acquisition-only: the ledger applies this to
// buy transactions and never to sells or price drift. Callers are expected to
// pass a percentage in [0, 100]; out-of-range input is a caller error.
func ApplyDiscount(basePrice, discountPercent float64) float64 {
	return basePrice * (1 - discountPercent/100)
}

// ReverseDiscount reconstructs the pre-discount price of a historical buy for
// display purposes only. The discounted price remains the actual economic
// price; financial totals and profit/loss are never rebuilt from this value.
func ReverseDiscount(discountedPrice, discountPercent float64) float64 {
	return discountedPrice / (1 - discountPercent/100)
}

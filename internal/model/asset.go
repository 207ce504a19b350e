package model

import "time"

// Asset represents one held position. All monetary fields are stored in base
// units (USD); only presentation layers convert to the display currency.
type Asset struct {
	ID              string    `json:"id"`
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Quantity        float64   `json:"quantity"`
	CurrentPrice    float64   `json:"currentPrice"`
	InitialPrice    float64   `json:"initialPrice"`
	LastPriceUpdate time.Time `json:"lastPriceUpdate"`
}

// Active reports whether the asset still holds shares. Depleted assets are
// hidden from holdings views but keep their history and can be bought again.
func (a *Asset) Active() bool {
	return a.Quantity > 0
}

// ReturnPercent is the unrealized return relative to the buy-in price.
// Returns 0 when the buy-in price is not positive.
func (a *Asset) ReturnPercent() float64 {
	if a.InitialPrice <= 0 {
		return 0
	}
	return (a.CurrentPrice - a.InitialPrice) / a.InitialPrice * 100
}

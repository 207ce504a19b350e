package model

import "time"

// Transaction types.
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction is an immutable historical record of a buy or sell.
// Price and Total are base-unit values; for buys they are post-discount (the
// discounted price is the actual economic price). ProfitLoss and
// ProfitLossPercent are present only on sells and are computed once at
// creation time against the asset's buy-in price, never recomputed later.
type Transaction struct {
	ID                string    `json:"id"`
	AssetID           string    `json:"assetId"`
	Type              string    `json:"type"`
	Quantity          float64   `json:"quantity"`
	Price             float64   `json:"price"`
	Discount          *float64  `json:"discount,omitempty"`
	Date              time.Time `json:"date"`
	Total             float64   `json:"total"`
	ProfitLoss        *float64  `json:"profitLoss,omitempty"`
	ProfitLossPercent *float64  `json:"profitLossPercent,omitempty"`
}

// DiscountPercent returns the recorded discount, treating absent and zero as
// interchangeable ("no discount").
func (t *Transaction) DiscountPercent() float64 {
	if t.Discount == nil {
		return 0
	}
	return *t.Discount
}

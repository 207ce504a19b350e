package request

// BuyAssetRequest is the payload for opening a new position.
// Price is denominated in Currency; BasePrice optionally carries the exact
// base-unit price from a quote lookup so the ledger can skip the display
// round-trip.
type BuyAssetRequest struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Price     float64  `json:"price"`
	Currency  string   `json:"currency"`
	BasePrice *float64 `json:"basePrice,omitempty"`
	Discount  float64  `json:"discount,omitempty"`
}

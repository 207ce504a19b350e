package request

// CreateTransactionRequest is the payload for recording a buy or sell against
// an existing asset. Date is optional ISO-8601 and may be backdated.
type CreateTransactionRequest struct {
	AssetID  string  `json:"assetId"`
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Date     string  `json:"date,omitempty"`
	Discount float64 `json:"discount,omitempty"`
}

package request

// UpdateSettingsRequest is the full settings payload; every update persists
// the complete object immediately.
type UpdateSettingsRequest struct {
	Currency              string `json:"currency"`
	Theme                 string `json:"theme"`
	BrokerName            string `json:"brokerName,omitempty"`
	ShowProfit            bool   `json:"showProfit"`
	EnablePriceVolatility bool   `json:"enablePriceVolatility"`
	InstitutionalAccount  bool   `json:"institutionalAccount"`
	DarkPoolAccess        bool   `json:"darkPoolAccess"`
}

// ResetPortfolioRequest controls how much of the stored state a reset clears.
type ResetPortfolioRequest struct {
	ResetSettings bool `json:"resetSettings"`
}

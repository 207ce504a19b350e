package model

// Settings is the process-wide user configuration. It is loaded with defaults
// at startup, mutated by user toggles, and persisted immediately on every
// change. Reads receive a value copy, so a settings snapshot is immutable for
// the duration of an operation.
type Settings struct {
	Currency              string `json:"currency"`
	Theme                 string `json:"theme"`
	BrokerName            string `json:"brokerName,omitempty"`
	ShowProfit            bool   `json:"showProfit"`
	EnablePriceVolatility bool   `json:"enablePriceVolatility"`
	InstitutionalAccount  bool   `json:"institutionalAccount"`
	DarkPoolAccess        bool   `json:"darkPoolAccess"`
}

// DefaultSettings returns the settings used when nothing has been stored yet.
func DefaultSettings() Settings {
	return Settings{
		Currency:   "USD",
		Theme:      "default",
		ShowProfit: true,
	}
}

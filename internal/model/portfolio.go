package model

// PortfolioSummary represents the current state of the whole portfolio.
// All monetary values are base units; presentation converts them.
type PortfolioSummary struct {
	TotalValue    float64 `json:"totalValue"`    // Current market value of holdings
	TotalInvested float64 `json:"totalInvested"` // Net cash flow: buys minus sells
	TotalReturn   float64 `json:"totalReturn"`   // TotalValue - TotalInvested
	ChangePercent float64 `json:"changePercent"` // TotalReturn relative to TotalInvested
	Balance       float64 `json:"balance"`       // Available cash balance
	BestPerformer string  `json:"bestPerformer,omitempty"`
}

// Backup is the export/import document. Data maps namespaced persistence keys
// to their raw JSON string values, mirroring the underlying key-value store so
// an import can fully replace state with delete-then-write semantics.
type Backup struct {
	ExportedAt string            `json:"exportedAt"`
	Version    string            `json:"version"`
	Data       map[string]string `json:"data"`
}

package presentation

import (
	"fmt"
	"sort"
	"time"

	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/money"
	"github.com/simfolio/paper-portfolio-backend/internal/pricing"
)

// HoldingView is one row of the holdings list, fully formatted for display.
type HoldingView struct {
	AssetID         string `json:"assetId"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	Quantity        string `json:"quantity"`
	Price           string `json:"price"`
	Value           string `json:"value"`
	ProfitLoss      string `json:"profitLoss,omitempty"`
	ProfitLossShown bool   `json:"profitLossShown"`
}

// TransactionView is one row of the transaction history, reverse-chronological.
type TransactionView struct {
	ID              string `json:"id"`
	AssetID         string `json:"assetId"`
	Symbol          string `json:"symbol"`
	Type            string `json:"type"`
	Quantity        string `json:"quantity"`
	Price           string `json:"price"`
	OriginalPrice   string `json:"originalPrice,omitempty"` // pre-discount, display only
	Discount        string `json:"discount,omitempty"`
	Date            string `json:"date"`
	Total           string `json:"total"`
	ProfitLoss      string `json:"profitLoss,omitempty"`
	ProfitLossShown bool   `json:"profitLossShown"`
}

// SummaryView is the formatted portfolio summary.
type SummaryView struct {
	Currency      string `json:"currency"`
	TotalValue    string `json:"totalValue"`
	TotalInvested string `json:"totalInvested"`
	TotalReturn   string `json:"totalReturn"`
	TotalChange   string `json:"totalChange,omitempty"` // shown only when unrealized P&L is displayed
	Balance       string `json:"balance"`
	BestPerformer string `json:"bestPerformer,omitempty"`
}

// Formatter renders ledger state in one display currency under one settings
// snapshot. Construct a fresh one per request.
type Formatter struct {
	settings model.Settings
	currency money.Currency
}

// NewFormatter creates a Formatter for the settings' display currency.
func NewFormatter(settings model.Settings) (*Formatter, error) {
	currency, err := money.ByCode(settings.Currency)
	if err != nil {
		return nil, err
	}
	return &Formatter{settings: settings, currency: currency}, nil
}

// amount renders a base-unit value as symbol-prefixed display currency, the
// sign applied out front ("-€1,234.56").
func (f *Formatter) amount(base float64) string {
	formatted := f.currency.Symbol + money.FormatAmount(base, f.currency)
	if base < 0 {
		return "-" + formatted
	}
	return formatted
}

// signedAmount is amount with an explicit plus on gains ("+€5.00").
func (f *Formatter) signedAmount(base float64) string {
	if base >= 0 {
		return "+" + f.amount(base)
	}
	return f.amount(base)
}

func formatDate(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006, 15:04")
}

// Holdings renders the active (non-depleted) assets. Unrealized profit/loss
// is included only when the gating predicate allows it.
func (f *Formatter) Holdings(assets []model.Asset) []HoldingView {
	showPnL := ShouldDisplayUnrealizedPnL(f.settings)

	views := []HoldingView{}
	for _, a := range assets {
		if !a.Active() {
			continue
		}

		view := HoldingView{
			AssetID:         a.ID,
			Symbol:          a.Symbol,
			Name:            a.Name,
			Quantity:        money.FormatQuantity(a.Quantity),
			Price:           f.amount(a.CurrentPrice),
			Value:           f.amount(a.Quantity * a.CurrentPrice),
			ProfitLossShown: showPnL,
		}

		if showPnL {
			change := (a.CurrentPrice - a.InitialPrice) * a.Quantity
			view.ProfitLoss = fmt.Sprintf("%s (%+.2f%%)", f.signedAmount(change), a.ReturnPercent())
		}

		views = append(views, view)
	}

	return views
}

// Transactions renders the history in reverse-chronological order. Sell rows
// carry their realized profit/loss when the show-profit toggle allows;
// discounted buys also show the reconstructed pre-discount price.
func (f *Formatter) Transactions(transactions []model.Transaction, assets []model.Asset) []TransactionView {
	showPnL := ShouldDisplayRealizedPnL(f.settings)

	symbols := make(map[string]string, len(assets))
	for _, a := range assets {
		symbols[a.ID] = a.Symbol
	}

	ordered := make([]model.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	views := make([]TransactionView, 0, len(ordered))
	for _, t := range ordered {
		view := TransactionView{
			ID:       t.ID,
			AssetID:  t.AssetID,
			Symbol:   symbols[t.AssetID],
			Type:     t.Type,
			Quantity: money.FormatQuantity(t.Quantity),
			Price:    f.amount(t.Price),
			Date:     formatDate(t.Date),
			Total:    f.amount(t.Total),
		}

		if discount := t.DiscountPercent(); discount > 0 {
			view.Discount = fmt.Sprintf("%.0f%%", discount)
			view.OriginalPrice = f.amount(pricing.ReverseDiscount(t.Price, discount))
		}

		if t.Type == model.TransactionSell && t.ProfitLoss != nil && showPnL {
			view.ProfitLossShown = true
			percent := 0.0
			if t.ProfitLossPercent != nil {
				percent = *t.ProfitLossPercent
			}
			view.ProfitLoss = fmt.Sprintf("%s (%+.2f%%)", f.signedAmount(*t.ProfitLoss), percent)
		}

		views = append(views, view)
	}

	return views
}

// Summary renders the portfolio totals. The unrealized change line follows
// the same gating as holdings profit/loss.
func (f *Formatter) Summary(summary model.PortfolioSummary) SummaryView {
	view := SummaryView{
		Currency:      f.currency.Code,
		TotalValue:    f.amount(summary.TotalValue),
		TotalInvested: f.amount(summary.TotalInvested),
		TotalReturn:   f.amount(summary.TotalReturn),
		Balance:       f.amount(summary.Balance),
		BestPerformer: summary.BestPerformer,
	}

	if ShouldDisplayUnrealizedPnL(f.settings) {
		view.TotalChange = fmt.Sprintf("%s (%+.2f%%)", f.signedAmount(summary.TotalReturn), summary.ChangePercent)
	}

	return view
}

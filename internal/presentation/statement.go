package presentation

import (
	"fmt"
	"strings"
	"time"

	"github.com/simfolio/paper-portfolio-backend/internal/model"
)

// Statement assembles a plain-text brokerage statement from the same gated
// views the UI uses, so the statement can never disagree with the screen
// about whether profit figures appear.
func (f *Formatter) Statement(summary model.PortfolioSummary, assets []model.Asset, transactions []model.Transaction) string {
	var b strings.Builder

	broker := f.settings.BrokerName
	if broker == "" {
		broker = "Portfolio Statement"
	}

	fmt.Fprintf(&b, "%s\n", broker)
	fmt.Fprintf(&b, "Generated: %s\n", formatDate(time.Now()))
	fmt.Fprintf(&b, "Currency: %s\n\n", f.currency.Code)

	fmt.Fprintf(&b, "Total Portfolio Value: %s\n", f.amount(summary.TotalValue))
	if ShouldDisplayUnrealizedPnL(f.settings) {
		fmt.Fprintf(&b, "Total Change: %s (%+.2f%%)\n", f.signedAmount(summary.TotalReturn), summary.ChangePercent)
	}
	fmt.Fprintf(&b, "Available Balance: %s\n\n", f.amount(summary.Balance))

	holdings := f.Holdings(assets)
	if len(holdings) > 0 {
		b.WriteString("Holdings\n--------\n")
		for _, h := range holdings {
			fmt.Fprintf(&b, "%s (%s)\n", h.Symbol, h.Name)
			fmt.Fprintf(&b, "  %s shares @ %s\n", h.Quantity, h.Price)
			fmt.Fprintf(&b, "  Value: %s\n", h.Value)
			if h.ProfitLossShown {
				fmt.Fprintf(&b, "  Profit/Loss: %s\n", h.ProfitLoss)
			}
		}
		b.WriteString("\n")
	}

	history := f.Transactions(transactions, assets)
	if len(history) > 0 {
		b.WriteString("Transaction History\n-------------------\n")
		for _, t := range history {
			fmt.Fprintf(&b, "%s  %-4s %s %s @ %s = %s\n", t.Date, strings.ToUpper(t.Type), t.Quantity, t.Symbol, t.Price, t.Total)
			if t.ProfitLossShown {
				fmt.Fprintf(&b, "  Profit/Loss: %s\n", t.ProfitLoss)
			}
		}
	}

	return b.String()
}

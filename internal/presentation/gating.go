// Package presentation derives display strings from ledger state and the
// selected display currency. Everything here is a pure function of its
// inputs; views are recomputed on every currency change and ledger mutation.
package presentation

import "github.com/simfolio/paper-portfolio-backend/internal/model"

// ShouldDisplayUnrealizedPnL gates the profit/loss shown on holdings. It is
// suppressed while volatility is off: a profit figure that can never change
// reads as fake, which defeats the point.
func ShouldDisplayUnrealizedPnL(settings model.Settings) bool {
	return settings.ShowProfit && settings.EnablePriceVolatility
}

// ShouldDisplayRealizedPnL gates the profit/loss shown on sell transactions.
// Realized P&L is an actual historical outcome, so it only follows the
// show-profit toggle, not the volatility one.
func ShouldDisplayRealizedPnL(settings model.Settings) bool {
	return settings.ShowProfit
}

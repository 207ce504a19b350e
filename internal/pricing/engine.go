// Package pricing simulates an already-existing market: freshly bought assets
// get a plausible buy-in/current price pair instead of suspiciously exact
// numbers, and held assets drift a little every day.
package pricing

import (
	"math"
	"math/rand"
	"time"

	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/money"
)

const (
	// maxPurchaseVariation bounds the purchase-time variation at ±8%.
	maxPurchaseVariation = 0.08

	// dailyVolatility bounds a single drift step at ±3%.
	dailyVolatility = 0.03

	// driftInterval is how long a price must sit untouched before it drifts
	// again. 24h/24 keeps the demo responsive while still reading as "daily".
	driftInterval = time.Hour

	// Drift never takes a price below 10% or above 500% of the buy-in price.
	driftFloorRatio   = 0.1
	driftCeilingRatio = 5.0
)

// Engine generates price variations. The random source and clock are injected
// so tests can pin both down.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEngine creates an Engine with the given random source and clock.
// A nil now defaults to time.Now.
func NewEngine(rng *rand.Rand, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{rng: rng, now: now}
}

// Variation is a simulated buy-in/current price pair, both base-unit and
// rounded to cents. The values are stored on the asset as-is.
type Variation struct {
	InitialPrice float64
	CurrentPrice float64
}

// PurchaseVariation derives a buy-in and current price from an undiscounted
// base price. With volatility disabled both outputs equal the rounded base
// price, so the feature is fully inert. With volatility enabled the buy-in
// draw is biased slightly below the base price and the current draw slightly
// above, with a mean-reversion nudge so an extreme buy-in draw pulls the
// current price the other way. Both outputs are clamped to at least half the
// base price.
func (e *Engine) PurchaseVariation(basePrice float64, volatilityEnabled bool) Variation {
	if !volatilityEnabled {
		rounded := money.Round2(basePrice)
		return Variation{InitialPrice: rounded, CurrentPrice: rounded}
	}

	initialVariation := (e.rng.Float64() - 0.6) * maxPurchaseVariation
	currentVariation := (e.rng.Float64() - 0.4) * maxPurchaseVariation

	initialPrice := basePrice * (1 + initialVariation)
	currentPrice := basePrice * (1 + currentVariation)

	correlation := -0.3 * initialVariation * maxPurchaseVariation
	currentPrice *= 1 + correlation

	initialPrice = math.Max(initialPrice, basePrice*0.5)
	currentPrice = math.Max(currentPrice, basePrice*0.5)

	return Variation{
		InitialPrice: money.Round2(initialPrice),
		CurrentPrice: money.Round2(currentPrice),
	}
}

// DriftPrice applies one bounded daily price movement to the asset, mutating
// CurrentPrice and LastPriceUpdate. It is a no-op when volatility is disabled
// or the asset's price was updated within the drift interval. Reports whether
// the asset changed.
func (e *Engine) DriftPrice(asset *model.Asset, volatilityEnabled bool) bool {
	if !volatilityEnabled {
		return false
	}

	now := e.now()
	if asset.LastPriceUpdate.IsZero() {
		// Assets predating drift tracking get a random recent timestamp so
		// the whole portfolio doesn't move in lockstep.
		asset.LastPriceUpdate = now.Add(-time.Duration(e.rng.Float64() * float64(7*24*time.Hour)))
	}

	if now.Sub(asset.LastPriceUpdate) <= driftInterval {
		return false
	}

	delta := (e.rng.Float64() - 0.45) * dailyVolatility
	newPrice := asset.CurrentPrice * (1 + delta)

	minPrice := asset.InitialPrice * driftFloorRatio
	maxPrice := asset.InitialPrice * driftCeilingRatio
	newPrice = math.Max(minPrice, math.Min(maxPrice, money.Round2(newPrice)))

	asset.CurrentPrice = newPrice
	asset.LastPriceUpdate = now
	return true
}

package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/repository"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults
//	asset := testutil.NewAsset().Build(t, db)
//
//	// Customized asset
//	asset := testutil.NewAsset().
//	    WithSymbol("AAPL").
//	    WithQuantity(10).
//	    WithPrices(150, 160).
//	    Build(t, db)
type AssetBuilder struct {
	ID              string
	Symbol          string
	Name            string
	Quantity        float64
	CurrentPrice    float64
	InitialPrice    float64
	LastPriceUpdate time.Time
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	return &AssetBuilder{
		ID:              MakeID(),
		Symbol:          MakeSymbol("TST"),
		Name:            "Test Asset",
		Quantity:        10,
		CurrentPrice:    100,
		InitialPrice:    100,
		LastPriceUpdate: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.Name = name
	return b
}

// WithQuantity sets the held quantity.
func (b *AssetBuilder) WithQuantity(quantity float64) *AssetBuilder {
	b.Quantity = quantity
	return b
}

// WithPrices sets the buy-in and current base-unit prices.
func (b *AssetBuilder) WithPrices(initial, current float64) *AssetBuilder {
	b.InitialPrice = initial
	b.CurrentPrice = current
	return b
}

// WithLastPriceUpdate sets the drift timestamp.
func (b *AssetBuilder) WithLastPriceUpdate(t time.Time) *AssetBuilder {
	b.LastPriceUpdate = t
	return b
}

// Depleted marks the position as fully sold.
func (b *AssetBuilder) Depleted() *AssetBuilder {
	b.Quantity = 0
	return b
}

// Build inserts the asset and returns the model.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	asset := model.Asset{
		ID:              b.ID,
		Symbol:          b.Symbol,
		Name:            b.Name,
		Quantity:        b.Quantity,
		CurrentPrice:    b.CurrentPrice,
		InitialPrice:    b.InitialPrice,
		LastPriceUpdate: b.LastPriceUpdate,
	}

	if err := repository.NewAssetRepository(db).InsertAsset(&asset); err != nil {
		t.Fatalf("Failed to insert test asset: %v", err)
	}

	return asset
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction(asset.ID).
//	    Sell().
//	    WithQuantity(5).
//	    WithPrice(120).
//	    Build(t, db)
type TransactionBuilder struct {
	ID                string
	AssetID           string
	Type              string
	Quantity          float64
	Price             float64
	Discount          *float64
	Date              time.Time
	ProfitLoss        *float64
	ProfitLossPercent *float64
}

// NewTransaction creates a TransactionBuilder for a buy with sensible defaults.
func NewTransaction(assetID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:       MakeID(),
		AssetID:  assetID,
		Type:     model.TransactionBuy,
		Quantity: 10,
		Price:    100,
		Date:     time.Now().UTC(),
	}
}

// Sell switches the transaction type to a sale.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Type = model.TransactionSell
	return b
}

// WithQuantity sets the traded quantity.
func (b *TransactionBuilder) WithQuantity(quantity float64) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the executed base-unit price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.Price = price
	return b
}

// WithDiscount records an acquisition discount percentage.
func (b *TransactionBuilder) WithDiscount(percent float64) *TransactionBuilder {
	b.Discount = &percent
	return b
}

// WithDate backdates the transaction.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// WithRealizedPnL attaches realized profit figures to a sale.
func (b *TransactionBuilder) WithRealizedPnL(profitLoss, profitLossPercent float64) *TransactionBuilder {
	b.ProfitLoss = &profitLoss
	b.ProfitLossPercent = &profitLossPercent
	return b
}

// Build inserts the transaction and returns the model.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	transaction := model.Transaction{
		ID:                b.ID,
		AssetID:           b.AssetID,
		Type:              b.Type,
		Quantity:          b.Quantity,
		Price:             b.Price,
		Discount:          b.Discount,
		Date:              b.Date,
		Total:             b.Quantity * b.Price,
		ProfitLoss:        b.ProfitLoss,
		ProfitLossPercent: b.ProfitLossPercent,
	}

	if err := repository.NewTransactionRepository(db).InsertTransaction(&transaction); err != nil {
		t.Fatalf("Failed to insert test transaction: %v", err)
	}

	return transaction
}

package service_test

import (
	"errors"
	"math"
	"testing"

	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/money"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
	"github.com/simfolio/paper-portfolio-backend/internal/testutil"
)

const balanceTolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < balanceTolerance
}

// TestLedgerService_Balance tests the cash balance lifecycle.
//
// WHY: The balance is the single number every trade settles against. A fresh
// portfolio must start with the documented default and survive a store/load
// round trip exactly.
func TestLedgerService_Balance(t *testing.T) {
	t.Run("fresh portfolio starts with the default balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		balance, err := svc.Balance()
		if err != nil {
			t.Fatalf("Balance() returned unexpected error: %v", err)
		}

		want := money.ToBase(1000, money.MustByCode("EUR"))
		if !almostEqual(balance, want) {
			t.Errorf("Balance() = %v, want %v", balance, want)
		}
	})
}

// TestLedgerService_BuyNewAsset tests opening a new position.
//
// WHY: BuyNewAsset is the entry point for every position and touches all the
// moving parts at once: validation, currency conversion, the discount,
// the purchase-time price simulation, and the balance.
func TestLedgerService_BuyNewAsset(t *testing.T) {
	t.Run("creates asset and opening buy, deducts balance", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		startBalance, _ := svc.Balance()

		// Execute
		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol:       "aapl",
			Name:         "Apple Inc.",
			Quantity:     2,
			DisplayPrice: 150,
			CurrencyCode: "USD",
		})

		// Assert
		if err != nil {
			t.Fatalf("BuyNewAsset() returned unexpected error: %v", err)
		}

		if asset.Symbol != "AAPL" {
			t.Errorf("Symbol = %q, want normalized %q", asset.Symbol, "AAPL")
		}
		if asset.Quantity != 2 {
			t.Errorf("Quantity = %v, want 2", asset.Quantity)
		}
		// Volatility is off by default, so both prices equal the entered price.
		if asset.InitialPrice != 150 || asset.CurrentPrice != 150 {
			t.Errorf("prices = (%v, %v), want (150, 150)", asset.InitialPrice, asset.CurrentPrice)
		}

		transactions, err := svc.GetTransactions()
		if err != nil {
			t.Fatalf("GetTransactions() returned unexpected error: %v", err)
		}
		if len(transactions) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(transactions))
		}
		tx := transactions[0]
		if tx.Type != model.TransactionBuy || tx.AssetID != asset.ID {
			t.Errorf("opening transaction = %+v, want buy against %s", tx, asset.ID)
		}
		if tx.Total != 300 {
			t.Errorf("Total = %v, want 300", tx.Total)
		}
		if tx.Discount != nil {
			t.Errorf("Discount = %v, want nil for an undiscounted buy", *tx.Discount)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, startBalance-300) {
			t.Errorf("Balance = %v, want %v", balance, startBalance-300)
		}
	})

	t.Run("converts display currency to base units", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		startBalance, _ := svc.Balance()

		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol:       "SAP",
			Name:         "SAP SE",
			Quantity:     1,
			DisplayPrice: 85,
			CurrencyCode: "EUR",
		})
		if err != nil {
			t.Fatalf("BuyNewAsset() returned unexpected error: %v", err)
		}

		// 85 EUR at rate 0.85 is exactly 100 base units.
		if asset.CurrentPrice != 100 {
			t.Errorf("CurrentPrice = %v, want 100", asset.CurrentPrice)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, startBalance-100) {
			t.Errorf("Balance = %v, want %v", balance, startBalance-100)
		}
	})

	t.Run("applies discount to cost but not to asset prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		startBalance, _ := svc.Balance()

		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol:          "MSFT",
			Name:            "Microsoft",
			Quantity:        2,
			DisplayPrice:    100,
			CurrencyCode:    "USD",
			DiscountPercent: 10,
		})
		if err != nil {
			t.Fatalf("BuyNewAsset() returned unexpected error: %v", err)
		}

		// The discount is a one-time acquisition deal: the fair value of the
		// asset stays at the undiscounted price.
		if asset.InitialPrice != 100 || asset.CurrentPrice != 100 {
			t.Errorf("prices = (%v, %v), want undiscounted (100, 100)", asset.InitialPrice, asset.CurrentPrice)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, startBalance-180) {
			t.Errorf("Balance = %v, want %v (paid the discounted total)", balance, startBalance-180)
		}

		transactions, _ := svc.GetTransactions()
		if len(transactions) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(transactions))
		}
		if transactions[0].Price != 90 {
			t.Errorf("transaction Price = %v, want discounted 90", transactions[0].Price)
		}
		if transactions[0].Discount == nil || *transactions[0].Discount != 10 {
			t.Errorf("Discount = %v, want recorded 10", transactions[0].Discount)
		}
	})

	t.Run("rejects duplicate symbol case-insensitively", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		if _, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "TSLA", Name: "Tesla", Quantity: 1, DisplayPrice: 10, CurrencyCode: "USD",
		}); err != nil {
			t.Fatalf("first buy failed: %v", err)
		}

		_, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "tsla", Name: "Tesla again", Quantity: 1, DisplayPrice: 10, CurrencyCode: "USD",
		})
		if !errors.Is(err, apperrors.ErrDuplicateSymbol) {
			t.Errorf("err = %v, want ErrDuplicateSymbol", err)
		}
	})

	t.Run("rejects a buy that exceeds the balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		_, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "BRK.A", Name: "Berkshire", Quantity: 1, DisplayPrice: 700000, CurrencyCode: "USD",
		})
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			t.Errorf("err = %v, want ErrInsufficientBalance", err)
		}

		assets, _ := svc.GetAssets()
		if len(assets) != 0 {
			t.Errorf("rejected buy still created %d assets", len(assets))
		}
	})

	t.Run("rejects invalid quantity and price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		cases := []struct {
			name string
			req  service.BuyRequest
			want error
		}{
			{"zero quantity", service.BuyRequest{Symbol: "A", Quantity: 0, DisplayPrice: 10, CurrencyCode: "USD"}, apperrors.ErrInvalidQuantity},
			{"negative quantity", service.BuyRequest{Symbol: "A", Quantity: -1, DisplayPrice: 10, CurrencyCode: "USD"}, apperrors.ErrInvalidQuantity},
			{"NaN quantity", service.BuyRequest{Symbol: "A", Quantity: math.NaN(), DisplayPrice: 10, CurrencyCode: "USD"}, apperrors.ErrInvalidQuantity},
			{"zero price", service.BuyRequest{Symbol: "A", Quantity: 1, DisplayPrice: 0, CurrencyCode: "USD"}, apperrors.ErrInvalidPrice},
			{"infinite price", service.BuyRequest{Symbol: "A", Quantity: 1, DisplayPrice: math.Inf(1), CurrencyCode: "USD"}, apperrors.ErrInvalidPrice},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := svc.BuyNewAsset(tc.req); !errors.Is(err, tc.want) {
					t.Errorf("err = %v, want %v", err, tc.want)
				}
			})
		}
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		_, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "NOK", Name: "Nokia", Quantity: 1, DisplayPrice: 10, CurrencyCode: "SEK",
		})
		if !errors.Is(err, apperrors.ErrUnknownCurrency) {
			t.Errorf("err = %v, want ErrUnknownCurrency", err)
		}
	})

	t.Run("prefers a known base price over display conversion", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		basePrice := 123.45
		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol:         "GOOG",
			Name:           "Alphabet",
			Quantity:       1,
			DisplayPrice:   104.93, // deliberately inconsistent with basePrice
			CurrencyCode:   "EUR",
			KnownBasePrice: &basePrice,
		})
		if err != nil {
			t.Fatalf("BuyNewAsset() returned unexpected error: %v", err)
		}
		if asset.CurrentPrice != 123.45 {
			t.Errorf("CurrentPrice = %v, want the known base price 123.45", asset.CurrentPrice)
		}
	})
}

// TestLedgerService_RecordTransaction tests trades against existing assets.
//
// WHY: Follow-up buys and partial sells are the core ledger mutations. Each
// must move the balance and the position by exactly the transaction total,
// and sells must pin their realized profit to the original buy-in price.
func TestLedgerService_RecordTransaction(t *testing.T) {
	buy := func(t *testing.T, svc *service.LedgerService) *model.Asset {
		t.Helper()
		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 10, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}
		return asset
	}

	t.Run("buy grows the position and deducts the balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)
		asset := buy(t, svc)
		balanceBefore, _ := svc.Balance()

		tx, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: asset.ID, Type: model.TransactionBuy, Quantity: 5, DisplayPrice: 4, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("RecordTransaction() returned unexpected error: %v", err)
		}

		if tx.Total != 20 {
			t.Errorf("Total = %v, want 20", tx.Total)
		}

		assets, _ := svc.GetAssets()
		if assets[0].Quantity != 15 {
			t.Errorf("Quantity = %v, want 15", assets[0].Quantity)
		}
		if assets[0].CurrentPrice != 4 {
			t.Errorf("CurrentPrice = %v, want the transacted price 4", assets[0].CurrentPrice)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, balanceBefore-20) {
			t.Errorf("Balance = %v, want %v", balance, balanceBefore-20)
		}
	})

	t.Run("sell shrinks the position, credits the balance, and realizes profit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)
		asset := buy(t, svc)
		balanceBefore, _ := svc.Balance()

		tx, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: asset.ID, Type: model.TransactionSell, Quantity: 4, DisplayPrice: 120, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("RecordTransaction() returned unexpected error: %v", err)
		}

		if tx.ProfitLoss == nil || !almostEqual(*tx.ProfitLoss, 80) {
			t.Errorf("ProfitLoss = %v, want 80 (4 shares x 20 over the buy-in)", tx.ProfitLoss)
		}
		if tx.ProfitLossPercent == nil || !almostEqual(*tx.ProfitLossPercent, 20) {
			t.Errorf("ProfitLossPercent = %v, want 20", tx.ProfitLossPercent)
		}

		assets, _ := svc.GetAssets()
		if assets[0].Quantity != 6 {
			t.Errorf("Quantity = %v, want 6", assets[0].Quantity)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, balanceBefore+480) {
			t.Errorf("Balance = %v, want %v", balance, balanceBefore+480)
		}
	})

	t.Run("rejects selling more than is held", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)
		asset := buy(t, svc)
		balanceBefore, _ := svc.Balance()

		_, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: asset.ID, Type: model.TransactionSell, Quantity: 11, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Errorf("err = %v, want ErrInsufficientShares", err)
		}

		// Nothing may have moved.
		assets, _ := svc.GetAssets()
		if assets[0].Quantity != 10 {
			t.Errorf("Quantity = %v, want untouched 10", assets[0].Quantity)
		}
		balance, _ := svc.Balance()
		if !almostEqual(balance, balanceBefore) {
			t.Errorf("Balance = %v, want untouched %v", balance, balanceBefore)
		}
	})

	t.Run("rejects a buy against a missing asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		_, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: testutil.MakeID(), Type: model.TransactionBuy, Quantity: 1, DisplayPrice: 10, CurrencyCode: "USD",
		})
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("err = %v, want ErrAssetNotFound", err)
		}
	})
}

// TestLedgerService_RecordTransaction_ForeignCurrency tests trades entered in
// a non-USD display currency.
//
// WHY: Sells convert the entered display price to base units before realizing
// profit. With EUR at 0.85, buying 10 shares at €85 (base $100) and selling at
// €90 must realize 90/0.85 - 100 ≈ $5.88 per share, which converts back to
// exactly the €5.00 per share the user sees between entry and exit.
func TestLedgerService_RecordTransaction_ForeignCurrency(t *testing.T) {
	t.Run("sell entered in EUR realizes the converted profit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)
		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 10, DisplayPrice: 85, CurrencyCode: "EUR",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}
		if asset.InitialPrice != 100 {
			t.Fatalf("InitialPrice = %v, want 100 (€85 at rate 0.85)", asset.InitialPrice)
		}
		balanceBefore, _ := svc.Balance()

		tx, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: asset.ID, Type: model.TransactionSell, Quantity: 10, DisplayPrice: 90, CurrencyCode: "EUR",
		})
		if err != nil {
			t.Fatalf("RecordTransaction() returned unexpected error: %v", err)
		}

		wantPrice := 90.0 / 0.85
		if !almostEqual(tx.Price, wantPrice) {
			t.Errorf("Price = %v, want %v (€90 in base units)", tx.Price, wantPrice)
		}
		if tx.ProfitLoss == nil || !almostEqual(*tx.ProfitLoss, (wantPrice-100)*10) {
			t.Errorf("ProfitLoss = %v, want %v", tx.ProfitLoss, (wantPrice-100)*10)
		}

		eur := money.MustByCode("EUR")
		if displayed := money.ToDisplay(*tx.ProfitLoss, eur); !almostEqual(displayed, 50) {
			t.Errorf("profit in EUR = %v, want 50 (5.00 per share)", displayed)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, balanceBefore+tx.Total) {
			t.Errorf("Balance = %v, want %v", balance, balanceBefore+tx.Total)
		}
	})

	t.Run("sell entered in GBP realizes the converted loss", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)
		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "BARC", Name: "Barclays", Quantity: 10, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}

		tx, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: asset.ID, Type: model.TransactionSell, Quantity: 10, DisplayPrice: 65, CurrencyCode: "GBP",
		})
		if err != nil {
			t.Fatalf("RecordTransaction() returned unexpected error: %v", err)
		}

		wantPrice := 65.0 / 0.73
		if !almostEqual(tx.Price, wantPrice) {
			t.Errorf("Price = %v, want %v (£65 in base units)", tx.Price, wantPrice)
		}
		if tx.ProfitLoss == nil || !almostEqual(*tx.ProfitLoss, (wantPrice-100)*10) {
			t.Errorf("ProfitLoss = %v, want %v", tx.ProfitLoss, (wantPrice-100)*10)
		}

		// £65 entered against a £73 buy-in is an £8.00 loss per share.
		gbp := money.MustByCode("GBP")
		if displayed := money.ToDisplay(*tx.ProfitLoss, gbp); !almostEqual(displayed, -80) {
			t.Errorf("loss in GBP = %v, want -80 (-8.00 per share)", displayed)
		}
	})
}

// TestLedgerService_SellAllShares tests full liquidation.
func TestLedgerService_SellAllShares(t *testing.T) {
	t.Run("liquidates at the current market price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 3, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}
		balanceBefore, _ := svc.Balance()

		tx, err := svc.SellAllShares(asset.ID)
		if err != nil {
			t.Fatalf("SellAllShares() returned unexpected error: %v", err)
		}

		if tx.Quantity != 3 || tx.Price != 100 {
			t.Errorf("sell = %v x %v, want 3 x 100", tx.Quantity, tx.Price)
		}

		assets, _ := svc.GetAssets()
		if len(assets) != 1 || assets[0].Quantity != 0 {
			t.Errorf("asset should remain with zero quantity, got %+v", assets)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, balanceBefore+300) {
			t.Errorf("Balance = %v, want %v", balance, balanceBefore+300)
		}
	})

	t.Run("rejects a depleted position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		asset := testutil.NewAsset().Depleted().Build(t, db)

		_, err := svc.SellAllShares(asset.ID)
		if !errors.Is(err, apperrors.ErrNothingToSell) {
			t.Errorf("err = %v, want ErrNothingToSell", err)
		}
	})

	t.Run("rejects a missing asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		_, err := svc.SellAllShares(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("err = %v, want ErrAssetNotFound", err)
		}
	})
}

// TestLedgerService_DeleteTransaction tests undo semantics.
//
// WHY: Deleting a transaction is specified as the exact inverse of recording
// it. Recording then deleting must restore balance and quantity bit-for-bit
// in the stored representation, or undo would slowly corrupt the ledger.
func TestLedgerService_DeleteTransaction(t *testing.T) {
	t.Run("deleting a buy restores balance and quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 10, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}
		balanceBefore, _ := svc.Balance()

		tx, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: asset.ID, Type: model.TransactionBuy, Quantity: 5, DisplayPrice: 7, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup transaction failed: %v", err)
		}

		if err := svc.DeleteTransaction(tx.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}

		balance, _ := svc.Balance()
		if balance != balanceBefore {
			t.Errorf("Balance = %v, want exactly restored %v", balance, balanceBefore)
		}

		assets, _ := svc.GetAssets()
		if assets[0].Quantity != 10 {
			t.Errorf("Quantity = %v, want restored 10", assets[0].Quantity)
		}

		transactions, _ := svc.GetTransactions()
		if len(transactions) != 1 {
			t.Errorf("Expected only the opening buy to remain, got %d transactions", len(transactions))
		}
	})

	t.Run("deleting a sell restores the position and debits the balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 10, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}

		sell, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: asset.ID, Type: model.TransactionSell, Quantity: 4, DisplayPrice: 110, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup sell failed: %v", err)
		}
		balanceAfterSell, _ := svc.Balance()

		if err := svc.DeleteTransaction(sell.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, balanceAfterSell-440) {
			t.Errorf("Balance = %v, want %v", balance, balanceAfterSell-440)
		}

		assets, _ := svc.GetAssets()
		if assets[0].Quantity != 10 {
			t.Errorf("Quantity = %v, want restored 10", assets[0].Quantity)
		}
	})

	t.Run("drops the record when the asset is gone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		// An orphaned record, as left behind by an import of inconsistent
		// data. Disable the cascade so only the asset row goes.
		asset := testutil.NewAsset().Build(t, db)
		tx := testutil.NewTransaction(asset.ID).Build(t, db)
		if _, err := db.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
			t.Fatalf("failed to disable foreign keys: %v", err)
		}
		if _, err := db.Exec(`DELETE FROM asset WHERE id = ?`, asset.ID); err != nil {
			t.Fatalf("failed to orphan transaction: %v", err)
		}
		balanceBefore, _ := svc.Balance()

		if err := svc.DeleteTransaction(tx.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}

		balance, _ := svc.Balance()
		if balance != balanceBefore {
			t.Errorf("Balance = %v, want untouched %v", balance, balanceBefore)
		}
	})

	t.Run("rejects a missing transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		err := svc.DeleteTransaction(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("err = %v, want ErrTransactionNotFound", err)
		}
	})
}

// TestLedgerService_DeleteAsset tests position removal.
//
// WHY: Deleting an asset means "forget this position ever existed": its
// transactions disappear with it and the balance deliberately keeps whatever
// the trades did to it.
func TestLedgerService_DeleteAsset(t *testing.T) {
	t.Run("removes the asset and its transactions, balance untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		asset, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 2, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}
		balanceAfterBuy, _ := svc.Balance()

		if err := svc.DeleteAsset(asset.ID); err != nil {
			t.Fatalf("DeleteAsset() returned unexpected error: %v", err)
		}

		assets, _ := svc.GetAssets()
		if len(assets) != 0 {
			t.Errorf("Expected no assets, got %d", len(assets))
		}
		transactions, _ := svc.GetTransactions()
		if len(transactions) != 0 {
			t.Errorf("Expected no transactions, got %d", len(transactions))
		}

		balance, _ := svc.Balance()
		if balance != balanceAfterBuy {
			t.Errorf("Balance = %v, want untouched %v", balance, balanceAfterBuy)
		}
	})

	t.Run("rejects a missing asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		if err := svc.DeleteAsset(testutil.MakeID()); !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("err = %v, want ErrAssetNotFound", err)
		}
	})
}

// TestLedgerService_ResetPortfolio tests the reset paths.
func TestLedgerService_ResetPortfolio(t *testing.T) {
	t.Run("clears holdings and restores the default balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		if _, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 2, DisplayPrice: 100, CurrencyCode: "USD",
		}); err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}

		if err := svc.ResetPortfolio(false); err != nil {
			t.Fatalf("ResetPortfolio() returned unexpected error: %v", err)
		}

		assets, _ := svc.GetAssets()
		transactions, _ := svc.GetTransactions()
		if len(assets) != 0 || len(transactions) != 0 {
			t.Errorf("Expected empty portfolio, got %d assets and %d transactions", len(assets), len(transactions))
		}

		balance, _ := svc.Balance()
		if !almostEqual(balance, service.DefaultBalance()) {
			t.Errorf("Balance = %v, want default %v", balance, service.DefaultBalance())
		}
	})

	t.Run("keeps settings unless asked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		settingsService := testutil.NewTestSettingsService(t, db)
		svc := testutil.NewTestLedgerService(t, db, 1)

		custom := model.DefaultSettings()
		custom.Currency = "GBP"
		custom.BrokerName = "Sterling Trading"
		if err := settingsService.Update(custom); err != nil {
			t.Fatalf("setup settings failed: %v", err)
		}

		if err := svc.ResetPortfolio(false); err != nil {
			t.Fatalf("ResetPortfolio(false) returned unexpected error: %v", err)
		}
		settings, _ := settingsService.Get()
		if settings.Currency != "GBP" {
			t.Errorf("Currency = %q, want preserved %q", settings.Currency, "GBP")
		}

		if err := svc.ResetPortfolio(true); err != nil {
			t.Fatalf("ResetPortfolio(true) returned unexpected error: %v", err)
		}
		settings, _ = settingsService.Get()
		if settings.Currency != model.DefaultSettings().Currency {
			t.Errorf("Currency = %q, want default %q", settings.Currency, model.DefaultSettings().Currency)
		}
	})
}

// TestLedgerService_Summary tests the portfolio totals.
//
// WHY: The summary aggregates every other piece of state. Total invested is
// a net cash-flow measure, so sells subtract from it, and the change percent
// must survive a zero denominator.
func TestLedgerService_Summary(t *testing.T) {
	t.Run("empty portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		summary, err := svc.Summary()
		if err != nil {
			t.Fatalf("Summary() returned unexpected error: %v", err)
		}

		if summary.TotalValue != 0 || summary.TotalInvested != 0 || summary.ChangePercent != 0 {
			t.Errorf("empty summary = %+v, want zeros", summary)
		}
		if summary.BestPerformer != "" {
			t.Errorf("BestPerformer = %q, want empty", summary.BestPerformer)
		}
	})

	t.Run("aggregates holdings and cash flow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, 1)

		a, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "AAPL", Name: "Apple", Quantity: 2, DisplayPrice: 100, CurrencyCode: "USD",
		})
		if err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}
		if _, err := svc.BuyNewAsset(service.BuyRequest{
			Symbol: "MSFT", Name: "Microsoft", Quantity: 1, DisplayPrice: 50, CurrencyCode: "USD",
		}); err != nil {
			t.Fatalf("setup buy failed: %v", err)
		}
		if _, err := svc.RecordTransaction(service.TradeRequest{
			AssetID: a.ID, Type: model.TransactionSell, Quantity: 1, DisplayPrice: 120, CurrencyCode: "USD",
		}); err != nil {
			t.Fatalf("setup sell failed: %v", err)
		}

		summary, err := svc.Summary()
		if err != nil {
			t.Fatalf("Summary() returned unexpected error: %v", err)
		}

		// AAPL: 1 share left at the transacted price 120. MSFT: 1 at 50.
		if !almostEqual(summary.TotalValue, 170) {
			t.Errorf("TotalValue = %v, want 170", summary.TotalValue)
		}
		// Invested: 200 + 50 in buys, minus 120 sold.
		if !almostEqual(summary.TotalInvested, 130) {
			t.Errorf("TotalInvested = %v, want 130", summary.TotalInvested)
		}
		if !almostEqual(summary.TotalReturn, 40) {
			t.Errorf("TotalReturn = %v, want 40", summary.TotalReturn)
		}

		// AAPL sits 20% above its buy-in, MSFT is flat.
		if summary.BestPerformer != "AAPL" {
			t.Errorf("BestPerformer = %q, want AAPL", summary.BestPerformer)
		}
	})
}

// TestBestPerformer tests the tie-break and guard behavior directly.
func TestBestPerformer(t *testing.T) {
	t.Run("nil for no assets", func(t *testing.T) {
		if got := service.BestPerformer(nil); got != nil {
			t.Errorf("BestPerformer(nil) = %+v, want nil", got)
		}
	})

	t.Run("first encountered wins ties", func(t *testing.T) {
		assets := []model.Asset{
			{Symbol: "AAA", InitialPrice: 100, CurrentPrice: 110},
			{Symbol: "BBB", InitialPrice: 200, CurrentPrice: 220},
		}
		if got := service.BestPerformer(assets); got.Symbol != "AAA" {
			t.Errorf("BestPerformer = %q, want first-encountered AAA", got.Symbol)
		}
	})

	t.Run("zero buy-in counts as flat", func(t *testing.T) {
		assets := []model.Asset{
			{Symbol: "ZERO", InitialPrice: 0, CurrentPrice: 50},
			{Symbol: "UP", InitialPrice: 100, CurrentPrice: 101},
		}
		if got := service.BestPerformer(assets); got.Symbol != "UP" {
			t.Errorf("BestPerformer = %q, want UP", got.Symbol)
		}
	})
}

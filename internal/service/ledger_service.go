package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/money"
	"github.com/simfolio/paper-portfolio-backend/internal/pricing"
	"github.com/simfolio/paper-portfolio-backend/internal/repository"
)

// defaultBalanceEUR is the starting cash balance, denominated in EUR and
// converted to base units on reset (1000 EUR ≈ $1176.47).
const defaultBalanceEUR = 1000.0

// LedgerService is the portfolio aggregate. It owns assets, transactions, and
// the cash balance, enforces balance sufficiency, and produces every mutation.
// All monetary values it stores are base units; conversion to the display
// currency happens in presentation only.
//
// Mutations are serialized by a mutex and validate completely before touching
// any state, so a rejected operation leaves the ledger unchanged.
type LedgerService struct {
	mu sync.Mutex

	assetRepo       *repository.AssetRepository
	transactionRepo *repository.TransactionRepository
	stateRepo       *repository.StateRepository
	settingsService *SettingsService
	engine          *pricing.Engine
}

// NewLedgerService creates a new LedgerService with the provided dependencies.
func NewLedgerService(
	assetRepo *repository.AssetRepository,
	transactionRepo *repository.TransactionRepository,
	stateRepo *repository.StateRepository,
	settingsService *SettingsService,
	engine *pricing.Engine,
) *LedgerService {
	return &LedgerService{
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		stateRepo:       stateRepo,
		settingsService: settingsService,
		engine:          engine,
	}
}

// BuyRequest describes the purchase of a brand-new position.
// DisplayPrice is denominated in CurrencyCode. KnownBasePrice, when set,
// carries the original base-unit price from a quote lookup and is used
// directly to avoid a double-rounding round-trip through the display currency.
type BuyRequest struct {
	Symbol          string
	Name            string
	Quantity        float64
	DisplayPrice    float64
	CurrencyCode    string
	KnownBasePrice  *float64
	DiscountPercent float64
}

// TradeRequest describes a buy or sell against an existing asset.
type TradeRequest struct {
	AssetID         string
	Type            string
	Quantity        float64
	DisplayPrice    float64
	CurrencyCode    string
	Date            time.Time
	DiscountPercent float64
}

// DefaultBalance returns the base-unit balance a fresh portfolio starts with.
func DefaultBalance() float64 {
	return money.ToBase(defaultBalanceEUR, money.MustByCode("EUR"))
}

// Balance returns the current base-unit cash balance, the default when
// nothing has been stored yet.
func (s *LedgerService) Balance() (float64, error) {
	raw, ok, err := s.stateRepo.Get(repository.BalanceKey)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultBalance(), nil
	}

	balance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse stored balance: %w", err)
	}
	return balance, nil
}

func (s *LedgerService) saveBalance(balance float64) error {
	return s.stateRepo.Set(repository.BalanceKey, strconv.FormatFloat(balance, 'g', -1, 64))
}

// GetAssets returns all assets, depleted ones included.
func (s *LedgerService) GetAssets() ([]model.Asset, error) {
	return s.assetRepo.GetAssets()
}

// GetTransactions returns all transactions in chronological order.
func (s *LedgerService) GetTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions()
}

// GetAssetTransactions returns one asset and its transactions in
// chronological order. Returns apperrors.ErrAssetNotFound for unknown IDs.
func (s *LedgerService) GetAssetTransactions(assetID string) (model.Asset, []model.Transaction, error) {
	asset, err := s.assetRepo.GetAsset(assetID)
	if err != nil {
		return model.Asset{}, nil, err
	}

	transactions, err := s.transactionRepo.GetTransactionsByAsset(assetID)
	if err != nil {
		return model.Asset{}, nil, err
	}

	return asset, transactions, nil
}

// resolveBasePrice turns a display-currency price into a base-unit price,
// preferring an already-known base price from a quote to avoid double
// rounding.
func resolveBasePrice(displayPrice float64, currencyCode string, knownBasePrice *float64) (float64, error) {
	if knownBasePrice != nil {
		return *knownBasePrice, nil
	}
	c, err := money.ByCode(currencyCode)
	if err != nil {
		return 0, err
	}
	return money.ToBase(displayPrice, c), nil
}

func validQuantity(q float64) bool {
	return q > 0 && !math.IsInf(q, 0) && !math.IsNaN(q)
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// BuyNewAsset validates and executes the purchase of a new position: it
// converts the entered price to base units, applies any dark-pool discount to
// the acquisition cost, checks the balance, simulates a purchase-time price
// variation from the undiscounted price, and records the opening buy
// transaction. The discount reflects a one-time acquisition deal and never
// changes the asset's fair value.
func (s *LedgerService) BuyNewAsset(req BuyRequest) (*model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validQuantity(req.Quantity) {
		return nil, apperrors.ErrInvalidQuantity
	}
	if req.KnownBasePrice == nil && !validPrice(req.DisplayPrice) {
		return nil, apperrors.ErrInvalidPrice
	}
	if req.KnownBasePrice != nil && !validPrice(*req.KnownBasePrice) {
		return nil, apperrors.ErrInvalidPrice
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	exists, err := s.assetRepo.SymbolExists(symbol)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateSymbol
	}

	basePrice, err := resolveBasePrice(req.DisplayPrice, req.CurrencyCode, req.KnownBasePrice)
	if err != nil {
		return nil, err
	}

	discountedPrice := pricing.ApplyDiscount(basePrice, req.DiscountPercent)
	totalCost := req.Quantity * discountedPrice

	balance, err := s.Balance()
	if err != nil {
		return nil, err
	}
	if balance < totalCost {
		return nil, apperrors.ErrInsufficientBalance
	}

	settings, err := s.settingsService.Get()
	if err != nil {
		return nil, err
	}

	// The variation works from the undiscounted price: the market does not
	// know about the acquisition deal.
	variation := s.engine.PurchaseVariation(basePrice, settings.EnablePriceVolatility)

	now := time.Now().UTC()
	asset := &model.Asset{
		ID:              uuid.New().String(),
		Symbol:          symbol,
		Name:            req.Name,
		Quantity:        req.Quantity,
		CurrentPrice:    variation.CurrentPrice,
		InitialPrice:    variation.InitialPrice,
		LastPriceUpdate: now,
	}

	transaction := &model.Transaction{
		ID:       uuid.New().String(),
		AssetID:  asset.ID,
		Type:     model.TransactionBuy,
		Quantity: req.Quantity,
		Price:    discountedPrice,
		Date:     now,
		Total:    totalCost,
	}
	if req.DiscountPercent > 0 {
		discount := req.DiscountPercent
		transaction.Discount = &discount
	}

	if err := s.assetRepo.InsertAsset(asset); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.InsertTransaction(transaction); err != nil {
		return nil, err
	}
	if err := s.saveBalance(balance - totalCost); err != nil {
		return nil, err
	}

	return asset, nil
}

// RecordTransaction validates and executes a buy or sell against an existing
// asset. Buys deduct the discounted total from the balance and grow the
// position; sells credit the balance, shrink the position, and persist the
// realized profit/loss against the asset's buy-in price at creation time.
// Both set the asset's current price to the transacted base price.
func (s *LedgerService) RecordTransaction(req TradeRequest) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validQuantity(req.Quantity) {
		return nil, apperrors.ErrInvalidQuantity
	}
	if !validPrice(req.DisplayPrice) {
		return nil, apperrors.ErrInvalidPrice
	}

	asset, err := s.assetRepo.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}

	basePrice, err := resolveBasePrice(req.DisplayPrice, req.CurrencyCode, nil)
	if err != nil {
		return nil, err
	}

	// Discounts are acquisition-only. Sells always transact undiscounted.
	price := basePrice
	if req.Type == model.TransactionBuy {
		price = pricing.ApplyDiscount(basePrice, req.DiscountPercent)
	}
	total := req.Quantity * price

	balance, err := s.Balance()
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &model.Transaction{
		ID:       uuid.New().String(),
		AssetID:  asset.ID,
		Type:     req.Type,
		Quantity: req.Quantity,
		Price:    price,
		Date:     date.UTC(),
		Total:    total,
	}

	switch req.Type {
	case model.TransactionBuy:
		if req.DiscountPercent > 0 {
			discount := req.DiscountPercent
			transaction.Discount = &discount
		}
		if balance < total {
			return nil, apperrors.ErrInsufficientBalance
		}
		asset.Quantity += req.Quantity
		balance -= total

	case model.TransactionSell:
		if req.Quantity > asset.Quantity {
			return nil, apperrors.ErrInsufficientShares
		}
		profitLoss, profitLossPercent := realizedPnL(price, asset.InitialPrice, req.Quantity)
		transaction.ProfitLoss = &profitLoss
		transaction.ProfitLossPercent = &profitLossPercent
		asset.Quantity -= req.Quantity
		balance += total

	default:
		return nil, fmt.Errorf("unsupported transaction type %q", req.Type)
	}

	asset.CurrentPrice = price

	if err := s.transactionRepo.InsertTransaction(transaction); err != nil {
		return nil, err
	}
	if err := s.assetRepo.UpdateAsset(&asset); err != nil {
		return nil, err
	}
	if err := s.saveBalance(balance); err != nil {
		return nil, err
	}

	return transaction, nil
}

// SellAllShares liquidates the full position at the asset's current market
// price. Discounts never apply to sale proceeds.
func (s *LedgerService) SellAllShares(assetID string) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, err := s.assetRepo.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	if asset.Quantity <= 0 {
		return nil, apperrors.ErrNothingToSell
	}

	balance, err := s.Balance()
	if err != nil {
		return nil, err
	}

	profitLoss, profitLossPercent := realizedPnL(asset.CurrentPrice, asset.InitialPrice, asset.Quantity)

	transaction := &model.Transaction{
		ID:                uuid.New().String(),
		AssetID:           asset.ID,
		Type:              model.TransactionSell,
		Quantity:          asset.Quantity,
		Price:             asset.CurrentPrice,
		Date:              time.Now().UTC(),
		Total:             asset.Quantity * asset.CurrentPrice,
		ProfitLoss:        &profitLoss,
		ProfitLossPercent: &profitLossPercent,
	}

	asset.Quantity = 0

	if err := s.transactionRepo.InsertTransaction(transaction); err != nil {
		return nil, err
	}
	if err := s.assetRepo.UpdateAsset(&asset); err != nil {
		return nil, err
	}
	if err := s.saveBalance(balance + transaction.Total); err != nil {
		return nil, err
	}

	return transaction, nil
}

// DeleteTransaction reverses a transaction's balance and quantity effect as
// the exact inverse of recording it, then removes the record. The asset's
// current price is not restored to its pre-transaction value.
func (s *LedgerService) DeleteTransaction(transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, err := s.transactionRepo.GetTransaction(transactionID)
	if err != nil {
		return err
	}

	balance, err := s.Balance()
	if err != nil {
		return err
	}

	// The asset may have been deleted separately; reversing then degrades to
	// just dropping the record.
	asset, err := s.assetRepo.GetAsset(transaction.AssetID)
	switch {
	case err == nil:
		if transaction.Type == model.TransactionBuy {
			asset.Quantity -= transaction.Quantity
			balance += transaction.Total
		} else {
			asset.Quantity += transaction.Quantity
			balance -= transaction.Total
		}
		if err := s.assetRepo.UpdateAsset(&asset); err != nil {
			return err
		}
		if err := s.saveBalance(balance); err != nil {
			return err
		}
	case errors.Is(err, apperrors.ErrAssetNotFound):
		// fall through to record removal
	default:
		return err
	}

	return s.transactionRepo.DeleteTransaction(transactionID)
}

// DeleteAsset removes the asset and cascades deletion to all its
// transactions. Deliberately no balance reversal: deleting an asset means
// "forget this position ever existed", not "undo the trades".
func (s *LedgerService) DeleteAsset(assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transactionRepo.DeleteByAsset(assetID); err != nil {
		return err
	}
	return s.assetRepo.DeleteAsset(assetID)
}

// ResetPortfolio clears all assets and transactions and restores the default
// balance. With resetSettings it also drops every stored namespaced value,
// returning currency, theme, and broker names to defaults.
func (s *LedgerService) ResetPortfolio(resetSettings bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transactionRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.assetRepo.DeleteAll(); err != nil {
		return err
	}

	if resetSettings {
		if err := s.stateRepo.DeleteNamespace(); err != nil {
			return err
		}
		if err := s.settingsService.Reset(); err != nil {
			return err
		}
	}

	return s.saveBalance(DefaultBalance())
}

// Summary computes the portfolio totals in base units.
func (s *LedgerService) Summary() (model.PortfolioSummary, error) {
	assets, err := s.assetRepo.GetAssets()
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	transactions, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	balance, err := s.Balance()
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	totalValue := TotalValue(assets)
	totalInvested := TotalInvested(transactions)
	totalReturn := totalValue - totalInvested

	changePercent := 0.0
	if totalInvested > 0 {
		changePercent = totalReturn / totalInvested * 100
	}

	summary := model.PortfolioSummary{
		TotalValue:    totalValue,
		TotalInvested: totalInvested,
		TotalReturn:   totalReturn,
		ChangePercent: changePercent,
		Balance:       balance,
	}

	if best := BestPerformer(assets); best != nil {
		summary.BestPerformer = best.Symbol
	}

	return summary, nil
}

// TotalValue is the current market value of all holdings in base units.
func TotalValue(assets []model.Asset) float64 {
	total := 0.0
	for _, a := range assets {
		total += a.Quantity * a.CurrentPrice
	}
	return total
}

// TotalInvested is the net cash flow into the portfolio: buy totals minus
// sell totals. It is a cash-flow measure, not a per-share cost basis, and
// goes negative when sells exceed buys ("money taken out").
func TotalInvested(transactions []model.Transaction) float64 {
	total := 0.0
	for _, t := range transactions {
		switch t.Type {
		case model.TransactionBuy:
			total += t.Total
		case model.TransactionSell:
			total -= t.Total
		}
	}
	return total
}

// BestPerformer returns the asset with the highest unrealized return
// percentage, first-encountered order breaking ties. Nil when no assets
// exist.
func BestPerformer(assets []model.Asset) *model.Asset {
	var best *model.Asset
	bestReturn := math.Inf(-1)
	for i := range assets {
		a := &assets[i]
		r := a.ReturnPercent()
		if a.InitialPrice <= 0 {
			r = 0
		}
		if r > bestReturn {
			best = a
			bestReturn = r
		}
	}
	return best
}

// realizedPnL computes the profit/loss of a sell against the buy-in price.
func realizedPnL(sellPrice, buyInPrice, quantity float64) (profitLoss, profitLossPercent float64) {
	perShare := sellPrice - buyInPrice
	profitLoss = perShare * quantity
	if buyInPrice > 0 {
		profitLossPercent = perShare / buyInPrice * 100
	}
	return profitLoss, profitLossPercent
}

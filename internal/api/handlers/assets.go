package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simfolio/paper-portfolio-backend/internal/api/request"
	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/presentation"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
	"github.com/simfolio/paper-portfolio-backend/internal/validation"
)

// AssetHandler handles HTTP requests for asset endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the ledger service.
type AssetHandler struct {
	ledgerService   *service.LedgerService
	settingsService *service.SettingsService
}

// NewAssetHandler creates a new AssetHandler with the provided service dependencies.
func NewAssetHandler(ledgerService *service.LedgerService, settingsService *service.SettingsService) *AssetHandler {
	return &AssetHandler{
		ledgerService:   ledgerService,
		settingsService: settingsService,
	}
}

// Holdings handles GET requests for the holdings list: active assets only,
// formatted in the currently selected display currency.
//
// Endpoint: GET /api/asset
// Response: 200 OK with array of HoldingView
// Error: 500 Internal Server Error if retrieval fails
func (h *AssetHandler) Holdings(w http.ResponseWriter, _ *http.Request) {
	assets, err := h.ledgerService.GetAssets()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAssets.Error(), err.Error())
		return
	}

	settings, err := h.settingsService.Get()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	formatter, err := presentation.NewFormatter(settings)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, formatter.Holdings(assets))
}

// BuyAsset handles POST requests to open a new position.
//
// Endpoint: POST /api/asset
// Request Body: BuyAssetRequest (symbol, name, quantity, price, currency, basePrice?, discount?)
// Response: 201 Created with the new Asset
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict on duplicate symbol
// Error: 422 Unprocessable Entity on insufficient balance
func (h *AssetHandler) BuyAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.BuyAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateBuyAsset(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	asset, err := h.ledgerService.BuyNewAsset(service.BuyRequest{
		Symbol:          req.Symbol,
		Name:            req.Name,
		Quantity:        req.Quantity,
		DisplayPrice:    req.Price,
		CurrencyCode:    req.Currency,
		KnownBasePrice:  req.BasePrice,
		DiscountPercent: req.Discount,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, asset)
}

// AssetTransactions handles GET requests for one asset's transaction history,
// newest first, formatted in the currently selected display currency.
//
// Endpoint: GET /api/asset/{id}/transactions
// Response: 200 OK with array of TransactionView
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) AssetTransactions(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")

	asset, transactions, err := h.ledgerService.GetAssetTransactions(assetID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	settings, err := h.settingsService.Get()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	formatter, err := presentation.NewFormatter(settings)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, formatter.Transactions(transactions, []model.Asset{asset}))
}

// SellAllShares handles POST requests to liquidate a full position at the
// asset's current market price.
//
// Endpoint: POST /api/asset/{id}/sell-all
// Response: 200 OK with the sell Transaction
// Error: 404 Not Found if the asset does not exist
// Error: 422 Unprocessable Entity if the position is already empty
func (h *AssetHandler) SellAllShares(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")

	transaction, err := h.ledgerService.SellAllShares(assetID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteAsset handles DELETE requests to remove an asset and all of its
// transactions. No balance reversal happens on this path.
//
// Endpoint: DELETE /api/asset/{id}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")

	if err := h.ledgerService.DeleteAsset(assetID); err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

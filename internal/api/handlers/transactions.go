package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/simfolio/paper-portfolio-backend/internal/api/request"
	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/presentation"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
	"github.com/simfolio/paper-portfolio-backend/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
type TransactionHandler struct {
	ledgerService   *service.LedgerService
	settingsService *service.SettingsService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependencies.
func NewTransactionHandler(ledgerService *service.LedgerService, settingsService *service.SettingsService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService:   ledgerService,
		settingsService: settingsService,
	}
}

// History handles GET requests for the full transaction history, newest first,
// formatted in the currently selected display currency.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of TransactionView
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) History(w http.ResponseWriter, _ *http.Request) {
	transactions, err := h.ledgerService.GetTransactions()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

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

	response.RespondJSON(w, http.StatusOK, formatter.Transactions(transactions, assets))
}

// CreateTransaction handles POST requests to record a buy or sell against an
// existing asset.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (assetId, type, quantity, price, currency, date?, discount?)
// Response: 201 Created with the new Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the asset does not exist
// Error: 422 Unprocessable Entity on insufficient balance or shares
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = validation.ParseDate(req.Date)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
	}

	transaction, err := h.ledgerService.RecordTransaction(service.TradeRequest{
		AssetID:         req.AssetID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		DisplayPrice:    req.Price,
		CurrencyCode:    req.Currency,
		Date:            date,
		DiscountPercent: req.Discount,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// DeleteTransaction handles DELETE requests to undo a recorded transaction,
// reversing its effect on the position and the cash balance.
//
// Endpoint: DELETE /api/transaction/{id}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the transaction does not exist
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")

	if err := h.ledgerService.DeleteTransaction(transactionID); err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

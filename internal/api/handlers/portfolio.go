package handlers

import (
	"net/http"

	"github.com/simfolio/paper-portfolio-backend/internal/api/request"
	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/presentation"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio-level endpoints:
// the aggregated summary, the printable statement, and the full reset.
type PortfolioHandler struct {
	ledgerService   *service.LedgerService
	settingsService *service.SettingsService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependencies.
func NewPortfolioHandler(ledgerService *service.LedgerService, settingsService *service.SettingsService) *PortfolioHandler {
	return &PortfolioHandler{
		ledgerService:   ledgerService,
		settingsService: settingsService,
	}
}

// Summary handles GET requests for the aggregated portfolio summary.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with SummaryView
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.ledgerService.Summary()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
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

	response.RespondJSON(w, http.StatusOK, formatter.Summary(summary))
}

// Statement handles GET requests for a plain-text account statement suitable
// for download.
//
// Endpoint: GET /api/portfolio/statement
// Response: 200 OK with text/plain statement body
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Statement(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.ledgerService.Summary()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
		return
	}

	assets, err := h.ledgerService.GetAssets()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAssets.Error(), err.Error())
		return
	}

	transactions, err := h.ledgerService.GetTransactions()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
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

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(formatter.Statement(summary, assets, transactions)))
}

// Reset handles POST requests to wipe the portfolio back to its initial state.
// Settings survive the reset unless the request asks for them to go too.
//
// Endpoint: POST /api/portfolio/reset
// Request Body: ResetPortfolioRequest (resetSettings)
// Response: 204 No Content on success
// Error: 400 Bad Request if the request body is invalid
func (h *PortfolioHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPortfolioRequest
	if r.ContentLength > 0 {
		var err error
		req, err = parseJSON[request.ResetPortfolioRequest](r)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	if err := h.ledgerService.ResetPortfolio(req.ResetSettings); err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

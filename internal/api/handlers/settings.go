package handlers

import (
	"net/http"

	"github.com/simfolio/paper-portfolio-backend/internal/api/request"
	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/money"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
	"github.com/simfolio/paper-portfolio-backend/internal/validation"
)

// SettingsHandler handles HTTP requests for settings endpoints.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler with the provided service dependency.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings handles GET requests for the stored settings. A fresh install
// gets the defaults back without anything being persisted.
//
// Endpoint: GET /api/settings
// Response: 200 OK with Settings
// Error: 500 Internal Server Error if retrieval fails
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	settings, err := h.settingsService.Get()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT requests to replace the stored settings. The
// payload is the complete settings object and persists immediately.
//
// Endpoint: PUT /api/settings
// Request Body: UpdateSettingsRequest
// Response: 200 OK with the stored Settings
// Error: 400 Bad Request if validation fails or request body is invalid
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateSettingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSettings(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	settings := model.Settings{
		Currency:              req.Currency,
		Theme:                 req.Theme,
		BrokerName:            req.BrokerName,
		ShowProfit:            req.ShowProfit,
		EnablePriceVolatility: req.EnablePriceVolatility,
		InstitutionalAccount:  req.InstitutionalAccount,
		DarkPoolAccess:        req.DarkPoolAccess,
	}

	if err := h.settingsService.Update(settings); err != nil {
		respondDomainError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// Currencies handles GET requests for the supported currency table.
//
// Endpoint: GET /api/currencies
// Response: 200 OK with array of Currency
func (h *SettingsHandler) Currencies(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, money.All())
}

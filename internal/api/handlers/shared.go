package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
)

// parseJSON decodes a request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// respondDomainError maps ledger errors onto HTTP status codes:
// missing entities to 404, conflicts to 409, rejected-but-well-formed
// operations to 422, and everything unrecognized to 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAssetNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, apperrors.ErrDuplicateSymbol):
		response.RespondError(w, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrMalformedImport),
		errors.Is(err, apperrors.ErrUnknownCurrency):
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)

	case errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrNothingToSell):
		response.RespondError(w, http.StatusUnprocessableEntity, err.Error(), nil)

	default:
		response.RespondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

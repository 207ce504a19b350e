package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/simfolio/paper-portfolio-backend/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"buy": true, "sell": true,
}

// ValidateCreateTransaction validates a trade request against an existing asset.
//
// Required fields:
//   - assetId: non-empty
//   - type: buy or sell
//   - quantity: positive finite number
//   - price: positive finite number
//   - currency: one of the fixed currency table codes
//   - date: optional; RFC3339 or YYYY-MM-DD when present (may be backdated)
//   - discount: percentage within [0, 100]
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.AssetID) == "" {
		errors["assetId"] = "assetId is required"
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if !isPositiveFinite(req.Quantity) {
		errors["quantity"] = "quantity must be a positive number"
	}

	if !isPositiveFinite(req.Price) {
		errors["price"] = "price must be a positive number"
	}

	validateCurrency(errors, req.Currency)
	validateDiscount(errors, req.Discount)

	if req.Date != "" {
		if _, err := ParseDate(req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ParseDate parses a user-supplied transaction date in RFC3339 or bare-date
// form.
func ParseDate(str string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		t, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("date must be RFC3339 or YYYY-MM-DD")
		}
	}
	return t.UTC(), nil
}

package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/simfolio/paper-portfolio-backend/internal/api/request"
	"github.com/simfolio/paper-portfolio-backend/internal/money"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// ValidateBuyAsset validates a new-position purchase request.
//
// Required fields:
//   - symbol: 1-10 uppercase letters/digits (lowercase input is accepted and upcased)
//   - name: non-empty, 100 characters or less
//   - quantity: positive finite number
//   - price: positive finite number (unless basePrice is supplied)
//   - currency: one of the fixed currency table codes
//   - discount: percentage within [0, 100]
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateBuyAsset(req request.BuyAssetRequest) error {
	errors := make(map[string]string)

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		errors["symbol"] = "symbol is required"
	} else if !symbolPattern.MatchString(symbol) {
		errors["symbol"] = "symbol must be 1-10 letters, digits, dots, or dashes"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if !isPositiveFinite(req.Quantity) {
		errors["quantity"] = "quantity must be a positive number"
	}

	if req.BasePrice != nil {
		if !isPositiveFinite(*req.BasePrice) {
			errors["basePrice"] = "basePrice must be a positive number"
		}
	} else if !isPositiveFinite(req.Price) {
		errors["price"] = "price must be a positive number"
	}

	validateCurrency(errors, req.Currency)
	validateDiscount(errors, req.Discount)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func validateCurrency(errors map[string]string, code string) {
	if strings.TrimSpace(code) == "" {
		errors["currency"] = "currency is required"
	} else if !money.IsKnownCode(code) {
		errors["currency"] = "unknown currency code: " + code
	}
}

func validateDiscount(errors map[string]string, discount float64) {
	if discount < 0 || discount > 100 {
		errors["discount"] = "discount must be between 0 and 100"
	}
}

package validation

import (
	"strings"

	"github.com/simfolio/paper-portfolio-backend/internal/api/request"
)

// ValidateUpdateSettings validates a settings update. Currency must be a
// known code; the remaining fields are free-form toggles.
func ValidateUpdateSettings(req request.UpdateSettingsRequest) error {
	errors := make(map[string]string)

	validateCurrency(errors, req.Currency)

	if strings.TrimSpace(req.Theme) == "" {
		errors["theme"] = "theme is required"
	}

	if len(req.BrokerName) > 100 {
		errors["brokerName"] = "brokerName must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

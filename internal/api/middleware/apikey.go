package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
)

// APIKeyMiddleware guards destructive endpoints (import, reset) with the
// INTERNAL_API_KEY environment variable. Requests must carry the key in the
// X-API-Key header. When no key is configured the guard is disabled, which is
// the expected state for a purely local deployment.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")
		if expected == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

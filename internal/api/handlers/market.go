package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/simfolio/paper-portfolio-backend/internal/api/response"
	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/quote"
	"github.com/simfolio/paper-portfolio-backend/internal/ticker"
)

const defaultSearchLimit = 10

// MarketHandler handles HTTP requests for market data lookups: live quotes
// and ticker symbol search. Both are best-effort conveniences for filling the
// buy form; nothing in the ledger depends on them.
type MarketHandler struct {
	quoteClient   quote.Client
	tickerService ticker.Searcher
}

// NewMarketHandler creates a new MarketHandler with the provided clients.
func NewMarketHandler(quoteClient quote.Client, tickerService ticker.Searcher) *MarketHandler {
	return &MarketHandler{
		quoteClient:   quoteClient,
		tickerService: tickerService,
	}
}

// Quote handles GET requests for a live price lookup.
//
// Endpoint: GET /api/market/quote/{symbol}
// Response: 200 OK with Quote
// Error: 404 Not Found when no price is available for the symbol
// Error: 502 Bad Gateway when the upstream source fails
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	q, err := h.quoteClient.FetchPrice(r.Context(), symbol)
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrQuoteUnavailable.Error(), err.Error())
		return
	}
	if q == nil {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrQuoteUnavailable.Error(), nil)
		return
	}

	response.RespondJSON(w, http.StatusOK, q)
}

// LookupTicker handles GET requests for an exact ticker match.
//
// Endpoint: GET /api/market/tickers/{symbol}
// Response: 200 OK with the Match
// Error: 404 Not Found when the symbol is not in the ticker table
func (h *MarketHandler) LookupTicker(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	match, ok := h.tickerService.Lookup(r.Context(), symbol)
	if !ok {
		response.RespondError(w, http.StatusNotFound, "unknown ticker symbol", nil)
		return
	}

	response.RespondJSON(w, http.StatusOK, match)
}

// SearchTickers handles GET requests for ticker symbol search.
//
// Endpoint: GET /api/market/tickers?q=<query>&limit=<n>
// Response: 200 OK with array of Match, ordered by relevance
// Error: 400 Bad Request when the query parameter is missing
func (h *MarketHandler) SearchTickers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.RespondError(w, http.StatusBadRequest, "missing query parameter", "q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	response.RespondJSON(w, http.StatusOK, h.tickerService.Search(r.Context(), query, limit))
}

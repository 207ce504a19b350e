// Package quote fetches best-effort stock prices from Stooq. Lookups may fail
// or return nothing; callers must treat a missing quote as "ask the user to
// enter a price manually", never as zero.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client defines the interface for price lookups.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	FetchPrice(ctx context.Context, symbol string) (*Quote, error)
}

// Quote is a fetched price in base units (Stooq US quotes are USD).
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// StooqClient provides price lookups against the Stooq JSON quote endpoint.
type StooqClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewStooqClient creates a Stooq client with a bounded request timeout so an
// unresponsive quote service can never block a ledger operation.
func NewStooqClient() *StooqClient {
	return &StooqClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   "https://stooq.pl/q/l/?s=%s.US&f=sd2t2ohlcv&h&e=json",
	}
}

// stooqResponse mirrors the relevant slice of the Stooq JSON payload.
type stooqResponse struct {
	Symbols []struct {
		Symbol string   `json:"symbol"`
		Close  *float64 `json:"c"`
	} `json:"symbols"`
}

// FetchPrice fetches the latest close price for a symbol. Returns (nil, nil)
// when the provider has no data for the symbol; a non-nil error means the
// lookup itself failed.
func (c *StooqClient) FetchPrice(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	url := fmt.Sprintf(c.endpoint, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed stooqResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse stooq response: %w", err)
	}

	// Unknown symbols come back without a numeric close price.
	if len(parsed.Symbols) == 0 || parsed.Symbols[0].Close == nil {
		return nil, nil
	}

	return &Quote{
		Symbol:    symbol,
		Price:     *parsed.Symbols[0].Close,
		Source:    "Stooq",
		Timestamp: time.Now().UTC(),
	}, nil
}

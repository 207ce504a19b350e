package testutil

import (
	"context"
	"strings"

	"github.com/simfolio/paper-portfolio-backend/internal/quote"
	"github.com/simfolio/paper-portfolio-backend/internal/ticker"
)

// MockQuoteClient is a mock implementation of quote.Client for testing.
// It returns predefined data instead of making actual API calls.
type MockQuoteClient struct {
	// MockQuote is the quote to return; nil means "no data for this symbol"
	MockQuote *quote.Quote
	// MockError is the error to return from lookups
	MockError error
	// FetchCount tracks how many times FetchPrice was called
	FetchCount int
}

// FetchPrice returns the configured MockQuote and MockError.
func (m *MockQuoteClient) FetchPrice(_ context.Context, _ string) (*quote.Quote, error) {
	m.FetchCount++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockQuote, nil
}

// MockTickerSearcher is a mock implementation of ticker.Searcher for testing.
type MockTickerSearcher struct {
	// Matches is the fixed result set searched by Lookup and Search
	Matches []ticker.Match
}

// Lookup returns the match with the exact ticker, if present.
func (m *MockTickerSearcher) Lookup(_ context.Context, symbol string) (ticker.Match, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, match := range m.Matches {
		if match.Ticker == symbol {
			return match, true
		}
	}
	return ticker.Match{}, false
}

// Search returns up to limit configured matches.
func (m *MockTickerSearcher) Search(_ context.Context, _ string, limit int) []ticker.Match {
	if limit > 0 && len(m.Matches) > limit {
		return m.Matches[:limit]
	}
	return m.Matches
}

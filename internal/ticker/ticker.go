// Package ticker provides best-effort company/ticker search. The ticker table
// is fetched once from the SEC's public company list and cached in memory;
// when the fetch fails, a minimal built-in list keeps search functional.
// Searches never error toward the caller: no data means no results.
package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Searcher defines the interface for ticker search.
// This interface enables dependency injection and testing with mock implementations.
type Searcher interface {
	Lookup(ctx context.Context, symbol string) (Match, bool)
	Search(ctx context.Context, query string, limit int) []Match
}

// Match is one search result.
type Match struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Service searches a lazily fetched, cached ticker table.
type Service struct {
	httpClient *http.Client
	endpoint   string

	mu      sync.Mutex
	loaded  bool
	tickers map[string]Match
}

// NewService creates a ticker search service backed by the SEC company list.
func NewService() *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   "https://www.sec.gov/files/company_tickers_exchange.json",
	}
}

// secCompanyList mirrors the SEC payload: rows of [cik, name, ticker, exchange].
type secCompanyList struct {
	Data [][]any `json:"data"`
}

func (s *Service) ensureLoaded(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true

	tickers, err := s.fetchSECTickers(ctx)
	if err != nil || len(tickers) == 0 {
		tickers = fallbackTickers()
	}
	s.tickers = tickers
}

func (s *Service) fetchSECTickers(ctx context.Context) (map[string]Match, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sec returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var list secCompanyList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}

	tickers := make(map[string]Match, len(list.Data))
	for _, row := range list.Data {
		if len(row) < 3 {
			continue
		}
		name, _ := row[1].(string)
		symbol, _ := row[2].(string)
		if name == "" || symbol == "" {
			continue
		}
		symbol = strings.ToUpper(symbol)
		tickers[symbol] = Match{Ticker: symbol, Name: strings.TrimSpace(name), Source: "SEC"}
	}

	return tickers, nil
}

// Lookup returns the company entry for an exact ticker, if known.
func (s *Service) Lookup(ctx context.Context, symbol string) (Match, bool) {
	s.ensureLoaded(ctx)
	m, ok := s.tickers[strings.ToUpper(strings.TrimSpace(symbol))]
	return m, ok
}

// Search returns up to limit tickers matching the query by symbol or company
// name, most relevant first. Empty queries and lookup failures both yield an
// empty slice.
func (s *Service) Search(ctx context.Context, query string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Match{}
	}
	if limit <= 0 {
		limit = 10
	}

	s.ensureLoaded(ctx)

	type scored struct {
		match Match
		score int
	}

	lowerQuery := strings.ToLower(query)
	results := []scored{}
	for symbol, m := range s.tickers {
		score := relevance(lowerQuery, strings.ToLower(symbol), strings.ToLower(m.Name))
		if score > 0 {
			results = append(results, scored{match: m, score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].match.Ticker < results[j].match.Ticker
	})

	if len(results) > limit {
		results = results[:limit]
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = r.match
	}
	return matches
}

// relevance scores a candidate: exact ticker matches rank highest, then
// ticker prefixes, then substring and company-name matches.
func relevance(query, ticker, name string) int {
	score := 0

	switch {
	case ticker == query:
		score += 100
	case strings.HasPrefix(ticker, query):
		score += 80
	case strings.Contains(ticker, query):
		score += 40
	}

	if strings.Contains(name, query) {
		if strings.HasPrefix(name, query) {
			score += 60
		} else {
			score += 30
		}
	}

	return score
}

// fallbackTickers is the last-resort table when the SEC list is unreachable.
func fallbackTickers() map[string]Match {
	entries := []Match{
		{Ticker: "AAPL", Name: "Apple Inc.", Source: "fallback"},
		{Ticker: "MSFT", Name: "Microsoft Corporation", Source: "fallback"},
		{Ticker: "GOOGL", Name: "Alphabet Inc.", Source: "fallback"},
		{Ticker: "AMZN", Name: "Amazon.com Inc.", Source: "fallback"},
		{Ticker: "TSLA", Name: "Tesla Inc.", Source: "fallback"},
		{Ticker: "META", Name: "Meta Platforms Inc.", Source: "fallback"},
		{Ticker: "NVDA", Name: "NVIDIA Corporation", Source: "fallback"},
		{Ticker: "JPM", Name: "JPMorgan Chase & Co.", Source: "fallback"},
		{Ticker: "V", Name: "Visa Inc.", Source: "fallback"},
		{Ticker: "WMT", Name: "Walmart Inc.", Source: "fallback"},
		{Ticker: "DIS", Name: "Walt Disney Company", Source: "fallback"},
		{Ticker: "KO", Name: "Coca-Cola Company", Source: "fallback"},
		{Ticker: "BTC", Name: "Bitcoin", Source: "fallback"},
		{Ticker: "ETH", Name: "Ethereum", Source: "fallback"},
	}

	tickers := make(map[string]Match, len(entries))
	for _, e := range entries {
		tickers[e.Ticker] = e
	}
	return tickers
}

package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"pesaprime/internal/logger"
)

const usdRateBaseURL = "https://open.er-api.com/v6/latest/USD"

// usdRateResponse is the open.er-api.com response for a USD base.
type usdRateResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// USDRateSource resolves how many units of the base currency one US dollar
// buys. The rate is cached between refreshes, and a configured fallback keeps
// price refreshes working when the rate API is down.
type USDRateSource struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	currency   string
	fallback   decimal.Decimal
	ttl        time.Duration

	mu        sync.Mutex
	cached    decimal.Decimal
	fetchedAt time.Time
}

// NewUSDRateSource creates a rate source for the given base currency code.
func NewUSDRateSource(httpClient *http.Client, currency string, fallback decimal.Decimal, ttl time.Duration) *USDRateSource {
	return &USDRateSource{
		httpClient: httpClient,
		baseURL:    usdRateBaseURL,
		currency:   currency,
		fallback:   fallback,
		ttl:        ttl,
	}
}

// Rate returns the current USD rate, serving the cached value while fresh.
// Fetch failures degrade to the last known rate, then to the fallback.
func (s *USDRateSource) Rate(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cached.IsZero() && time.Since(s.fetchedAt) < s.ttl {
		return s.cached
	}

	rate, err := s.fetch(ctx)
	if err != nil {
		logger.Component("pricefeed").Warnw("falling back on stale USD rate", "currency", s.currency, "error", err)
		if !s.cached.IsZero() {
			return s.cached
		}
		return s.fallback
	}

	s.cached = rate
	s.fetchedAt = time.Now()
	return rate
}

func (s *USDRateSource) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var rateResp usdRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&rateResp); err != nil {
		return decimal.Zero, fmt.Errorf("decoding response: %w", err)
	}

	rate, ok := rateResp.Rates[s.currency]
	if !ok || rate <= 0 {
		return decimal.Zero, fmt.Errorf("no usable rate for %s", s.currency)
	}
	return decimal.NewFromFloat(rate), nil
}

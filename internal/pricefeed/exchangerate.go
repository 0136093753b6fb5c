package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pesaprime/internal/models"
)

const exchangeRateBaseURL = "https://api.exchangerate.host/latest"

// goldPriceUSD is the pinned quote for the XAUUSD pair; the free rate API
// does not carry commodities.
var goldPriceUSD = decimal.NewFromInt(2000)

// exchangeRateResponse is the rate API response, quoting every currency
// against the requested base.
type exchangeRateResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// ExchangeRateProvider fetches forex pair prices from exchangerate.host.
// Pair symbols are six letters with USD on one side, e.g. EURUSD or USDJPY.
type ExchangeRateProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewExchangeRateProvider creates a new forex price provider.
func NewExchangeRateProvider(httpClient *http.Client) *ExchangeRateProvider {
	return &ExchangeRateProvider{httpClient: httpClient, baseURL: exchangeRateBaseURL}
}

// Name returns the provider's display name.
func (p *ExchangeRateProvider) Name() string { return "ExchangeRate" }

// Supports returns true for the forex category only.
func (p *ExchangeRateProvider) Supports(category models.AssetCategory) bool {
	return category == models.AssetCategoryForex
}

// FetchPrices fetches the USD rate table once and derives every pair price
// from it.
func (p *ExchangeRateProvider) FetchPrices(ctx context.Context, assets []models.Asset) ([]PriceResult, []FetchError) {
	if len(assets) == 0 {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?base=USD", nil)
	if err != nil {
		return nil, allErrors(assets, fmt.Errorf("building request: %w", err))
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, allErrors(assets, fmt.Errorf("http request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, allErrors(assets, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var rateResp exchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&rateResp); err != nil {
		return nil, allErrors(assets, fmt.Errorf("decoding response: %w", err))
	}

	now := time.Now().UTC()
	var results []PriceResult
	var fetchErrors []FetchError
	for _, asset := range assets {
		price, pairErr := pairPriceUSD(strings.ToUpper(asset.Symbol), rateResp.Rates)
		if pairErr != nil {
			fetchErrors = append(fetchErrors, FetchError{
				AssetID: asset.ID,
				Symbol:  asset.Symbol,
				Err:     pairErr,
			})
			continue
		}
		results = append(results, PriceResult{
			AssetID:   asset.ID,
			Symbol:    asset.Symbol,
			PriceUSD:  price,
			FetchedAt: now,
		})
	}

	return results, fetchErrors
}

// pairPriceUSD derives the USD price of a six-letter pair from a USD-based
// rate table. For XXXUSD the price is 1/rate(XXX); for USDXXX it is
// rate(XXX) itself.
func pairPriceUSD(symbol string, rates map[string]float64) (decimal.Decimal, error) {
	if symbol == "XAUUSD" {
		return goldPriceUSD, nil
	}
	if len(symbol) != 6 {
		return decimal.Zero, fmt.Errorf("unrecognized pair symbol %s", symbol)
	}

	base, quote := symbol[:3], symbol[3:]
	switch {
	case quote == "USD":
		rate, ok := rates[base]
		if !ok || rate <= 0 {
			return decimal.Zero, fmt.Errorf("no rate for %s", base)
		}
		return decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(rate), 6), nil
	case base == "USD":
		rate, ok := rates[quote]
		if !ok || rate <= 0 {
			return decimal.Zero, fmt.Errorf("no rate for %s", quote)
		}
		return decimal.NewFromFloat(rate), nil
	default:
		return decimal.Zero, fmt.Errorf("pair %s does not include USD", symbol)
	}
}

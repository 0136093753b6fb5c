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

const (
	yahooBaseURL  = "https://query1.finance.yahoo.com/v7/finance/quote"
	yahooBatchMax = 50
	yahooUA       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooQuoteResponse is the top-level Yahoo Finance API response.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	} `json:"quoteResponse"`
}

// yahooQuoteResult is a single quote result from Yahoo Finance.
type yahooQuoteResult struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

// YahooProvider fetches stock prices from Yahoo Finance.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooProvider creates a new Yahoo Finance price provider.
func NewYahooProvider(httpClient *http.Client) *YahooProvider {
	return &YahooProvider{httpClient: httpClient, baseURL: yahooBaseURL}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Supports returns true for the stock category only.
func (p *YahooProvider) Supports(category models.AssetCategory) bool {
	return category == models.AssetCategoryStock
}

// FetchPrices fetches current USD prices from Yahoo Finance in batches.
func (p *YahooProvider) FetchPrices(ctx context.Context, assets []models.Asset) ([]PriceResult, []FetchError) {
	if len(assets) == 0 {
		return nil, nil
	}

	var allResults []PriceResult
	var fetchErrors []FetchError
	now := time.Now().UTC()

	for i := 0; i < len(assets); i += yahooBatchMax {
		end := min(i+yahooBatchMax, len(assets))
		batch := assets[i:end]

		results, batchErrs := p.fetchBatch(ctx, batch, now)
		allResults = append(allResults, results...)
		fetchErrors = append(fetchErrors, batchErrs...)
	}

	return allResults, fetchErrors
}

// fetchBatch fetches prices for a single batch of assets.
func (p *YahooProvider) fetchBatch(ctx context.Context, assets []models.Asset, now time.Time) ([]PriceResult, []FetchError) {
	symbols := make([]string, len(assets))
	for i, asset := range assets {
		symbols[i] = strings.ToUpper(asset.Symbol)
	}

	url := p.baseURL + "?symbols=" + strings.Join(symbols, ",")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, allErrors(assets, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, allErrors(assets, fmt.Errorf("http request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, allErrors(assets, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var quoteResp yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return nil, allErrors(assets, fmt.Errorf("decoding response: %w", err))
	}

	resultMap := make(map[string]float64, len(quoteResp.QuoteResponse.Result))
	for _, r := range quoteResp.QuoteResponse.Result {
		resultMap[r.Symbol] = r.RegularMarketPrice
	}

	var results []PriceResult
	var fetchErrors []FetchError
	for _, asset := range assets {
		symbol := strings.ToUpper(asset.Symbol)
		price, found := resultMap[symbol]
		if !found {
			fetchErrors = append(fetchErrors, FetchError{
				AssetID: asset.ID,
				Symbol:  asset.Symbol,
				Err:     fmt.Errorf("symbol %s not found in response", symbol),
			})
			continue
		}
		if price <= 0 {
			fetchErrors = append(fetchErrors, FetchError{
				AssetID: asset.ID,
				Symbol:  asset.Symbol,
				Err:     fmt.Errorf("zero price for %s", symbol),
			})
			continue
		}
		results = append(results, PriceResult{
			AssetID:   asset.ID,
			Symbol:    asset.Symbol,
			PriceUSD:  decimal.NewFromFloat(price),
			FetchedAt: now,
		})
	}

	return results, fetchErrors
}

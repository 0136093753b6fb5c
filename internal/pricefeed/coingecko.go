package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pesaprime/internal/models"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3/simple/price"

// coinGeckoIDs maps ticker symbols to CoinGecko coin IDs.
var coinGeckoIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"BNB":  "binancecoin",
	"SOL":  "solana",
	"XRP":  "ripple",
	"ADA":  "cardano",
	"DOT":  "polkadot",
	"DOGE": "dogecoin",
	"LTC":  "litecoin",
	"AVAX": "avalanche-2",
}

// CoinGeckoProvider fetches cryptocurrency prices from CoinGecko.
type CoinGeckoProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewCoinGeckoProvider creates a new CoinGecko price provider.
func NewCoinGeckoProvider(httpClient *http.Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{httpClient: httpClient, baseURL: coinGeckoBaseURL}
}

// Name returns the provider's display name.
func (p *CoinGeckoProvider) Name() string { return "CoinGecko" }

// Supports returns true for the crypto category only.
func (p *CoinGeckoProvider) Supports(category models.AssetCategory) bool {
	return category == models.AssetCategoryCrypto
}

// FetchPrices fetches current USD prices from CoinGecko in one batched call.
func (p *CoinGeckoProvider) FetchPrices(ctx context.Context, assets []models.Asset) ([]PriceResult, []FetchError) {
	if len(assets) == 0 {
		return nil, nil
	}

	// Map symbols to CoinGecko IDs; assets without a mapping fail up front.
	var fetchErrors []FetchError
	idToAsset := make(map[string]models.Asset, len(assets))
	ids := make([]string, 0, len(assets))
	for _, asset := range assets {
		id, ok := coinGeckoIDs[strings.ToUpper(asset.Symbol)]
		if !ok {
			fetchErrors = append(fetchErrors, FetchError{
				AssetID: asset.ID,
				Symbol:  asset.Symbol,
				Err:     fmt.Errorf("no CoinGecko mapping for symbol %s", asset.Symbol),
			})
			continue
		}
		idToAsset[id] = asset
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fetchErrors
	}

	reqURL := p.baseURL + "?ids=" + url.QueryEscape(strings.Join(ids, ",")) + "&vs_currencies=usd"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, append(fetchErrors, mappedErrors(idToAsset, ids, fmt.Errorf("building request: %w", err))...)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, append(fetchErrors, mappedErrors(idToAsset, ids, fmt.Errorf("http request: %w", err))...)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, append(fetchErrors, mappedErrors(idToAsset, ids, fmt.Errorf("unexpected status %d", resp.StatusCode))...)
	}

	var priceResp map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return nil, append(fetchErrors, mappedErrors(idToAsset, ids, fmt.Errorf("decoding response: %w", err))...)
	}

	now := time.Now().UTC()
	var results []PriceResult
	for _, id := range ids {
		asset := idToAsset[id]
		usd, found := priceResp[id]["usd"]
		if !found || usd <= 0 {
			fetchErrors = append(fetchErrors, FetchError{
				AssetID: asset.ID,
				Symbol:  asset.Symbol,
				Err:     fmt.Errorf("no usable price for %s in response", id),
			})
			continue
		}
		results = append(results, PriceResult{
			AssetID:   asset.ID,
			Symbol:    asset.Symbol,
			PriceUSD:  decimal.NewFromFloat(usd),
			FetchedAt: now,
		})
	}

	return results, fetchErrors
}

// mappedErrors creates FetchErrors for every mapped asset in a failed batch.
func mappedErrors(idToAsset map[string]models.Asset, ids []string, err error) []FetchError {
	errors := make([]FetchError, len(ids))
	for i, id := range ids {
		asset := idToAsset[id]
		errors[i] = FetchError{
			AssetID: asset.ID,
			Symbol:  asset.Symbol,
			Err:     err,
		}
	}
	return errors
}

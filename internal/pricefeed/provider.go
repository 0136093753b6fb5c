// Package pricefeed fetches market prices from external data sources and
// refreshes the asset registry.
package pricefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pesaprime/internal/models"
)

// PriceResult represents a successfully fetched price for an asset,
// quoted in USD.
type PriceResult struct {
	AssetID   string
	Symbol    string
	PriceUSD  decimal.Decimal
	FetchedAt time.Time
}

// FetchError represents a failed price fetch for a specific asset.
type FetchError struct {
	AssetID string
	Symbol  string
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch price for %s (%s): %v", e.Symbol, e.AssetID, e.Err)
}

// Provider fetches current market prices for a set of assets.
type Provider interface {
	// Name returns the provider's display name (e.g., "CoinGecko").
	Name() string

	// Supports returns true if this provider can fetch prices for the
	// given asset category.
	Supports(category models.AssetCategory) bool

	// FetchPrices fetches current USD prices for the given assets.
	// Returns successful results and any per-asset errors. A provider
	// should return as many prices as possible, even if some fail.
	FetchPrices(ctx context.Context, assets []models.Asset) ([]PriceResult, []FetchError)
}

// allErrors creates FetchErrors for every asset in a failed batch.
func allErrors(assets []models.Asset, err error) []FetchError {
	errors := make([]FetchError, len(assets))
	for i, asset := range assets {
		errors[i] = FetchError{
			AssetID: asset.ID,
			Symbol:  asset.Symbol,
			Err:     err,
		}
	}
	return errors
}

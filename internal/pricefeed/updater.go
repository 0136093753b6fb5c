package pricefeed

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/logger"
	"pesaprime/internal/models"
)

// Offer term bounds re-rolled on every refresh.
const (
	minInvestmentLow  = 350
	minInvestmentHigh = 700
	hourlyIncomeLow   = 45
	hourlyIncomeHigh  = 172
)

// RateSource resolves the USD to base currency rate for a refresh run.
type RateSource interface {
	Rate(ctx context.Context) decimal.Decimal
}

// RunResult contains the outcome of one refresh run.
type RunResult struct {
	AssetsListed int
	Updated      int
	Skipped      int
	Errors       []FetchError
	USDRate      decimal.Decimal
	Duration     time.Duration
}

// Updater refreshes the asset registry: it fans out to the price providers,
// converts the fetched USD quotes into the base currency, and re-rolls each
// asset's offer terms.
type Updater struct {
	db        *gorm.DB
	providers []Provider
	rates     RateSource
}

// NewUpdater creates an Updater over the given providers.
func NewUpdater(db *gorm.DB, providers []Provider, rates RateSource) *Updater {
	return &Updater{db: db, providers: providers, rates: rates}
}

// Refresh executes a single refresh cycle over all active assets. Per-asset
// fetch failures are collected in the result; the assets they belong to keep
// their previous prices.
func (u *Updater) Refresh(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	log := logger.Component("pricefeed")
	result := &RunResult{}

	var assets []models.Asset
	if err := u.db.WithContext(ctx).Where("is_active = ?", true).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	result.AssetsListed = len(assets)
	if len(assets) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	// Group assets by the first provider that supports their category.
	groups := make(map[int][]models.Asset)
	for _, asset := range assets {
		matched := false
		for i, p := range u.providers {
			if p.Supports(asset.Category) {
				groups[i] = append(groups[i], asset)
				matched = true
				break
			}
		}
		if !matched {
			log.Warnw("no provider supports asset category",
				"symbol", asset.Symbol, "category", asset.Category)
			result.Skipped++
		}
	}

	// Fetch from each provider concurrently.
	var mu sync.Mutex
	var allResults []PriceResult
	var allErrors []FetchError

	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(p Provider, assets []models.Asset) {
			defer wg.Done()
			log.Infow("fetching prices", "provider", p.Name(), "count", len(assets))
			prices, fetchErrors := p.FetchPrices(ctx, assets)
			mu.Lock()
			allResults = append(allResults, prices...)
			allErrors = append(allErrors, fetchErrors...)
			mu.Unlock()
		}(u.providers[i], group)
	}
	wg.Wait()

	result.Errors = allErrors
	result.Skipped += len(allErrors)
	if len(allResults) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	usdRate := u.rates.Rate(ctx)
	result.USDRate = usdRate

	byID := make(map[string]models.Asset, len(assets))
	for _, asset := range assets {
		byID[asset.ID] = asset
	}

	for _, price := range allResults {
		asset, ok := byID[price.AssetID]
		if !ok {
			continue
		}
		if err := u.applyResult(ctx, &asset, price, usdRate); err != nil {
			log.Errorw("failed to apply price update",
				"symbol", asset.Symbol, "error", err)
			result.Errors = append(result.Errors, FetchError{
				AssetID: asset.ID,
				Symbol:  asset.Symbol,
				Err:     err,
			})
			result.Skipped++
			continue
		}
		result.Updated++
	}

	result.Duration = time.Since(start)
	log.Infow("price refresh completed",
		"assets", result.AssetsListed,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"duration", result.Duration,
	)
	return result, nil
}

// applyResult converts the USD quote into the base currency and persists the
// new price, trend, and re-rolled offer terms for one asset.
func (u *Updater) applyResult(ctx context.Context, asset *models.Asset, price PriceResult, usdRate decimal.Decimal) error {
	newPrice := price.PriceUSD.Mul(usdRate).Round(4)

	trend := models.TrendNeutral
	change := decimal.Zero
	if asset.CurrentPrice.IsPositive() {
		diff := newPrice.Sub(asset.CurrentPrice)
		switch {
		case diff.IsPositive():
			trend = models.TrendUp
		case diff.IsNegative():
			trend = models.TrendDown
		}
		change = diff.Div(asset.CurrentPrice).Mul(decimal.NewFromInt(100)).Round(2)
	}

	updates := map[string]interface{}{
		"current_price":     newPrice,
		"trend":             trend,
		"change_percentage": change,
		"min_investment":    randomBetween(minInvestmentLow, minInvestmentHigh),
		"hourly_income":     randomBetween(hourlyIncomeLow, hourlyIncomeHigh),
		"duration_hours":    randomDuration(),
	}

	err := u.db.WithContext(ctx).Model(&models.Asset{}).
		Where("id = ?", asset.ID).
		Updates(updates).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// randomBetween returns a random whole amount in [low, high].
func randomBetween(low, high int) decimal.Decimal {
	return decimal.NewFromInt(int64(low + rand.IntN(high-low+1)))
}

// randomDuration picks one of the allowed position durations.
func randomDuration() int {
	return models.AllowedDurations[rand.IntN(len(models.AllowedDurations))]
}

package models

import "github.com/shopspring/decimal"

// AssetCategory represents the market segment an asset belongs to.
// Each category is refreshed from its own external price source.
type AssetCategory string

const (
	AssetCategoryCrypto AssetCategory = "crypto"
	AssetCategoryForex  AssetCategory = "forex"
	AssetCategoryStock  AssetCategory = "stock"
)

// Trend is the direction of an asset's last price move.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// AllowedDurations is the fixed set of investment durations, in hours.
var AllowedDurations = []int{3, 4, 6, 8, 10, 12, 16, 18, 22}

// IsAllowedDuration reports whether h is one of the permitted durations.
func IsAllowedDuration(h int) bool {
	for _, d := range AllowedDurations {
		if d == h {
			return true
		}
	}
	return false
}

// Asset is a tradeable synthetic instrument. Prices are stored in the base
// currency and mutated only by the price feed updater and administrative
// seeding. MinInvestment, HourlyIncome, and DurationHours are re-randomized
// on every refresh cycle; that churn is a product behavior, not noise.
type Asset struct {
	Base
	Name     string        `gorm:"not null" json:"name"`
	Symbol   string        `gorm:"size:20;uniqueIndex;not null" json:"symbol"`
	Category AssetCategory `gorm:"size:20;not null;index" json:"category"`

	// Market data
	CurrentPrice     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"current_price"`
	Trend            Trend           `gorm:"size:10;not null;default:'neutral'" json:"trend"`
	ChangePercentage decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"change_percentage"`

	// Investment rules, in the base currency
	MinInvestment decimal.Decimal `gorm:"type:numeric(20,2);not null;default:350" json:"min_investment"`
	HourlyIncome  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:45" json:"hourly_income"`
	DurationHours int             `gorm:"not null;default:3" json:"duration_hours"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// Investable reports whether positions may currently be opened on the asset.
// A non-positive price makes an asset un-investable regardless of its flag.
func (a *Asset) Investable() bool {
	return a.IsActive && a.CurrentPrice.IsPositive()
}

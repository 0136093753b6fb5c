// Command seed populates the asset catalog with the launch lineup of
// crypto, forex, and stock assets. Existing symbols are left untouched,
// so the command is safe to re-run.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pesaprime/internal/database"
	"pesaprime/internal/logger"
	"pesaprime/internal/models"
)

type seedAsset struct {
	name     string
	symbol   string
	category models.AssetCategory
}

var catalog = []seedAsset{
	{"Bitcoin", "BTC", models.AssetCategoryCrypto},
	{"Ethereum", "ETH", models.AssetCategoryCrypto},
	{"Binance Coin", "BNB", models.AssetCategoryCrypto},
	{"Solana", "SOL", models.AssetCategoryCrypto},
	{"Ripple", "XRP", models.AssetCategoryCrypto},
	{"Cardano", "ADA", models.AssetCategoryCrypto},
	{"Polkadot", "DOT", models.AssetCategoryCrypto},
	{"Dogecoin", "DOGE", models.AssetCategoryCrypto},
	{"Litecoin", "LTC", models.AssetCategoryCrypto},
	{"Avalanche", "AVAX", models.AssetCategoryCrypto},

	{"EUR/USD", "EURUSD", models.AssetCategoryForex},
	{"GBP/USD", "GBPUSD", models.AssetCategoryForex},
	{"USD/JPY", "USDJPY", models.AssetCategoryForex},
	{"USD/CHF", "USDCHF", models.AssetCategoryForex},
	{"AUD/USD", "AUDUSD", models.AssetCategoryForex},
	{"USD/CAD", "USDCAD", models.AssetCategoryForex},
	{"NZD/USD", "NZDUSD", models.AssetCategoryForex},
	{"Gold Futures", "XAUUSD", models.AssetCategoryForex},

	{"Apple", "AAPL", models.AssetCategoryStock},
	{"Microsoft", "MSFT", models.AssetCategoryStock},
	{"Tesla", "TSLA", models.AssetCategoryStock},
	{"Amazon", "AMZN", models.AssetCategoryStock},
	{"Alphabet", "GOOGL", models.AssetCategoryStock},
	{"Meta", "META", models.AssetCategoryStock},
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	created := 0
	for _, entry := range catalog {
		var existing models.Asset
		err := db.Where("symbol = ?", entry.symbol).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up %s: %w", entry.symbol, err)
		}

		asset := models.Asset{
			Name:     entry.name,
			Symbol:   entry.symbol,
			Category: entry.category,
			// Prices start at zero; the first feed refresh fills them in
			// and until then the asset is not investable.
			CurrentPrice:  decimal.Zero,
			Trend:         models.TrendNeutral,
			MinInvestment: decimal.NewFromInt(350),
			HourlyIncome:  decimal.NewFromInt(45),
			DurationHours: 3,
			IsActive:      true,
		}
		if err := db.Create(&asset).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", entry.symbol, err)
		}
		created++
	}

	log.Infow("seed completed", "catalog", len(catalog), "created", created)
	return nil
}

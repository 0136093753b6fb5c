package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pesaprime/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:              email,
		Password:           string(hash),
		CurrencyPreference: "KES",
		IsActive:           true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates a user with the admin flag set.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	user.IsAdmin = true
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	return user
}

// CreateTestWallet creates a wallet with a zero balance.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string) *models.Wallet {
	t.Helper()
	return CreateTestWalletWithBalance(t, db, userID, decimal.Zero)
}

// CreateTestWalletWithBalance creates a wallet holding the given base-currency balance.
func CreateTestWalletWithBalance(t *testing.T, db *gorm.DB, userID string, balance decimal.Decimal) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:   userID,
		Balance:  balance,
		Currency: "KES",
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestAsset creates an active, priced asset in the given category.
func CreateTestAsset(t *testing.T, db *gorm.DB, category models.AssetCategory) *models.Asset {
	t.Helper()

	n := nextID()
	asset := &models.Asset{
		Name:          fmt.Sprintf("Test Asset %d", n),
		Symbol:        fmt.Sprintf("TST%d", n),
		Category:      category,
		CurrentPrice:  decimal.NewFromInt(100),
		Trend:         models.TrendNeutral,
		MinInvestment: decimal.NewFromInt(350),
		HourlyIncome:  decimal.NewFromInt(50),
		DurationHours: 6,
		IsActive:      true,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestInvestment creates an active investment that started now.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID, assetID string, amount decimal.Decimal) *models.Investment {
	t.Helper()
	return CreateTestInvestmentStartedAt(t, db, userID, assetID, amount, time.Now())
}

// CreateTestInvestmentStartedAt creates an active investment with an explicit
// start time, which lets tests place positions in the past.
func CreateTestInvestmentStartedAt(t *testing.T, db *gorm.DB, userID, assetID string, amount decimal.Decimal, startTime time.Time) *models.Investment {
	t.Helper()

	var asset models.Asset
	if err := db.First(&asset, "id = ?", assetID).Error; err != nil {
		t.Fatalf("failed to load asset for test investment: %v", err)
	}

	investment := &models.Investment{
		UserID:         userID,
		AssetID:        assetID,
		InvestedAmount: amount,
		EntryPrice:     asset.CurrentPrice,
		Units:          amount.DivRound(asset.CurrentPrice, 8),
		DurationHours:  asset.DurationHours,
		StartTime:      startTime,
		Status:         models.InvestmentStatusActive,
		ProfitLoss:     decimal.Zero,
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

// CreateTestTransaction creates a completed transaction of the given type.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount decimal.Decimal) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: fmt.Sprintf("Test %s %d", txType, nextID()),
		Status:      models.TransactionStatusCompleted,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBonus creates an unclaimed bonus expiring in 24 hours.
func CreateTestBonus(t *testing.T, db *gorm.DB, userID string, amount decimal.Decimal) *models.Bonus {
	t.Helper()
	return CreateTestBonusExpiringAt(t, db, userID, amount, time.Now().Add(24*time.Hour))
}

// CreateTestBonusExpiringAt creates an unclaimed bonus with an explicit expiry.
func CreateTestBonusExpiringAt(t *testing.T, db *gorm.DB, userID string, amount decimal.Decimal, expiresAt time.Time) *models.Bonus {
	t.Helper()

	bonus := &models.Bonus{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Bonus %d", nextID()),
		Description: "Fixture bonus",
		Amount:      amount,
		ExpiresAt:   expiresAt,
	}
	if err := db.Create(bonus).Error; err != nil {
		t.Fatalf("failed to create test bonus: %v", err)
	}
	return bonus
}

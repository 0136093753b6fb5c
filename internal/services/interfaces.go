package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pesaprime/internal/models"
	"pesaprime/internal/pagination"
)

// UserServicer defines the interface for user-related operations.
type UserServicer interface {
	Register(email, password, currencyPreference string) (*models.User, error)
	Login(email, password string) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
}

// WalletSummary is a read-only snapshot of a user's wallet, with every
// monetary field converted to the requested display currency.
type WalletSummary struct {
	Currency          string          `json:"currency"`
	Balance           decimal.Decimal `json:"balance"`
	Equity            decimal.Decimal `json:"equity"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	UnrealizedPL      decimal.Decimal `json:"unrealized_pl"`
	ActiveInvestments int             `json:"active_investments"`
}

// WalletServicer defines the interface for the wallet ledger. All mutating
// operations pair the balance change with exactly one transaction row inside
// a single database transaction.
type WalletServicer interface {
	GetOrCreate(userID string) (*models.Wallet, error)
	Deposit(userID string, displayAmount decimal.Decimal, displayCurrency, paymentMethod string) (*models.Transaction, error)
	Withdraw(userID string, displayAmount decimal.Decimal, displayCurrency, paymentMethod string) (*models.Transaction, error)
	RecomputeBalance(userID string) (decimal.Decimal, error)
	VerifyConsistency(userID string) error
	Summary(userID, displayCurrency string) (*WalletSummary, error)

	// Credit and Debit adjust the cached balance inside the caller's database
	// transaction. Debit is a conditional update and fails with
	// INSUFFICIENT_FUNDS when the balance does not cover the amount.
	Credit(tx *gorm.DB, userID string, amount decimal.Decimal) error
	Debit(tx *gorm.DB, userID string, amount decimal.Decimal) error
}

// Valuation is a live mark of an open position. CurrentValue is recomputed
// from the asset's present price on every read and never cached.
type Valuation struct {
	InvestmentID        string          `json:"investment_id"`
	Currency            string          `json:"currency"`
	InvestedAmount      decimal.Decimal `json:"invested_amount"`
	CurrentValue        decimal.Decimal `json:"current_value"`
	UnrealizedPL        decimal.Decimal `json:"unrealized_pl"`
	BaseInvestedAmount  decimal.Decimal `json:"base_invested_amount"`
	BaseCurrentValue    decimal.Decimal `json:"base_current_value"`
	BaseUnrealizedPL    decimal.Decimal `json:"base_unrealized_pl"`
}

// InvestmentServicer defines the interface for the position lifecycle engine.
type InvestmentServicer interface {
	Create(userID, assetID string, displayAmount decimal.Decimal, displayCurrency string, durationHours int) (*models.Investment, error)
	GetByID(userID, investmentID string) (*models.Investment, error)
	GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	Valuation(investment *models.Investment, displayCurrency string) Valuation
	Close(userID, investmentID string, byAdmin bool) (*models.Investment, error)
	AutoCloseDue(ctx context.Context) (int, error)
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Type   *models.TransactionType
	Status *models.TransactionStatus
}

// TransactionServicer defines the interface for the append-only transaction log.
type TransactionServicer interface {
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateStatus(transactionID string, status models.TransactionStatus) (*models.Transaction, error)
}

// BonusServicer defines the interface for grantable wallet credits.
type BonusServicer interface {
	Grant(userID, title, description string, amount decimal.Decimal, expiresAt time.Time) (*models.Bonus, error)
	GetUserBonuses(userID string, unclaimedOnly bool) ([]models.Bonus, error)
	Claim(userID, bonusID string) (*models.Bonus, error)
}

// AssetServicer defines the interface for the asset registry.
type AssetServicer interface {
	GetAssets(category *models.AssetCategory, activeOnly bool) ([]models.Asset, error)
	GetAssetByID(assetID string) (*models.Asset, error)
}

package models

import "github.com/shopspring/decimal"

// TransactionType classifies a money movement. The sign convention lives in
// the wallet ledger: deposit, bonus, profit, and investment_completion credit
// the wallet; withdrawal and investment debit it. Amounts are always stored
// as positive magnitudes in the base currency.
type TransactionType string

const (
	TransactionTypeDeposit              TransactionType = "deposit"
	TransactionTypeWithdrawal           TransactionType = "withdrawal"
	TransactionTypeInvestment           TransactionType = "investment"
	TransactionTypeBonus                TransactionType = "bonus"
	TransactionTypeProfit               TransactionType = "profit"
	TransactionTypeInvestmentCompletion TransactionType = "investment_completion"
)

// CreditsWallet reports whether the type increases the cash balance.
func (t TransactionType) CreditsWallet() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeBonus, TransactionTypeProfit, TransactionTypeInvestmentCompletion:
		return true
	}
	return false
}

// TransactionStatus is the settlement state of a transaction.
// Once completed, a transaction is immutable.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is one append-only record of a money movement. The set of
// completed transactions is the canonical input for recomputing a wallet's
// cash balance; every balance mutation elsewhere must be paired with exactly
// one transaction row in the same unit of work.
type Transaction struct {
	Base
	UserID      string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType   `gorm:"size:30;not null" json:"type"`
	Amount      decimal.Decimal   `gorm:"type:numeric(20,2);not null;default:0" json:"amount"`
	Description string            `json:"description"`
	Status      TransactionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// Payment gateway glue for deposits and withdrawals
	PaymentMethod    string `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentReference string `gorm:"size:100" json:"payment_reference,omitempty"`

	// Optional links back to the position and asset that caused the movement
	InvestmentID *string `gorm:"type:uuid;index" json:"investment_id,omitempty"`
	AssetID      *string `gorm:"type:uuid" json:"asset_id,omitempty"`
}

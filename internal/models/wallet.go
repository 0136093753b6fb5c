package models

import "github.com/shopspring/decimal"

// Wallet holds a user's cash balance in the base currency. Exactly one wallet
// exists per user. Balance is a cache over the completed transaction history;
// every mutating operation must keep the two in agreement. Equity (balance
// plus unrealized P/L of active investments) is always computed, never stored.
type Wallet struct {
	Base
	UserID        string          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	TotalInvested decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"total_invested"`
	Currency      string          `gorm:"size:10;not null;default:'KES'" json:"currency"`
}

// CanWithdraw reports whether the cached balance covers the given amount.
// The authoritative check happens as a conditional UPDATE at debit time;
// this is only a cheap pre-check for display paths.
func (w *Wallet) CanWithdraw(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

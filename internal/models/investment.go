package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus is the lifecycle state of a position.
//
//	active -> closed          (duration elapsed, or admin/system close)
//	active -> pending_close   (early close attempt before the duration is up)
//	pending_close -> closed   (admin approval)
type InvestmentStatus string

const (
	InvestmentStatusActive       InvestmentStatus = "active"
	InvestmentStatusPendingClose InvestmentStatus = "pending_close"
	InvestmentStatusClosed       InvestmentStatus = "closed"
	InvestmentStatusCancelled    InvestmentStatus = "cancelled"
)

// Investment is a time-boxed position in an asset. InvestedAmount, EntryPrice,
// and Units are fixed at creation and never change afterwards.
type Investment struct {
	Base
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetID string `gorm:"type:uuid;not null;index" json:"asset_id"`

	InvestedAmount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"invested_amount"`
	EntryPrice     decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"entry_price"`
	Units          decimal.Decimal `gorm:"type:numeric(28,8);not null" json:"units"`

	DurationHours int        `gorm:"not null;default:4" json:"duration_hours"`
	StartTime     time.Time  `gorm:"not null" json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`

	Status     InvestmentStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	ProfitLoss decimal.Decimal  `gorm:"type:numeric(20,2);not null;default:0" json:"profit_loss"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}

// DueAt returns the instant the position becomes eligible for closing.
func (i *Investment) DueAt() time.Time {
	return i.StartTime.Add(time.Duration(i.DurationHours) * time.Hour)
}

// IsDurationComplete reports whether the position's configured duration has
// elapsed at the given instant, making it auto-close eligible.
func (i *Investment) IsDurationComplete(now time.Time) bool {
	return !now.Before(i.DueAt())
}

// FlatProfit is the payout credited on close: the asset's hourly income rate
// times the position duration. Deliberately independent of price movement.
func (i *Investment) FlatProfit(hourlyIncome decimal.Decimal) decimal.Decimal {
	return hourlyIncome.Mul(decimal.NewFromInt(int64(i.DurationHours)))
}

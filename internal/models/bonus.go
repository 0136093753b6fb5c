package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bonus is a grantable credit with an expiry. Claiming credits the wallet
// exactly once and produces a corresponding bonus transaction; a bonus can
// be claimed neither twice nor after ExpiresAt.
type Bonus struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string          `gorm:"size:100;not null" json:"title"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`

	IsClaimed bool       `gorm:"default:false" json:"is_claimed"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
}

// Claimable reports whether the bonus can still be claimed at the given instant.
func (b *Bonus) Claimable(now time.Time) bool {
	return !b.IsClaimed && !now.After(b.ExpiresAt)
}

package models

import "time"

// User represents an account holder. All of the user's ledger state lives on
// the associated Wallet; the user row only carries identity and preferences.
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// CurrencyPreference is the user's display currency. It never changes
	// what the ledger stores; every balance is kept in the base currency.
	CurrencyPreference string `gorm:"size:10;not null;default:'KES'" json:"currency_preference"`

	IsAdmin     bool       `gorm:"default:false" json:"is_admin"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Wallet       *Wallet       `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
	Investments  []Investment  `gorm:"foreignKey:UserID" json:"investments,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Bonuses      []Bonus       `gorm:"foreignKey:UserID" json:"bonuses,omitempty"`
}

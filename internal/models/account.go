package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex" json:"username"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`

	// 2FA: secret is written once at setup and never rotated
	TOTPSecret   string `json:"-"`
	TwoFAEnabled bool   `gorm:"default:false" json:"two_fa_enabled"`

	Balance decimal.Decimal `gorm:"type:decimal(20,2)" json:"balance"`

	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

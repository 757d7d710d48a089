package models

import (
	"time"

	"github.com/google/uuid"
)

type APIToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	Token     string    `gorm:"uniqueIndex" json:"-"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	UsageCount int  `json:"usage_count"`

	LastUsed  *time.Time `json:"last_used,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

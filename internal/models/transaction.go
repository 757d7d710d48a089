package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Transaction statuses. Transitions are monotonic:
// pending -> completed | flagged, flagged -> completed | cancelled.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFlagged   = "flagged"
	StatusCancelled = "cancelled"
)

type Transaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;index" json:"receiver_id"`

	Amount      decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Description string          `json:"description"`
	Status      string          `gorm:"index" json:"status"`

	FraudScore      *float64       `json:"fraud_score,omitempty"`
	FraudReason     string         `json:"fraud_reason,omitempty"`
	FraudIndicators datatypes.JSON `json:"fraud_indicators,omitempty"`
	RequiresReview  bool           `gorm:"index" json:"requires_review"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

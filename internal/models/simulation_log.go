package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SimulationLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;index" json:"account_id"`

	SampleType string `gorm:"index" json:"sample_type"` // email, sms, phone
	InputData  string `json:"input_data"`

	FraudDetected   bool           `json:"fraud_detected"`
	FraudScore      float64        `json:"fraud_score"`
	FraudDetails    string         `json:"fraud_details"`
	FraudIndicators datatypes.JSON `json:"fraud_indicators,omitempty"`
	Severity        string         `json:"severity"`

	CreatedAt time.Time `json:"created_at"`
}

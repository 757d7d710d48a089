package fraud

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

const (
	RecommendApprove = "approve"
	RecommendReview  = "review"
	RecommendBlock   = "block"
)

// Sample kinds accepted by AnalyzeText.
const (
	KindEmail = "email"
	KindSMS   = "sms"
	KindPhone = "phone"
)

// Verdict is the normalized result of one classification call. It is
// ephemeral; callers copy the fields they want onto a Transaction or a
// SimulationLog row.
type Verdict struct {
	IsFraud        bool     `json:"is_fraud"`
	Score          float64  `json:"score"`
	Reason         string   `json:"reason"`
	Indicators     []string `json:"indicators"`
	Severity       string   `json:"severity"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// TransactionContext carries the transfer details handed to the classifier.
type TransactionContext struct {
	Amount        decimal.Decimal
	Sender        string
	Receiver      string
	Description   string
	SenderBalance decimal.Decimal
}

// Analyzer is the AI-backed classification capability. Implementations may
// fail; the Engine absorbs every failure by falling back to the rule-based
// analyzer, so callers of the Engine never see these errors.
type Analyzer interface {
	AnalyzeText(ctx context.Context, content, kind string) (Verdict, error)
	AnalyzeTransaction(ctx context.Context, txc TransactionContext) (Verdict, error)
}

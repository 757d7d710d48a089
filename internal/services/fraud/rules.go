package fraud

import (
	"fmt"
	"strings"
)

// fraudKeywords is scanned in order; the first five matches become the
// indicator list.
var fraudKeywords = []string{
	"urgent", "verify", "suspended", "click here", "confirm", "account",
	"password", "social security", "ssn", "prize", "winner", "lottery",
	"tax", "irs", "refund", "unusual activity", "verify identity",
	"click immediately", "act now", "limited time", "confirm your", "update your",
}

// RuleAnalyzer is the deterministic fallback classifier. It has no external
// dependencies and never fails, so it can run in any environment.
type RuleAnalyzer struct{}

func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

// AnalyzeText matches the known fraud keywords case-insensitively against
// the content. score = min(0.15 * matches, 0.95).
func (r *RuleAnalyzer) AnalyzeText(content, kind string) Verdict {
	return r.scan(content)
}

// AnalyzeTransaction scans the free-text description. The recommendation
// follows the severity tiers.
func (r *RuleAnalyzer) AnalyzeTransaction(txc TransactionContext) Verdict {
	v := r.scan(txc.Description)
	switch {
	case v.Score > 0.7:
		v.Recommendation = RecommendBlock
	case v.Score > 0.4:
		v.Recommendation = RecommendReview
	default:
		v.Recommendation = RecommendApprove
	}
	return v
}

func (r *RuleAnalyzer) scan(content string) Verdict {
	lower := strings.ToLower(content)

	var matched []string
	for _, kw := range fraudKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}

	score := float64(len(matched)) * 0.15
	if score > 0.95 {
		score = 0.95
	}
	isFraud := score > 0.4

	reason := "No significant fraud indicators detected"
	if isFraud {
		reason = fmt.Sprintf("Detected %d fraud indicators", len(matched))
	}

	indicators := matched
	if len(indicators) > 5 {
		indicators = indicators[:5]
	}
	if indicators == nil {
		indicators = []string{}
	}

	severity := SeverityLow
	if score > 0.7 {
		severity = SeverityHigh
	} else if score > 0.4 {
		severity = SeverityMedium
	}

	return Verdict{
		IsFraud:    isFraud,
		Score:      score,
		Reason:     reason,
		Indicators: indicators,
		Severity:   severity,
	}
}

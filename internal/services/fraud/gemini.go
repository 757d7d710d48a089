package fraud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

var (
	errEmptyResponse = errors.New("model returned no candidates")
	errNoJSON        = errors.New("no JSON object in model response")
)

// GeminiAnalyzer sends natural-language prompts to a Gemini model and
// normalizes whatever JSON the free-text reply contains.
type GeminiAnalyzer struct {
	model *genai.GenerativeModel
}

func NewGeminiAnalyzer(model *genai.GenerativeModel) *GeminiAnalyzer {
	return &GeminiAnalyzer{model: model}
}

const responseFormat = `Respond in JSON format:
{
    "is_fraud": true/false,
    "confidence_score": 0.0-1.0,
    "fraud_indicators": ["indicator1", "indicator2"],
    "explanation": "Brief explanation",
    "severity": "low/medium/high"
}`

func textPrompt(content, kind string) string {
	switch kind {
	case KindSMS:
		return fmt.Sprintf(`Analyze the following SMS message for fraud indicators. Look for:
- Smishing (SMS phishing) attempts
- Suspicious links
- Requests for personal/financial information
- Impersonation of banks/companies
- Prize/lottery scams
- Urgency or threatening language

SMS content:
%s

%s`, content, responseFormat)
	case KindPhone:
		return fmt.Sprintf(`Analyze the following phone number for fraud indicators:

Phone number: %s

Look for:
- Known spam/scam number patterns
- Suspicious area codes
- VoIP/temporary numbers
- International scam patterns
- Robocall indicators

%s`, content, responseFormat)
	default: // email
		return fmt.Sprintf(`Analyze the following email for fraud indicators. Look for:
- Phishing attempts
- Suspicious links or attachments
- Urgency tactics
- Impersonation
- Requests for sensitive information
- Suspicious sender information

Email content:
%s

%s`, content, responseFormat)
	}
}

func (g *GeminiAnalyzer) AnalyzeText(ctx context.Context, content, kind string) (Verdict, error) {
	return g.generate(ctx, textPrompt(content, kind))
}

func (g *GeminiAnalyzer) AnalyzeTransaction(ctx context.Context, txc TransactionContext) (Verdict, error) {
	prompt := fmt.Sprintf(`Analyze the following transaction for fraud indicators:

Amount: %s
Sender: %s
Receiver: %s
Description: %s
Sender Balance: %s

Look for:
- Unusual transaction amounts
- Suspicious patterns
- High-risk receivers
- Money laundering indicators
- Account takeover signs

Respond in JSON format:
{
    "is_fraud": true/false,
    "confidence_score": 0.0-1.0,
    "fraud_indicators": ["indicator1", "indicator2"],
    "explanation": "Brief explanation",
    "severity": "low/medium/high",
    "recommendation": "approve/review/block"
}`, txc.Amount, txc.Sender, txc.Receiver, txc.Description, txc.SenderBalance)

	return g.generate(ctx, prompt)
}

func (g *GeminiAnalyzer) generate(ctx context.Context, prompt string) (Verdict, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Verdict{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Verdict{}, errEmptyResponse
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Verdict{}, errEmptyResponse
	}
	return parseVerdict(string(text))
}

// rawVerdict mirrors the JSON object the model is asked to produce. Pointer
// fields distinguish "absent" from zero values.
type rawVerdict struct {
	IsFraud         *bool    `json:"is_fraud"`
	ConfidenceScore *float64 `json:"confidence_score"`
	FraudIndicators []string `json:"fraud_indicators"`
	Explanation     string   `json:"explanation"`
	Severity        string   `json:"severity"`
	Recommendation  string   `json:"recommendation"`
}

// parseVerdict extracts the first balanced {...} span from the model's free
// text and normalizes whichever fields it provides.
func parseVerdict(text string) (Verdict, error) {
	span, ok := firstJSONObject(text)
	if !ok {
		return Verdict{}, errNoJSON
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return Verdict{}, fmt.Errorf("malformed JSON in model response: %w", err)
	}

	v := Verdict{
		Reason:         "No explanation provided",
		Indicators:     []string{},
		Severity:       SeverityLow,
		Recommendation: RecommendReview,
	}
	if raw.IsFraud != nil {
		v.IsFraud = *raw.IsFraud
	}
	if raw.ConfidenceScore != nil {
		v.Score = clamp01(*raw.ConfidenceScore)
	}
	if raw.Explanation != "" {
		v.Reason = raw.Explanation
	}
	if raw.FraudIndicators != nil {
		v.Indicators = raw.FraudIndicators
	}
	switch raw.Severity {
	case SeverityLow, SeverityMedium, SeverityHigh:
		v.Severity = raw.Severity
	}
	switch raw.Recommendation {
	case RecommendApprove, RecommendReview, RecommendBlock:
		v.Recommendation = raw.Recommendation
	}
	return v, nil
}

// firstJSONObject returns the first balanced top-level {...} span in s,
// skipping braces inside string literals.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

package fraud

import (
	"reflect"
	"testing"
)

func TestParseVerdictEmbeddedJSON(t *testing.T) {
	text := "Sure! Here is my analysis:\n```json\n" +
		`{"is_fraud": true, "confidence_score": 0.85, "fraud_indicators": ["urgency tactics", "impersonation"], "explanation": "Classic phishing", "severity": "high", "recommendation": "block"}` +
		"\n```\nLet me know if you need more detail."

	v, err := parseVerdict(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsFraud || v.Score != 0.85 {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Reason != "Classic phishing" {
		t.Fatalf("unexpected reason: %s", v.Reason)
	}
	if !reflect.DeepEqual(v.Indicators, []string{"urgency tactics", "impersonation"}) {
		t.Fatalf("unexpected indicators: %v", v.Indicators)
	}
	if v.Severity != SeverityHigh || v.Recommendation != RecommendBlock {
		t.Fatalf("unexpected severity/recommendation: %+v", v)
	}
}

func TestParseVerdictMissingFieldsDefault(t *testing.T) {
	v, err := parseVerdict(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsFraud {
		t.Fatal("expected is_fraud default false")
	}
	if v.Score != 0 {
		t.Fatalf("expected score default 0, got %v", v.Score)
	}
	if v.Reason != "No explanation provided" {
		t.Fatalf("unexpected default reason: %s", v.Reason)
	}
	if v.Indicators == nil || len(v.Indicators) != 0 {
		t.Fatalf("expected empty indicator list, got %v", v.Indicators)
	}
	if v.Severity != SeverityLow {
		t.Fatalf("expected default severity low, got %s", v.Severity)
	}
	if v.Recommendation != RecommendReview {
		t.Fatalf("expected default recommendation review, got %s", v.Recommendation)
	}
}

func TestParseVerdictClampsScore(t *testing.T) {
	v, err := parseVerdict(`{"confidence_score": 7.5}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Score != 1 {
		t.Fatalf("expected score clamped to 1, got %v", v.Score)
	}

	v, err = parseVerdict(`{"confidence_score": -0.3}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Score != 0 {
		t.Fatalf("expected score clamped to 0, got %v", v.Score)
	}
}

func TestParseVerdictRejectsUnknownEnums(t *testing.T) {
	v, err := parseVerdict(`{"severity": "catastrophic", "recommendation": "panic"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Severity != SeverityLow {
		t.Fatalf("expected unknown severity to fall back to low, got %s", v.Severity)
	}
	if v.Recommendation != RecommendReview {
		t.Fatalf("expected unknown recommendation to fall back to review, got %s", v.Recommendation)
	}
}

func TestParseVerdictNoJSON(t *testing.T) {
	if _, err := parseVerdict("I could not produce a structured answer."); err == nil {
		t.Fatal("expected parse failure when no JSON object is present")
	}
}

func TestParseVerdictMalformedJSON(t *testing.T) {
	if _, err := parseVerdict(`{"is_fraud": tru}`); err == nil {
		t.Fatal("expected parse failure for malformed JSON")
	}
}

func TestFirstJSONObjectBalancesBraces(t *testing.T) {
	span, ok := firstJSONObject(`noise {"a": {"b": 1}, "c": "has } brace"} trailing {"other": 2}`)
	if !ok {
		t.Fatal("expected to find a JSON object")
	}
	want := `{"a": {"b": 1}, "c": "has } brace"}`
	if span != want {
		t.Fatalf("expected %q, got %q", want, span)
	}
}

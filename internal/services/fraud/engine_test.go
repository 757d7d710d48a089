package fraud_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"fraudguard-backend/internal/services/fraud"
)

type stubAnalyzer struct {
	verdict fraud.Verdict
	err     error
	block   bool
	calls   int
}

func (s *stubAnalyzer) AnalyzeText(ctx context.Context, content, kind string) (fraud.Verdict, error) {
	return s.analyze(ctx)
}

func (s *stubAnalyzer) AnalyzeTransaction(ctx context.Context, txc fraud.TransactionContext) (fraud.Verdict, error) {
	return s.analyze(ctx)
}

func (s *stubAnalyzer) analyze(ctx context.Context) (fraud.Verdict, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return fraud.Verdict{}, ctx.Err()
	}
	return s.verdict, s.err
}

func TestEngineUsesRulesWhenUnconfigured(t *testing.T) {
	engine := fraud.NewEngine(nil, time.Second)
	rules := fraud.NewRuleAnalyzer()

	input := "urgent: verify your lottery prize"
	got := engine.AnalyzeText(context.Background(), input, fraud.KindSMS)
	want := rules.AnalyzeText(input, fraud.KindSMS)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected rule-based verdict %+v, got %+v", want, got)
	}
}

func TestEngineFallsBackOnError(t *testing.T) {
	ai := &stubAnalyzer{err: errors.New("upstream 503")}
	engine := fraud.NewEngine(ai, time.Second)

	input := "urgent: verify your lottery prize ssn"
	got := engine.AnalyzeText(context.Background(), input, fraud.KindEmail)
	want := fraud.NewRuleAnalyzer().AnalyzeText(input, fraud.KindEmail)

	if ai.calls != 1 {
		t.Fatalf("expected one AI attempt, got %d", ai.calls)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fallback verdict %+v, got %+v", want, got)
	}
}

func TestEngineFallsBackOnTimeout(t *testing.T) {
	ai := &stubAnalyzer{block: true}
	engine := fraud.NewEngine(ai, 10*time.Millisecond)

	got := engine.AnalyzeTransaction(context.Background(), fraud.TransactionContext{Description: "rent"})

	if got.Severity != fraud.SeverityLow || got.IsFraud {
		t.Fatalf("expected conservative fallback verdict, got %+v", got)
	}
	if got.Recommendation != fraud.RecommendApprove {
		t.Fatalf("expected approve for clean description, got %s", got.Recommendation)
	}
}

func TestEnginePassesThroughAIVerdict(t *testing.T) {
	want := fraud.Verdict{
		IsFraud:        true,
		Score:          0.9,
		Reason:         "model says so",
		Indicators:     []string{"pattern"},
		Severity:       fraud.SeverityHigh,
		Recommendation: fraud.RecommendBlock,
	}
	engine := fraud.NewEngine(&stubAnalyzer{verdict: want}, time.Second)

	got := engine.AnalyzeTransaction(context.Background(), fraud.TransactionContext{Description: "rent"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected AI verdict %+v, got %+v", want, got)
	}
}

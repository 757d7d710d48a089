package fraud

import (
	"context"
	"log/slog"
	"time"
)

// Engine routes analysis to the AI-backed analyzer when one is configured and
// falls back to the deterministic rules otherwise. Callers always get a valid
// Verdict; AI transport, timeout and parse errors never escape this package.
type Engine struct {
	ai      Analyzer
	rules   *RuleAnalyzer
	timeout time.Duration
}

// NewEngine builds an engine. ai may be nil, in which case every call uses
// the rule-based analyzer.
func NewEngine(ai Analyzer, timeout time.Duration) *Engine {
	return &Engine{
		ai:      ai,
		rules:   NewRuleAnalyzer(),
		timeout: timeout,
	}
}

func (e *Engine) AnalyzeText(ctx context.Context, content, kind string) Verdict {
	if e.ai == nil {
		return e.rules.AnalyzeText(content, kind)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	v, err := e.ai.AnalyzeText(ctx, content, kind)
	if err != nil {
		slog.Warn("ai text analysis failed, using rule-based fallback", "kind", kind, "error", err)
		return e.rules.AnalyzeText(content, kind)
	}
	return v
}

func (e *Engine) AnalyzeTransaction(ctx context.Context, txc TransactionContext) Verdict {
	if e.ai == nil {
		return e.rules.AnalyzeTransaction(txc)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	v, err := e.ai.AnalyzeTransaction(ctx, txc)
	if err != nil {
		slog.Warn("ai transaction analysis failed, using rule-based fallback", "error", err)
		return e.rules.AnalyzeTransaction(txc)
	}
	return v
}

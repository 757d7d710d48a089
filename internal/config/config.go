package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config carries the runtime settings and policy knobs for the server.
// The two thresholds are independent policy decisions: one bounds when a
// transfer is expensive enough to analyze, the other bounds when a verdict
// score flags it.
type Config struct {
	Port  string
	DBURL string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Transfers above senderBalance * LargeTransactionThreshold are analyzed.
	LargeTransactionThreshold decimal.Decimal
	// Verdicts with score above FlagScoreThreshold flag the transfer.
	FlagScoreThreshold float64

	InitialBalance decimal.Decimal
	TOTPIssuer     string
}

func Load() Config {
	return Config{
		Port:                      getEnv("PORT", "8080"),
		DBURL:                     os.Getenv("DB_URL"),
		GeminiAPIKey:              os.Getenv("GEMINI_API_KEY"),
		GeminiModel:               getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiTimeout:             time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 10)) * time.Second,
		LargeTransactionThreshold: getEnvDecimal("LARGE_TRANSACTION_THRESHOLD", "0.3"),
		FlagScoreThreshold:        getEnvFloat("FLAG_SCORE_THRESHOLD", 0.7),
		InitialBalance:            getEnvDecimal("INITIAL_BALANCE", "10000"),
		TOTPIssuer:                getEnv("TOTP_ISSUER", "FraudGuard"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(fallback)
	return d
}

package main

import (
	"context"
	"log/slog"
	"time"

	"fraudguard-backend/internal/config"
	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/routes"
	"fraudguard-backend/internal/services/fraud"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on system env")
	}

	cfg := config.Load()
	db := config.InitDB(cfg.DBURL)

	db.AutoMigrate(
		&models.Account{},
		&models.Transaction{},
		&models.SimulationLog{},
		&models.APIToken{},
	)

	engine := fraud.NewEngine(buildGeminiAnalyzer(cfg), cfg.GeminiTimeout)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, cfg, engine)

	r.Run(":" + cfg.Port)
}

// buildGeminiAnalyzer returns nil when the API key is absent or the client
// cannot be created; the engine then runs on the rule-based fallback only.
func buildGeminiAnalyzer(cfg config.Config) fraud.Analyzer {
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not configured, using rule-based fraud analysis only")
		return nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		slog.Warn("failed to create Gemini client, using rule-based fraud analysis only", "error", err)
		return nil
	}

	slog.Info("Gemini model initialized", "model", cfg.GeminiModel)
	return fraud.NewGeminiAnalyzer(client.GenerativeModel(cfg.GeminiModel))
}

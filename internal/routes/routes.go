package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fraudguard-backend/internal/config"
	handler "fraudguard-backend/internal/handlers"
	"fraudguard-backend/internal/middleware"
	"fraudguard-backend/internal/repository"
	"fraudguard-backend/internal/services/fraud"
	"fraudguard-backend/internal/services/ledger"
	"fraudguard-backend/internal/services/twofa"
	"fraudguard-backend/internal/services/workflow"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, engine *fraud.Engine) {
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	simulationRepo := repository.NewSimulationLogRepository(db)
	tokenRepo := repository.NewAPITokenRepository(db)

	ledgerService := ledger.NewService(accountRepo)
	workflowService := workflow.NewService(
		accountRepo,
		transactionRepo,
		ledgerService,
		engine,
		cfg.LargeTransactionThreshold,
		cfg.FlagScoreThreshold,
	)
	twofaService := twofa.NewService(accountRepo, cfg.TOTPIssuer)

	authHandler := handler.NewAuthHandler(accountRepo, tokenRepo, twofaService, cfg.InitialBalance)
	txHandler := handler.NewTransactionHandler(workflowService, accountRepo)
	fraudHandler := handler.NewFraudHandler(engine, simulationRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireToken(tokenRepo, accountRepo))

	authed.POST("/2fa/setup", authHandler.Setup2FA)
	authed.POST("/2fa/enable", authHandler.Enable2FA)

	tx := authed.Group("/transactions")
	tx.POST("", txHandler.Create)
	tx.GET("", txHandler.List)
	tx.GET("/flagged", txHandler.ListFlagged)
	tx.POST("/:id/approve", txHandler.Approve)
	tx.POST("/:id/cancel", txHandler.Cancel)

	authed.POST("/fraud-check", fraudHandler.Check)
	authed.GET("/simulations", fraudHandler.ListSimulations)
}

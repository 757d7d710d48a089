package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fraudguard-backend/internal/middleware"
	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/repository"
	"fraudguard-backend/internal/services/fraud"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FraudHandler struct {
	engine *fraud.Engine
	logs   *repository.SimulationLogRepository
}

func NewFraudHandler(engine *fraud.Engine, logs *repository.SimulationLogRepository) *FraudHandler {
	return &FraudHandler{engine: engine, logs: logs}
}

// Check classifies a free-text sample (email, SMS or phone number) and
// records the verdict against the caller's account.
func (h *FraudHandler) Check(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	var payload struct {
		DataType string `json:"data_type"`
		Content  string `json:"content"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	switch payload.DataType {
	case fraud.KindEmail, fraud.KindSMS, fraud.KindPhone:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_type must be email, sms or phone"})
		return
	}

	verdict := h.engine.AnalyzeText(c.Request.Context(), payload.Content, payload.DataType)

	log := &models.SimulationLog{
		ID:            uuid.New(),
		AccountID:     acct.ID,
		SampleType:    payload.DataType,
		InputData:     payload.Content,
		FraudDetected: verdict.IsFraud,
		FraudScore:    verdict.Score,
		FraudDetails:  verdict.Reason,
		Severity:      verdict.Severity,
		CreatedAt:     time.Now(),
	}
	if data, err := json.Marshal(verdict.Indicators); err == nil {
		log.FraudIndicators = data
	}
	if err := h.logs.Create(c.Request.Context(), log); err != nil {
		slog.Warn("failed to persist simulation log", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"result": gin.H{
			"is_fraud":         verdict.IsFraud,
			"confidence_score": verdict.Score,
			"fraud_indicators": verdict.Indicators,
			"explanation":      verdict.Reason,
			"severity":         verdict.Severity,
		},
	})
}

func (h *FraudHandler) ListSimulations(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	logs, err := h.logs.ListByAccount(c.Request.Context(), acct.ID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

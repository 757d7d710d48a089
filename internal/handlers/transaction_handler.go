package handler

import (
	"errors"
	"net/http"

	"fraudguard-backend/internal/middleware"
	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/repository"
	"fraudguard-backend/internal/services/ledger"
	"fraudguard-backend/internal/services/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	workflow *workflow.Service
	accounts *repository.AccountRepository
}

func NewTransactionHandler(wf *workflow.Service, accounts *repository.AccountRepository) *TransactionHandler {
	return &TransactionHandler{workflow: wf, accounts: accounts}
}

// Create handles a transfer request. The recipient is addressed by username,
// as in the send-money form.
func (h *TransactionHandler) Create(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	var payload struct {
		RecipientUsername string          `json:"recipient_username"`
		Amount            decimal.Decimal `json:"amount"`
		Description       string          `json:"description"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	recipient, err := h.accounts.GetByUsername(c.Request.Context(), payload.RecipientUsername)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.workflow.Transfer(c.Request.Context(), acct.ID, recipient.ID, payload.Amount, payload.Description)
	if err != nil {
		h.writeTransferError(c, err)
		return
	}

	if tx.Status == models.StatusFlagged {
		c.JSON(http.StatusAccepted, gin.H{
			"message":     "transaction flagged for review due to suspicious activity",
			"transaction": tx,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "transfer completed", "transaction": tx})
}

func (h *TransactionHandler) Approve(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	tx, err := h.workflow.Approve(c.Request.Context(), acct.ID, txID)
	if err != nil {
		h.writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction approved and completed", "transaction": tx})
}

func (h *TransactionHandler) Cancel(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	tx, err := h.workflow.Cancel(c.Request.Context(), acct.ID, txID)
	if err != nil {
		h.writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction cancelled", "transaction": tx})
}

func (h *TransactionHandler) List(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	txs, err := h.workflow.History(c.Request.Context(), acct.ID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": txs})
}

func (h *TransactionHandler) ListFlagged(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	txs, err := h.workflow.FlaggedForSender(c.Request.Context(), acct.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": txs})
}

func (h *TransactionHandler) writeTransferError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrSelfTransfer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
	case errors.Is(err, ledger.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transfer failed"})
	}
}

func (h *TransactionHandler) writeReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
	case errors.Is(err, workflow.ErrNotSender):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	case errors.Is(err, workflow.ErrNotFlagged):
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction not flagged"})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

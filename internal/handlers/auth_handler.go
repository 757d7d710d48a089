package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"fraudguard-backend/internal/middleware"
	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/repository"
	"fraudguard-backend/internal/services/ledger"
	"fraudguard-backend/internal/services/twofa"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	accounts       *repository.AccountRepository
	tokens         *repository.APITokenRepository
	twofa          *twofa.Service
	initialBalance decimal.Decimal
}

func NewAuthHandler(
	accounts *repository.AccountRepository,
	tokens *repository.APITokenRepository,
	twofaSvc *twofa.Service,
	initialBalance decimal.Decimal,
) *AuthHandler {
	return &AuthHandler{
		accounts:       accounts,
		tokens:         tokens,
		twofa:          twofaSvc,
		initialBalance: initialBalance,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	payload.Username = strings.ToLower(strings.TrimSpace(payload.Username))
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Username == "" || payload.Email == "" || len(payload.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and a password of at least 8 characters are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	acct := &models.Account{
		ID:           uuid.New(),
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Balance:      h.initialBalance,
		CreatedAt:    time.Now(),
	}
	if err := h.accounts.Create(c.Request.Context(), acct); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "account": acct})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
		TOTPCode string `json:"totp_code"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	acct, err := h.accounts.GetByUsername(c.Request.Context(), payload.Username)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(payload.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	// Second factor gates login once enrollment is complete.
	if acct.TwoFAEnabled {
		if payload.TOTPCode == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "2FA code required"})
			return
		}
		if !twofa.Verify(acct.TOTPSecret, payload.TOTPCode) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid 2FA code"})
			return
		}
	}

	token, err := newToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	apiToken := &models.APIToken{
		ID:        uuid.New(),
		AccountID: acct.ID,
		Token:     token,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := h.tokens.Create(c.Request.Context(), apiToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	now := time.Now()
	acct.LastLogin = &now
	_ = h.accounts.Save(c.Request.Context(), acct)

	c.JSON(http.StatusOK, gin.H{"token": token, "account": acct})
}

// Setup2FA starts enrollment: it hands back the secret and provisioning URI
// without enabling anything yet.
func (h *AuthHandler) Setup2FA(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	secret, uri, err := h.twofa.InitiateSetup(c.Request.Context(), acct.ID)
	if err != nil {
		if errors.Is(err, twofa.ErrAlreadyEnabled) {
			c.JSON(http.StatusConflict, gin.H{"error": "2FA is already enabled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start 2FA setup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": secret, "provisioning_uri": uri})
}

// Enable2FA completes enrollment after the account holder proves possession
// of the secret with one valid code.
func (h *AuthHandler) Enable2FA(c *gin.Context) {
	acct := middleware.CurrentAccount(c)

	var payload struct {
		Code string `json:"code"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.twofa.Enable(c.Request.Context(), acct.ID, payload.Code); err != nil {
		switch {
		case errors.Is(err, twofa.ErrAlreadyEnabled):
			c.JSON(http.StatusConflict, gin.H{"error": "2FA is already enabled"})
		case errors.Is(err, twofa.ErrSetupNotStarted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "start 2FA setup first"})
		case errors.Is(err, twofa.ErrInvalidCode):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enable 2FA"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "two-factor authentication enabled"})
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

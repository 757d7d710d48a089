package middleware

import (
	"net/http"
	"strings"

	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

const accountKey = "account"

// RequireToken authenticates requests by opaque bearer token and puts the
// owning account on the context.
func RequireToken(tokens *repository.APITokenRepository, accounts *repository.AccountRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		token, err := tokens.GetActiveByToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		acct, err := accounts.GetByID(c.Request.Context(), token.AccountID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			return
		}

		_ = tokens.TouchUsage(c.Request.Context(), token)

		c.Set(accountKey, acct)
		c.Next()
	}
}

// CurrentAccount returns the authenticated account set by RequireToken.
func CurrentAccount(c *gin.Context) *models.Account {
	if v, ok := c.Get(accountKey); ok {
		if acct, ok := v.(*models.Account); ok {
			return acct
		}
	}
	return nil
}

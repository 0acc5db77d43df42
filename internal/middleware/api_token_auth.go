package middleware

import (
	"net/http"

	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RequireAPIToken is a middleware that authenticates machine callers (the
// transaction feed producer and the sync webhook) using API tokens presented
// in the x-api-key header.
func RequireAPIToken(tokenSvc portssvc.APITokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		key := c.GetHeader("x-api-key")
		if key == "" {
			logger.Warn("API key missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "x-api-key header required"})
			return
		}

		token, err := tokenSvc.ValidateToken(c.Request.Context(), key)
		if err != nil {
			logger.Warn("API key validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Set("authMethod", "api_token")
		c.Set("apiTokenID", token.TokenID)
		c.Next()
	}
}

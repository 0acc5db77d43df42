package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/dto"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// apiTokenHandler manages the machine tokens used by the transaction feed.
type apiTokenHandler struct {
	tokenSvc portssvc.APITokenSvc
}

// newAPITokenHandler creates a new apiTokenHandler.
func newAPITokenHandler(tokenSvc portssvc.APITokenSvc) *apiTokenHandler {
	return &apiTokenHandler{tokenSvc: tokenSvc}
}

// registerAPITokenRoutes registers token management routes.
func registerAPITokenRoutes(rg *gin.RouterGroup, tokenSvc portssvc.APITokenSvc) {
	h := newAPITokenHandler(tokenSvc)

	tokens := rg.Group("/tokens")
	{
		tokens.POST("", h.createToken)
		tokens.GET("", h.listTokens)
		tokens.DELETE("/:id", h.deleteToken)
	}
}

func toAPITokenResponse(token *domain.APIToken) dto.APITokenResponse {
	return dto.APITokenResponse{
		TokenID:    token.TokenID,
		Name:       token.Name,
		CreatedAt:  token.CreatedAt,
		ExpiresAt:  token.ExpiresAt,
		LastUsedAt: token.LastUsedAt,
	}
}

// createToken godoc
// @Summary Create a machine API token
// @Description Creates a token for the transaction feed producer. The secret is returned exactly once.
// @Tags tokens
// @Accept  json
// @Produce  json
// @Param   token body dto.CreateAPITokenRequest true "Token details"
// @Success 201 {object} dto.CreateAPITokenResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create token"
// @Security BearerAuth
// @Router /tokens [post]
func (h *apiTokenHandler) createToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateToken", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	var expiresIn *time.Duration
	if req.ExpiresInDays != nil {
		d := time.Duration(*req.ExpiresInDays) * 24 * time.Hour
		expiresIn = &d
	}

	secret, token, err := h.tokenSvc.CreateToken(c.Request.Context(), req.Name, expiresIn)
	if err != nil {
		logger.Error("Failed to create API token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, dto.CreateAPITokenResponse{
		APITokenResponse: toAPITokenResponse(token),
		Token:            secret,
	})
}

// listTokens godoc
// @Summary List machine API tokens
// @Tags tokens
// @Produce  json
// @Success 200 {array} dto.APITokenResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list tokens"
// @Security BearerAuth
// @Router /tokens [get]
func (h *apiTokenHandler) listTokens(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tokens, err := h.tokenSvc.ListTokens(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list API tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tokens"})
		return
	}

	resp := make([]dto.APITokenResponse, 0, len(tokens))
	for i := range tokens {
		resp = append(resp, toAPITokenResponse(&tokens[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// deleteToken godoc
// @Summary Revoke a machine API token
// @Tags tokens
// @Produce  json
// @Param   id path string true "Token ID"
// @Success 204 "Revoked"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Token not found"
// @Failure 500 {object} map[string]string "Failed to delete token"
// @Security BearerAuth
// @Router /tokens/{id} [delete]
func (h *apiTokenHandler) deleteToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tokenID := c.Param("id")

	err := h.tokenSvc.DeleteToken(c.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
			return
		}
		logger.Error("Failed to delete API token", slog.String("token_id", tokenID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete token"})
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/dto"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// claimHandler handles the merchant-facing verify/confirm redemption workflow.
type claimHandler struct {
	redemptionSvc portssvc.RedemptionSvcFacade
}

// newClaimHandler creates a new claimHandler.
func newClaimHandler(rs portssvc.RedemptionSvcFacade) *claimHandler {
	return &claimHandler{redemptionSvc: rs}
}

// RegisterClaimRoutes registers redemption routes under a merchant scope.
func RegisterClaimRoutes(rg *gin.RouterGroup, redemptionSvc portssvc.RedemptionSvcFacade) {
	h := newClaimHandler(redemptionSvc)

	claims := rg.Group("/merchants/:merchantID/claims")
	{
		claims.POST("/verify", h.verifyCode)
		claims.POST("/confirm", h.confirmCode)
	}
}

// verifyCode godoc
// @Summary Verify a reward code
// @Description Reports what confirming the code would do, without mutating anything.
// @Tags claims
// @Accept  json
// @Produce  json
// @Param   merchantID path string true "Merchant ID"
// @Param   redemption body dto.RedeemCodeRequest true "Reward code"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Insufficient merchant role"
// @Failure 404 {object} map[string]string "Not a member of this merchant"
// @Failure 500 {object} map[string]string "Failed to verify code"
// @Security BearerAuth
// @Router /merchants/{merchantID}/claims/verify [post]
func (h *claimHandler) verifyCode(c *gin.Context) {
	h.redeem(c, h.redemptionSvc.Preview)
}

// confirmCode godoc
// @Summary Confirm a reward code redemption
// @Description Transitions a PENDING claim to REDEEMED. Confirming an already-redeemed code reports ALREADY_REDEEMED without re-applying.
// @Tags claims
// @Accept  json
// @Produce  json
// @Param   merchantID path string true "Merchant ID"
// @Param   redemption body dto.RedeemCodeRequest true "Reward code"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Insufficient merchant role"
// @Failure 404 {object} map[string]string "Not a member of this merchant"
// @Failure 500 {object} map[string]string "Failed to confirm code"
// @Security BearerAuth
// @Router /merchants/{merchantID}/claims/confirm [post]
func (h *claimHandler) confirmCode(c *gin.Context) {
	h.redeem(c, h.redemptionSvc.Confirm)
}

type redeemFn func(ctx context.Context, merchantID string, code string, userID string) (*domain.RedemptionResult, error)

func (h *claimHandler) redeem(c *gin.Context, op redeemFn) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	merchantID := c.Param("merchantID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.RedeemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for redemption", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	result, err := op(c.Request.Context(), merchantID, req.Code, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this merchant"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient merchant role"})
		default:
			logger.Error("Redemption failed",
				slog.String("merchant_id", merchantID),
				slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process redemption"})
		}
		return
	}

	resp := dto.RedemptionResponse{Outcome: string(result.Outcome)}
	if result.Claim != nil {
		claim := dto.ToClaimResponse(result.Claim)
		resp.Claim = &claim
	}
	c.JSON(http.StatusOK, resp)
}

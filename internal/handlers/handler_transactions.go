package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/dto"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// transactionHandler handles HTTP requests for the transaction feed and the
// administrative override surface.
type transactionHandler struct {
	transactionSvc portssvc.TransactionSvcFacade
	dispatcherSvc  portssvc.DispatcherSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade, ds portssvc.DispatcherSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionSvc: ts,
		dispatcherSvc:  ds,
	}
}

// registerFeedRoutes registers the machine-authenticated feed surface: ingest
// and the sync-complete trigger.
func registerFeedRoutes(rg *gin.RouterGroup, transactionSvc portssvc.TransactionSvcFacade, dispatcherSvc portssvc.DispatcherSvcFacade) {
	h := newTransactionHandler(transactionSvc, dispatcherSvc)

	feed := rg.Group("/feed")
	{
		feed.POST("/transactions", h.ingestTransaction)
		feed.POST("/sync-complete", h.syncComplete)
	}
}

// registerTransactionAdminRoutes registers the user-authenticated override surface.
func registerTransactionAdminRoutes(rg *gin.RouterGroup, transactionSvc portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionSvc, nil)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/:id/reset", h.resetResolution)
		transactions.POST("/:id/assign", h.forceAssign)
	}
}

// ingestTransaction godoc
// @Summary Ingest a card transaction
// @Description Accepts one bank transaction from the feed producer. Idempotent on externalTxnID: a re-delivery returns the stored transaction with 200 instead of 201.
// @Tags feed
// @Accept  json
// @Produce  json
// @Param   transaction body dto.IngestTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Success 200 {object} dto.TransactionResponse "Duplicate delivery, stored transaction returned"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to ingest transaction"
// @Security ApiKeyAuth
// @Router /feed/transactions [post]
func (h *transactionHandler) ingestTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.IngestTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	txn, created, err := h.transactionSvc.IngestTransaction(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to ingest transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest transaction"})
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToTransactionResponse(txn))
}

// syncComplete godoc
// @Summary Signal end of a feed sync window
// @Description Triggers a drain of the unresolved transaction backlog. Safe to call redundantly.
// @Tags feed
// @Produce  json
// @Success 200 {object} dto.SyncCompleteResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to process backlog"
// @Security ApiKeyAuth
// @Router /feed/sync-complete [post]
func (h *transactionHandler) syncComplete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	processed, err := h.dispatcherSvc.ProcessPending(c.Request.Context())
	if err != nil {
		logger.Error("Failed to process pending transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process backlog"})
		return
	}
	c.JSON(http.StatusOK, dto.SyncCompleteResponse{Processed: processed})
}

// resetResolution godoc
// @Summary Reset a transaction's resolution
// @Description Forces a transaction back to UNRESOLVED so the next dispatcher run re-evaluates it.
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 204 "Reset"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to reset transaction"
// @Security BearerAuth
// @Router /transactions/{id}/reset [post]
func (h *transactionHandler) resetResolution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.transactionSvc.ResetResolution(c.Request.Context(), transactionID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		logger.Error("Failed to reset transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset transaction"})
		return
	}
	c.Status(http.StatusNoContent)
}

// forceAssign godoc
// @Summary Force-assign a transaction to a merchant
// @Description Bypasses the matcher, pins the transaction to the given merchant and applies reward progress.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   assignment body dto.ForceAssignRequest true "Target merchant"
// @Success 204 "Assigned"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction or merchant not found"
// @Failure 500 {object} map[string]string "Failed to assign transaction"
// @Security BearerAuth
// @Router /transactions/{id}/assign [post]
func (h *transactionHandler) forceAssign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ForceAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ForceAssign", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	err := h.transactionSvc.ForceAssign(c.Request.Context(), transactionID, req.MerchantID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction or merchant not found"})
			return
		}
		logger.Error("Failed to force-assign transaction",
			slog.String("transaction_id", transactionID),
			slog.String("merchant_id", req.MerchantID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign transaction"})
		return
	}
	c.Status(http.StatusNoContent)
}

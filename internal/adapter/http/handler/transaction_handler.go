package handler

import (
	"strconv"

	"satoshi-ledger/internal/adapter/http/dto"
	"satoshi-ledger/internal/adapter/http/middleware"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/internal/service"
	"satoshi-ledger/pkg/apperror"
	"satoshi-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transfers and history.
type TransactionHandler struct {
	ledger ports.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledger ports.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// MakeTransaction handles POST /api/v1/transactions.
func (h *TransactionHandler) MakeTransaction(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	res, err := h.ledger.MakeTransaction(c.Request.Context(), ports.TransferRequest{
		APIKey:      c.GetHeader(middleware.HeaderAPIKey),
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		Amount:      req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxUserID, res.UserID)
	c.Set(middleware.CtxResourceID, strconv.FormatInt(res.Transaction.ID, 10))
	response.CreatedMessage(c, service.TransferCompleted)
}

// ListTransactions handles GET /api/v1/transactions.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	views, err := h.ledger.GetTransactions(c.Request.Context(), c.GetHeader(middleware.HeaderAPIKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTransactionListResponse(views))
}

// GetStatistics handles GET /api/v1/statistics.
func (h *TransactionHandler) GetStatistics(c *gin.Context) {
	stats, err := h.ledger.GetStatistics(c.Request.Context(), c.GetHeader(middleware.HeaderAdminKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatisticsResponse{
		Transactions:   stats.TransactionCount,
		PlatformProfit: stats.ProfitSatoshi,
	})
}

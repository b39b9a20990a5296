package handler

import (
	"satoshi-ledger/internal/adapter/http/dto"
	"satoshi-ledger/internal/adapter/http/middleware"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	ledger ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledger ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// CreateWallet handles POST /api/v1/wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	balance, err := h.ledger.CreateWallet(c.Request.Context(), c.GetHeader(middleware.HeaderAPIKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxUserID, balance.UserID)
	c.Set(middleware.CtxResourceID, balance.Address)
	response.Created(c, dto.NewWalletResponse(balance))
}

// GetWallet handles GET /api/v1/wallets/:address.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	balance, err := h.ledger.GetWalletBalance(c.Request.Context(), c.GetHeader(middleware.HeaderAPIKey), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(balance))
}

// ListWalletTransactions handles GET /api/v1/wallets/:address/transactions.
func (h *WalletHandler) ListWalletTransactions(c *gin.Context) {
	views, err := h.ledger.GetTransactionsForWallet(c.Request.Context(), c.GetHeader(middleware.HeaderAPIKey), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTransactionListResponse(views))
}

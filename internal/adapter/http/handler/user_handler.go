package handler

import (
	"strconv"

	"satoshi-ledger/internal/adapter/http/dto"
	"satoshi-ledger/internal/adapter/http/middleware"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/pkg/apperror"
	"satoshi-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user registration.
type UserHandler struct {
	ledger ports.LedgerService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(ledger ports.LedgerService) *UserHandler {
	return &UserHandler{ledger: ledger}
}

// CreateUser handles POST /api/v1/users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := h.ledger.CreateUser(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxUserID, user.ID)
	c.Set(middleware.CtxResourceID, strconv.FormatInt(user.ID, 10))
	response.Created(c, dto.CreateUserResponse{APIKey: user.APIKey})
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   ErrInsufficientFunds(),
			expected: "[INSUFFICIENT_FUNDS] insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   ErrUnsuccessfulPost(fmt.Errorf("connection refused")),
			expected: "[UNSUCCESSFUL_POST] transaction could not be recorded: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := InternalError(inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, ErrInvalidAdminKey().Unwrap())
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("settle: %w", ErrWalletNotOwned())

	assert.True(t, HasCode(wrapped, CodeWalletOwnershipViolation))
	assert.False(t, HasCode(wrapped, CodeInvalidRequest))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
		message    string
	}{
		{"InvalidAPIKey", ErrInvalidAPIKey("abc"), CodeInvalidAPIKey, http.StatusUnauthorized, "api_key: abc is invalid"},
		{"InvalidAdminKey", ErrInvalidAdminKey(), CodeInvalidAdminKey, http.StatusUnauthorized, "invalid admin key"},
		{"EmailInUse", ErrEmailAlreadyInUse("a@b.c"), CodeEmailAlreadyInUse, http.StatusConflict, "email: a@b.c already in use"},
		{"LimitReached", ErrWalletLimitReached(3), CodeWalletLimitReached, http.StatusForbidden, "can't have more than 3 wallets"},
		{"AddressTaken", ErrWalletAddressTaken("ff"), CodeWalletAddressTaken, http.StatusConflict, "wallet address ff already taken"},
		{"WalletMissing", ErrWalletNotFoundForUser(), CodeWalletOwnershipViolation, http.StatusForbidden, "wallet with that address does not exist"},
		{"WalletNotOwned", ErrWalletNotOwned(), CodeWalletOwnershipViolation, http.StatusForbidden, "wallet does not belong to user"},
		{"InvalidAddress", ErrInvalidWalletAddress("zz"), CodeInvalidRequest, http.StatusNotFound, "wallet address: zz invalid"},
		{"UnknownAddress", ErrUnknownWalletAddress("zz"), CodeInvalidRequest, http.StatusNotFound, "wallet address: zz doesn't exist"},
		{"InsufficientFunds", ErrInsufficientFunds(), CodeInsufficientFunds, http.StatusPaymentRequired, "insufficient funds"},
		{"RateUnavailable", ErrRateUnavailable(nil), CodeRateUnavailable, http.StatusServiceUnavailable, "exchange rate unavailable"},
		{"RateLimited", ErrRateLimitExceeded(), CodeRateLimitExceeded, http.StatusTooManyRequests, "Rate limit exceeded"},
		{"Validation", Validation("bad"), CodeValidation, http.StatusBadRequest, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.message, tt.err.Message)
		})
	}
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Ledger status codes. Each maps to a fixed HTTP status.
const (
	CodeInvalidAPIKey            = "INVALID_API_KEY"
	CodeInvalidAdminKey          = "INVALID_ADMIN_KEY"
	CodeEmailAlreadyInUse        = "EMAIL_ALREADY_IN_USE"
	CodeWalletLimitReached       = "WALLET_LIMIT_REACHED"
	CodeWalletAddressTaken       = "WALLET_ADDRESS_TAKEN"
	CodeWalletOwnershipViolation = "WALLET_OWNERSHIP_VIOLATION"
	CodeInvalidRequest           = "INVALID_REQUEST"
	CodeInsufficientFunds        = "INSUFFICIENT_FUNDS"
	CodeUnsuccessfulPost         = "UNSUCCESSFUL_POST"
	CodeRateUnavailable          = "RATE_UNAVAILABLE"
	CodeValidation               = "VALIDATION_ERROR"
	CodeRateLimitExceeded        = "RATE_LIMIT_EXCEEDED"
	CodeInternal                 = "INTERNAL_ERROR"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // not exposed to client
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ---- Identity ----

func ErrInvalidAPIKey(apiKey string) *AppError {
	return New(CodeInvalidAPIKey, fmt.Sprintf("api_key: %s is invalid", apiKey), http.StatusUnauthorized)
}

func ErrInvalidAdminKey() *AppError {
	return New(CodeInvalidAdminKey, "invalid admin key", http.StatusUnauthorized)
}

func ErrEmailAlreadyInUse(email string) *AppError {
	return New(CodeEmailAlreadyInUse, fmt.Sprintf("email: %s already in use", email), http.StatusConflict)
}

// ---- Wallets ----

func ErrWalletLimitReached(limit int) *AppError {
	return New(CodeWalletLimitReached, fmt.Sprintf("can't have more than %d wallets", limit), http.StatusForbidden)
}

func ErrWalletAddressTaken(address string) *AppError {
	return New(CodeWalletAddressTaken, fmt.Sprintf("wallet address %s already taken", address), http.StatusConflict)
}

// ErrWalletNotFoundForUser is returned when an ownership check targets an unknown address.
func ErrWalletNotFoundForUser() *AppError {
	return New(CodeWalletOwnershipViolation, "wallet with that address does not exist", http.StatusForbidden)
}

func ErrWalletNotOwned() *AppError {
	return New(CodeWalletOwnershipViolation, "wallet does not belong to user", http.StatusForbidden)
}

// ---- Transfers ----

func ErrInvalidWalletAddress(address string) *AppError {
	return New(CodeInvalidRequest, fmt.Sprintf("wallet address: %s invalid", address), http.StatusNotFound)
}

func ErrUnknownWalletAddress(address string) *AppError {
	return New(CodeInvalidRequest, fmt.Sprintf("wallet address: %s doesn't exist", address), http.StatusNotFound)
}

func ErrNonPositiveAmount() *AppError {
	return New(CodeInvalidRequest, "amount must be positive", http.StatusNotFound)
}

func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "insufficient funds", http.StatusPaymentRequired)
}

func ErrUnsuccessfulPost(err error) *AppError {
	return Wrap(CodeUnsuccessfulPost, "transaction could not be recorded", http.StatusInternalServerError, err)
}

// ---- Exchange rates ----

func ErrRateUnavailable(err error) *AppError {
	return Wrap(CodeRateUnavailable, "exchange rate unavailable", http.StatusServiceUnavailable, err)
}

// ---- Transport ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// InternalError wraps an unexpected infrastructure error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

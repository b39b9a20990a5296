package dto

import (
	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

// CreateUserRequest is the request body for user registration.
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// CreateUserResponse carries the API key issued to a new user.
type CreateUserResponse struct {
	APIKey string `json:"api_key"`
}

// TransferRequest is the request body for a transfer between wallets.
type TransferRequest struct {
	FromAddress string `json:"from_address" binding:"required,wallet_address"`
	ToAddress   string `json:"to_address" binding:"required,wallet_address"`
	Amount      int64  `json:"amount_in_satoshi" binding:"required,gt=0"`
}

// WalletResponse reports a wallet balance. USDBalance is null when no
// exchange rate could be fetched.
type WalletResponse struct {
	Address        string           `json:"address"`
	SatoshiBalance int64            `json:"satoshi_balance"`
	USDBalance     *decimal.Decimal `json:"usd_balance"`
}

// TransactionResponse is one transfer as seen in a history listing.
type TransactionResponse struct {
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Amount      int64  `json:"amount_in_satoshi"`
}

// TransactionListResponse wraps a transfer history.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// StatisticsResponse is the platform-wide summary.
type StatisticsResponse struct {
	Transactions   int64 `json:"transactions"`
	PlatformProfit int64 `json:"platform_profit_in_satoshi"`
}

// NewWalletResponse converts a facade balance.
func NewWalletResponse(b *ports.WalletBalance) WalletResponse {
	return WalletResponse{
		Address:        b.Address,
		SatoshiBalance: b.SatoshiBalance,
		USDBalance:     b.USDBalance,
	}
}

// NewTransactionListResponse converts history views. An empty history
// encodes as an empty array.
func NewTransactionListResponse(views []domain.TransactionView) TransactionListResponse {
	out := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(views))}
	for _, v := range views {
		out.Transactions = append(out.Transactions, TransactionResponse{
			FromAddress: v.FromAddress,
			ToAddress:   v.ToAddress,
			Amount:      v.Amount,
		})
	}
	return out
}

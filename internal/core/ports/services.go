package ports

import (
	"context"

	"satoshi-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// UserService registers users and resolves API keys to user ids.
type UserService interface {
	CreateUser(ctx context.Context, email string) (*domain.User, error)
	ResolveUser(ctx context.Context, apiKey string) (int64, error)
}

// WalletService creates wallets and answers ownership questions.
type WalletService interface {
	CreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	// WalletID returns nil when address is unknown.
	WalletID(ctx context.Context, address string) (*int64, error)
	Wallet(ctx context.Context, address string) (*domain.Wallet, error)
	UserWallets(ctx context.Context, userID int64) (domain.WalletSet, error)
	// CheckOwnership fails with WALLET_OWNERSHIP_VIOLATION unless walletID is owned by userID.
	CheckOwnership(ctx context.Context, walletID *int64, userID int64) error
}

// CommissionPolicy computes the fee for a transfer.
type CommissionPolicy interface {
	Commission(ctx context.Context, userID, fromID, toID, amount int64) (int64, error)
}

// Authenticator validates the administrator credential.
type Authenticator interface {
	Authenticate(key string) bool
}

// CurrencyConverter converts satoshi to USD.
type CurrencyConverter interface {
	ToUSD(ctx context.Context, satoshi int64) (decimal.Decimal, error)
}

// AuditService records audit entries without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// LedgerService is the settlement facade every transport talks to.
type LedgerService interface {
	CreateUser(ctx context.Context, email string) (*domain.User, error)
	CreateWallet(ctx context.Context, apiKey string) (*WalletBalance, error)
	GetWalletBalance(ctx context.Context, apiKey, address string) (*WalletBalance, error)
	MakeTransaction(ctx context.Context, req TransferRequest) (*TransferResult, error)
	GetTransactions(ctx context.Context, apiKey string) ([]domain.TransactionView, error)
	GetTransactionsForWallet(ctx context.Context, apiKey, address string) ([]domain.TransactionView, error)
	GetStatistics(ctx context.Context, adminKey string) (*domain.Statistics, error)
}

// TransferRequest holds validated input for a transfer.
type TransferRequest struct {
	APIKey      string
	FromAddress string
	ToAddress   string
	Amount      int64
}

// TransferResult is a settled transfer and the user who made it.
type TransferResult struct {
	UserID      int64
	Transaction *domain.Transaction
}

// WalletBalance is a wallet's balance in satoshi and, when a rate was available, USD.
type WalletBalance struct {
	UserID         int64
	Address        string
	SatoshiBalance int64
	USDBalance     *decimal.Decimal
}

package ports

import (
	"context"

	"satoshi-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// UserRepository defines persistence operations for users.
// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	// Create inserts the user and sets its ID. Returns domain.ErrDuplicateKey
	// when the email or API key is already stored.
	Create(ctx context.Context, user *domain.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside the settlement transaction and lock rows.
type WalletRepository interface {
	// Create inserts the wallet and sets its ID. Returns domain.ErrDuplicateKey
	// when the address is already stored.
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)
	ListIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id int64, balance int64) error
}

// TransactionRepository defines persistence operations for transfer records.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	// ListByWalletIDs returns transfers touching any of ids, oldest first.
	ListByWalletIDs(ctx context.Context, ids []int64) ([]domain.TransactionView, error)
	GetStats(ctx context.Context) (*domain.Statistics, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

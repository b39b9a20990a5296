package postgres

import (
	"context"
	"fmt"

	"satoshi-ledger/internal/core/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a transfer record within a transaction and sets its ID.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (from_wallet_id, to_wallet_id, amount, commission, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := tx.QueryRow(ctx, query, t.FromWalletID, t.ToWalletID, t.Amount, t.Commission, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByWalletIDs returns transfers whose sender or receiver is in ids, oldest first.
func (r *TransactionRepo) ListByWalletIDs(ctx context.Context, ids []int64) ([]domain.TransactionView, error) {
	query, args, err := psql.
		Select("fw.address", "tw.address", "t.amount").
		From("transactions t").
		Join("wallets fw ON fw.id = t.from_wallet_id").
		Join("wallets tw ON tw.id = t.to_wallet_id").
		Where(sq.Or{
			sq.Eq{"t.from_wallet_id": ids},
			sq.Eq{"t.to_wallet_id": ids},
		}).
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build transaction list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionView, error) {
		var v domain.TransactionView
		err := row.Scan(&v.FromAddress, &v.ToAddress, &v.Amount)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return views, nil
}

// GetStats returns the number of transfers and the total commission.
func (r *TransactionRepo) GetStats(ctx context.Context) (*domain.Statistics, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(commission), 0) FROM transactions`

	stats := &domain.Statistics{}
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.TransactionCount, &stats.ProfitSatoshi); err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}

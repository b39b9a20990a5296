package postgres

import (
	"context"
	"testing"
	"time"

	"satoshi-ledger/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := &domain.Transaction{FromWalletID: 1, ToWalletID: 2, Amount: 1000, Commission: 15, CreatedAt: time.Now().UTC()}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs(txn.FromWalletID, txn.ToWalletID, txn.Amount, txn.Commission, txn.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(31)))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), dbTx, txn))
	assert.Equal(t, int64(31), txn.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWalletIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery(`SELECT fw.address, tw.address, t.amount FROM transactions t JOIN wallets fw .+ WHERE \(t.from_wallet_id IN \(\$1,\$2\) OR t.to_wallet_id IN \(\$3,\$4\)\) ORDER BY t.id`).
		WithArgs(int64(4), int64(5), int64(4), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"from", "to", "amount"}).
			AddRow("a", "b", int64(100)).
			AddRow("c", "a", int64(7)))

	views, err := repo.ListByWalletIDs(context.Background(), []int64{4, 5})
	require.NoError(t, err)
	assert.Equal(t, []domain.TransactionView{
		{FromAddress: "a", ToAddress: "b", Amount: 100},
		{FromAddress: "c", ToAddress: "a", Amount: 7},
	}, views)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(commission\), 0\) FROM transactions`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(0), int64(0)))

	stats, err := repo.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.Statistics{}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	log := &domain.AuditLog{Action: domain.AuditActionTransfer, ResourceType: "transaction", IPAddress: "10.0.0.1"}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(log.ID, log.UserID, "TRANSFER", "transaction", "", "", "10.0.0.1", log.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), log))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_AndHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectPing()

	tx, err := NewTransactor(mock).Begin(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tx)

	hc := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

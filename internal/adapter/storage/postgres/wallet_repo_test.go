package postgres

import (
	"context"
	"testing"
	"time"

	"satoshi-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet() *domain.Wallet {
	return &domain.Wallet{
		ID:        7,
		Address:   "3f1c",
		UserID:    2,
		Balance:   100_000_000,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "address", "user_id", "balance", "created_at"}).
		AddRow(w.ID, w.Address, w.UserID, w.Balance, w.CreatedAt)
}

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet()
	w.ID = 0

	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(w.Address, w.UserID, w.Balance, w.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(8)))

	require.NoError(t, repo.Create(context.Background(), w))
	assert.Equal(t, int64(8), w.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Create_AddressTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "wallets_address_key"})

	err = repo.Create(context.Background(), newTestWallet())
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestWalletRepo_GetByAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet()

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE address").
		WithArgs(w.Address).
		WillReturnRows(walletRow(w))

	got, err := repo.GetByAddress(context.Background(), w.Address)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, w.Balance, got.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByAddress_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE address").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"id", "address", "user_id", "balance", "created_at"}))

	got, err := repo.GetByAddress(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestWalletRepo_ListIDsByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("SELECT id FROM wallets WHERE user_id").
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)).AddRow(int64(9)))

	ids, err := repo.ListIDsByUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id = .+ FOR UPDATE").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	got, err := repo.GetByIDForUpdate(context.Background(), dbTx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, w.Address, got.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(int64(500), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(int64(500), int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.UpdateBalance(context.Background(), dbTx, 7, 500))
	assert.ErrorContains(t, repo.UpdateBalance(context.Background(), dbTx, 99, 500), "wallet not found: 99")
	assert.NoError(t, mock.ExpectationsWereMet())
}

package memory

import (
	"context"
	"errors"
	"fmt"

	"satoshi-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errNotMemoryTx = errors.New("memory: transaction was not started by this store")

// Transactor implements ports.DBTransactor.
type Transactor struct {
	store *Store
}

// NewTransactor creates a Transactor over store.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// Begin waits until no other transaction is open.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	select {
	case t.store.sem <- struct{}{}:
		return &memTx{store: t.store, balances: make(map[int64]int64)}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("begin transaction: %w", ctx.Err())
	}
}

// memTx buffers its writes and publishes them on Commit, so readers outside
// the transaction never observe uncommitted balances or rows.
type memTx struct {
	store    *Store
	balances map[int64]int64
	pending  []domain.Transaction
	closed   bool
}

func (t *memTx) Commit(_ context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	defer func() { <-t.store.sem }()

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id := range t.balances {
		if _, ok := t.store.wallets[id]; !ok {
			return fmt.Errorf("commit: wallet %d vanished", id)
		}
	}
	for id, balance := range t.balances {
		t.store.wallets[id].Balance = balance
	}
	t.store.transactions = append(t.store.transactions, t.pending...)
	t.balances, t.pending = nil, nil
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.balances, t.pending = nil, nil
	<-t.store.sem
	return nil
}

// active returns tx as a memTx of store that may still be written through.
func active(store *Store, tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != store {
		return nil, errNotMemoryTx
	}
	if mt.closed {
		return nil, pgx.ErrTxClosed
	}
	return mt, nil
}

// The remaining pgx.Tx methods have no meaning without SQL.

func (t *memTx) Begin(_ context.Context) (pgx.Tx, error) { return nil, errors.ErrUnsupported }
func (t *memTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, errors.ErrUnsupported
}
func (t *memTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *memTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, errors.ErrUnsupported
}
func (t *memTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.ErrUnsupported
}
func (t *memTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.ErrUnsupported
}
func (t *memTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return nil }
func (t *memTx) Conn() *pgx.Conn                                        { return nil }

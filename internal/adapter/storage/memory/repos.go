package memory

import (
	"context"
	"fmt"

	"satoshi-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct{ s *Store }

// NewUserRepo creates a UserRepo over store.
func NewUserRepo(store *Store) *UserRepo { return &UserRepo{s: store} }

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.userByEmail[u.Email]; ok {
		return fmt.Errorf("users_email_key: %w", domain.ErrDuplicateKey)
	}
	if _, ok := r.s.userByAPIKey[u.APIKey]; ok {
		return fmt.Errorf("users_api_key_key: %w", domain.ErrDuplicateKey)
	}
	r.s.nextUserID++
	u.ID = r.s.nextUserID
	stored := *u
	r.s.users[u.ID] = &stored
	r.s.userByEmail[u.Email] = u.ID
	r.s.userByAPIKey[u.APIKey] = u.ID
	return nil
}

func (r *UserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.userByEmail[email]
	return ok, nil
}

func (r *UserRepo) GetByAPIKey(_ context.Context, apiKey string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.userByAPIKey[apiKey]
	if !ok {
		return nil, nil
	}
	u := *r.s.users[id]
	return &u, nil
}

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct{ s *Store }

// NewWalletRepo creates a WalletRepo over store.
func NewWalletRepo(store *Store) *WalletRepo { return &WalletRepo{s: store} }

func (r *WalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.walletByAddress[w.Address]; ok {
		return fmt.Errorf("wallets_address_key: %w", domain.ErrDuplicateKey)
	}
	if _, ok := r.s.users[w.UserID]; !ok {
		return fmt.Errorf("user %d does not exist", w.UserID)
	}
	r.s.nextWalletID++
	w.ID = r.s.nextWalletID
	stored := *w
	r.s.wallets[w.ID] = &stored
	r.s.walletByAddress[w.Address] = w.ID
	r.s.walletsByUser[w.UserID] = append(r.s.walletsByUser[w.UserID], w.ID)
	return nil
}

func (r *WalletRepo) GetByAddress(_ context.Context, address string) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.walletByAddress[address]
	if !ok {
		return nil, nil
	}
	w := *r.s.wallets[id]
	return &w, nil
}

func (r *WalletRepo) ListIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]int64{}, r.s.walletsByUser[userID]...), nil
}

// GetByIDForUpdate reads a wallet inside tx, including the balance tx has
// written. The open transaction already excludes every other writer, so no
// row lock is needed.
func (r *WalletRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id int64) (*domain.Wallet, error) {
	mt, err := active(r.s, tx)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	if balance, ok := mt.balances[id]; ok {
		cp.Balance = balance
	}
	return &cp, nil
}

func (r *WalletRepo) UpdateBalance(_ context.Context, tx pgx.Tx, id int64, balance int64) error {
	mt, err := active(r.s, tx)
	if err != nil {
		return err
	}
	if balance < 0 {
		return fmt.Errorf("wallets_balance_non_negative: balance %d for wallet %d", balance, id)
	}
	r.s.mu.RLock()
	_, ok := r.s.wallets[id]
	r.s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("wallet not found: %d", id)
	}
	mt.balances[id] = balance
	return nil
}

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct{ s *Store }

// NewTransactionRepo creates a TransactionRepo over store.
func NewTransactionRepo(store *Store) *TransactionRepo { return &TransactionRepo{s: store} }

func (r *TransactionRepo) Create(_ context.Context, tx pgx.Tx, t *domain.Transaction) error {
	mt, err := active(r.s, tx)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[t.FromWalletID]; !ok {
		return fmt.Errorf("sender wallet %d does not exist", t.FromWalletID)
	}
	if _, ok := r.s.wallets[t.ToWalletID]; !ok {
		return fmt.Errorf("receiver wallet %d does not exist", t.ToWalletID)
	}
	// ids are drawn like a sequence: a rolled back transfer leaves a gap
	r.s.nextTxID++
	t.ID = r.s.nextTxID
	mt.pending = append(mt.pending, *t)
	return nil
}

func (r *TransactionRepo) ListByWalletIDs(_ context.Context, ids []int64) ([]domain.TransactionView, error) {
	set := domain.NewWalletSet(ids)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	views := []domain.TransactionView{}
	for _, t := range r.s.transactions {
		if !set.Contains(t.FromWalletID) && !set.Contains(t.ToWalletID) {
			continue
		}
		views = append(views, domain.TransactionView{
			FromAddress: r.s.wallets[t.FromWalletID].Address,
			ToAddress:   r.s.wallets[t.ToWalletID].Address,
			Amount:      t.Amount,
		})
	}
	return views, nil
}

func (r *TransactionRepo) GetStats(_ context.Context) (*domain.Statistics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stats := &domain.Statistics{TransactionCount: int64(len(r.s.transactions))}
	for _, t := range r.s.transactions {
		stats.ProfitSatoshi += t.Commission
	}
	return stats, nil
}

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct{ s *Store }

// NewAuditRepo creates an AuditRepo over store.
func NewAuditRepo(store *Store) *AuditRepo { return &AuditRepo{s: store} }

func (r *AuditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *log)
	return nil
}

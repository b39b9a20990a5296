// Package memory is a process-local storage driver for development and tests.
// Writes inside a transaction stay private to it until Commit; only one
// transaction is open at a time.
package memory

import (
	"context"
	"sync"

	"satoshi-ledger/internal/core/domain"
)

// Store holds every table of the ledger in memory.
type Store struct {
	mu  sync.RWMutex
	sem chan struct{} // held by the open transaction

	users        map[int64]*domain.User
	userByEmail  map[string]int64
	userByAPIKey map[string]int64

	wallets         map[int64]*domain.Wallet
	walletByAddress map[string]int64
	walletsByUser   map[int64][]int64

	transactions []domain.Transaction
	audit        []domain.AuditLog

	nextUserID   int64
	nextWalletID int64
	nextTxID     int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		sem:             make(chan struct{}, 1),
		users:           make(map[int64]*domain.User),
		userByEmail:     make(map[string]int64),
		userByAPIKey:    make(map[string]int64),
		wallets:         make(map[int64]*domain.Wallet),
		walletByAddress: make(map[string]int64),
		walletsByUser:   make(map[int64][]int64),
	}
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(_ context.Context) error { return nil }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

// AuditLogs returns a copy of the recorded audit entries.
func (s *Store) AuditLogs() []domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuditLog(nil), s.audit...)
}

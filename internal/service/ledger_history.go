package service

import (
	"context"
	"fmt"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/pkg/apperror"
)

// GetTransactions lists every transfer touching any of the caller's wallets.
func (s *LedgerServiceImpl) GetTransactions(ctx context.Context, apiKey string) ([]domain.TransactionView, error) {
	userID, err := s.users.ResolveUser(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	owned, err := s.wallets.UserWallets(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, owned.IDs())
}

// GetTransactionsForWallet lists transfers touching one wallet the caller owns.
func (s *LedgerServiceImpl) GetTransactionsForWallet(ctx context.Context, apiKey, address string) ([]domain.TransactionView, error) {
	userID, err := s.users.ResolveUser(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	walletID, err := s.wallets.WalletID(ctx, address)
	if err != nil {
		return nil, err
	}
	if walletID == nil {
		return nil, apperror.ErrUnknownWalletAddress(address)
	}
	if err := s.wallets.CheckOwnership(ctx, walletID, userID); err != nil {
		return nil, err
	}
	return s.list(ctx, []int64{*walletID})
}

// GetStatistics returns the ledger-wide transfer count and commission total.
func (s *LedgerServiceImpl) GetStatistics(ctx context.Context, adminKey string) (*domain.Statistics, error) {
	if !s.auth.Authenticate(adminKey) {
		return nil, apperror.ErrInvalidAdminKey()
	}
	stats, err := s.txRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get stats: %w", err))
	}
	if stats == nil {
		return &domain.Statistics{}, nil
	}
	return stats, nil
}

func (s *LedgerServiceImpl) list(ctx context.Context, ids []int64) ([]domain.TransactionView, error) {
	if len(ids) == 0 {
		return []domain.TransactionView{}, nil
	}
	views, err := s.txRepo.ListByWalletIDs(ctx, ids)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	if views == nil {
		views = []domain.TransactionView{}
	}
	return views, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// WalletPolicy bounds wallet issuance.
type WalletPolicy struct {
	Limit          int   // wallets per user
	InitialBalance int64 // satoshi granted to a new wallet
}

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	address    AddressFunc
	policy     WalletPolicy
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, address AddressFunc, policy WalletPolicy, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		address:    address,
		policy:     policy,
		log:        log,
	}
}

// CreateWallet issues a new wallet for userID with the initial balance.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	ids, err := s.walletRepo.ListIDsByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	count := len(ids)
	if count >= s.policy.Limit {
		return nil, apperror.ErrWalletLimitReached(s.policy.Limit)
	}

	wallet := &domain.Wallet{
		Address:   s.address(userID, count),
		UserID:    userID,
		Balance:   s.policy.InitialBalance,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, apperror.ErrWalletAddressTaken(wallet.Address)
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Str("address", wallet.Address).Msg("wallet created")
	return wallet, nil
}

// Wallet returns the wallet at address, or nil.
func (s *WalletServiceImpl) Wallet(ctx context.Context, address string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	return wallet, nil
}

// WalletID returns the id of the wallet at address, or nil.
func (s *WalletServiceImpl) WalletID(ctx context.Context, address string) (*int64, error) {
	wallet, err := s.Wallet(ctx, address)
	if err != nil || wallet == nil {
		return nil, err
	}
	return &wallet.ID, nil
}

// UserWallets returns the ids of every wallet userID owns.
func (s *WalletServiceImpl) UserWallets(ctx context.Context, userID int64) (domain.WalletSet, error) {
	ids, err := s.walletRepo.ListIDsByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	return domain.NewWalletSet(ids), nil
}

// CheckOwnership fails unless walletID names a wallet owned by userID.
func (s *WalletServiceImpl) CheckOwnership(ctx context.Context, walletID *int64, userID int64) error {
	if walletID == nil {
		return apperror.ErrWalletNotFoundForUser()
	}
	owned, err := s.UserWallets(ctx, userID)
	if err != nil {
		return err
	}
	if !owned.Contains(*walletID) {
		return apperror.ErrWalletNotOwned()
	}
	return nil
}

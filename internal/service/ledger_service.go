package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/pkg/apperror"
	"satoshi-ledger/pkg/metrics"

	"github.com/rs/zerolog"
)

// TransferCompleted is the outcome message of a settled transfer.
const TransferCompleted = "Transaction completed successfully"

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	users      ports.UserService
	wallets    ports.WalletService
	commission ports.CommissionPolicy
	converter  ports.CurrencyConverter
	auth       ports.Authenticator
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// LedgerDeps groups the collaborators of the settlement facade.
type LedgerDeps struct {
	Users      ports.UserService
	Wallets    ports.WalletService
	Commission ports.CommissionPolicy
	Converter  ports.CurrencyConverter
	Auth       ports.Authenticator
	WalletRepo ports.WalletRepository
	TxRepo     ports.TransactionRepository
	Transactor ports.DBTransactor
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(deps LedgerDeps, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		users:      deps.Users,
		wallets:    deps.Wallets,
		commission: deps.Commission,
		converter:  deps.Converter,
		auth:       deps.Auth,
		walletRepo: deps.WalletRepo,
		txRepo:     deps.TxRepo,
		transactor: deps.Transactor,
		log:        log,
	}
}

// CreateUser registers email and returns the new user with its API key.
func (s *LedgerServiceImpl) CreateUser(ctx context.Context, email string) (*domain.User, error) {
	return s.users.CreateUser(ctx, email)
}

// CreateWallet issues a wallet to the caller. A missing exchange rate leaves
// USDBalance nil rather than failing the already persisted wallet.
func (s *LedgerServiceImpl) CreateWallet(ctx context.Context, apiKey string) (*ports.WalletBalance, error) {
	userID, err := s.users.ResolveUser(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	wallet, err := s.wallets.CreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &ports.WalletBalance{
		UserID:         userID,
		Address:        wallet.Address,
		SatoshiBalance: wallet.Balance,
	}
	usd, err := s.converter.ToUSD(ctx, wallet.Balance)
	if err != nil {
		s.log.Warn().Err(err).Str("address", wallet.Address).Msg("usd conversion unavailable for new wallet")
		return out, nil
	}
	out.USDBalance = &usd
	return out, nil
}

// GetWalletBalance reports the balance of a wallet the caller owns.
func (s *LedgerServiceImpl) GetWalletBalance(ctx context.Context, apiKey, address string) (*ports.WalletBalance, error) {
	userID, err := s.users.ResolveUser(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	wallet, err := s.wallets.Wallet(ctx, address)
	if err != nil {
		return nil, err
	}
	var walletID *int64
	if wallet != nil {
		walletID = &wallet.ID
	}
	if err := s.wallets.CheckOwnership(ctx, walletID, userID); err != nil {
		return nil, err
	}

	usd, err := s.converter.ToUSD(ctx, wallet.Balance)
	if err != nil {
		return nil, apperror.ErrRateUnavailable(err)
	}
	return &ports.WalletBalance{
		UserID:         userID,
		Address:        wallet.Address,
		SatoshiBalance: wallet.Balance,
		USDBalance:     &usd,
	}, nil
}

// MakeTransaction validates and settles a transfer. Checks run in a fixed
// order and the first failure is returned.
func (s *LedgerServiceImpl) MakeTransaction(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	res, err := s.makeTransaction(ctx, req)
	switch {
	case err == nil:
		metrics.RecordTransfer(metrics.OutcomeSettled, res.Transaction.Commission)
	case apperror.HasCode(err, apperror.CodeUnsuccessfulPost), apperror.HasCode(err, apperror.CodeInternal):
		metrics.RecordTransfer(metrics.OutcomeFailed, 0)
	default:
		metrics.RecordTransfer(metrics.OutcomeRejected, 0)
		s.log.Warn().Err(err).Str("from", req.FromAddress).Str("to", req.ToAddress).Msg("transfer rejected")
	}
	return res, err
}

func (s *LedgerServiceImpl) makeTransaction(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	userID, err := s.users.ResolveUser(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}
	fromID, err := s.wallets.WalletID(ctx, req.FromAddress)
	if err != nil {
		return nil, err
	}
	if err := s.wallets.CheckOwnership(ctx, fromID, userID); err != nil {
		return nil, err
	}
	toID, err := s.wallets.WalletID(ctx, req.ToAddress)
	if err != nil {
		return nil, err
	}
	if toID == nil {
		return nil, apperror.ErrInvalidWalletAddress(req.ToAddress)
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrNonPositiveAmount()
	}

	fee, err := s.commission.Commission(ctx, userID, *fromID, *toID, req.Amount)
	if err != nil {
		return nil, err
	}

	txn, err := s.settle(ctx, *fromID, *toID, req.Amount, fee)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("tx_id", txn.ID).
		Str("from", req.FromAddress).
		Str("to", req.ToAddress).
		Int64("amount", txn.Amount).
		Int64("commission", txn.Commission).
		Msg("transfer settled")
	return &ports.TransferResult{UserID: userID, Transaction: txn}, nil
}

// settle records the transfer and moves the balances in one database
// transaction. Both wallets are locked in ascending id order.
func (s *LedgerServiceImpl) settle(ctx context.Context, fromID, toID, amount, fee int64) (*domain.Transaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked := make(map[int64]*domain.Wallet, 2)
	for _, id := range lockOrder(fromID, toID) {
		wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock wallet %d: %w", id, err))
		}
		if wallet == nil {
			return nil, apperror.InternalError(fmt.Errorf("wallet %d vanished", id))
		}
		locked[id] = wallet
	}

	sender := locked[fromID]
	if !sender.CanCover(amount, fee) {
		return nil, apperror.ErrInsufficientFunds()
	}

	txn := &domain.Transaction{
		FromWalletID: fromID,
		ToWalletID:   toID,
		Amount:       amount,
		Commission:   fee,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrUnsuccessfulPost(fmt.Errorf("create transaction: %w", err))
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, fromID, sender.Balance-txn.Debit()); err != nil {
		s.log.Error().Err(err).Int64("wallet_id", fromID).Msg("debit failed, rolling back transfer")
		return nil, apperror.ErrUnsuccessfulPost(fmt.Errorf("debit sender: %w", err))
	}

	// re-read so a transfer to the sending wallet credits the debited balance
	receiver, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, toID)
	if err != nil {
		return nil, apperror.ErrUnsuccessfulPost(fmt.Errorf("reload receiver %d: %w", toID, err))
	}
	if receiver == nil {
		return nil, apperror.ErrUnsuccessfulPost(fmt.Errorf("receiver %d vanished", toID))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, toID, receiver.Balance+amount); err != nil {
		s.log.Error().Err(err).Int64("wallet_id", toID).Msg("credit failed, rolling back transfer")
		return nil, apperror.ErrUnsuccessfulPost(fmt.Errorf("credit receiver: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrUnsuccessfulPost(fmt.Errorf("commit tx: %w", err))
	}
	return txn, nil
}

func lockOrder(a, b int64) []int64 {
	if a == b {
		return []int64{a}
	}
	ids := []int64{a, b}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

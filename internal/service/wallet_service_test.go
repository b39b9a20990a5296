package service

import (
	"context"
	"errors"
	"testing"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports/mocks"
	"satoshi-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupWalletService(t *testing.T) (*WalletServiceImpl, *mocks.MockWalletRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWalletRepository(ctrl)
	svc := NewWalletService(repo, SHA256Address("addr"), WalletPolicy{Limit: 3, InitialBalance: 1000}, zerolog.Nop())
	return svc, repo
}

func TestWalletService_CreateWallet_Success(t *testing.T) {
	svc, repo := setupWalletService(t)
	ctx := context.Background()

	repo.EXPECT().ListIDsByUser(ctx, int64(5)).Return([]int64{10}, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, w *domain.Wallet) error {
		w.ID = 11
		return nil
	})

	wallet, err := svc.CreateWallet(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), wallet.ID)
	assert.Equal(t, int64(5), wallet.UserID)
	assert.Equal(t, int64(1000), wallet.Balance)
	assert.Equal(t, SHA256Address("addr")(5, 1), wallet.Address)
}

func TestWalletService_CreateWallet_LimitReached(t *testing.T) {
	svc, repo := setupWalletService(t)
	ctx := context.Background()

	repo.EXPECT().ListIDsByUser(ctx, int64(5)).Return([]int64{1, 2, 3}, nil)

	_, err := svc.CreateWallet(ctx, 5)
	assert.True(t, apperror.HasCode(err, apperror.CodeWalletLimitReached))
	assert.Contains(t, err.Error(), "can't have more than 3 wallets")
}

func TestWalletService_CreateWallet_AddressTaken(t *testing.T) {
	svc, repo := setupWalletService(t)
	ctx := context.Background()

	repo.EXPECT().ListIDsByUser(ctx, int64(5)).Return(nil, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).Return(domain.ErrDuplicateKey)

	_, err := svc.CreateWallet(ctx, 5)
	assert.True(t, apperror.HasCode(err, apperror.CodeWalletAddressTaken))
}

func TestWalletService_WalletID(t *testing.T) {
	svc, repo := setupWalletService(t)
	ctx := context.Background()

	repo.EXPECT().GetByAddress(ctx, "known").Return(&domain.Wallet{ID: 9}, nil)
	repo.EXPECT().GetByAddress(ctx, "unknown").Return(nil, nil)
	repo.EXPECT().GetByAddress(ctx, "broken").Return(nil, errors.New("timeout"))

	id, err := svc.WalletID(ctx, "known")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(9), *id)

	id, err = svc.WalletID(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = svc.WalletID(ctx, "broken")
	assert.True(t, apperror.HasCode(err, apperror.CodeInternal))
}

func TestWalletService_CheckOwnership(t *testing.T) {
	svc, repo := setupWalletService(t)
	ctx := context.Background()
	owned, foreign := int64(1), int64(7)

	repo.EXPECT().ListIDsByUser(ctx, int64(5)).Return([]int64{1, 2}, nil).Times(2)

	assert.NoError(t, svc.CheckOwnership(ctx, &owned, 5))

	err := svc.CheckOwnership(ctx, &foreign, 5)
	assert.True(t, apperror.HasCode(err, apperror.CodeWalletOwnershipViolation))
	assert.Contains(t, err.Error(), "wallet does not belong to user")

	err = svc.CheckOwnership(ctx, nil, 5)
	assert.True(t, apperror.HasCode(err, apperror.CodeWalletOwnershipViolation))
	assert.Contains(t, err.Error(), "wallet with that address does not exist")
}

package service

import (
	"context"
	"math"

	"satoshi-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// CommissionPolicyImpl charges a percentage on transfers that leave the user's own wallets.
type CommissionPolicyImpl struct {
	wallets ports.WalletService
	percent decimal.Decimal
}

// NewCommissionPolicy creates a policy charging percent (e.g. 1.5).
func NewCommissionPolicy(wallets ports.WalletService, percent decimal.Decimal) *CommissionPolicyImpl {
	return &CommissionPolicyImpl{wallets: wallets, percent: percent}
}

// Commission is 0 when both wallets belong to userID, else ceil(amount * percent / 100).
func (p *CommissionPolicyImpl) Commission(ctx context.Context, userID, fromID, toID, amount int64) (int64, error) {
	owned, err := p.wallets.UserWallets(ctx, userID)
	if err != nil {
		return 0, err
	}
	if owned.Contains(fromID) && owned.Contains(toID) {
		return 0, nil
	}
	return Fee(amount, p.percent), nil
}

// Fee returns ceil(amount * percent / 100) in exact decimal arithmetic,
// clamped to math.MaxInt64. No balance can cover a clamped fee.
func Fee(amount int64, percent decimal.Decimal) int64 {
	fee := decimal.NewFromInt(amount).Mul(percent).Div(hundred).Ceil()
	if fee.GreaterThan(maxInt64) {
		return math.MaxInt64
	}
	return fee.IntPart()
}

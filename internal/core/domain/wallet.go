package domain

import "time"

// SatoshiPerBTC is the number of satoshi in one bitcoin.
const SatoshiPerBTC int64 = 100_000_000

// Wallet is a custodial balance holder owned by exactly one user.
type Wallet struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"` // satoshi
	CreatedAt time.Time `json:"created_at"`
}

// CanCover reports whether the wallet can pay amount plus fee. The sum is
// never formed, so amounts near math.MaxInt64 cannot wrap past the check.
func (w *Wallet) CanCover(amount, fee int64) bool {
	if amount < 0 || fee < 0 {
		return false
	}
	return w.Balance >= amount && w.Balance-amount >= fee
}

// WalletSet is the set of wallet ids owned by one user.
type WalletSet map[int64]struct{}

// NewWalletSet builds a set from ids.
func NewWalletSet(ids []int64) WalletSet {
	s := make(WalletSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s WalletSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in no particular order.
func (s WalletSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

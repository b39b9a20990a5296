package domain

import "time"

// Transaction is an append-only record of an accepted transfer.
type Transaction struct {
	ID           int64     `json:"id"`
	FromWalletID int64     `json:"from_wallet_id"`
	ToWalletID   int64     `json:"to_wallet_id"`
	Amount       int64     `json:"amount"`     // satoshi credited to the receiver
	Commission   int64     `json:"commission"` // satoshi burned on top of Amount
	CreatedAt    time.Time `json:"created_at"`
}

// Debit is the total taken from the sender.
func (t *Transaction) Debit() int64 {
	return t.Amount + t.Commission
}

// TransactionView is a transaction as shown to its participants.
type TransactionView struct {
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Amount      int64  `json:"amount_in_satoshi"`
}

// Statistics aggregates the whole ledger.
type Statistics struct {
	TransactionCount int64 `json:"transactions"`
	ProfitSatoshi    int64 `json:"platform_profit_in_satoshi"`
}

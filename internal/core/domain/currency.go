package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a BTC/USD price observed at a provider.
type Quote struct {
	Provider string          `json:"provider"`
	Price    decimal.Decimal `json:"price"` // USD per BTC
	At       time.Time       `json:"at"`
}

// SatoshiToUSD converts satoshi at price, rounded half-to-even to cents.
func SatoshiToUSD(satoshi int64, price decimal.Decimal) decimal.Decimal {
	btc := decimal.New(satoshi, 0).Div(decimal.New(SatoshiPerBTC, 0))
	return price.Mul(btc).RoundBank(2)
}

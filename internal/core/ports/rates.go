package ports

import (
	"context"
	"time"

	"satoshi-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=rates.go -destination=mocks/mock_rates.go -package=mocks

// RateProvider is one upstream BTC/USD price source.
type RateProvider interface {
	HealthChecker
	Quote(ctx context.Context) (*domain.Quote, error)
}

// RateSource yields a usable BTC/USD quote, whichever provider answers.
type RateSource interface {
	Quote(ctx context.Context) (*domain.Quote, error)
}

// QuoteCache keeps the last known price for a short while.
// Get returns (zero, false, nil) on a miss.
type QuoteCache interface {
	Get(ctx context.Context, pair string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, pair string, price decimal.Decimal, ttl time.Duration) error
}

package service

import (
	"context"
	"fmt"
	"time"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// PairBTCUSD is the cache key for the BTC/USD price.
const PairBTCUSD = "BTCUSD"

// quoteTimeout bounds one shared provider lookup, fallbacks included.
const quoteTimeout = 15 * time.Second

// USDConverter implements ports.CurrencyConverter over a RateSource.
type USDConverter struct {
	source ports.RateSource
	cache  ports.QuoteCache // optional
	ttl    time.Duration
	group  singleflight.Group
	log    zerolog.Logger
}

// NewUSDConverter creates a converter. cache may be nil.
func NewUSDConverter(source ports.RateSource, cache ports.QuoteCache, ttl time.Duration, log zerolog.Logger) *USDConverter {
	return &USDConverter{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

// ToUSD converts satoshi at the current BTC/USD price, rounded to cents.
func (c *USDConverter) ToUSD(ctx context.Context, satoshi int64) (decimal.Decimal, error) {
	price, err := c.price(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.SatoshiToUSD(satoshi, price), nil
}

func (c *USDConverter) price(ctx context.Context) (decimal.Decimal, error) {
	if c.cache != nil {
		price, ok, err := c.cache.Get(ctx, PairBTCUSD)
		if err != nil {
			c.log.Warn().Err(err).Msg("quote cache read failed")
		}
		if ok {
			return price, nil
		}
	}

	// the lookup is shared by every waiter, so it must outlive the caller
	// that started it
	ch := c.group.DoChan(PairBTCUSD, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), quoteTimeout)
		defer cancel()

		quote, err := c.source.Quote(fetchCtx)
		if err != nil {
			return nil, fmt.Errorf("fetch quote: %w", err)
		}
		if c.cache != nil && c.ttl > 0 {
			if err := c.cache.Set(fetchCtx, PairBTCUSD, quote.Price, c.ttl); err != nil {
				c.log.Warn().Err(err).Msg("quote cache write failed")
			}
		}
		return quote.Price, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
}

package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// QuoteCache implements ports.QuoteCache inside the process. It is used
// when Redis is disabled.
type QuoteCache struct {
	c *gocache.Cache
}

// NewQuoteCache creates a cache whose expired entries are swept every cleanup.
func NewQuoteCache(cleanup time.Duration) *QuoteCache {
	return &QuoteCache{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (q *QuoteCache) Get(_ context.Context, pair string) (decimal.Decimal, bool, error) {
	v, ok := q.c.Get(pair)
	if !ok {
		return decimal.Zero, false, nil
	}
	return v.(decimal.Decimal), true, nil
}

func (q *QuoteCache) Set(_ context.Context, pair string, price decimal.Decimal, ttl time.Duration) error {
	q.c.Set(pair, price, ttl)
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// QuoteCache implements ports.QuoteCache using Redis. Prices are stored as
// decimal strings so no precision is lost between replicas.
type QuoteCache struct {
	client *goredis.Client
	prefix string
}

// NewQuoteCache creates a new Redis-backed quote cache.
func NewQuoteCache(client *goredis.Client) *QuoteCache {
	return &QuoteCache{
		client: client,
		prefix: "quote:",
	}
}

func (c *QuoteCache) Get(ctx context.Context, pair string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+pair).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("redis quote get: %w", err)
	}
	price, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis quote %s: %w", pair, err)
	}
	return price, true, nil
}

func (c *QuoteCache) Set(ctx context.Context, pair string, price decimal.Decimal, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+pair, price.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis quote set: %w", err)
	}
	return nil
}

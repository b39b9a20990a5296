package redis

import (
	"context"
	"fmt"
	"time"

	"satoshi-ledger/config"
	"satoshi-ledger/internal/adapter/storage/memory"
	"satoshi-ledger/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Msg("Redis connection established")

	return client, nil
}

// Backends are the stores that must be shared between API instances.
type Backends struct {
	QuoteCache     ports.QuoteCache
	RateLimitStore ports.RateLimitStore
	Health         ports.HealthChecker // nil for process-local stores
	Close          func() error
}

// Open connects to Redis when cfg.Enabled. Otherwise the quote cache and
// rate limiter are process-local, which is only correct for a single instance.
func Open(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*Backends, error) {
	if !cfg.Enabled {
		log.Warn().Msg("Redis disabled, quote cache and rate limits are per process")
		return &Backends{
			QuoteCache:     memory.NewQuoteCache(time.Minute),
			RateLimitStore: memory.NewRateLimitStore(),
			Close:          func() error { return nil },
		}, nil
	}

	client, err := NewClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Backends{
		QuoteCache:     NewQuoteCache(client),
		RateLimitStore: NewRateLimitStore(client),
		Health:         NewHealthCheck(client),
		Close:          client.Close,
	}, nil
}

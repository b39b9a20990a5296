package redis

import (
	"context"
	"strconv"
	"testing"

	"satoshi-ledger/config"
	"satoshi-ledger/internal/adapter/storage/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisConfig(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.RedisConfig{Host: mr.Host(), Port: port}
}

func TestNewClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), redisConfig(t, mr), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	hc := NewHealthCheck(client)
	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)
	mr.Close()

	_, err := NewClient(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpen_Enabled(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)
	cfg.Enabled = true

	b, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &QuoteCache{}, b.QuoteCache)
	assert.IsType(t, &RateLimitStore{}, b.RateLimitStore)
	require.NotNil(t, b.Health)
	assert.NoError(t, b.Health.Ping(context.Background()))
}

func TestOpen_DisabledFallsBackToMemory(t *testing.T) {
	b, err := Open(context.Background(), config.RedisConfig{Enabled: false}, zerolog.Nop())
	require.NoError(t, err)

	assert.IsType(t, &memory.QuoteCache{}, b.QuoteCache)
	assert.IsType(t, &memory.RateLimitStore{}, b.RateLimitStore)
	assert.Nil(t, b.Health)
	assert.NoError(t, b.Close())
}

func TestOpen_EnabledButUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)
	cfg.Enabled = true
	mr.Close()

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUSDConverter_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	cache := mocks.NewMockQuoteCache(ctrl)
	conv := NewUSDConverter(source, cache, time.Minute, zerolog.Nop())
	ctx := context.Background()

	cache.EXPECT().Get(ctx, PairBTCUSD).Return(decimal.NewFromInt(30000), true, nil)

	usd, err := conv.ToUSD(ctx, 50_000_000)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15000).Equal(usd))
}

func TestUSDConverter_CacheMissFetchesAndStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	cache := mocks.NewMockQuoteCache(ctrl)
	conv := NewUSDConverter(source, cache, time.Minute, zerolog.Nop())
	ctx := context.Background()
	price := decimal.RequireFromString("64000.5")

	cache.EXPECT().Get(ctx, PairBTCUSD).Return(decimal.Zero, false, nil)
	source.EXPECT().Quote(gomock.Any()).Return(&domain.Quote{Provider: "kraken", Price: price}, nil)
	cache.EXPECT().Set(gomock.Any(), PairBTCUSD, price, time.Minute).Return(nil)

	usd, err := conv.ToUSD(ctx, 100_000_000)
	require.NoError(t, err)
	assert.True(t, price.Equal(usd))
}

func TestUSDConverter_CacheErrorsAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	cache := mocks.NewMockQuoteCache(ctrl)
	conv := NewUSDConverter(source, cache, time.Minute, zerolog.Nop())
	ctx := context.Background()

	cache.EXPECT().Get(ctx, PairBTCUSD).Return(decimal.Zero, false, errors.New("redis down"))
	source.EXPECT().Quote(gomock.Any()).Return(&domain.Quote{Price: decimal.NewFromInt(100)}, nil)
	cache.EXPECT().Set(gomock.Any(), PairBTCUSD, gomock.Any(), time.Minute).Return(errors.New("redis down"))

	usd, err := conv.ToUSD(ctx, 100_000_000)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(usd))
}

func TestUSDConverter_SourceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	conv := NewUSDConverter(source, nil, 0, zerolog.Nop())
	ctx := context.Background()

	source.EXPECT().Quote(gomock.Any()).Return(nil, errors.New("all providers down"))

	_, err := conv.ToUSD(ctx, 1)
	assert.ErrorContains(t, err, "all providers down")
}

type countingSource struct {
	calls atomic.Int32
	gate  chan struct{}
}

func (s *countingSource) Quote(ctx context.Context) (*domain.Quote, error) {
	s.calls.Add(1)
	select {
	case <-s.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &domain.Quote{Price: decimal.NewFromInt(20000)}, nil
}

func TestUSDConverter_CoalescesConcurrentMisses(t *testing.T) {
	source := &countingSource{gate: make(chan struct{})}
	conv := NewUSDConverter(source, nil, 0, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			usd, err := conv.ToUSD(context.Background(), 100_000_000)
			assert.NoError(t, err)
			assert.True(t, decimal.NewFromInt(20000).Equal(usd))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(source.gate)
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
}

func TestUSDConverter_CancelledCallerDoesNotFailOthers(t *testing.T) {
	source := &countingSource{gate: make(chan struct{})}
	conv := NewUSDConverter(source, nil, 0, zerolog.Nop())

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := conv.ToUSD(first, 1)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	secondDone := make(chan error, 1)
	go func() {
		usd, err := conv.ToUSD(context.Background(), 100_000_000)
		if err == nil && !decimal.NewFromInt(20000).Equal(usd) {
			err = errors.New("unexpected amount " + usd.String())
		}
		secondDone <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(source.gate)
	assert.NoError(t, <-secondDone)
	assert.Equal(t, int32(1), source.calls.Load())
}

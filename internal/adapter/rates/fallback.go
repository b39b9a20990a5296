package rates

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"satoshi-ledger/config"
	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/pkg/metrics"

	"github.com/rs/zerolog"
)

// ErrNoProvider is returned when every provider failed.
var ErrNoProvider = errors.New("no exchange rate provider available")

// Fallback implements ports.RateSource by asking providers in order. A
// provider answers only if its status check passes.
type Fallback struct {
	providers []ports.RateProvider
	log       zerolog.Logger
}

// NewFallback creates a Fallback over providers, tried in the given order.
func NewFallback(log zerolog.Logger, providers ...ports.RateProvider) *Fallback {
	return &Fallback{providers: providers, log: log}
}

// Providers returns the configured providers, e.g. for health checks.
func (f *Fallback) Providers() []ports.RateProvider {
	return f.providers
}

func (f *Fallback) Quote(ctx context.Context) (*domain.Quote, error) {
	var errs []error
	for _, p := range f.providers {
		q, err := f.try(ctx, p)
		if err == nil {
			metrics.RecordRateLookup(p.Name(), true)
			return q, nil
		}
		metrics.RecordRateLookup(p.Name(), false)
		f.log.Warn().Err(err).Str("provider", p.Name()).Msg("rate provider failed, trying next")
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrNoProvider, errors.Join(errs...))
}

func (f *Fallback) try(ctx context.Context, p ports.RateProvider) (*domain.Quote, error) {
	if err := p.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	q, err := p.Quote(ctx)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	return q, nil
}

// NewFromConfig builds the providers named in cfg.Providers.
func NewFromConfig(cfg config.RatesConfig, log zerolog.Logger) (*Fallback, error) {
	opts := Options{
		Client:            &http.Client{Timeout: cfg.Timeout},
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
	providers := make([]ports.RateProvider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch name {
		case "bitfinex":
			providers = append(providers, NewBitfinex(opts))
		case "kraken":
			providers = append(providers, NewKraken(opts))
		default:
			return nil, fmt.Errorf("unknown rate provider %q", name)
		}
	}
	if len(providers) == 0 {
		return nil, errors.New("no rate providers configured")
	}
	return NewFallback(log, providers...), nil
}

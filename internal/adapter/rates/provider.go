// Package rates fetches BTC/USD prices from public exchange APIs.
package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"satoshi-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const maxBody = 1 << 20

// ErrProviderDown is returned by Ping when the exchange reports maintenance.
var ErrProviderDown = errors.New("provider reports it is not operational")

// Options tune a provider. Zero values fall back to the public endpoints.
type Options struct {
	Client            *http.Client
	RequestsPerSecond float64 // 0 disables throttling
	TickerURL         string
	StatusURL         string
}

// HTTPProvider implements ports.RateProvider for an exchange with a JSON
// ticker endpoint and a JSON status endpoint.
type HTTPProvider struct {
	name      string
	tickerURL string
	statusURL string
	pricePath string
	up        func(gjson.Result) bool
	client    *http.Client
	limiter   *rate.Limiter
}

func newHTTPProvider(name, tickerURL, statusURL, pricePath string, up func(gjson.Result) bool, opts Options) *HTTPProvider {
	p := &HTTPProvider{
		name:      name,
		tickerURL: tickerURL,
		statusURL: statusURL,
		pricePath: pricePath,
		up:        up,
		client:    opts.Client,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	if opts.TickerURL != "" {
		p.tickerURL = opts.TickerURL
	}
	if opts.StatusURL != "" {
		p.statusURL = opts.StatusURL
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: 5 * time.Second}
	}
	if opts.RequestsPerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return p
}

// NewBitfinex reads the bid of tBTCUSD. The platform status is 1 when up.
func NewBitfinex(opts Options) *HTTPProvider {
	return newHTTPProvider(
		"bitfinex",
		"https://api.bitfinex.com/v2/ticker/tBTCUSD",
		"https://api-pub.bitfinex.com/v2/platform/status",
		"0",
		func(r gjson.Result) bool { return r.Get("0").Int() == 1 },
		opts,
	)
}

// NewKraken reads the last trade price of XBT/USD.
func NewKraken(opts Options) *HTTPProvider {
	return newHTTPProvider(
		"kraken",
		"https://api.kraken.com/0/public/Ticker?pair=XBTUSD",
		"https://api.kraken.com/0/public/SystemStatus",
		"result.XXBTZUSD.c.0",
		func(r gjson.Result) bool { return r.Get("result.status").String() == "online" },
		opts,
	)
}

func (p *HTTPProvider) Name() string { return p.name }

// Ping asks the exchange whether it is operational.
func (p *HTTPProvider) Ping(ctx context.Context) error {
	body, err := p.get(ctx, p.statusURL)
	if err != nil {
		return err
	}
	if !p.up(body) {
		return fmt.Errorf("%s: %w", p.name, ErrProviderDown)
	}
	return nil
}

// Quote fetches the current BTC/USD price.
func (p *HTTPProvider) Quote(ctx context.Context) (*domain.Quote, error) {
	body, err := p.get(ctx, p.tickerURL)
	if err != nil {
		return nil, err
	}
	field := body.Get(p.pricePath)
	if !field.Exists() {
		return nil, fmt.Errorf("%s ticker: no price at %q", p.name, p.pricePath)
	}
	// Kraken quotes prices as strings, Bitfinex as numbers.
	price, err := decimal.NewFromString(field.String())
	if err != nil {
		return nil, fmt.Errorf("%s ticker: %w", p.name, err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%s ticker: non-positive price %s", p.name, price)
	}
	return &domain.Quote{Provider: p.name, Price: price, At: time.Now().UTC()}, nil
}

func (p *HTTPProvider) get(ctx context.Context, url string) (gjson.Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, fmt.Errorf("%s: throttled: %w", p.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: build request: %w", p.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%s: unexpected status %d", p.name, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: read body: %w", p.name, err)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("%s: malformed json", p.name)
	}
	return gjson.ParseBytes(raw), nil
}

package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"satoshi-ledger/internal/core/ports"

	"golang.org/x/time/rate"
)

// RateLimitStore implements ports.RateLimitStore with one token bucket per
// key. A bucket holds limit tokens and refills limit tokens per window.
type RateLimitStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

// NewRateLimitStore creates an empty in-process limiter.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

func (s *RateLimitStore) Allow(_ context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	every := rate.Every(window / time.Duration(max(limit, 1)))

	s.mu.Lock()
	lim, ok := s.limiters[key]
	if !ok {
		lim = rate.NewLimiter(every, int(limit))
		s.limiters[key] = lim
	}
	s.mu.Unlock()

	now := s.now()
	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)

	wait := time.Duration(0)
	if tokens < 1 {
		wait = time.Duration((1 - tokens) / float64(every) * float64(time.Second))
	}
	return &ports.RateLimitResult{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: int64(math.Max(math.Floor(tokens), 0)),
		ResetAt:   now.Add(wait).Unix(),
	}, nil
}

package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// ErrLimitExceeded is returned by Allow when the key has used up its budget.
var ErrLimitExceeded = errors.New("rate limit exceeded")

const (
	defaultMaxKeys = 10_000
	defaultIdleTTL = 5 * time.Minute
)

// Limiter is a keyed token bucket. Idle keys are dropped after a few minutes.
type Limiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	disabled bool
}

// New returns a limiter allowing requestsPerMin events per key per minute.
// A non-positive value disables limiting.
func New(requestsPerMin int) *Limiter {
	if requestsPerMin <= 0 {
		return &Limiter{disabled: true}
	}

	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](defaultMaxKeys, nil, defaultIdleTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
	}
}

// Allow consumes one event for key.
func (l *Limiter) Allow(key string) error {
	if l.disabled {
		return nil
	}

	l.mu.Lock()
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters.Add(key, limiter)
	}
	l.mu.Unlock()

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrLimitExceeded, key)
	}
	return nil
}

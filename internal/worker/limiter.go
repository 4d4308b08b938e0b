package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedLimiter applies a token-bucket rate limit per key. The extractor uses
// one bucket per LLM provider so claim decomposition cannot hammer an API
// during large batch runs.
type KeyedLimiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewKeyedLimiter creates a limiter with the given default rate and burst
func NewKeyedLimiter(requestsPerSecond float64, burst int) *KeyedLimiter {
	if burst <= 0 {
		burst = 1
	}

	return &KeyedLimiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the key's bucket permits a request or ctx is done
func (l *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow reports whether a request is permitted without waiting
func (l *KeyedLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// SetRate sets a custom rate limit for a specific key
func (l *KeyedLimiter) SetRate(key string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[key] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[key] = limiter

	return limiter
}

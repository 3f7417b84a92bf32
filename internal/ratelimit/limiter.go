// Package ratelimit provides a keyed token-bucket limiter used to throttle
// login attempts per client address.
package ratelimit

import (
	"sync"
	"time"

	"grimm.is/ifctl/internal/clock"
)

// Limiter manages rate limiting for multiple keys.
type Limiter struct {
	buckets map[string]*bucket
	mu      sync.Mutex
}

type bucket struct {
	tokens   int
	limit    int
	interval time.Duration
	lastFill time.Time
	mu       sync.Mutex
}

// NewLimiter creates a new rate limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether a request for key is within limit requests per
// interval. The first call for a key creates its bucket.
func (l *Limiter) Allow(key string, limit int, interval time.Duration) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			tokens:   limit,
			limit:    limit,
			interval: interval,
			lastFill: clock.Now(),
		}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.take()
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := clock.Now()
	if now.Sub(b.lastFill) >= b.interval {
		b.tokens = b.limit
		b.lastFill = now
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Reset clears the rate limit state for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// CleanupExpired removes buckets that have not been touched within maxAge.
func (l *Limiter) CleanupExpired(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := clock.Now()
	for key, b := range l.buckets {
		b.mu.Lock()
		stale := now.Sub(b.lastFill) > maxAge
		b.mu.Unlock()
		if stale {
			delete(l.buckets, key)
		}
	}
}

// StartCleanup evicts stale buckets on the given interval until stop is
// closed.
func (l *Limiter) StartCleanup(interval, maxAge time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.CleanupExpired(maxAge)
			case <-stop:
				return
			}
		}
	}()
}

package ratelimit

import (
	"sync"
	"time"

	"github.com/orgball2608/social-feed/pkg/config"
	"golang.org/x/time/rate"
)

// Limiter decides whether a caller, identified by key, may trigger another scrape.
type Limiter interface {
	Allow(key string) bool
}

// InMemoryLimiter keeps one token bucket per key.
type InMemoryLimiter struct {
	keys map[string]*entry
	mu   sync.Mutex
	r    rate.Limit
	b    int
	// Buckets untouched for idleTTL are dropped on the next sweep.
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewInMemoryLimiter allows requests per window with the given burst for each key.
// Example: NewInMemoryLimiter(6, time.Minute, 3) -> one trigger every 10s, burst of 3.
// A non-positive requests value disables limiting.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	r := rate.Inf
	if requests > 0 && per > 0 {
		r = rate.Every(per / time.Duration(requests))
	}
	if burst < 1 {
		burst = 1
	}
	ttl := per * 2
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return &InMemoryLimiter{
		keys:    make(map[string]*entry),
		r:       r,
		b:       burst,
		idleTTL: ttl,
		now:     time.Now,
	}
}

// NewFromConfig builds the scrape-trigger limiter from the HTTP settings.
func NewFromConfig(cfg *config.Config) Limiter {
	return NewInMemoryLimiter(cfg.HTTP.RateRequests, cfg.HTTP.RateWindow, cfg.HTTP.RateBurst)
}

func (l *InMemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, exists := l.keys[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.keys[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

func (l *InMemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for k, e := range l.keys {
		if now.Sub(e.lastSeen) >= l.idleTTL {
			delete(l.keys, k)
		}
	}
	l.lastSweep = now
}

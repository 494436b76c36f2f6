package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles outward calls per provider so a burst of searches cannot
// exhaust a third-party plan. Providers without an explicit limit fall back
// to the defaults.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	Burst             int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

func New(cfg Config) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: cfg,
	}
}

func (l *Limiter) limiter(name string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[name]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok = l.limiters[name]; ok {
		return lim
	}
	lim = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.Burst)
	l.limiters[name] = lim
	return lim
}

// SetLimit overrides the limit for one provider.
func (l *Limiter) SetLimit(name string, rps float64, burst int) {
	l.mu.Lock()
	l.limiters[name] = rate.NewLimiter(rate.Limit(rps), burst)
	l.mu.Unlock()
}

// Wait blocks until the provider's limiter grants a slot or ctx ends.
func (l *Limiter) Wait(ctx context.Context, name string) error {
	return l.limiter(name).Wait(ctx)
}

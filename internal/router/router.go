package router

import (
	"errors"
	"fmt"
	"sync"

	"flightnum-service/internal/providers"
)

// ErrUnknownProvider means the active identity has no registered adapter.
// That is a configuration error, never expected in normal operation.
var ErrUnknownProvider = errors.New("unknown provider")

// Router owns the process-wide active provider identity and dispatches
// searches to the matching adapter.
type Router struct {
	mu       sync.RWMutex
	active   providers.Identity
	adapters map[providers.Identity]providers.Provider
}

func New(active providers.Identity, adapters ...providers.Provider) *Router {
	m := make(map[providers.Identity]providers.Provider, len(adapters))
	for _, a := range adapters {
		m[a.Name()] = a
	}
	return &Router{active: active, adapters: m}
}

func (r *Router) Current() providers.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *Router) SetProvider(id providers.Identity) {
	r.mu.Lock()
	r.active = id
	r.mu.Unlock()
}

// Adapter returns the adapter for the currently active identity.
func (r *Router) Adapter() (providers.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[r.active]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, r.active)
	}
	return a, nil
}

// RunAs runs fn with the active identity temporarily overridden, restoring
// the previous identity on every exit path. This is what the no-credential
// demo fallback uses: the override must not leak into searches that follow.
func (r *Router) RunAs(id providers.Identity, fn func() error) error {
	prev := r.Current()
	r.SetProvider(id)
	defer r.SetProvider(prev)
	return fn()
}

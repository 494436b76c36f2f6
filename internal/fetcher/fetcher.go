package fetcher

import (
	"context"
	"time"

	"flightnum-service/internal/cache"
	"flightnum-service/internal/models"
	"flightnum-service/internal/providers"
	"flightnum-service/internal/ratelimit"
	"flightnum-service/internal/router"
	"flightnum-service/pkg/logger"
	"flightnum-service/pkg/metrics"
)

// Fetcher is the single entry point for flight lookups: result cache in
// front, provider router behind.
type Fetcher struct {
	router  *router.Router
	cache   cache.Cache
	limiter *ratelimit.Limiter
	log     logger.Logger
	metrics *metrics.Metrics
}

func New(r *router.Router, c cache.Cache, l *ratelimit.Limiter, log logger.Logger, m *metrics.Metrics) *Fetcher {
	return &Fetcher{
		router:  r,
		cache:   c,
		limiter: l,
		log:     log,
		metrics: m,
	}
}

// FetchFlights returns flights for the given criteria via the active
// provider, serving from cache when a fresh entry exists. The bool reports a
// cache hit. Cache faults never fail a search; they degrade to a direct
// fetch. Empty result sets are returned but not cached.
func (f *Fetcher) FetchFlights(ctx context.Context, criteria models.SearchCriteria) ([]models.FlightResult, bool, error) {
	f.metrics.SearchesTotal.Inc()

	provider := f.router.Current()
	key := cache.Key(provider, criteria)

	if cached, ok := f.cache.Get(ctx, key); ok {
		f.metrics.CacheHits.Inc()
		f.log.Debug("cache hit", "key", key)
		return cached, true, nil
	}

	adapter, err := f.router.Adapter()
	if err != nil {
		return nil, false, err
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, string(provider)); err != nil {
			return nil, false, err
		}
	}

	start := time.Now()
	flights, err := adapter.Search(ctx, criteria)
	f.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		f.metrics.ProviderErrors.WithLabelValues(string(provider)).Inc()
		return nil, false, providers.NewProviderError(provider, err)
	}

	if len(flights) > 0 {
		if err := f.cache.Set(ctx, key, flights); err != nil {
			f.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return flights, false, nil
}

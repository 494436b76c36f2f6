package fetcher

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"flightnum-service/internal/cache"
	"flightnum-service/internal/models"
	"flightnum-service/internal/providers"
	"flightnum-service/internal/router"
	"flightnum-service/pkg/logger"
	"flightnum-service/pkg/metrics"
)

// stubProvider registers under the demo identity so the router can dispatch
// to it without any adapter changes.
type stubProvider struct {
	calls   int32
	flights []models.FlightResult
	err     error
}

func (p *stubProvider) Name() providers.Identity { return providers.Demo }

func (p *stubProvider) Search(ctx context.Context, c models.SearchCriteria) ([]models.FlightResult, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.flights, p.err
}

type failingCache struct {
	cache.NoOpCache
}

func (c *failingCache) Set(ctx context.Context, key string, flights []models.FlightResult) error {
	return errors.New("backend down")
}

func newTestFetcher(p providers.Provider, c cache.Cache) *Fetcher {
	rt := router.New(providers.Demo, p)
	m := metrics.NewWith(prometheus.NewRegistry(), "test")
	return New(rt, c, nil, logger.NewNop(), m)
}

var testCriteria = models.SearchCriteria{Date: "2024-01-02", Airline: "KE", Origin: "ICN", Destination: "NRT"}

func TestFetchCachesResults(t *testing.T) {
	stub := &stubProvider{flights: []models.FlightResult{{FlightNumber: "KE701"}}}
	f := newTestFetcher(stub, cache.NewMemoryCache(time.Hour))
	ctx := context.Background()

	first, hit, err := f.FetchFlights(ctx, testCriteria)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if hit {
		t.Error("first fetch must not be a cache hit")
	}

	second, hit, err := f.FetchFlights(ctx, testCriteria)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !hit {
		t.Error("second fetch must hit the cache")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached results differ: %v vs %v", first, second)
	}
	if got := atomic.LoadInt32(&stub.calls); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
}

func TestFetchRefetchesPastTheWindow(t *testing.T) {
	stub := &stubProvider{flights: []models.FlightResult{{FlightNumber: "KE701"}}}
	f := newTestFetcher(stub, cache.NewMemoryCache(time.Millisecond))
	ctx := context.Background()

	if _, _, err := f.FetchFlights(ctx, testCriteria); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, hit, err := f.FetchFlights(ctx, testCriteria)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hit {
		t.Error("stale entry must not be served")
	}
	if got := atomic.LoadInt32(&stub.calls); got != 2 {
		t.Errorf("provider called %d times, want 2", got)
	}
}

func TestFetchDoesNotCacheEmptyResults(t *testing.T) {
	stub := &stubProvider{}
	f := newTestFetcher(stub, cache.NewMemoryCache(time.Hour))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		flights, hit, err := f.FetchFlights(ctx, testCriteria)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if hit {
			t.Errorf("fetch %d: empty results must never hit the cache", i)
		}
		if len(flights) != 0 {
			t.Errorf("fetch %d: got %v", i, flights)
		}
	}
	if got := atomic.LoadInt32(&stub.calls); got != 2 {
		t.Errorf("provider called %d times, want 2", got)
	}
}

func TestFetchSurvivesCacheWriteFailure(t *testing.T) {
	stub := &stubProvider{flights: []models.FlightResult{{FlightNumber: "KE701"}}}
	f := newTestFetcher(stub, &failingCache{})

	flights, hit, err := f.FetchFlights(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if hit || len(flights) != 1 {
		t.Errorf("hit=%v flights=%v", hit, flights)
	}
}

func TestFetchWrapsProviderErrors(t *testing.T) {
	sentinel := errors.New("upstream exploded")
	stub := &stubProvider{err: sentinel}
	f := newTestFetcher(stub, cache.NewMemoryCache(time.Hour))

	_, _, err := f.FetchFlights(context.Background(), testCriteria)

	var perr *providers.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Provider != providers.Demo {
		t.Errorf("provider = %s, want demo", perr.Provider)
	}
	if !errors.Is(err, sentinel) {
		t.Error("wrapped error must unwrap to the adapter's error")
	}
}

func TestFetchUnknownProvider(t *testing.T) {
	rt := router.New(providers.Custom) // nothing registered
	m := metrics.NewWith(prometheus.NewRegistry(), "test")
	f := New(rt, cache.NewNoOpCache(), nil, logger.NewNop(), m)

	_, _, err := f.FetchFlights(context.Background(), testCriteria)
	if !errors.Is(err, router.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

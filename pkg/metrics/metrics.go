package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the search path.
type Metrics struct {
	SearchesTotal  prometheus.Counter
	CacheHits      prometheus.Counter
	SearchDuration prometheus.Histogram
	ProviderErrors *prometheus.CounterVec
}

// New registers the metrics on the default registerer.
func New(namespace string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, namespace)
}

// NewWith registers the metrics on an explicit registerer, which tests use to
// avoid duplicate registration.
func NewWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of flight searches",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "The total number of searches served from cache",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_search_duration_seconds",
			Help:      "Time spent in provider searches",
			Buckets:   prometheus.DefBuckets,
		}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "The total number of provider failures",
		}, []string{"provider"}),
	}
}

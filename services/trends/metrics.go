package trends

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Metric names reported by /trends/metrics.
const (
	MetricCacheHits       = "cache_hits"
	MetricCacheMisses     = "cache_misses"
	MetricRetries         = "retries"
	MetricRateLimitHits   = "rate_limit_hits"
	MetricFallbacks       = "fallbacks"
	MetricRegionalQueries = "regional_queries"
	MetricRegionalSuccess = "regional_success"
)

var metricNames = []string{
	MetricCacheHits, MetricCacheMisses, MetricRetries, MetricRateLimitHits,
	MetricFallbacks, MetricRegionalQueries, MetricRegionalSuccess,
}

var metricHelp = map[string]string{
	MetricCacheHits:       "Historical series served from the cache",
	MetricCacheMisses:     "Historical lookups not found in the cache or expired",
	MetricRetries:         "Failed upstream trend attempts",
	MetricRateLimitHits:   "Upstream attempts rejected by rate limiting",
	MetricFallbacks:       "Lookups answered with generated demo data",
	MetricRegionalQueries: "Region-qualified upstream queries",
	MetricRegionalSuccess: "Region-qualified queries that returned data",
}

// Metrics counts cache and upstream behaviour of the historical source on
// its own Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
	handler  http.Handler
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	counters := make(map[string]prometheus.Counter, len(metricNames))
	for _, name := range metricNames {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "twoknow",
			Subsystem: "trends",
			Name:      name + "_total",
			Help:      metricHelp[name],
		})
		registry.MustRegister(c)
		counters[name] = c
	}
	return &Metrics{
		registry: registry,
		counters: counters,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
}

// Inc increments the named counter. Unknown names are ignored.
func (m *Metrics) Inc(name string) {
	if c, ok := m.counters[name]; ok {
		c.Inc()
	}
}

// Snapshot returns the current counter values keyed by metric name.
func (m *Metrics) Snapshot() map[string]int {
	out := make(map[string]int, len(m.counters))
	for name, c := range m.counters {
		var metric dto.Metric
		if err := c.Write(&metric); err != nil {
			continue
		}
		out[name] = int(metric.GetCounter().GetValue())
	}
	return out
}

// Registry exposes the counters for scraping.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler { return m.handler }

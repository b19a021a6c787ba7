package providers

import (
	"signin/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	ObserveSyncDuration(duration time.Duration)
	IncSignIns(result string)
	IncSyncOutcomes(outcome string)
	SetRecordsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	syncDuration        prometheus.Histogram
	signInsTotal        *prometheus.CounterVec
	syncOutcomesTotal   *prometheus.CounterVec
	recordsTotal        prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveSyncDuration(duration time.Duration) {
	m.syncDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSignIns(result string) {
	m.signInsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncSyncOutcomes(outcome string) {
	m.syncOutcomesTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) SetRecordsTotal(count int) {
	m.recordsTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "signin_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signin_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "signin_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "signin_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "signin_persistence_duration_seconds",
			Help:    "Duration of local record store writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		syncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "signin_sync_duration_seconds",
			Help:    "Duration of remote forwarding attempts in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		signInsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "signin_signins_total",
			Help: "Sign-in attempts by result",
		}, []string{"result"}),

		syncOutcomesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "signin_sync_outcomes_total",
			Help: "Remote forwarding attempts by outcome",
		}, []string{"outcome"}),

		recordsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "signin_records_total",
			Help: "Number of sign-in records held in the local store",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) ObserveSyncDuration(_ time.Duration)              {}
func (n *noopMetrics) IncSignIns(_ string)                              {}
func (n *noopMetrics) IncSyncOutcomes(_ string)                         {}
func (n *noopMetrics) SetRecordsTotal(_ int)                            {}

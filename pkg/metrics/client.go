package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records request, refresh and cache activity for the SDK.
// A nil receiver or unregistered metric is a no-op so wiring stays optional.
type ClientMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestOutcome  *prometheus.CounterVec
	tokenRefresh    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	rollbacks       *prometheus.CounterVec
}

// NewClientMetrics registers the SDK metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_request_duration_seconds",
		Help:    "Duration of backend requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	requestOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_request_total",
		Help: "Backend requests by endpoint group and outcome.",
	}, []string{"endpoint", "outcome"})
	tokenRefresh := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_token_refresh_total",
		Help: "Access-token refresh attempts by outcome.",
	}, []string{"outcome"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_query_cache_total",
		Help: "Product query cache lookups by result.",
	}, []string{"result"})
	rollbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_optimistic_rollback_total",
		Help: "Optimistic cart mutations rolled back after a failed request.",
	}, []string{"operation"})
	reg.MustRegister(requestDuration, requestOutcome, tokenRefresh, cacheLookups, rollbacks)
	return &ClientMetrics{
		requestDuration: requestDuration,
		requestOutcome:  requestOutcome,
		tokenRefresh:    tokenRefresh,
		cacheLookups:    cacheLookups,
		rollbacks:       rollbacks,
	}
}

// ObserveRequest records the duration and outcome of one backend request.
func (m *ClientMetrics) ObserveRequest(endpoint, outcome string, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	m.requestOutcome.WithLabelValues(endpoint, normalizeLabel(outcome)).Inc()
}

// IncTokenRefresh counts a refresh attempt by outcome (success/failure).
func (m *ClientMetrics) IncTokenRefresh(outcome string) {
	if m == nil || m.tokenRefresh == nil {
		return
	}
	m.tokenRefresh.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCacheLookup counts a query cache lookup (hit/stale/miss).
func (m *ClientMetrics) IncCacheLookup(result string) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	m.cacheLookups.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncRollback counts an optimistic mutation restored after failure.
func (m *ClientMetrics) IncRollback(operation string) {
	if m == nil || m.rollbacks == nil {
		return
	}
	m.rollbacks.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

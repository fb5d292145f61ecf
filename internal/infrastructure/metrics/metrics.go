package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aura_gateway"

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
	fallbacks             *prometheus.CounterVec
	auraCandidateFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Responses built from fallback data, by component.",
		}, []string{"component"}),
		auraCandidateFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aura_candidate_failures_total",
			Help:      "Failed AURA endpoint attempts by base URL.",
		}, []string{"base_url"}),
	}
	if reg != nil {
		reg.MustRegister(m.httpRequests, m.httpDuration, m.fallbacks, m.auraCandidateFailures)
	}
	return m
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordFallback counts a fallback taken by a component.
func (m *Metrics) RecordFallback(component string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(component).Inc()
}

// RecordAuraCandidateFailure counts a failed AURA endpoint attempt.
func (m *Metrics) RecordAuraCandidateFailure(baseURL string) {
	if m == nil {
		return
	}
	m.auraCandidateFailures.WithLabelValues(baseURL).Inc()
}

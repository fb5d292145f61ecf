package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("/action", "POST", 200, 15*time.Millisecond)
	m.ObserveHTTP("/action", "POST", 200, 5*time.Millisecond)
	m.ObserveHTTP("/action", "POST", 400, time.Millisecond)
	m.RecordFallback("swap")
	m.RecordAuraCandidateFailure("https://aura.adex.network")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.httpRequests.WithLabelValues("/action", "POST", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("/action", "POST", "400")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.fallbacks.WithLabelValues("swap")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.auraCandidateFailures.WithLabelValues("https://aura.adex.network")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("/healthz", "GET", 200, time.Millisecond)
		m.RecordFallback("fees")
		m.RecordAuraCandidateFailure("x")
	})
}

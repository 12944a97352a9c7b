package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records gateway query counts, failures and latency per operation.
type Metrics struct {
	queries  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates gateway metrics registered on reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdelays_queries_total",
			Help: "Dataset queries executed, by operation",
		}, []string{"op"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdelays_query_failures_total",
			Help: "Dataset queries that failed and were contained, by operation",
		}, []string{"op"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flightdelays_query_duration_seconds",
			Help:    "Dataset query latency, by operation",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"op"}),
	}
}

func (m *Metrics) observe(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(op).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(op).Inc()
	}
}

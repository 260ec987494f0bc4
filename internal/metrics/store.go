package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "proof_store",
		Name:      "operations_total",
		Help:      "Count of proof store operations.",
	}, []string{"operation", "backend", "status"})
	storeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "proof_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of proof store operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "backend", "status"})
)

// Store tracks metrics for proof store operations.
type Store struct {
	backend string
}

// NewStore constructs a Store collector for the given backend (file, sqlite, clickhouse).
func NewStore(backend string) *Store {
	return &Store{backend: labelOrUnknown(backend)}
}

// Observe records a store operation outcome and duration.
func (m Store) Observe(operation string, err error, started time.Time) {
	s := status(err)
	storeRequestsTotal.WithLabelValues(operation, m.backend, s).Inc()
	storeRequestDuration.WithLabelValues(operation, m.backend, s).Observe(time.Since(started).Seconds())
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	explorerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_explorer",
		Name:      "operations_total",
		Help:      "Count of block explorer lookups.",
	}, []string{"operation", "backend", "status"})
	explorerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "block_explorer",
		Name:      "operation_duration_seconds",
		Help:      "Duration of block explorer lookups.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "backend", "status"})
)

// Explorer tracks metrics for block explorer lookups (Esplora REST or node RPC).
type Explorer struct {
	backend string
}

// NewExplorer constructs a metrics collector for the given explorer backend.
func NewExplorer(backend string) *Explorer {
	return &Explorer{backend: labelOrUnknown(backend)}
}

// Observe records a single lookup outcome and duration.
func (m Explorer) Observe(operation string, err error, started time.Time) {
	s := status(err)
	explorerRequestsTotal.WithLabelValues(operation, m.backend, s).Inc()
	explorerRequestDuration.WithLabelValues(operation, m.backend, s).Observe(time.Since(started).Seconds())
}

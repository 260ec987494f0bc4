package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sweepTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "sweeps_total",
		Help:      "Count of reconciliation sweeps.",
	}, []string{"status"})

	sweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "sweep_duration_seconds",
		Help:      "Duration of reconciliation sweeps.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	sweepProofsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "proofs_total",
		Help:      "Count of pending proofs examined by outcome.",
	}, []string{"outcome"})

	lastSweepTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "last_sweep_timestamp_seconds",
		Help:      "Unix time of the last completed sweep.",
	})
)

// Proof outcomes within a sweep.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeUpgraded  = "upgraded"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
	OutcomeDegraded  = "degraded"
)

// Reconciler tracks metrics for the reconciliation scheduler.
type Reconciler struct{}

// NewReconciler constructs a Reconciler collector.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// ObserveSweep records a sweep outcome and duration.
func (Reconciler) ObserveSweep(err error, started time.Time) {
	s := status(err)
	sweepTotal.WithLabelValues(s).Inc()
	sweepDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
	if err == nil {
		lastSweepTimestamp.SetToCurrentTime()
	}
}

// ObserveProof records the outcome of one pending proof.
func (Reconciler) ObserveProof(outcome string) {
	sweepProofsTotal.WithLabelValues(outcome).Inc()
}

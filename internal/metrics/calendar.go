package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calendar request outcomes.
const (
	CalendarUpgraded  = "upgraded"
	CalendarUnchanged = "unchanged"
	CalendarNotFound  = "not_found"
	CalendarError     = "error"
)

var (
	calendarRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "calendar_client",
		Name:      "requests_total",
		Help:      "Count of calendar upgrade requests by outcome.",
	}, []string{"calendar", "status"})
	calendarRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "calendar_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of calendar upgrade requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"calendar", "status"})
)

// Calendar tracks metrics for OpenTimestamps calendar requests.
type Calendar struct{}

// NewCalendar constructs a Calendar collector.
func NewCalendar() *Calendar {
	return &Calendar{}
}

// ObserveRequest records one calendar request. outcome is one of the Calendar* constants.
func (Calendar) ObserveRequest(calendar, outcome string, started time.Time) {
	calendar = labelOrUnknown(calendar)
	calendarRequestsTotal.WithLabelValues(calendar, outcome).Inc()
	calendarRequestDuration.WithLabelValues(calendar, outcome).Observe(time.Since(started).Seconds())
}

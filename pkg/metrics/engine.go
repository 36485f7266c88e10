package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records attribution and revenue engine activity.
type EngineMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
	skipped  *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_operation_duration_seconds",
		Help:    "Duration of attribution and revenue operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_operation_failure",
		Help: "Failed attribution and revenue operations.",
	}, []string{"operation"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_line_items_skipped",
		Help: "Line items dropped during resolution.",
	}, []string{"reason"})
	reg.MustRegister(duration, failure, skipped)
	return &EngineMetrics{
		duration: duration,
		failure:  failure,
		skipped:  skipped,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *EngineMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncFailure increments the failure counter for the named operation.
func (m *EngineMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncSkipped counts a dropped line item.
func (m *EngineMetrics) IncSkipped(reason string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(reason)).Inc()
}

// Track observes the elapsed time since start and counts a failure when err
// is non-nil. Meant for defer.
func (m *EngineMetrics) Track(operation string, start time.Time, err *error) {
	m.ObserveDuration(operation, time.Since(start))
	if err != nil && *err != nil {
		m.IncFailure(operation)
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

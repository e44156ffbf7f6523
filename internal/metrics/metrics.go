// Package metrics records tracing activity as Prometheus collectors.
//
// A nil *Recorder is valid and records nothing, so adapters can run with
// metrics disabled without branching at every call site.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Trace outcomes used as the "outcome" label.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Recorder owns the collectors of one process.
type Recorder struct {
	traces          *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	shapes          *prometheus.CounterVec
	storageFailures prometheus.Counter
}

// New creates the collectors and registers them with reg.
// It panics if a collector with the same name is already registered.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motif_traces_total",
				Help: "Total number of tracing calls by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "motif_trace_duration_seconds",
				Help:    "Duration of tracing calls",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"strategy"},
		),
		shapes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motif_shapes_total",
				Help: "Total number of emitted paths by group",
			},
			[]string{"group"},
		),
		storageFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "motif_storage_failures_total",
				Help: "Total number of SVG store failures",
			},
		),
	}
	reg.MustRegister(r.traces, r.duration, r.shapes, r.storageFailures)
	return r
}

// ObserveTrace records one tracing call. strategy is empty for calls that
// failed before a strategy was selected.
func (r *Recorder) ObserveTrace(strategy, outcome string, elapsed time.Duration, badges, banners int) {
	if r == nil {
		return
	}
	if strategy == "" {
		strategy = "none"
	}
	r.traces.WithLabelValues(strategy, outcome).Inc()
	r.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	if badges > 0 {
		r.shapes.WithLabelValues("badges").Add(float64(badges))
	}
	if banners > 0 {
		r.shapes.WithLabelValues("banners").Add(float64(banners))
	}
}

// StorageFailure records a failed store operation.
func (r *Recorder) StorageFailure() {
	if r == nil {
		return
	}
	r.storageFailures.Inc()
}

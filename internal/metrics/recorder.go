// Package metrics records batch run metrics and exports them in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import "time"

// Outcome labels for run counters.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Recorder defines observability hooks for batch runs. All methods must be
// safe to call on a NoopRecorder.
type Recorder interface {
	ObserveStep(mode, step string, items int, d time.Duration, success bool)
	ObserveRun(mode, outcome string, items int, d time.Duration)
	// Flush persists collected metrics, if the recorder has a destination.
	Flush() error
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStep(string, string, int, time.Duration, bool) {}
func (NoopRecorder) ObserveRun(string, string, int, time.Duration)        {}
func (NoopRecorder) Flush() error                                         { return nil }

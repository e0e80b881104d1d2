// Package metrics defines the observability hooks for site builds and
// the preview server, with a no-op default and a Prometheus-backed
// implementation.
package metrics

import "time"

// Outcome enumerates build result categories for counters.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines observability hooks for builds. All methods must be
// cheap and safe for concurrent use; the NoopRecorder allows optional
// injection.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	IncBuildOutcome(outcome Outcome)
	SetPagesBuilt(n int)
	IncPreviewRebuild(trigger string) // trigger: watch|schedule|initial
}

// NoopRecorder is a Recorder that does nothing (default when metrics are
// not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(Outcome)                    {}
func (NoopRecorder) SetPagesBuilt(int)                          {}
func (NoopRecorder) IncPreviewRebuild(string)                   {}

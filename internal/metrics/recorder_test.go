package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.ObserveStageDuration("render", time.Millisecond)
	r.IncBuildOutcome(OutcomeSuccess)
	r.SetPagesBuilt(12)
	r.IncPreviewRebuild("watch")
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveBuildDuration(2 * time.Second)
	pr.ObserveStageDuration("render", 150*time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome(OutcomeFailed)
	pr.SetPagesBuilt(7)
	pr.IncPreviewRebuild("watch")

	assert.Equal(t, float64(2), testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pr.buildOutcome.WithLabelValues("failed")))
	assert.Equal(t, float64(7), testutil.ToFloat64(pr.pagesBuilt))
	assert.Equal(t, float64(1), testutil.ToFloat64(pr.previewRebuild.WithLabelValues("watch")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["docsmith_build_duration_seconds"])
	assert.True(t, names["docsmith_stage_duration_seconds"])
}

func TestPrometheusRecorderNilRegistry(t *testing.T) {
	// A nil registry must not panic; metrics land in a private registry.
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(OutcomeCanceled)
}

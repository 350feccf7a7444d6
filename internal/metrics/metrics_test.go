package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-slaprint/internal/metrics"
	"github.com/askiada/go-slaprint/pkg/pipeline"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

func TestCollector(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	require.NoError(t, c.New())

	step := &model.StepInfo{Type: model.ObjectStepType, Name: "slice", ObjectID: "cube"}
	require.NoError(t, c.OnStepStart(step))
	require.NoError(t, c.OnStepDone(step, 20*time.Millisecond))
	require.NoError(t, c.OnStepDone(step, 30*time.Millisecond))
	require.NoError(t, c.Finish(nil))
	require.NoError(t, c.Finish(pipeline.ErrCanceled))
	require.NoError(t, c.Finish(errors.Wrap(pipeline.ErrCanceled, "slice")))
	require.NoError(t, c.Finish(errors.New("boom")))

	expected := `
# HELP slaprint_runs_total Total number of processing runs by outcome
# TYPE slaprint_runs_total counter
slaprint_runs_total{outcome="canceled"} 2
slaprint_runs_total{outcome="done"} 1
slaprint_runs_total{outcome="failed"} 1
# HELP slaprint_steps_total Total number of completed processing steps
# TYPE slaprint_steps_total counter
slaprint_steps_total{step="slice"} 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "slaprint_runs_total", "slaprint_steps_total")
	require.NoError(t, err)
	n, err := testutil.GatherAndCount(reg, "slaprint_step_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollectorRegisterTwice(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.NewCollector(reg).New())
	require.Error(t, metrics.NewCollector(reg).New())
}

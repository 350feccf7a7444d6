package drawer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-slaprint/pkg/pipeline"
	"github.com/askiada/go-slaprint/pkg/pipeline/drawer"
	"github.com/askiada/go-slaprint/pkg/pipeline/measure"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

func chain(t *testing.T, names ...string) graph.Graph[string, string] {
	t.Helper()
	g := graph.New(graph.StringHash, graph.Directed())
	for _, n := range names {
		require.NoError(t, g.AddVertex(n))
	}
	for i := 1; i < len(names); i++ {
		require.NoError(t, g.AddEdge(names[i-1], names[i]))
	}
	return g
}

func TestDOTDrawer(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := drawer.NewDOTDrawer(&buf)
	require.NoError(t, d.AddStep("slice"))
	require.NoError(t, d.AddStep("slice"))
	require.NoError(t, d.AddStep("rasterize"))
	require.NoError(t, d.AddLink("slice", "rasterize"))
	require.NoError(t, d.SetStatus("slice", drawer.StatusDone))
	require.Error(t, d.SetStatus("slice", "unknown"))
	require.Error(t, d.SetStatus("missing", drawer.StatusDone))
	require.NoError(t, d.Draw())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "strict digraph {"))
	assert.Contains(t, out, `"slice" -> "rasterize"`)
	assert.Contains(t, out, `fillcolor="#2ea043"`)
}

func TestDOTDrawerStable(t *testing.T) {
	t.Parallel()
	draw := func() string {
		var buf bytes.Buffer
		opt := drawer.PipelineDrawer(drawer.NewDOTDrawer(&buf), nil, chain(t, "a", "b", "c", "d"))
		require.NoError(t, opt.New())
		require.NoError(t, opt.Finish(nil))
		return buf.String()
	}
	assert.Equal(t, draw(), draw())
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	msr := measure.NewDefaultMeasure()
	msr.AddMetric("slice").AddDuration("cube", time.Millisecond)
	msr.AddMetric("rasterize").AddDuration("", 3*time.Millisecond)

	opt := drawer.PipelineDrawer(drawer.NewDOTDrawer(&buf), msr, chain(t, "slice", "rasterize", "validate"))
	require.NoError(t, opt.New())
	slice := &model.StepInfo{Name: "slice", ObjectID: "cube"}
	raster := &model.StepInfo{Name: "rasterize"}
	require.NoError(t, opt.OnStepStart(slice))
	require.NoError(t, opt.OnStepDone(slice, time.Millisecond))
	require.NoError(t, opt.OnStepStart(raster))
	require.NoError(t, opt.Finish(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, `"slice" -> "rasterize"`)
	assert.Contains(t, out, `"rasterize" -> "validate"`)
	// done, failed and pending
	assert.Contains(t, out, `fillcolor="#2ea043"`)
	assert.Contains(t, out, `fillcolor="#dc143c"`)
	assert.Contains(t, out, `fillcolor="#c8c8c8"`)
	assert.Contains(t, out, "3ms")
	// slowest step is red, fastest is blue
	assert.Contains(t, out, `color="#f00000"`)
	assert.Contains(t, out, `color="#0000f0"`)
}

func TestPipelineDrawerUnfinishedSteps(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		runErr  error
		want    string
		notWant string
	}{
		"canceled": {runErr: pipeline.ErrCanceled, want: `fillcolor="#4682b4"`, notWant: `fillcolor="#dc143c"`},
		"wrapped canceled": {
			runErr:  errors.Wrap(pipeline.ErrCanceled, "unable to run step slice"),
			want:    `fillcolor="#4682b4"`,
			notWant: `fillcolor="#dc143c"`,
		},
		"failed": {runErr: errors.New("boom"), want: `fillcolor="#dc143c"`, notWant: `fillcolor="#4682b4"`},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			opt := drawer.PipelineDrawer(drawer.NewDOTDrawer(&buf), nil, chain(t, "slice", "rasterize"))
			require.NoError(t, opt.New())
			require.NoError(t, opt.OnStepStart(&model.StepInfo{Name: "slice", ObjectID: "cube"}))
			require.NoError(t, opt.Finish(tc.runErr))

			out := buf.String()
			assert.Contains(t, out, tc.want)
			assert.NotContains(t, out, tc.notWant)
		})
	}
}

func TestDOTDrawerGraphAttribute(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := drawer.NewDOTDrawer(&buf, drawer.GraphAttribute("rankdir", "LR"))
	require.NoError(t, d.AddStep("slice"))
	require.NoError(t, d.Draw())
	assert.Contains(t, buf.String(), `rankdir="LR";`)
}

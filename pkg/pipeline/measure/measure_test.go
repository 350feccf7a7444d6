package measure_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-slaprint/pkg/pipeline/measure"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

func TestDefaultMetric(t *testing.T) {
	t.Parallel()
	m := measure.NewDefaultMeasure()
	mt := m.AddMetric("slice")
	assert.Same(t, mt, m.AddMetric("slice"))
	assert.Equal(t, time.Duration(0), mt.AVGDuration())

	mt.AddDuration("a", 2*time.Millisecond)
	mt.AddDuration("b", 4*time.Millisecond)
	mt.AddDuration("a", 6*time.Millisecond)

	assert.Equal(t, int64(3), mt.Count())
	assert.Equal(t, 4*time.Millisecond, mt.AVGDuration())
	objects := mt.AllObjects()
	require.Len(t, objects, 2)
	assert.Equal(t, 8*time.Millisecond, objects["a"].Elapsed)
	assert.Equal(t, 4*time.Millisecond, objects["b"].Elapsed)
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()
	m := measure.NewDefaultMeasure()
	opt := measure.PipelineMeasure(m)
	require.NoError(t, opt.New())

	slice := &model.StepInfo{Type: model.ObjectStepType, Name: "slice", ObjectID: "cube"}
	raster := &model.StepInfo{Type: model.PrintStepType, Name: "rasterize"}
	require.NoError(t, opt.OnStepStart(slice))
	require.NoError(t, opt.OnStepDone(slice, time.Millisecond))
	require.NoError(t, opt.OnStepStart(raster))
	require.NoError(t, opt.Finish(errors.New("boom")))

	all := m.AllMetrics()
	require.Contains(t, all, "slice")
	require.Contains(t, all, "rasterize")
	assert.Equal(t, int64(1), all["slice"].Count())
	assert.Equal(t, int64(0), all["rasterize"].Count())
	assert.Equal(t, int64(1), all[measure.RunStep].Count())
	assert.Contains(t, all["slice"].AllObjects(), "cube")

	// a run without any started step is not recorded
	require.NoError(t, opt.Finish(nil))
	assert.Equal(t, int64(1), m.GetMetric(measure.RunStep).Count())
}

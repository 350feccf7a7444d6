package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepTable(t *testing.T) {
	t.Parallel()

	tbl := newStepTable[ObjectStep](objectStepCount)
	assert.Equal(t, StepPending, tbl.get(StepSlice))

	// done only follows a start
	tbl.done(StepSlice)
	assert.Equal(t, StepPending, tbl.get(StepSlice))

	require.True(t, tbl.start(StepSlice))
	assert.Equal(t, StepStarted, tbl.get(StepSlice))
	// a started step may start again after an interrupted run
	require.True(t, tbl.start(StepSlice))
	tbl.done(StepSlice)
	assert.Equal(t, StepDone, tbl.get(StepSlice))
	assert.False(t, tbl.start(StepSlice))

	tbl.setMask(StepBasePool, false)
	assert.False(t, tbl.enabled(StepBasePool))
	assert.False(t, tbl.start(StepBasePool))
	assert.Equal(t, StepPending, tbl.get(StepBasePool))

	tbl.reset(StepSlice)
	assert.Equal(t, StepPending, tbl.get(StepSlice))
	require.True(t, tbl.start(StepSupportTree))
	tbl.resetAll()
	assert.Equal(t, StepPending, tbl.get(StepSupportTree))
	// masks survive a reset
	assert.False(t, tbl.enabled(StepBasePool))
}

func TestStepGraph(t *testing.T) {
	t.Parallel()

	g, err := StepGraph()
	require.NoError(t, err)
	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, objectStepCount+printStepCount, order)

	_, err = g.Edge("slice-supports", "rasterize")
	require.NoError(t, err)
	_, err = g.Edge("rasterize", "slice")
	require.Error(t, err)

	_, props, err := g.VertexWithProperties("support-tree")
	require.NoError(t, err)
	assert.Equal(t, "Generating support tree", props.Attributes["label"])
	assert.Equal(t, "object", props.Attributes["kind"])
}

func TestDependents(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		step string
		want []string
	}{
		"first object step": {
			step: "slice",
			want: []string{"slice", "support-islands", "support-points", "support-tree", "base-pool", "slice-supports", "rasterize", "validate"},
		},
		"support tree": {
			step: "support-tree",
			want: []string{"support-tree", "base-pool", "slice-supports", "rasterize", "validate"},
		},
		"print step": {
			step: "rasterize",
			want: []string{"rasterize", "validate"},
		},
		"last step": {
			step: "validate",
			want: []string{"validate"},
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := dependents(tc.step)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, got)
		})
	}

	_, err := dependents("missing")
	require.Error(t, err)
}

func TestStepNames(t *testing.T) {
	t.Parallel()

	for _, s := range ObjectSteps {
		got, ok := objectStepByName(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
		assert.NotEmpty(t, s.Label())
	}
	for _, s := range PrintSteps {
		got, ok := printStepByName(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := objectStepByName("rasterize")
	assert.False(t, ok)
	assert.Equal(t, "object-step(9)", ObjectStep(9).String())
	assert.Equal(t, "print-step(-1)", PrintStep(-1).String())
	assert.Equal(t, "started", StepStarted.String())
}

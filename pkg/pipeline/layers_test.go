package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/geometry"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

func square(cx, cy, side float64) geometry.ExPolygons {
	h := side / 2
	return geometry.ExPolygons{{Contour: geometry.Rect(cx-h, cy-h, cx+h, cy+h)}}
}

func slicedObject(id string, layerHeight float64, slices, supports int, instances ...Instance) *PrintObject {
	obj := &PrintObject{
		source:      &model.ModelObject{ID: id},
		steps:       newStepTable[ObjectStep](objectStepCount),
		layerHeight: layerHeight,
		instances:   instances,
	}
	for range slices {
		obj.modelSlices = append(obj.modelSlices, square(0, 0, 10))
	}
	if supports > 0 {
		obj.support = &SupportData{}
		for range supports {
			obj.support.Slices = append(obj.support.Slices, square(0, 0, 1))
		}
	}
	return obj
}

func TestLevelKey(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a, b float64
		same bool
	}{
		"accumulated rounding": {a: 0.1 + 0.2, b: 0.3, same: true},
		"below resolution":     {a: 1.5, b: 1.5 + 0.4*HeightResolution, same: true},
		"above resolution":     {a: 1.5, b: 1.5 + 2*HeightResolution, same: false},
		"layer apart":          {a: 0.5, b: 0.55, same: false},
		"sum versus product": {
			a:    0.5 + 7*0.05,
			b:    0.5 + 0.05 + 0.05 + 0.05 + 0.05 + 0.05 + 0.05 + 0.05,
			same: true,
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.same, LevelKey(tc.a) == LevelKey(tc.b))
		})
	}
}

func TestAggregateCompleteness(t *testing.T) {
	t.Parallel()

	inst := []Instance{{ID: "0"}, {ID: "1", Shift: vec.Vec2{X: 12}}}
	objects := []*PrintObject{
		slicedObject("a", 1, 10, 4, inst...),
		slicedObject("b", 1, 7, 0, inst[0]),
		slicedObject("c", 0.5, 19, 8, inst[1]),
	}
	levels := Aggregate(objects, 0.5)

	// 10+4 + 7 + 19+8
	assert.Equal(t, 48, levels.Contributions())
	assert.Equal(t, 19, levels.Len())

	keys := levels.Keys()
	require.Len(t, keys, 19)
	assert.True(t, slicesSorted(keys))
	assert.Equal(t, LevelKey(0.5), keys[0])
	assert.Equal(t, LevelKey(9.5), keys[18])

	first := levels.Level(keys[0])
	require.Len(t, first.Contributions, 5)
	var supports int
	for _, c := range first.Contributions {
		if c.Support {
			supports++
		}
	}
	assert.Equal(t, 2, supports)
	assert.InDelta(t, 0.5, first.Height(), 1e-9)

	// 1.0 only exists for the object sliced every 0.5mm
	second := levels.Level(keys[1])
	require.Len(t, second.Contributions, 2)
	assert.Equal(t, "c", second.Contributions[0].ObjectID)
	assert.Equal(t, inst[1:], second.Contributions[0].Instances)
	assert.Nil(t, levels.Level(LevelKey(100)))
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	levels := Aggregate(nil, 0.5)
	assert.Equal(t, 0, levels.Len())
	assert.Empty(t, levels.Keys())
	assert.Equal(t, 0, levels.Contributions())
}

func slicesSorted(keys []int64) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			return false
		}
	}
	return true
}

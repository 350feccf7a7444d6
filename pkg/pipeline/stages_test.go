package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceHeights(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		height, initial, layerHeight float64
		want                         []float64
	}{
		"below one layer":          {height: 0.8, initial: 0.5, layerHeight: 1, want: []float64{0.5}},
		"below the initial height": {height: 0.3, initial: 0.5, layerHeight: 1, want: []float64{0.5}},
		"last sample on the top":   {height: 2.5, initial: 0.5, layerHeight: 1, want: []float64{0.5, 1.5}},
		"box": {
			height: 10, initial: 0.5, layerHeight: 1,
			want: []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5, 9.5},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.InDeltaSlice(t, tc.want, sliceHeights(tc.height, tc.initial, tc.layerHeight), 1e-9)
		})
	}
}

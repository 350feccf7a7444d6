package pipeline

import (
	"math"
	"slices"

	"github.com/askiada/go-slaprint/pkg/geometry"
)

// HeightResolution is the size, in mm, of one level key unit.
const HeightResolution = 1e-6

// LevelKey quantizes a physical height. Heights which only differ by floating point
// noise map to the same key.
func LevelKey(h float64) int64 {
	return int64(math.Round(h / HeightResolution))
}

// Contribution is one polygon set drawn at every instance of its object.
type Contribution struct {
	ObjectID string
	Support  bool
	Slice    geometry.ExPolygons
	// Instances is shared with the object; it must not be modified.
	Instances []Instance
}

// Level gathers the contributions of every object at one height.
type Level struct {
	Key           int64
	Contributions []Contribution
}

// Height returns the physical height of the level.
func (l *Level) Height() float64 {
	return float64(l.Key) * HeightResolution
}

// Levels are the contributions of a print bucketed by level key.
type Levels struct {
	byKey map[int64]*Level
}

func newLevels() *Levels {
	return &Levels{byKey: make(map[int64]*Level)}
}

func (l *Levels) add(h float64, c Contribution) {
	key := LevelKey(h)
	lvl, ok := l.byKey[key]
	if !ok {
		lvl = &Level{Key: key}
		l.byKey[key] = lvl
	}
	lvl.Contributions = append(lvl.Contributions, c)
}

// Keys returns the level keys in increasing order.
func (l *Levels) Keys() []int64 {
	keys := make([]int64, 0, len(l.byKey))
	for k := range l.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Level returns the level of key, nil when no slice has this height.
func (l *Levels) Level(key int64) *Level {
	return l.byKey[key]
}

// Len returns the number of levels.
func (l *Levels) Len() int {
	return len(l.byKey)
}

// Contributions returns the number of contributions over all levels.
func (l *Levels) Contributions() int {
	var n int
	for _, lvl := range l.byKey {
		n += len(lvl.Contributions)
	}
	return n
}

// Aggregate buckets the model and support slices of every object by height. Slice i of an
// object lies at initial + i*layerHeight, so objects with different layer heights share a
// level wherever their heights coincide.
func Aggregate(objects []*PrintObject, initial float64) *Levels {
	levels := newLevels()
	for _, obj := range objects {
		height := func(i int) float64 { return initial + float64(i)*obj.layerHeight }
		for i, s := range obj.modelSlices {
			levels.add(height(i), Contribution{ObjectID: obj.ID(), Slice: s, Instances: obj.instances})
		}
		if obj.support == nil {
			continue
		}
		for i, s := range obj.support.Slices {
			levels.add(height(i), Contribution{ObjectID: obj.ID(), Support: true, Slice: s, Instances: obj.instances})
		}
	}
	return levels
}

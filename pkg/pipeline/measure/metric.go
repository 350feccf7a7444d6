package measure

import (
	"sync"
	"time"
)

type ObjectInfo struct {
	Elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	allObjects  map[string]*ObjectInfo
	mu          sync.Mutex
	EndDuration time.Duration
	stepElapsed time.Duration
	total       int64
}

func (mt *DefaultMetric) AddDuration(objectID string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stepElapsed += elapsed
	if mt.allObjects[objectID] == nil {
		mt.allObjects[objectID] = &ObjectInfo{}
	}
	obj := mt.allObjects[objectID]
	obj.Elapsed += elapsed
	obj.total++
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func (mt *DefaultMetric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.total)))
}

// AllObjects returns a copy of the per object durations.
func (mt *DefaultMetric) AllObjects() map[string]*ObjectInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	out := make(map[string]*ObjectInfo, len(mt.allObjects))
	for id, info := range mt.allObjects {
		c := *info
		out[id] = &c
	}
	return out
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

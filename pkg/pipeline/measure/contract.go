package measure

import "time"

// Measure keeps one Metric per step name.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the durations of one step over every object and run.
type Metric interface {
	AddDuration(objectID string, elapsed time.Duration)
	AVGDuration() time.Duration
	Count() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	// AllObjects returns the time spent per object; print steps are keyed by "".
	AllObjects() map[string]*ObjectInfo
}

package pipeline

import (
	"math"
	"sync"
)

// Status is a progress report.
type Status struct {
	Percent int
	Text    string
}

// StatusFunc receives the progress reports of a run.
type StatusFunc func(Status)

const (
	objectBand = 80
	doneText   = "Slicing done"
)

// objectLevels are the end of each object step, in percent of the object share.
var objectLevels = [objectStepCount]float64{20, 30, 50, 70, 80, 100}

// printRanges are the global ranges of the print steps.
var printRanges = [printStepCount][2]int{{80, 90}, {90, 100}}

// progress maps steps to global percentages and keeps the reports monotonic within a run.
type progress struct {
	mu      sync.Mutex
	fn      StatusFunc
	objects int
	last    int
}

func newProgress(fn StatusFunc, objects int) *progress {
	return &progress{fn: fn, objects: objects}
}

func (pr *progress) report(percent int, text string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	percent = min(max(percent, pr.last), 100)
	pr.last = percent
	if pr.fn != nil {
		pr.fn(Status{Percent: percent, Text: text})
	}
}

// objectRange returns the global range of step for the object at index obj.
func (pr *progress) objectRange(obj int, step ObjectStep) (int, int) {
	share := float64(objectBand) / float64(max(pr.objects, 1))
	base := float64(obj) * share
	var lo float64
	if step > 0 {
		lo = objectLevels[step-1]
	}
	hi := objectLevels[step]
	return int(math.Round(base + share*lo/100)), int(math.Round(base + share*hi/100))
}

func (pr *progress) printRange(step PrintStep) (int, int) {
	r := printRanges[step]
	return r[0], r[1]
}

// rescale maps percent in [0, 100] onto [lo, hi].
func rescale(percent, lo, hi int) int {
	percent = min(max(percent, 0), 100)
	return lo + (hi-lo)*percent/100
}

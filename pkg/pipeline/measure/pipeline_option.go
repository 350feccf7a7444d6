package measure

import (
	"sync"
	"time"

	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

// RunStep is the metric name holding the duration of whole runs.
const RunStep = "run"

type pipelineMeasure struct {
	Measure
	mu       sync.Mutex
	runStart time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(RunStep)
	return nil
}

func (pm *pipelineMeasure) OnStepStart(step *model.StepInfo) error {
	pm.mu.Lock()
	if pm.runStart.IsZero() {
		pm.runStart = time.Now()
	}
	pm.mu.Unlock()
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepDone(step *model.StepInfo, duration time.Duration) error {
	pm.AddMetric(step.Name).AddDuration(step.ObjectID, duration)

	return nil
}

// Finish records the duration of the run, from its first started step.
func (pm *pipelineMeasure) Finish(error) error {
	pm.mu.Lock()
	start := pm.runStart
	pm.runStart = time.Time{}
	pm.mu.Unlock()
	if start.IsZero() {
		return nil
	}
	elapsed := time.Since(start)
	mt := pm.AddMetric(RunStep)
	mt.AddDuration("", elapsed)
	mt.SetTotalDuration(elapsed)

	return nil
}

// PipelineMeasure follows every step of a print and records its duration in measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}

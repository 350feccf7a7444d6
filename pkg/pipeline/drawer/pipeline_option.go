package drawer

import (
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-slaprint/pkg/pipeline"
	"github.com/askiada/go-slaprint/pkg/pipeline/measure"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m       measure.Measure
	steps   graph.Graph[string, string]
	started map[string]struct{}
}

// New copies the step graph into the drawer with every step pending.
func (pd *pipelineDrawer) New() error {
	adjacencyMap, err := pd.steps.AdjacencyMap()
	if err != nil {
		return errors.Wrap(err, "unable to read step graph")
	}
	for name := range adjacencyMap {
		err := pd.AddStep(name)
		if err != nil {
			return errors.Wrapf(err, "unable to add step %s to drawer", name)
		}
		err = pd.SetStatus(name, StatusPending)
		if err != nil {
			return err
		}
	}
	for name, edges := range adjacencyMap {
		for child := range edges {
			err := pd.AddLink(name, child)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (pd *pipelineDrawer) OnStepStart(step *model.StepInfo) error {
	pd.started[step.Name] = struct{}{}
	return pd.SetStatus(step.Name, StatusStarted)
}

func (pd *pipelineDrawer) OnStepDone(step *model.StepInfo, _ time.Duration) error {
	delete(pd.started, step.Name)
	return pd.SetStatus(step.Name, StatusDone)
}

// Finish marks the steps left started as canceled or failed, depending on runErr, then draws
// the graph.
func (pd *pipelineDrawer) Finish(runErr error) error {
	if runErr != nil {
		status := StatusFailed
		if pipeline.IsCanceled(runErr) {
			status = StatusCanceled
		}
		for name := range pd.started {
			err := pd.SetStatus(name, status)
			if err != nil {
				return err
			}
		}
	}
	pd.started = make(map[string]struct{})

	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws steps, the graph of step names, coloured by the outcome of the run.
// measure may be nil.
func PipelineDrawer(drawer Drawer, measure measure.Measure, steps graph.Graph[string, string]) model.PipelineOption {
	return &pipelineDrawer{
		Drawer:  drawer,
		m:       measure,
		steps:   steps,
		started: make(map[string]struct{}),
	}
}

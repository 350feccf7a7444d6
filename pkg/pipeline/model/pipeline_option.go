package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// OnStepStart runs before a step body is executed.
	OnStepStart(step *StepInfo) error
	// OnStepDone runs after a step completed and was marked done.
	OnStepDone(step *StepInfo, duration time.Duration) error
	// Finish runs after each processing run with its outcome: nil, a cancellation or a failure.
	Finish(runErr error) error
}

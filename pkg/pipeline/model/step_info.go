package model

type stepType string

const (
	ObjectStepType stepType = "object"
	PrintStepType  stepType = "print"
)

// StepInfo describes a step while it runs.
type StepInfo struct {
	Type stepType
	// Name is the stable step name, e.g. "slice" or "rasterize".
	Name string
	// Label is the human readable status text.
	Label string
	// ObjectID is the model object the step runs for; empty for print steps.
	ObjectID string
}

package drawer

import (
	"github.com/askiada/go-slaprint/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing the step graph.
type Drawer interface {
	// AddStep adds a step to the drawer.
	AddStep(stepName string) error
	// AddLink adds a link between a step and a step depending on it.
	AddLink(parentStepName, childStepName string) error
	// SetStatus colours a step after its status: pending, started, done or failed.
	SetStatus(stepName, status string) error
	// AddMeasure labels every step with its average duration.
	AddMeasure(measure measure.Measure) error
	// Draw writes the graph.
	Draw() error
}

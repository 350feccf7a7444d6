package pipeline

import (
	"strconv"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// ObjectStep is a processing step run for every print object.
type ObjectStep int

const (
	StepSlice ObjectStep = iota
	// StepSupportIslands does no work; it keeps the step indices and progress levels stable.
	StepSupportIslands
	StepSupportPoints
	StepSupportTree
	StepBasePool
	StepSliceSupports

	objectStepCount = int(StepSliceSupports) + 1
)

// ObjectSteps lists the object steps in execution order.
var ObjectSteps = []ObjectStep{
	StepSlice,
	StepSupportIslands,
	StepSupportPoints,
	StepSupportTree,
	StepBasePool,
	StepSliceSupports,
}

var objectStepNames = [objectStepCount]string{
	"slice",
	"support-islands",
	"support-points",
	"support-tree",
	"base-pool",
	"slice-supports",
}

var objectStepLabels = [objectStepCount]string{
	"Slicing model",
	"Generating islands",
	"Scanning model structure",
	"Generating support tree",
	"Generating base pool",
	"Slicing supports",
}

func (s ObjectStep) String() string {
	if s < 0 || int(s) >= objectStepCount {
		return "object-step(" + strconv.Itoa(int(s)) + ")"
	}
	return objectStepNames[s]
}

// Label is the status text reported while the step runs.
func (s ObjectStep) Label() string {
	return objectStepLabels[s]
}

// PrintStep is a processing step run once for the whole print, after the object steps.
type PrintStep int

const (
	StepRasterize PrintStep = iota
	StepValidate

	printStepCount = int(StepValidate) + 1
)

// PrintSteps lists the print steps in execution order.
var PrintSteps = []PrintStep{StepRasterize, StepValidate}

var printStepNames = [printStepCount]string{"rasterize", "validate"}

var printStepLabels = [printStepCount]string{"Rasterizing layers", "Validating"}

func (s PrintStep) String() string {
	if s < 0 || int(s) >= printStepCount {
		return "print-step(" + strconv.Itoa(int(s)) + ")"
	}
	return printStepNames[s]
}

// Label is the status text reported while the step runs.
func (s PrintStep) Label() string {
	return printStepLabels[s]
}

// StepStatus is the state of one step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepStarted
	StepDone
)

func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepStarted:
		return "started"
	case StepDone:
		return "done"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// stepTable keeps the status and the enable mask of a fixed list of steps.
// It is not synchronised: the Print lock guards every access.
type stepTable[S ~int] struct {
	status []StepStatus
	mask   []bool
}

func newStepTable[S ~int](n int) stepTable[S] {
	t := stepTable[S]{
		status: make([]StepStatus, n),
		mask:   make([]bool, n),
	}
	for i := range t.mask {
		t.mask[i] = true
	}
	return t
}

func (t *stepTable[S]) get(s S) StepStatus { return t.status[s] }
func (t *stepTable[S]) enabled(s S) bool   { return t.mask[s] }
func (t *stepTable[S]) setMask(s S, on bool) {
	t.mask[s] = on
}

// start moves a step that still has work to do to StepStarted. It reports false for
// masked or done steps, which must be skipped.
func (t *stepTable[S]) start(s S) bool {
	if !t.mask[s] || t.status[s] == StepDone {
		return false
	}
	t.status[s] = StepStarted
	return true
}

func (t *stepTable[S]) done(s S) {
	if t.status[s] == StepStarted {
		t.status[s] = StepDone
	}
}

func (t *stepTable[S]) reset(s S) {
	t.status[s] = StepPending
}

func (t *stepTable[S]) resetAll() {
	for i := range t.status {
		t.status[i] = StepPending
	}
}

// StepGraph returns the dependency graph of every step, keyed by step name.
// Each object step feeds the next one, the last object step feeds rasterize,
// and rasterize feeds validate.
func StepGraph() (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles())
	var names []string
	for _, s := range ObjectSteps {
		err := g.AddVertex(s.String(), graph.VertexAttribute("label", s.Label()), graph.VertexAttribute("kind", "object"))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add step %s", s)
		}
		names = append(names, s.String())
	}
	for _, s := range PrintSteps {
		err := g.AddVertex(s.String(), graph.VertexAttribute("label", s.Label()), graph.VertexAttribute("kind", "print"))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add step %s", s)
		}
		names = append(names, s.String())
	}
	for i := 1; i < len(names); i++ {
		if err := g.AddEdge(names[i-1], names[i]); err != nil {
			return nil, errors.Wrapf(err, "unable to link %s to %s", names[i-1], names[i])
		}
	}
	return g, nil
}

var stepGraph = sync.OnceValues(StepGraph)

// dependents returns the names of step and of every step depending on it.
func dependents(step string) ([]string, error) {
	g, err := stepGraph()
	if err != nil {
		return nil, err
	}
	var out []string
	err = graph.DFS(g, step, func(name string) bool {
		out = append(out, name)
		return false
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to walk dependents of %s", step)
	}
	return out, nil
}

func objectStepByName(name string) (ObjectStep, bool) {
	for i, n := range objectStepNames {
		if n == name {
			return ObjectStep(i), true
		}
	}
	return 0, false
}

func printStepByName(name string) (PrintStep, bool) {
	for i, n := range printStepNames {
		if n == name {
			return PrintStep(i), true
		}
	}
	return 0, false
}

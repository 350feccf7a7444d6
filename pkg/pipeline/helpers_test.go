package pipeline_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/config"
	"github.com/askiada/go-slaprint/pkg/geometry"
	"github.com/askiada/go-slaprint/pkg/pipeline"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
	"github.com/askiada/go-slaprint/pkg/sla"
)

// testConfig maps one pixel to one millimetre and slices 10mm boxes in 10 layers.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Printer = config.PrinterConfig{DisplayWidth: 64, DisplayHeight: 64, PixelsX: 64, PixelsY: 64}
	cfg.Material.InitialLayerHeight = 0.5
	cfg.Object.LayerHeight = 1
	cfg.Workers = 2
	return cfg
}

func boxObject(id string, withSupport bool) *model.ModelObject {
	obj := &model.ModelObject{
		ID:   id,
		Name: id,
		Mesh: geometry.NewBox(geometry.Vec3{X: -5, Y: -5, Z: 0}, geometry.Vec3{X: 5, Y: 5, Z: 10}),
		Instances: []model.ModelInstance{
			{ID: id + "-0"},
			{ID: id + "-1", Offset: vec.Vec2{X: 15, Y: 15}},
		},
	}
	if withSupport {
		obj.SupportPoints = sla.PointSet{{Pos: geometry.Vec3{X: 0, Y: 0, Z: 4}}}
	}
	return obj
}

func testModel() *model.Model {
	return &model.Model{Objects: []*model.ModelObject{boxObject("cube", true)}}
}

// countingSlicer counts the calls to the mesh slicer and may run a hook on each call.
type countingSlicer struct {
	mu     sync.Mutex
	calls  int
	onCall func(call int) error
}

func (s *countingSlicer) Slice(m geometry.TriangleMesh, zs []float64) ([]geometry.ExPolygons, error) {
	s.mu.Lock()
	s.calls++
	call, hook := s.calls, s.onCall
	s.mu.Unlock()
	if hook != nil {
		if err := hook(call); err != nil {
			return nil, err
		}
	}
	return geometry.Slicer{}.Slice(m, zs)
}

func (s *countingSlicer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recorder is a pipeline option remembering every hook call.
type recorder struct {
	mu      sync.Mutex
	started []string
	done    []string
	runs    []error
	onDone  func(step *model.StepInfo)
}

func (r *recorder) New() error { return nil }

func (r *recorder) OnStepStart(step *model.StepInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, step.Name)
	return nil
}

func (r *recorder) OnStepDone(step *model.StepInfo, _ time.Duration) error {
	r.mu.Lock()
	r.done = append(r.done, step.Name)
	hook := r.onDone
	r.mu.Unlock()
	if hook != nil {
		hook(step)
	}
	return nil
}

func (r *recorder) Finish(runErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, runErr)
	return nil
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started, r.done = nil, nil
}

func newPrint(t *testing.T, opts ...pipeline.Option) *pipeline.Print {
	t.Helper()
	p, err := pipeline.New(opts...)
	require.NoError(t, err)
	return p
}

func applied(t *testing.T, p *pipeline.Print, m *model.Model, cfg config.Config) {
	t.Helper()
	status, err := p.Apply(m, cfg)
	require.NoError(t, err)
	require.Equal(t, pipeline.ApplyInvalidated, status)
}

func objectStatuses(obj *pipeline.PrintObject) []pipeline.StepStatus {
	out := make([]pipeline.StepStatus, len(pipeline.ObjectSteps))
	for i, s := range pipeline.ObjectSteps {
		out[i] = obj.StepStatus(s)
	}
	return out
}

func repeat(s pipeline.StepStatus, n int) []pipeline.StepStatus {
	out := make([]pipeline.StepStatus, n)
	for i := range out {
		out[i] = s
	}
	return out
}

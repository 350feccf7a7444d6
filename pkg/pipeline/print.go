package pipeline

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-slaprint/internal/logging"
	"github.com/askiada/go-slaprint/pkg/config"
	"github.com/askiada/go-slaprint/pkg/geometry"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

// ApplyStatus tells whether Apply changed the print.
type ApplyStatus int

const (
	ApplyUnchanged ApplyStatus = iota
	ApplyInvalidated
)

func (s ApplyStatus) String() string {
	if s == ApplyInvalidated {
		return "invalidated"
	}
	return "unchanged"
}

// Print holds the objects of a model and the layers rasterized from them.
type Print struct {
	// mu guards the step tables, the cancel flag and the published results.
	// It is never held while a step body runs.
	mu        sync.Mutex
	canceled  bool
	cancelRun context.CancelFunc

	model   *model.Model
	cfg     config.Config
	objects []*PrintObject
	steps   stepTable[PrintStep]
	raster  *Raster

	logger       *slog.Logger
	status       StatusFunc
	opts         []model.PipelineOption
	slicer       Slicer
	buildSupport SupportBuilder
}

// New creates an empty print.
func New(opts ...Option) (*Print, error) {
	p := &Print{
		cfg:          config.Default(),
		steps:        newStepTable[PrintStep](printStepCount),
		logger:       logging.NewNop(),
		slicer:       geometry.Slicer{},
		buildSupport: buildSLATree,
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, opt := range p.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return p, nil
}

// Apply replaces the objects of the print when m or cfg differ from the ones held.
// Every object is recreated: no derived data survives a change.
func (p *Print) Apply(m *model.Model, cfg config.Config) (ApplyStatus, error) {
	if err := cfg.Validate(); err != nil {
		return ApplyUnchanged, errors.Wrap(err, "unable to apply configuration")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if m.Empty() && len(p.objects) == 0 {
		p.cfg = cfg
		return ApplyUnchanged, nil
	}
	if p.model != nil && reflect.DeepEqual(p.model, m) && reflect.DeepEqual(p.cfg, cfg) {
		return ApplyUnchanged, nil
	}

	p.model = m.Clone()
	p.cfg = cfg
	p.objects = make([]*PrintObject, 0, len(p.model.Objects))
	for _, src := range p.model.Objects {
		obj := newPrintObject(p, src, cfg.Object.LayerHeight)
		if !cfg.Support.Enabled {
			for _, s := range []ObjectStep{StepSupportPoints, StepSupportTree, StepBasePool, StepSliceSupports} {
				obj.steps.setMask(s, false)
			}
		}
		if !cfg.Pad.Enabled {
			obj.steps.setMask(StepBasePool, false)
		}
		p.objects = append(p.objects, obj)
	}
	p.steps.resetAll()
	p.raster = nil
	p.logger.Debug("print invalidated", "objects", len(p.objects))

	return ApplyInvalidated, nil
}

// Clear drops every object and every result.
func (p *Print) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, obj := range p.objects {
		obj.steps.resetAll()
	}
	p.objects = nil
	p.model = nil
	p.steps.resetAll()
	p.raster = nil
}

// Cancel asks a running Process to stop at the next checkpoint.
func (p *Print) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.canceled = true
	if p.cancelRun != nil {
		p.cancelRun()
	}
}

// Objects returns the print objects in model order.
func (p *Print) Objects() []*PrintObject {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.objects)
}

// Config returns the configuration applied last.
func (p *Print) Config() config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Raster returns the rasterized layers, nil until the rasterize step completed.
func (p *Print) Raster() *Raster {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.raster
}

// StepStatus returns the status of a print step.
func (p *Print) StepStatus(step PrintStep) StepStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.steps.get(step)
}

// SetStepMask enables or disables a print step for the next runs.
func (p *Print) SetStepMask(step PrintStep, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps.setMask(step, enabled)
}

// Invalidate resets a print step and the print steps after it. Object steps are kept.
func (p *Print) Invalidate(step PrintStep) error {
	names, err := dependents(step.String())
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetSteps(nil, names)
	return nil
}

// resetSteps resets the named steps of obj and of the print. Caller holds the lock.
func (p *Print) resetSteps(obj *PrintObject, names []string) {
	for _, name := range names {
		if s, ok := objectStepByName(name); ok {
			if obj != nil {
				obj.steps.reset(s)
			}
			continue
		}
		if s, ok := printStepByName(name); ok {
			p.steps.reset(s)
			if s == StepRasterize {
				p.raster = nil
			}
		}
	}
}

// stopped reports whether the run must stop. Caller holds the lock.
func (p *Print) stopped(ctx context.Context) bool {
	return p.canceled || ctx.Err() != nil
}

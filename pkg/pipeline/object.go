package pipeline

import (
	"math"
	"slices"
	"sync"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/geometry"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
	"github.com/askiada/go-slaprint/pkg/sla"
)

// Instance is a placement of an object on the build platform.
type Instance struct {
	ID       string
	Shift    vec.Vec2
	Rotation float64
}

// Matrix rotates around the object origin, then moves the result by Shift.
func (i Instance) Matrix() matrix.Matrix {
	return matrix.RotateDeg(i.Rotation*180/math.Pi).Translate(i.Shift.X, i.Shift.Y)
}

// SupportData is the support analysis of an object. It only exists when the object has
// support points.
type SupportData struct {
	Mesh   *sla.IndexedMesh
	Points sla.PointSet
	// Tree is nil until the support tree step completed.
	Tree SupportTree
	// Slices are aligned by index with the model slices.
	Slices []geometry.ExPolygons
}

// PrintObject is the processing state of one model object.
// Its data is replaced when a step completes; the accessors return the latest result.
type PrintObject struct {
	print  *Print
	source *model.ModelObject
	steps  stepTable[ObjectStep]

	layerHeight float64
	instances   []Instance
	modelSlices []geometry.ExPolygons
	support     *SupportData
}

func newPrintObject(p *Print, src *model.ModelObject, defaultLayerHeight float64) *PrintObject {
	obj := &PrintObject{
		print:       p,
		source:      src,
		steps:       newStepTable[ObjectStep](objectStepCount),
		layerHeight: defaultLayerHeight,
	}
	if src.LayerHeight > 0 {
		obj.layerHeight = src.LayerHeight
	}
	for _, inst := range src.Instances {
		obj.instances = append(obj.instances, Instance{
			ID:       inst.ID,
			Shift:    inst.Offset,
			Rotation: inst.Rotation,
		})
	}
	return obj
}

func (o *PrintObject) lock() *sync.Mutex {
	o.print.mu.Lock()
	return &o.print.mu
}

// ID returns the model object identifier.
func (o *PrintObject) ID() string {
	return o.source.ID
}

// LayerHeight returns the layer height used to slice the object.
func (o *PrintObject) LayerHeight() float64 {
	return o.layerHeight
}

// Instances returns the placements of the object.
func (o *PrintObject) Instances() []Instance {
	return slices.Clone(o.instances)
}

// ModelSlices returns one polygon set per sampled height of the mesh.
func (o *PrintObject) ModelSlices() []geometry.ExPolygons {
	defer o.lock().Unlock()
	return o.modelSlices
}

// SupportSlices returns the sliced supports, nil without a support tree.
func (o *PrintObject) SupportSlices() []geometry.ExPolygons {
	defer o.lock().Unlock()
	if o.support == nil {
		return nil
	}
	return o.support.Slices
}

// HasSupport reports whether the object carries support data.
func (o *PrintObject) HasSupport() bool {
	defer o.lock().Unlock()
	return o.support != nil
}

// SupportMesh returns the merged mesh of the support tree and its pad.
// It is empty when the object has no tree. Do not call it while the object is processed.
func (o *PrintObject) SupportMesh() geometry.TriangleMesh {
	defer o.lock().Unlock()
	if o.support == nil || o.support.Tree == nil {
		return geometry.TriangleMesh{}
	}
	return o.support.Tree.MergedMesh()
}

// PadMesh returns the pad mesh, empty when the object has no tree or no pad.
// Do not call it while the object is processed.
func (o *PrintObject) PadMesh() geometry.TriangleMesh {
	defer o.lock().Unlock()
	if o.support == nil || o.support.Tree == nil {
		return geometry.TriangleMesh{}
	}
	return o.support.Tree.PadMesh()
}

// StepStatus returns the status of step.
func (o *PrintObject) StepStatus(step ObjectStep) StepStatus {
	defer o.lock().Unlock()
	return o.steps.get(step)
}

// SetStepMask enables or disables step for the next runs.
func (o *PrintObject) SetStepMask(step ObjectStep, enabled bool) {
	defer o.lock().Unlock()
	o.steps.setMask(step, enabled)
}

// Invalidate resets step, the steps after it and the print steps.
func (o *PrintObject) Invalidate(step ObjectStep) error {
	names, err := dependents(step.String())
	if err != nil {
		return err
	}
	defer o.lock().Unlock()
	o.print.resetSteps(o, names)
	return nil
}

// setSupport publishes new support data.
func (o *PrintObject) setSupport(sd *SupportData) {
	defer o.lock().Unlock()
	o.support = sd
}

package pipeline

import (
	"log/slog"

	"github.com/askiada/go-slaprint/pkg/geometry"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
	"github.com/askiada/go-slaprint/pkg/sla"
)

// Slicer cuts a mesh at the given absolute heights.
type Slicer interface {
	Slice(m geometry.TriangleMesh, zs []float64) ([]geometry.ExPolygons, error)
}

// SupportTree is the handle on a synthesized support tree.
type SupportTree interface {
	AddPad(cfg sla.PadConfig) error
	Slice(initial, layerHeight float64) ([]geometry.ExPolygons, error)
	MergedMesh() geometry.TriangleMesh
	PadMesh() geometry.TriangleMesh
}

// SupportBuilder synthesizes a support tree. It must poll ctl.Stopped and return
// sla.ErrStopped when asked to stop.
type SupportBuilder func(points sla.PointSet, mesh *sla.IndexedMesh, cfg sla.Config, ctl sla.Controller) (SupportTree, error)

func buildSLATree(points sla.PointSet, mesh *sla.IndexedMesh, cfg sla.Config, ctl sla.Controller) (SupportTree, error) {
	tree, err := sla.Build(points, mesh, cfg, ctl)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Option configures a Print.
type Option func(p *Print)

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Print) {
		p.logger = logger
	}
}

// WithStatus sets the function receiving progress reports.
func WithStatus(fn StatusFunc) Option {
	return func(p *Print) {
		p.status = fn
	}
}

// WithOptions adds hooks following every step.
func WithOptions(opts ...model.PipelineOption) Option {
	return func(p *Print) {
		p.opts = append(p.opts, opts...)
	}
}

// WithSlicer replaces the mesh slicer.
func WithSlicer(s Slicer) Option {
	return func(p *Print) {
		p.slicer = s
	}
}

// WithSupportBuilder replaces the support tree synthesis.
func WithSupportBuilder(b SupportBuilder) Option {
	return func(p *Print) {
		p.buildSupport = b
	}
}

package pipeline

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"github.com/askiada/go-slaprint/pkg/config"
	"github.com/askiada/go-slaprint/pkg/sla"
)

func (p *Print) objectStage(obj *PrintObject, step ObjectStep, cfg config.Config, prog *progress, lo, hi int) func(context.Context) error {
	switch step {
	case StepSlice:
		return func(context.Context) error { return p.sliceModel(obj, cfg) }
	case StepSupportIslands:
		return func(context.Context) error { return nil }
	case StepSupportPoints:
		return func(context.Context) error { return p.supportPoints(obj) }
	case StepSupportTree:
		return func(ctx context.Context) error {
			ctl := &supportController{print: p, ctx: ctx, prog: prog, lo: lo, hi: hi}
			return p.supportTree(obj, cfg, ctl)
		}
	case StepBasePool:
		return func(context.Context) error { return p.basePool(obj, cfg) }
	case StepSliceSupports:
		return func(context.Context) error { return p.sliceSupports(obj, cfg) }
	}
	return func(context.Context) error { return errors.Wrapf(ErrUnknownStep, "%s", step) }
}

// sliceHeights samples [0, height) at initial, initial+lh, ... The first sample always exists.
func sliceHeights(height, initial, layerHeight float64) []float64 {
	zs := []float64{initial}
	for i := 1; ; i++ {
		z := initial + float64(i)*layerHeight
		if z >= height {
			break
		}
		zs = append(zs, z)
	}
	return zs
}

func (p *Print) sliceModel(obj *PrintObject, cfg config.Config) error {
	box := obj.source.Mesh.BoundingBox()
	zs := sliceHeights(box.Size().Z, cfg.Material.InitialLayerHeight, obj.layerHeight)
	for i := range zs {
		zs[i] += box.Min.Z
	}
	out, err := p.slicer.Slice(obj.source.Mesh, zs)
	if err != nil {
		return errors.Wrapf(err, "unable to slice object %s", obj.ID())
	}

	defer obj.lock().Unlock()
	obj.modelSlices = out
	return nil
}

func (p *Print) supportPoints(obj *PrintObject) error {
	if len(obj.source.SupportPoints) == 0 {
		obj.setSupport(nil)
		return nil
	}
	obj.setSupport(&SupportData{
		Mesh:   sla.NewIndexedMesh(obj.source.Mesh),
		Points: slices.Clone(obj.source.SupportPoints),
	})
	return nil
}

func (p *Print) supportTree(obj *PrintObject, cfg config.Config, ctl *supportController) error {
	sd := obj.support
	if sd == nil {
		return nil
	}
	tree, err := p.buildSupport(sd.Points, sd.Mesh, cfg.SLASupport(), ctl)
	if errors.Is(err, sla.ErrStopped) {
		p.logger.Info("support generation stopped", "object", obj.ID())
		tree = nil
	} else if err != nil {
		return errors.Wrapf(err, "unable to build support tree of object %s", obj.ID())
	}

	defer obj.lock().Unlock()
	sd.Tree = tree
	sd.Slices = nil
	return nil
}

func (p *Print) basePool(obj *PrintObject, cfg config.Config) error {
	sd := obj.support
	if sd == nil || sd.Tree == nil {
		return nil
	}
	err := sd.Tree.AddPad(cfg.SLAPad())
	if err != nil {
		return errors.Wrapf(err, "unable to add pad to object %s", obj.ID())
	}
	return nil
}

func (p *Print) sliceSupports(obj *PrintObject, cfg config.Config) error {
	sd := obj.support
	if sd == nil || sd.Tree == nil {
		return nil
	}
	out, err := sd.Tree.Slice(cfg.Material.InitialLayerHeight, obj.layerHeight)
	if err != nil {
		return errors.Wrapf(err, "unable to slice supports of object %s", obj.ID())
	}

	defer obj.lock().Unlock()
	sd.Slices = out
	return nil
}

func (p *Print) printStage(objects []*PrintObject, step PrintStep, cfg config.Config) func(context.Context) error {
	switch step {
	case StepRasterize:
		return func(ctx context.Context) error {
			levels := Aggregate(objects, cfg.Material.InitialLayerHeight)
			raster, err := Rasterize(ctx, levels, NewRasterConfig(cfg))
			if err != nil {
				return err
			}
			p.mu.Lock()
			p.raster = raster
			p.mu.Unlock()
			return nil
		}
	case StepValidate:
		return func(context.Context) error {
			p.mu.Lock()
			raster, rasterizing := p.raster, p.steps.enabled(StepRasterize)
			p.mu.Unlock()
			if raster == nil {
				if !rasterizing {
					return nil
				}
				return ErrNotRasterized
			}
			return raster.Validate()
		}
	}
	return func(context.Context) error { return errors.Wrapf(ErrUnknownStep, "%s", step) }
}

// supportController wires the support synthesis to the progress and to the cancel flag.
type supportController struct {
	print  *Print
	ctx    context.Context //nolint:containedctx // polled by the synthesis
	prog   *progress
	lo, hi int
}

func (c *supportController) Report(percent int, msg string) {
	c.prog.report(rescale(percent, c.lo, c.hi), msg)
}

func (c *supportController) Stopped() bool {
	c.print.mu.Lock()
	defer c.print.mu.Unlock()
	return c.print.stopped(c.ctx)
}

var _ sla.Controller = (*supportController)(nil)

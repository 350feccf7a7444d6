package pipeline

import (
	"context"
	"image"
	"image/draw"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"
	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/config"
	"github.com/askiada/go-slaprint/pkg/geometry"
)

// RasterConfig describes the exposure display and how to rasterize for it.
type RasterConfig struct {
	// DisplayWidth and DisplayHeight are the size of the display, in mm.
	DisplayWidth, DisplayHeight float64
	PixelsX, PixelsY            int
	ExposureTime                float64
	InitialExposureTime         float64
	// Workers bounds the number of layers rasterized concurrently. Zero uses every CPU.
	Workers int
}

// NewRasterConfig extracts the raster settings of cfg.
func NewRasterConfig(cfg config.Config) RasterConfig {
	return RasterConfig{
		DisplayWidth:        cfg.Printer.DisplayWidth,
		DisplayHeight:       cfg.Printer.DisplayHeight,
		PixelsX:             cfg.Printer.PixelsX,
		PixelsY:             cfg.Printer.PixelsY,
		ExposureTime:        cfg.Material.ExposureTime,
		InitialExposureTime: cfg.Material.InitialExposureTime,
		Workers:             cfg.Workers,
	}
}

func (c RasterConfig) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// pixel maps a platform point to canvas coordinates. The display centre is the platform
// origin and y points up.
func (c RasterConfig) pixel(v vec.Vec2) (float32, float32) {
	x := (v.X + c.DisplayWidth/2) * float64(c.PixelsX) / c.DisplayWidth
	y := (c.DisplayHeight/2 - v.Y) * float64(c.PixelsY) / c.DisplayHeight
	return float32(x), float32(y)
}

// Raster is the result of the rasterize step: one grayscale canvas per level, bottom first.
type Raster struct {
	cfg     RasterConfig
	heights []float64
	layers  []*image.Gray
}

// Config returns the settings the raster was produced with.
func (r *Raster) Config() RasterConfig {
	return r.cfg
}

// Len returns the number of layers.
func (r *Raster) Len() int {
	return len(r.layers)
}

// Layers returns every canvas, bottom first.
func (r *Raster) Layers() []*image.Gray {
	return r.layers
}

// Layer returns the canvas at index i.
func (r *Raster) Layer(i int) *image.Gray {
	return r.layers[i]
}

// Heights returns the physical height of every layer.
func (r *Raster) Heights() []float64 {
	return r.heights
}

// Exposure returns the exposure time of layer i; the first layer uses the initial exposure.
func (r *Raster) Exposure(i int) float64 {
	if i == 0 {
		return r.cfg.InitialExposureTime
	}
	return r.cfg.ExposureTime
}

// Validate checks that every layer was drawn on a canvas of the configured size.
func (r *Raster) Validate() error {
	if len(r.layers) != len(r.heights) {
		return errors.Wrapf(ErrInvalidRaster, "%d layers for %d heights", len(r.layers), len(r.heights))
	}
	want := image.Rect(0, 0, r.cfg.PixelsX, r.cfg.PixelsY)
	for i, l := range r.layers {
		if l == nil {
			return errors.Wrapf(ErrInvalidRaster, "layer %d is missing", i)
		}
		if l.Bounds() != want {
			return errors.Wrapf(ErrInvalidRaster, "layer %d has bounds %v, want %v", i, l.Bounds(), want)
		}
	}
	return nil
}

// Rasterize draws every level on its own canvas. Canvases are indexed by the position of
// their key in levels.Keys(). Levels are drawn concurrently, each by a single task, so the
// result does not depend on the number of workers.
func Rasterize(ctx context.Context, levels *Levels, cfg RasterConfig) (*Raster, error) {
	keys := levels.Keys()
	r := &Raster{
		cfg:     cfg,
		heights: make([]float64, len(keys)),
		layers:  make([]*image.Gray, len(keys)),
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(cfg.workers())
	for i, key := range keys {
		lvl := levels.Level(key)
		r.heights[i] = lvl.Height()
		errGrp.Go(func() error {
			if err := dCtx.Err(); err != nil {
				return errors.Wrapf(err, "layer %d", i)
			}
			r.layers[i] = drawLevel(lvl, cfg)
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		return nil, errors.Wrap(err, "unable to rasterize layers")
	}
	return r, nil
}

func drawLevel(lvl *Level, cfg RasterConfig) *image.Gray {
	canvas := image.NewGray(image.Rect(0, 0, cfg.PixelsX, cfg.PixelsY))
	z := vector.NewRasterizer(cfg.PixelsX, cfg.PixelsY)
	z.DrawOp = draw.Over
	for _, c := range lvl.Contributions {
		for _, inst := range c.Instances {
			for _, ex := range c.Slice.Transform(inst.Matrix()) {
				addPolygon(z, ex.Contour, cfg, true)
				for _, h := range ex.Holes {
					addPolygon(z, h, cfg, false)
				}
			}
		}
	}
	z.Draw(canvas, canvas.Bounds(), image.Opaque, image.Point{})
	return canvas
}

// addPolygon adds p to the path, counter-clockwise for contours and clockwise for holes
// so that holes cancel the coverage of their contour.
func addPolygon(z *vector.Rasterizer, p geometry.Polygon, cfg RasterConfig, contour bool) {
	if len(p) < 3 {
		return
	}
	if p.CCW() != contour {
		p = p.Reversed()
	}
	for i, v := range p {
		x, y := cfg.pixel(v)
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
}

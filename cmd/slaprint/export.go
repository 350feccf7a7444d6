package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-slaprint/pkg/pipeline"
)

type manifest struct {
	DisplayWidth  float64         `yaml:"display_width"`
	DisplayHeight float64         `yaml:"display_height"`
	PixelsX       int             `yaml:"display_pixels_x"`
	PixelsY       int             `yaml:"display_pixels_y"`
	Layers        []manifestLayer `yaml:"layers"`
}

type manifestLayer struct {
	File     string  `yaml:"file"`
	Height   float64 `yaml:"height"`
	Exposure float64 `yaml:"exposure"`
}

// writeLayers writes one PNG per layer and the manifest listing them, bottom first.
func writeLayers(dir string, raster *pipeline.Raster) error {
	if raster == nil {
		return errors.Wrap(pipeline.ErrNotRasterized, "nothing to write")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "unable to create %s", dir)
	}

	cfg := raster.Config()
	man := manifest{
		DisplayWidth:  cfg.DisplayWidth,
		DisplayHeight: cfg.DisplayHeight,
		PixelsX:       cfg.PixelsX,
		PixelsY:       cfg.PixelsY,
	}
	for i, layer := range raster.Layers() {
		name := fmt.Sprintf("%05d.png", i)
		if err := writePNG(filepath.Join(dir, name), layer); err != nil {
			return err
		}
		man.Layers = append(man.Layers, manifestLayer{
			File:     name,
			Height:   raster.Heights()[i],
			Exposure: raster.Exposure(i),
		})
	}

	data, err := yaml.Marshal(man)
	if err != nil {
		return errors.Wrap(err, "unable to encode manifest")
	}
	path := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	return nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "unable to close %s", path)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "unable to encode %s", path)
	}
	return nil
}

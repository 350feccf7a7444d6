// Package config holds the print configuration and its loading from YAML files.
package config

import (
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-slaprint/pkg/flowcomp"
	"github.com/askiada/go-slaprint/pkg/sla"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full configuration of a print.
type Config struct {
	Printer  PrinterConfig  `yaml:"printer" mapstructure:"printer"`
	Material MaterialConfig `yaml:"material" mapstructure:"material"`
	Object   ObjectConfig   `yaml:"object" mapstructure:"object"`
	Support  SupportConfig  `yaml:"support" mapstructure:"support"`
	Pad      PadConfig      `yaml:"pad" mapstructure:"pad"`
	// Workers bounds the number of layers rasterized concurrently. Zero uses every CPU.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// FlowCompensation holds "length,factor" records of the small area infill flow
	// compensation model. Empty disables the model.
	FlowCompensation []string `yaml:"small_area_infill_flow_compensation_model" mapstructure:"small_area_infill_flow_compensation_model"`
}

// PrinterConfig describes the exposure display.
type PrinterConfig struct {
	DisplayWidth  float64 `yaml:"display_width" mapstructure:"display_width"`
	DisplayHeight float64 `yaml:"display_height" mapstructure:"display_height"`
	PixelsX       int     `yaml:"display_pixels_x" mapstructure:"display_pixels_x"`
	PixelsY       int     `yaml:"display_pixels_y" mapstructure:"display_pixels_y"`
}

// MaterialConfig describes the resin.
type MaterialConfig struct {
	InitialLayerHeight  float64 `yaml:"initial_layer_height" mapstructure:"initial_layer_height"`
	ExposureTime        float64 `yaml:"exposure_time" mapstructure:"exposure_time"`
	InitialExposureTime float64 `yaml:"initial_exposure_time" mapstructure:"initial_exposure_time"`
}

// ObjectConfig holds the per object settings.
type ObjectConfig struct {
	LayerHeight float64 `yaml:"layer_height" mapstructure:"layer_height"`
}

// SupportConfig controls support generation.
type SupportConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	PillarWidth float64 `yaml:"pillar_width" mapstructure:"pillar_width"`
	HeadWidth   float64 `yaml:"head_width" mapstructure:"head_width"`
}

// PadConfig controls the base plate below the supports.
type PadConfig struct {
	Enabled          bool    `yaml:"enabled" mapstructure:"enabled"`
	WallThickness    float64 `yaml:"wall_thickness" mapstructure:"wall_thickness"`
	WallHeight       float64 `yaml:"wall_height" mapstructure:"wall_height"`
	MaxMergeDistance float64 `yaml:"max_merge_distance" mapstructure:"max_merge_distance"`
	EdgeRadius       float64 `yaml:"edge_radius" mapstructure:"edge_radius"`
}

// Default returns the configuration of a small desktop resin printer.
func Default() Config {
	return Config{
		Printer: PrinterConfig{
			DisplayWidth:  120,
			DisplayHeight: 68,
			PixelsX:       1920,
			PixelsY:       1080,
		},
		Material: MaterialConfig{
			InitialLayerHeight:  0.3,
			ExposureTime:        10,
			InitialExposureTime: 15,
		},
		Object: ObjectConfig{LayerHeight: 0.05},
		Support: SupportConfig{
			Enabled:     true,
			PillarWidth: 1,
			HeadWidth:   0.4,
		},
		Pad: PadConfig{
			Enabled:          true,
			WallThickness:    2,
			WallHeight:       3,
			MaxMergeDistance: 50,
			EdgeRadius:       1,
		},
	}
}

// Load reads the YAML file at path on top of Default and applies the dotted key=value
// overrides, e.g. "pad.wall_height=2". An empty path only applies the overrides.
func Load(path string, overrides ...string) (Config, error) {
	raw := make(map[string]interface{})
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to read config %s", path)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, errors.Wrapf(err, "unable to parse config %s", path)
		}
	}
	for _, o := range overrides {
		if err := set(raw, o); err != nil {
			return Config{}, err
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func set(raw map[string]interface{}, override string) error {
	key, value, ok := strings.Cut(override, "=")
	if !ok || key == "" {
		return errors.Wrapf(ErrInvalidConfig, "override %q is not key=value", override)
	}
	parts := strings.Split(key, ".")
	node := raw
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[p] = child
		}
		node = child
	}
	last := parts[len(parts)-1]
	if strings.Contains(value, ";") {
		node[last] = strings.Split(value, ";")
		return nil
	}
	node[last] = value
	return nil
}

func decode(raw map[string]interface{}, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create config decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "unable to decode config: %v", err)
	}
	return nil
}

// Validate checks the invariants the pipeline relies on.
func (c Config) Validate() error {
	switch {
	case c.Object.LayerHeight <= 0:
		return errors.Wrapf(ErrInvalidConfig, "layer height must be positive, got %v", c.Object.LayerHeight)
	case c.Material.InitialLayerHeight <= 0:
		return errors.Wrapf(ErrInvalidConfig, "initial layer height must be positive, got %v", c.Material.InitialLayerHeight)
	case c.Printer.DisplayWidth <= 0 || c.Printer.DisplayHeight <= 0:
		return errors.Wrap(ErrInvalidConfig, "display size must be positive")
	case c.Printer.PixelsX <= 0 || c.Printer.PixelsY <= 0:
		return errors.Wrap(ErrInvalidConfig, "display resolution must be positive")
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	if c.Support.Enabled {
		if err := c.SLASupport().Validate(); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "support: %v", err)
		}
		if c.Pad.Enabled {
			if err := c.SLAPad().Validate(); err != nil {
				return errors.Wrapf(ErrInvalidConfig, "pad: %v", err)
			}
		}
	}
	if len(c.FlowCompensation) > 0 {
		if _, err := flowcomp.New(c.FlowCompensation); err != nil {
			return errors.Wrap(err, "invalid flow compensation model")
		}
	}
	return nil
}

// FlowCompensator builds the flow compensation model; nil when none is configured.
func (c Config) FlowCompensator() (*flowcomp.Compensator, error) {
	if len(c.FlowCompensation) == 0 {
		return nil, nil
	}
	return flowcomp.New(c.FlowCompensation)
}

// SLASupport converts the support settings for the support generator.
func (c Config) SLASupport() sla.Config {
	return sla.Config{
		PillarWidth: c.Support.PillarWidth,
		HeadWidth:   c.Support.HeadWidth,
	}
}

// SLAPad converts the pad settings for the support generator.
func (c Config) SLAPad() sla.PadConfig {
	return sla.PadConfig{
		WallThickness:    c.Pad.WallThickness,
		WallHeight:       c.Pad.WallHeight,
		MaxMergeDistance: c.Pad.MaxMergeDistance,
		EdgeRadius:       c.Pad.EdgeRadius,
	}
}

package sla

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-slaprint/pkg/geometry"
)

var (
	// ErrStopped is returned when the Controller asked the synthesis to stop.
	ErrStopped = errors.New("support generation stopped")
	// ErrNoPoints is returned when a tree is requested without support points.
	ErrNoPoints = errors.New("no support points")
	// ErrInvalidConfig is returned for non positive dimensions.
	ErrInvalidConfig = errors.New("invalid support configuration")
)

// Controller lets the caller follow and interrupt a long running synthesis.
type Controller interface {
	// Report is called with a completion percentage in [0, 100] and a message.
	Report(percent int, msg string)
	// Stopped is polled at every checkpoint; true aborts the synthesis with ErrStopped.
	Stopped() bool
}

// SupportPoint is a point on the object surface which needs a support.
type SupportPoint struct {
	Pos        geometry.Vec3
	HeadRadius float64
}

// PointSet is the set of support points of one object.
type PointSet []SupportPoint

// Config controls the support tree geometry.
type Config struct {
	// PillarWidth is the side of the square pillar section, in mm.
	PillarWidth float64
	// HeadWidth is the side of the square contact head, in mm. Zero means PillarWidth.
	HeadWidth float64
}

// PadConfig controls the base plate added below the pillars.
type PadConfig struct {
	WallThickness    float64
	WallHeight       float64
	MaxMergeDistance float64
	EdgeRadius       float64
}

// Validate reports the first non positive dimension.
func (c Config) Validate() error {
	if c.PillarWidth <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "pillar width must be positive, got %v", c.PillarWidth)
	}
	if c.HeadWidth < 0 {
		return errors.Wrapf(ErrInvalidConfig, "head width must not be negative, got %v", c.HeadWidth)
	}
	return nil
}

// Validate reports the first invalid pad dimension.
func (c PadConfig) Validate() error {
	if c.WallThickness <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "pad wall thickness must be positive, got %v", c.WallThickness)
	}
	if c.WallHeight <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "pad wall height must be positive, got %v", c.WallHeight)
	}
	if c.MaxMergeDistance < 0 || c.EdgeRadius < 0 {
		return errors.Wrap(ErrInvalidConfig, "pad merge distance and edge radius must not be negative")
	}
	return nil
}

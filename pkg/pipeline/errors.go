package pipeline

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrCanceled is returned by Process when the run was cancelled. It is not a failure:
	// the unfinished steps run again on the next call.
	ErrCanceled = errors.New("processing canceled")
	// ErrNotRasterized is returned by the validate step when no raster was produced.
	ErrNotRasterized = errors.New("layers have not been rasterized")
	// ErrInvalidRaster is returned by the validate step for a missing or malformed layer.
	ErrInvalidRaster = errors.New("invalid raster")
	// ErrUnknownStep is returned for a step which is not part of the step graph.
	ErrUnknownStep = errors.New("unknown step")
)

// IsCanceled reports whether err ends a run because of a cancellation rather than a failure.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

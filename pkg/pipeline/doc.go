// Package pipeline turns a model into rasterized resin print layers.
//
// A Print owns one PrintObject per model object. Every object goes through a fixed list of
// steps: slicing the mesh, deriving the support points, building the support tree, adding the
// pad and slicing the supports. Once every object is processed, the print level steps
// aggregate the slices of all objects and instances into layers keyed by a quantized height,
// rasterize those layers in parallel and validate the result.
//
// Each step records whether it is pending, started or done. Process only runs the steps which
// are not done and not masked off, so calling it again after a successful run does no work.
// Invalidating a step resets it and every step depending on it, following the step graph
// returned by StepGraph.
//
// Cancel stops a running Process at the next checkpoint: before and after each step, and
// between the pillars of the support tree. A cancelled step stays started and runs again from
// scratch on the next call. Process reports cancellation with ErrCanceled, which callers should
// not treat as a failure.
//
// Options implementing model.PipelineOption follow every step; see the measure and drawer
// packages.
package pipeline

// Package flowcomp implements the small area infill flow compensation model.
//
// The model is a table of (extrusion length, flow factor) points read from "length,factor"
// text records. Solid infill extrusions shorter than the last configured length get their
// extrusion amount multiplied by the factor interpolated on a natural cubic spline through
// the points.
package flowcomp

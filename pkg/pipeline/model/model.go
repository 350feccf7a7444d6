package model

import (
	"slices"

	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/geometry"
	"github.com/askiada/go-slaprint/pkg/sla"
)

// Model is the set of objects to print.
type Model struct {
	Objects []*ModelObject
}

// ModelObject is the source geometry of one object. The pipeline never mutates it.
type ModelObject struct {
	ID   string
	Name string
	Mesh geometry.TriangleMesh
	// SupportPoints are manually placed support hints.
	SupportPoints sla.PointSet
	Instances     []ModelInstance
	// LayerHeight overrides the configured layer height when positive.
	LayerHeight float64
}

// ModelInstance is a placement of an object on the build platform.
type ModelInstance struct {
	ID     string
	Offset vec.Vec2
	// Rotation around the Z axis, in radians.
	Rotation float64
}

// Empty reports whether the model has no object.
func (m *Model) Empty() bool {
	return m == nil || len(m.Objects) == 0
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return &Model{}
	}
	out := &Model{Objects: make([]*ModelObject, len(m.Objects))}
	for i, o := range m.Objects {
		c := *o
		c.Mesh = geometry.TriangleMesh{Facets: slices.Clone(o.Mesh.Facets)}
		c.SupportPoints = slices.Clone(o.SupportPoints)
		c.Instances = slices.Clone(o.Instances)
		out.Objects[i] = &c
	}
	return out
}

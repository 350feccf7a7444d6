package sla

import "github.com/askiada/go-slaprint/pkg/geometry"

// IndexedMesh is the index-triangle representation of a mesh used for support analysis.
type IndexedMesh struct {
	Vertices []geometry.Vec3
	Indices  [][3]int
	bbox     geometry.Box3
}

// NewIndexedMesh deduplicates the vertices of m.
func NewIndexedMesh(m geometry.TriangleMesh) *IndexedMesh {
	im := &IndexedMesh{
		Indices: make([][3]int, len(m.Facets)),
		bbox:    m.BoundingBox(),
	}
	seen := make(map[geometry.Vec3]int)
	for i, f := range m.Facets {
		for v, p := range f {
			idx, ok := seen[p]
			if !ok {
				idx = len(im.Vertices)
				seen[p] = idx
				im.Vertices = append(im.Vertices, p)
			}
			im.Indices[i][v] = idx
		}
	}
	return im
}

// BoundingBox returns the bounding box of the mesh.
func (m *IndexedMesh) BoundingBox() geometry.Box3 {
	return m.bbox
}

// Ground is the height of the build platform below the mesh.
func (m *IndexedMesh) Ground() float64 {
	return m.bbox.Min.Z
}

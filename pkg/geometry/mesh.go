package geometry

// Facet is a triangle with counter-clockwise vertices seen from outside.
type Facet [3]Vec3

// TriangleMesh is a triangle soup.
type TriangleMesh struct {
	Facets []Facet
}

// Empty reports whether the mesh has no facets.
func (m TriangleMesh) Empty() bool {
	return len(m.Facets) == 0
}

// BoundingBox returns the bounding box of all facets. The box of an empty mesh is zero.
func (m TriangleMesh) BoundingBox() Box3 {
	if m.Empty() {
		return Box3{}
	}
	b := emptyBox()
	for _, f := range m.Facets {
		for _, v := range f {
			b.extend(v)
		}
	}
	return b
}

// Merge returns a mesh holding the facets of all meshes.
func Merge(meshes ...TriangleMesh) TriangleMesh {
	n := 0
	for _, m := range meshes {
		n += len(m.Facets)
	}
	out := TriangleMesh{Facets: make([]Facet, 0, n)}
	for _, m := range meshes {
		out.Facets = append(out.Facets, m.Facets...)
	}
	return out
}

// Extrude builds the closed prism of the convex polygon base between z0 and z1.
func Extrude(base Polygon, z0, z1 float64) TriangleMesh {
	if len(base) < 3 || z1 <= z0 {
		return TriangleMesh{}
	}
	if !base.CCW() {
		base = base.Reversed()
	}
	at := func(i int, z float64) Vec3 {
		return Vec3{base[i].X, base[i].Y, z}
	}
	n := len(base)
	facets := make([]Facet, 0, 4*n)
	for i := 1; i+1 < n; i++ {
		facets = append(facets,
			Facet{at(0, z0), at(i+1, z0), at(i, z0)},
			Facet{at(0, z1), at(i, z1), at(i+1, z1)},
		)
	}
	for i := range n {
		j := (i + 1) % n
		facets = append(facets,
			Facet{at(i, z0), at(j, z0), at(j, z1)},
			Facet{at(i, z0), at(j, z1), at(i, z1)},
		)
	}
	return TriangleMesh{Facets: facets}
}

// NewBox returns the closed box mesh spanning lo and hi.
func NewBox(lo, hi Vec3) TriangleMesh {
	return Extrude(Rect(lo.X, lo.Y, hi.X, hi.Y), lo.Z, hi.Z)
}

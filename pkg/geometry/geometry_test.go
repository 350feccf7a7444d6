package geometry_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/geometry"
)

func TestPolygonArea(t *testing.T) {
	t.Parallel()

	sq := geometry.Rect(0, 0, 2, 3)
	assert.InDelta(t, 6, sq.Area(), 1e-12)
	assert.True(t, sq.CCW())
	assert.InDelta(t, -6, sq.Reversed().Area(), 1e-12)
	assert.True(t, sq.Contains(vec.Vec2{X: 1, Y: 1}))
	assert.False(t, sq.Contains(vec.Vec2{X: 3, Y: 1}))
}

func TestBoxBoundingBox(t *testing.T) {
	t.Parallel()

	box := geometry.NewBox(geometry.Vec3{X: -1, Y: -2, Z: 0}, geometry.Vec3{X: 1, Y: 2, Z: 5})
	bb := box.BoundingBox()
	assert.Equal(t, geometry.Vec3{X: -1, Y: -2, Z: 0}, bb.Min)
	assert.Equal(t, geometry.Vec3{X: 1, Y: 2, Z: 5}, bb.Max)
	assert.Equal(t, geometry.Vec3{X: 2, Y: 4, Z: 5}, bb.Size())
	assert.Len(t, box.Facets, 12)
	assert.Equal(t, geometry.Box3{}, geometry.TriangleMesh{}.BoundingBox())
}

func TestSliceBox(t *testing.T) {
	t.Parallel()

	box := geometry.NewBox(geometry.Vec3{X: 0, Y: 0, Z: 0}, geometry.Vec3{X: 10, Y: 4, Z: 2})
	slices, err := geometry.Slicer{}.Slice(box, []float64{-1, 0.5, 1.5, 3})
	require.NoError(t, err)
	require.Len(t, slices, 4)

	assert.Empty(t, slices[0])
	assert.Empty(t, slices[3])
	for _, s := range slices[1:3] {
		require.Len(t, s, 1)
		assert.True(t, s[0].Contour.CCW())
		assert.Empty(t, s[0].Holes)
		assert.InDelta(t, 40, s.Area(), 1e-9)
	}
}

func TestSliceNestedBoxes(t *testing.T) {
	t.Parallel()

	outer := geometry.NewBox(geometry.Vec3{X: 0, Y: 0, Z: 0}, geometry.Vec3{X: 10, Y: 10, Z: 1})
	inner := geometry.NewBox(geometry.Vec3{X: 3, Y: 3, Z: 0}, geometry.Vec3{X: 7, Y: 7, Z: 1})
	island := geometry.NewBox(geometry.Vec3{X: 4, Y: 4, Z: 0}, geometry.Vec3{X: 6, Y: 6, Z: 1})

	got := geometry.SliceAt(geometry.Merge(outer, inner, island), 0.5)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Holes, 1)
	assert.False(t, got[0].Holes[0].CCW())
	assert.InDelta(t, 100-16, got[0].Area(), 1e-9)
	assert.Empty(t, got[1].Holes)
	assert.InDelta(t, 4, got[1].Area(), 1e-9)
}

func TestExPolygonsTransform(t *testing.T) {
	t.Parallel()

	s := geometry.ExPolygons{{Contour: geometry.Rect(0, 0, 1, 1)}}
	shift := matrix.Matrix{1, 0, 0, 1, 5, -2}
	got := s.Transform(shift)
	assert.Equal(t, vec.Vec2{X: 5, Y: -2}, got[0].Contour[0])
	assert.Equal(t, vec.Vec2{X: 6, Y: -1}, got[0].Contour[2])
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, s[0].Contour[0])

	quarter := matrix.Matrix{0, 1, -1, 0, 0, 0}
	p := geometry.Apply(quarter, vec.Vec2{X: 1, Y: 0})
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)
	assert.InDelta(t, s.Area(), s.Transform(quarter).Area(), 1e-12)
}

const asciiTriangle = `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`

func TestReadSTLASCII(t *testing.T) {
	t.Parallel()

	mesh, err := geometry.ReadSTL(strings.NewReader(asciiTriangle))
	require.NoError(t, err)
	require.Len(t, mesh.Facets, 1)
	assert.Equal(t, geometry.Vec3{X: 1}, mesh.Facets[0][1])
}

func TestReadSTLBinary(t *testing.T) {
	t.Parallel()

	box := geometry.NewBox(geometry.Vec3{}, geometry.Vec3{X: 1, Y: 2, Z: 3})
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(box.Facets))))
	for _, f := range box.Facets {
		rec := make([]float32, 12)
		for v := range 3 {
			rec[3+3*v] = float32(f[v].X)
			rec[4+3*v] = float32(f[v].Y)
			rec[5+3*v] = float32(f[v].Z)
		}
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, rec))
		buf.Write([]byte{0, 0})
	}

	mesh, err := geometry.ReadSTL(&buf)
	require.NoError(t, err)
	assert.Equal(t, box, mesh)
}

func TestReadSTLInvalid(t *testing.T) {
	t.Parallel()

	_, err := geometry.ReadSTL(strings.NewReader("not a mesh"))
	require.ErrorIs(t, err, geometry.ErrInvalidSTL)

	_, err = geometry.ReadSTL(strings.NewReader("solid x\nfacet\nvertex 0 0\nendfacet\n"))
	require.ErrorIs(t, err, geometry.ErrInvalidSTL)
}

func TestExtrudeDegenerate(t *testing.T) {
	t.Parallel()

	assert.True(t, geometry.Extrude(geometry.Rect(0, 0, 1, 1), 1, 1).Empty())
	assert.True(t, geometry.Extrude(geometry.Polygon{{X: 0, Y: 0}}, 0, 1).Empty())
	assert.False(t, math.IsNaN(geometry.Polygon{}.Area()))
}

package sla

import (
	"math"

	"github.com/pkg/errors"
	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/geometry"
)

type pillar struct {
	center      vec.Vec2
	bottom, top float64
	width, head float64
}

// headLength is the height of the contact head at the top of the pillar.
func (p pillar) headLength() float64 {
	return math.Min(p.head, p.top-p.bottom)
}

func (p pillar) section(z float64) (geometry.Polygon, bool) {
	if z < p.bottom || z > p.top {
		return nil, false
	}
	w := p.width
	if z >= p.top-p.headLength() {
		w = p.head
	}
	return square(p.center, w), true
}

func (p pillar) mesh() geometry.TriangleMesh {
	split := p.top - p.headLength()
	return geometry.Merge(
		geometry.Extrude(square(p.center, p.width), p.bottom, split),
		geometry.Extrude(square(p.center, p.head), split, p.top),
	)
}

type pad struct {
	footprints  []geometry.Polygon
	bottom, top float64
}

// Tree is a synthesised support tree.
type Tree struct {
	ground  float64
	pillars []pillar
	pad     *pad
}

type nopController struct{}

func (nopController) Report(int, string) {}
func (nopController) Stopped() bool      { return false }

// Build creates one pillar per support point, from the platform up to the point.
// ctl is polled before every pillar; a nil ctl never stops.
func Build(points PointSet, mesh *IndexedMesh, cfg Config, ctl Controller) (*Tree, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctl == nil {
		ctl = nopController{}
	}

	tree := &Tree{ground: mesh.Ground()}
	ctl.Report(0, "Starting support generation")
	for i, pt := range points {
		if ctl.Stopped() {
			return nil, ErrStopped
		}
		if pt.Pos.Z > tree.ground {
			head := cfg.HeadWidth
			if pt.HeadRadius > 0 {
				head = 2 * pt.HeadRadius
			}
			if head == 0 {
				head = cfg.PillarWidth
			}
			tree.pillars = append(tree.pillars, pillar{
				center: vec.Vec2{X: pt.Pos.X, Y: pt.Pos.Y},
				bottom: tree.ground,
				top:    pt.Pos.Z,
				width:  cfg.PillarWidth,
				head:   head,
			})
		}
		ctl.Report((i+1)*100/len(points), "Generating pillars")
	}
	if ctl.Stopped() {
		return nil, ErrStopped
	}
	return tree, nil
}

// Pillars returns the number of pillars in the tree.
func (t *Tree) Pillars() int {
	return len(t.pillars)
}

// HasPad reports whether a pad was added.
func (t *Tree) HasPad() bool {
	return t.pad != nil
}

// AddPad adds a base plate below the pillars, replacing any previous one. Pillars closer
// than MaxMergeDistance share a footprint.
func (t *Tree) AddPad(cfg PadConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p := &pad{bottom: t.ground, top: t.ground + cfg.WallHeight}
	for _, group := range t.clusters(cfg.MaxMergeDistance) {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, i := range group {
			pl := t.pillars[i]
			half := pl.width / 2
			minX, maxX = math.Min(minX, pl.center.X-half), math.Max(maxX, pl.center.X+half)
			minY, maxY = math.Min(minY, pl.center.Y-half), math.Max(maxY, pl.center.Y+half)
		}
		wt := cfg.WallThickness
		p.footprints = append(p.footprints, chamfer(minX-wt, minY-wt, maxX+wt, maxY+wt, cfg.EdgeRadius))
	}
	t.pad = p
	return nil
}

// clusters groups pillar indices whose centres are within dist of each other, transitively.
func (t *Tree) clusters(dist float64) [][]int {
	parent := make([]int, len(t.pillars))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := range t.pillars {
		for j := i + 1; j < len(t.pillars); j++ {
			d := t.pillars[i].center.Sub(t.pillars[j].center).Length()
			if d <= dist {
				parent[find(j)] = find(i)
			}
		}
	}

	var out [][]int
	index := make(map[int]int)
	for i := range t.pillars {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(out)
			index[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], i)
	}
	return out
}

func (t *Tree) top() float64 {
	top := t.ground
	for _, p := range t.pillars {
		top = math.Max(top, p.top)
	}
	if t.pad != nil {
		top = math.Max(top, t.pad.top)
	}
	return top
}

// Slice cuts the tree (and its pad) at heights initial + i*layerHeight above the platform.
// The first slice always exists.
func (t *Tree) Slice(initial, layerHeight float64) ([]geometry.ExPolygons, error) {
	if layerHeight <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "layer height must be positive, got %v", layerHeight)
	}
	top := t.top()
	var out []geometry.ExPolygons
	for i := 0; ; i++ {
		z := t.ground + initial + float64(i)*layerHeight
		if i > 0 && z >= top {
			break
		}
		out = append(out, t.sliceAt(z))
	}
	return out, nil
}

func (t *Tree) sliceAt(z float64) geometry.ExPolygons {
	var out geometry.ExPolygons
	if t.pad != nil && z >= t.pad.bottom && z <= t.pad.top {
		for _, fp := range t.pad.footprints {
			out = append(out, geometry.ExPolygon{Contour: fp})
		}
	}
	for _, p := range t.pillars {
		if sec, ok := p.section(z); ok {
			out = append(out, geometry.ExPolygon{Contour: sec})
		}
	}
	return out
}

// MergedMesh returns the mesh of every pillar and of the pad.
func (t *Tree) MergedMesh() geometry.TriangleMesh {
	meshes := make([]geometry.TriangleMesh, 0, len(t.pillars)+1)
	for _, p := range t.pillars {
		meshes = append(meshes, p.mesh())
	}
	meshes = append(meshes, t.PadMesh())
	return geometry.Merge(meshes...)
}

// PadMesh returns the mesh of the pad, empty when no pad was added.
func (t *Tree) PadMesh() geometry.TriangleMesh {
	if t.pad == nil {
		return geometry.TriangleMesh{}
	}
	meshes := make([]geometry.TriangleMesh, len(t.pad.footprints))
	for i, fp := range t.pad.footprints {
		meshes[i] = geometry.Extrude(fp, t.pad.bottom, t.pad.top)
	}
	return geometry.Merge(meshes...)
}

func square(c vec.Vec2, w float64) geometry.Polygon {
	h := w / 2
	return geometry.Rect(c.X-h, c.Y-h, c.X+h, c.Y+h)
}

// chamfer cuts the corners of a rectangle by r, clamped below half the shortest side.
func chamfer(minX, minY, maxX, maxY, r float64) geometry.Polygon {
	r = math.Min(r, 0.49*math.Min(maxX-minX, maxY-minY))
	if r <= 0 {
		return geometry.Rect(minX, minY, maxX, maxY)
	}
	return geometry.Polygon{
		{X: minX + r, Y: minY},
		{X: maxX - r, Y: minY},
		{X: maxX, Y: minY + r},
		{X: maxX, Y: maxY - r},
		{X: maxX - r, Y: maxY},
		{X: minX + r, Y: maxY},
		{X: minX, Y: maxY - r},
		{X: minX, Y: minY + r},
	}
}

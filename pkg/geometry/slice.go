package geometry

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"
)

// Slicer cuts triangle meshes with horizontal planes.
type Slicer struct{}

// Slice returns one slice per absolute height in zs.
func (Slicer) Slice(m TriangleMesh, zs []float64) ([]ExPolygons, error) {
	out := make([]ExPolygons, len(zs))
	for i, z := range zs {
		out[i] = SliceAt(m, z)
	}
	return out, nil
}

// SliceAt cuts m with the plane at height z. Open chains, which only appear
// for meshes that are not watertight, are dropped.
func SliceAt(m TriangleMesh, z float64) ExPolygons {
	segs := make([][2]vec.Vec2, 0)
	for _, f := range m.Facets {
		var pts []vec.Vec2
		for e := range 3 {
			a, b := f[e], f[(e+1)%3]
			if (a.Z < z) != (b.Z < z) {
				pts = append(pts, edgePoint(a, b, z))
			}
		}
		if len(pts) == 2 && pts[0] != pts[1] {
			segs = append(segs, [2]vec.Vec2{pts[0], pts[1]})
		}
	}
	return nest(chain(segs))
}

// edgePoint orders the edge by height so both facets sharing it compute the
// exact same intersection point.
func edgePoint(a, b Vec3, z float64) vec.Vec2 {
	if a.Z > b.Z {
		a, b = b, a
	}
	t := (z - a.Z) / (b.Z - a.Z)
	return vec.Vec2{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}
}

func chain(segs [][2]vec.Vec2) []Polygon {
	adj := make(map[vec.Vec2][]int, 2*len(segs))
	for i, s := range segs {
		adj[s[0]] = append(adj[s[0]], i)
		adj[s[1]] = append(adj[s[1]], i)
	}
	used := make([]bool, len(segs))
	var loops []Polygon
	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		start, cur := segs[i][0], segs[i][1]
		loop := Polygon{start}
		for cur != start {
			loop = append(loop, cur)
			next := -1
			for _, j := range adj[cur] {
				if !used[j] {
					next = j
					break
				}
			}
			if next < 0 {
				loop = nil
				break
			}
			used[next] = true
			if segs[next][0] == cur {
				cur = segs[next][1]
			} else {
				cur = segs[next][0]
			}
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// nest classifies loops by containment depth: even depth loops become
// counter-clockwise contours, odd depth loops clockwise holes of the smallest
// loop containing them.
func nest(loops []Polygon) ExPolygons {
	slices.SortStableFunc(loops, func(a, b Polygon) int {
		return cmp.Compare(math.Abs(b.Area()), math.Abs(a.Area()))
	})
	depth := make([]int, len(loops))
	parent := make([]int, len(loops))
	for i, l := range loops {
		parent[i] = -1
		for j := range i {
			if loops[j].Contains(l[0]) {
				depth[i]++
				parent[i] = j
			}
		}
	}

	var out ExPolygons
	index := make(map[int]int, len(loops))
	for i, l := range loops {
		if depth[i]%2 == 0 {
			if !l.CCW() {
				l = l.Reversed()
			}
			index[i] = len(out)
			out = append(out, ExPolygon{Contour: l})
			continue
		}
		if l.CCW() {
			l = l.Reversed()
		}
		k, ok := index[parent[i]]
		if !ok {
			continue
		}
		out[k].Holes = append(out[k].Holes, l)
	}
	return out
}

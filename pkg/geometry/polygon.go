package geometry

import (
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Polygon is a closed polygon given by its vertices; the closing edge is implicit.
type Polygon []vec.Vec2

// Area returns the signed area, positive for counter-clockwise polygons.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var a float64
	prev := p[len(p)-1]
	for _, cur := range p {
		a += prev.X*cur.Y - cur.X*prev.Y
		prev = cur
	}
	return a / 2
}

// CCW reports whether the polygon is counter-clockwise.
func (p Polygon) CCW() bool {
	return p.Area() > 0
}

// Reversed returns a copy of p with the opposite orientation.
func (p Polygon) Reversed() Polygon {
	out := slices.Clone(p)
	slices.Reverse(out)
	return out
}

// Contains reports whether pt lies inside p, using the even-odd rule.
func (p Polygon) Contains(pt vec.Vec2) bool {
	inside := false
	j := len(p) - 1
	for i := range p {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Transform applies m to every vertex.
func (p Polygon) Transform(m matrix.Matrix) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = Apply(m, v)
	}
	return out
}

// Apply maps v through the affine matrix m, using the row-vector convention
// of seehuhn.de/go/geom: x' = a*x + c*y + e, y' = b*x + d*y + f.
func Apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// ExPolygon is a counter-clockwise contour with clockwise holes.
type ExPolygon struct {
	Contour Polygon
	Holes   []Polygon
}

// Area returns the contour area minus the hole areas.
func (e ExPolygon) Area() float64 {
	a := e.Contour.Area()
	for _, h := range e.Holes {
		a += h.Area()
	}
	return a
}

// Transform applies m to the contour and every hole.
func (e ExPolygon) Transform(m matrix.Matrix) ExPolygon {
	out := ExPolygon{Contour: e.Contour.Transform(m)}
	if len(e.Holes) > 0 {
		out.Holes = make([]Polygon, len(e.Holes))
		for i, h := range e.Holes {
			out.Holes[i] = h.Transform(m)
		}
	}
	return out
}

// ExPolygons is the content of a single slice.
type ExPolygons []ExPolygon

// Area returns the total area of the slice.
func (s ExPolygons) Area() float64 {
	var a float64
	for _, e := range s {
		a += e.Area()
	}
	return a
}

// Transform applies m to every expolygon of the slice.
func (s ExPolygons) Transform(m matrix.Matrix) ExPolygons {
	out := make(ExPolygons, len(s))
	for i, e := range s {
		out[i] = e.Transform(m)
	}
	return out
}

// Rect returns the counter-clockwise rectangle with the given corners.
func Rect(minX, minY, maxX, maxY float64) Polygon {
	return Polygon{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
}

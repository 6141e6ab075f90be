package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Sphere is the unit sphere centered at the origin.
type Sphere struct{}

func (Sphere) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	o, d := ray.Origin, ray.Direction
	q := xmath.Quadratic{
		A: d.Dot(d),
		B: 2 * o.Dot(d),
		C: o.Dot(o) - 1,
	}
	for _, t := range q.Solve() {
		if !r.Contains(t) {
			continue
		}
		p := ray.At(t)
		return trace.Intersection{T: t, Point: p, Normal: p}, true
	}
	return trace.Intersection{}, false
}

func (Sphere) Bounds() trace.AABB {
	return trace.NewAABB(xmath.NewVec3(-1, -1, -1), xmath.NewVec3(1, 1, 1))
}

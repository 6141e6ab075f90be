package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

const (
	cylinderRadius = 1.0
	cylinderHalfH  = 0.5
)

// Cylinder is an open tube along y, radius 1, y in [-0.5, 0.5]. Caps are
// intentionally omitted — reproduced as-is from the source this is adapted
// from; see the Open Questions note in SPEC_FULL.md.
type Cylinder struct{}

func (Cylinder) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	o, d := ray.Origin, ray.Direction
	q := xmath.Quadratic{
		A: d.X*d.X + d.Z*d.Z,
		B: 2 * (o.X*d.X + o.Z*d.Z),
		C: o.X*o.X + o.Z*o.Z - cylinderRadius*cylinderRadius,
	}
	for _, t := range q.Solve() {
		if !r.Contains(t) {
			continue
		}
		p := ray.At(t)
		if p.Y < -cylinderHalfH-xmath.Epsilon || p.Y > cylinderHalfH+xmath.Epsilon {
			continue
		}
		return trace.Intersection{T: t, Point: p, Normal: xmath.NewVec3(p.X, 0, p.Z)}, true
	}
	return trace.Intersection{}, false
}

func (Cylinder) Bounds() trace.AABB {
	return trace.NewAABB(
		xmath.NewVec3(-cylinderRadius, -cylinderHalfH, -cylinderRadius),
		xmath.NewVec3(cylinderRadius, cylinderHalfH, cylinderRadius),
	)
}

package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Cube is the unit AABB [-0.5, 0.5]^3.
type Cube struct{}

type cubeFace struct {
	point, normal xmath.Vec3
}

var cubeFaces = [6]cubeFace{
	{xmath.NewVec3(0.5, 0, 0), xmath.NewVec3(1, 0, 0)},
	{xmath.NewVec3(-0.5, 0, 0), xmath.NewVec3(-1, 0, 0)},
	{xmath.NewVec3(0, 0.5, 0), xmath.NewVec3(0, 1, 0)},
	{xmath.NewVec3(0, -0.5, 0), xmath.NewVec3(0, -1, 0)},
	{xmath.NewVec3(0, 0, 0.5), xmath.NewVec3(0, 0, 1)},
	{xmath.NewVec3(0, 0, -0.5), xmath.NewVec3(0, 0, -1)},
}

// cubeContains reports whether p lies within the cube, inflated by epsilon to
// avoid shadow acne on axis-aligned configurations.
func cubeContains(p xmath.Vec3) bool {
	const half = 0.5 + xmath.Epsilon
	return absF(p.X) <= half && absF(p.Y) <= half && absF(p.Z) <= half
}

func (Cube) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	best := r.End
	var bestFace cubeFace
	found := false

	for _, f := range cubeFaces {
		denom := ray.Direction.Dot(f.normal)
		if absF(denom) < xmath.Epsilon {
			continue
		}
		t := f.point.Sub(ray.Origin).Dot(f.normal) / denom
		if t < r.Start || t >= best {
			continue
		}
		p := ray.At(t)
		// Containment on the two axes this face doesn't fix.
		local := p.Sub(f.point)
		var lateral xmath.Vec3
		switch {
		case f.normal.X != 0:
			lateral = xmath.NewVec3(0, local.Y, local.Z)
		case f.normal.Y != 0:
			lateral = xmath.NewVec3(local.X, 0, local.Z)
		default:
			lateral = xmath.NewVec3(local.X, local.Y, 0)
		}
		if !cubeContains(lateral) {
			continue
		}
		best = t
		bestFace = f
		found = true
	}

	if !found {
		return trace.Intersection{}, false
	}
	return trace.Intersection{T: best, Point: ray.At(best), Normal: bestFace.normal}, true
}

func (Cube) Bounds() trace.AABB {
	return trace.NewAABB(xmath.NewVec3(-0.5, -0.5, -0.5), xmath.NewVec3(0.5, 0.5, 0.5))
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

const (
	coneRadius     = 0.5
	coneHeight     = 1.0
	coneHalfHeight = 0.5
)

// Cone has its apex at y=0.5, cap at y=-0.5, radius 0.5 at the cap.
type Cone struct{}

func (Cone) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	body, bodyOK := coneRayHitBody(ray, r)
	cap, capOK := coneRayHitCap(ray, r)

	switch {
	case bodyOK && capOK:
		if body.T <= cap.T {
			return body, true
		}
		return cap, true
	case bodyOK:
		return body, true
	case capOK:
		return cap, true
	default:
		return trace.Intersection{}, false
	}
}

func coneRayHitBody(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	o, d := ray.Origin, ray.Direction
	R, H := coneRadius, coneHeight

	a := 4*d.Y*d.Y*R*R - 4*H*H*(d.X*d.X+d.Z*d.Z)
	b := -8*H*H*(d.X*o.X+d.Z*o.Z) - 4*R*R*(d.Y*H-2*d.Y*o.Y)
	c := -4*H*H*(o.X*o.X+o.Z*o.Z) + R*R*(H*H-4*H*o.Y+4*o.Y*o.Y)

	for _, t := range (xmath.Quadratic{A: a, B: b, C: c}).Solve() {
		if !r.Contains(t) {
			continue
		}
		p := ray.At(t)
		if p.Y < -coneHalfHeight-xmath.Epsilon || p.Y > coneHalfHeight+xmath.Epsilon {
			continue
		}
		return trace.Intersection{T: t, Point: p, Normal: coneNormal(p)}, true
	}
	return trace.Intersection{}, false
}

// coneNormal derives the side normal geometrically from the apex, the hit
// point, and its mirror about the cone's axis, avoiding explicit
// trigonometry.
func coneNormal(hit xmath.Vec3) xmath.Vec3 {
	apex := xmath.NewVec3(0, coneHalfHeight, 0)
	tangent1 := apex.Sub(hit)
	opposite := xmath.NewVec3(-hit.X, hit.Y, -hit.Z)
	across := opposite.Sub(hit)
	tangent2 := tangent1.Cross(across)
	n := tangent1.Cross(tangent2)
	if n.Dot(xmath.NewVec3(hit.X, 0, hit.Z)) < 0 {
		n = n.Negate()
	}
	return n
}

func coneRayHitCap(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	d := ray.Direction.Y
	if absF(d) < xmath.Epsilon {
		return trace.Intersection{}, false
	}
	t := (-coneHalfHeight - ray.Origin.Y) / d
	if !r.Contains(t) {
		return trace.Intersection{}, false
	}
	p := ray.At(t)
	if p.X*p.X+p.Z*p.Z > coneRadius*coneRadius+xmath.Epsilon {
		return trace.Intersection{}, false
	}
	return trace.Intersection{T: t, Point: p, Normal: xmath.NewVec3(0, -1, 0)}, true
}

func (Cone) Bounds() trace.AABB {
	return trace.NewAABB(
		xmath.NewVec3(-coneRadius, -coneHalfHeight, -coneRadius),
		xmath.NewVec3(coneRadius, coneHalfHeight, coneRadius),
	)
}

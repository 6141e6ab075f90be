// Package trace holds the types shared by every ray-primitive intersection
// routine: the ray itself, its intersection record, the [start, end) range a
// search is bounded to, and the axis-aligned bounding box used by the mesh
// fast-reject and the k-d tree.
package trace

import "github.com/sunjay/portrayer-sub000/internal/xmath"

// Ray is an origin point and a direction. The direction is expected to be
// normalized at construction; Transformed does not renormalize, matching
// the contract that t is only a distance within a single coordinate system.
type Ray struct {
	Origin    xmath.Vec3
	Direction xmath.Vec3
}

func NewRay(origin, direction xmath.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At evaluates the ray at parameter t.
func (r Ray) At(t float64) xmath.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transformed maps the ray through an affine matrix without renormalizing
// the resulting direction.
func (r Ray) Transformed(m xmath.Mat4) Ray {
	return Ray{
		Origin:    m.TransformPoint(r.Origin),
		Direction: m.TransformDirection(r.Direction),
	}
}

// Range is a half-open parameter interval [Start, End) that narrows as a
// nearest-intersection search proceeds: every accepted hit tightens End so
// later candidates can only improve on it or be rejected outright.
type Range struct {
	Start, End float64
}

func (r Range) Contains(t float64) bool { return t >= r.Start && t < r.End }

// Intersection is the result of a successful ray-primitive hit.
type Intersection struct {
	T        float64
	Point    xmath.Vec3
	Normal   xmath.Vec3 // not necessarily unit length
	UV       *xmath.Vec2
	TangentToWorld *xmath.Mat3 // tangent-space basis for normal mapping; no primitive in this module sets it
}

// Hit is the interface every primitive implements: intersect a ray against
// the object's own local geometry, bounded to the given range.
type Hit interface {
	RayHit(ray Ray, r Range) (Intersection, bool)
}

// Bounded is implemented by anything that can report a local-space
// axis-aligned bounding box (used by meshes and by the k-d tree).
type Bounded interface {
	Bounds() AABB
}

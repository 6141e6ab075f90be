package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// FinitePlane is the y=0 square with extent [-0.5, 0.5] in x and z, normal +y.
type FinitePlane struct{}

func (FinitePlane) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	d := ray.Direction.Y
	if absF(d) < xmath.Epsilon {
		return trace.Intersection{}, false
	}
	t := -ray.Origin.Y / d
	if !r.Contains(t) {
		return trace.Intersection{}, false
	}
	p := ray.At(t)
	const half = 0.5 + xmath.Epsilon
	if absF(p.X) > half || absF(p.Z) > half {
		return trace.Intersection{}, false
	}
	return trace.Intersection{T: t, Point: p, Normal: xmath.Vec3Up}, true
}

func (FinitePlane) Bounds() trace.AABB {
	return trace.NewAABB(xmath.NewVec3(-0.5, 0, -0.5), xmath.NewVec3(0.5, 0, 0.5))
}

// Axis identifies one of the three coordinate axes an InfinitePlane's
// normal is aligned with.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// InfinitePlaneSign is the direction of the plane's normal along its axis:
// +1 (e.g. InfinitePlaneUp, InfinitePlaneRight, InfinitePlaneFront) or -1
// (InfinitePlaneDown, InfinitePlaneLeft, InfinitePlaneBack).
type InfinitePlaneSign int

const (
	Positive InfinitePlaneSign = 1
	Negative InfinitePlaneSign = -1
)

// InfinitePlane is an axis-aligned plane through a point with no lateral
// containment test — it hits everywhere on that plane.
type InfinitePlane struct {
	Point xmath.Vec3
	Axis  Axis
	Sign  InfinitePlaneSign
}

func (p InfinitePlane) normal() xmath.Vec3 {
	v := 0.0
	switch p.Sign {
	case Positive:
		v = 1
	default:
		v = -1
	}
	switch p.Axis {
	case AxisX:
		return xmath.NewVec3(v, 0, 0)
	case AxisY:
		return xmath.NewVec3(0, v, 0)
	default:
		return xmath.NewVec3(0, 0, v)
	}
}

func (p InfinitePlane) axisComponent(v xmath.Vec3) float64 {
	return AxisComponent(p.Axis, v)
}

// AxisComponent picks out v's component along axis, used by the k-d tree
// build to measure a bounding box's extent and midpoint along its current
// splitting axis without constructing a throwaway InfinitePlane.
func AxisComponent(axis Axis, v xmath.Vec3) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// NextAxis cycles x -> y -> z -> x, the fixed rotation the k-d tree build
// uses to pick each successive level's splitting axis.
func NextAxis(axis Axis) Axis {
	switch axis {
	case AxisX:
		return AxisY
	case AxisY:
		return AxisZ
	default:
		return AxisX
	}
}

func (p InfinitePlane) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	d := p.axisComponent(ray.Direction)
	if absF(d) < xmath.Epsilon {
		return trace.Intersection{}, false
	}
	t := (p.axisComponent(p.Point) - p.axisComponent(ray.Origin)) / d
	if !r.Contains(t) {
		return trace.Intersection{}, false
	}
	return trace.Intersection{T: t, Point: ray.At(t), Normal: p.normal()}, true
}

// Bounds is a box reaching ±1e6 along the two free axes and flat along the
// normal axis. The scene flattener and the k-d tree build treat an
// InfinitePlane like any other geometry, so it is indexed in every k-d tree
// leaf that box reaches.
func (p InfinitePlane) Bounds() trace.AABB {
	const big = 1e6
	min, max := xmath.NewVec3(-big, -big, -big), xmath.NewVec3(big, big, big)
	switch p.Axis {
	case AxisX:
		min.X, max.X = p.Point.X, p.Point.X
	case AxisY:
		min.Y, max.Y = p.Point.Y, p.Point.Y
	default:
		min.Z, max.Z = p.Point.Z, p.Point.Z
	}
	return trace.NewAABB(min, max)
}

// Which reports which side of the plane a point lies on, used by the k-d
// tree's Front/Back traversal classification.
type Side int

const (
	Front Side = iota
	Back
)

func (p InfinitePlane) Which(point xmath.Vec3) Side {
	diff := (p.axisComponent(point) - p.axisComponent(p.Point)) * float64(p.Sign)
	if diff >= 0 {
		return Front
	}
	return Back
}

package trace

import "github.com/sunjay/portrayer-sub000/internal/xmath"

// AABB is an axis-aligned bounding box: min <= max component-wise. Each
// component of max-min is kept at least xmath.Epsilon so that flat (zero
// thickness) objects — a finite plane, say — still have an invertible
// cube-transform cache.
type AABB struct {
	Min, Max xmath.Vec3

	trans       xmath.Mat4 // cube [-0.5,0.5]^3 -> this box
	invTrans    xmath.Mat4
	normalTrans xmath.Mat4 // inverse-transpose of trans, for normal transforms
}

// NewAABB builds a box from two corners, inflating degenerate extents and
// caching the cube-transform triple. Panics if min > max on any axis — a
// SceneConstructionError in the caller's terms, checked once at scene build
// time, never during rendering.
func NewAABB(min, max xmath.Vec3) AABB {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		panic("trace: AABB min must be <= max component-wise")
	}

	fix := func(lo, hi float64) (float64, float64) {
		if hi-lo < xmath.Epsilon {
			mid := (lo + hi) / 2
			return mid - xmath.Epsilon/2, mid + xmath.Epsilon/2
		}
		return lo, hi
	}
	min.X, max.X = fix(min.X, max.X)
	min.Y, max.Y = fix(min.Y, max.Y)
	min.Z, max.Z = fix(min.Z, max.Z)

	center := min.Add(max).Mul(0.5)
	extent := max.Sub(min)
	trans := xmath.Mat4Translation(center).Mul(xmath.Mat4Scale(extent))
	inv, ok := trans.Inverse()
	if !ok {
		inv = xmath.Mat4Identity()
	}
	return AABB{
		Min: min, Max: max,
		trans:       trans,
		invTrans:    inv,
		normalTrans: inv.Transpose(),
	}
}

// Union returns the smallest AABB containing both boxes.
func (b AABB) Union(o AABB) AABB {
	min := xmath.Vec3{
		X: minF(b.Min.X, o.Min.X),
		Y: minF(b.Min.Y, o.Min.Y),
		Z: minF(b.Min.Z, o.Min.Z),
	}
	max := xmath.Vec3{
		X: maxF(b.Max.X, o.Max.X),
		Y: maxF(b.Max.Y, o.Max.Y),
		Z: maxF(b.Max.Z, o.Max.Z),
	}
	return NewAABB(min, max)
}

// Transformed maps the box through an affine matrix by transforming all
// eight corners and taking the component-wise min/max. Rotations can enlarge
// the box; this is accepted, matching the ray tracer this is adapted from.
func (b AABB) Transformed(m xmath.Mat4) AABB {
	corners := [8]xmath.Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
	min := m.TransformPoint(corners[0])
	max := min
	for _, c := range corners[1:] {
		p := m.TransformPoint(c)
		min = xmath.Vec3{X: minF(min.X, p.X), Y: minF(min.Y, p.Y), Z: minF(min.Z, p.Z)}
		max = xmath.Vec3{X: maxF(max.X, p.X), Y: maxF(max.Y, p.Y), Z: maxF(max.Z, p.Z)}
	}
	return NewAABB(min, max)
}

// Extent is used by the k-d tree traversal as a conservative upper bound on
// how far a ray can travel before leaving the node's box. It is the
// *squared* magnitude of the diagonal, not the magnitude — reproduced
// as-is from the source this is adapted from, where using the true
// magnitude let the traversal's t_max clip a hit that is still inside the
// box.
func (b AABB) Extent() float64 {
	return b.Max.Sub(b.Min).LengthSqr()
}

// TestHit reports whether the ray enters this box within r, and if so the
// parameter at which it does (r.Start itself, if the ray origin already
// lies inside the box).
func (b AABB) TestHit(ray Ray, r Range) (float64, bool) {
	localOrigin := b.invTrans.TransformPoint(ray.At(r.Start))
	if unitCubeContains(localOrigin) {
		return r.Start, true
	}
	localRay := ray.Transformed(b.invTrans)
	return unitCubeRayHitT(localRay, r)
}

func unitCubeContains(p xmath.Vec3) bool {
	const half = 0.5 + xmath.Epsilon
	return abs(p.X) <= half && abs(p.Y) <= half && abs(p.Z) <= half
}

// unitCubeRayHitT intersects a ray against the canonical [-0.5,0.5]^3 cube
// via its six axis-aligned face planes, keeping the nearest admissible hit.
// Duplicated (rather than imported) from the primitive package's Cube to
// avoid a package cycle: trace is a dependency of primitive, not the other
// way around.
func unitCubeRayHitT(ray Ray, r Range) (float64, bool) {
	type axisPlane struct {
		axis int
		sign float64
	}
	planes := [6]axisPlane{
		{0, 0.5}, {0, -0.5},
		{1, 0.5}, {1, -0.5},
		{2, 0.5}, {2, -0.5},
	}

	best := r.End
	found := false
	for _, p := range planes {
		var o, d float64
		switch p.axis {
		case 0:
			o, d = ray.Origin.X, ray.Direction.X
		case 1:
			o, d = ray.Origin.Y, ray.Direction.Y
		default:
			o, d = ray.Origin.Z, ray.Direction.Z
		}
		if abs(d) < xmath.Epsilon {
			continue
		}
		t := (p.sign - o) / d
		if t < r.Start || t >= best {
			continue
		}
		hit := ray.At(t)
		if unitCubeOtherAxesContain(hit, p.axis) {
			best = t
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best, true
}

func unitCubeOtherAxesContain(p xmath.Vec3, skipAxis int) bool {
	const half = 0.5 + xmath.Epsilon
	ok := true
	if skipAxis != 0 {
		ok = ok && abs(p.X) <= half
	}
	if skipAxis != 1 {
		ok = ok && abs(p.Y) <= half
	}
	if skipAxis != 2 {
		ok = ok && abs(p.Z) <= half
	}
	return ok
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

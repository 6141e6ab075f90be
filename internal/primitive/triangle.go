package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Triangle is three vertex positions with optional per-vertex normals
// (Smooth shading) and optional per-vertex UVs.
type Triangle struct {
	A, B, C          xmath.Vec3
	NormalA, NormalB, NormalC xmath.Vec3
	HasNormals       bool
	UVA, UVB, UVC    xmath.Vec2
	HasUVs           bool
}

// FlatTriangle builds a triangle with no per-vertex normals or UVs; its
// normal comes from the face cross product.
func FlatTriangle(a, b, c xmath.Vec3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// RayHit solves the barycentric system with Cramer's rule, exactly per
// Shirley's formulation: early-reject on a near-zero determinant (so a
// degenerate, collinear triangle produces no hit rather than a division
// blow-up), then on t, then gamma, then beta, in that order.
func (tr Triangle) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	a, b, c := tr.A.X-tr.B.X, tr.A.Y-tr.B.Y, tr.A.Z-tr.B.Z
	d, e, f := tr.A.X-tr.C.X, tr.A.Y-tr.C.Y, tr.A.Z-tr.C.Z
	g, h, i := ray.Direction.X, ray.Direction.Y, ray.Direction.Z
	j, k, l := tr.A.X-ray.Origin.X, tr.A.Y-ray.Origin.Y, tr.A.Z-ray.Origin.Z

	eiMinusHf := e*i - h*f
	gfMinusDi := g*f - d*i
	dhMinusEg := d*h - e*g

	m := a*eiMinusHf + b*gfMinusDi + c*dhMinusEg
	if absF(m) < xmath.Epsilon {
		return trace.Intersection{}, false
	}

	akMinusJb := a*k - j*b
	jcMinusAl := j*c - a*l
	blMinusKc := b*l - k*c

	t := -(f*akMinusJb + e*jcMinusAl + d*blMinusKc) / m
	if !r.Contains(t) {
		return trace.Intersection{}, false
	}

	gamma := (i*akMinusJb + h*jcMinusAl + g*blMinusKc) / m
	if gamma < 0 || gamma > 1 {
		return trace.Intersection{}, false
	}

	beta := (j*eiMinusHf + k*gfMinusDi + l*dhMinusEg) / m
	if beta < 0 || beta > 1-gamma {
		return trace.Intersection{}, false
	}
	alpha := 1 - beta - gamma

	hit := ray.At(t)

	var normal xmath.Vec3
	if tr.HasNormals {
		normal = tr.NormalA.Mul(alpha).Add(tr.NormalB.Mul(beta)).Add(tr.NormalC.Mul(gamma))
	} else {
		normal = tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A))
	}

	result := trace.Intersection{T: t, Point: hit, Normal: normal}
	if tr.HasUVs {
		uv := xmath.Vec2{
			X: tr.UVA.X*alpha + tr.UVB.X*beta + tr.UVC.X*gamma,
			Y: 1.0 - (tr.UVA.Y*alpha + tr.UVB.Y*beta + tr.UVC.Y*gamma),
		}
		result.UV = &uv
	}
	return result, true
}

func (tr Triangle) Bounds() trace.AABB {
	min := xmath.Vec3{
		X: minF3(tr.A.X, tr.B.X, tr.C.X),
		Y: minF3(tr.A.Y, tr.B.Y, tr.C.Y),
		Z: minF3(tr.A.Z, tr.B.Z, tr.C.Z),
	}
	max := xmath.Vec3{
		X: maxF3(tr.A.X, tr.B.X, tr.C.X),
		Y: maxF3(tr.A.Y, tr.B.Y, tr.C.Y),
		Z: maxF3(tr.A.Z, tr.B.Z, tr.C.Z),
	}
	return trace.NewAABB(min, max)
}

func minF3(a, b, c float64) float64 { return minF2(minF2(a, b), c) }
func maxF3(a, b, c float64) float64 { return maxF2(maxF2(a, b), c) }
func minF2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxF2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

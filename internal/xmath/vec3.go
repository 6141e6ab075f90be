// Package xmath provides the vector, matrix, and scalar-equation primitives
// the ray tracer's geometry layer is built on. Everything here is plain
// value-type math: no allocation, no pointers, no error returns.
package xmath

import "math"

// Epsilon is the default tolerance used throughout the geometry layer for
// discriminant comparisons, containment tests, and degenerate-extent checks.
const Epsilon = 1e-5

// Vec3 is a 3-component vector used for points, directions, and colors.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Vec3Zero  = Vec3{0, 0, 0}
	Vec3One   = Vec3{1, 1, 1}
	Vec3Up    = Vec3{0, 1, 0}
	Vec3Down  = Vec3{0, -1, 0}
	Vec3Right = Vec3{1, 0, 0}
	Vec3Left  = Vec3{-1, 0, 0}
	Vec3Front = Vec3{0, 0, -1}
	Vec3Back  = Vec3{0, 0, 1}
)

func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) MulVec(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Div(s float64) Vec3 { return v.Mul(1.0 / s) }
func (v Vec3) Negate() Vec3       { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSqr() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Length() float64    { return math.Sqrt(v.LengthSqr()) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l > 0 {
		return v.Mul(1.0 / l)
	}
	return v
}

func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Length() }

func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Mul(t)) }

// MaxComponent returns the largest of the three channels.
func (v Vec3) MaxComponent() float64 {
	m := v.X
	if v.Y > m {
		m = v.Y
	}
	if v.Z > m {
		m = v.Z
	}
	return m
}

func (v Vec3) ToVec4(w float64) Vec4 { return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w} }

// OrthonormalBasis returns two unit vectors (u, v) perpendicular to each
// other and to the receiver, used to jitter glossy reflection rays around
// an ideal reflection direction.
func (v Vec3) OrthonormalBasis() (Vec3, Vec3) {
	n := v.Normalize()
	var up Vec3
	if math.Abs(n.X) < 0.9 {
		up = Vec3Right
	} else {
		up = Vec3Up
	}
	u := up.Cross(n).Normalize()
	w := n.Cross(u)
	return u, w
}

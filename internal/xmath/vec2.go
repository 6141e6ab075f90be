package xmath

import "math"

// Vec2 is a 2-component vector used for texture/UV coordinates.
type Vec2 struct {
	X, Y float64
}

func NewVec2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2    { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2    { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Mul(t)) }

// Clamp01 clamps both components to [0, 1], the form texture sampling needs
// before scaling into pixel space.
func (v Vec2) Clamp01() Vec2 {
	return Vec2{X: clamp(v.X, 0, 1), Y: clamp(v.Y, 0, 1)}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ToVec3 lifts a UV into a homogeneous 2D point (z=1), as used by
// Mat3.MulVec2AsPoint.
func (v Vec2) ToVec3() Vec3 { return Vec3{X: v.X, Y: v.Y, Z: 1} }

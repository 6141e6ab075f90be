// Package light defines scene lights: a position, color, falloff
// attenuation, and an optional area (for soft shadows via random sampling).
package light

import (
	"math/rand"

	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Falloff attenuates a light's contribution with distance:
//
//	attenuation = 1 / (c0 + c1*r + c2*r^2)
//
// where r is the distance from the hit point to the light.
type Falloff struct {
	C0, C1, C2 float64
}

// DefaultFalloff has c0=1, c1=0, c2=0 — attenuation is always 1, i.e. no
// distance-based dimming.
func DefaultFalloff() Falloff {
	return Falloff{C0: 1, C1: 0, C2: 0}
}

// At returns the attenuation divisor at the given distance.
func (f Falloff) At(dist float64) float64 {
	return f.C0 + f.C1*dist + f.C2*dist*dist
}

// Parallelogram is the area of an area light: a parallelogram spanned by two
// not-necessarily-normalized basis vectors centered on the light's position.
// All points in the shape are of the form a_coord*A + b_coord*B with
// a_coord, b_coord in [-1, 1].
type Parallelogram struct {
	A, B xmath.Vec3
}

// IsEmpty reports whether this parallelogram has zero area, meaning the
// light it belongs to is a point light rather than an area light.
func (p Parallelogram) IsEmpty() bool {
	return p.A == xmath.Vec3Zero || p.B == xmath.Vec3Zero
}

// Normal is the parallelogram's surface normal, A cross B. Not normalized.
func (p Parallelogram) Normal() xmath.Vec3 {
	return p.A.Cross(p.B)
}

// SamplePoint returns a random offset within the parallelogram, relative to
// its center.
func (p Parallelogram) SamplePoint(rng *rand.Rand) xmath.Vec3 {
	aCoord := 2*rng.Float64() - 1
	bCoord := 2*rng.Float64() - 1
	return p.A.Mul(aCoord).Add(p.B.Mul(bCoord))
}

// Light is a point or area light source.
type Light struct {
	Position xmath.Vec3
	Color    xmath.Vec3 // rgb in [0, 1] per channel, intensity folded in
	Falloff  Falloff
	Area     Parallelogram // zero value: a point light
}

// NewPointLight builds a point light with default (no) falloff.
func NewPointLight(position, color xmath.Vec3) Light {
	return Light{Position: position, Color: color, Falloff: DefaultFalloff()}
}

// SamplePosition returns a random position within the light's area (or its
// exact position, for a point light).
func (l Light) SamplePosition(rng *rand.Rand) xmath.Vec3 {
	return l.Position.Add(l.Area.SamplePoint(rng))
}

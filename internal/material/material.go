// Package material implements the Blinn-Phong shading model: ambient and
// per-light diffuse/specular contributions, shadow testing, and recursive
// reflection/glossy rays.
package material

import (
	"math"
	"math/rand"

	"github.com/sunjay/portrayer-sub000/internal/light"
	"github.com/sunjay/portrayer-sub000/internal/texture"
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// MaxRecursionDepth caps reflection/glossy recursion; a ray that would
// recurse past this depth returns the background color instead.
const MaxRecursionDepth = 10

// RayCaster is the subset of scene traversal a material needs to cast
// shadow and reflection rays. It is defined locally, rather than importing
// internal/scene, so that scene can depend on material (materials live on
// scene nodes) without a cycle; internal/scene adapts its flattened scene
// to it with an unexported wrapper type.
type RayCaster interface {
	RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, bool)
	// Color resolves a ray all the way to a final color, recursing through
	// any hit material's own reflections. internal/scene's wrapper forwards
	// it to FlatScene.Color, so Material.HitColor can recurse without
	// importing the scene package.
	Color(ray trace.Ray, background xmath.Vec3, recursionDepth int) xmath.Vec3
}

// Material is a Blinn-Phong surface: a diffuse/specular response, an
// optional reflective component (mirror or glossy), and optional texture
// and normal maps.
type Material struct {
	Diffuse  xmath.Vec3
	Specular xmath.Vec3
	// Shininess is the Phong exponent: ~10 eggshell, ~100 mildly shiny,
	// ~1000 glossy, ~10000 near-mirror.
	Shininess float64
	// Reflectivity blends in the recursively-traced reflected ray's color;
	// zero disables reflection entirely.
	Reflectivity float64
	// GlossySideLength, when positive, jitters the mirror reflection ray
	// across a square of this side length to produce a glossy blur instead
	// of a sharp mirror.
	GlossySideLength float64
	// RefractiveIndex is carried on the material but not used by HitColor;
	// no refracted rays are traced.
	RefractiveIndex float64

	Texture   texture.Source // nil uses Diffuse directly
	NormalMap *texture.NormalMap
}

// HitColor evaluates this material's shading at a single ray-surface
// intersection: ambient, then each light's diffuse/specular contribution
// (skipped if the point is shadowed or faces away from an area light), then
// a recursive reflection/glossy term if Reflectivity > 0.
func (m Material) HitColor(
	caster RayCaster,
	ambient xmath.Vec3,
	lights []light.Light,
	background xmath.Vec3,
	rayDir xmath.Vec3,
	hitPoint xmath.Vec3,
	rawNormal xmath.Vec3,
	uv *xmath.Vec2,
	tangentToWorld *xmath.Mat3,
	recursionDepth int,
) xmath.Vec3 {
	if recursionDepth > MaxRecursionDepth {
		return background
	}

	rng := rand.New(rand.NewSource(int64(hitPoint.X*73856093) ^ int64(hitPoint.Y*19349663) ^ int64(hitPoint.Z*83492791) ^ int64(recursionDepth)))

	view := rayDir.Negate()

	var normal xmath.Vec3
	if m.NormalMap == nil {
		normal = rawNormal.Normalize()
	} else if uv != nil && tangentToWorld != nil {
		texNormal := m.NormalMap.At(*uv).Normalize()
		normal = tangentToWorld.MulVec3(texNormal)
	} else {
		normal = rawNormal.Normalize()
	}

	diffuseColor := m.Diffuse
	if m.Texture != nil && uv != nil {
		diffuseColor = m.Texture.At(*uv)
	}

	color := ambient.MulVec(diffuseColor)

	for _, lt := range lights {
		var lightPos xmath.Vec3
		if lt.Area.IsEmpty() {
			lightPos = lt.Position
		} else {
			if lt.Area.Normal().Dot(normal) > 0 {
				continue
			}
			lightPos = lt.SamplePosition(rng)
		}

		hitToLight := lightPos.Sub(hitPoint)
		lightDist := hitToLight.Length()
		if lightDist < xmath.Epsilon {
			continue
		}
		lightDir := hitToLight.Div(lightDist)
		attenuation := lt.Falloff.At(lightDist)

		shadowRay := trace.NewRay(hitPoint, lightDir)
		shadowRange := trace.Range{Start: xmath.Epsilon, End: lightDist - xmath.Epsilon}
		if _, hit := caster.RayCast(shadowRay, &shadowRange); hit {
			continue
		}

		normalLight := normal.Dot(lightDir)
		if normalLight < 0 {
			normalLight = 0
		}
		diffuse := diffuseColor.MulVec(lt.Color).Mul(normalLight)

		specular := xmath.Vec3Zero
		if m.Specular.X > xmath.Epsilon || m.Specular.Y > xmath.Epsilon || m.Specular.Z > xmath.Epsilon {
			half := view.Add(lightDir).Normalize()
			normalHalf := normal.Dot(half)
			if normalHalf < 0 {
				normalHalf = 0
			}
			// Blinn-Phong's angle is smaller than Phong's, so the exponent
			// is boosted 4x to produce a comparable highlight size.
			normalHalfShiny := powClamped(normalHalf, 4*m.Shininess)
			specular = m.Specular.MulVec(lt.Color).Mul(normalHalfShiny)
		}

		color = color.Add(diffuse.Add(specular).Div(attenuation))
	}

	if m.Reflectivity > 0 {
		reflectDir := rayDir.Sub(normal.Mul(2 * rayDir.Dot(normal)))
		if m.GlossySideLength > 0 {
			uBasis, vBasis := reflectDir.OrthonormalBasis()
			uCoord := -m.GlossySideLength/2 + rng.Float64()*m.GlossySideLength
			vCoord := -m.GlossySideLength/2 + rng.Float64()*m.GlossySideLength
			reflectDir = reflectDir.Add(uBasis.Mul(uCoord)).Add(vBasis.Mul(vCoord))
		}

		reflectedRay := trace.NewRay(hitPoint, reflectDir)
		reflectedColor := caster.Color(reflectedRay, background, recursionDepth+1)
		color = color.Add(reflectedColor.Mul(m.Reflectivity))
	}

	return color
}

func powClamped(base, exp float64) float64 {
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exp)
}

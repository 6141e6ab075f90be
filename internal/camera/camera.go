// Package camera implements the pinhole camera: it turns a pixel
// coordinate into a primary ray in world space.
package camera

import (
	"math"

	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Settings is the user-facing camera configuration.
type Settings struct {
	Eye    xmath.Vec3
	Center xmath.Vec3
	Up     xmath.Vec3
	Fovy   xmath.Radians
}

// Camera derives the fields actually needed to generate rays, computed once
// from Settings and the output image dimensions.
type Camera struct {
	eye         xmath.Vec3
	viewToWorld xmath.Mat4
	fovFactor   float64
	aspectRatio float64
	width       float64
	height      float64
}

// New builds a Camera for an image of the given pixel dimensions.
func New(s Settings, width, height int) Camera {
	w, h := float64(width), float64(height)

	worldToView := xmath.Mat4LookAt(s.Eye, s.Center, s.Up)
	viewToWorld, ok := worldToView.Inverse()
	if !ok {
		viewToWorld = xmath.Mat4Identity()
	}

	return Camera{
		eye:         s.Eye,
		viewToWorld: viewToWorld,
		fovFactor:   math.Tan(s.Fovy.Float64() / 2),
		aspectRatio: w / h,
		width:       w,
		height:      h,
	}
}

// RayAt returns the primary ray through the center of pixel (x, y), with
// (0, 0) at the top-left of the image.
func (c Camera) RayAt(x, y int) trace.Ray {
	return c.RayAtOffset(x, y, 0, 0)
}

// RayAtOffset returns the primary ray through pixel (x, y), displaced by
// (dx, dy) in [-0.5, 0.5] from the pixel center — used to jitter multiple
// samples within the same pixel for anti-aliasing.
func (c Camera) RayAtOffset(x, y int, dx, dy float64) trace.Ray {
	pixelNDCy := (float64(y) + 0.5 + dy) / c.height
	pixelScreenY := (1 - 2*pixelNDCy) * c.fovFactor

	pixelNDCx := (float64(x) + 0.5 + dx) / c.width
	pixelScreenX := (2*pixelNDCx - 1) * c.aspectRatio * c.fovFactor

	pixelCamera := xmath.NewVec3(pixelScreenX, pixelScreenY, -1)
	pixelWorld := c.viewToWorld.TransformPoint(pixelCamera)
	rayDir := pixelWorld.Sub(c.eye).Normalize()

	return trace.NewRay(c.eye, rayDir)
}

// ScreenUV returns the pixel's normalized device coordinate, used to sample
// the background at a primary ray's screen position.
func (c Camera) ScreenUV(x, y int) xmath.Vec2 {
	return xmath.Vec2{X: (float64(x) + 0.5) / c.width, Y: (float64(y) + 0.5) / c.height}
}

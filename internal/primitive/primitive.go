// Package primitive implements analytic ray intersection for every shape
// the scene graph can place at a node: sphere, cube, cone, cylinder, finite
// plane, infinite axis-aligned plane, triangle, and triangle-soup mesh.
// Every shape lives in canonical object space; scale/rotate/translate is
// always the enclosing scene node's job.
package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
)

// Primitive is the closed set of shapes a Geometry can reference. It is
// represented as an interface rather than an open hierarchy so dispatch
// stays small and exhaustive over the handful of concrete types in this
// package — Sphere, Cube, Cone, Cylinder, FinitePlane, InfinitePlane,
// Triangle, Mesh.
type Primitive interface {
	trace.Hit
	trace.Bounded
}

// Package scene implements the hierarchical scene graph: nodes carrying an
// affine transform, optional geometry, and child nodes, plus a flattening
// pass that turns the tree into a single flat list for the renderer's hot
// path.
package scene

import (
	"github.com/sunjay/portrayer-sub000/internal/material"
	"github.com/sunjay/portrayer-sub000/internal/primitive"
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Geometry pairs a primitive with the material it is shaded with.
type Geometry struct {
	Primitive primitive.Primitive
	Material  *material.Material
}

// Node is one node of the hierarchical scene graph: an optional piece of
// geometry, an affine transform (model space to parent space), and any
// number of children. The fluent With*/scaled/translated/rotated_* methods
// mirror how a scene is assembled in the original source this is adapted
// from — build bottom-up, chaining transform calls, and attach to a parent
// with WithChild/WithChildren.
type Node struct {
	geometry *Geometry
	trans    xmath.Mat4
	invtrans xmath.Mat4
	normTrans xmath.Mat4
	children []*Node
}

// NewNode returns an empty node with an identity transform.
func NewNode() *Node {
	return &Node{trans: xmath.Mat4Identity(), invtrans: xmath.Mat4Identity(), normTrans: xmath.Mat4Identity()}
}

// NewGeometryNode returns a node wrapping a single piece of geometry.
func NewGeometryNode(g Geometry) *Node {
	n := NewNode()
	n.geometry = &g
	return n
}

// Geometry returns this node's geometry, or nil if it has none (a pure
// grouping node).
func (n *Node) Geometry() *Geometry { return n.geometry }

// Trans returns this node's local-to-parent transform.
func (n *Node) Trans() xmath.Mat4 { return n.trans }

// InverseTrans returns the inverse of Trans.
func (n *Node) InverseTrans() xmath.Mat4 { return n.invtrans }

// NormalTrans returns inverse(Trans).transpose(), the correct transform for
// direction vectors that must stay perpendicular to transformed surfaces.
func (n *Node) NormalTrans() xmath.Mat4 { return n.normTrans }

// Children returns this node's child nodes.
func (n *Node) Children() []*Node { return n.children }

// WithChild appends a child node and returns n for chaining.
func (n *Node) WithChild(child *Node) *Node {
	n.children = append(n.children, child)
	return n
}

// WithChildren appends several child nodes and returns n for chaining.
func (n *Node) WithChildren(children ...*Node) *Node {
	n.children = append(n.children, children...)
	return n
}

// setTransform updates trans and its cached inverse/normal-transform.
func (n *Node) setTransform(t xmath.Mat4) {
	n.trans = t
	inv, ok := t.Inverse()
	if !ok {
		inv = xmath.Mat4Identity()
	}
	n.invtrans = inv
	n.normTrans = inv.Transpose()
}

// Scaled, Translated, and Rotated* each prepend their operation onto this
// node's existing transform, so that chained calls apply in call order —
// .Scaled(s).RotatedX(r).Translated(t) scales first, then rotates, then
// translates, the usual TRS order.

// Scaled scales the node by v. Panics if any component of v is exactly
// zero, since that would make the transform singular.
func (n *Node) Scaled(v xmath.Vec3) *Node {
	if v.X == 0 || v.Y == 0 || v.Z == 0 {
		panic("scene: scale factor of exactly zero")
	}
	n.setTransform(xmath.Mat4Scale(v).Mul(n.trans))
	return n
}

// Translated translates the node by v.
func (n *Node) Translated(v xmath.Vec3) *Node {
	n.setTransform(xmath.Mat4Translation(v).Mul(n.trans))
	return n
}

// RotatedX rotates about the x axis by angle radians.
func (n *Node) RotatedX(angle xmath.Radians) *Node {
	n.setTransform(xmath.Mat4RotationX(angle.Float64()).Mul(n.trans))
	return n
}

// RotatedY rotates about the y axis by angle radians.
func (n *Node) RotatedY(angle xmath.Radians) *Node {
	n.setTransform(xmath.Mat4RotationY(angle.Float64()).Mul(n.trans))
	return n
}

// RotatedZ rotates about the z axis by angle radians.
func (n *Node) RotatedZ(angle xmath.Radians) *Node {
	n.setTransform(xmath.Mat4RotationZ(angle.Float64()).Mul(n.trans))
	return n
}

// RotatedXZY rotates about x, then z, then y by the given angles — useful
// for converting Blender-style XYZ Euler angles into this right-handed
// coordinate system.
func (n *Node) RotatedXZY(x, z, y xmath.Radians) *Node {
	return n.RotatedX(x).RotatedZ(z).RotatedY(y)
}

// SetTransform replaces this node's transform outright.
func (n *Node) SetTransform(t xmath.Mat4) *Node {
	n.setTransform(t)
	return n
}

// RayCast recursively intersects ray against this node and its subtree,
// narrowing r as closer hits are found, and returns the nearest hit's
// intersection (already transformed back into this node's parent's
// coordinate system) along with the material that produced it.
func (n *Node) RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, *material.Material, bool) {
	localRay := ray.Transformed(n.invtrans)

	var best trace.Intersection
	var bestMat *material.Material
	found := false

	if n.geometry != nil {
		if hit, ok := n.geometry.Primitive.RayHit(localRay, *r); ok {
			hit.Point = n.trans.TransformPoint(hit.Point)
			hit.Normal = n.normTrans.TransformDirection(hit.Normal)
			r.End = hit.T
			best, bestMat, found = hit, n.geometry.Material, true
		}
	}

	for _, child := range n.children {
		if hit, mat, ok := child.RayCast(localRay, r); ok {
			hit.Point = n.trans.TransformPoint(hit.Point)
			hit.Normal = n.normTrans.TransformDirection(hit.Normal)
			best, bestMat, found = hit, mat, true
		}
	}

	return best, bestMat, found
}

package scene

import (
	"math"

	"github.com/sunjay/portrayer-sub000/internal/kdtree"
	"github.com/sunjay/portrayer-sub000/internal/light"
	"github.com/sunjay/portrayer-sub000/internal/material"
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// FlatSceneNode is one piece of geometry with its total (root-to-node)
// transform baked in — no further hierarchy to walk.
type FlatSceneNode struct {
	Geometry  Geometry
	trans     xmath.Mat4
	invtrans  xmath.Mat4
	normTrans xmath.Mat4
}

// NewFlatSceneNode builds a flat node from geometry and its total transform.
func NewFlatSceneNode(g Geometry, trans xmath.Mat4) FlatSceneNode {
	inv, ok := trans.Inverse()
	if !ok {
		inv = xmath.Mat4Identity()
	}
	return FlatSceneNode{Geometry: g, trans: trans, invtrans: inv, normTrans: inv.Transpose()}
}

// Bounds returns the node's geometry bounds transformed into world space.
func (n FlatSceneNode) Bounds() trace.AABB {
	return n.Geometry.Primitive.Bounds().Transformed(n.trans)
}

// RayCast intersects ray against just this node's geometry, narrowing r to
// the hit's parameter on success — the shape internal/kdtree.Tree needs from
// its leaf items.
func (n FlatSceneNode) RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, *material.Material, bool) {
	hit, mat, ok := n.RayHit(ray, *r)
	if ok {
		r.End = hit.T
	}
	return hit, mat, ok
}

// RayHit intersects ray against just this node's geometry.
func (n FlatSceneNode) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, *material.Material, bool) {
	localRay := ray.Transformed(n.invtrans)
	hit, ok := n.Geometry.Primitive.RayHit(localRay, r)
	if !ok {
		return trace.Intersection{}, nil, false
	}
	hit.Point = n.trans.TransformPoint(hit.Point)
	hit.Normal = n.normTrans.TransformDirection(hit.Normal)
	return hit, n.Geometry.Material, true
}

// FlatScene is the non-hierarchical form of a Scene produced by Flatten: a
// single slice of nodes, each carrying its total world transform, which is
// what the renderer's hot path traverses linearly (or through a
// kdtree.Tree wrapping this same slice) instead of walking the tree on
// every ray.
type FlatScene struct {
	Nodes   []FlatSceneNode
	Lights  []light.Light
	Ambient xmath.Vec3

	// Index, when non-nil, replaces the linear scan in RayCast with an
	// accelerated lookup (typically a *kdtree.Tree built over Nodes).
	Index Index
}

// Index is implemented by internal/kdtree's Tree; it lets FlatScene
// delegate ray casting to an acceleration structure when one has been
// built.
type Index interface {
	RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, *material.Material, bool)
}

// Flatten performs a breadth-first walk of s, accumulating transforms, and
// returns the equivalent non-hierarchical scene. Assumes the node graph is
// a tree; a cycle would make this loop forever.
func Flatten(s *Scene) *FlatScene {
	type pending struct {
		parentTrans xmath.Mat4
		node        *Node
	}

	var nodes []FlatSceneNode
	queue := []pending{{xmath.Mat4Identity(), s.Root}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		totalTrans := cur.parentTrans.Mul(cur.node.Trans())

		if g := cur.node.Geometry(); g != nil {
			nodes = append(nodes, NewFlatSceneNode(*g, totalTrans))
		}
		for _, child := range cur.node.Children() {
			queue = append(queue, pending{totalTrans, child})
		}
	}

	return &FlatScene{Nodes: nodes, Lights: s.Lights, Ambient: s.Ambient}
}

// BuildIndex replaces the linear scan over Nodes with a k-d tree built over
// them, the way the renderer this is adapted from always wraps a flattened
// scene in a KDTreeScene before rendering a single pixel. maxDepth is
// typically config.Config.KDDepth.
func (s *FlatScene) BuildIndex(maxDepth int, conf kdtree.PartitionConfig) {
	s.Index = kdtree.Build(s.Nodes, maxDepth, conf)
}

// RayCast finds the nearest geometry hit within r, narrowing r as it goes,
// delegating to Index when one is bound.
func (s *FlatScene) RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, *material.Material, bool) {
	if s.Index != nil {
		return s.Index.RayCast(ray, r)
	}
	var best trace.Intersection
	var bestMat *material.Material
	found := false
	for _, n := range s.Nodes {
		if hit, mat, ok := n.RayHit(ray, *r); ok {
			best, bestMat, found = hit, mat, true
			r.End = hit.T
		}
	}
	return best, bestMat, found
}

// materialRayCaster adapts *FlatScene to material.RayCaster, so a
// Material.HitColor call can cast shadow rays (via RayCast) and recurse
// into reflection color (via Color) without the material package importing
// scene.
type materialRayCaster struct {
	scene      *FlatScene
	background xmath.Vec3
}

func (c materialRayCaster) RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, bool) {
	hit, _, ok := c.scene.RayCast(ray, r)
	return hit, ok
}

func (c materialRayCaster) Color(ray trace.Ray, background xmath.Vec3, recursionDepth int) xmath.Vec3 {
	return c.scene.Color(ray, background, recursionDepth)
}

// Color traces ray through the scene to a final shaded color: a miss
// returns background; a hit evaluates its material's Blinn-Phong response,
// which may itself recurse through Color for reflections.
func (s *FlatScene) Color(ray trace.Ray, background xmath.Vec3, recursionDepth int) xmath.Vec3 {
	r := trace.Range{Start: xmath.Epsilon, End: math.Inf(1)}
	hit, mat, ok := s.RayCast(ray, &r)
	if !ok || mat == nil {
		return background
	}
	caster := materialRayCaster{scene: s, background: background}
	return mat.HitColor(
		caster,
		s.Ambient,
		s.Lights,
		background,
		ray.Direction,
		hit.Point,
		hit.Normal,
		hit.UV,
		hit.TangentToWorld,
		recursionDepth,
	)
}

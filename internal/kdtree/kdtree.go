// Package kdtree builds and traverses a k-d tree acceleration structure
// over any scene item that knows its own bounds and can ray-cast itself.
// internal/scene's flattened scene nodes use it; primitive.Triangle has no
// RayCast method, so mesh triangles are not indexed by it.
package kdtree

import (
	"math"

	"github.com/sunjay/portrayer-sub000/internal/material"
	"github.com/sunjay/portrayer-sub000/internal/primitive"
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Item is anything the tree can hold at its leaves: something with a
// bounding box that can cast a ray against itself, narrowing r and
// reporting the material struck.
type Item interface {
	Bounds() trace.AABB
	RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, *material.Material, bool)
}

// PartitionConfig tunes the build: how eagerly to keep splitting and how
// hard to search for a good separating plane.
type PartitionConfig struct {
	// TargetMaxNodes: a leaf with this many items or fewer is left alone.
	TargetMaxNodes int
	// TargetMaxMerit: stop refining the separating plane once
	// |front-back|+shared drops to this or below.
	TargetMaxMerit int
	// MaxTries: give up refining the plane after this many attempts and
	// use whatever was found.
	MaxTries int
}

// DefaultPartitionConfig matches the values used for a top-level scene
// tree: small leaves, a tight merit target, and a handful of refinement
// attempts.
func DefaultPartitionConfig() PartitionConfig {
	return PartitionConfig{TargetMaxNodes: 3, TargetMaxMerit: 3, MaxTries: 10}
}

type itemBounds[T Item] struct {
	bounds trace.AABB
	item   T
}

func boundsOfAll[T Item](items []itemBounds[T]) trace.AABB {
	if len(items) == 0 {
		return trace.NewAABB(xmath.Vec3Zero, xmath.Vec3Zero)
	}
	b := items[0].bounds
	for _, it := range items[1:] {
		b = b.Union(it.bounds)
	}
	return b
}

// node is either a leaf (a direct list of items to test) or a split (a
// separating plane and two child nodes).
type node[T Item] struct {
	bounds trace.AABB

	isLeaf bool
	items  []itemBounds[T]

	sepPlane    primitive.InfinitePlane
	front, back *node[T]
}

// Tree is a built k-d tree ready for ray casting.
type Tree[T Item] struct {
	root *node[T]
}

// Build partitions items into a k-d tree, splitting recursively up to
// maxDepth times (cycling the x/y/z splitting axis at each level) or until
// a leaf's item count is at or below conf.TargetMaxNodes.
func Build[T Item](items []T, maxDepth int, conf PartitionConfig) *Tree[T] {
	wrapped := make([]itemBounds[T], len(items))
	for i, it := range items {
		wrapped[i] = itemBounds[T]{bounds: it.Bounds(), item: it}
	}
	leaf := &node[T]{bounds: boundsOfAll(wrapped), isLeaf: true, items: wrapped}
	return &Tree[T]{root: partition(leaf, primitive.AxisX, maxDepth, conf)}
}

type partitionClass int

const (
	classFront partitionClass = iota
	classBack
	classShared
)

func classify(b trace.AABB, sep primitive.InfinitePlane) partitionClass {
	minSide := sep.Which(b.Min)
	maxSide := sep.Which(b.Max)
	switch {
	case minSide == primitive.Front && maxSide == primitive.Front:
		return classFront
	case minSide == primitive.Back && maxSide == primitive.Back:
		return classBack
	default:
		return classShared
	}
}

// partition recursively splits leaf, refining the separating plane with a
// binary-search-like midpoint search bounded by conf.MaxTries, and sharing
// (cloning into both children) any item that straddles the chosen plane.
func partition[T Item](leaf *node[T], axis primitive.Axis, maxDepth int, conf PartitionConfig) *node[T] {
	if maxDepth == 0 || len(leaf.items) <= conf.TargetMaxNodes {
		return leaf
	}

	minAxis := primitive.AxisComponent(axis, leaf.bounds.Min)
	maxAxis := primitive.AxisComponent(axis, leaf.bounds.Max)

	axisPoint := func(v float64) xmath.Vec3 {
		p := xmath.Vec3Zero
		switch axis {
		case primitive.AxisX:
			p.X = v
		case primitive.AxisY:
			p.Y = v
		default:
			p.Z = v
		}
		return p
	}

	sepPoint := minAxis + (maxAxis-minAxis)/2
	planeMin, planeMax := minAxis, maxAxis

	sepPlane := primitive.InfinitePlane{Point: axisPoint(sepPoint), Axis: axis, Sign: primitive.Positive}

	for try := 0; try < conf.MaxTries; try++ {
		var front, back, shared int
		for _, it := range leaf.items {
			switch classify(it.bounds, sepPlane) {
			case classFront:
				front++
			case classBack:
				back++
			case classShared:
				shared++
			}
		}

		merit := absInt(front-back) + shared
		if merit <= conf.TargetMaxMerit {
			break
		}

		if front > back {
			planeMin = sepPoint
			sepPoint += (planeMax - sepPoint) / 2
		} else {
			planeMax = sepPoint
			sepPoint = planeMin + (sepPoint-planeMin)/2
		}
		sepPlane.Point = axisPoint(sepPoint)
	}

	var frontItems, backItems []itemBounds[T]
	for _, it := range leaf.items {
		switch classify(it.bounds, sepPlane) {
		case classFront:
			frontItems = append(frontItems, it)
		case classBack:
			backItems = append(backItems, it)
		case classShared:
			frontItems = append(frontItems, it)
			backItems = append(backItems, it)
		}
	}

	next := primitive.NextAxis(axis)
	frontLeaf := &node[T]{bounds: boundsOfAll(frontItems), isLeaf: true, items: frontItems}
	backLeaf := &node[T]{bounds: boundsOfAll(backItems), isLeaf: true, items: backItems}

	return &node[T]{
		bounds:   leaf.bounds,
		sepPlane: sepPlane,
		front:    partition(frontLeaf, next, maxDepth-1, conf),
		back:     partition(backLeaf, next, maxDepth-1, conf),
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RayCast finds the nearest item hit within r, narrowing r as it goes. It
// never post-checks a found hit point against the separating planes it
// descended through — the "keystone" invariant this traversal relies on:
// every recursive call is already given a t range clipped to the side of
// the tree it is searching, so the first hit found in range order is
// correct by construction.
func (t *Tree[T]) RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, *material.Material, bool) {
	return t.root.rayCastImpl(ray, r, t.root.extent())
}

func (n *node[T]) extent() float64 {
	return n.bounds.Extent()
}

func (n *node[T]) rayCastImpl(ray trace.Ray, r *trace.Range, extent float64) (trace.Intersection, *material.Material, bool) {
	if n.isLeaf {
		var best trace.Intersection
		var bestMat *material.Material
		found := false
		for _, it := range n.items {
			if hit, mat, ok := it.item.RayCast(ray, r); ok {
				best, bestMat, found = hit, mat, true
			}
		}
		return best, bestMat, found
	}

	tMax := r.Start + extent
	if tMax < r.Start || tMax >= r.End {
		tMax = r.End - xmath.Epsilon
	}
	tMin := r.Start + xmath.Epsilon

	rayStart := ray.At(tMin)
	rayEnd := ray.At(tMax)

	startSide := n.sepPlane.Which(rayStart)
	endSide := n.sepPlane.Which(rayEnd)

	switch {
	case startSide == primitive.Front && endSide == primitive.Front:
		return n.front.rayCastImpl(ray, r, extent)

	case startSide == primitive.Back && endSide == primitive.Back:
		return n.back.rayCastImpl(ray, r, extent)

	case startSide == primitive.Front && endSide == primitive.Back:
		planeT := rayHitAxisAlignedPlane(n.sepPlane, ray, *r)
		frontRange := trace.Range{Start: r.Start, End: planeT}
		if hit, mat, ok := n.front.rayCastImpl(ray, &frontRange, extent); ok {
			*r = frontRange
			return hit, mat, true
		}
		backRange := trace.Range{Start: planeT, End: r.End}
		if hit, mat, ok := n.back.rayCastImpl(ray, &backRange, extent); ok {
			*r = backRange
			return hit, mat, true
		}
		return trace.Intersection{}, nil, false

	default: // Back, Front
		planeT := rayHitAxisAlignedPlane(n.sepPlane, ray, *r)
		backRange := trace.Range{Start: r.Start, End: planeT}
		if hit, mat, ok := n.back.rayCastImpl(ray, &backRange, extent); ok {
			*r = backRange
			return hit, mat, true
		}
		frontRange := trace.Range{Start: planeT, End: r.End}
		if hit, mat, ok := n.front.rayCastImpl(ray, &frontRange, extent); ok {
			*r = frontRange
			return hit, mat, true
		}
		return trace.Intersection{}, nil, false
	}
}

// rayHitAxisAlignedPlane finds the ray parameter at which ray crosses an
// axis-aligned separating plane directly from the plane's fixed coordinate,
// rather than through InfinitePlane.RayHit — which suffers numerical issues
// when the ray direction is nearly parallel to the plane, a configuration
// that is common here since the separating plane can pass right through
// the ray's origin.
func rayHitAxisAlignedPlane(sep primitive.InfinitePlane, ray trace.Ray, r trace.Range) float64 {
	planeValue := primitive.AxisComponent(sep.Axis, sep.Point)
	originValue := primitive.AxisComponent(sep.Axis, ray.Origin)
	dirValue := primitive.AxisComponent(sep.Axis, ray.Direction)

	t := (planeValue - originValue) / dirValue
	if math.IsNaN(t) {
		return r.Start
	}
	return t
}

package kdtree

import (
	"math"
	"testing"

	"github.com/sunjay/portrayer-sub000/internal/material"
	"github.com/sunjay/portrayer-sub000/internal/primitive"
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// planeItem is a transformed FinitePlane carrying a material, just enough
// of internal/scene.FlatSceneNode's shape to satisfy Item without importing
// the scene package (which itself imports kdtree).
type planeItem struct {
	trans, invtrans, normTrans xmath.Mat4
	mat                        *material.Material
}

func newPlaneItem(trans xmath.Mat4, mat *material.Material) planeItem {
	inv, ok := trans.Inverse()
	if !ok {
		inv = xmath.Mat4Identity()
	}
	return planeItem{trans: trans, invtrans: inv, normTrans: inv.Transpose(), mat: mat}
}

func (p planeItem) Bounds() trace.AABB {
	return primitive.FinitePlane{}.Bounds().Transformed(p.trans)
}

func (p planeItem) RayCast(ray trace.Ray, r *trace.Range) (trace.Intersection, *material.Material, bool) {
	localRay := ray.Transformed(p.invtrans)
	hit, ok := primitive.FinitePlane{}.RayHit(localRay, *r)
	if !ok {
		return trace.Intersection{}, nil, false
	}
	hit.Point = p.trans.TransformPoint(hit.Point)
	hit.Normal = p.normTrans.TransformDirection(hit.Normal)
	r.End = hit.T
	return hit, p.mat, true
}

// trsPrepend builds the transform that results from chaining
// .Scaled(s).RotatedX(angle).Translated(t) on a scene.Node, without
// depending on the scene package itself.
func trsPrepend(scale float64, rotX float64, translate xmath.Vec3) xmath.Mat4 {
	s := xmath.Mat4Scale(xmath.NewVec3(scale, scale, scale))
	r := xmath.Mat4RotationX(rotX)
	t := xmath.Mat4Translation(translate)
	return t.Mul(r.Mul(s))
}

// Reproduces the "ray goes front-to-back through the separating plane, and
// must not stop at the farther, also-hit polygon C before checking whether
// the nearer polygon B (behind the plane) is actually in range" scenario:
// a split tree where naively returning the first in-leaf hit for the back
// side would incorrectly prefer C over B.
func TestRayCastEdgeCase(t *testing.T) {
	matB := &material.Material{Diffuse: xmath.NewVec3(1, 0, 0)}
	matC := &material.Material{Diffuse: xmath.NewVec3(0, 0, 1)}

	transB := trsPrepend(2.0, math.Pi/2, xmath.NewVec3(0, 1.2, -0.4))
	transC := trsPrepend(2.0, 50*math.Pi/180, xmath.NewVec3(0, 0, -0.3))

	nodeB := newPlaneItem(transB, matB)
	nodeC := newPlaneItem(transC, matC)

	sepPlane := primitive.InfinitePlane{Point: xmath.Vec3Zero, Axis: primitive.AxisZ, Sign: primitive.Positive}

	frontLeaf := &node[planeItem]{isLeaf: true, items: []itemBounds[planeItem]{{bounds: nodeC.Bounds(), item: nodeC}}}
	backLeaf := &node[planeItem]{isLeaf: true, items: []itemBounds[planeItem]{
		{bounds: nodeC.Bounds(), item: nodeC},
		{bounds: nodeB.Bounds(), item: nodeB},
	}}
	root := &node[planeItem]{
		bounds:   nodeB.Bounds().Union(nodeC.Bounds()),
		sepPlane: sepPlane,
		front:    frontLeaf,
		back:     backLeaf,
	}
	tree := &Tree[planeItem]{root: root}

	ray := trace.Ray{Origin: xmath.NewVec3(0, 0.5, 0.9), Direction: xmath.Vec3Front}
	r := trace.Range{Start: xmath.Epsilon, End: math.Inf(1)}

	_, mat, ok := tree.RayCast(ray, &r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if mat != matB {
		t.Fatalf("expected to hit B (nearer, behind the plane), got %v", mat)
	}
}

// The mirror image of TestRayCastEdgeCase: the ray now travels back-to-front
// through the separating plane, with the leaf orderings swapped to match.
func TestRayCastEdgeCaseFlipped(t *testing.T) {
	matB := &material.Material{Diffuse: xmath.NewVec3(1, 0, 0)}
	matC := &material.Material{Diffuse: xmath.NewVec3(0, 0, 1)}

	transB := trsPrepend(2.0, -math.Pi/2, xmath.NewVec3(0, 1.2, 0.4))
	transC := trsPrepend(2.0, -50*math.Pi/180, xmath.NewVec3(0, 0, 0.3))

	nodeB := newPlaneItem(transB, matB)
	nodeC := newPlaneItem(transC, matC)

	sepPlane := primitive.InfinitePlane{Point: xmath.Vec3Zero, Axis: primitive.AxisZ, Sign: primitive.Positive}

	frontLeaf := &node[planeItem]{isLeaf: true, items: []itemBounds[planeItem]{
		{bounds: nodeC.Bounds(), item: nodeC},
		{bounds: nodeB.Bounds(), item: nodeB},
	}}
	backLeaf := &node[planeItem]{isLeaf: true, items: []itemBounds[planeItem]{{bounds: nodeC.Bounds(), item: nodeC}}}
	root := &node[planeItem]{
		bounds:   nodeB.Bounds().Union(nodeC.Bounds()),
		sepPlane: sepPlane,
		front:    frontLeaf,
		back:     backLeaf,
	}
	tree := &Tree[planeItem]{root: root}

	ray := trace.Ray{Origin: xmath.NewVec3(0, 0.5, -0.9), Direction: xmath.Vec3Back}
	r := trace.Range{Start: xmath.Epsilon, End: math.Inf(1)}

	_, mat, ok := tree.RayCast(ray, &r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if mat != matB {
		t.Fatalf("expected to hit B (nearer, in front of the plane), got %v", mat)
	}
}

// boundsItem is a minimal Item backed directly by a pre-computed AABB, used
// by the partitioning tests below where exact geometry doesn't matter —
// only where each item's bounding box falls relative to the split axis.
type boundsItem struct {
	b trace.AABB
}

func (i boundsItem) Bounds() trace.AABB { return i.b }
func (i boundsItem) RayCast(trace.Ray, *trace.Range) (trace.Intersection, *material.Material, bool) {
	return trace.Intersection{}, nil, false
}

func box(minX, minY, minZ, maxX, maxY, maxZ float64) boundsItem {
	return boundsItem{b: trace.NewAABB(xmath.NewVec3(minX, minY, minZ), xmath.NewVec3(maxX, maxY, maxZ))}
}

// A set of small, well-separated boxes along a single axis should produce a
// split whose plane falls roughly in the middle, with half the items on
// each side and nothing shared.
func TestBuildSingleAxisCenterPartition(t *testing.T) {
	items := []boundsItem{
		box(-5, 0, 0, -4, 1, 1),
		box(-3, 0, 0, -2, 1, 1),
		box(2, 0, 0, 3, 0, 1),
		box(4, 0, 0, 5, 1, 1),
	}

	tr := Build(items, 4, PartitionConfig{TargetMaxNodes: 1, TargetMaxMerit: 0, MaxTries: 10})
	if tr.root.isLeaf {
		t.Fatal("expected the root to have split")
	}
	if tr.root.front == nil || tr.root.back == nil {
		t.Fatal("expected both children to be populated")
	}

	var front, back, shared int
	for _, it := range items {
		switch classify(it.Bounds(), tr.root.sepPlane) {
		case classFront:
			front++
		case classBack:
			back++
		case classShared:
			shared++
		}
	}
	if front != 2 || back != 2 || shared != 0 {
		t.Fatalf("expected a 2/2 split with nothing shared, got front=%d back=%d shared=%d", front, back, shared)
	}
}

// An uneven distribution (most items clustered to one side) should still
// converge to a merit within conf.TargetMaxMerit after MaxTries refinements,
// rather than looping forever or leaving a lopsided split unrefined.
func TestBuildSingleAxisUnevenPartition(t *testing.T) {
	items := []boundsItem{
		box(-10, 0, 0, -9, 1, 1),
		box(-9, 0, 0, -8, 1, 1),
		box(-8, 0, 0, -7, 1, 1),
		box(-7, 0, 0, -6, 1, 1),
		box(8, 0, 0, 9, 1, 1),
	}

	tr := Build(items, 4, PartitionConfig{TargetMaxNodes: 1, TargetMaxMerit: 1, MaxTries: 10})
	if tr.root.isLeaf {
		t.Fatal("expected the root to have split")
	}

	var front, back, shared int
	for _, it := range items {
		switch classify(it.Bounds(), tr.root.sepPlane) {
		case classFront:
			front++
		case classBack:
			back++
		case classShared:
			shared++
		}
	}
	if merit := absInt(front-back) + shared; merit > 1 {
		t.Fatalf("expected the root split's merit within TargetMaxMerit (1), got %d", merit)
	}

	// Straddling items are copied into both children, so count distinct
	// items rather than leaf entries.
	seen := make(map[boundsItem]bool)
	var collect func(n *node[boundsItem])
	collect = func(n *node[boundsItem]) {
		if n.isLeaf {
			for _, it := range n.items {
				seen[it.item] = true
			}
			return
		}
		collect(n.front)
		collect(n.back)
	}
	collect(tr.root)
	if got := len(seen); got != len(items) {
		t.Fatalf("expected all %d items reachable (no drops), got %d", len(items), got)
	}
}

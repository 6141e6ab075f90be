package primitive

import (
	"math"
	"testing"

	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

func fullRange() trace.Range {
	return trace.Range{Start: xmath.Epsilon, End: math.Inf(1)}
}

func TestSphereRayHitDirect(t *testing.T) {
	ray := trace.NewRay(xmath.NewVec3(0, 0, 3), xmath.Vec3Front)
	hit, ok := Sphere{}.RayHit(ray, fullRange())
	if !ok {
		t.Fatal("expected a hit")
	}
	want := xmath.NewVec3(0, 0, 1)
	if hit.Point.Distance(want) > 1e-9 {
		t.Errorf("hit point = %v, want %v", hit.Point, want)
	}
}

func TestSphereRayHitTangent(t *testing.T) {
	ray := trace.NewRay(xmath.NewVec3(1, 0, 3), xmath.Vec3Front)
	hit, ok := Sphere{}.RayHit(ray, fullRange())
	if !ok {
		t.Fatal("expected a tangent hit")
	}
	if math.Abs(hit.Point.Z) > 1e-6 {
		t.Errorf("tangent point z = %v, want ~0", hit.Point.Z)
	}
}

func TestSphereRayMiss(t *testing.T) {
	ray := trace.NewRay(xmath.NewVec3(2, 0, 3), xmath.Vec3Front)
	if _, ok := (Sphere{}).RayHit(ray, fullRange()); ok {
		t.Error("expected a miss past the sphere's silhouette")
	}
}

func TestFinitePlaneParallelMiss(t *testing.T) {
	// A ray travelling parallel to the y=0 plane never crosses it.
	ray := trace.NewRay(xmath.NewVec3(0, 1, 0), xmath.Vec3Front)
	if _, ok := (FinitePlane{}).RayHit(ray, fullRange()); ok {
		t.Error("expected no hit for a ray parallel to the plane")
	}
}

func TestFinitePlaneOutsideExtent(t *testing.T) {
	ray := trace.NewRay(xmath.NewVec3(10, 1, 0), xmath.Vec3Down)
	if _, ok := (FinitePlane{}).RayHit(ray, fullRange()); ok {
		t.Error("expected no hit outside the plane's [-0.5, 0.5] extent")
	}
}

func TestTriangleRayHitCenter(t *testing.T) {
	tri := FlatTriangle(
		xmath.NewVec3(-1, -1, 0),
		xmath.NewVec3(1, -1, 0),
		xmath.NewVec3(0, 1, 0),
	)
	ray := trace.NewRay(xmath.NewVec3(0, -0.3, 5), xmath.Vec3Front)
	hit, ok := tri.RayHit(ray, fullRange())
	if !ok {
		t.Fatal("expected a hit through the triangle's interior")
	}
	if math.Abs(hit.Point.Z) > 1e-9 {
		t.Errorf("hit.Point.Z = %v, want 0", hit.Point.Z)
	}
}

func TestTriangleRayMissOutsideEdges(t *testing.T) {
	tri := FlatTriangle(
		xmath.NewVec3(-1, -1, 0),
		xmath.NewVec3(1, -1, 0),
		xmath.NewVec3(0, 1, 0),
	)
	ray := trace.NewRay(xmath.NewVec3(5, 5, 5), xmath.Vec3Front)
	if _, ok := tri.RayHit(ray, fullRange()); ok {
		t.Error("expected a miss well outside the triangle")
	}
}

func TestTriangleDegenerateCollinearMiss(t *testing.T) {
	// Three collinear points: zero-area triangle, zero determinant.
	tri := FlatTriangle(
		xmath.NewVec3(-1, 0, 0),
		xmath.NewVec3(0, 0, 0),
		xmath.NewVec3(1, 0, 0),
	)
	ray := trace.NewRay(xmath.NewVec3(0, 5, 0), xmath.Vec3Down)
	if _, ok := tri.RayHit(ray, fullRange()); ok {
		t.Error("expected a degenerate collinear triangle to never report a hit")
	}
}

func TestMeshBoundsUnionsTriangles(t *testing.T) {
	data := &MeshData{
		Positions: []xmath.Vec3{
			xmath.NewVec3(-2, 0, 0),
			xmath.NewVec3(2, 0, 0),
			xmath.NewVec3(0, 3, 0),
		},
		Indices: [][3]int{{0, 1, 2}},
	}
	m := NewMesh(data, Flat)
	b := m.Bounds()
	if b.Min.X > -2 || b.Max.X < 2 || b.Max.Y < 3 {
		t.Errorf("mesh bounds %v do not contain its single triangle", b)
	}
}

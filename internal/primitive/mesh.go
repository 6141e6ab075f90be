package primitive

import (
	"github.com/sunjay/portrayer-sub000/internal/trace"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Shading selects how a Mesh reports its hit normal.
type Shading int

const (
	// Flat uses each triangle's face normal, ignoring any per-vertex
	// normals the source file supplied.
	Flat Shading = iota
	// Smooth blends per-vertex normals across the triangle, producing the
	// familiar rounded look on coarse geometry. Requires the loader to
	// have populated per-vertex normals; falls back to Flat per-triangle
	// otherwise.
	Smooth
)

// MeshData is the triangle soup produced by an asset loader, before it is
// wrapped into a Mesh primitive and given a bounding cube.
type MeshData struct {
	Positions []xmath.Vec3
	Normals   []xmath.Vec3 // parallel to Positions, may be nil
	UVs       []xmath.Vec2 // parallel to Positions, may be nil
	Indices   [][3]int     // triangle vertex indices into the above slices
}

// Mesh is a closed tagged-union member of Primitive: a triangle soup with a
// cached bounding cube used to fast-reject rays before testing every
// triangle. Without a bound TriangleIndex it tests every triangle; Bind
// wires in an index when a caller supplies one. No code in this module
// builds or binds one.
type Mesh struct {
	data     *MeshData
	shading  Shading
	triangles []Triangle
	bounds   trace.AABB
	index    TriangleIndex // nil means "no acceleration, test every triangle"
}

// TriangleIndex lets a Mesh test its triangles through an accelerated
// structure instead of linearly. No type in this module implements it:
// kdtree.Tree offers RayCast, not RayHit.
type TriangleIndex interface {
	RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool)
}

// NewMesh builds the per-triangle Triangle values (with normals/UVs wired in
// when present) and computes the bounding cube once, up front.
func NewMesh(data *MeshData, shading Shading) *Mesh {
	tris := make([]Triangle, 0, len(data.Indices))
	hasNormals := data.Normals != nil
	hasUVs := data.UVs != nil

	var lo, hi xmath.Vec3
	first := true
	for _, idx := range data.Indices {
		a, b, c := data.Positions[idx[0]], data.Positions[idx[1]], data.Positions[idx[2]]
		tri := Triangle{A: a, B: b, C: c}
		if hasNormals && shading == Smooth {
			tri.NormalA = data.Normals[idx[0]]
			tri.NormalB = data.Normals[idx[1]]
			tri.NormalC = data.Normals[idx[2]]
			tri.HasNormals = true
		}
		if hasUVs {
			tri.UVA = data.UVs[idx[0]]
			tri.UVB = data.UVs[idx[1]]
			tri.UVC = data.UVs[idx[2]]
			tri.HasUVs = true
		}
		tris = append(tris, tri)

		for _, v := range [3]xmath.Vec3{a, b, c} {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			lo = xmath.Vec3{X: minF2(lo.X, v.X), Y: minF2(lo.Y, v.Y), Z: minF2(lo.Z, v.Z)}
			hi = xmath.Vec3{X: maxF2(hi.X, v.X), Y: maxF2(hi.Y, v.Y), Z: maxF2(hi.Z, v.Z)}
		}
	}
	if first {
		// Empty mesh: degenerate bounding cube at the origin.
		lo, hi = xmath.Vec3Zero, xmath.Vec3Zero
	}

	return &Mesh{
		data:      data,
		shading:   shading,
		triangles: tris,
		bounds:    trace.NewAABB(lo, hi),
	}
}

// Bind attaches an acceleration index over m.Triangles() that RayHit will
// consult instead of the linear scan. A nil index is valid and restores
// linear scanning.
func (m *Mesh) Bind(index TriangleIndex) {
	m.index = index
}

// Triangles exposes the mesh's triangles so a caller (the scene builder) can
// build an acceleration index over them.
func (m *Mesh) Triangles() []Triangle {
	return m.triangles
}

func (m *Mesh) RayHit(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	if _, ok := m.bounds.TestHit(ray, r); !ok {
		return trace.Intersection{}, false
	}
	if m.index != nil {
		return m.index.RayHit(ray, r)
	}
	return m.rayHitLinear(ray, r)
}

func (m *Mesh) rayHitLinear(ray trace.Ray, r trace.Range) (trace.Intersection, bool) {
	best := r
	var bestHit trace.Intersection
	found := false
	for _, tri := range m.triangles {
		if hit, ok := tri.RayHit(ray, best); ok {
			bestHit = hit
			best.End = hit.T
			found = true
		}
	}
	return bestHit, found
}

func (m *Mesh) Bounds() trace.AABB {
	return m.bounds
}

// BoundingVolume reports the mesh's bounds, or false if the mesh has no
// triangles at all — distinct from trace.AABB's policy of always inflating
// degenerate extents to a usable (if tiny) box: an empty mesh has no usable
// bounds whatsoever. The scene flattener does not call it; an empty mesh is
// flattened and indexed with Bounds' degenerate box at the origin.
func (m *Mesh) BoundingVolume() (trace.AABB, bool) {
	if len(m.triangles) == 0 {
		return trace.AABB{}, false
	}
	return m.bounds, true
}

package asset

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/sunjay/portrayer-sub000/internal/material"
	"github.com/sunjay/portrayer-sub000/internal/primitive"
	"github.com/sunjay/portrayer-sub000/internal/scene"
	"github.com/sunjay/portrayer-sub000/internal/texture"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// GLTFResult holds everything LoadGLTF produced: the top-level nodes ready
// to attach under a scene.Scene's root, and the texture images it decoded
// along the way (kept around so a caller can, say, report how many were
// loaded; the scene.Node tree already holds the ones actually bound to a
// material).
type GLTFResult struct {
	Roots   []*scene.Node
	Manager *texture.Manager
}

// LoadGLTF opens a .glb or .gltf file and returns its node hierarchy,
// meshes, and materials translated into this package's types. PBR
// metallic-roughness materials are approximated as Blinn-Phong, the same
// roughness/metallic mapping used throughout the renderer this is adapted
// from.
func LoadGLTF(path string) (*GLTFResult, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: opening %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	mgr := texture.NewManager()

	texCache := make([]*texture.Image, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]
		if img.URI == "" || img.IsEmbeddedResource() {
			// Embedded/data-URI and buffer-view images aren't wired up here;
			// only file-referenced images are loaded.
			continue
		}
		tex, err := mgr.Load(filepath.Join(dir, img.URI))
		if err != nil {
			continue
		}
		texCache[i] = tex
	}

	matCache := make([]*material.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		matCache[i] = gltfMaterial(gm, texCache)
	}
	defaultMat := &material.Material{Diffuse: xmath.NewVec3(0.8, 0.8, 0.8)}

	meshPrims := make([][]*primitive.Mesh, len(doc.Meshes))
	meshMat := make([][]*material.Material, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			data, err := gltfPrimitiveData(doc, *prim)
			if err != nil {
				continue
			}
			shading := primitive.Smooth
			if data.Normals == nil {
				shading = primitive.Flat
			}
			mesh := primitive.NewMesh(data, shading)
			meshPrims[mi] = append(meshPrims[mi], mesh)

			mat := defaultMat
			if prim.Material != nil && *prim.Material < len(matCache) && matCache[*prim.Material] != nil {
				mat = matCache[*prim.Material]
			}
			meshMat[mi] = append(meshMat[mi], mat)
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := scene.NewNode()
		n.SetTransform(gltfNodeTransform(gn))

		if gn.Mesh != nil && int(*gn.Mesh) < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			mats := meshMat[*gn.Mesh]
			for pi, m := range prims {
				n.WithChild(scene.NewGeometryNode(scene.Geometry{Primitive: m, Material: mats[pi]}))
			}
		}
		nodes[i] = n
	}

	for i, gn := range doc.Nodes {
		for _, childIdx := range gn.Children {
			if int(childIdx) < len(nodes) {
				nodes[i].WithChild(nodes[childIdx])
			}
		}
	}

	result := &GLTFResult{Manager: mgr}
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if int(rootIdx) < len(nodes) {
				result.Roots = append(result.Roots, nodes[rootIdx])
			}
		}
	} else {
		hasParent := make([]bool, len(nodes))
		for _, gn := range doc.Nodes {
			for _, c := range gn.Children {
				if int(c) < len(hasParent) {
					hasParent[c] = true
				}
			}
		}
		for i, n := range nodes {
			if !hasParent[i] {
				result.Roots = append(result.Roots, n)
			}
		}
	}

	return result, nil
}

// gltfMaterial approximates a PBR metallic-roughness material as
// Blinn-Phong: smoother (lower roughness) surfaces get a higher shininess
// exponent, and metallic surfaces get a stronger gray specular term.
func gltfMaterial(gm *gltf.Material, texCache []*texture.Image) *material.Material {
	m := &material.Material{Diffuse: xmath.NewVec3(0.8, 0.8, 0.8)}

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		m.Diffuse = xmath.NewVec3(float64(cf[0]), float64(cf[1]), float64(cf[2]))

		if pbr.BaseColorTexture != nil {
			idx := pbr.BaseColorTexture.Index
			if int(idx) < len(texCache) && texCache[idx] != nil {
				m.Texture = texCache[idx]
			}
		}

		roughness := float64(pbr.RoughnessFactorOrDefault())
		metallic := float64(pbr.MetallicFactorOrDefault())
		m.Shininess = (1-roughness)*(1-roughness)*128 + 1
		s := metallic * 0.7
		m.Specular = xmath.NewVec3(s, s, s)
	}

	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		idx := *gm.NormalTexture.Index
		if int(idx) < len(texCache) && texCache[idx] != nil {
			m.NormalMap = texture.NewNormalMap(texCache[idx])
		}
	}

	return m
}

// gltfPrimitiveData reads one glTF mesh primitive's accessors into a
// primitive.MeshData. Only triangle-list primitives are supported, the
// common case and the only topology the rest of this package's mesh
// intersection code handles.
func gltfPrimitiveData(doc *gltf.Document, prim gltf.Primitive) (*primitive.MeshData, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("gltf: primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("gltf: reading positions: %w", err)
	}

	data := &primitive.MeshData{Positions: make([]xmath.Vec3, len(positions))}
	for i, p := range positions {
		data.Positions[i] = xmath.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err == nil {
			data.Normals = make([]xmath.Vec3, len(normals))
			for i, n := range normals {
				data.Normals[i] = xmath.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
		}
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err == nil {
			data.UVs = make([]xmath.Vec2, len(uvs))
			for i, uv := range uvs {
				data.UVs[i] = xmath.Vec2{X: float64(uv[0]), Y: float64(uv[1])}
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("gltf: reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("gltf: index count %d is not a multiple of 3", len(indices))
	}
	data.Indices = make([][3]int, len(indices)/3)
	for i := range data.Indices {
		data.Indices[i] = [3]int{int(indices[3*i]), int(indices[3*i+1]), int(indices[3*i+2])}
	}

	return data, nil
}

// gltfNodeTransform builds a node's local transform from its glTF TRS
// (translation, rotation quaternion, scale) fields. A node's Matrix field,
// if present instead of TRS, is not supported — no example in this
// renderer's asset set uses it.
func gltfNodeTransform(gn *gltf.Node) xmath.Mat4 {
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()

	translation := xmath.Mat4Translation(xmath.NewVec3(float64(t[0]), float64(t[1]), float64(t[2])))
	rotation := quatToMat4(float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3]))
	scale := xmath.Mat4Scale(xmath.NewVec3(float64(s[0]), float64(s[1]), float64(s[2])))

	return translation.Mul(rotation).Mul(scale)
}

// quatToMat4 converts a unit quaternion (x, y, z, w) into the equivalent
// rotation matrix, the standard normalize-then-expand construction glTF's
// TRS node transforms require.
func quatToMat4(x, y, z, w float64) xmath.Mat4 {
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n > 0 {
		x, y, z, w = x/n, y/n, z/n, w/n
	}

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return xmath.Mat4{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy), 0},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx), 0},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

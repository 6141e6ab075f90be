// Package asset loads scene geometry and materials from disk: Wavefront
// OBJ/MTL and glTF, both producing internal/primitive.MeshData and
// internal/material.Material values the scene builder attaches to nodes.
package asset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sunjay/portrayer-sub000/internal/material"
	"github.com/sunjay/portrayer-sub000/internal/primitive"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// OBJModel is a parsed Wavefront OBJ file: one or more named meshes plus
// whatever materials its mtllib referenced.
type OBJModel struct {
	Meshes    []OBJMesh
	Materials map[string]*material.Material
}

// OBJMesh is a single named mesh group ("o"/"g" line) from an OBJ file.
type OBJMesh struct {
	Name     string
	Data     *primitive.MeshData
	Material string // key into OBJModel.Materials, "" if none
}

// LoadOBJ parses path, fan-triangulating any n-gon faces and resolving a
// sibling mtllib if one is referenced.
func LoadOBJ(path string) (*OBJModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: opening %s: %w", path, err)
	}
	defer f.Close()

	model := &OBJModel{Materials: make(map[string]*material.Material)}

	var positions []xmath.Vec3
	var normals []xmath.Vec3
	var uvs []xmath.Vec2

	current := newOBJMeshBuilder("default")
	currentMaterial := ""

	flush := func() {
		if len(current.indices) > 0 {
			model.Meshes = append(model.Meshes, current.build(currentMaterial))
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			if len(parts) >= 4 {
				positions = append(positions, parseVec3(parts[1], parts[2], parts[3]))
			}
		case "vn":
			if len(parts) >= 4 {
				normals = append(normals, parseVec3(parts[1], parts[2], parts[3]))
			}
		case "vt":
			if len(parts) >= 3 {
				u, _ := strconv.ParseFloat(parts[1], 64)
				v, _ := strconv.ParseFloat(parts[2], 64)
				uvs = append(uvs, xmath.Vec2{X: u, Y: v})
			}
		case "f":
			faceVerts := make([]int, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				faceVerts = append(faceVerts, current.vertex(spec, positions, normals, uvs))
			}
			for i := 2; i < len(faceVerts); i++ {
				current.indices = append(current.indices, [3]int{faceVerts[0], faceVerts[i-1], faceVerts[i]})
			}
		case "o", "g":
			flush()
			name := "unnamed"
			if len(parts) > 1 {
				name = parts[1]
			}
			current = newOBJMeshBuilder(name)
		case "usemtl":
			if len(parts) > 1 {
				currentMaterial = parts[1]
			}
		case "mtllib":
			if len(parts) > 1 {
				mtlPath := filepath.Join(filepath.Dir(path), parts[1])
				mtls, err := LoadMTL(mtlPath)
				if err != nil {
					continue
				}
				for k, v := range mtls {
					model.Materials[k] = v
				}
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asset: reading %s: %w", path, err)
	}
	if len(model.Meshes) == 0 {
		return nil, fmt.Errorf("asset: no mesh data found in %s", path)
	}
	return model, nil
}

// objMeshBuilder dedups "v/vt/vn" vertex specs into a single MeshData per
// named group, the same vertex-key-map approach used for the GPU vertex
// buffers this is adapted from.
type objMeshBuilder struct {
	name       string
	positions  []xmath.Vec3
	normals    []xmath.Vec3
	uvs        []xmath.Vec2
	hasNormals bool
	hasUVs     bool
	indices    [][3]int
	seen       map[string]int
}

func newOBJMeshBuilder(name string) *objMeshBuilder {
	return &objMeshBuilder{name: name, seen: make(map[string]int)}
}

func (b *objMeshBuilder) vertex(spec string, positions, normals []xmath.Vec3, uvs []xmath.Vec2) int {
	if idx, ok := b.seen[spec]; ok {
		return idx
	}

	var pos, norm xmath.Vec3
	var uv xmath.Vec2
	parts := strings.Split(spec, "/")

	if len(parts) >= 1 && parts[0] != "" {
		if i := resolveIndex(parts[0], len(positions)); i >= 0 {
			pos = positions[i]
		}
	}
	if len(parts) >= 2 && parts[1] != "" {
		if i := resolveIndex(parts[1], len(uvs)); i >= 0 {
			uv = uvs[i]
			b.hasUVs = true
		}
	}
	if len(parts) >= 3 && parts[2] != "" {
		if i := resolveIndex(parts[2], len(normals)); i >= 0 {
			norm = normals[i]
			b.hasNormals = true
		}
	}

	idx := len(b.positions)
	b.positions = append(b.positions, pos)
	b.normals = append(b.normals, norm)
	b.uvs = append(b.uvs, uv)
	b.seen[spec] = idx
	return idx
}

func (b *objMeshBuilder) build(materialName string) OBJMesh {
	data := &primitive.MeshData{
		Positions: b.positions,
		Indices:   b.indices,
	}
	if b.hasNormals {
		data.Normals = b.normals
	}
	if b.hasUVs {
		data.UVs = b.uvs
	}
	return OBJMesh{Name: b.name, Data: data, Material: materialName}
}

// resolveIndex converts a 1-based (or negative, relative-to-end) OBJ index
// into a 0-based slice index, or -1 if out of range.
func resolveIndex(spec string, count int) int {
	idx, err := strconv.Atoi(spec)
	if err != nil {
		return -1
	}
	if idx < 0 {
		idx = count + idx + 1
	}
	if idx <= 0 || idx > count {
		return -1
	}
	return idx - 1
}

func parseVec3(xs, ys, zs string) xmath.Vec3 {
	x, _ := strconv.ParseFloat(xs, 64)
	y, _ := strconv.ParseFloat(ys, 64)
	z, _ := strconv.ParseFloat(zs, 64)
	return xmath.NewVec3(x, y, z)
}

// LoadMTL parses a Wavefront MTL material library, mapping Kd/Ks/Ns onto
// the Blinn-Phong Material fields they correspond to. Other directives,
// including d (opacity), are ignored.
func LoadMTL(path string) (map[string]*material.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: opening %s: %w", path, err)
	}
	defer f.Close()

	result := make(map[string]*material.Material)
	var current *material.Material
	var currentName string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "newmtl":
			if len(parts) > 1 {
				currentName = parts[1]
				m := &material.Material{}
				current = m
				result[currentName] = m
			}
		case "Kd":
			if current != nil && len(parts) >= 4 {
				current.Diffuse = parseVec3(parts[1], parts[2], parts[3])
			}
		case "Ks":
			if current != nil && len(parts) >= 4 {
				current.Specular = parseVec3(parts[1], parts[2], parts[3])
			}
		case "Ns":
			if current != nil && len(parts) >= 2 {
				ns, _ := strconv.ParseFloat(parts[1], 64)
				current.Shininess = ns
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asset: reading %s: %w", path, err)
	}
	return result, nil
}

// Package texture provides texture sampling: images loaded from disk, and a
// manager that caches decoded images by path behind a read-write mutex, the
// way a render worker pool wants to share them across goroutines without
// re-decoding the same file per worker.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Source samples a color at a UV coordinate. Both components of uv are
// expected to be in [0, 1], though implementations clamp defensively.
type Source interface {
	At(uv xmath.Vec2) xmath.Vec3
}

// FuncSource adapts a plain function to Source, for procedural textures
// (checkerboards, gradients) that don't need a decoded image.
type FuncSource func(uv xmath.Vec2) xmath.Vec3

func (f FuncSource) At(uv xmath.Vec2) xmath.Vec3 { return f(uv) }

// Image is a texture backed by a decoded raster image, nearest-sampled.
type Image struct {
	buf           image.Image
	width, height int
}

// NewImage wraps an already-decoded image.Image as a texture Source.
func NewImage(img image.Image) *Image {
	b := img.Bounds()
	return &Image{buf: img, width: b.Dx(), height: b.Dy()}
}

// LoadImage decodes an image file from disk. The format is sniffed from the
// file's contents, not its extension; png, jpeg, gif, bmp, and tiff are all
// registered.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decoding %s: %w", path, err)
	}
	return NewImage(img), nil
}

func (t *Image) At(uv xmath.Vec2) xmath.Vec3 {
	uv = uv.Clamp01()
	x := int(uv.X*float64(t.width-1) + 0.5)
	y := int(uv.Y*float64(t.height-1) + 0.5)
	b := t.buf.Bounds()
	r, g, bl, _ := t.buf.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return xmath.Vec3{
		X: float64(r) / 0xffff,
		Y: float64(g) / 0xffff,
		Z: float64(bl) / 0xffff,
	}
}

// NormalMap wraps an Image whose RGB channels encode a tangent-space normal
// in [0, 1]^3, remapping each sample to [-1, 1]^3 on the fly.
type NormalMap struct {
	img *Image
}

// NewNormalMap wraps an already-loaded normal-map image.
func NewNormalMap(img *Image) *NormalMap {
	return &NormalMap{img: img}
}

// At returns the decoded tangent-space normal, not guaranteed to be unit
// length until the caller normalizes it (material.HitColor does, before
// transforming it into world space via the hit's tangent frame).
func (n *NormalMap) At(uv xmath.Vec2) xmath.Vec3 {
	c := n.img.At(uv)
	return xmath.Vec3{X: 2*c.X - 1, Y: 2*c.Y - 1, Z: 2*c.Z - 1}
}

// Manager caches decoded images by file path so that a scene referencing the
// same texture file from several materials only pays the decode cost once,
// and so concurrent render workers can share the cache safely.
type Manager struct {
	mu       sync.RWMutex
	images   map[string]*Image
	fallback *Image
}

// NewManager returns an empty texture manager.
func NewManager() *Manager {
	return &Manager{images: make(map[string]*Image)}
}

// Load returns the cached Image for path, decoding and caching it on first
// use.
func (m *Manager) Load(path string) (*Image, error) {
	m.mu.RLock()
	if img, ok := m.images[path]; ok {
		m.mu.RUnlock()
		return img, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if img, ok := m.images[path]; ok {
		return img, nil
	}
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	m.images[path] = img
	return img, nil
}

// Fallback returns a flat mid-gray 1x1 texture, created once per Manager.
// Nothing in this module calls it: the asset loaders leave a material
// untextured when its texture file fails to load.
func (m *Manager) Fallback() *Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fallback == nil {
		m.fallback = &Image{buf: solidGray{}, width: 1, height: 1}
	}
	return m.fallback
}

type solidGray struct{}

func (solidGray) ColorModel() color.Model { return color.RGBAModel }
func (solidGray) Bounds() image.Rectangle { return image.Rect(0, 0, 1, 1) }
func (solidGray) At(int, int) color.Color {
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

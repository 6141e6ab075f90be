package scene

import (
	"github.com/sunjay/portrayer-sub000/internal/light"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Scene is a hierarchical scene: a root node, the lights illuminating it,
// and an ambient color applied uniformly regardless of direct light.
type Scene struct {
	Root    *Node
	Lights  []light.Light
	Ambient xmath.Vec3
}

// NewScene returns an empty scene rooted at an identity-transform group
// node.
func NewScene() *Scene {
	return &Scene{Root: NewNode()}
}

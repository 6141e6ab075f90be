// Command raytrace renders a small demonstration scene to a PNG file. It
// exists to exercise every package end to end — scene construction,
// flattening, k-d tree acceleration, camera ray generation, and the
// parallel render loop — the way portrayer's own command-line binary wires
// its library together.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sunjay/portrayer-sub000/config"
	"github.com/sunjay/portrayer-sub000/internal/camera"
	"github.com/sunjay/portrayer-sub000/internal/kdtree"
	"github.com/sunjay/portrayer-sub000/internal/light"
	"github.com/sunjay/portrayer-sub000/internal/material"
	"github.com/sunjay/portrayer-sub000/internal/primitive"
	"github.com/sunjay/portrayer-sub000/internal/scene"
	"github.com/sunjay/portrayer-sub000/internal/texture"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
	"github.com/sunjay/portrayer-sub000/render"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		out        = flag.String("out", "render.png", "output PNG path")
		width      = flag.Int("width", 256, "image width in pixels")
		height     = flag.Int("height", 256, "image height in pixels")
		configPath = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	s := demoScene()
	flat := scene.Flatten(s)
	flat.BuildIndex(cfg.KDDepth, kdtree.DefaultPartitionConfig())

	cam := camera.New(camera.Settings{
		Eye:    xmath.NewVec3(0, 0, 3),
		Center: xmath.Vec3Zero,
		Up:     xmath.NewVec3(0, 1, 0),
		Fovy:   xmath.FromDegrees(50),
	}, *width, *height)

	background := texture.FuncSource(func(uv xmath.Vec2) xmath.Vec3 {
		top := xmath.NewVec3(0.2, 0.4, 0.6)
		bottom := xmath.NewVec3(0, 0, 1)
		return top.Mul(1 - uv.Y).Add(bottom.Mul(uv.Y))
	})

	reporter := render.NewProgressReporter(uint64(*width)*uint64(*height), cfg.CI)
	img, err := render.Image(context.Background(), flat, cam, background, *width, *height, render.Options{
		Samples:       cfg.Samples,
		Workers:       cfg.Workers,
		GammaExponent: cfg.GammaExponent,
		Reporter:      reporter,
	})
	reporter.Stop()
	if err != nil {
		logger.Error("rendering", "error", err)
		os.Exit(1)
	}

	if err := render.WritePNG(img, *out); err != nil {
		logger.Error("writing image", "error", err)
		os.Exit(1)
	}

	fmt.Println(*out)
}

// demoScene builds a small two-sphere scene, the same shape as the minimal
// example this binary's structure is grounded on.
func demoScene() *scene.Scene {
	mat1 := &material.Material{
		Diffuse:   xmath.NewVec3(0.3, 0.3, 0.3),
		Specular:  xmath.NewVec3(0.8, 0.8, 0.8),
		Shininess: 10,
	}
	mat2 := &material.Material{
		Diffuse:   xmath.NewVec3(0.2, 0.5, 0.5),
		Specular:  xmath.NewVec3(0.8, 0.8, 0.8),
		Shininess: 10,
	}

	sphere1 := scene.NewGeometryNode(scene.Geometry{Primitive: primitive.Sphere{}, Material: mat1}).
		Scaled(xmath.NewVec3(2, 2, 2)).
		Translated(xmath.NewVec3(0, 2, 0))
	sphere2 := scene.NewGeometryNode(scene.Geometry{Primitive: primitive.Sphere{}, Material: mat2}).
		Scaled(xmath.NewVec3(1.5, 1.5, 1.5)).
		Translated(xmath.NewVec3(-1, 0, 0))

	s := scene.NewScene()
	s.Root.WithChildren(sphere1, sphere2)
	s.Lights = []light.Light{
		light.NewPointLight(xmath.NewVec3(0, 0, 3), xmath.NewVec3(0.9, 0.9, 0.9)),
	}
	s.Ambient = xmath.NewVec3(0.3, 0.3, 0.3)
	return s
}

// Package render drives the render loop itself: turning a scene, a camera,
// and a background into a finished image, one pixel (optionally several
// jittered samples per pixel) at a time, spread across a worker pool.
package render

import (
	"context"
	"image"
	"image/color"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sunjay/portrayer-sub000/internal/camera"
	"github.com/sunjay/portrayer-sub000/internal/scene"
	"github.com/sunjay/portrayer-sub000/internal/texture"
	"github.com/sunjay/portrayer-sub000/internal/xmath"
)

// Options controls how an image is produced.
type Options struct {
	// Samples is the number of jittered camera rays averaged per pixel.
	// 1 takes exactly the pixel-center ray, matching the renderer this is
	// adapted from.
	Samples int
	// Workers is the goroutine pool size; 0 means runtime.NumCPU().
	Workers int
	// GammaExponent is applied as 1/GammaExponent to each color channel
	// before the final 8-bit quantization.
	GammaExponent float64
	// Reporter receives a count of newly finished pixels after each row
	// completes; may be nil.
	Reporter Reporter
}

// Reporter is notified as pixels complete, used to drive a progress
// display without coupling the render loop to any particular UI.
type Reporter interface {
	ReportFinishedPixels(n uint64)
}

// Image renders scene through camera into a width x height RGBA image,
// sampling background for any ray that escapes the scene entirely.
func Image(ctx context.Context, s *scene.FlatScene, cam camera.Camera, background texture.Source, width, height int, opts Options) (*image.RGBA, error) {
	if opts.GammaExponent == 0 {
		opts.GammaExponent = 2.2
	}
	if opts.Samples <= 0 {
		opts.Samples = 1
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	g, ctx := errgroup.WithContext(ctx)
	rows := make(chan int, height)
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w) + 1))
			for y := range rows {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				for x := 0; x < width; x++ {
					c := renderPixel(s, cam, background, x, y, width, height, opts, rng)
					img.SetRGBA(x, y, c)
				}
				if opts.Reporter != nil {
					opts.Reporter.ReportFinishedPixels(uint64(width))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

func renderPixel(s *scene.FlatScene, cam camera.Camera, background texture.Source, x, y, width, height int, opts Options, rng *rand.Rand) color.RGBA {
	sum := xmath.Vec3Zero
	uv := cam.ScreenUV(x, y)
	backgroundColor := background.At(uv)
	for i := 0; i < opts.Samples; i++ {
		var dx, dy float64
		if opts.Samples > 1 {
			// Jitter within the pixel square for a basic anti-aliasing pass.
			dx = rng.Float64() - 0.5
			dy = rng.Float64() - 0.5
		}
		ray := cam.RayAtOffset(x, y, dx, dy)
		sum = sum.Add(s.Color(ray, backgroundColor, 0))
	}
	avg := sum.Div(float64(opts.Samples))

	gammaCorrected := xmath.Vec3{
		X: math.Pow(avg.X, 1/opts.GammaExponent),
		Y: math.Pow(avg.Y, 1/opts.GammaExponent),
		Z: math.Pow(avg.Z, 1/opts.GammaExponent),
	}
	clamped := clamp01(gammaCorrected)

	return color.RGBA{
		R: uint8(clamped.X * 255),
		G: uint8(clamped.Y * 255),
		B: uint8(clamped.Z * 255),
		A: 255,
	}
}

func clamp01(v xmath.Vec3) xmath.Vec3 {
	c := func(f float64) float64 {
		if f < 0 {
			return 0
		}
		if f > 1 {
			return 1
		}
		return f
	}
	return xmath.Vec3{X: c(v.X), Y: c(v.Y), Z: c(v.Z)}
}

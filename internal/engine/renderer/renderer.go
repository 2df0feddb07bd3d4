// Package renderer casts one ray per pixel through a camera into a scene of
// spheres and writes the shaded result into a framebuffer.
package renderer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/internal/engine/framebuffer"
	"github.com/Faultbox/raytracer/internal/engine/lighting"
	"github.com/Faultbox/raytracer/internal/engine/raycast"
	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/internal/logger"
	"github.com/Faultbox/raytracer/pkg/math"
)

// ErrDimensionMismatch is returned by Render when the camera viewport and the
// framebuffer disagree on size.
var ErrDimensionMismatch = errors.New("camera and framebuffer sizes differ")

// Background is the color of rays that hit nothing.
var Background = math.Vec4{0, 0, 0, 1}

// Stats describes the most recent Render call.
type Stats struct {
	Duration time.Duration
	Pixels   int
	Hits     int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers renders rows on up to n goroutines. Values below 2 render on
// the calling goroutine.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.SetWorkers(n)
	}
}

// WithSun replaces the default directional light.
func WithSun(sun lighting.Sun) Option {
	return func(r *Renderer) {
		r.sun = sun
	}
}

// Renderer owns the output framebuffer. It never mutates the camera or the
// scene it is given.
type Renderer struct {
	fb      *framebuffer.Framebuffer
	sun     lighting.Sun
	workers int
	stats   Stats

	log *zap.Logger
}

// New creates a renderer with an empty framebuffer. Call Resize before the
// first Render.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		fb:      framebuffer.New(0, 0),
		sun:     lighting.DefaultSun(),
		workers: 1,
		log:     logger.Named("renderer"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resize reallocates the framebuffer if the size changed.
func (r *Renderer) Resize(width, height int) {
	if r.fb.Resize(width, height) {
		r.log.Debug("framebuffer reallocated",
			zap.Int("width", width),
			zap.Int("height", height),
		)
	}
}

// Image returns the framebuffer written by the last Render.
func (r *Renderer) Image() *framebuffer.Framebuffer {
	return r.fb
}

// Workers returns the row fan-out width.
func (r *Renderer) Workers() int {
	return r.workers
}

// SetWorkers changes the row fan-out width for subsequent renders.
func (r *Renderer) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	r.workers = n
}

// LastStats returns timing and hit counts of the most recent Render.
func (r *Renderer) LastStats() Stats {
	return r.stats
}

// Render shades every pixel of the framebuffer. Rows are visited bottom-up
// with x innermost; with several workers each one takes a contiguous band of
// rows and the output is identical to the serial result.
func (r *Renderer) Render(sc *scene.Scene, cam *camera.Camera) error {
	width, height := r.fb.Size()
	camW, camH := cam.Size()
	if camW != width || camH != height {
		return fmt.Errorf("%w: camera %dx%d, framebuffer %dx%d",
			ErrDimensionMismatch, camW, camH, width, height)
	}

	start := time.Now()
	hits := make([]int, height)

	if r.workers < 2 || height < 2 {
		r.renderRows(sc, cam, 0, height, hits)
	} else {
		var g errgroup.Group
		g.SetLimit(r.workers)

		band := (height + r.workers - 1) / r.workers
		for y0 := 0; y0 < height; y0 += band {
			y1 := min(y0+band, height)
			g.Go(func() error {
				r.renderRows(sc, cam, y0, y1, hits)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("rendering rows: %w", err)
		}
	}

	total := 0
	for _, h := range hits {
		total += h
	}
	r.stats = Stats{
		Duration: time.Since(start),
		Pixels:   width * height,
		Hits:     total,
	}
	r.log.Debug("frame rendered",
		zap.Duration("duration", r.stats.Duration),
		zap.Int("pixels", r.stats.Pixels),
		zap.Int("hits", r.stats.Hits),
		zap.Int("workers", r.workers),
	)
	return nil
}

// renderRows shades rows [y0, y1). Each row's hit count lands in hits[y].
func (r *Renderer) renderRows(sc *scene.Scene, cam *camera.Camera, y0, y1 int, hits []int) {
	width, _ := r.fb.Size()
	pixels := r.fb.Pixels()
	origin := cam.Position()
	dirs := cam.RayDirections()

	for y := y0; y < y1; y++ {
		rowHits := 0
		for x := 0; x < width; x++ {
			i := x + y*width
			ray := raycast.Ray{Origin: origin, Direction: dirs[i]}
			color, hit := r.trace(sc, ray)
			if hit {
				rowHits++
			}
			pixels[i] = ConvertToRGBA(color.Clamp(0, 1))
		}
		hits[y] = rowHits
	}
}

// PerPixel returns the unclamped color of pixel (x, y).
func (r *Renderer) PerPixel(x, y int, sc *scene.Scene, cam *camera.Camera) math.Vec4 {
	width, _ := cam.Size()
	ray := raycast.Ray{
		Origin:    cam.Position(),
		Direction: cam.RayDirections()[x+y*width],
	}
	return r.TraceRay(sc, ray)
}

// TraceRay shades a single ray: the closest sphere in front of the origin is
// lit by the directional light, anything else is Background.
func (r *Renderer) TraceRay(sc *scene.Scene, ray raycast.Ray) math.Vec4 {
	color, _ := r.trace(sc, ray)
	return color
}

func (r *Renderer) trace(sc *scene.Scene, ray raycast.Ray) (math.Vec4, bool) {
	spheres := sc.Spheres()
	if len(spheres) == 0 {
		return Background, false
	}

	hit, ok := ray.ClosestHit(spheres)
	if !ok {
		return Background, false
	}

	sphere := spheres[hit.Index]
	// Hit point relative to the sphere center doubles as the outward normal
	local := ray.Origin.Sub(sphere.Position).Add(ray.Direction.Scale(hit.Distance))
	normal := local.Normalize()

	albedo := sc.Materials()[sphere.Material].Albedo
	return albedo.Scale(r.sun.Lambert(normal)).Vec4(1), true
}

// ConvertToRGBA packs a color with components in [0, 1] as 0xAABBGGRR.
// Components are truncated, not rounded.
func ConvertToRGBA(c math.Vec4) uint32 {
	red := uint32(uint8(c[0] * 255))
	green := uint32(uint8(c[1] * 255))
	blue := uint32(uint8(c[2] * 255))
	alpha := uint32(uint8(c[3] * 255))
	return alpha<<24 | blue<<16 | green<<8 | red
}

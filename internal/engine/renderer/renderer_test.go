package renderer

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/internal/engine/lighting"
	"github.com/Faultbox/raytracer/internal/engine/raycast"
	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/pkg/math"
)

const size = 16

// center is the pixel whose ray runs straight down the view axis.
const center = size/2 + size/2*size

var invSqrt3 = 1 / math32.Sqrt(3)

func setup(t *testing.T, opts ...Option) (*Renderer, *camera.Camera) {
	t.Helper()
	cam := camera.New(45, 0.1, 100)
	cam.Resize(size, size)
	r := New(opts...)
	r.Resize(size, size)
	return r, cam
}

func buildScene(t *testing.T, materials []scene.Material, spheres []scene.Sphere) *scene.Scene {
	t.Helper()
	sc, err := scene.FromParts(materials, spheres)
	if err != nil {
		t.Fatalf("building scene: %v", err)
	}
	return sc
}

func white() []scene.Material {
	return []scene.Material{{Albedo: math.Vec3{X: 1, Y: 1, Z: 1}}}
}

func channel(p uint32, shift uint) int {
	return int(p>>shift) & 0xFF
}

func nearColor(a, b math.Vec4) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > 1e-3 {
			return false
		}
	}
	return true
}

func TestEmptySceneIsBackground(t *testing.T) {
	r, cam := setup(t)
	if err := r.Render(scene.New(), cam); err != nil {
		t.Fatalf("Render: %v", err)
	}

	bg := ConvertToRGBA(Background)
	if bg != 0xFF000000 {
		t.Fatalf("background packs to %#x, want 0xff000000", bg)
	}
	for i, p := range r.Image().Pixels() {
		if p != bg {
			t.Fatalf("pixel %d = %#x, want background", i, p)
		}
	}
	if s := r.LastStats(); s.Hits != 0 || s.Pixels != size*size {
		t.Errorf("stats = %+v, want 0 hits over %d pixels", s, size*size)
	}
}

func TestUnitSphereCenterHit(t *testing.T) {
	r, cam := setup(t)
	sc := buildScene(t, white(), []scene.Sphere{{Radius: 1}})

	if err := r.Render(sc, cam); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Normal (0,0,1) against light from (1,1,1)/sqrt(3)
	want := math.Vec4{invSqrt3, invSqrt3, invSqrt3, 1}
	if got := r.PerPixel(size/2, size/2, sc, cam); !nearColor(got, want) {
		t.Errorf("PerPixel(center) = %v, want %v", got, want)
	}

	p := r.Image().Pixels()[center]
	wantByte := int(invSqrt3 * 255)
	for _, shift := range []uint{0, 8, 16} {
		if got := channel(p, shift); got < wantByte-1 || got > wantByte+1 {
			t.Errorf("channel >>%d = %d, want about %d", shift, got, wantByte)
		}
	}
	if channel(p, 24) != 0xFF {
		t.Errorf("alpha = %d, want 255", channel(p, 24))
	}

	s := r.LastStats()
	if s.Hits == 0 || s.Hits == s.Pixels {
		t.Errorf("expected a partially covered frame, got %d of %d hits", s.Hits, s.Pixels)
	}
}

func TestFarSphereMisses(t *testing.T) {
	r, cam := setup(t)
	sc := buildScene(t, white(), []scene.Sphere{{Position: math.Vec3{X: 100}, Radius: 1}})

	if err := r.Render(sc, cam); err != nil {
		t.Fatalf("Render: %v", err)
	}
	bg := ConvertToRGBA(Background)
	for i, p := range r.Image().Pixels() {
		if p != bg {
			t.Fatalf("pixel %d = %#x, want background", i, p)
		}
	}
}

func TestOffsetSphereIsTranslated(t *testing.T) {
	r, cam := setup(t)
	sc := buildScene(t, white(), []scene.Sphere{{Position: math.Vec3{X: 3}, Radius: 1}})

	// Looking down the origin axis passes beside the sphere
	if err := r.Render(sc, cam); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if p := r.Image().Pixels()[center]; p != ConvertToRGBA(Background) {
		t.Errorf("center pixel = %#x, want background", p)
	}

	// Standing in front of the sphere hits its near pole
	cam.SetPose(math.Vec3{X: 3, Y: 0, Z: 6}, math.Vec3{X: 0, Y: 0, Z: -1})
	want := math.Vec4{invSqrt3, invSqrt3, invSqrt3, 1}
	if got := r.PerPixel(size/2, size/2, sc, cam); !nearColor(got, want) {
		t.Errorf("PerPixel(center) = %v, want %v", got, want)
	}
}

func TestClosestHitRegardlessOfOrder(t *testing.T) {
	materials := []scene.Material{
		{Albedo: math.Vec3{X: 1}},
		{Albedo: math.Vec3{Y: 1}},
	}
	near := scene.Sphere{Position: math.Vec3{Z: 2}, Radius: 0.5, Material: 0}
	far := scene.Sphere{Position: math.Vec3{Z: -2}, Radius: 1, Material: 1}

	ray := raycast.Ray{
		Origin:    math.Vec3{Z: 6},
		Direction: math.Vec3{Z: -1},
	}

	tests := []struct {
		name    string
		spheres []scene.Sphere
	}{
		{"near first", []scene.Sphere{near, far}},
		{"far first", []scene.Sphere{far, near}},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := buildScene(t, materials, tt.spheres)
			got := r.TraceRay(sc, ray)
			if got[0] <= 0 || got[1] != 0 {
				t.Errorf("TraceRay = %v, want the red near sphere", got)
			}
		})
	}
}

func TestColorClamping(t *testing.T) {
	r, cam := setup(t)
	sc := buildScene(t,
		[]scene.Material{{Albedo: math.Vec3{X: 2}}},
		[]scene.Sphere{{Radius: 1}},
	)

	// Unclamped the red channel is 2/sqrt(3) > 1
	if got := r.PerPixel(size/2, size/2, sc, cam); got[0] <= 1 {
		t.Fatalf("expected unclamped red above 1, got %v", got)
	}

	if err := r.Render(sc, cam); err != nil {
		t.Fatalf("Render: %v", err)
	}
	p := r.Image().Pixels()[center]
	if channel(p, 0) != 0xFF {
		t.Errorf("red = %d, want 255", channel(p, 0))
	}
	if channel(p, 8) != 0 || channel(p, 16) != 0 {
		t.Errorf("green/blue = %d/%d, want 0", channel(p, 8), channel(p, 16))
	}
}

func TestConvertToRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   math.Vec4
		want uint32
	}{
		{"magenta", math.Vec4{1, 0, 1, 1}, 0xFFFF00FF},
		{"opaque black", math.Vec4{0, 0, 0, 1}, 0xFF000000},
		{"transparent", math.Vec4{0, 0, 0, 0}, 0},
		{"channel order", math.Vec4{1, 0, 0, 0}, 0x000000FF},
		{"truncates", math.Vec4{0.999, 0.5, 0.0039, 1}, 0xFF00_7FFE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertToRGBA(tt.in); got != tt.want {
				t.Errorf("ConvertToRGBA(%v) = %#08x, want %#08x", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	sc := buildScene(t,
		[]scene.Material{
			{Albedo: math.Vec3{X: 1, Y: 0, Z: 1}},
			{Albedo: math.Vec3{X: 0.2, Y: 0.3, Z: 1}, Roughness: 0.1},
		},
		[]scene.Sphere{
			{Radius: 0.5, Material: 0},
			{Position: math.Vec3{X: 1, Z: -5}, Radius: 1.5, Material: 1},
		},
	)

	render := func(opts ...Option) []uint32 {
		r, cam := setup(t, opts...)
		if err := r.Render(sc, cam); err != nil {
			t.Fatalf("Render: %v", err)
		}
		first := append([]uint32(nil), r.Image().Pixels()...)
		if err := r.Render(sc, cam); err != nil {
			t.Fatalf("Render: %v", err)
		}
		for i, p := range r.Image().Pixels() {
			if p != first[i] {
				t.Fatalf("pixel %d changed between renders: %#x -> %#x", i, first[i], p)
			}
		}
		return first
	}

	serial := render()
	for _, workers := range []int{2, 3, 7, 64} {
		parallel := render(WithWorkers(workers))
		for i := range serial {
			if parallel[i] != serial[i] {
				t.Fatalf("workers=%d: pixel %d = %#x, serial %#x", workers, i, parallel[i], serial[i])
			}
		}
	}
}

func TestResizeSameSizeKeepsBuffer(t *testing.T) {
	r, _ := setup(t)
	before := r.Image().Pixels()

	r.Resize(size, size)

	if &r.Image().Pixels()[0] != &before[0] {
		t.Error("same-size Resize replaced the framebuffer storage")
	}

	r.Resize(size+1, size)
	if w, h := r.Image().Size(); w != size+1 || h != size {
		t.Errorf("size = %dx%d after resize", w, h)
	}
}

func TestDimensionMismatch(t *testing.T) {
	r, cam := setup(t)
	cam.Resize(size*2, size)
	r.Image().Clear(0x12345678)

	err := r.Render(scene.New(), cam)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	for i, p := range r.Image().Pixels() {
		if p != 0x12345678 {
			t.Fatalf("pixel %d written despite mismatch", i)
		}
	}
}

func TestWithSun(t *testing.T) {
	r := New(WithSun(lighting.NewSun(math.Vec3{Z: -1})))
	sc := buildScene(t, white(), []scene.Sphere{{Radius: 1}})

	ray := raycast.Ray{Origin: math.Vec3{Z: 6}, Direction: math.Vec3{Z: -1}}
	if got := r.TraceRay(sc, ray); !nearColor(got, math.Vec4{1, 1, 1, 1}) {
		t.Errorf("head-on light should fully light the pole, got %v", got)
	}
}

func TestWorkersOption(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{8, 8},
	}
	for _, tt := range tests {
		if got := New(WithWorkers(tt.in)).Workers(); got != tt.want {
			t.Errorf("WithWorkers(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

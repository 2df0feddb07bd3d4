package raycast

import (
	"testing"

	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/pkg/math"
)

func TestPick(t *testing.T) {
	cam := camera.New(45, 0.1, 100)
	cam.Resize(100, 100)

	spheres := []scene.Sphere{
		{Position: math.Vec3{X: 0, Y: 0, Z: 0}, Radius: 0.5},
		{Position: math.Vec3{X: 0, Y: 1.5, Z: 0}, Radius: 0.5},
	}

	tests := []struct {
		name    string
		x, y    float32
		want    int
		wantHit bool
	}{
		{"center picks the origin sphere", 50, 50, 0, true},
		{"upper half picks the raised sphere", 50, 80, 1, true},
		{"corner misses", 2, 2, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := Pick(cam, spheres, tt.x, tt.y)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && hit.Index != tt.want {
				t.Errorf("picked sphere %d, want %d", hit.Index, tt.want)
			}
		})
	}
}

package raycast

import (
	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/internal/engine/scene"
)

// Pick casts the ray under viewport position (x, y), measured in pixels from
// the bottom-left like the render itself, and returns the closest sphere.
func Pick(cam *camera.Camera, spheres []scene.Sphere, x, y float32) (Hit, bool) {
	ray := Ray{
		Origin:    cam.Position(),
		Direction: cam.RayDirection(x, y),
	}
	return ray.ClosestHit(spheres)
}

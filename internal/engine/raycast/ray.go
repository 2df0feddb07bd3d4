// Package raycast provides rays and analytic ray-sphere intersection.
package raycast

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/pkg/math"
)

// Ray represents a ray in 3D space. Direction need not be unit length;
// hit distances are measured in multiples of it.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit describes the closest intersection found by ClosestHit.
type Hit struct {
	// Distance is the ray parameter t of the hit.
	Distance float32
	// Index is the position of the sphere in the scene.
	Index int
}

// IntersectSphere returns the near root of the ray-sphere quadratic.
// ok is false when the discriminant is negative.
func (r Ray) IntersectSphere(s scene.Sphere) (t float32, ok bool) {
	// Solve in sphere-local space so the sphere sits at the origin:
	// (d.d)t^2 + 2(o.d)t + (o.o - r^2) = 0
	origin := r.Origin.Sub(s.Position)

	a := r.Direction.Dot(r.Direction)
	b := 2 * origin.Dot(r.Direction)
	c := origin.Dot(origin) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	return (-b - math32.Sqrt(discriminant)) / (2 * a), true
}

// ClosestHit scans every sphere and returns the nearest hit in front of the
// ray origin. Ties keep the lower index.
func (r Ray) ClosestHit(spheres []scene.Sphere) (Hit, bool) {
	closest := Hit{Distance: math32.MaxFloat32, Index: -1}
	for i, s := range spheres {
		t, ok := r.IntersectSphere(s)
		if !ok || t < 0 {
			continue
		}
		if t < closest.Distance {
			closest = Hit{Distance: t, Index: i}
		}
	}
	return closest, closest.Index >= 0
}

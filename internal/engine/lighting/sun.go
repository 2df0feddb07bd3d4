// Package lighting provides the directional light used to shade hits.
package lighting

import "github.com/Faultbox/raytracer/pkg/math"

// DefaultDirection is the direction the light travels in, before normalization.
var DefaultDirection = math.Vec3{X: -1, Y: -1, Z: -1}

// Sun is a directional light infinitely far away.
type Sun struct {
	// Direction is the unit direction light travels in.
	Direction math.Vec3
}

// NewSun returns a light travelling along dir (normalized).
func NewSun(dir math.Vec3) Sun {
	return Sun{Direction: dir.Normalize()}
}

// DefaultSun returns the fixed scene light.
func DefaultSun() Sun {
	return NewSun(DefaultDirection)
}

// Lambert returns the diffuse intensity for a unit surface normal,
// clamped at zero past the terminator.
func (s Sun) Lambert(normal math.Vec3) float32 {
	d := normal.Dot(s.Direction.Neg())
	if d < 0 {
		return 0
	}
	return d
}

// Package camera provides the ray-casting camera: projection and view state
// plus a per-pixel table of world-space ray directions.
package camera

import (
	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/logger"
	"github.com/Faultbox/raytracer/pkg/math"
)

// Mouse travel is scaled by this factor before it becomes a rotation.
const mouseScale = 0.002

// Default movement tuning.
const (
	DefaultMoveSpeed     = 5.0
	DefaultRotationSpeed = 0.3
)

var worldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// Camera holds projection and view matrices and the ray direction cache.
type Camera struct {
	// Tuning, read on every Update
	MoveSpeed     float32 // Units per second
	RotationSpeed float32 // Radians per scaled pixel of mouse travel

	verticalFOV float32 // Degrees
	nearClip    float32
	farClip     float32

	width, height int

	position  math.Vec3
	direction math.Vec3

	projection        math.Mat4
	inverseProjection math.Mat4
	view              math.Mat4
	inverseView       math.Mat4

	rayDirections []math.Vec3

	lastMouse math.Vec2

	log *zap.Logger
}

// New creates a camera at (0, 0, 6) looking down -Z. The ray cache stays
// empty until the first Resize.
func New(verticalFOV, nearClip, farClip float32) *Camera {
	c := &Camera{
		MoveSpeed:     DefaultMoveSpeed,
		RotationSpeed: DefaultRotationSpeed,
		verticalFOV:   verticalFOV,
		nearClip:      nearClip,
		farClip:       farClip,
		position:      math.Vec3{X: 0, Y: 0, Z: 6},
		direction:     math.Vec3{X: 0, Y: 0, Z: -1},
		log:           logger.Named("camera"),
	}
	c.recalculateProjection()
	c.recalculateView()
	return c
}

// Update applies one frame of input. Movement and look only happen while
// the look button is held. Returns true if the pose changed, in which case
// the view matrices and ray cache have been rebuilt.
func (c *Camera) Update(dt float32, in Input) bool {
	mouse := in.MousePosition()
	delta := mouse.Sub(c.lastMouse).Scale(mouseScale)
	c.lastMouse = mouse

	if !in.LookActive() {
		return false
	}

	moved := false
	right := c.direction.Cross(worldUp)
	step := c.MoveSpeed * dt

	// Movement
	if in.KeyDown(Forward) {
		c.position = c.position.Add(c.direction.Scale(step))
		moved = true
	} else if in.KeyDown(Backward) {
		c.position = c.position.Sub(c.direction.Scale(step))
		moved = true
	}
	if in.KeyDown(Left) {
		c.position = c.position.Sub(right.Scale(step))
		moved = true
	} else if in.KeyDown(Right) {
		c.position = c.position.Add(right.Scale(step))
		moved = true
	}
	if in.KeyDown(Down) {
		c.position = c.position.Sub(worldUp.Scale(step))
		moved = true
	} else if in.KeyDown(Up) {
		c.position = c.position.Add(worldUp.Scale(step))
		moved = true
	}

	// Rotation
	if !delta.IsZero() {
		pitch := delta.Y * c.RotationSpeed
		yaw := delta.X * c.RotationSpeed

		q := math.QuatFromAxisAngle(right.Normalize(), -pitch).
			Mul(math.QuatFromAxisAngle(worldUp, -yaw)).
			Normalize()
		c.direction = q.Rotate(c.direction)
		moved = true
	}

	if moved {
		c.recalculateView()
		c.recalculateRayDirections()
	}
	return moved
}

// Resize sets the viewport size. Same-size calls are no-ops.
func (c *Camera) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height

	c.recalculateProjection()
	c.recalculateRayDirections()
}

// SetPose places the camera explicitly and rebuilds the view and ray cache.
// A zero direction keeps the current one.
func (c *Camera) SetPose(position, direction math.Vec3) {
	c.position = position
	if d := direction.Normalize(); !(d == math.Vec3{}) {
		c.direction = d
	}
	c.recalculateView()
	c.recalculateRayDirections()
}

// Projection returns the projection matrix.
func (c *Camera) Projection() math.Mat4 { return c.projection }

// InverseProjection returns the inverse of the projection matrix.
func (c *Camera) InverseProjection() math.Mat4 { return c.inverseProjection }

// View returns the view matrix.
func (c *Camera) View() math.Mat4 { return c.view }

// InverseView returns the inverse of the view matrix.
func (c *Camera) InverseView() math.Mat4 { return c.inverseView }

// Position returns the camera position in world space.
func (c *Camera) Position() math.Vec3 { return c.position }

// Direction returns the forward direction.
func (c *Camera) Direction() math.Vec3 { return c.direction }

// RayDirections returns the cached world-space direction for each pixel,
// indexed x + y*width. The slice is shared with the camera and replaced on
// the next rebuild.
func (c *Camera) RayDirections() []math.Vec3 { return c.rayDirections }

// Size returns the viewport size.
func (c *Camera) Size() (width, height int) { return c.width, c.height }

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float32 { return c.verticalFOV }

// Clip returns the near and far clip distances.
func (c *Camera) Clip() (near, far float32) { return c.nearClip, c.farClip }

// RayDirection computes the world-space direction through a viewport
// position given in pixels. Fractional positions are allowed, which makes it
// usable for mouse picking.
func (c *Camera) RayDirection(x, y float32) math.Vec3 {
	if c.width <= 0 || c.height <= 0 {
		return c.direction
	}
	ndcX := x/float32(c.width)*2 - 1
	ndcY := y/float32(c.height)*2 - 1

	target := c.inverseProjection.MulVec4(math.Vec4{ndcX, ndcY, 1, 1})
	local := target.XYZ().Scale(1 / target[3]).Normalize()
	return c.inverseView.TransformDirection(local).Normalize()
}

func (c *Camera) recalculateProjection() {
	if c.width <= 0 || c.height <= 0 {
		c.projection = math.Identity()
		c.inverseProjection = math.Identity()
		return
	}
	c.projection = math.PerspectiveFov(math.Radians(c.verticalFOV), c.width, c.height, c.nearClip, c.farClip)
	c.inverseProjection = c.projection.Inverse()
}

func (c *Camera) recalculateView() {
	c.view = math.LookAt(c.position, c.position.Add(c.direction), worldUp)
	c.inverseView = c.view.Inverse()
}

func (c *Camera) recalculateRayDirections() {
	n := 0
	if c.width > 0 && c.height > 0 {
		n = c.width * c.height
	}

	// Reuse the table when the size matches
	dirs := c.rayDirections
	if len(dirs) != n {
		dirs = make([]math.Vec3, n)
		c.log.Debug("ray cache reallocated", zap.Int("width", c.width), zap.Int("height", c.height))
	}

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			dirs[x+y*c.width] = c.RayDirection(float32(x), float32(y))
		}
	}
	c.rayDirections = dirs
}

package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/pkg/math"
)

var cameraKeys = map[camera.Key]imgui.Key{
	camera.Forward:  imgui.KeyW,
	camera.Backward: imgui.KeyS,
	camera.Left:     imgui.KeyA,
	camera.Right:    imgui.KeyD,
	camera.Up:       imgui.KeyE,
	camera.Down:     imgui.KeyQ,
}

// CameraInput reads camera controls from ImGui. Look is only reported while
// Enabled, which the editor sets when the viewport image is hovered or a
// look drag started there is still held.
type CameraInput struct {
	Enabled bool
}

// LookActive reports whether the right mouse button is held over the viewport.
func (c *CameraInput) LookActive() bool {
	return c.Enabled && imgui.IsMouseDown(imgui.MouseButtonRight)
}

// MousePosition returns the cursor position in screen pixels.
func (c *CameraInput) MousePosition() math.Vec2 {
	p := imgui.MousePos()
	return math.Vec2{X: p.X, Y: p.Y}
}

// KeyDown reports whether the key bound to a camera control is held.
func (c *CameraInput) KeyDown(k camera.Key) bool {
	key, ok := cameraKeys[k]
	return ok && IsKeyDown(key)
}

var _ camera.Input = (*CameraInput)(nil)

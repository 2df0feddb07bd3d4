package camera

import "github.com/Faultbox/raytracer/pkg/math"

// Key is a logical camera control, decoupled from any keyboard layout.
type Key int

// Camera controls.
const (
	Forward Key = iota // W
	Backward           // S
	Left               // A
	Right              // D
	Up                 // E
	Down               // Q
)

// String returns the control name.
func (k Key) String() string {
	switch k {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Input is polled once per Update.
type Input interface {
	// LookActive reports whether the look button (right mouse) is held.
	LookActive() bool
	// MousePosition returns the cursor position in pixels.
	MousePosition() math.Vec2
	// KeyDown reports whether the control is held.
	KeyDown(k Key) bool
}

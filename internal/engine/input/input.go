// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/pkg/math"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// DefaultBindings maps camera controls to WASD plus Q/E.
var DefaultBindings = map[camera.Key]sdl.Scancode{
	camera.Forward:  sdl.SCANCODE_W,
	camera.Backward: sdl.SCANCODE_S,
	camera.Left:     sdl.SCANCODE_A,
	camera.Right:    sdl.SCANCODE_D,
	camera.Up:       sdl.SCANCODE_E,
	camera.Down:     sdl.SCANCODE_Q,
}

// Input handles all input processing and implements camera.Input.
type Input struct {
	events   []Event
	bindings map[camera.Key]sdl.Scancode

	held map[sdl.Scancode]bool
	look bool

	// Accumulated from relative motion so it keeps moving while the cursor
	// is captured.
	mouse math.Vec2
}

// New creates a new input handler with DefaultBindings.
func New() *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		bindings: DefaultBindings,
		held:     make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events. Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.held[e.Keysym.Scancode] = true
				if e.Repeat == 0 {
					i.events = append(i.events, Event{
						Type: EventKeyDown,
						Key:  e.Keysym.Scancode,
					})
				}
			} else if e.Type == sdl.KEYUP {
				delete(i.held, e.Keysym.Scancode)
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			i.mouse = i.mouse.Add(math.Vec2{X: float32(e.XRel), Y: float32(e.YRel)})
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				if e.Button == sdl.BUTTON_RIGHT {
					i.setLook(true)
				}
				i.events = append(i.events, Event{
					Type:   EventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			} else if e.Type == sdl.MOUSEBUTTONUP {
				if e.Button == sdl.BUTTON_RIGHT {
					i.setLook(false)
				}
				i.events = append(i.events, Event{
					Type:   EventMouseUp,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			}
		}
	}

	return false
}

// setLook captures the cursor while the look button is held.
func (i *Input) setLook(on bool) {
	i.look = on
	sdl.SetRelativeMouseMode(on)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// LookActive reports whether the right mouse button is held.
func (i *Input) LookActive() bool {
	return i.look
}

// MousePosition returns the accumulated mouse position.
func (i *Input) MousePosition() math.Vec2 {
	return i.mouse
}

// KeyDown reports whether the key bound to a camera control is held.
func (i *Input) KeyDown(k camera.Key) bool {
	sc, ok := i.bindings[k]
	return ok && i.held[sc]
}

var _ camera.Input = (*Input)(nil)

package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/raytracer/pkg/math"
)

// staticInput is a fixed input snapshot.
type staticInput struct {
	look  bool
	mouse math.Vec2
	keys  map[Key]bool
}

func (s staticInput) LookActive() bool         { return s.look }
func (s staticInput) MousePosition() math.Vec2 { return s.mouse }
func (s staticInput) KeyDown(k Key) bool       { return s.keys[k] }

const eps = 1e-4

func near(a, b float32) bool {
	return math32.Abs(a-b) < eps
}

func nearVec(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestNewDefaults(t *testing.T) {
	c := New(45, 0.1, 100)

	if got := c.Position(); got != (math.Vec3{X: 0, Y: 0, Z: 6}) {
		t.Errorf("position = %v, want (0,0,6)", got)
	}
	if got := c.Direction(); got != (math.Vec3{X: 0, Y: 0, Z: -1}) {
		t.Errorf("direction = %v, want (0,0,-1)", got)
	}
	if len(c.RayDirections()) != 0 {
		t.Errorf("expected empty ray cache before Resize, got %d", len(c.RayDirections()))
	}
	if c.FOV() != 45 {
		t.Errorf("fov = %v, want 45", c.FOV())
	}

	// View should move the eye to the origin
	eye := c.View().TransformPoint(c.Position())
	if !nearVec(eye, math.Vec3{}) {
		t.Errorf("view * position = %v, want origin", eye)
	}
}

func TestResize(t *testing.T) {
	c := New(45, 0.1, 100)
	c.Resize(8, 6)

	w, h := c.Size()
	if w != 8 || h != 6 {
		t.Fatalf("size = %dx%d, want 8x6", w, h)
	}
	dirs := c.RayDirections()
	if len(dirs) != 48 {
		t.Fatalf("ray cache length = %d, want 48", len(dirs))
	}
	for i, d := range dirs {
		if !near(d.Length(), 1) {
			t.Errorf("direction %d not unit length: %v", i, d)
		}
	}

	// InverseProjection undoes Projection
	id := c.Projection().Mul(c.InverseProjection())
	want := math.Identity()
	for i := range id {
		if !near(id[i], want[i]) {
			t.Fatalf("projection * inverse = %v, want identity", id)
		}
	}
}

func TestResizeSameSizeIsNoOp(t *testing.T) {
	c := New(45, 0.1, 100)
	c.Resize(16, 9)
	before := c.RayDirections()
	snapshot := append([]math.Vec3(nil), before...)
	proj := c.Projection()

	c.Resize(16, 9)

	after := c.RayDirections()
	if &after[0] != &before[0] {
		t.Error("ray cache was reallocated on same-size resize")
	}
	for i := range snapshot {
		if after[i] != snapshot[i] {
			t.Fatalf("ray %d changed: %v -> %v", i, snapshot[i], after[i])
		}
	}
	if c.Projection() != proj {
		t.Error("projection changed on same-size resize")
	}
}

func TestResizeToZero(t *testing.T) {
	c := New(45, 0.1, 100)
	c.Resize(4, 4)
	c.Resize(0, 0)

	if len(c.RayDirections()) != 0 {
		t.Errorf("expected empty ray cache, got %d", len(c.RayDirections()))
	}
}

func TestRayDirections(t *testing.T) {
	c := New(90, 0.1, 100)
	c.Resize(4, 4)
	dirs := c.RayDirections()

	tests := []struct {
		name  string
		x, y  int
		check func(math.Vec3) bool
	}{
		{"center looks forward", 2, 2, func(d math.Vec3) bool { return nearVec(d, math.Vec3{X: 0, Y: 0, Z: -1}) }},
		{"row 0 is the bottom", 2, 0, func(d math.Vec3) bool { return d.Y < 0 && near(d.X, 0) }},
		{"column 0 is the left", 0, 2, func(d math.Vec3) bool { return d.X < 0 && near(d.Y, 0) }},
		{"last row is above center", 2, 3, func(d math.Vec3) bool { return d.Y > 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dirs[tt.x+tt.y*4]
			if !tt.check(d) {
				t.Errorf("direction at (%d,%d) = %v", tt.x, tt.y, d)
			}
		})
	}

	// 90 degree vertical FOV on a square viewport puts the bottom edge at 45 degrees
	bottom := dirs[2+0*4]
	if !near(bottom.Y, bottom.Z) {
		t.Errorf("bottom edge direction = %v, want 45 degrees below forward", bottom)
	}
}

func TestUpdateWithoutLookDoesNothing(t *testing.T) {
	c := New(45, 0.1, 100)
	c.Resize(4, 4)
	before := c.RayDirections()[0]

	in := staticInput{
		mouse: math.Vec2{X: 300, Y: 200},
		keys:  map[Key]bool{Forward: true},
	}
	if c.Update(1, in) {
		t.Error("Update reported movement without the look button")
	}
	if c.Position() != (math.Vec3{X: 0, Y: 0, Z: 6}) {
		t.Errorf("position moved to %v", c.Position())
	}
	if c.RayDirections()[0] != before {
		t.Error("ray cache changed without movement")
	}
}

func TestUpdateMovement(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want math.Vec3
	}{
		{"forward", Forward, math.Vec3{X: 0, Y: 0, Z: 1}},
		{"backward", Backward, math.Vec3{X: 0, Y: 0, Z: 11}},
		{"left", Left, math.Vec3{X: -5, Y: 0, Z: 6}},
		{"right", Right, math.Vec3{X: 5, Y: 0, Z: 6}},
		{"up", Up, math.Vec3{X: 0, Y: 5, Z: 6}},
		{"down", Down, math.Vec3{X: 0, Y: -5, Z: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(45, 0.1, 100)
			in := staticInput{look: true, keys: map[Key]bool{tt.key: true}}

			if !c.Update(1, in) {
				t.Fatal("Update reported no movement")
			}
			if !nearVec(c.Position(), tt.want) {
				t.Errorf("position = %v, want %v", c.Position(), tt.want)
			}
			if c.Direction() != (math.Vec3{X: 0, Y: 0, Z: -1}) {
				t.Errorf("direction changed to %v", c.Direction())
			}
		})
	}
}

func TestUpdateLookRotates(t *testing.T) {
	c := New(45, 0.1, 100)
	c.Resize(4, 4)

	// Prime the last mouse position without looking
	c.Update(0.016, staticInput{mouse: math.Vec2{X: 100, Y: 100}})

	if !c.Update(0.016, staticInput{look: true, mouse: math.Vec2{X: 200, Y: 100}}) {
		t.Fatal("mouse travel with look held should rotate")
	}

	d := c.Direction()
	if d.X <= 0 {
		t.Errorf("moving the mouse right should turn right, got direction %v", d)
	}
	if !near(d.Y, 0) {
		t.Errorf("horizontal travel should not pitch, got direction %v", d)
	}
	if !near(d.Length(), 1) {
		t.Errorf("direction should stay unit length, got %v", d.Length())
	}

	yaw := 100 * mouseScale * float32(DefaultRotationSpeed)
	if !near(d.X, math32.Sin(yaw)) {
		t.Errorf("direction.X = %v, want %v", d.X, math32.Sin(yaw))
	}

	// The cache follows the new pose
	center := c.RayDirections()[2+2*4]
	if !nearVec(center, d) {
		t.Errorf("center ray = %v, want %v", center, d)
	}
}

func TestUpdateStillMouseDoesNothing(t *testing.T) {
	c := New(45, 0.1, 100)
	in := staticInput{look: true, mouse: math.Vec2{X: 50, Y: 50}}
	c.Update(0.016, in)

	if c.Update(0.016, in) {
		t.Error("Update reported movement with no keys and no mouse travel")
	}
}

func TestSetPose(t *testing.T) {
	c := New(45, 0.1, 100)
	c.Resize(3, 3)

	c.SetPose(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{X: 2, Y: 0, Z: 0})

	if c.Position() != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position = %v", c.Position())
	}
	if !nearVec(c.Direction(), math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("direction = %v, want normalized (1,0,0)", c.Direction())
	}
	center := c.RayDirections()[1+1*3]
	if !nearVec(center, math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("center ray = %v, want (1,0,0)", center)
	}

	// Zero direction keeps the previous one
	c.SetPose(math.Vec3{}, math.Vec3{})
	if !nearVec(c.Direction(), math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("zero direction replaced heading with %v", c.Direction())
	}
}

func TestKeyString(t *testing.T) {
	if Forward.String() != "forward" || Down.String() != "down" {
		t.Errorf("unexpected names %q %q", Forward, Down)
	}
	if Key(42).String() != "unknown" {
		t.Errorf("out of range key = %q", Key(42))
	}
}

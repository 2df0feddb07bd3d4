package scenefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/pkg/math"
)

func TestDefault(t *testing.T) {
	sc := Default()

	if sc.MaterialCount() != 2 {
		t.Fatalf("expected 2 materials, got %d", sc.MaterialCount())
	}
	if sc.SphereCount() != 2 {
		t.Fatalf("expected 2 spheres, got %d", sc.SphereCount())
	}

	pink := sc.Materials()[0]
	if pink.Albedo != (math.Vec3{X: 1, Y: 0, Z: 1}) || pink.Roughness != 0 {
		t.Errorf("material 0 = %+v, want pink with roughness 0", pink)
	}
	blue := sc.Materials()[1]
	if blue.Albedo != (math.Vec3{X: 0.2, Y: 0.3, Z: 1}) || blue.Roughness != 0.1 {
		t.Errorf("material 1 = %+v, want blue with roughness 0.1", blue)
	}

	want := []scene.Sphere{
		{Position: math.Vec3{}, Radius: 0.5, Material: 0},
		{Position: math.Vec3{X: 1, Y: 0, Z: -5}, Radius: 1.5, Material: 0},
	}
	for i, s := range sc.Spheres() {
		if s != want[i] {
			t.Errorf("sphere %d = %+v, want %+v", i, s, want[i])
		}
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("default scene invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
materials:
  - name: red
    albedo: [1, 0, 0]
    roughness: 0.5
    metallic: 1
  - albedo: [0, 1, 0]
spheres:
  - position: [0, 1, -2]
    radius: 2
    material: 1
`)

	sc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	m, err := sc.Material(0)
	if err != nil {
		t.Fatalf("Material(0): %v", err)
	}
	if m.Albedo != (math.Vec3{X: 1}) || m.Roughness != 0.5 || m.Metallic != 1 {
		t.Errorf("material 0 = %+v", m)
	}

	s, err := sc.Sphere(0)
	if err != nil {
		t.Fatalf("Sphere(0): %v", err)
	}
	if s.Position != (math.Vec3{X: 0, Y: 1, Z: -2}) || s.Radius != 2 || s.Material != 1 {
		t.Errorf("sphere 0 = %+v", s)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		count   int
	}{
		{
			name:    "zero radius",
			data:    "materials:\n  - albedo: [1, 1, 1]\nspheres:\n  - radius: 0\n",
			wantErr: scene.ErrInvalidRadius,
			count:   1,
		},
		{
			name:    "dangling material",
			data:    "spheres:\n  - radius: 1\n    material: 3\n",
			wantErr: scene.ErrInvalidReference,
			count:   1,
		},
		{
			name:    "both problems on two spheres",
			data:    "materials:\n  - albedo: [1, 1, 1]\nspheres:\n  - radius: -1\n  - radius: 1\n    material: 9\n",
			wantErr: scene.ErrInvalidRadius,
			count:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if n := len(multierr.Errors(err)); n != tt.count {
				t.Errorf("expected %d errors, got %d: %v", tt.count, n, err)
			}
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("spheres: [not: closed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestParseEmpty(t *testing.T) {
	sc, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if sc.SphereCount() != 0 || sc.MaterialCount() != 0 {
		t.Errorf("expected empty scene, got %d spheres, %d materials", sc.SphereCount(), sc.MaterialCount())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes", "demo.yaml")
	orig := Default()
	blue, _ := orig.Material(1)
	blue.Metallic = 0.25
	if err := orig.SetMaterial(1, blue); err != nil {
		t.Fatalf("SetMaterial: %v", err)
	}

	if err := Save(path, orig); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SphereCount() != orig.SphereCount() || loaded.MaterialCount() != orig.MaterialCount() {
		t.Fatalf("loaded %d spheres / %d materials", loaded.SphereCount(), loaded.MaterialCount())
	}
	for i := range orig.Spheres() {
		if loaded.Spheres()[i] != orig.Spheres()[i] {
			t.Errorf("sphere %d = %+v, want %+v", i, loaded.Spheres()[i], orig.Spheres()[i])
		}
	}
	for i := range orig.Materials() {
		if loaded.Materials()[i] != orig.Materials()[i] {
			t.Errorf("material %d = %+v, want %+v", i, loaded.Materials()[i], orig.Materials()[i])
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	sc, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\"): %v", err)
	}
	if sc.SphereCount() != 2 {
		t.Errorf("expected the default scene, got %d spheres", sc.SphereCount())
	}

	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit path")
	}
}

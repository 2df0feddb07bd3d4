// Package scenefile reads and writes scenes as YAML documents.
//
// A document lists materials first and spheres second; spheres name their
// material by its position in the list:
//
//	materials:
//	  - albedo: [1, 0, 1]
//	    roughness: 0
//	spheres:
//	  - position: [0, 0, 0]
//	    radius: 0.5
//	    material: 0
package scenefile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/pkg/math"
)

// Document is the on-disk form of a scene.
type Document struct {
	Materials []MaterialEntry `yaml:"materials"`
	Spheres   []SphereEntry   `yaml:"spheres"`
}

// MaterialEntry is one material in a Document.
type MaterialEntry struct {
	Name      string     `yaml:"name,omitempty"`
	Albedo    [3]float32 `yaml:"albedo,flow"`
	Roughness float32    `yaml:"roughness"`
	Metallic  float32    `yaml:"metallic"`
}

// SphereEntry is one sphere in a Document.
type SphereEntry struct {
	Position [3]float32 `yaml:"position,flow"`
	Radius   float32    `yaml:"radius"`
	Material int        `yaml:"material"`
}

// Default returns the demo scene: a small pink sphere at the origin in front
// of a larger one set back and to the right.
func Default() *scene.Scene {
	sc := scene.New()
	pink := sc.AddMaterial(scene.Material{Albedo: math.Vec3{X: 1, Y: 0, Z: 1}, Roughness: 0})
	sc.AddMaterial(scene.Material{Albedo: math.Vec3{X: 0.2, Y: 0.3, Z: 1}, Roughness: 0.1})

	// Both spheres are valid by construction
	_, _ = sc.AddSphere(scene.Sphere{Position: math.Vec3{X: 0, Y: 0, Z: 0}, Radius: 0.5, Material: pink})
	_, _ = sc.AddSphere(scene.Sphere{Position: math.Vec3{X: 1, Y: 0, Z: -5}, Radius: 1.5, Material: pink})
	return sc
}

// Load reads and validates a scene file.
func Load(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return sc, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*scene.Scene, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes a YAML document into a validated scene.
func Parse(data []byte) (*scene.Scene, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return doc.Scene()
}

// Scene converts the document into a validated scene. Every invalid sphere
// is reported.
func (d *Document) Scene() (*scene.Scene, error) {
	materials := make([]scene.Material, len(d.Materials))
	for i, m := range d.Materials {
		materials[i] = scene.Material{
			Albedo:    math.Vec3FromArray(m.Albedo),
			Roughness: m.Roughness,
			Metallic:  m.Metallic,
		}
	}

	spheres := make([]scene.Sphere, len(d.Spheres))
	for i, s := range d.Spheres {
		spheres[i] = scene.Sphere{
			Position: math.Vec3FromArray(s.Position),
			Radius:   s.Radius,
			Material: scene.MaterialIndex(s.Material),
		}
	}

	return scene.FromParts(materials, spheres)
}

// FromScene captures a scene as a document.
func FromScene(sc *scene.Scene) *Document {
	doc := &Document{
		Materials: make([]MaterialEntry, 0, sc.MaterialCount()),
		Spheres:   make([]SphereEntry, 0, sc.SphereCount()),
	}
	for _, m := range sc.Materials() {
		doc.Materials = append(doc.Materials, MaterialEntry{
			Albedo:    m.Albedo.Array(),
			Roughness: m.Roughness,
			Metallic:  m.Metallic,
		})
	}
	for _, s := range sc.Spheres() {
		doc.Spheres = append(doc.Spheres, SphereEntry{
			Position: s.Position.Array(),
			Radius:   s.Radius,
			Material: int(s.Material),
		})
	}
	return doc
}

// Marshal encodes a scene as YAML.
func Marshal(sc *scene.Scene) ([]byte, error) {
	data, err := yaml.Marshal(FromScene(sc))
	if err != nil {
		return nil, fmt.Errorf("encoding scene: %w", err)
	}
	return data, nil
}

// Save writes a scene to path, creating parent directories.
func Save(path string, sc *scene.Scene) error {
	data, err := Marshal(sc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating scene dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

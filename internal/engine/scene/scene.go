// Package scene holds the spheres and materials a frame is rendered from.
//
// Spheres reference materials by index. Every mutation is validated, so a
// scene that was only built through its methods never holds a dangling
// material reference or a non-positive radius.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/raytracer/pkg/math"
)

var (
	// ErrInvalidRadius is returned for spheres whose radius is not > 0.
	ErrInvalidRadius = errors.New("sphere radius must be positive")
	// ErrInvalidReference is returned when a sphere names a material that does not exist.
	ErrInvalidReference = errors.New("material index out of range")
	// ErrIndexOutOfRange is returned for by-index access past the end of a collection.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrMaterialInUse is returned when removing a material some sphere still uses.
	ErrMaterialInUse = errors.New("material is referenced by a sphere")
)

// MaterialIndex is a position in the scene's material list.
type MaterialIndex int

// Material describes how a surface reflects light.
type Material struct {
	Albedo    math.Vec3
	Roughness float32
	Metallic  float32
}

// Sphere is a sphere primitive.
type Sphere struct {
	Position math.Vec3
	Radius   float32
	Material MaterialIndex
}

// Scene is an ordered collection of spheres and materials.
type Scene struct {
	spheres   []Sphere
	materials []Material
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// FromParts builds a scene from complete material and sphere lists.
// All invalid spheres are reported together.
func FromParts(materials []Material, spheres []Sphere) (*Scene, error) {
	s := &Scene{
		materials: append([]Material(nil), materials...),
		spheres:   append([]Sphere(nil), spheres...),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Spheres returns the sphere list. The slice is shared; callers must not modify it.
func (s *Scene) Spheres() []Sphere {
	return s.spheres
}

// Materials returns the material list. The slice is shared; callers must not modify it.
func (s *Scene) Materials() []Material {
	return s.materials
}

// SphereCount returns the number of spheres.
func (s *Scene) SphereCount() int {
	return len(s.spheres)
}

// MaterialCount returns the number of materials.
func (s *Scene) MaterialCount() int {
	return len(s.materials)
}

// Sphere returns the sphere at index i.
func (s *Scene) Sphere(i int) (Sphere, error) {
	if i < 0 || i >= len(s.spheres) {
		return Sphere{}, fmt.Errorf("sphere %d: %w", i, ErrIndexOutOfRange)
	}
	return s.spheres[i], nil
}

// Material returns the material at index i.
func (s *Scene) Material(i MaterialIndex) (Material, error) {
	if i < 0 || int(i) >= len(s.materials) {
		return Material{}, fmt.Errorf("material %d: %w", i, ErrIndexOutOfRange)
	}
	return s.materials[i], nil
}

// AddMaterial appends a material and returns its index.
func (s *Scene) AddMaterial(m Material) MaterialIndex {
	s.materials = append(s.materials, m)
	return MaterialIndex(len(s.materials) - 1)
}

// SetMaterial replaces the material at index i.
func (s *Scene) SetMaterial(i MaterialIndex, m Material) error {
	if i < 0 || int(i) >= len(s.materials) {
		return fmt.Errorf("material %d: %w", i, ErrIndexOutOfRange)
	}
	s.materials[i] = m
	return nil
}

// RemoveMaterial deletes the material at index i. Spheres using higher
// indices are remapped so they keep referring to the same material.
func (s *Scene) RemoveMaterial(i MaterialIndex) error {
	if i < 0 || int(i) >= len(s.materials) {
		return fmt.Errorf("material %d: %w", i, ErrIndexOutOfRange)
	}
	for j, sp := range s.spheres {
		if sp.Material == i {
			return fmt.Errorf("material %d used by sphere %d: %w", i, j, ErrMaterialInUse)
		}
	}

	s.materials = append(s.materials[:i], s.materials[i+1:]...)
	for j := range s.spheres {
		if s.spheres[j].Material > i {
			s.spheres[j].Material--
		}
	}
	return nil
}

// AddSphere validates and appends a sphere, returning its index.
func (s *Scene) AddSphere(sp Sphere) (int, error) {
	if err := s.checkSphere(sp); err != nil {
		return -1, fmt.Errorf("adding sphere: %w", err)
	}
	s.spheres = append(s.spheres, sp)
	return len(s.spheres) - 1, nil
}

// SetSphere validates and replaces the sphere at index i.
func (s *Scene) SetSphere(i int, sp Sphere) error {
	if i < 0 || i >= len(s.spheres) {
		return fmt.Errorf("sphere %d: %w", i, ErrIndexOutOfRange)
	}
	if err := s.checkSphere(sp); err != nil {
		return fmt.Errorf("sphere %d: %w", i, err)
	}
	s.spheres[i] = sp
	return nil
}

// RemoveSphere deletes the sphere at index i, keeping the order of the rest.
func (s *Scene) RemoveSphere(i int) error {
	if i < 0 || i >= len(s.spheres) {
		return fmt.Errorf("sphere %d: %w", i, ErrIndexOutOfRange)
	}
	s.spheres = append(s.spheres[:i], s.spheres[i+1:]...)
	return nil
}

// Validate checks every sphere and reports all problems at once.
func (s *Scene) Validate() error {
	var err error
	for i, sp := range s.spheres {
		if e := s.checkSphere(sp); e != nil {
			err = multierr.Append(err, fmt.Errorf("sphere %d: %w", i, e))
		}
	}
	return err
}

func (s *Scene) checkSphere(sp Sphere) error {
	// Written as !(r > 0) so NaN is rejected too.
	if !(sp.Radius > 0) {
		return fmt.Errorf("radius %v: %w", sp.Radius, ErrInvalidRadius)
	}
	if sp.Material < 0 || int(sp.Material) >= len(s.materials) {
		return fmt.Errorf("material %d of %d: %w", sp.Material, len(s.materials), ErrInvalidReference)
	}
	return nil
}

// Package scene builds simulated objects from scene files and steps them.
package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene reports a scene file that parses but cannot be used.
var ErrInvalidScene = errors.New("invalid scene")

// File is the top-level layout of a scene YAML file.
type File struct {
	Scene Description `yaml:"scene"`
}

// Description lists the objects of one scene.
type Description struct {
	Name    string         `yaml:"name"`
	Gravity *[3]float32    `yaml:"gravity,omitempty"` // nil keeps the configured gravity
	Objects []ObjectConfig `yaml:"objects"`
}

// ObjectConfig places one mesh in the world.
type ObjectConfig struct {
	Name         string     `yaml:"name"`
	Mesh         string     `yaml:"mesh"`
	Position     [3]float32 `yaml:"position"`
	RotationAxis [3]float32 `yaml:"rotation_axis"`
	RotationDeg  float32    `yaml:"rotation_deg"`
	Scale        [3]float32 `yaml:"scale"`
	Static       bool       `yaml:"static"`
	VertexMass   float32    `yaml:"vertex_mass"`
	Color        [3]float32 `yaml:"color"`
}

// Defaults applied to fields left out of a scene file.
var (
	DefaultScale = [3]float32{1, 1, 1}
	DefaultColor = [3]float32{0.9, 0.9, 0.9}
)

const DefaultVertexMass = 1

// LoadFile reads and parses a scene file.
func LoadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	desc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

// Parse decodes a scene description, fills defaults and validates it.
func Parse(data []byte) (*Description, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	desc := &f.Scene
	for i := range desc.Objects {
		desc.Objects[i].applyDefaults()
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// Validate checks names, meshes and masses.
func (d *Description) Validate() error {
	seen := make(map[string]bool, len(d.Objects))
	for i, o := range d.Objects {
		if o.Name == "" {
			return fmt.Errorf("%w: object %d has no name", ErrInvalidScene, i)
		}
		if seen[o.Name] {
			return fmt.Errorf("%w: duplicate object name %q", ErrInvalidScene, o.Name)
		}
		seen[o.Name] = true
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o *ObjectConfig) applyDefaults() {
	if o.Scale == [3]float32{} {
		o.Scale = DefaultScale
	}
	if o.VertexMass == 0 {
		o.VertexMass = DefaultVertexMass
	}
	if o.Color == [3]float32{} {
		o.Color = DefaultColor
	}
}

// Validate checks a single object entry.
func (o *ObjectConfig) Validate() error {
	if o.Mesh == "" {
		return fmt.Errorf("%w: object %q has no mesh", ErrInvalidScene, o.Name)
	}
	if !(o.VertexMass > 0) {
		return fmt.Errorf("%w: object %q has vertex_mass %v", ErrInvalidScene, o.Name, o.VertexMass)
	}
	if o.RotationDeg != 0 && mgl32.Vec3(o.RotationAxis).Len() == 0 {
		return fmt.Errorf("%w: object %q rotates around a zero axis", ErrInvalidScene, o.Name)
	}
	return nil
}

// ModelMatrix returns translate * rotate * scale.
func (o *ObjectConfig) ModelMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2])
	if o.RotationDeg != 0 {
		axis := mgl32.Vec3(o.RotationAxis).Normalize()
		m = m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(o.RotationDeg), axis))
	}
	return m.Mul4(mgl32.Scale3D(o.Scale[0], o.Scale[1], o.Scale[2]))
}

package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/softbody/pkg/mesh"
	"github.com/Faultbox/softbody/pkg/xpbd"
)

// Object is one mesh in the world together with its simulated body.
//
// Mesh holds the rest pose in world space; Body.Position is the live state and
// shares Mesh's triangle indices.
type Object struct {
	Name   string
	Static bool
	Color  mgl32.Vec3
	Mesh   *mesh.Mesh
	Body   *xpbd.Body

	initial xpbd.State
}

// NewObject places template in the world according to cfg and builds its body.
// Distance constraints cover every mesh edge and volume constraints every
// triangle, both at their rest-pose values.
func NewObject(cfg ObjectConfig, template *mesh.Mesh) (*Object, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("object %q: %w", cfg.Name, err)
	}

	world := template.Transform(cfg.ModelMatrix())
	world.Name = template.Name

	body, err := xpbd.NewBody(world.Positions, xpbd.UniformMass(world.VertexCount(), cfg.VertexMass))
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", cfg.Name, err)
	}
	body.Distance = xpbd.NewDistanceSet(world.Positions, world.Edges())
	body.Volume = xpbd.NewVolumeSet(world.Positions, world.Triangles)

	return &Object{
		Name:    cfg.Name,
		Static:  cfg.Static,
		Color:   mgl32.Vec3(cfg.Color),
		Mesh:    world,
		Body:    body,
		initial: body.Snapshot(),
	}, nil
}

// Reset puts the body back into its initial pose at rest.
func (o *Object) Reset() {
	_ = o.Body.Restore(o.initial)
	o.Body.SetAcceleration(mgl32.Vec3{})
}

// Bounds returns the bounding box of the current positions.
func (o *Object) Bounds() mesh.Bounds {
	return mesh.BoundsOf(o.Body.Position)
}

// Surfaces appends the outward half-space of every non-degenerate triangle at
// the current positions to dst.
func (o *Object) Surfaces(dst []xpbd.Surface) []xpbd.Surface {
	pos := o.Body.Position
	for _, t := range o.Mesh.Triangles {
		n := mesh.FaceNormal(pos, t)
		if n == (mgl32.Vec3{}) {
			continue
		}
		dst = append(dst, xpbd.Surface{Point: pos[t.V1], Normal: n})
	}
	return dst
}

package xpbd

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Body errors.
var (
	ErrInvalidMass  = errors.New("vertex mass must be positive")
	ErrSizeMismatch = errors.New("array length mismatch")
)

// Body is the simulated state of one deformable object.
//
// Position, Velocity, Acceleration and Mass are indexed by vertex and must have
// equal length. The constraint sets are built once at setup and reused every
// substep; collision groups are replaced when the set of obstacles changes.
type Body struct {
	Position     []mgl32.Vec3
	Velocity     []mgl32.Vec3
	Acceleration []mgl32.Vec3
	Mass         []float32

	Distance  DistanceSet
	Volume    VolumeSet
	Collision []CollisionGroup

	invMass []float32

	// Per-substep scratch, allocated with the body.
	x       []mgl32.Vec3
	p       []mgl32.Vec3
	posDiff []mgl32.Vec3
}

// NewBody creates a body at rest with the given positions and per-vertex masses.
// The position slice is copied.
func NewBody(positions []mgl32.Vec3, mass []float32) (*Body, error) {
	if len(positions) != len(mass) {
		return nil, fmt.Errorf("%w: %d positions, %d masses", ErrSizeMismatch, len(positions), len(mass))
	}

	n := len(positions)
	b := &Body{
		Position:     append([]mgl32.Vec3(nil), positions...),
		Velocity:     make([]mgl32.Vec3, n),
		Acceleration: make([]mgl32.Vec3, n),
		Mass:         append([]float32(nil), mass...),
		invMass:      make([]float32, n),
		x:            make([]mgl32.Vec3, n),
		p:            make([]mgl32.Vec3, n),
		posDiff:      make([]mgl32.Vec3, n),
	}
	for i, m := range mass {
		if !(m > 0) {
			return nil, fmt.Errorf("%w: vertex %d has mass %v", ErrInvalidMass, i, m)
		}
		b.invMass[i] = 1 / m
	}
	return b, nil
}

// UniformMass returns a mass slice of n entries all equal to m.
func UniformMass(n int, m float32) []float32 {
	mass := make([]float32, n)
	for i := range mass {
		mass[i] = m
	}
	return mass
}

// VertexCount returns the number of simulated vertices.
func (b *Body) VertexCount() int {
	return len(b.Position)
}

// InverseMass returns the per-vertex inverse masses. They are refreshed from
// Mass at the start of every step.
func (b *Body) InverseMass() []float32 {
	return b.invMass
}

// SetAcceleration assigns the same acceleration to every vertex.
func (b *Body) SetAcceleration(a mgl32.Vec3) {
	for i := range b.Acceleration {
		b.Acceleration[i] = a
	}
}

// CenterOfMass returns the mass-weighted centroid of the vertices.
func (b *Body) CenterOfMass() mgl32.Vec3 {
	var sum mgl32.Vec3
	var total float32
	for i, p := range b.Position {
		sum = sum.Add(p.Mul(b.Mass[i]))
		total += b.Mass[i]
	}
	if total == 0 {
		return mgl32.Vec3{}
	}
	return sum.Mul(1 / total)
}

// validate checks the structural invariants the solver relies on and
// recomputes the inverse masses, so edits to Mass take effect on the next step.
func (b *Body) validate() error {
	n := len(b.Position)
	if len(b.Velocity) != n || len(b.Acceleration) != n || len(b.Mass) != n {
		return fmt.Errorf("%w: position=%d velocity=%d acceleration=%d mass=%d",
			ErrSizeMismatch, n, len(b.Velocity), len(b.Acceleration), len(b.Mass))
	}
	if len(b.invMass) != n {
		b.invMass = make([]float32, n)
	}
	for i, m := range b.Mass {
		if !(m > 0) {
			return fmt.Errorf("%w: vertex %d has mass %v", ErrInvalidMass, i, m)
		}
		b.invMass[i] = 1 / m
	}
	if len(b.x) != n {
		b.x = make([]mgl32.Vec3, n)
		b.p = make([]mgl32.Vec3, n)
		b.posDiff = make([]mgl32.Vec3, n)
	}
	return nil
}

// State is a copy of a body's kinematic state.
type State struct {
	Position []mgl32.Vec3
	Velocity []mgl32.Vec3
}

// Snapshot copies the current positions and velocities.
func (b *Body) Snapshot() State {
	return State{
		Position: append([]mgl32.Vec3(nil), b.Position...),
		Velocity: append([]mgl32.Vec3(nil), b.Velocity...),
	}
}

// Restore overwrites positions and velocities from a snapshot of the same body.
func (b *Body) Restore(s State) error {
	if len(s.Position) != len(b.Position) || len(s.Velocity) != len(b.Velocity) {
		return fmt.Errorf("%w: snapshot has %d vertices, body has %d",
			ErrSizeMismatch, len(s.Position), len(b.Position))
	}
	copy(b.Position, s.Position)
	copy(b.Velocity, s.Velocity)
	return nil
}

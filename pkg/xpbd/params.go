// Package xpbd implements an Extended Position-Based Dynamics constraint solver
// for deformable triangle meshes.
//
// A Solver advances one Body at a time. Each frame is split into substeps; every
// substep predicts vertex motion from velocity and acceleration, then projects
// the predicted positions onto the environment-collision, distance and volume
// constraints in that order, and finally derives velocities from the corrected
// positions.
//
// Bodies are independent of each other and may be stepped concurrently. The
// constraint sweeps inside one body are Gauss-Seidel: every correction is
// visible to the next constraint in the same sweep, so a single body must never
// be stepped from more than one goroutine.
package xpbd

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid solver parameters")

// Params holds the scene-level solver settings. They are constant for a frame.
type Params struct {
	// Compliance is the inverse stiffness α of distance and volume constraints.
	Compliance float32
	// Damping is β; it scales the velocity-dependent term of the multiplier.
	Damping float32
	// Substeps is the number n of subdivisions of each frame.
	Substeps int

	EnableDistance  bool
	EnableVolume    bool
	EnableCollision bool
}

// DefaultParams returns the settings used by the reference scene.
func DefaultParams() Params {
	return Params{
		Compliance:      0.001,
		Damping:         5.0,
		Substeps:        10,
		EnableDistance:  true,
		EnableVolume:    true,
		EnableCollision: true,
	}
}

// Validate checks that the parameters describe a usable solver.
func (p Params) Validate() error {
	if p.Compliance < 0 {
		return fmt.Errorf("%w: compliance %v < 0", ErrInvalidParams, p.Compliance)
	}
	if p.Damping < 0 {
		return fmt.Errorf("%w: damping %v < 0", ErrInvalidParams, p.Damping)
	}
	if p.Substeps <= 0 {
		return fmt.Errorf("%w: substeps %d <= 0", ErrInvalidParams, p.Substeps)
	}
	return nil
}

// Coefficients are the per-substep values derived from Params.
type Coefficients struct {
	AlphaTilde float32 // α / h²
	BetaTilde  float32 // h² β
	Gamma      float32 // α̃ β̃ / h
}

// Rigid is used for environment collisions: fully stiff and undamped.
var Rigid = Coefficients{}

// Coefficients derives the compliance and damping terms for substep length h.
// h must be positive.
func (p Params) Coefficients(h float32) Coefficients {
	alphaTilde := p.Compliance / (h * h)
	betaTilde := h * h * p.Damping
	return Coefficients{
		AlphaTilde: alphaTilde,
		BetaTilde:  betaTilde,
		Gamma:      alphaTilde * betaTilde / h,
	}
}

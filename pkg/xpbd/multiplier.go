package xpbd

import "github.com/go-gl/mathgl/mgl32"

// MinDenominator guards the multiplier update against a vanishing
// generalized inverse mass (zero gradient with zero compliance).
const MinDenominator = 1e-9

// Delta is a position correction for a single vertex.
type Delta struct {
	Index int
	Dx    mgl32.Vec3
}

// DeltaLambda computes the multiplier increment of one constraint:
//
//	Δλ = (−C − γ Σ ∇Cᵢ·Δpᵢ) / ((1+γ) Σ wᵢ|∇Cᵢ|² + α̃)
//
// where the sums run over the constraint's vertices, wᵢ is the inverse mass and
// Δpᵢ is the vertex displacement since the start of the substep.
// It returns 0 when the denominator is smaller than MinDenominator.
func DeltaLambda(c float32, grad []mgl32.Vec3, verts []int, posDiff []mgl32.Vec3,
	invMass []float32, alphaTilde, gamma float32) float32 {
	var wGrad, gradDiff float32
	for i, v := range verts {
		wGrad += invMass[v] * grad[i].Dot(grad[i])
		gradDiff += grad[i].Dot(posDiff[v])
	}

	denom := (1+gamma)*wGrad + alphaTilde
	if denom < MinDenominator && denom > -MinDenominator {
		return 0
	}
	return (-c - gamma*gradDiff) / denom
}

// PositionDelta appends the correction Δxᵢ = Δλ wᵢ ∇Cᵢ for each constraint
// vertex to dst and returns the extended slice.
func PositionDelta(dLambda float32, grad []mgl32.Vec3, verts []int, invMass []float32, dst []Delta) []Delta {
	for i, v := range verts {
		dst = append(dst, Delta{Index: v, Dx: grad[i].Mul(dLambda * invMass[v])})
	}
	return dst
}

// Apply adds each correction to its vertex.
func Apply(x []mgl32.Vec3, deltas []Delta) {
	for _, d := range deltas {
		x[d.Index] = x[d.Index].Add(d.Dx)
	}
}

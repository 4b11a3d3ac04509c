package xpbd

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Solver advances bodies with XPBD substepping.
//
// A Solver holds no per-body state, so one instance may step several bodies
// concurrently as long as each body is stepped by a single goroutine.
type Solver struct {
	Params Params
	log    *zap.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used to report skipped constraint sets.
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSolver creates a solver with the given parameters.
func NewSolver(p Params, opts ...Option) *Solver {
	s := &Solver{Params: p, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats counts the work done by one call to Step.
type Stats struct {
	Substeps   int
	Collisions int // vertices pushed out of an obstacle
	Skipped    int // constraint sets skipped because of invalid structure
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Substeps += other.Substeps
	s.Collisions += other.Collisions
	s.Skipped += other.Skipped
}

// Step advances b by dt using Params.Substeps substeps of equal length.
// A non-positive dt leaves the body untouched.
func (s *Solver) Step(b *Body, dt float32) Stats {
	var st Stats
	n := s.Params.Substeps
	if !(dt > 0) || n <= 0 {
		return st
	}
	if err := b.validate(); err != nil {
		s.log.Warn("skipping body step", zap.Error(err))
		st.Skipped++
		return st
	}

	h := dt / float32(n)
	for range n {
		st.Add(s.Substep(b, h))
	}
	return st
}

// Substep performs one predict, project and commit cycle of length h.
func (s *Solver) Substep(b *Body, h float32) Stats {
	st := Stats{Substeps: 1}
	if !(h > 0) {
		return Stats{}
	}
	if err := b.validate(); err != nil {
		s.log.Warn("skipping body substep", zap.Error(err))
		st.Skipped++
		return st
	}

	predict(b, h)

	p := s.Params
	if p.EnableCollision {
		resolved, skipped := s.SolveCollision(b.x, b.posDiff, b.invMass, b.Collision)
		st.Collisions += resolved
		st.Skipped += skipped
	}

	k := p.Coefficients(h)
	if p.EnableDistance && !s.SolveDistance(b.x, b.posDiff, b.invMass, k, &b.Distance) {
		st.Skipped++
	}
	if p.EnableVolume && !s.SolveVolume(b.x, b.posDiff, b.invMass, k, &b.Volume) {
		st.Skipped++
	}

	commit(b, h)
	return st
}

// predict integrates velocity and position explicitly:
// v' = v + h a, x = p + h v', posDiff = x - p.
func predict(b *Body, h float32) {
	for i := range b.Position {
		v := b.Velocity[i].Add(b.Acceleration[i].Mul(h))
		b.p[i] = b.Position[i]
		b.x[i] = b.Position[i].Add(v.Mul(h))
		b.posDiff[i] = b.x[i].Sub(b.p[i])
	}
}

// commit writes the corrected positions back and derives v = (x - p) / h.
func commit(b *Body, h float32) {
	inv := 1 / h
	for i := range b.Position {
		b.Velocity[i] = b.x[i].Sub(b.p[i]).Mul(inv)
		b.Position[i] = b.x[i]
	}
}

// SolveDistance runs one Gauss-Seidel sweep over the distance constraints,
// writing corrections into x as it goes. It reports false, without touching x,
// when the set is malformed.
func (s *Solver) SolveDistance(x, posDiff []mgl32.Vec3, invMass []float32, k Coefficients, set *DistanceSet) bool {
	if err := set.Validate(len(x)); err != nil {
		s.log.Warn("skipping distance constraints", zap.Error(err))
		return false
	}

	var grad [2]mgl32.Vec3
	var buf [2]Delta
	for j := range set.Edges {
		c := set.At(j)
		project(&c, x, posDiff, invMass, k, grad[:], buf[:0])
	}
	return true
}

// SolveVolume runs one Gauss-Seidel sweep over the triangle constraints.
// Each triangle is corrected using its own constraint value and gradient.
func (s *Solver) SolveVolume(x, posDiff []mgl32.Vec3, invMass []float32, k Coefficients, set *VolumeSet) bool {
	if err := set.Validate(len(x)); err != nil {
		s.log.Warn("skipping volume constraints", zap.Error(err))
		return false
	}

	var grad [3]mgl32.Vec3
	var buf [3]Delta
	for j := range set.Triangles {
		c := set.At(j)
		project(&c, x, posDiff, invMass, k, grad[:], buf[:0])
	}
	return true
}

// SolveCollision resolves environment collisions with rigid coefficients.
//
// A vertex is corrected only when every one of its candidate surfaces reports
// penetration; the least penetrating surface is then used alone. A vertex with
// any non-negative candidate, or with no candidates, is left as it is.
// It returns the number of corrected vertices and of skipped groups.
func (s *Solver) SolveCollision(x, posDiff []mgl32.Vec3, invMass []float32, groups []CollisionGroup) (resolved, skipped int) {
	var grad [1]mgl32.Vec3
	var buf [1]Delta

	for gi := range groups {
		g := &groups[gi]
		if err := g.Validate(len(x)); err != nil {
			s.log.Warn("skipping collision group",
				zap.String("obstacle", g.Obstacle),
				zap.Error(err),
			)
			skipped++
			continue
		}

		for _, cand := range g.Candidates {
			best, ok := leastPenetrating(g.Surfaces, cand.Surfaces, x[cand.Vertex])
			if !ok {
				continue
			}
			c := g.At(cand.Vertex, best)
			project(&c, x, posDiff, invMass, Rigid, grad[:], buf[:0])
			resolved++
		}
	}
	return resolved, skipped
}

// leastPenetrating returns the candidate surface whose negative signed distance
// is closest to zero. ok is false if there are no candidates or if p is outside
// any of them.
func leastPenetrating(surfaces []Surface, candidates []int, p mgl32.Vec3) (best int, ok bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	bestC := float32(-math.MaxFloat32)
	for _, i := range candidates {
		c := surfaces[i].SignedDistance(p)
		if c >= 0 {
			return 0, false
		}
		if c > bestC {
			bestC = c
			best = i
		}
	}
	return best, true
}

// project applies one multiplier update for c directly into x.
func project(c Constraint, x, posDiff []mgl32.Vec3, invMass []float32, k Coefficients, grad []mgl32.Vec3, deltas []Delta) {
	verts := c.Vertices()
	g := grad[:len(verts)]
	c.Gradient(x, g)
	dLambda := DeltaLambda(c.Eval(x), g, verts, posDiff, invMass, k.AlphaTilde, k.Gamma)
	Apply(x, PositionDelta(dLambda, g, verts, invMass, deltas))
}

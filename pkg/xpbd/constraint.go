package xpbd

import "github.com/go-gl/mathgl/mgl32"

// degenerateLength is the length below which a direction is treated as undefined
// and a constraint reports a zero gradient.
const degenerateLength = 1e-7

// Constraint is a scalar function C of the positions of a few vertices.
//
// Gradient writes one vector per entry of Vertices, in the same order, into
// grad, which must have room for len(Vertices()) entries.
type Constraint interface {
	Vertices() []int
	Eval(x []mgl32.Vec3) float32
	Gradient(x []mgl32.Vec3, grad []mgl32.Vec3)
}

// Distance keeps two vertices at a rest distance.
type Distance struct {
	V    [2]int
	Rest float32
}

func (c *Distance) Vertices() []int { return c.V[:] }

// Eval returns |x[a] - x[b]| - Rest.
func (c *Distance) Eval(x []mgl32.Vec3) float32 {
	return x[c.V[0]].Sub(x[c.V[1]]).Len() - c.Rest
}

// Gradient returns ±n where n is the unit direction from b to a.
func (c *Distance) Gradient(x []mgl32.Vec3, grad []mgl32.Vec3) {
	d := x[c.V[0]].Sub(x[c.V[1]])
	l := d.Len()
	if l < degenerateLength {
		grad[0], grad[1] = mgl32.Vec3{}, mgl32.Vec3{}
		return
	}
	n := d.Mul(1 / l)
	grad[0] = n
	grad[1] = n.Mul(-1)
}

// Volume preserves the area of one triangle.
type Volume struct {
	V    [3]int
	Rest float32
}

func (c *Volume) Vertices() []int { return c.V[:] }

// Eval returns area(x[a], x[b], x[c]) - Rest.
func (c *Volume) Eval(x []mgl32.Vec3) float32 {
	e1 := x[c.V[1]].Sub(x[c.V[0]])
	e2 := x[c.V[2]].Sub(x[c.V[0]])
	return 0.5*e1.Cross(e2).Len() - c.Rest
}

// Gradient returns the area gradient with respect to each corner.
// With n the unit normal, ∂A/∂b = ½ e2×n, ∂A/∂c = ½ n×e1 and the
// first corner balances the other two.
func (c *Volume) Gradient(x []mgl32.Vec3, grad []mgl32.Vec3) {
	e1 := x[c.V[1]].Sub(x[c.V[0]])
	e2 := x[c.V[2]].Sub(x[c.V[0]])
	cr := e1.Cross(e2)
	l := cr.Len()
	if l < degenerateLength {
		grad[0], grad[1], grad[2] = mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}
		return
	}
	n := cr.Mul(1 / l)
	grad[1] = e2.Cross(n).Mul(0.5)
	grad[2] = n.Cross(e1).Mul(0.5)
	grad[0] = grad[1].Add(grad[2]).Mul(-1)
}

// Surface is a half-space bounding an obstacle: points p with
// Normal·(p - Point) < 0 are inside. Normal must be unit length.
type Surface struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// SignedDistance returns the distance from p to the surface plane,
// negative inside the half-space.
func (s Surface) SignedDistance(p mgl32.Vec3) float32 {
	return s.Normal.Dot(p.Sub(s.Point))
}

// Collision keeps one vertex outside one obstacle surface.
type Collision struct {
	V       [1]int
	Surface Surface
}

func (c *Collision) Vertices() []int { return c.V[:] }

// Eval returns the signed distance of the vertex; negative means penetrating.
func (c *Collision) Eval(x []mgl32.Vec3) float32 {
	return c.Surface.SignedDistance(x[c.V[0]])
}

// Gradient returns the surface normal.
func (c *Collision) Gradient(_ []mgl32.Vec3, grad []mgl32.Vec3) {
	grad[0] = c.Surface.Normal
}

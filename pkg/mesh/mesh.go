// Package mesh provides triangle mesh topology for soft-body simulation.
package mesh

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Edge connects two vertices. Edges returned by Mesh.Edges have V1 < V2.
type Edge struct {
	V1, V2 int
}

// Triangle references three vertices in counter-clockwise order
// when viewed from outside the surface.
type Triangle struct {
	V1, V2, V3 int
}

// Mesh holds rest-pose vertex positions and triangle topology.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Triangles []Triangle
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Edges returns the unique undirected edges of all triangles, sorted by (V1, V2).
func (m *Mesh) Edges() []Edge {
	seen := make(map[Edge]struct{}, len(m.Triangles)*3/2)
	edges := make([]Edge, 0, len(m.Triangles)*3/2)

	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		e := Edge{V1: a, V2: b}
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}

	for _, t := range m.Triangles {
		add(t.V1, t.V2)
		add(t.V2, t.V3)
		add(t.V3, t.V1)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].V1 != edges[j].V1 {
			return edges[i].V1 < edges[j].V1
		}
		return edges[i].V2 < edges[j].V2
	})
	return edges
}

// Transform returns a copy of the mesh with every position transformed by m.
func (m *Mesh) Transform(model mgl32.Mat4) *Mesh {
	out := &Mesh{
		Name:      m.Name,
		Positions: make([]mgl32.Vec3, len(m.Positions)),
		Triangles: append([]Triangle(nil), m.Triangles...),
	}
	for i, p := range m.Positions {
		out.Positions[i] = mgl32.TransformCoordinate(p, model)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() Bounds {
	return BoundsOf(m.Positions)
}

// BoundsOf returns the axis-aligned bounding box of a point set.
// An empty set yields a zero box.
func BoundsOf(points []mgl32.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < b.Min[k] {
				b.Min[k] = p[k]
			}
			if p[k] > b.Max[k] {
				b.Max[k] = p[k]
			}
		}
	}
	return b
}

// Validate reports whether every triangle index is in range.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	for i, t := range m.Triangles {
		if t.V1 < 0 || t.V1 >= n || t.V2 < 0 || t.V2 >= n || t.V3 < 0 || t.V3 >= n {
			return &IndexError{Triangle: i, Vertices: n}
		}
	}
	return nil
}

// FaceNormal returns the unit normal of a triangle using the right-hand rule.
// Degenerate triangles return the zero vector.
func FaceNormal(positions []mgl32.Vec3, t Triangle) mgl32.Vec3 {
	e1 := positions[t.V2].Sub(positions[t.V1])
	e2 := positions[t.V3].Sub(positions[t.V1])
	n := e1.Cross(e2)
	l := n.Len()
	if l < 1e-12 {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / l)
}

// TriangleArea returns the area of a triangle.
func TriangleArea(positions []mgl32.Vec3, t Triangle) float32 {
	e1 := positions[t.V2].Sub(positions[t.V1])
	e2 := positions[t.V3].Sub(positions[t.V1])
	return 0.5 * e1.Cross(e2).Len()
}

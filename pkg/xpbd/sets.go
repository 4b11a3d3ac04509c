package xpbd

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/softbody/pkg/mesh"
)

// DistanceSet holds one distance constraint per edge.
// Rest[j] is the rest length of Edges[j].
type DistanceSet struct {
	Edges []mesh.Edge
	Rest  []float32
}

// NewDistanceSet builds distance constraints for edges, taking rest lengths
// from the given rest-pose positions.
func NewDistanceSet(positions []mgl32.Vec3, edges []mesh.Edge) DistanceSet {
	s := DistanceSet{
		Edges: append([]mesh.Edge(nil), edges...),
		Rest:  make([]float32, len(edges)),
	}
	for j, e := range edges {
		s.Rest[j] = positions[e.V1].Sub(positions[e.V2]).Len()
	}
	return s
}

// Len returns the number of constraints.
func (s *DistanceSet) Len() int { return len(s.Edges) }

// At returns constraint j.
func (s *DistanceSet) At(j int) Distance {
	e := s.Edges[j]
	return Distance{V: [2]int{e.V1, e.V2}, Rest: s.Rest[j]}
}

// Validate checks that every edge has a rest length and references a vertex
// in [0, vertexCount).
func (s *DistanceSet) Validate(vertexCount int) error {
	if len(s.Edges) != len(s.Rest) {
		return fmt.Errorf("%w: distance constraints=%d edges=%d", ErrSizeMismatch, len(s.Rest), len(s.Edges))
	}
	for j, e := range s.Edges {
		if !inRange(e.V1, vertexCount) || !inRange(e.V2, vertexCount) {
			return fmt.Errorf("%w: edge %d (%d, %d) outside %d vertices", ErrSizeMismatch, j, e.V1, e.V2, vertexCount)
		}
	}
	return nil
}

// VolumeSet holds one area-preserving constraint per triangle.
// Rest[j] is the rest area of Triangles[j].
type VolumeSet struct {
	Triangles []mesh.Triangle
	Rest      []float32
}

// NewVolumeSet builds volume constraints for triangles, taking rest areas
// from the given rest-pose positions.
func NewVolumeSet(positions []mgl32.Vec3, triangles []mesh.Triangle) VolumeSet {
	s := VolumeSet{
		Triangles: append([]mesh.Triangle(nil), triangles...),
		Rest:      make([]float32, len(triangles)),
	}
	for j, t := range triangles {
		s.Rest[j] = mesh.TriangleArea(positions, t)
	}
	return s
}

// Len returns the number of constraints.
func (s *VolumeSet) Len() int { return len(s.Triangles) }

// At returns constraint j. Each triangle is evaluated against its own rest area.
func (s *VolumeSet) At(j int) Volume {
	t := s.Triangles[j]
	return Volume{V: [3]int{t.V1, t.V2, t.V3}, Rest: s.Rest[j]}
}

// Validate checks that every triangle has a rest area and references a vertex
// in [0, vertexCount).
func (s *VolumeSet) Validate(vertexCount int) error {
	if len(s.Triangles) != len(s.Rest) {
		return fmt.Errorf("%w: volume constraints=%d triangles=%d", ErrSizeMismatch, len(s.Rest), len(s.Triangles))
	}
	for j, t := range s.Triangles {
		if !inRange(t.V1, vertexCount) || !inRange(t.V2, vertexCount) || !inRange(t.V3, vertexCount) {
			return fmt.Errorf("%w: triangle %d outside %d vertices", ErrSizeMismatch, j, vertexCount)
		}
	}
	return nil
}

// VertexCandidates lists the surfaces a vertex may collide with,
// as indices into CollisionGroup.Surfaces.
type VertexCandidates struct {
	Vertex   int
	Surfaces []int
}

// CollisionGroup holds the environment-collision constraints of one body
// against one obstacle.
type CollisionGroup struct {
	Obstacle   string
	Surfaces   []Surface
	Candidates []VertexCandidates
}

// NewCollisionGroup makes every vertex in [0, vertexCount) a candidate of every
// surface.
func NewCollisionGroup(obstacle string, surfaces []Surface, vertexCount int) CollisionGroup {
	all := make([]int, len(surfaces))
	for i := range all {
		all[i] = i
	}
	g := CollisionGroup{
		Obstacle:   obstacle,
		Surfaces:   surfaces,
		Candidates: make([]VertexCandidates, vertexCount),
	}
	for v := range g.Candidates {
		g.Candidates[v] = VertexCandidates{Vertex: v, Surfaces: all}
	}
	return g
}

// Len returns the number of candidate surfaces.
func (g *CollisionGroup) Len() int { return len(g.Surfaces) }

// At returns the constraint of vertex v against surface i.
func (g *CollisionGroup) At(v, i int) Collision {
	return Collision{V: [1]int{v}, Surface: g.Surfaces[i]}
}

// Validate checks that every candidate refers to an existing vertex and surface.
func (g *CollisionGroup) Validate(vertexCount int) error {
	for _, c := range g.Candidates {
		if !inRange(c.Vertex, vertexCount) {
			return fmt.Errorf("%w: collision vertex %d outside %d vertices", ErrSizeMismatch, c.Vertex, vertexCount)
		}
		for _, i := range c.Surfaces {
			if !inRange(i, len(g.Surfaces)) {
				return fmt.Errorf("%w: vertex %d references surface %d of %d",
					ErrSizeMismatch, c.Vertex, i, len(g.Surfaces))
			}
		}
	}
	return nil
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

package mesh

import "github.com/go-gl/mathgl/mgl32"

// Cube returns a unit cube centered at the origin with outward-facing triangles.
//
// Vertex layout:
//
//	0 (-,-,-)  1 (+,-,-)  2 (+,+,-)  3 (-,+,-)
//	4 (-,-,+)  5 (+,-,+)  6 (+,+,+)  7 (-,+,+)
func Cube() *Mesh {
	const h = 0.5
	return &Mesh{
		Name: "cube",
		Positions: []mgl32.Vec3{
			{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
			{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
		},
		Triangles: []Triangle{
			{0, 3, 2}, {0, 2, 1}, // -Z
			{4, 5, 6}, {4, 6, 7}, // +Z
			{0, 4, 7}, {0, 7, 3}, // -X
			{1, 2, 6}, {1, 6, 5}, // +X
			{0, 1, 5}, {0, 5, 4}, // -Y
			{3, 7, 6}, {3, 6, 2}, // +Y
		},
	}
}

// Plane returns a single-sided square in the XZ plane facing +Y,
// spanning [-0.5, 0.5] on both axes.
func Plane() *Mesh {
	const h = 0.5
	return &Mesh{
		Name: "plane",
		Positions: []mgl32.Vec3{
			{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h},
		},
		Triangles: []Triangle{
			{0, 2, 1}, {0, 3, 2},
		},
	}
}

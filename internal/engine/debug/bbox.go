// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/softbody/pkg/mesh"
)

// BBoxSegmentCount is the number of line endpoints for a box wireframe (12 edges x 2).
const BBoxSegmentCount = 24

// DefaultBBoxPadding keeps the box from z-fighting with the mesh it encloses.
const DefaultBBoxPadding = 0.02

// AppendBBox appends the 12 edges of b, grown by padding on every side, as
// pairs of endpoints.
func AppendBBox(dst []mgl32.Vec3, b mesh.Bounds, padding float32) []mgl32.Vec3 {
	pad := mgl32.Vec3{padding, padding, padding}
	lo, hi := b.Min.Sub(pad), b.Max.Add(pad)

	corner := func(x, y, z bool) mgl32.Vec3 {
		c := lo
		if x {
			c[0] = hi[0]
		}
		if y {
			c[1] = hi[1]
		}
		if z {
			c[2] = hi[2]
		}
		return c
	}

	for _, y := range [2]bool{false, true} {
		// Bottom and top rings
		dst = append(dst,
			corner(false, y, false), corner(true, y, false),
			corner(true, y, false), corner(true, y, true),
			corner(true, y, true), corner(false, y, true),
			corner(false, y, true), corner(false, y, false),
		)
	}
	// Vertical edges
	for _, x := range [2]bool{false, true} {
		for _, z := range [2]bool{false, true} {
			dst = append(dst, corner(x, false, z), corner(x, true, z))
		}
	}
	return dst
}

// AppendNormals appends one segment per non-degenerate triangle, from its
// centroid along its face normal.
func AppendNormals(dst []mgl32.Vec3, positions []mgl32.Vec3, triangles []mesh.Triangle, length float32) []mgl32.Vec3 {
	for _, t := range triangles {
		n := mesh.FaceNormal(positions, t)
		if n == (mgl32.Vec3{}) {
			continue
		}
		c := positions[t.V1].Add(positions[t.V2]).Add(positions[t.V3]).Mul(1.0 / 3)
		dst = append(dst, c, c.Add(n.Mul(length)))
	}
	return dst
}

// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts an azimuth around +Y and an elevation above the
// horizon, both in degrees, to the unit direction light travels in.
// Azimuth 0 places the sun toward +Z.
func SunDirection(azimuthDeg, elevationDeg float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuthDeg))
	el := float64(mgl32.DegToRad(elevationDeg))

	toSun := mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
	return toSun.Mul(-1)
}

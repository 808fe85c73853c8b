package shadow

import (
	gomath "math"

	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Light is the single directional light. Direction points from the light
// into the scene and is constant while the demo runs.
type Light struct {
	Direction math.Vec3
	Color     math.Vec3
	Size      float32 // penumbra control for PCF/PCSS/VSM
	Distance  float32 // how far behind the camera a fitted light is placed

	View       math.Mat4
	Projection math.Mat4
}

// DefaultLight returns the demo's light.
func DefaultLight() Light {
	return Light{
		Direction:  math.Vec3{X: -1, Y: -1, Z: 1}.Normalize(),
		Color:      math.Splat(1),
		Size:       1,
		Distance:   500,
		View:       math.Identity(),
		Projection: math.Identity(),
	}
}

// Apply stores the matrices of f on the light.
func (l *Light) Apply(f Fit) {
	l.View = f.View
	l.Projection = f.Projection
}

// DirectionFromAngles converts a sun position to the direction light
// travels. Longitude rotates around Y starting at +Z, latitude is the
// elevation above the horizon; both are in degrees.
func DirectionFromAngles(longitude, latitude float32) math.Vec3 {
	lon := float64(math.Radians(longitude))
	lat := float64(math.Radians(latitude))

	towardsSun := math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
	return towardsSun.Negate().Normalize()
}

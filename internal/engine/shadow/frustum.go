package shadow

import (
	gomath "math"

	"github.com/Faultbox/shadowmaps/pkg/math"
)

// NDCCorners are the eight corners of the clip-space cube as homogeneous
// points: the far face first, then the near face.
var NDCCorners = [8]math.Vec4{
	{-1, 1, 1, 1},
	{1, 1, 1, 1},
	{-1, -1, 1, 1},
	{1, -1, 1, 1},
	{-1, 1, -1, 1},
	{1, 1, -1, 1},
	{-1, -1, -1, 1},
	{1, -1, -1, 1},
}

// Fit is a light view and orthographic projection plus the extents the
// PCSS shader needs to convert depths back to world units.
type Fit struct {
	View       math.Mat4
	Projection math.Mat4
	Near       float32
	Far        float32
	Width      float32
}

// FixedFrustum is the static light box used when the light frustum does not
// follow the camera.
type FixedFrustum struct {
	// Offset translates the scene relative to the light's origin-based view.
	Offset math.Vec3

	Left, Right, Bottom, Top float32
	Near, Far                float32

	// Values reported to the shading pass. They describe the scene scale for
	// PCSS and need not match the projection above.
	ShadingNear, ShadingFar, Width float32
}

// DefaultFixedFrustum returns a light box enclosing the demo scene.
func DefaultFixedFrustum() FixedFrustum {
	return FixedFrustum{
		Offset:      math.Vec3{X: -30, Y: -50, Z: 90},
		Left:        -30,
		Right:       30,
		Bottom:      -30,
		Top:         30,
		Near:        1,
		Far:         130,
		ShadingNear: 1,
		ShadingFar:  100,
		Width:       100,
	}
}

// FitFixed builds the light matrices for the static box.
func FitFixed(direction math.Vec3, box FixedFrustum) Fit {
	view := math.LookAt(math.Vec3{}, direction, math.UnitY).Mul(math.Translate(box.Offset))
	return Fit{
		View:       view,
		Projection: math.Ortho(box.Left, box.Right, box.Bottom, box.Top, box.Near, box.Far),
		Near:       box.ShadingNear,
		Far:        box.ShadingFar,
		Width:      box.Width,
	}
}

// FitToCamera builds an orthographic light frustum enclosing the camera's
// view frustum. The light sits distance units behind the camera position
// along direction and looks along it. The near plane is pulled back by
// distance so that casters between the light and the camera frustum still
// land in the shadow map.
func FitToCamera(direction math.Vec3, distance float32, cameraPos math.Vec3, cameraView, cameraProj math.Mat4) Fit {
	eye := cameraPos.Sub(direction.Scale(distance))
	lightView := math.LookAt(eye, eye.Add(direction), math.UnitY)

	invProj := cameraProj.Inverse()
	toLight := lightView.Mul(cameraView.Inverse())

	inf := float32(gomath.Inf(1))
	lo := math.Splat(inf)
	hi := math.Splat(-inf)
	for _, corner := range NDCCorners {
		viewSpace := invProj.MulVec4(corner).PerspectiveDivide()
		p := toLight.MulVec4(viewSpace).XYZ()
		lo = lo.Min(p)
		hi = hi.Max(p)
	}

	near := -hi.Z - distance
	far := -lo.Z
	return Fit{
		View:       lightView,
		Projection: math.Ortho(lo.X, hi.X, lo.Y, hi.Y, near, far),
		Near:       near,
		Far:        far,
		Width:      hi.X - lo.X,
	}
}

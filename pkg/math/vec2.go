// Package math provides the float32 vector, matrix and quaternion types used
// by the renderer. Matrices are column-major to match OpenGL.
package math

import "math"

// Vec2 is a cursor position or a sample offset in texture space.
type Vec2 struct {
	X, Y float32
}

// Polar returns the point at radius r and angle theta (radians).
func Polar(r, theta float64) Vec2 {
	return Vec2{X: float32(r * math.Cos(theta)), Y: float32(r * math.Sin(theta))}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale multiplies both components by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Distance returns |v - o|.
func (v Vec2) Distance(o Vec2) float32 {
	d := v.Sub(o)
	return float32(math.Hypot(float64(d.X), float64(d.Y)))
}

// Length returns |v|.
func (v Vec2) Length() float32 {
	return v.Distance(Vec2{})
}

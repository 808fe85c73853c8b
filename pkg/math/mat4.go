package math

import "math"

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Element (row r, column c) lives at index c*4+r.
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a right-handed perspective projection with a [-1, 1]
// clip-space depth range. fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	focal := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far

	var m Mat4
	m[0] = focal / aspect
	m[5] = focal
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// Ortho returns an orthographic projection of the given view-space box.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	width := right - left
	height := top - bottom
	depth := far - near

	m := Identity()
	m[0] = 2 / width
	m[5] = 2 / height
	m[10] = -2 / depth
	m[12] = -(right + left) / width
	m[13] = -(top + bottom) / height
	m[14] = -(far + near) / depth
	return m
}

// LookAt returns a view matrix placed at eye looking towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	m := Identity()
	m.SetRow(0, s.Vec4(-s.Dot(eye)))
	m.SetRow(1, u.Vec4(-u.Dot(eye)))
	m.SetRow(2, f.Negate().Vec4(f.Dot(eye)))
	return m
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a non-uniform scale matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// Row returns row r.
func (m Mat4) Row(r int) Vec4 {
	return Vec4{m[r], m[4+r], m[8+r], m[12+r]}
}

// SetRow overwrites row r.
func (m *Mat4) SetRow(r int, v Vec4) {
	m[r], m[4+r], m[8+r], m[12+r] = v[0], v[1], v[2], v[3]
}

// Col returns column c.
func (m Mat4) Col(c int) Vec4 {
	return Vec4{m[c*4], m[c*4+1], m[c*4+2], m[c*4+3]}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float32 {
	return m[c*4+r]
}

// Mul returns m * other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		col := m.MulVec4(other.Col(c))
		copy(out[c*4:c*4+4], col[:])
	}
	return out
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// TransformPoint transforms p as a point (w = 1) and applies the
// perspective divide.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return m.MulVec4(p.Vec4(1)).PerspectiveDivide().XYZ()
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Inverse returns the inverse of the matrix, or identity if it is singular.
func (m Mat4) Inverse() Mat4 {
	// 2x2 sub-determinants of the upper and lower row pairs.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[9] - m[8]*m[1]
	s2 := m[0]*m[13] - m[12]*m[1]
	s3 := m[4]*m[9] - m[8]*m[5]
	s4 := m[4]*m[13] - m[12]*m[5]
	s5 := m[8]*m[13] - m[12]*m[9]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[6]*m[15] - m[14]*m[7]
	c3 := m[6]*m[11] - m[10]*m[7]
	c2 := m[2]*m[15] - m[14]*m[3]
	c1 := m[2]*m[11] - m[10]*m[3]
	c0 := m[2]*m[7] - m[6]*m[3]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	// Indices below are written as (row, col) of the result.
	var out Mat4
	set := func(r, c int, v float32) { out[c*4+r] = v * inv }

	set(0, 0, m[5]*c5-m[9]*c4+m[13]*c3)
	set(0, 1, -m[4]*c5+m[8]*c4-m[12]*c3)
	set(0, 2, m[7]*s5-m[11]*s4+m[15]*s3)
	set(0, 3, -m[6]*s5+m[10]*s4-m[14]*s3)

	set(1, 0, -m[1]*c5+m[9]*c2-m[13]*c1)
	set(1, 1, m[0]*c5-m[8]*c2+m[12]*c1)
	set(1, 2, -m[3]*s5+m[11]*s2-m[15]*s1)
	set(1, 3, m[2]*s5-m[10]*s2+m[14]*s1)

	set(2, 0, m[1]*c4-m[5]*c2+m[13]*c0)
	set(2, 1, -m[0]*c4+m[4]*c2-m[12]*c0)
	set(2, 2, m[3]*s4-m[7]*s2+m[15]*s0)
	set(2, 3, -m[2]*s4+m[6]*s2-m[14]*s0)

	set(3, 0, -m[1]*c3+m[5]*c1-m[9]*c0)
	set(3, 1, m[0]*c3-m[4]*c1+m[8]*c0)
	set(3, 2, -m[3]*s3+m[7]*s1-m[11]*s0)
	set(3, 3, m[2]*s3-m[6]*s1+m[10]*s0)

	return out
}

package math

// Vec4 is a 4-component vector, usually a homogeneous point.
type Vec4 [4]float32

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// PerspectiveDivide returns the vector divided by its w component.
// A zero w leaves the vector untouched.
func (v Vec4) PerspectiveDivide() Vec4 {
	if v[3] == 0 {
		return v
	}
	inv := 1 / v[3]
	return Vec4{v[0] * inv, v[1] * inv, v[2] * inv, 1}
}

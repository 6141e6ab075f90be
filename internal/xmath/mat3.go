package xmath

// Mat3 is used for the tangent-space basis that rotates a sampled
// normal-map normal into world space. material.Material has no UV-transform
// field, so no 3x3 UV transform is applied before texture sampling.
type Mat3 [3][3]float64

func Mat3Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Mat3FromBasis builds the change-of-basis matrix whose columns are the
// tangent, bitangent, and normal directions, used to rotate a tangent-space
// normal-map sample into world space.
func Mat3FromBasis(tangent, bitangent, normal Vec3) Mat3 {
	return Mat3{
		{tangent.X, bitangent.X, normal.X},
		{tangent.Y, bitangent.Y, normal.Y},
		{tangent.Z, bitangent.Z, normal.Z},
	}
}

func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// MulVec2AsPoint applies the matrix to a 2D point lifted to homogeneous
// (x, y, 1), then drops back to 2D. Nothing in this module calls it.
func (m Mat3) MulVec2AsPoint(v Vec2) Vec2 {
	p := m.MulVec3(v.ToVec3())
	return Vec2{X: p.X, Y: p.Y}
}

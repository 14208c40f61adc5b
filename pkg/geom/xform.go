package geom

// Xform is a 4×4 affine transformation matrix in row-major order. Points are
// treated as column vectors (x, y, z, 1).
type Xform [4][4]float64

// Identity returns the identity transform.
func Identity() Xform {
	return Xform{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a transform that moves points by v.
func Translation(v Vector3) Xform {
	x := Identity()
	x[0][3], x[1][3], x[2][3] = v.X, v.Y, v.Z
	return x
}

// Apply transforms a point, including translation.
func (x Xform) Apply(p Point3) Point3 {
	w := x[3][0]*p.X + x[3][1]*p.Y + x[3][2]*p.Z + x[3][3]
	if w == 0 {
		w = 1
	}
	return Point3{
		X: (x[0][0]*p.X + x[0][1]*p.Y + x[0][2]*p.Z + x[0][3]) / w,
		Y: (x[1][0]*p.X + x[1][1]*p.Y + x[1][2]*p.Z + x[1][3]) / w,
		Z: (x[2][0]*p.X + x[2][1]*p.Y + x[2][2]*p.Z + x[2][3]) / w,
	}
}

// ApplyVector transforms a direction. Translation does not affect vectors.
func (x Xform) ApplyVector(v Vector3) Vector3 {
	return Vector3{
		X: x[0][0]*v.X + x[0][1]*v.Y + x[0][2]*v.Z,
		Y: x[1][0]*v.X + x[1][1]*v.Y + x[1][2]*v.Z,
		Z: x[2][0]*v.X + x[2][1]*v.Y + x[2][2]*v.Z,
	}
}

// Mul returns the product x·y, which applies y first and then x.
func (x Xform) Mul(y Xform) Xform {
	var out Xform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += x[i][k] * y[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Near reports whether every entry of x is within tol of the same entry in y.
func (x Xform) Near(y Xform, tol float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d := x[i][j] - y[i][j]
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether x is the identity within [Tolerance].
func (x Xform) IsIdentity() bool {
	return x.Near(Identity(), Tolerance)
}

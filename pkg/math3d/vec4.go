package math3d

import "math"

// Vec4 is a homogeneous coordinate. W is 1 for positions and 0 for
// directions and normals. Arithmetic acts on X, Y and Z only; each operation
// documents what it does with W.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point creates a position (W=1).
func Point(x, y, z float64) Vec4 {
	return Vec4{x, y, z, 1}
}

// Direction creates a direction or normal (W=0).
func Direction(x, y, z float64) Vec4 {
	return Vec4{x, y, z, 0}
}

// V4FromV3 creates a Vec4 from Vec3 with specified W.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns Vec3 after dividing by W.
// A zero W leaves the components untouched.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

// Add offsets a by b. W is taken from a, so a point plus a direction stays a
// point.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W}
}

// Sub returns a - b with W = a.W - b.W: point minus point is a direction,
// point minus direction is a point.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale multiplies X, Y and Z by s. W is preserved.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W}
}

// Dot3 returns the dot product of the X, Y, Z parts.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot3(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross3 returns the cross product of the X, Y, Z parts as a direction.
//
//nolint:st1016 // a×b naming convention is clearer for vector operations
func (a Vec4) Cross3(b Vec4) Vec4 {
	return Vec4{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
		0,
	}
}

// Len3 returns the Euclidean magnitude of (X, Y, Z).
func (v Vec4) Len3() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize divides X, Y and Z by Len3, preserving W.
// It returns ErrZeroLength when the magnitude is zero.
func (v Vec4) Normalize() (Vec4, error) {
	l := v.Len3()
	if l == 0 {
		return v, ErrZeroLength
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W}, nil
}

// ApproxEqual reports whether all four components differ by at most eps.
func (a Vec4) ApproxEqual(b Vec4, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps &&
		math.Abs(a.W-b.W) <= eps
}

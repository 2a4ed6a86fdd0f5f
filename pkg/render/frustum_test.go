package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

func testFrustum(t testing.TB, near, far float64, view math3d.Mat4) Frustum {
	t.Helper()
	proj, err := math3d.Perspective(math.Pi/3, 16.0/9.0, near, far)
	require.NoError(t, err)
	return NewFrustum(proj.Mul(view))
}

func TestPlaneDistance(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name  string
		point math3d.Vec3
		want  float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, plane.Distance(tc.point), 1e-9)
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	assert.InDelta(t, 1, plane.Normal.Len(), 1e-9)
	assert.InDelta(t, 0.6, plane.Normal.Y, 1e-9)
	assert.InDelta(t, 0.8, plane.Normal.Z, 1e-9)
	assert.InDelta(t, 2, plane.D, 1e-9)

	zero := Plane{D: 3}
	zero.Normalize()
	assert.Equal(t, 3.0, zero.D)
}

func TestAABBCorners(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -2, -3), Max: math3d.V3(1, 2, 3)}
	assert.Equal(t, math3d.V3(0, 0, 0), box.Center())

	corners := box.Corners()
	assert.Equal(t, box.Min, corners[0])
	assert.Equal(t, box.Max, corners[7])
	seen := map[math3d.Vec3]bool{}
	for _, c := range corners {
		assert.True(t, box.ContainsPoint(c))
		seen[c] = true
	}
	assert.Len(t, seen, 8)
}

func TestAABBContainsPoint(t *testing.T) {
	box := AABB{Min: math3d.V3(0, 0, 0), Max: math3d.V3(10, 10, 10)}

	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner min", math3d.V3(0, 0, 0), true},
		{"corner max", math3d.V3(10, 10, 10), true},
		{"outside X", math3d.V3(11, 5, 5), false},
		{"outside Y", math3d.V3(5, -1, 5), false},
		{"outside Z", math3d.V3(5, 5, 15), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, box.ContainsPoint(tc.point))
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	moved := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))
	assert.Equal(t, math3d.V3(9, 19, 29), moved.Min)
	assert.Equal(t, math3d.V3(11, 21, 31), moved.Max)

	scaled := box.Transform(math3d.Scale(math3d.V3(2, 2, 2)))
	assert.Equal(t, math3d.V3(-2, -2, -2), scaled.Min)
	assert.Equal(t, math3d.V3(2, 2, 2), scaled.Max)

	// A 45 degree turn about Y widens the box to the diagonal.
	rot, err := math3d.Rotate(math.Pi/4, math3d.V3(0, 1, 0))
	require.NoError(t, err)
	turned := box.Transform(rot)
	assert.InDelta(t, math.Sqrt2, turned.Max.X, 1e-9)
	assert.InDelta(t, 1, turned.Max.Y, 1e-9)
}

func TestFrustumPlanesNormalized(t *testing.T) {
	f := testFrustum(t, 0.1, 100, math3d.Identity())
	for i, plane := range f.Planes {
		assert.InDelta(t, 1, plane.Normal.Len(), 1e-6, "plane %d", i)
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum(t, 0.1, 100, math3d.Identity())

	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"center near", math3d.V3(0, 0, -1), true},
		{"center mid", math3d.V3(0, 0, -50), true},
		{"center far", math3d.V3(0, 0, -99), true},
		{"behind camera", math3d.V3(0, 0, 1), false},
		{"too far", math3d.V3(0, 0, -200), false},
		{"too close", math3d.V3(0, 0, -0.01), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.ContainsPoint(tc.point))
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := testFrustum(t, 1, 100, math3d.Identity())

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"fully inside", AABB{math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)}, true},
		{"crossing near plane", AABB{math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)}, true},
		{"behind camera", AABB{math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)}, false},
		{"beyond far plane", AABB{math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)}, false},
		{"far to the right", AABB{math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)}, false},
		{"enclosing the frustum", AABB{math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.IntersectAABB(tc.box))
		})
	}
}

func TestFrustumWithLookAt(t *testing.T) {
	view, err := math3d.LookAt(math3d.V3(0, 0, 0), math3d.V3(10, 0, 0), math3d.V3(0, 1, 0))
	require.NoError(t, err)
	f := testFrustum(t, 1, 100, view)

	assert.True(t, f.ContainsPoint(math3d.V3(10, 0, 0)))
	assert.False(t, f.ContainsPoint(math3d.V3(-10, 0, 0)))
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := testFrustum(b, 0.1, 1000, math3d.Identity())
	box := AABB{math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)}

	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	view, err := math3d.LookAt(math3d.V3(0, 10, 20), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0))
	require.NoError(b, err)
	proj, err := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000)
	require.NoError(b, err)
	viewProj := proj.Mul(view)

	for b.Loop() {
		_ = NewFrustum(viewProj)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := AABB{math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)}
	rot, err := math3d.Rotate(0.5, math3d.V3(0, 1, 0))
	require.NoError(b, err)
	m := math3d.Translate(math3d.V3(10, 0, 0)).Mul(rot)

	for b.Loop() {
		_ = box.Transform(m)
	}
}

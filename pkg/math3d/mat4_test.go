package math3d

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// sampleAxes returns a deterministic spread of axes, some of them not unit
// length, to feed the property checks.
func sampleAxes() []Vec3 {
	axes := []Vec3{
		V3(1, 0, 0),
		V3(0, 1, 0),
		V3(0, 0, 1),
		V3(1, 1, 1),
		V3(-2, 0.5, 3),
		V3(0, -7, 0.001),
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		axes = append(axes, V3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1))
	}
	return axes
}

func sampleAngles() []float64 {
	return []float64{0, 0.1, math.Pi / 4, math.Pi / 2, math.Pi, 2.5, -1.3, 2 * math.Pi, 10}
}

func TestRotateBottomRow(t *testing.T) {
	for _, axis := range sampleAxes() {
		for _, angle := range sampleAngles() {
			m, err := Rotate(angle, axis)
			require.NoError(t, err)
			assert.Equal(t, V4(0, 0, 0, 1), m.Row(3), "axis=%v angle=%v", axis, angle)
			assert.Equal(t, 0.0, m.Get(0, 3))
			assert.Equal(t, 0.0, m.Get(1, 3))
			assert.Equal(t, 0.0, m.Get(2, 3))
		}
	}
}

func TestRotateAxisIsFixedPoint(t *testing.T) {
	for _, axis := range sampleAxes() {
		unit := axis.Normalize()
		for _, angle := range sampleAngles() {
			m, err := Rotate(angle, axis)
			require.NoError(t, err)

			dir := V4FromV3(unit, 0)
			got := m.MulVec4(dir)
			assert.True(t, got.ApproxEqual(dir, eps), "axis=%v angle=%v got=%v", axis, angle, got)

			// Positions on the axis stay put and keep W=1.
			pt := V4FromV3(unit.Scale(3), 1)
			got = m.MulVec4(pt)
			assert.True(t, got.ApproxEqual(pt, eps), "axis=%v angle=%v got=%v", axis, angle, got)
		}
	}
}

func TestRotateZeroAngleIsIdentity(t *testing.T) {
	vectors := []Vec4{
		Point(1, 2, 3),
		Direction(-4, 0.5, 9),
		Point(0, 0, 0),
		V4(1e6, -1e-6, 42, 0.25),
	}
	for _, axis := range sampleAxes() {
		m, err := Rotate(0, axis)
		require.NoError(t, err)
		assert.Equal(t, Identity(), m)
		for _, v := range vectors {
			assert.Equal(t, v, m.MulVec4(v))
		}
	}
}

func TestRotateInverseAngle(t *testing.T) {
	vectors := []Vec4{
		Point(1, 2, 3),
		Direction(-4, 0.5, 9),
		Point(-10, 7, 0.3),
	}
	for _, axis := range sampleAxes() {
		for _, angle := range sampleAngles() {
			fwd, err := Rotate(angle, axis)
			require.NoError(t, err)
			back, err := Rotate(-angle, axis)
			require.NoError(t, err)
			round := fwd.Mul(back)
			for _, v := range vectors {
				got := round.MulVec4(v)
				assert.True(t, got.ApproxEqual(v, 1e-8), "axis=%v angle=%v got=%v want=%v", axis, angle, got, v)
			}
		}
	}
}

func TestRotateKnownValue(t *testing.T) {
	m, err := Rotate(math.Pi/2, V3(0, 0, 1))
	require.NoError(t, err)
	got := m.MulVec4(Point(1, 0, 0))
	assert.True(t, got.ApproxEqual(Point(0, 1, 0), eps), "got %v", got)
}

func TestRotateZeroAxis(t *testing.T) {
	m, err := Rotate(1, V3(0, 0, 0))
	require.ErrorIs(t, err, ErrSingularTransform)
	assert.Equal(t, Identity(), m)
}

func TestPerspectiveSingular(t *testing.T) {
	tests := []struct {
		name                   string
		fov, aspect, near, far float64
	}{
		{"near equals far", math.Pi / 3, 1, 1, 1},
		{"zero fov", 0, 1, 0.1, 100},
		{"zero aspect", math.Pi / 3, 0, 0.1, 100},
		{"collapsed at origin", math.Pi / 3, 1, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Perspective(tc.fov, tc.aspect, tc.near, tc.far)
			require.ErrorIs(t, err, ErrSingularTransform)
		})
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p, err := Perspective(math.Pi/2, 1, 1, 10)
	require.NoError(t, err)

	near := p.MulVec4(Point(0, 0, -1)).PerspectiveDivide()
	far := p.MulVec4(Point(0, 0, -10)).PerspectiveDivide()
	assert.InDelta(t, -1, near.Z, eps)
	assert.InDelta(t, 1, far.Z, eps)

	// W is the distance in front of the camera.
	assert.InDelta(t, 5, p.MulVec4(Point(0, 0, -5)).W, eps)
	assert.Less(t, p.MulVec4(Point(0, 0, 5)).W, 0.0)
}

func TestLookAt(t *testing.T) {
	eye := V3(3, 4, 5)
	view, err := LookAt(eye, V3(0, 0, 0), V3(0, 1, 0))
	require.NoError(t, err)

	// The target lands on the -Z axis at the eye distance.
	got := view.MulVec4(Point(0, 0, 0))
	assert.True(t, got.ApproxEqual(Point(0, 0, -eye.Len()), eps), "got %v", got)

	// The eye maps to the origin.
	got = view.MulVec4(V4FromV3(eye, 1))
	assert.True(t, got.ApproxEqual(Point(0, 0, 0), eps), "got %v", got)

	assert.Equal(t, V4(0, 0, 0, 1), view.Row(3))
}

func TestLookAtSingular(t *testing.T) {
	_, err := LookAt(V3(1, 1, 1), V3(1, 1, 1), V3(0, 1, 0))
	require.ErrorIs(t, err, ErrSingularTransform)

	_, err = LookAt(V3(0, 5, 0), V3(0, 0, 0), V3(0, 1, 0))
	require.ErrorIs(t, err, ErrSingularTransform)
}

func TestMulOrder(t *testing.T) {
	trans := Translate(V3(10, 0, 0))
	rot, err := Rotate(math.Pi/2, V3(0, 0, 1))
	require.NoError(t, err)

	// Rightmost applies first: rotate (1,0,0) to (0,1,0), then translate.
	got := trans.Mul(rot).MulVec4(Point(1, 0, 0))
	assert.True(t, got.ApproxEqual(Point(10, 1, 0), eps), "got %v", got)

	got = rot.Mul(trans).MulVec4(Point(1, 0, 0))
	assert.True(t, got.ApproxEqual(Point(0, 11, 0), eps), "got %v", got)
}

func TestTranslateIgnoresDirections(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	assert.Equal(t, Direction(4, 5, 6), m.MulVec4(Direction(4, 5, 6)))
	assert.Equal(t, Point(5, 7, 9), m.MulVec4(Point(4, 5, 6)))
}

func TestMulVec3DividesByW(t *testing.T) {
	m := Scale(V3(2, 2, 2))
	assert.Equal(t, V3(2, 4, 6), m.MulVec3(V3(1, 2, 3)))
}

package anim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
)

func TestSpinnerSettlesAtSpeed(t *testing.T) {
	s := NewSpinner(SpinnerConfig{FPS: 60, Axis: math3d.Direction(0, 1, 0), Speed: 1.5})

	s.Step()
	assert.Positive(t, s.Velocity)
	assert.Less(t, s.Velocity, 1.5)
	assert.Positive(t, s.Angle)

	for range 600 {
		s.Step()
		// Critically damped: never overshoots the target.
		assert.LessOrEqual(t, s.Velocity, 1.5+1e-9)
	}
	assert.InDelta(t, 1.5, s.Velocity, 1e-3)
}

func TestSpinnerAngleWraps(t *testing.T) {
	for _, speed := range []float64{20, -20} {
		s := NewSpinner(SpinnerConfig{FPS: 30, Axis: math3d.Direction(1, 0, 0), Speed: speed})
		for range 300 {
			s.Step()
			require.GreaterOrEqual(t, s.Angle, 0.0)
			require.Less(t, s.Angle, 2*math.Pi)
		}
	}
}

func TestSpinnerKickDecays(t *testing.T) {
	s := NewSpinner(SpinnerConfig{FPS: 60, Speed: 0})
	s.Kick(3)
	assert.Equal(t, 3.0, s.Velocity)

	for range 600 {
		s.Step()
	}
	assert.InDelta(t, 0, s.Velocity, 1e-3)
}

func TestSpinnerReset(t *testing.T) {
	s := NewSpinner(SpinnerConfig{Speed: 2})
	for range 10 {
		s.Step()
	}
	s.Reset()
	assert.Zero(t, s.Angle)
	assert.Zero(t, s.Velocity)

	// A reset spinner starts over exactly like a fresh one.
	fresh := NewSpinner(SpinnerConfig{Speed: 2})
	s.Step()
	fresh.Step()
	assert.Equal(t, fresh.Angle, s.Angle)
	assert.Equal(t, fresh.Velocity, s.Velocity)
}

func TestSpinnerApply(t *testing.T) {
	mesh, err := models.NewMesh("m", []math3d.Vec4{math3d.Point(0, 0, 0)}, nil)
	require.NoError(t, err)

	s := NewSpinner(SpinnerConfig{Axis: math3d.Direction(0, 0, 1), Speed: 1})
	s.Step()
	s.Apply(mesh)
	assert.Equal(t, math3d.Direction(0, 0, 1), mesh.Pose.Axis)
	assert.Equal(t, s.Angle, mesh.Pose.Angle)
}

func TestSpinnerDefaults(t *testing.T) {
	s := NewSpinner(SpinnerConfig{})
	assert.InDelta(t, 1.0/30, s.dt, 1e-6)
	s.Step()
	assert.Zero(t, s.Angle)
}

func TestSpinnerIdle(t *testing.T) {
	s := NewSpinner(SpinnerConfig{})
	assert.True(t, s.Idle())

	s.Kick(1)
	assert.False(t, s.Idle())
	s.Reset()
	assert.True(t, s.Idle())

	assert.False(t, NewSpinner(SpinnerConfig{Speed: 1}).Idle())
}

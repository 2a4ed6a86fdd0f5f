// Package anim drives mesh poses from one frame to the next.
package anim

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
)

// Spring defaults: moderate speed, critically damped (no overshoot).
const (
	DefaultFrequency = 4.0
	DefaultDamping   = 1.0
)

// SpinnerConfig describes a Spinner.
type SpinnerConfig struct {
	FPS       int         // Steps per second; <= 0 selects 30
	Axis      math3d.Vec4 // Rotation axis, W=0
	Speed     float64     // Target angular velocity in radians per second
	Frequency float64     // Spring angular frequency; 0 selects DefaultFrequency
	Damping   float64     // Spring damping ratio; 0 selects DefaultDamping
}

// Spinner rotates a mesh about a fixed axis. Its angular velocity eases
// toward Speed with a spring, so kicks and speed changes settle smoothly.
type Spinner struct {
	Axis     math3d.Vec4
	Speed    float64 // Target angular velocity in radians per second
	Angle    float64 // Current angle in [0, 2π)
	Velocity float64 // Current angular velocity in radians per second

	spring harmonica.Spring
	accel  float64 // Spring velocity, used to animate Velocity toward Speed
	dt     float64
}

// NewSpinner creates a spinner at rest.
func NewSpinner(cfg SpinnerConfig) *Spinner {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}
	freq := cfg.Frequency
	if freq == 0 {
		freq = DefaultFrequency
	}
	damping := cfg.Damping
	if damping == 0 {
		damping = DefaultDamping
	}
	dt := harmonica.FPS(fps)
	return &Spinner{
		Axis:   cfg.Axis,
		Speed:  cfg.Speed,
		spring: harmonica.NewSpring(dt, freq, damping),
		dt:     dt,
	}
}

// Step advances the spinner by one frame.
func (s *Spinner) Step() {
	s.Velocity, s.accel = s.spring.Update(s.Velocity, s.accel, s.Speed)
	s.Angle = math.Mod(s.Angle+s.Velocity*s.dt, 2*math.Pi)
	if s.Angle < 0 {
		s.Angle += 2 * math.Pi
	}
	if s.Angle >= 2*math.Pi {
		s.Angle = 0
	}
}

// Kick adds an instant change of angular velocity that then decays back
// toward Speed.
func (s *Spinner) Kick(impulse float64) {
	s.Velocity += impulse
}

// Reset stops the spinner and returns it to angle zero.
func (s *Spinner) Reset() {
	s.Angle = 0
	s.Velocity = 0
	s.accel = 0
}

// Idle reports whether the spinner is at rest at angle zero with no target
// speed, so applying it would only erase a mesh's own pose.
func (s *Spinner) Idle() bool {
	return s.Speed == 0 && s.Velocity == 0 && s.Angle == 0
}

// Apply writes the spinner's axis and angle into the mesh pose.
func (s *Spinner) Apply(mesh *models.Mesh) {
	mesh.Pose.Axis = s.Axis
	mesh.Pose.Angle = s.Angle
}

package render

import (
	"fmt"
	"math"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Camera is a look-at camera. Position and Target are points (W=1), Up is a
// direction (W=0). A camera is treated as immutable for the duration of a
// frame.
type Camera struct {
	Position math3d.Vec4
	Target   math3d.Vec4
	Up       math3d.Vec4
}

// NewCamera creates a camera at (3, 4, 5) looking at the origin with +Y up.
func NewCamera() Camera {
	return Camera{
		Position: math3d.Point(3, 4, 5),
		Target:   math3d.Point(0, 0, 0),
		Up:       math3d.Direction(0, 1, 0),
	}
}

// ViewMatrix returns the world-to-eye transform.
// It fails with math3d.ErrSingularTransform when Position equals Target or Up
// is parallel to the viewing direction.
func (c Camera) ViewMatrix() (math3d.Mat4, error) {
	m, err := math3d.LookAt(c.Position.Vec3(), c.Target.Vec3(), c.Up.Vec3())
	if err != nil {
		return m, fmt.Errorf("view matrix: %w", err)
	}
	return m, nil
}

// Forward returns the unit viewing direction.
func (c Camera) Forward() math3d.Vec3 {
	return c.Target.Vec3().Sub(c.Position.Vec3()).Normalize()
}

// Distance returns how far the camera is from its target.
func (c Camera) Distance() float64 {
	return c.Target.Sub(c.Position).Len3()
}

// Dolly moves the camera toward (positive) or away from (negative) its target
// along the viewing direction. The camera never gets closer than minDist.
func (c Camera) Dolly(amount, minDist float64) Camera {
	dist := c.Distance()
	if dist == 0 {
		return c
	}
	newDist := math.Max(minDist, dist-amount)
	offset := c.Position.Sub(c.Target).Vec3().Scale(newDist / dist)
	c.Position = math3d.V4FromV3(c.Target.Vec3().Add(offset), 1)
	return c
}

// Projection describes a symmetric perspective frustum.
type Projection struct {
	FOV    float64 // Vertical field of view in radians
	Aspect float64 // Width / Height
	Near   float64 // Near clipping plane
	Far    float64 // Far clipping plane
}

// NewProjection creates a 60 degree projection with the given aspect ratio.
func NewProjection(aspect float64) Projection {
	return Projection{
		FOV:    math.Pi / 3,
		Aspect: aspect,
		Near:   0.1,
		Far:    100,
	}
}

// Matrix returns the eye-to-clip transform.
func (p Projection) Matrix() (math3d.Mat4, error) {
	m, err := math3d.Perspective(p.FOV, p.Aspect, p.Near, p.Far)
	if err != nil {
		return m, fmt.Errorf("projection matrix: %w", err)
	}
	return m, nil
}

// ViewportAspect returns the projection aspect for a grid of width x height
// cells whose cells are cellAspect times as wide as they are tall.
func ViewportAspect(width, height int, cellAspect float64) float64 {
	if height <= 0 {
		return 1
	}
	return float64(width) * cellAspect / float64(height)
}

// Package config loads glyph3d scene settings from TOML.
//
// A minimal file:
//
//	fps = 30
//	stroke = "smooth"
//
//	[camera]
//	position = [3, 4, 5]
//
//	[[mesh]]
//	path = "teapot.obj"
//
// Angles are in degrees. Unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/glyph3d/pkg/anim"
	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
	"github.com/taigrr/glyph3d/pkg/render"
)

// ErrInvalidConfig is returned for configuration that cannot be decoded or
// fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds everything needed to set up a render loop.
type Config struct {
	FPS           int     `toml:"fps"`
	Background    float64 `toml:"background"`  // Background intensity in [0,1]
	Ramp          string  `toml:"ramp"`        // Five glyphs, sparse to solid
	CellAspect    float64 `toml:"cell_aspect"` // Cell width / cell height
	Stroke        string  `toml:"stroke"`      // none, fast or smooth
	Fill          bool    `toml:"fill"`
	CullBackfaces bool    `toml:"cull_backfaces"`
	FrustumCull   bool    `toml:"frustum_cull"`
	Workers       int     `toml:"workers"` // 0 uses one worker per CPU
	ShowBounds    bool    `toml:"show_bounds"`

	Camera Camera `toml:"camera"`
	Spin   Spin   `toml:"spin"`
	Meshes []Mesh `toml:"mesh"`
}

// Camera places the viewer.
type Camera struct {
	Position []float64 `toml:"position"`
	Target   []float64 `toml:"target"`
	Up       []float64 `toml:"up"`
	FOV      float64   `toml:"fov"`
	Near     float64   `toml:"near"`
	Far      float64   `toml:"far"`
}

// Spin animates every mesh around a shared axis.
type Spin struct {
	Axis      []float64 `toml:"axis"`
	Speed     float64   `toml:"speed"` // Degrees per second
	Frequency float64   `toml:"frequency"`
	Damping   float64   `toml:"damping"`
}

// Mesh is one model file to load.
type Mesh struct {
	Path     string    `toml:"path"`
	Position []float64 `toml:"position"` // Defaults to the origin
	Axis     []float64 `toml:"axis"`     // Defaults to +Y
	Angle    float64   `toml:"angle"`
	Color    *float64  `toml:"color"` // Face intensity; defaults to 1
	Lenient  bool      `toml:"lenient"`
}

// Default returns the built-in configuration: the camera at (3, 4, 5)
// looking at the origin, smooth strokes over solid fills, and a slow spin
// about +Y.
func Default() *Config {
	return &Config{
		FPS:           30,
		Background:    0,
		Ramp:          render.DefaultRamp.String(),
		CellAspect:    0.5,
		Stroke:        render.StrokeSmooth.String(),
		Fill:          true,
		CullBackfaces: true,
		FrustumCull:   true,
		Workers:       1,
		Camera: Camera{
			Position: []float64{3, 4, 5},
			Target:   []float64{0, 0, 0},
			Up:       []float64{0, 1, 0},
			FOV:      60,
			Near:     0.1,
			Far:      100,
		},
		Spin: Spin{
			Axis:      []float64{0, 1, 0},
			Speed:     45,
			Frequency: anim.DefaultFrequency,
			Damping:   anim.DefaultDamping,
		},
	}
}

// Load reads and validates a TOML file on top of Default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of Default and validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem found.
func (c *Config) Validate() error {
	switch {
	case c.FPS < 1 || c.FPS > 240:
		return invalid("fps %d outside [1,240]", c.FPS)
	case !unit(c.Background):
		return invalid("background %g outside [0,1]", c.Background)
	case !(c.CellAspect > 0) || math.IsInf(c.CellAspect, 0):
		return invalid("cell_aspect %g must be positive", c.CellAspect)
	case c.Workers < 0:
		return invalid("workers %d is negative", c.Workers)
	}
	if _, err := render.ParseRamp(c.Ramp); err != nil {
		return invalid("%v", err)
	}
	if _, err := render.ParseStrokeMode(c.Stroke); err != nil {
		return invalid("stroke: %v", err)
	}

	cam := c.Camera
	for _, f := range []struct {
		name string
		v    []float64
	}{{"position", cam.Position}, {"target", cam.Target}, {"up", cam.Up}} {
		if len(f.v) != 3 {
			return invalid("camera.%s needs 3 components, got %d", f.name, len(f.v))
		}
	}
	switch {
	case !(cam.FOV > 0 && cam.FOV < 180):
		return invalid("camera.fov %g outside (0,180)", cam.FOV)
	case !(cam.Near > 0):
		return invalid("camera.near %g must be positive", cam.Near)
	case !(cam.Far > cam.Near):
		return invalid("camera.far %g must exceed near %g", cam.Far, cam.Near)
	}

	if len(c.Spin.Axis) != 3 {
		return invalid("spin.axis needs 3 components, got %d", len(c.Spin.Axis))
	}
	if c.Spin.Frequency < 0 || c.Spin.Damping < 0 {
		return invalid("spin frequency and damping must not be negative")
	}

	for i, m := range c.Meshes {
		switch {
		case m.Path == "":
			return invalid("mesh %d: path is empty", i)
		case m.Position != nil && len(m.Position) != 3:
			return invalid("mesh %d: position needs 3 components, got %d", i, len(m.Position))
		case m.Axis != nil && len(m.Axis) != 3:
			return invalid("mesh %d: axis needs 3 components, got %d", i, len(m.Axis))
		case m.Color != nil && !unit(*m.Color):
			return invalid("mesh %d: color %g outside [0,1]", i, *m.Color)
		}
	}
	return nil
}

// RenderCamera converts the camera table. Call Validate first.
func (c *Config) RenderCamera() render.Camera {
	return render.Camera{
		Position: point(c.Camera.Position),
		Target:   point(c.Camera.Target),
		Up:       direction(c.Camera.Up),
	}
}

// Projection builds the projection for a grid of width x height cells.
func (c *Config) Projection(width, height int) render.Projection {
	return render.Projection{
		FOV:    c.Camera.FOV * math.Pi / 180,
		Aspect: render.ViewportAspect(width, height, c.CellAspect),
		Near:   c.Camera.Near,
		Far:    c.Camera.Far,
	}
}

// Renderer builds a renderer with the configured options.
func (c *Config) Renderer(logger *slog.Logger) *render.Renderer {
	stroke, _ := render.ParseStrokeMode(c.Stroke)
	workers := c.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &render.Renderer{
		Style:         render.TriangleStyle{Stroke: stroke, Fill: c.Fill},
		CullBackfaces: c.CullBackfaces,
		FrustumCull:   c.FrustumCull,
		ShowBounds:    c.ShowBounds,
		Workers:       workers,
		Logger:        logger,
	}
}

// GlyphRamp returns the parsed ramp, or DefaultRamp if it does not parse.
func (c *Config) GlyphRamp() render.Ramp {
	r, err := render.ParseRamp(c.Ramp)
	if err != nil {
		return render.DefaultRamp
	}
	return r
}

// BackgroundColor returns the background as a grey color.
func (c *Config) BackgroundColor() models.Color {
	return models.Grey(c.Background)
}

// SpinnerConfig converts the spin table for a loop running at c.FPS.
func (c *Config) SpinnerConfig() anim.SpinnerConfig {
	return anim.SpinnerConfig{
		FPS:       c.FPS,
		Axis:      direction(c.Spin.Axis),
		Speed:     c.Spin.Speed * math.Pi / 180,
		Frequency: c.Spin.Frequency,
		Damping:   c.Spin.Damping,
	}
}

// Pose returns the starting pose of the mesh.
func (m Mesh) Pose() models.Pose {
	pose := models.DefaultPose()
	if m.Position != nil {
		pose.Position = point(m.Position)
	}
	if m.Axis != nil {
		pose.Axis = direction(m.Axis)
	}
	pose.Angle = m.Angle * math.Pi / 180
	return pose
}

// FaceColor returns the color applied to every face of the mesh.
func (m Mesh) FaceColor() models.Color {
	if m.Color == nil {
		return models.Grey(1)
	}
	return models.Grey(*m.Color)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

func point(v []float64) math3d.Vec4 {
	return math3d.Point(v[0], v[1], v[2])
}

func direction(v []float64) math3d.Vec4 {
	return math3d.Direction(v[0], v[1], v[2])
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/glyph3d/pkg/anim"
	"github.com/taigrr/glyph3d/pkg/config"
	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
	"github.com/taigrr/glyph3d/pkg/render"
)

// Camera distance limits for the +/- keys.
const (
	dollyStep   = 0.5
	minDistance = 1.0
	maxDistance = 20.0
	kickRange   = 3.0 // Radians per second
)

// action is something a key press asks the viewer to do.
type action int

const (
	actionNone action = iota
	actionQuit
	actionKick
	actionReset
	actionWireframe
	actionBounds
	actionCloser
	actionFarther
	actionHUD
)

func keyAction(ev uv.KeyPressEvent) action {
	switch {
	case ev.MatchString("q", "escape", "ctrl+c"):
		return actionQuit
	case ev.MatchString("space"):
		return actionKick
	case ev.MatchString("r"):
		return actionReset
	case ev.MatchString("x"):
		return actionWireframe
	case ev.MatchString("b"):
		return actionBounds
	case ev.MatchString("+", "="):
		return actionCloser
	case ev.MatchString("-", "_"):
		return actionFarther
	case ev.MatchString("?", "shift+/"):
		return actionHUD
	}
	return actionNone
}

// viewer holds the interactive render loop state.
type viewer struct {
	cfg      *config.Config
	scene    render.Scene
	home     render.Camera
	poses    []models.Pose // Configured poses, restored on reset
	renderer *render.Renderer
	style    render.TriangleStyle // Configured style, restored when leaving wireframe
	spinner  *anim.Spinner
	dev      *render.Device
	out      io.Writer
	hud      *hud
	showHUD  bool
	logger   *slog.Logger
}

func newViewer(cfg *config.Config, scene render.Scene, out io.Writer, width, height int, logger *slog.Logger) *viewer {
	poses := make([]models.Pose, len(scene.Meshes))
	titles := make([]string, len(cfg.Meshes))
	for i, m := range scene.Meshes {
		poses[i] = m.Pose
	}
	for i, m := range cfg.Meshes {
		titles[i] = filepath.Base(m.Path)
	}

	renderer := cfg.Renderer(logger)
	v := &viewer{
		cfg:      cfg,
		scene:    scene,
		home:     scene.Camera,
		poses:    poses,
		renderer: renderer,
		style:    renderer.Style,
		spinner:  anim.NewSpinner(cfg.SpinnerConfig()),
		dev: render.NewDevice(render.DeviceConfig{
			Width:      width,
			Height:     height,
			Background: cfg.BackgroundColor(),
			Out:        out,
			Ramp:       cfg.GlyphRamp(),
		}),
		out:    out,
		hud:    newHUD(strings.Join(titles, ", "), triangleCount(scene), time.Now()),
		logger: logger,
	}
	v.scene.Projection = cfg.Projection(width, height)
	return v
}

// apply performs a; it reports true when the viewer should exit.
func (v *viewer) apply(a action) bool {
	switch a {
	case actionQuit:
		return true
	case actionKick:
		v.spinner.Kick((rand.Float64() - 0.5) * kickRange)
	case actionReset:
		v.spinner.Reset()
		v.scene.Camera = v.home
		for i, m := range v.scene.Meshes {
			m.Pose = v.poses[i]
		}
	case actionWireframe:
		if v.renderer.Style == render.WireframeStyle {
			v.renderer.Style = v.style
		} else {
			v.renderer.Style = render.WireframeStyle
		}
	case actionBounds:
		v.renderer.ShowBounds = !v.renderer.ShowBounds
	case actionCloser:
		v.scene.Camera = v.scene.Camera.Dolly(dollyStep, minDistance)
	case actionFarther:
		if v.scene.Camera.Distance()+dollyStep <= maxDistance {
			v.scene.Camera = v.scene.Camera.Dolly(-dollyStep, minDistance)
		}
	case actionHUD:
		v.showHUD = !v.showHUD
	}
	return false
}

func (v *viewer) resize(width, height int) {
	v.dev.Resize(width, height)
	v.scene.Projection = v.cfg.Projection(width, height)
}

func (v *viewer) mode() string {
	if v.renderer.Style == render.WireframeStyle {
		return "wireframe"
	}
	return "solid"
}

// frame advances the animation and draws one frame. A singular camera
// blanks the frame but keeps the loop running.
func (v *viewer) frame(now time.Time) error {
	v.spinner.Step()
	if !v.spinner.Idle() {
		for _, m := range v.scene.Meshes {
			v.spinner.Apply(m)
		}
	}

	stats, err := v.renderer.RenderFrame(v.dev, v.scene)
	logFrame(v.logger, stats, v.dev.Framebuffer())
	switch {
	case errors.Is(err, math3d.ErrSingularTransform):
		v.logger.Warn("frame skipped", "error", err)
	case err != nil:
		return err
	}

	v.hud.tick(now)
	if v.showHUD {
		if err := v.hud.draw(v.out, v.mode(), v.dev.Width(), v.dev.Height()); err != nil {
			return fmt.Errorf("draw hud: %w", err)
		}
	}
	return nil
}

// runViewer drives the interactive loop until a quit key or signal.
func runViewer(ctx context.Context, cfg *config.Config, scene render.Scene, logger *slog.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := newViewer(cfg, scene, os.Stdout, width, height, logger)
	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				logger.Debug("resize", "width", ev.Width, "height", ev.Height)
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				v.resize(ev.Width, ev.Height)
			case uv.KeyPressEvent:
				if v.apply(keyAction(ev)) {
					return nil
				}
			}
		case now := <-ticker.C:
			if err := v.frame(now); err != nil {
				return err
			}
		}
	}
}

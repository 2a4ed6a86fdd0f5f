package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/glyph3d/pkg/config"
	"github.com/taigrr/glyph3d/pkg/render"
)

func testViewer(t *testing.T, out *bytes.Buffer) *viewer {
	t.Helper()
	cfg := config.Default()
	cfg.Meshes = []config.Mesh{{Path: writeFile(t, "cube.obj", cubeOBJ), Angle: 30}}
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.DiscardHandler)
	scene, err := loadScene(context.Background(), cfg, logger)
	require.NoError(t, err)
	return newViewer(cfg, scene, out, 40, 20, logger)
}

func TestViewerFrame(t *testing.T) {
	var out bytes.Buffer
	v := testViewer(t, &out)

	require.NoError(t, v.frame(time.Now()))
	assert.True(t, strings.HasPrefix(out.String(), "\x1b[2J"))
	assert.Equal(t, 801, strings.Count(out.String(), "\x1b["))
	assert.NotZero(t, v.scene.Meshes[0].Pose.Angle, "the default spin turns the mesh")
}

func TestViewerHUD(t *testing.T) {
	var out bytes.Buffer
	v := testViewer(t, &out)

	assert.False(t, v.apply(actionHUD))
	require.NoError(t, v.frame(time.Now()))
	assert.Contains(t, out.String(), "\x1b[20;1H cube.obj | 12 tris")
	assert.Contains(t, out.String(), "solid")

	out.Reset()
	v.apply(actionWireframe)
	require.NoError(t, v.frame(time.Now()))
	assert.Contains(t, out.String(), "wireframe")
}

func TestViewerActions(t *testing.T) {
	var out bytes.Buffer
	v := testViewer(t, &out)
	start := v.scene.Camera.Distance()

	assert.True(t, v.apply(actionQuit))
	assert.False(t, v.apply(actionNone))

	v.apply(actionCloser)
	assert.InDelta(t, start-dollyStep, v.scene.Camera.Distance(), 1e-9)
	for range 100 {
		v.apply(actionCloser)
	}
	assert.InDelta(t, minDistance, v.scene.Camera.Distance(), 1e-9)
	for range 100 {
		v.apply(actionFarther)
	}
	assert.LessOrEqual(t, v.scene.Camera.Distance(), maxDistance+1e-9)

	v.apply(actionWireframe)
	assert.Equal(t, render.WireframeStyle, v.renderer.Style)
	v.apply(actionWireframe)
	assert.Equal(t, render.DefaultStyle, v.renderer.Style)

	v.apply(actionBounds)
	assert.True(t, v.renderer.ShowBounds)

	v.apply(actionKick)
	for range 5 {
		require.NoError(t, v.frame(time.Now()))
	}
	v.apply(actionReset)
	assert.Equal(t, v.home, v.scene.Camera)
	assert.Zero(t, v.spinner.Angle)
	assert.Equal(t, v.poses[0], v.scene.Meshes[0].Pose)
}

func TestViewerSingularCameraKeepsRunning(t *testing.T) {
	var out bytes.Buffer
	v := testViewer(t, &out)
	v.scene.Camera.Position = v.scene.Camera.Target

	require.NoError(t, v.frame(time.Now()))
	assert.Equal(t, 801, strings.Count(out.String(), "\x1b["))
}

func TestViewerResize(t *testing.T) {
	var out bytes.Buffer
	v := testViewer(t, &out)

	v.resize(60, 15)
	assert.Equal(t, 60, v.dev.Width())
	assert.Equal(t, 15, v.dev.Height())
	assert.InDelta(t, render.ViewportAspect(60, 15, v.cfg.CellAspect), v.scene.Projection.Aspect, 1e-12)
}

func TestHUDLine(t *testing.T) {
	start := time.Unix(0, 0)
	h := newHUD("teapot.obj", 6320, start)

	for i := range 30 {
		h.tick(start.Add(time.Duration(i+1) * 50 * time.Millisecond))
	}
	assert.InDelta(t, 20, h.fps, 1e-9)

	line := h.line("solid", 60)
	assert.Equal(t, 60, runewidth.StringWidth(line))
	assert.True(t, strings.HasPrefix(line, " teapot.obj | 6320 tris | 20 fps | solid"))

	short := h.line("solid", 12)
	assert.Equal(t, 12, runewidth.StringWidth(short))
	assert.True(t, strings.HasSuffix(short, "…"))

	var out bytes.Buffer
	require.NoError(t, h.draw(&out, "solid", 0, 10))
	assert.Empty(t, out.String())
}

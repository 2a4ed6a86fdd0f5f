package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/glyph3d/pkg/config"
	"github.com/taigrr/glyph3d/pkg/models"
	"github.com/taigrr/glyph3d/pkg/render"
)

// fitSize is the largest dimension every loaded mesh is scaled to.
const fitSize = 2.0

// loadScene loads every configured mesh concurrently and builds the scene.
func loadScene(ctx context.Context, cfg *config.Config, logger *slog.Logger) (render.Scene, error) {
	meshes := make([]*models.Mesh, len(cfg.Meshes))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range cfg.Meshes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mesh, err := loadMesh(m, logger)
			if err != nil {
				return err
			}
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return render.Scene{}, err
	}

	return render.Scene{
		Camera:     cfg.RenderCamera(),
		Projection: cfg.Projection(80, 24),
		Meshes:     meshes,
	}, nil
}

// loadMesh picks a loader by file extension, then recentres and scales the
// mesh to fitSize and applies its configured pose.
func loadMesh(m config.Mesh, logger *slog.Logger) (*models.Mesh, error) {
	var (
		mesh *models.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(m.Path)); ext {
	case ".obj":
		l := models.NewOBJLoader()
		l.Strict = !m.Lenient
		l.Color = m.FaceColor()
		l.Logger = logger
		mesh, err = l.Load(m.Path)
	case ".glb", ".gltf":
		l := models.NewGLTFLoader()
		l.Color = m.FaceColor()
		l.Logger = logger
		mesh, err = l.Load(m.Path)
	default:
		return nil, fmt.Errorf("load %s: unsupported format %q (use .obj, .glb or .gltf)", m.Path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	logger.Debug("mesh loaded", "path", m.Path, "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	fitted := mesh.Fitted(fitSize)
	fitted.Pose = m.Pose()
	return fitted, nil
}

func triangleCount(scene render.Scene) int {
	n := 0
	for _, m := range scene.Meshes {
		n += m.TriangleCount()
	}
	return n
}

// renderOnce draws a single frame of the configured size to out.
func renderOnce(out io.Writer, cfg *config.Config, scene render.Scene, opts *options, logger *slog.Logger) error {
	dev := render.NewDevice(render.DeviceConfig{
		Width:      opts.width,
		Height:     opts.height,
		Background: cfg.BackgroundColor(),
		Out:        out,
		Ramp:       cfg.GlyphRamp(),
	})
	scene.Projection = cfg.Projection(opts.width, opts.height)

	renderer := cfg.Renderer(logger)
	stats, err := renderer.RenderFrame(dev, scene)
	logFrame(logger, stats, dev.Framebuffer())
	if err != nil {
		return err
	}

	if opts.png != "" {
		if err := dev.Framebuffer().SavePNG(opts.png); err != nil {
			return fmt.Errorf("save png: %w", err)
		}
		logger.Info("frame saved", "path", opts.png)
	}
	return nil
}

func logFrame(logger *slog.Logger, stats render.FrameStats, fb *render.Framebuffer) {
	logger.Debug("frame",
		"meshes", stats.MeshesDrawn,
		"meshes_culled", stats.MeshesCulled,
		"faces", stats.FacesDrawn,
		"faces_behind", stats.FacesBehind,
		"faces_backfacing", stats.FacesBackfacing,
		"degenerate", stats.DegenerateFills,
		"singular", stats.SingularTransforms,
		"dropped", fb.Dropped(),
	)
}

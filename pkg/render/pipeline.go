package render

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
)

// Scene is everything needed to draw one frame.
type Scene struct {
	Camera     Camera
	Projection Projection
	Meshes     []*models.Mesh
}

// FrameStats counts what happened while drawing a frame.
type FrameStats struct {
	MeshesDrawn        int // Meshes that passed frustum culling
	MeshesCulled       int // Meshes skipped by frustum culling
	FacesDrawn         int // Faces handed to the rasterizer
	FacesBehind        int // Faces culled for a vertex at or behind the camera plane
	FacesBackfacing    int // Faces culled as back facing
	DegenerateFills    int // Faces whose fill was skipped for zero screen area
	SingularTransforms int // Model, view or projection matrices that could not be built
}

// boundsColor is the color of bounding boxes drawn when ShowBounds is set.
var boundsColor = models.Grey(0.5)

// Renderer runs the model → view → projection → rasterize pipeline.
// A Renderer holds options only and may be shared between frames.
type Renderer struct {
	Style         TriangleStyle
	CullBackfaces bool // Skip faces wound clockwise on screen
	FrustumCull   bool // Skip meshes whose bounds are outside the view volume
	ShowBounds    bool // Outline each mesh's bounding box
	Workers       int  // Horizontal bands rasterized in parallel; <= 1 draws on the caller's goroutine
	Logger        *slog.Logger
}

// NewRenderer creates a single-threaded renderer using DefaultStyle.
func NewRenderer() *Renderer {
	return &Renderer{
		Style:   DefaultStyle,
		Workers: 1,
	}
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// RenderFrame clears the device, draws the scene and presents the result.
// The frame is presented even when drawing failed, so a singular camera
// shows as a blank screen rather than a stale one.
func (r *Renderer) RenderFrame(dev *Device, scene Scene) (FrameStats, error) {
	dev.Clear()
	stats, drawErr := r.Draw(dev, scene)
	if err := dev.Present(); err != nil {
		return stats, err
	}
	return stats, drawErr
}

// Draw rasterizes the scene onto c without clearing it first.
// It returns an error wrapping math3d.ErrSingularTransform, and draws
// nothing, when the view or projection matrix cannot be built.
func (r *Renderer) Draw(c Canvas, scene Scene) (FrameStats, error) {
	var stats FrameStats

	view, err := scene.Camera.ViewMatrix()
	if err != nil {
		stats.SingularTransforms++
		return stats, fmt.Errorf("draw frame: %w", err)
	}
	proj, err := scene.Projection.Matrix()
	if err != nil {
		stats.SingularTransforms++
		return stats, fmt.Errorf("draw frame: %w", err)
	}
	viewProj := proj.Mul(view)

	var frustum Frustum
	if r.FrustumCull {
		frustum = NewFrustum(viewProj)
	}

	size := c.Bounds().Size()
	var ops []drawOp
	for _, mesh := range scene.Meshes {
		if mesh == nil {
			continue
		}
		model := r.modelMatrix(mesh, &stats)

		if r.FrustumCull && !frustum.IntersectAABB(MeshBounds(mesh).Transform(model)) {
			stats.MeshesCulled++
			continue
		}
		stats.MeshesDrawn++

		mvp := viewProj.Mul(model)
		ops = r.appendFaces(ops, mesh, mvp, size, &stats)
		if r.ShowBounds {
			ops = append(ops, boxOp{mvp: mvp, size: size, box: MeshBounds(mesh)})
		}
	}

	degenerate, err := r.rasterize(c, ops)
	stats.DegenerateFills = degenerate
	if err != nil {
		return stats, fmt.Errorf("rasterize: %w", err)
	}
	return stats, nil
}

// modelMatrix builds Translate(position) · Rotate(angle, axis). A pose whose
// rotation cannot be built is drawn unrotated.
func (r *Renderer) modelMatrix(mesh *models.Mesh, stats *FrameStats) math3d.Mat4 {
	pose := mesh.Pose
	model := math3d.Translate(pose.Position.Vec3())
	if pose.Angle == 0 {
		return model
	}
	rot, err := math3d.Rotate(pose.Angle, pose.Axis.Vec3())
	if err != nil {
		stats.SingularTransforms++
		r.logger().Debug("skipping mesh rotation", "mesh", mesh.Name, "axis", pose.Axis, "error", err)
		return model
	}
	return model.Mul(rot)
}

// appendFaces projects every face of mesh and appends the visible ones.
func (r *Renderer) appendFaces(ops []drawOp, mesh *models.Mesh, mvp math3d.Mat4, size image.Point, stats *FrameStats) []drawOp {
	screen := make([]math3d.Vec2, len(mesh.Vertices))
	inFront := make([]bool, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		x, y, ok := Project(mvp, v, size.X, size.Y)
		screen[i] = math3d.V2(x, y)
		inFront[i] = ok
	}

	for _, face := range mesh.Faces {
		if !inFront[face.V[0]] || !inFront[face.V[1]] || !inFront[face.V[2]] {
			stats.FacesBehind++
			continue
		}
		tri := Triangle{
			V:     [3]math3d.Vec2{screen[face.V[0]], screen[face.V[1]], screen[face.V[2]]},
			Color: face.Color,
		}
		// Screen Y points down, so faces wound counter-clockwise in view
		// space have a negative screen-space cross product.
		if r.CullBackfaces && tri.V[1].Sub(tri.V[0]).Cross(tri.V[2].Sub(tri.V[0])) > 0 {
			stats.FacesBackfacing++
			continue
		}
		stats.FacesDrawn++
		ops = append(ops, triangleOp{tri: tri, style: r.Style})
	}
	return ops
}

// rasterize draws ops in order. With more than one worker the canvas is cut
// into horizontal bands and every worker draws all ops clipped to its band,
// so each cell has a single writer and the result matches a sequential draw.
func (r *Renderer) rasterize(c Canvas, ops []drawOp) (int, error) {
	b := c.Bounds()
	workers := min(r.Workers, b.Dy())
	if workers <= 1 {
		return drawOps(c, ops)
	}

	degenerate := make([]int, workers)
	var g errgroup.Group
	for i := range workers {
		band := image.Rect(b.Min.X, b.Min.Y+b.Dy()*i/workers, b.Max.X, b.Min.Y+b.Dy()*(i+1)/workers)
		g.Go(func() error {
			n, err := drawOps(clipCanvas{dst: c, rect: band}, ops)
			degenerate[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return degenerate[0], err
	}
	// Every band sees every op, so any one band's count is the frame's.
	return degenerate[0], nil
}

func drawOps(c Canvas, ops []drawOp) (int, error) {
	degenerate := 0
	for _, op := range ops {
		err := op.draw(c)
		switch {
		case err == nil:
		case errors.Is(err, ErrDegenerateTriangle):
			degenerate++
		default:
			return degenerate, err
		}
	}
	return degenerate, nil
}

// Project maps v through mvp to screen coordinates on a width x height grid:
// x = (ndc.x+1)/2·width, y = (1-ndc.y)/2·height. It reports false when v
// lands at or behind the camera plane (clip w <= 0).
func Project(mvp math3d.Mat4, v math3d.Vec4, width, height int) (x, y float64, ok bool) {
	clip := mvp.MulVec4(v)
	if clip.W <= 0 {
		return 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, true
}

// drawOp is one queued primitive of a frame.
type drawOp interface {
	draw(c Canvas) error
}

type triangleOp struct {
	tri   Triangle
	style TriangleStyle
}

func (op triangleOp) draw(c Canvas) error {
	return DrawTriangle(c, op.tri, op.style)
}

type boxOp struct {
	mvp  math3d.Mat4
	size image.Point
	box  AABB
}

func (op boxOp) draw(c Canvas) error {
	DrawBox(c, op.mvp, op.size, op.box, boundsColor)
	return nil
}

package render

import (
	"image"

	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
)

// boxEdges lists the corner pairs of the 12 edges of an AABB, indexed as in
// AABB.Corners.
var boxEdges = [12][2]int{
	// Min Z face
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	// Max Z face
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	// Connecting edges
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawLine3D projects a model-space segment through mvp onto a frame of the
// given size and draws it with Bresenham. Segments with an endpoint behind
// the camera are skipped.
func DrawLine3D(c Canvas, mvp math3d.Mat4, size image.Point, a, b math3d.Vec3, color models.Color) {
	x0, y0, ok0 := Project(mvp, math3d.V4FromV3(a, 1), size.X, size.Y)
	x1, y1, ok1 := Project(mvp, math3d.V4FromV3(b, 1), size.X, size.Y)
	if !ok0 || !ok1 {
		return
	}
	p, q, ok := clipSegment(math3d.V2(x0, y0), math3d.V2(x1, y1), strokeGuard)
	if !ok {
		return
	}
	DrawLine(c, roundInt(p.X), roundInt(p.Y), roundInt(q.X), roundInt(q.Y), color)
}

// DrawBox draws the 12 edges of a model-space box.
func DrawBox(c Canvas, mvp math3d.Mat4, size image.Point, box AABB, color models.Color) {
	corners := box.Corners()
	for _, e := range boxEdges {
		DrawLine3D(c, mvp, size, corners[e[0]], corners[e[1]], color)
	}
}

package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/models"
)

// ErrDegenerateTriangle is returned by FillTriangle for triangles with zero
// area (collinear or coincident vertices) or non-finite coordinates.
var ErrDegenerateTriangle = errors.New("render: degenerate triangle")

// StrokeMode selects how triangle edges are drawn.
type StrokeMode int

const (
	StrokeNone   StrokeMode = iota // No outline
	StrokeFast                     // Bresenham lines, full color
	StrokeSmooth                   // Wu antialiased lines
)

func (m StrokeMode) String() string {
	switch m {
	case StrokeNone:
		return "none"
	case StrokeFast:
		return "fast"
	case StrokeSmooth:
		return "smooth"
	default:
		return "unknown"
	}
}

// ParseStrokeMode is the inverse of StrokeMode.String.
func ParseStrokeMode(s string) (StrokeMode, error) {
	for _, m := range []StrokeMode{StrokeNone, StrokeFast, StrokeSmooth} {
		if s == m.String() {
			return m, nil
		}
	}
	return StrokeNone, fmt.Errorf("unknown stroke mode %q", s)
}

// TriangleStyle controls how DrawTriangle composes outline and fill.
type TriangleStyle struct {
	Stroke StrokeMode
	Fill   bool
}

var (
	// DefaultStyle draws antialiased outlines around solid fills.
	DefaultStyle = TriangleStyle{Stroke: StrokeSmooth, Fill: true}

	// WireframeStyle draws outlines only.
	WireframeStyle = TriangleStyle{Stroke: StrokeFast}
)

// Triangle is a screen-space triangle with a single color.
type Triangle struct {
	V     [3]math3d.Vec2
	Color models.Color
}

// strokeGuard bounds the cells a stroke may walk. Edges of triangles that
// project far off screen are clipped to it before rasterization. It does not
// depend on the canvas, so banded and whole-frame drawing walk the same cells.
var strokeGuard = image.Rect(-1<<15, -1<<15, 1<<15, 1<<15)

// DrawTriangle strokes the edges of tri and then fills it.
// The fill never overwrites a cell the stroke gave non-zero coverage, so
// antialiased edge intensities survive. A degenerate triangle is still
// stroked; the fill's ErrDegenerateTriangle is returned.
func DrawTriangle(c Canvas, tri Triangle, style TriangleStyle) error {
	if style.Stroke == StrokeNone || !style.Fill {
		strokeTriangle(c, tri, style.Stroke)
		if !style.Fill {
			return nil
		}
		return FillTriangle(c, tri.V[0], tri.V[1], tri.V[2], tri.Color)
	}

	rec := newRecordingCanvas(c)
	strokeTriangle(rec, tri, style.Stroke)
	return FillTriangle(maskedCanvas{dst: c, mask: rec.written}, tri.V[0], tri.V[1], tri.V[2], tri.Color)
}

func strokeTriangle(c Canvas, tri Triangle, mode StrokeMode) {
	if mode == StrokeNone {
		return
	}
	for i := range 3 {
		a, b, ok := clipSegment(tri.V[i], tri.V[(i+1)%3], strokeGuard)
		if !ok {
			continue
		}
		switch mode {
		case StrokeFast:
			DrawLine(c, roundInt(a.X), roundInt(a.Y), roundInt(b.X), roundInt(b.Y), tri.Color)
		case StrokeSmooth:
			DrawLineAA(c, a.X, a.Y, b.X, b.Y, tri.Color)
		}
	}
}

// FillTriangle colors every cell (x, y) whose integer coordinates lie inside
// or on the edge of the triangle. With e1 = v1-v0, e2 = v2-v0 and d = P-v0,
// the cell is inside when s >= 0, t >= 0 and s+t <= 1 where
// s = (d×e2)/(e1×e2) and t = (e1×d)/(e1×e2). The test runs on the
// numerators so integer vertices are exact.
func FillTriangle(c Canvas, v0, v1, v2 math3d.Vec2, color models.Color) error {
	for _, v := range [3]math3d.Vec2{v0, v1, v2} {
		if !finite(v.X) || !finite(v.Y) {
			return ErrDegenerateTriangle
		}
	}

	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	den := e1.Cross(e2)
	if den == 0 {
		return ErrDegenerateTriangle
	}
	sign := 1.0
	if den < 0 {
		sign, den = -1, -den
	}

	// Clamp in float space: coordinates past the int range must not wrap.
	b := c.Bounds()
	fminX := math.Max(math.Floor(min(v0.X, v1.X, v2.X)), float64(b.Min.X))
	fmaxX := math.Min(math.Ceil(max(v0.X, v1.X, v2.X)), float64(b.Max.X-1))
	fminY := math.Max(math.Floor(min(v0.Y, v1.Y, v2.Y)), float64(b.Min.Y))
	fmaxY := math.Min(math.Ceil(max(v0.Y, v1.Y, v2.Y)), float64(b.Max.Y-1))
	if fminX > fmaxX || fminY > fmaxY {
		return nil
	}
	minX, maxX := int(fminX), int(fmaxX)
	minY, maxY := int(fminY), int(fmaxY)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			d := math3d.V2(float64(x)-v0.X, float64(y)-v0.Y)
			s := sign * d.Cross(e2)
			t := sign * e1.Cross(d)
			if s >= 0 && t >= 0 && s+t <= den {
				c.SetPixel(x, y, color)
			}
		}
	}
	return nil
}

// clipSegment clips the segment ab to r using Liang-Barsky. It reports false
// when nothing of the segment lies inside r.
func clipSegment(a, b math3d.Vec2, r image.Rectangle) (math3d.Vec2, math3d.Vec2, bool) {
	if !finite(a.X) || !finite(a.Y) || !finite(b.X) || !finite(b.Y) {
		return a, b, false
	}
	minX, minY := float64(r.Min.X), float64(r.Min.Y)
	maxX, maxY := float64(r.Max.X-1), float64(r.Max.Y-1)
	if a.X >= minX && a.X <= maxX && a.Y >= minY && a.Y <= maxY &&
		b.X >= minX && b.X <= maxX && b.Y >= minY && b.Y <= maxY {
		return a, b, true
	}

	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - minX},
		{dx, maxX - a.X},
		{-dy, a.Y - minY},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}
	return math3d.V2(a.X+t0*dx, a.Y+t0*dy), math3d.V2(a.X+t1*dx, a.Y+t1*dy), true
}

func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

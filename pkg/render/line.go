package render

import (
	"math"

	"github.com/taigrr/glyph3d/pkg/models"
)

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. It writes exactly max(|dx|,|dy|)+1 cells, each with the full
// color, walking the major axis from the lower to the higher coordinate.
func DrawLine(c Canvas, x0, y0, x1, y1 int, color models.Color) {
	if abs(y1-y0) < abs(x1-x0) {
		if x0 > x1 {
			x0, y0, x1, y1 = x1, y1, x0, y0
		}
		lineLow(c, x0, y0, x1, y1, color)
		return
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	lineHigh(c, x0, y0, x1, y1, color)
}

// lineLow steps along x for slopes in (-1, 1). Requires x0 <= x1.
func lineLow(c Canvas, x0, y0, x1, y1 int, color models.Color) {
	dx := x1 - x0
	dy := y1 - y0
	yi := 1
	if dy < 0 {
		yi = -1
		dy = -dy
	}
	d := 2*dy - dx
	y := y0
	for x := x0; x <= x1; x++ {
		c.SetPixel(x, y, color)
		if d > 0 {
			y += yi
			d += 2 * (dy - dx)
		} else {
			d += 2 * dy
		}
	}
}

// lineHigh steps along y for steep slopes. Requires y0 <= y1.
func lineHigh(c Canvas, x0, y0, x1, y1 int, color models.Color) {
	dx := x1 - x0
	dy := y1 - y0
	xi := 1
	if dx < 0 {
		xi = -1
		dx = -dx
	}
	d := 2*dx - dy
	x := x0
	for y := y0; y <= y1; y++ {
		c.SetPixel(x, y, color)
		if d > 0 {
			x += xi
			d += 2 * (dx - dy)
		} else {
			d += 2 * dx
		}
	}
}

// DrawLineAA draws an antialiased line using Xiaolin Wu's algorithm.
// Every step along the major axis writes the two cells straddling the ideal
// line, weighted by how close each is to it. The two weights of a step sum
// to 1. Coverage is applied with models.Color.WithCoverage.
func DrawLineAA(c Canvas, x0, y0, x1, y1 float64, color models.Color) {
	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	plot := func(x, y int, coverage float64) {
		if steep {
			x, y = y, x
		}
		c.SetPixel(x, y, color.WithCoverage(coverage))
	}

	dx := x1 - x0
	dy := y1 - y0
	gradient := 1.0
	if dx != 0 {
		gradient = dy / dx
	}

	// First endpoint
	xend := math.Floor(x0 + 0.5)
	yend := y0 + gradient*(xend-x0)
	xpxl1 := int(xend)
	ypxl1 := int(math.Floor(yend))
	plot(xpxl1, ypxl1, rfpart(yend))
	plot(xpxl1, ypxl1+1, fpart(yend))
	intery := yend + gradient

	// Second endpoint
	xend = math.Floor(x1 + 0.5)
	yend = y1 + gradient*(xend-x1)
	xpxl2 := int(xend)
	ypxl2 := int(math.Floor(yend))
	if xpxl2 != xpxl1 {
		plot(xpxl2, ypxl2, rfpart(yend))
		plot(xpxl2, ypxl2+1, fpart(yend))
	}

	for x := xpxl1 + 1; x < xpxl2; x++ {
		y := math.Floor(intery)
		plot(x, int(y), rfpart(intery))
		plot(x, int(y)+1, fpart(intery))
		intery += gradient
	}
}

func fpart(x float64) float64 {
	return x - math.Floor(x)
}

func rfpart(x float64) float64 {
	return 1 - fpart(x)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

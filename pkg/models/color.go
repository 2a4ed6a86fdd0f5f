package models

import (
	"fmt"
	"math"
)

// ColorKind tags which variant a Color holds.
type ColorKind uint8

const (
	KindGrey ColorKind = iota // Single intensity channel
	KindRGBA                  // Red, green, blue and alpha
)

// Color is either a grey intensity or an RGBA value, all channels in [0,1].
// Only the alpha/intensity channel drives glyph selection; R, G and B are
// carried through the pipeline but not consumed by the terminal output.
type Color struct {
	Kind       ColorKind
	R, G, B, A float64 // A holds the intensity for KindGrey
}

// Grey creates a grey color with the given intensity.
func Grey(intensity float64) Color {
	return Color{Kind: KindGrey, A: intensity}
}

// RGBA creates an RGBA color.
func RGBA(r, g, b, a float64) Color {
	return Color{Kind: KindRGBA, R: r, G: g, B: b, A: a}
}

// Intensity returns the alpha/intensity channel clamped to [0,1].
// NaN is treated as 0.
func (c Color) Intensity() float64 {
	return clamp01(c.A)
}

// WithCoverage returns the color an antialiased primitive emits for a cell
// covered by fraction f. Grey colors emit exactly the coverage, ignoring
// their own intensity; RGBA colors scale their alpha by it.
func (c Color) WithCoverage(f float64) Color {
	f = clamp01(f)
	if c.Kind == KindGrey {
		return Grey(f)
	}
	return RGBA(c.R, c.G, c.B, c.A*f)
}

func (c Color) String() string {
	if c.Kind == KindGrey {
		return fmt.Sprintf("Grey(%g)", c.A)
	}
	return fmt.Sprintf("RGBA(%g, %g, %g, %g)", c.R, c.G, c.B, c.A)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

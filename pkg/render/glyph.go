package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// RampSize is the number of intensity bands a Ramp maps onto.
const RampSize = 5

// Ramp maps intensity bands to glyphs, from sparse to solid.
type Ramp [RampSize]rune

var (
	// DefaultRamp uses Unicode shade blocks.
	DefaultRamp = Ramp{' ', '░', '▒', '▓', '█'}

	// ASCIIRamp works on terminals without block elements.
	ASCIIRamp = Ramp{' ', '.', ':', '+', '#'}
)

// narrow measures glyph widths as a non-CJK terminal would, so the shade
// blocks count as one cell regardless of the user's locale.
var narrow = &runewidth.Condition{EastAsianWidth: false}

// ParseRamp builds a Ramp from a string of exactly five single-width glyphs.
func ParseRamp(s string) (Ramp, error) {
	var r Ramp
	runes := []rune(s)
	if len(runes) != RampSize {
		return r, fmt.Errorf("ramp %q: need %d glyphs, got %d", s, RampSize, len(runes))
	}
	for i, g := range runes {
		if w := narrow.RuneWidth(g); w != 1 {
			return r, fmt.Errorf("ramp %q: glyph %q has width %d", s, g, w)
		}
		r[i] = g
	}
	return r, nil
}

// Glyph returns the glyph for an intensity. The bands are [0,0.2], (0.2,0.4],
// (0.4,0.6], (0.6,0.8] and (0.8,1]; values outside [0,1] are clamped.
func (r Ramp) Glyph(intensity float64) rune {
	switch {
	case !(intensity > 0.2):
		return r[0]
	case intensity <= 0.4:
		return r[1]
	case intensity <= 0.6:
		return r[2]
	case intensity <= 0.8:
		return r[3]
	default:
		return r[4]
	}
}

func (r Ramp) String() string {
	return string(r[:])
}

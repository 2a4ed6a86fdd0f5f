package render

import (
	"bufio"
	"fmt"
	"image"
	"io"

	"github.com/charmbracelet/x/ansi"

	"github.com/taigrr/glyph3d/pkg/models"
)

// DeviceConfig describes a terminal output device.
type DeviceConfig struct {
	Width      int
	Height     int
	Background models.Color
	Out        io.Writer // nil discards output
	Ramp       Ramp      // zero value selects DefaultRamp
}

// Device owns a framebuffer and prints it to a terminal. Only two escape
// sequences are ever written: erase screen and cursor position. No color
// codes are emitted; a cell's intensity picks its glyph.
type Device struct {
	fb   *Framebuffer
	out  *bufio.Writer
	ramp Ramp
}

// NewDevice creates a device with a cleared framebuffer.
func NewDevice(cfg DeviceConfig) *Device {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	ramp := cfg.Ramp
	if ramp == (Ramp{}) {
		ramp = DefaultRamp
	}
	return &Device{
		fb:   NewFramebuffer(cfg.Width, cfg.Height, cfg.Background),
		out:  bufio.NewWriter(out),
		ramp: ramp,
	}
}

// Framebuffer returns the device's backing buffer.
func (d *Device) Framebuffer() *Framebuffer {
	return d.fb
}

// Ramp returns the glyph ramp used by Present.
func (d *Device) Ramp() Ramp {
	return d.ramp
}

// Width returns the width in cells.
func (d *Device) Width() int {
	return d.fb.Width
}

// Height returns the height in cells.
func (d *Device) Height() int {
	return d.fb.Height
}

// Bounds returns the drawable rectangle.
func (d *Device) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// SetPixel writes a cell; see Framebuffer.SetPixel.
func (d *Device) SetPixel(x, y int, c models.Color) {
	d.fb.SetPixel(x, y, c)
}

// Clear resets the framebuffer and queues an erase-screen sequence. The
// sequence reaches the terminal on the next Present.
func (d *Device) Clear() {
	d.fb.Clear()
	_, _ = d.out.WriteString(ansi.EraseEntireScreen)
}

// Resize changes the framebuffer size and clears it.
func (d *Device) Resize(width, height int) {
	d.fb.Resize(width, height)
}

// Present writes every cell, row by row, as a cursor move followed by the
// cell's glyph, then flushes.
func (d *Device) Present() error {
	for y := 0; y < d.fb.Height; y++ {
		for x := 0; x < d.fb.Width; x++ {
			_, _ = d.out.WriteString(cursorTo(x+1, y+1))
			_, _ = d.out.WriteRune(d.ramp.Glyph(d.fb.Pixels[y*d.fb.Width+x].Intensity()))
		}
	}
	if err := d.out.Flush(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

// cursorTo moves the cursor to a 1-based cell. ansi.CursorPosition shortens
// the home cell to ESC[H; frames always spell out both coordinates.
func cursorTo(col, row int) string {
	if col == 1 && row == 1 {
		return "\x1b[1;1H"
	}
	return ansi.CursorPosition(col, row)
}

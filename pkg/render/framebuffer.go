// Package render turns glyph3d scenes into terminal frames: a software
// rasterizer that writes colors into a cell grid and a device that prints
// that grid as glyphs with ANSI cursor addressing.
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/taigrr/glyph3d/pkg/models"
)

// Canvas is anything the rasterizer can draw on.
// Writes outside Bounds are silently dropped.
type Canvas interface {
	Bounds() image.Rectangle
	SetPixel(x, y int, c models.Color)
}

// Framebuffer is a 2D array of colors, one per terminal cell.
type Framebuffer struct {
	Width      int
	Height     int
	Background models.Color
	Pixels     []models.Color // Row-major pixel data

	dropped int
}

// NewFramebuffer creates a framebuffer with every cell set to bg.
// Negative dimensions are treated as zero.
func NewFramebuffer(width, height int, bg models.Color) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:      width,
		Height:     height,
		Background: bg,
		Pixels:     make([]models.Color, width*height),
	}
	fb.Clear()
	return fb
}

// Bounds returns the drawable rectangle.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// Clear resets every cell to the background color and the dropped counter to
// zero.
func (fb *Framebuffer) Clear() {
	for i := range fb.Pixels {
		fb.Pixels[i] = fb.Background
	}
	fb.dropped = 0
}

// SetPixel sets a pixel at (x, y) to the given color. The last write wins.
// Out of bounds writes are dropped and counted.
func (fb *Framebuffer) SetPixel(x, y int, c models.Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		fb.dropped++
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns the background if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) models.Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return fb.Background
	}
	return fb.Pixels[y*fb.Width+x]
}

// Dropped returns how many out of bounds writes were discarded since the
// last Clear.
func (fb *Framebuffer) Dropped() int {
	return fb.dropped
}

// Resize reallocates the framebuffer and clears it.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]models.Color, width*height)
	fb.Clear()
}

// ToImage converts the framebuffer to a greyscale image of cell intensities.
func (fb *Framebuffer) ToImage() *image.Gray {
	img := image.NewGray(fb.Bounds())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			i := fb.Pixels[y*fb.Width+x].Intensity()
			img.SetGray(x, y, color.Gray{Y: uint8(i*255 + 0.5)})
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// clipCanvas forwards writes that land inside rect and drops the rest.
type clipCanvas struct {
	dst  Canvas
	rect image.Rectangle
}

func (c clipCanvas) Bounds() image.Rectangle {
	return c.rect
}

func (c clipCanvas) SetPixel(x, y int, col models.Color) {
	if !image.Pt(x, y).In(c.rect) {
		return
	}
	c.dst.SetPixel(x, y, col)
}

// recordingCanvas forwards writes and remembers which cells received
// non-zero coverage.
type recordingCanvas struct {
	dst     Canvas
	written map[image.Point]struct{}
}

func newRecordingCanvas(dst Canvas) *recordingCanvas {
	return &recordingCanvas{dst: dst, written: make(map[image.Point]struct{})}
}

func (c *recordingCanvas) Bounds() image.Rectangle {
	return c.dst.Bounds()
}

func (c *recordingCanvas) SetPixel(x, y int, col models.Color) {
	if col.Intensity() > 0 {
		c.written[image.Pt(x, y)] = struct{}{}
	}
	c.dst.SetPixel(x, y, col)
}

// maskedCanvas forwards writes except to cells in mask.
type maskedCanvas struct {
	dst  Canvas
	mask map[image.Point]struct{}
}

func (c maskedCanvas) Bounds() image.Rectangle {
	return c.dst.Bounds()
}

func (c maskedCanvas) SetPixel(x, y int, col models.Color) {
	if _, ok := c.mask[image.Pt(x, y)]; ok {
		return
	}
	c.dst.SetPixel(x, y, col)
}

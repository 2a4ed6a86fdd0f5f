package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// hud is a one-line status bar drawn over the bottom row after each frame.
// It is plain text placed with cursor addressing, like the frame itself.
type hud struct {
	title     string
	triangles int

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(title string, triangles int, now time.Time) *hud {
	return &hud{
		title:     title,
		triangles: triangles,
		fpsTime:   now,
	}
}

// tick updates the FPS counter. Call once per frame.
func (h *hud) tick(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// line formats the status text to exactly width cells.
func (h *hud) line(mode string, width int) string {
	text := fmt.Sprintf(" %s | %d tris | %.0f fps | %s ", h.title, h.triangles, h.fps, mode)
	return runewidth.FillRight(runewidth.Truncate(text, width, "…"), width)
}

func (h *hud) draw(w io.Writer, mode string, width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	_, err := io.WriteString(w, ansi.CursorPosition(1, height)+h.line(mode, width))
	return err
}

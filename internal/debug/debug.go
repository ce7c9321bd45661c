package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize    = 20
	fpsPadding     = 12
	fpsLineHeight  = fpsFontSize + 4
	statusFontSize = 16
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds the top-right overlay: FPS, heap allocation and viewer status lines
// (active model, drag state). FPS and memory are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	status       []string
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetStatus replaces the status lines drawn under the counters.
func (d *Debug) SetStatus(lines ...string) {
	d.status = append(d.status[:0], lines...)
}

// Draw renders any enabled overlays. Call after the scene and terminal in the draw loop.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(fpsPadding)

	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.lastFpsText, screenW, y, fpsFontSize, rl.Green)
		y += fpsLineHeight
	}

	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		drawRight(d.lastMemText, screenW, y, fpsFontSize, rl.Green)
		y += fpsLineHeight
	}

	for _, line := range d.status {
		drawRight(line, screenW, y, statusFontSize, rl.LightGray)
		y += statusFontSize + 4
	}
}

func drawRight(text string, screenW, y, size int32, c rl.Color) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, size)
	rl.DrawText(text, screenW-w-fpsPadding, y, size, c)
}

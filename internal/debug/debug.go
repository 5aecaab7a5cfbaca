package debug

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh overlay text every N frames to reduce allocations.
	updateInterval = 30
)

// Stats are the simulation numbers shown by the overlay.
type Stats struct {
	Entities int
	Hits     int
	Time     float32
}

// Debug holds runtime debugging features (FPS, memory and simulation stats). All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	// StatsFunc provides the numbers for ShowStats.
	StatsFunc func() Stats

	frameCount    uint32
	lastFpsText   string
	lastMemText   string
	lastStatsText string
	lastMemStats  runtime.MemStats
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

// Draw renders any enabled debug overlays. Call after EndMode3D.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") || (d.ShowStats && d.lastStatsText == "") {
		update = true
	}

	y := int32(fpsPadding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.lastFpsText, y)
		y += fpsLineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = "Mem: " + humanize.IBytes(d.lastMemStats.Alloc)
		}
		drawRight(d.lastMemText, y)
		y += fpsLineHeight
	}
	if d.ShowStats && d.StatsFunc != nil {
		if update {
			s := d.StatsFunc()
			d.lastStatsText = fmt.Sprintf("Objects: %s  Hits: %s  t=%.1fs", humanize.Comma(int64(s.Entities)), humanize.Comma(int64(s.Hits)), s.Time)
		}
		drawRight(d.lastStatsText, y)
	}
}

func drawRight(text string, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fpsFontSize)
	x := int32(rl.GetScreenWidth()) - w - fpsPadding
	rl.DrawText(text, x, y, fpsFontSize, rl.Green)
}

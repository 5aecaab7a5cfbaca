package frameloop

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Manual is a scheduler with a single pending slot. The owner fires the pending
// callback once per frame. A new request replaces an older one.
type Manual struct {
	mu      sync.Mutex
	pending func()
}

func (m *Manual) RequestFrame(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = fn
}

// Fire runs the pending callback and reports whether there was one.
func (m *Manual) Fire() bool {
	m.mu.Lock()
	fn := m.pending
	m.pending = nil
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is waiting.
func (m *Manual) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Headless fires frames from a ticker instead of a display.
type Headless struct {
	Manual

	// Hz is the frame rate. Defaults to 60.
	Hz int
	// Limit stops Run after that many frames. 0 runs until the context is done.
	Limit int
	// BetweenFrames is called after each frame, e.g. to apply queued commands.
	BetweenFrames func()
}

// Run fires frames until ctx is done, the frame limit is reached or no frame is pending.
// It returns the number of frames fired.
func (h *Headless) Run(ctx context.Context) int {
	hz := h.Hz
	if hz <= 0 {
		hz = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()
	slog.Info("headless run started", "hz", hz, "limit", h.Limit)
	var frames int
	for {
		select {
		case <-ctx.Done():
			slog.Info("headless run stopped", "frames", frames, "reason", ctx.Err())
			return frames
		case <-ticker.C:
			if !h.Fire() {
				slog.Warn("headless run stopped: no frame requested", "frames", frames)
				return frames
			}
			frames++
			if h.BetweenFrames != nil {
				h.BetweenFrames()
			}
			if h.Limit > 0 && frames >= h.Limit {
				slog.Info("headless run finished", "frames", frames)
				return frames
			}
		}
	}
}

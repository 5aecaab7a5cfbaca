package graphics

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"physics-playground/internal/frameloop"
)

// WindowConfig sets up the window.
type WindowConfig struct {
	Width     int32
	Height    int32
	Title     string
	TargetFPS int32
}

// Window is the raylib window and audio device. It is also the frame scheduler:
// each display frame it fires the callback requested last.
type Window struct {
	frameloop.Manual
}

// Open creates the window and initializes the audio device.
// A missing audio device is logged and leaves sound disabled.
func Open(cfg WindowConfig) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(cfg.Width, cfg.Height, cfg.Title)
	rl.SetExitKey(rl.KeyNull) // ESC is used to toggle the console, not to quit; close via window button
	if cfg.TargetFPS > 0 {
		rl.SetTargetFPS(cfg.TargetFPS)
	}
	rl.InitAudioDevice()
	if !rl.IsAudioDeviceReady() {
		slog.Warn("audio device not available")
	}
	return &Window{}
}

// Run runs until the window is closed. Each iteration fires the pending frame
// (which draws) and then calls betweenFrames, e.g. for input and queued commands.
func (w *Window) Run(betweenFrames func()) {
	for !rl.WindowShouldClose() {
		if !w.Fire() {
			rl.BeginDrawing()
			rl.ClearBackground(rl.Black)
			rl.EndDrawing()
		}
		if betweenFrames != nil {
			betweenFrames()
		}
	}
}

// Close closes the audio device and the window.
func (w *Window) Close() {
	rl.CloseAudioDevice()
	rl.CloseWindow()
}

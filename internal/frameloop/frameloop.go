// Package frameloop drives the per-frame cycle of the playground:
// camera update, physics step, physics-to-render sync and rendering.
package frameloop

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var ErrAlreadyStarted = errors.New("frame loop already started")

// Scheduler calls back once before the next display frame.
type Scheduler interface {
	RequestFrame(fn func())
}

// Clock measures the time between frames in seconds.
type Clock interface {
	Delta() float32
}

// Stepper advances the physics simulation with a fixed timestep.
// It returns the number of substeps taken.
type Stepper interface {
	Step(fixed, elapsed float32, maxSubSteps int) int
}

// Syncer copies body transforms onto their meshes.
type Syncer interface {
	Sync()
}

// CameraUpdater applies input damping to the camera.
type CameraUpdater interface {
	Update(dt float32)
}

// Renderer draws the current scene.
type Renderer interface {
	Render()
}

// SyncOrder decides whether meshes are synced before or after the physics step of a frame.
type SyncOrder int

const (
	// SyncBeforeStep shows the state of the previous step. Rendering lags physics by one step.
	SyncBeforeStep SyncOrder = iota
	// SyncAfterStep shows the state of the step just taken.
	SyncAfterStep
)

func (o SyncOrder) String() string {
	switch o {
	case SyncBeforeStep:
		return "before"
	case SyncAfterStep:
		return "after"
	}
	return fmt.Sprintf("SyncOrder(%d)", int(o))
}

// ParseSyncOrder parses "before" or "after".
func ParseSyncOrder(s string) (SyncOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "before":
		return SyncBeforeStep, nil
	case "after":
		return SyncAfterStep, nil
	}
	return 0, fmt.Errorf("invalid sync order %q", s)
}

// Config holds the timing parameters of a loop.
type Config struct {
	FixedStep   float32
	MaxSubSteps int
	// MaxDelta caps the frame delta, e.g. after the window was hidden.
	MaxDelta float32
	Order    SyncOrder
}

// DefaultConfig returns a 60 Hz loop with up to 3 substeps.
func DefaultConfig() Config {
	return Config{
		FixedStep:   1.0 / 60,
		MaxSubSteps: 3,
		MaxDelta:    0.1,
		Order:       SyncBeforeStep,
	}
}

// State is the lifecycle state of a loop.
type State int

const (
	Idle State = iota
	Scheduled
)

func (s State) String() string {
	if s == Scheduled {
		return "scheduled"
	}
	return "idle"
}

// Deps are the collaborators of a loop.
type Deps struct {
	Scheduler Scheduler
	Clock     Clock
	World     Stepper
	Syncer    Syncer
	Camera    CameraUpdater // optional
	Renderer  Renderer      // optional
}

// Loop runs one Tick per display frame. Once started it re-requests itself forever.
// A Loop is not safe for concurrent use; all ticks run on the scheduler's goroutine.
type Loop struct {
	cfg   Config
	deps  Deps
	state State

	ticks    uint64
	steps    uint64
	sometime rate.Sometimes
}

// New returns an idle loop.
func New(cfg Config, deps Deps) *Loop {
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = DefaultConfig().FixedStep
	}
	if cfg.MaxSubSteps < 1 {
		cfg.MaxSubSteps = 1
	}
	return &Loop{
		cfg:      cfg,
		deps:     deps,
		sometime: rate.Sometimes{Interval: 5 * time.Second},
	}
}

// Start requests the first frame. A loop can only be started once.
func (l *Loop) Start() error {
	if l.state != Idle {
		return ErrAlreadyStarted
	}
	l.state = Scheduled
	l.deps.Scheduler.RequestFrame(l.frame)
	slog.Info("frame loop started", "fixedStep", l.cfg.FixedStep, "maxSubSteps", l.cfg.MaxSubSteps, "sync", l.cfg.Order)
	return nil
}

func (l *Loop) frame() {
	l.Tick()
	l.deps.Scheduler.RequestFrame(l.frame)
}

// Tick runs a single frame.
func (l *Loop) Tick() {
	dt := l.deps.Clock.Delta()
	if dt < 0 {
		dt = 0
	}
	if l.cfg.MaxDelta > 0 && dt > l.cfg.MaxDelta {
		dt = l.cfg.MaxDelta
	}
	if l.deps.Camera != nil {
		l.deps.Camera.Update(dt)
	}
	if l.cfg.Order == SyncBeforeStep {
		l.deps.Syncer.Sync()
	}
	n := l.deps.World.Step(l.cfg.FixedStep, dt, l.cfg.MaxSubSteps)
	if l.cfg.Order == SyncAfterStep {
		l.deps.Syncer.Sync()
	}
	if l.deps.Renderer != nil {
		l.deps.Renderer.Render()
	}
	l.ticks++
	l.steps += uint64(n)
	l.sometime.Do(func() {
		slog.Debug("frame loop", "ticks", l.ticks, "steps", l.steps, "dt", dt)
	})
}

func (l *Loop) State() State {
	return l.state
}

// Ticks returns the number of frames run.
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// Steps returns the number of physics substeps taken.
func (l *Loop) Steps() uint64 {
	return l.steps
}

func (l *Loop) SyncOrder() SyncOrder {
	return l.cfg.Order
}

// SetSyncOrder changes the sync order from the next tick on.
func (l *Loop) SetSyncOrder(o SyncOrder) {
	l.cfg.Order = o
}

// Package hitsound plays a sound when bodies collide hard enough.
package hitsound

import (
	"fmt"
	"log/slog"

	"physics-playground/internal/physics"
)

const (
	// DefaultThreshold is the impact speed below which collisions are silent.
	// Resting and sliding contacts stay below it.
	DefaultThreshold = 1.5
	// DefaultVolumeScale is the impact speed that plays at full volume.
	DefaultVolumeScale = 10
)

// Player is a single shared sound. ResetAndPlay rewinds it, sets the volume (0-1)
// and starts playback. A call while the sound is still playing restarts it.
type Player interface {
	ResetAndPlay(volume float32) error
}

// Reporter receives playback failures.
type Reporter interface {
	Report(err error, msg string)
}

// Trigger turns collision events into hit sounds.
// A Trigger is meant to be used from the simulation goroutine only.
type Trigger struct {
	Threshold   float32
	VolumeScale float32

	player     Player
	reporter   Reporter
	played     int
	suppressed int
	failed     int
}

// New returns a trigger with the default threshold and volume scale.
func New(player Player, reporter Reporter) *Trigger {
	return &Trigger{
		Threshold:   DefaultThreshold,
		VolumeScale: DefaultVolumeScale,
		player:      player,
		reporter:    reporter,
	}
}

// Handle reacts to a collision event.
func (t *Trigger) Handle(c physics.Collision) {
	t.Play(c.ImpactVelocityAlongNormal())
}

// Play plays the hit sound for an impact of the given speed.
// Soft impacts are ignored. Playback errors go to the reporter and are not returned.
func (t *Trigger) Play(speed float32) {
	if speed < t.Threshold {
		t.suppressed++
		return
	}
	if err := t.resetAndPlay(t.Volume(speed)); err != nil {
		t.failed++
		t.reporter.Report(err, "Error playing sound")
		return
	}
	t.played++
}

// Volume returns the playback volume for an impact speed: linear up to VolumeScale, then 1.
func (t *Trigger) Volume(speed float32) float32 {
	scale := t.VolumeScale
	if scale <= 0 {
		scale = DefaultVolumeScale
	}
	return min(max(speed/scale, 0), 1)
}

func (t *Trigger) resetAndPlay(volume float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("player: %v", r)
		}
	}()
	return t.player.ResetAndPlay(volume)
}

// Played returns the number of sounds started.
func (t *Trigger) Played() int { return t.played }

// Suppressed returns the number of collisions below the threshold.
func (t *Trigger) Suppressed() int { return t.suppressed }

// Failed returns the number of failed playback attempts.
func (t *Trigger) Failed() int { return t.failed }

// LogPlayer is a Player without audio output which logs each hit. It is used when
// there is no audio device, e.g. in headless mode.
type LogPlayer struct {
	Logger *slog.Logger
}

func (p LogPlayer) ResetAndPlay(volume float32) error {
	l := p.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Debug("hit", "volume", volume)
	return nil
}

// PlayerOrLog returns p when it loaded without error. Otherwise it logs one warning
// and returns a LogPlayer so hits are still traced instead of failing on every play.
func PlayerOrLog(p Player, err error) Player {
	if err == nil && p != nil {
		return p
	}
	slog.Warn("Hit sound not available, playing silently", "error", err)
	return LogPlayer{}
}

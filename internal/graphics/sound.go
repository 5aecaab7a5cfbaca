package graphics

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ErrAudioNotReady  = errors.New("audio device not ready")
	ErrSoundNotLoaded = errors.New("sound not loaded")
)

// Sound is a single sound clip which restarts from the beginning each time it is played.
type Sound struct {
	path   string
	sound  rl.Sound
	loaded bool
}

// LoadSound loads the clip at path. The audio device must be initialized.
// It always returns a Sound; when loading failed, playing it returns an error.
func LoadSound(path string) (*Sound, error) {
	s := &Sound{path: path}
	if !rl.IsAudioDeviceReady() {
		return s, ErrAudioNotReady
	}
	s.sound = rl.LoadSound(path)
	if !rl.IsSoundValid(s.sound) {
		return s, fmt.Errorf("load %s: %w", path, ErrSoundNotLoaded)
	}
	s.loaded = true
	return s, nil
}

// ResetAndPlay rewinds the clip, sets its volume (0-1) and plays it.
func (s *Sound) ResetAndPlay(volume float32) error {
	if !s.loaded {
		return fmt.Errorf("play %s: %w", s.path, ErrSoundNotLoaded)
	}
	if !rl.IsAudioDeviceReady() {
		return ErrAudioNotReady
	}
	rl.StopSound(s.sound)
	rl.SetSoundVolume(s.sound, min(max(volume, 0), 1))
	rl.PlaySound(s.sound)
	return nil
}

// Unload frees the clip.
func (s *Sound) Unload() {
	if s.loaded {
		rl.UnloadSound(s.sound)
		s.loaded = false
	}
}

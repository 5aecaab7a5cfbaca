package engineconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"physics-playground/internal/frameloop"
	"physics-playground/internal/physics"
)

// DefaultPath is the path to the playground config file, relative to the process working directory.
const DefaultPath = "config/playground.yaml"

// Config holds all settings of the playground. Persisted across runs.
type Config struct {
	Window  Window  `yaml:"window"`
	Physics Physics `yaml:"physics"`
	Audio   Audio   `yaml:"audio"`
	Loop    Loop    `yaml:"loop"`
	Scene   Scene   `yaml:"scene"`
	Debug   Debug   `yaml:"debug"`
}

type Window struct {
	Width     int32  `yaml:"width"`
	Height    int32  `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int32  `yaml:"target_fps"`
}

type Physics struct {
	Gravity         [3]float32 `yaml:"gravity,flow"`
	FixedStep       float32    `yaml:"fixed_step"`
	MaxSubSteps     int        `yaml:"max_sub_steps"`
	MaxDelta        float32    `yaml:"max_delta"`
	Iterations      int        `yaml:"iterations"`
	AllowSleep      bool       `yaml:"allow_sleep"`
	SleepSpeedLimit float32    `yaml:"sleep_speed_limit"`
	SleepTimeLimit  float32    `yaml:"sleep_time_limit"`
	Contact         Contact    `yaml:"contact"`
}

// Contact is the default contact material between any two bodies.
type Contact struct {
	Friction    float32 `yaml:"friction"`
	Restitution float32 `yaml:"restitution"`
}

type Audio struct {
	// HitSound is the path of the sound played on impacts. Empty disables audio.
	HitSound    string  `yaml:"hit_sound"`
	Threshold   float32 `yaml:"threshold"`
	VolumeScale float32 `yaml:"volume_scale"`
}

type Loop struct {
	// Sync is "before" or "after" the physics step.
	Sync string `yaml:"sync"`
}

// Scene configures the objects spawned at startup.
type Scene struct {
	SphereGrid   int     `yaml:"sphere_grid"`
	BoxGrid      int     `yaml:"box_grid"`
	SphereRadius float32 `yaml:"sphere_radius"`
	BoxSize      float32 `yaml:"box_size"`
	SpawnExtent  float32 `yaml:"spawn_extent"`
}

// Debug holds the debug overlay preferences.
type Debug struct {
	ShowFPS      bool `yaml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc"`
	PanelOpen    bool `yaml:"panel_open"`
}

// Default returns the default configuration: a 2x2x2 grid of spheres over a floor,
// cannon-like physics at 60 Hz and debug overlays off.
func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "Physics Playground",
			TargetFPS: 60,
		},
		Physics: Physics{
			Gravity:         [3]float32{0, -9.82, 0},
			FixedStep:       1.0 / 60,
			MaxSubSteps:     3,
			MaxDelta:        0.1,
			Iterations:      10,
			AllowSleep:      true,
			SleepSpeedLimit: 0.1,
			SleepTimeLimit:  1,
			Contact: Contact{
				Friction:    0.1,
				Restitution: 0.7,
			},
		},
		Audio: Audio{
			HitSound:    "assets/sounds/hit.wav",
			Threshold:   1.5,
			VolumeScale: 10,
		},
		Loop: Loop{Sync: "before"},
		// No default box grid: it would occupy the same cells as the spheres.
		Scene: Scene{
			SphereGrid:   2,
			SphereRadius: 0.5,
			BoxSize:      1,
			SpawnExtent:  2.5,
		},
	}
}

// Load reads the config from path. A missing file yields Default().
// Keys missing from the file keep their default value.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	p := c.Physics
	switch {
	case p.FixedStep <= 0:
		return fmt.Errorf("physics.fixed_step must be positive: %v", p.FixedStep)
	case p.MaxSubSteps < 1:
		return fmt.Errorf("physics.max_sub_steps must be at least 1: %d", p.MaxSubSteps)
	case p.Iterations < 1:
		return fmt.Errorf("physics.iterations must be at least 1: %d", p.Iterations)
	case p.Contact.Friction < 0:
		return fmt.Errorf("physics.contact.friction must not be negative: %v", p.Contact.Friction)
	case p.Contact.Restitution < 0 || p.Contact.Restitution > 1:
		return fmt.Errorf("physics.contact.restitution must be within [0, 1]: %v", p.Contact.Restitution)
	case c.Audio.VolumeScale <= 0:
		return fmt.Errorf("audio.volume_scale must be positive: %v", c.Audio.VolumeScale)
	case c.Scene.SphereGrid < 0 || c.Scene.BoxGrid < 0:
		return fmt.Errorf("scene grids must not be negative")
	case c.Scene.SphereRadius <= 0 || c.Scene.BoxSize <= 0:
		return fmt.Errorf("scene object sizes must be positive")
	}
	if _, err := frameloop.ParseSyncOrder(c.Loop.Sync); err != nil {
		return fmt.Errorf("loop.sync: %w", err)
	}
	return nil
}

// GravityVec returns the gravity vector.
func (p Physics) GravityVec() physics.Vec3 {
	return physics.V(p.Gravity[0], p.Gravity[1], p.Gravity[2])
}

// Settings returns the solver settings.
func (p Physics) Settings() physics.Settings {
	var s physics.Settings
	if err := copier.Copy(&s, &p); err != nil {
		return physics.DefaultSettings()
	}
	return s
}

// ContactMaterial returns the default contact material.
func (p Physics) ContactMaterial() physics.ContactMaterial {
	var m physics.ContactMaterial
	if err := copier.Copy(&m, &p.Contact); err != nil {
		return physics.DefaultContactMaterial()
	}
	return m
}

// FrameLoop returns the frame loop timing.
func (c Config) FrameLoop() frameloop.Config {
	var fc frameloop.Config
	if err := copier.Copy(&fc, &c.Physics); err != nil {
		fc = frameloop.DefaultConfig()
	}
	fc.Order, _ = frameloop.ParseSyncOrder(c.Loop.Sync)
	return fc
}

package engineconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics-playground/internal/engineconfig"
	"physics-playground/internal/frameloop"
	"physics-playground/internal/physics"
)

func TestLoad(t *testing.T) {
	t.Run("should return defaults when file is missing", func(t *testing.T) {
		c, err := engineconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, engineconfig.Default(), c)
	})
	t.Run("should keep defaults for missing keys", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "c.yaml")
		data := "physics:\n  gravity: [0, -1, 0]\n  contact:\n    restitution: 0.3\nloop:\n  sync: after\n"
		require.NoError(t, os.WriteFile(p, []byte(data), 0644))
		c, err := engineconfig.Load(p)
		require.NoError(t, err)
		assert.Equal(t, physics.V(0, -1, 0), c.Physics.GravityVec())
		assert.Equal(t, float32(0.3), c.Physics.Contact.Restitution)
		assert.Equal(t, float32(0.1), c.Physics.Contact.Friction)
		assert.Equal(t, 3, c.Physics.MaxSubSteps)
		assert.Equal(t, "after", c.Loop.Sync)
	})
	t.Run("should report parse errors", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(p, []byte("physics: [\n"), 0644))
		_, err := engineconfig.Load(p)
		assert.Error(t, err)
	})
	t.Run("should report invalid values", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(p, []byte("loop:\n  sync: sideways\n"), 0644))
		_, err := engineconfig.Load(p)
		assert.ErrorContains(t, err, "loop.sync")
	})
}

func TestSave(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config", "playground.yaml")
	c := engineconfig.Default()
	c.Debug.ShowFPS = true
	c.Scene.BoxGrid = 3
	require.NoError(t, engineconfig.Save(p, c))
	got, err := engineconfig.Load(p)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*engineconfig.Config){
		"fixed step":   func(c *engineconfig.Config) { c.Physics.FixedStep = 0 },
		"substeps":     func(c *engineconfig.Config) { c.Physics.MaxSubSteps = 0 },
		"iterations":   func(c *engineconfig.Config) { c.Physics.Iterations = 0 },
		"friction":     func(c *engineconfig.Config) { c.Physics.Contact.Friction = -1 },
		"restitution":  func(c *engineconfig.Config) { c.Physics.Contact.Restitution = 2 },
		"volume scale": func(c *engineconfig.Config) { c.Audio.VolumeScale = 0 },
		"grid":         func(c *engineconfig.Config) { c.Scene.BoxGrid = -1 },
		"radius":       func(c *engineconfig.Config) { c.Scene.SphereRadius = 0 },
	}
	assert.NoError(t, engineconfig.Default().Validate())
	for name, mutate := range cases {
		c := engineconfig.Default()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestConversions(t *testing.T) {
	c := engineconfig.Default()
	c.Physics.AllowSleep = false
	c.Physics.Iterations = 7
	c.Physics.Contact.Friction = 0.4
	c.Loop.Sync = "after"

	s := c.Physics.Settings()
	assert.False(t, s.AllowSleep)
	assert.Equal(t, 7, s.Iterations)
	assert.Equal(t, float32(0.1), s.SleepSpeedLimit)

	m := c.Physics.ContactMaterial()
	assert.Equal(t, physics.ContactMaterial{Friction: 0.4, Restitution: 0.7}, m)

	fc := c.FrameLoop()
	assert.Equal(t, frameloop.Config{
		FixedStep:   1.0 / 60,
		MaxSubSteps: 3,
		MaxDelta:    0.1,
		Order:       frameloop.SyncAfterStep,
	}, fc)
}

func TestDefaultFiles(t *testing.T) {
	root := filepath.Join("..", "..")
	t.Run("should ship the default hit sound", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(root, engineconfig.Default().Audio.HitSound))
		assert.NoError(t, err)
	})
	t.Run("should ship a config file that loads", func(t *testing.T) {
		c, err := engineconfig.Load(filepath.Join(root, engineconfig.DefaultPath))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, c.Audio.HitSound))
		assert.NoError(t, err)
	})
}

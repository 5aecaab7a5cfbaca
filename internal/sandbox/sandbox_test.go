package sandbox_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics-playground/internal/engineconfig"
	"physics-playground/internal/frameloop"
	"physics-playground/internal/physics"
	"physics-playground/internal/sandbox"
)

type fixedClock float32

func (c fixedClock) Delta() float32 { return float32(c) }

type player struct {
	volumes []float32
	err     error
}

func (p *player) ResetAndPlay(v float32) error {
	p.volumes = append(p.volumes, v)
	return p.err
}

type reporter struct {
	errs []error
}

func (r *reporter) Report(err error, _ string) {
	r.errs = append(r.errs, err)
}

type testApp struct {
	*sandbox.App
	scheduler *frameloop.Manual
	player    *player
	reporter  *reporter
}

func newApp(t *testing.T, cfg engineconfig.Config) testApp {
	t.Helper()
	s := &frameloop.Manual{}
	p := &player{}
	r := &reporter{}
	a, err := sandbox.New(cfg, sandbox.Deps{
		Player:    p,
		Reporter:  r,
		Scheduler: s,
		Clock:     fixedClock(1.0 / 60),
		Rand:      rand.New(rand.NewPCG(7, 7)),
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return testApp{App: a, scheduler: s, player: p, reporter: r}
}

func (a testApp) frames(n int) {
	for range n {
		a.scheduler.Fire()
	}
}

func TestApp(t *testing.T) {
	t.Run("should settle a dropped sphere on the floor and play a hit", func(t *testing.T) {
		cfg := engineconfig.Default()
		cfg.Scene.SphereGrid = 0
		a := newApp(t, cfg)
		require.NoError(t, a.Populate())
		_, err := a.Factory.Sphere(0.5, physics.V(0, 3, 0))
		require.NoError(t, err)
		require.NoError(t, a.Start())
		assert.Equal(t, 1, a.Registry.Len())
		assert.Equal(t, 2, a.World.Len())

		a.frames(300)

		for e := range a.Registry.All() {
			assert.InDelta(t, 0.5, e.Mesh.Position.Y, 0.02)
			assert.InDelta(t, 0.5, e.Body.Position.Y, 0.02)
		}
		assert.GreaterOrEqual(t, a.Trigger.Played(), 1)
		assert.NotEmpty(t, a.player.volumes)
		assert.EqualValues(t, 300, a.Loop.Ticks())
	})
	t.Run("should populate the default grid", func(t *testing.T) {
		a := newApp(t, engineconfig.Default())
		require.NoError(t, a.Populate())
		assert.Equal(t, 8, a.Registry.Len())
		assert.Equal(t, 9, a.Scene.Len())
	})
	t.Run("should populate a box grid instead of spheres when configured", func(t *testing.T) {
		cfg := engineconfig.Default()
		assert.Zero(t, cfg.Scene.BoxGrid)
		cfg.Scene.SphereGrid = 0
		cfg.Scene.BoxGrid = 2
		a := newApp(t, cfg)
		require.NoError(t, a.Populate())
		assert.Equal(t, 8, a.Registry.Len())
		for e := range a.Registry.All() {
			assert.Equal(t, physics.KindBox, e.Body.Shape.Kind())
		}
	})
	t.Run("should clear objects but keep the floor", func(t *testing.T) {
		a := newApp(t, engineconfig.Default())
		require.NoError(t, a.Populate())
		require.NoError(t, a.Start())
		a.frames(10)
		assert.Equal(t, 8, a.Clear())
		assert.Equal(t, 0, a.Registry.Len())
		assert.Equal(t, 1, a.World.Len())
		assert.Equal(t, 1, a.Scene.Len())
		a.frames(10)
	})
	t.Run("should keep running when playback fails", func(t *testing.T) {
		cfg := engineconfig.Default()
		cfg.Scene.SphereGrid = 1
		a := newApp(t, cfg)
		a.player.err = errors.New("no device")
		require.NoError(t, a.Populate())
		require.NoError(t, a.Start())
		a.frames(120)
		assert.NotEmpty(t, a.reporter.errs)
		assert.Equal(t, len(a.reporter.errs), a.Trigger.Failed())
		assert.EqualValues(t, 120, a.Loop.Ticks())
	})
	t.Run("should reject invalid config", func(t *testing.T) {
		cfg := engineconfig.Default()
		cfg.Physics.FixedStep = 0
		_, err := sandbox.New(cfg, sandbox.Deps{})
		assert.Error(t, err)
	})
	t.Run("should require platform deps", func(t *testing.T) {
		_, err := sandbox.New(engineconfig.Default(), sandbox.Deps{})
		assert.Error(t, err)
	})
}

func TestApp_Commands(t *testing.T) {
	t.Run("should run queued scripts at flush", func(t *testing.T) {
		cfg := engineconfig.Default()
		cfg.Scene.SphereGrid = 0
		a := newApp(t, cfg)
		a.Enqueue("sphere; box; box -at -y 3")
		assert.Equal(t, 0, a.Registry.Len())
		assert.Equal(t, 0, a.Flush())
		assert.Equal(t, 3, a.Registry.Len())
		a.Enqueue("clear")
		a.Flush()
		assert.Equal(t, 0, a.Registry.Len())
	})
	t.Run("should spawn grids", func(t *testing.T) {
		cfg := engineconfig.Default()
		cfg.Scene.SphereGrid = 0
		a := newApp(t, cfg)
		require.NoError(t, a.Commands.Script("grid -shape box -side 3"))
		assert.Equal(t, 27, a.Registry.Len())
	})
	t.Run("should switch sync order", func(t *testing.T) {
		a := newApp(t, engineconfig.Default())
		require.NoError(t, a.Commands.Script("sync -order after"))
		assert.Equal(t, frameloop.SyncAfterStep, a.Loop.SyncOrder())
	})
	t.Run("should report failing scripts", func(t *testing.T) {
		a := newApp(t, engineconfig.Default())
		a.Enqueue("explode")
		a.Enqueue("stats")
		assert.Equal(t, 1, a.Flush())
		assert.Len(t, a.reporter.errs, 1)
	})
}

package frameloop_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics-playground/internal/frameloop"
	"physics-playground/internal/physics"
)

type fakeClock struct {
	deltas []float32
}

func (c *fakeClock) Delta() float32 {
	if len(c.deltas) == 0 {
		return 0
	}
	d := c.deltas[0]
	c.deltas = c.deltas[1:]
	return d
}

type recorder struct {
	calls    []string
	fixed    []float32
	elapsed  []float32
	subSteps []int
}

func (r *recorder) Step(fixed, elapsed float32, maxSubSteps int) int {
	r.calls = append(r.calls, "step")
	r.fixed = append(r.fixed, fixed)
	r.elapsed = append(r.elapsed, elapsed)
	r.subSteps = append(r.subSteps, maxSubSteps)
	return 1
}

func (r *recorder) Sync()             { r.calls = append(r.calls, "sync") }
func (r *recorder) Update(dt float32) { r.calls = append(r.calls, "camera") }
func (r *recorder) Render()           { r.calls = append(r.calls, "render") }

func newLoop(cfg frameloop.Config, clock frameloop.Clock) (*frameloop.Loop, *frameloop.Manual, *recorder) {
	s := &frameloop.Manual{}
	r := &recorder{}
	l := frameloop.New(cfg, frameloop.Deps{
		Scheduler: s,
		Clock:     clock,
		World:     r,
		Syncer:    r,
		Camera:    r,
		Renderer:  r,
	})
	return l, s, r
}

func TestLoop(t *testing.T) {
	t.Run("should be idle until started", func(t *testing.T) {
		l, s, r := newLoop(frameloop.DefaultConfig(), &fakeClock{})
		assert.Equal(t, frameloop.Idle, l.State())
		assert.False(t, s.Pending())
		assert.Empty(t, r.calls)
	})
	t.Run("should request a frame on start and re-request after each tick", func(t *testing.T) {
		l, s, _ := newLoop(frameloop.DefaultConfig(), &fakeClock{})
		require.NoError(t, l.Start())
		assert.Equal(t, frameloop.Scheduled, l.State())
		assert.True(t, s.Pending())
		for range 5 {
			assert.True(t, s.Fire())
			assert.True(t, s.Pending())
		}
		assert.EqualValues(t, 5, l.Ticks())
	})
	t.Run("should not start twice", func(t *testing.T) {
		l, _, _ := newLoop(frameloop.DefaultConfig(), &fakeClock{})
		require.NoError(t, l.Start())
		assert.ErrorIs(t, l.Start(), frameloop.ErrAlreadyStarted)
	})
	t.Run("should sync before stepping by default", func(t *testing.T) {
		l, _, r := newLoop(frameloop.DefaultConfig(), &fakeClock{})
		l.Tick()
		assert.Equal(t, []string{"camera", "sync", "step", "render"}, r.calls)
	})
	t.Run("should sync after stepping when configured", func(t *testing.T) {
		cfg := frameloop.DefaultConfig()
		cfg.Order = frameloop.SyncAfterStep
		l, _, r := newLoop(cfg, &fakeClock{})
		l.Tick()
		assert.Equal(t, []string{"camera", "step", "sync", "render"}, r.calls)
	})
	t.Run("should switch sync order at runtime", func(t *testing.T) {
		l, _, r := newLoop(frameloop.DefaultConfig(), &fakeClock{})
		l.SetSyncOrder(frameloop.SyncAfterStep)
		l.Tick()
		assert.Equal(t, frameloop.SyncAfterStep, l.SyncOrder())
		assert.Equal(t, []string{"camera", "step", "sync", "render"}, r.calls)
	})
	t.Run("should pass the nominal step and each frame delta to the world", func(t *testing.T) {
		deltas := []float32{0.01, 0.02, 0.03}
		l, s, r := newLoop(frameloop.DefaultConfig(), &fakeClock{deltas: slices.Clone(deltas)})
		require.NoError(t, l.Start())
		for range 3 {
			s.Fire()
		}
		assert.Equal(t, []float32{1.0 / 60, 1.0 / 60, 1.0 / 60}, r.fixed)
		assert.Equal(t, deltas, r.elapsed)
		assert.Equal(t, []int{3, 3, 3}, r.subSteps)
	})
	t.Run("should clamp long frames", func(t *testing.T) {
		l, _, r := newLoop(frameloop.DefaultConfig(), &fakeClock{deltas: []float32{5, -1}})
		l.Tick()
		l.Tick()
		assert.Equal(t, []float32{0.1, 0}, r.elapsed)
	})
	t.Run("should run without camera and renderer", func(t *testing.T) {
		r := &recorder{}
		l := frameloop.New(frameloop.DefaultConfig(), frameloop.Deps{
			Scheduler: &frameloop.Manual{},
			Clock:     &fakeClock{},
			World:     r,
			Syncer:    r,
		})
		l.Tick()
		assert.Equal(t, []string{"sync", "step"}, r.calls)
	})
}

func TestLoop_WithWorld(t *testing.T) {
	t.Run("should step once per nominal frame", func(t *testing.T) {
		const d = float32(1.0 / 60)
		w := physics.NewWorld()
		r := &recorder{}
		s := &frameloop.Manual{}
		l := frameloop.New(frameloop.DefaultConfig(), frameloop.Deps{
			Scheduler: s,
			Clock:     &fakeClock{deltas: []float32{d, d, d}},
			World:     w,
			Syncer:    r,
		})
		require.NoError(t, l.Start())
		for range 3 {
			s.Fire()
		}
		assert.EqualValues(t, 3, w.StepCount())
		assert.EqualValues(t, 3, l.Steps())
	})
	t.Run("should not step on a zero delta", func(t *testing.T) {
		w := physics.NewWorld()
		l := frameloop.New(frameloop.DefaultConfig(), frameloop.Deps{
			Scheduler: &frameloop.Manual{},
			Clock:     &fakeClock{deltas: []float32{0}},
			World:     w,
			Syncer:    &recorder{},
		})
		l.Tick()
		assert.EqualValues(t, 0, w.StepCount())
		assert.EqualValues(t, 1, l.Ticks())
	})
}

func TestParseSyncOrder(t *testing.T) {
	cases := []struct {
		in   string
		want frameloop.SyncOrder
		ok   bool
	}{
		{"", frameloop.SyncBeforeStep, true},
		{"before", frameloop.SyncBeforeStep, true},
		{"After", frameloop.SyncAfterStep, true},
		{"later", 0, false},
	}
	for _, tc := range cases {
		got, err := frameloop.ParseSyncOrder(tc.in)
		if tc.ok {
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got.String(), tc.want.String())
		} else {
			assert.Error(t, err)
		}
	}
}

func TestSystemClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := frameloop.NewClockWithFunc(func() time.Time { return now })
	assert.Equal(t, float32(0), c.Delta())
	now = now.Add(250 * time.Millisecond)
	assert.InDelta(t, 0.25, c.Delta(), 1e-6)
	now = now.Add(time.Second)
	c.Reset()
	assert.Equal(t, float32(0), c.Delta())
}

func TestManual(t *testing.T) {
	var s frameloop.Manual
	assert.False(t, s.Fire())
	var got []int
	s.RequestFrame(func() { got = append(got, 1) })
	s.RequestFrame(func() { got = append(got, 2) })
	assert.True(t, s.Fire())
	assert.False(t, s.Fire())
	assert.Equal(t, []int{2}, got)
}

func TestHeadless(t *testing.T) {
	t.Run("should stop at the frame limit", func(t *testing.T) {
		h := &frameloop.Headless{Hz: 1000, Limit: 5}
		var between int
		h.BetweenFrames = func() { between++ }
		l := frameloop.New(frameloop.DefaultConfig(), frameloop.Deps{
			Scheduler: h,
			Clock:     &fakeClock{},
			World:     &recorder{},
			Syncer:    &recorder{},
		})
		require.NoError(t, l.Start())
		n := h.Run(context.Background())
		assert.Equal(t, 5, n)
		assert.EqualValues(t, 5, l.Ticks())
		assert.Equal(t, 5, between)
	})
	t.Run("should stop when the context is done", func(t *testing.T) {
		h := &frameloop.Headless{Hz: 1000}
		l := frameloop.New(frameloop.DefaultConfig(), frameloop.Deps{
			Scheduler: h,
			Clock:     &fakeClock{},
			World:     &recorder{},
			Syncer:    &recorder{},
		})
		require.NoError(t, l.Start())
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		h.Run(ctx)
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	})
	t.Run("should stop when nothing is scheduled", func(t *testing.T) {
		h := &frameloop.Headless{Hz: 1000}
		assert.Equal(t, 0, h.Run(context.Background()))
	})
}

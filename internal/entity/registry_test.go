package entity_test

import (
	"slices"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"physics-playground/internal/entity"
	"physics-playground/internal/physics"
	"physics-playground/internal/scene"
)

type fixture struct {
	world    *physics.World
	scene    *scene.Scene
	registry *entity.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{world: physics.NewWorld(), scene: scene.New()}
	f.registry = entity.New(f.world, f.scene)
	t.Cleanup(f.registry.Close)
	return f
}

func (f fixture) spawn(t *testing.T, y float32) entity.Tracked {
	t.Helper()
	mesh := scene.NewMesh(scene.Sphere)
	body := physics.NewBody(physics.Sphere{Radius: 0.5}, 1, physics.V(0, y, 0))
	f.scene.AddMesh(mesh)
	f.world.AddBody(body)
	id, err := f.registry.Spawn(mesh, body)
	require.NoError(t, err)
	return entity.Tracked{ID: id, Mesh: mesh, Body: body}
}

func TestRegistry_Spawn(t *testing.T) {
	t.Run("should visit entities in insertion order", func(t *testing.T) {
		f := newFixture(t)
		a := f.spawn(t, 1)
		b := f.spawn(t, 2)
		c := f.spawn(t, 3)
		got := slices.Collect(f.registry.All())
		assert.Equal(t, []entity.Tracked{a, b, c}, got)
		assert.Equal(t, 3, f.registry.Len())
	})
	t.Run("should allow restarting the traversal", func(t *testing.T) {
		f := newFixture(t)
		f.spawn(t, 1)
		f.spawn(t, 2)
		first := slices.Collect(f.registry.All())
		second := slices.Collect(f.registry.All())
		assert.Equal(t, first, second)
	})
	t.Run("should stop the traversal early", func(t *testing.T) {
		f := newFixture(t)
		a := f.spawn(t, 1)
		f.spawn(t, 2)
		var got []entity.Tracked
		for e := range f.registry.All() {
			got = append(got, e)
			break
		}
		assert.Equal(t, []entity.Tracked{a}, got)
	})
	t.Run("should visit every entity when one is removed during the traversal", func(t *testing.T) {
		f := newFixture(t)
		a := f.spawn(t, 1)
		b := f.spawn(t, 2)
		c := f.spawn(t, 3)
		var got []entity.Tracked
		for e := range f.registry.All() {
			got = append(got, e)
			if e.ID == a.ID {
				require.NoError(t, f.registry.Remove(a.ID))
			}
		}
		assert.Equal(t, []entity.Tracked{a, b, c}, got)
		assert.Equal(t, []entity.Tracked{b, c}, slices.Collect(f.registry.All()))
	})
	t.Run("should accept a body before it is added to the world", func(t *testing.T) {
		f := newFixture(t)
		body := physics.NewBody(physics.Cube(1), 1, physics.Vec3{})
		_, err := f.registry.Spawn(scene.NewMesh(scene.Box), body)
		assert.NoError(t, err)
	})
	t.Run("should reject incomplete entities", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.registry.Spawn(nil, physics.NewBody(physics.Cube(1), 1, physics.Vec3{}))
		assert.ErrorIs(t, err, entity.ErrInvalidEntity)
		_, err = f.registry.Spawn(scene.NewMesh(scene.Box), nil)
		assert.ErrorIs(t, err, entity.ErrInvalidEntity)
	})
	t.Run("should reject tracking a body twice", func(t *testing.T) {
		f := newFixture(t)
		a := f.spawn(t, 1)
		_, err := f.registry.Spawn(scene.NewMesh(scene.Sphere), a.Body)
		assert.ErrorIs(t, err, entity.ErrAlreadyTracked)
	})
}

func TestRegistry_Clear(t *testing.T) {
	t.Run("should detach everything and empty the registry", func(t *testing.T) {
		f := newFixture(t)
		floor := physics.NewBody(physics.Plane{}, 0, physics.Vec3{})
		f.world.AddBody(floor)
		var tracked []entity.Tracked
		for i := range 4 {
			e := f.spawn(t, float32(i))
			f.registry.Subscribe(e.Body, func(physics.Collision) {})
			tracked = append(tracked, e)
		}
		n := f.registry.Clear()
		assert.Equal(t, 4, n)
		assert.Equal(t, 0, f.registry.Len())
		assert.Empty(t, slices.Collect(f.registry.All()))
		for _, e := range tracked {
			assert.False(t, f.world.HasBody(e.Body))
			assert.False(t, f.scene.Contains(e.Mesh))
			assert.False(t, f.registry.HasHandler(e.Body))
		}
		assert.Equal(t, []*physics.Body{floor}, f.world.Bodies())
	})
	t.Run("should track again after clear", func(t *testing.T) {
		f := newFixture(t)
		f.spawn(t, 1)
		f.registry.Clear()
		e := f.spawn(t, 2)
		assert.Equal(t, []entity.Tracked{e}, slices.Collect(f.registry.All()))
	})
}

func TestRegistry_Remove(t *testing.T) {
	t.Run("should remove a single entity", func(t *testing.T) {
		f := newFixture(t)
		a := f.spawn(t, 1)
		b := f.spawn(t, 2)
		require.NoError(t, f.registry.Remove(a.ID))
		assert.Equal(t, []entity.Tracked{b}, slices.Collect(f.registry.All()))
		assert.False(t, f.world.HasBody(a.Body))
		assert.False(t, f.scene.Contains(a.Mesh))
		_, ok := f.registry.Get(a.ID)
		assert.False(t, ok)
	})
	t.Run("should report unknown entities", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.registry.Remove(42), entity.ErrUnknownEntity)
	})
}

func TestRegistry_Sync(t *testing.T) {
	t.Run("should copy position and orientation from body to mesh", func(t *testing.T) {
		f := newFixture(t)
		e := f.spawn(t, 3)
		e.Body.Position = physics.V(1, 2, 3)
		e.Body.Quaternion = physics.QuatFromEuler(0, math32.Pi/4, 0)
		f.registry.Sync()
		assert.Equal(t, physics.V(1, 2, 3), e.Mesh.Position)
		assert.Equal(t, e.Body.Quaternion, e.Mesh.Orientation)
	})
	t.Run("should never write the mesh transform back to the body", func(t *testing.T) {
		f := newFixture(t)
		e := f.spawn(t, 3)
		e.Mesh.SetPosition(physics.V(9, 9, 9))
		f.registry.Sync()
		assert.Equal(t, physics.V(0, 3, 0), e.Body.Position)
		assert.Equal(t, physics.V(0, 3, 0), e.Mesh.Position)
	})
}

func TestRegistry_Dispatch(t *testing.T) {
	t.Run("should call the handler of a colliding body", func(t *testing.T) {
		f := newFixture(t)
		floor := physics.NewBody(physics.Plane{}, 0, physics.Vec3{})
		floor.Quaternion = physics.QuatFromEuler(-math32.Pi/2, 0, 0)
		f.world.AddBody(floor)
		e := f.spawn(t, 3)
		var hits []float32
		f.registry.Subscribe(e.Body, func(c physics.Collision) {
			hits = append(hits, c.ImpactVelocityAlongNormal())
		})
		for range 90 {
			f.world.StepOnce(1.0 / 60)
		}
		require.NotEmpty(t, hits)
		assert.Greater(t, hits[0], float32(5))
	})
	t.Run("should not call handlers after unsubscribe", func(t *testing.T) {
		f := newFixture(t)
		a := f.spawn(t, 0)
		b := f.spawn(t, 0.5)
		var calls int
		f.registry.Subscribe(a.Body, func(physics.Collision) { calls++ })
		f.registry.Unsubscribe(a.Body)
		f.world.StepOnce(1.0 / 60)
		assert.Equal(t, 0, calls)
		assert.False(t, f.registry.HasHandler(b.Body))
	})
	t.Run("should call handlers of both bodies", func(t *testing.T) {
		f := newFixture(t)
		f.world.SetGravity(physics.Vec3{})
		a := f.spawn(t, 0)
		b := f.spawn(t, 0.5)
		var got []*physics.Body
		f.registry.Subscribe(a.Body, func(physics.Collision) { got = append(got, a.Body) })
		f.registry.Subscribe(b.Body, func(physics.Collision) { got = append(got, b.Body) })
		f.world.StepOnce(1.0 / 60)
		assert.ElementsMatch(t, []*physics.Body{a.Body, b.Body}, got)
	})
	t.Run("should stop dispatching after close", func(t *testing.T) {
		f := newFixture(t)
		f.world.SetGravity(physics.Vec3{})
		a := f.spawn(t, 0)
		f.spawn(t, 0.5)
		var calls int
		f.registry.Subscribe(a.Body, func(physics.Collision) { calls++ })
		f.registry.Close()
		f.world.StepOnce(1.0 / 60)
		assert.Equal(t, 0, calls)
	})
}

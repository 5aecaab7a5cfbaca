package scene_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"physics-playground/internal/physics"
	"physics-playground/internal/scene"
)

func TestScene(t *testing.T) {
	t.Run("should return meshes in insertion order", func(t *testing.T) {
		s := scene.New()
		a, b := scene.NewMesh(scene.Sphere), scene.NewMesh(scene.Box)
		s.AddMesh(a)
		s.AddMesh(b)
		assert.Equal(t, []*scene.Mesh{a, b}, slices.Collect(s.Meshes()))
	})
	t.Run("should not add a mesh twice", func(t *testing.T) {
		s := scene.New()
		a := scene.NewMesh(scene.Sphere)
		s.AddMesh(a)
		s.AddMesh(a)
		assert.Equal(t, 1, s.Len())
	})
	t.Run("should remove meshes", func(t *testing.T) {
		s := scene.New()
		a, b := scene.NewMesh(scene.Sphere), scene.NewMesh(scene.Box)
		s.AddMesh(a)
		s.AddMesh(b)
		s.RemoveMesh(a)
		s.RemoveMesh(scene.NewMesh(scene.Plane))
		assert.False(t, s.Contains(a))
		assert.Equal(t, []*scene.Mesh{b}, slices.Collect(s.Meshes()))
	})
}

func TestMesh(t *testing.T) {
	m := scene.NewMesh(scene.Box)
	assert.Equal(t, physics.IdentityQuat(), m.Orientation)
	m.SetScalar(0.5)
	assert.Equal(t, physics.V(0.5, 0.5, 0.5), m.Scale)
	m.SetPosition(physics.V(1, 2, 3))
	assert.Equal(t, physics.V(1, 2, 3), m.Position)
	assert.Equal(t, "box", m.Kind.String())
}

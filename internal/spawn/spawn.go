// Package spawn creates playground objects: a mesh and a body, registered and wired
// to the hit sound.
package spawn

import (
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"physics-playground/internal/entity"
	"physics-playground/internal/hitsound"
	"physics-playground/internal/physics"
	"physics-playground/internal/scene"
)

const (
	DefaultSphereRadius = 0.5
	DefaultBoxSize      = 1
	// DefaultExtent is half the width of the area random objects are dropped in.
	DefaultExtent = 2.5
	// floorSize is the edge length of the visible floor.
	floorSize = 10
)

// Shape selects what a factory spawns.
type Shape int

const (
	ShapeSphere Shape = iota
	ShapeBox
)

func (s Shape) String() string {
	if s == ShapeBox {
		return "box"
	}
	return "sphere"
}

// ParseShape parses "sphere" or "box".
func ParseShape(s string) (Shape, error) {
	switch s {
	case "sphere":
		return ShapeSphere, nil
	case "box":
		return ShapeBox, nil
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// Factory creates objects in a world and a scene and tracks them in a registry.
type Factory struct {
	World    *physics.World
	Scene    *scene.Scene
	Registry *entity.Registry
	// Trigger gets the collisions of every spawned body. Optional.
	Trigger *hitsound.Trigger
	// Material is assigned to every spawned body. Optional.
	Material *physics.Material
	// Extent is half the width of the drop area for random objects.
	Extent float32
	// SphereRadius and BoxSize are the sizes used by Spawn and Grid.
	SphereRadius float32
	BoxSize      float32

	rnd *rand.Rand
}

// New returns a factory. rnd may be nil for a randomly seeded generator.
func New(world *physics.World, scn *scene.Scene, reg *entity.Registry, trigger *hitsound.Trigger, rnd *rand.Rand) *Factory {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factory{
		World:    world,
		Scene:    scn,
		Registry: reg,
		Trigger:  trigger,
		Extent:   DefaultExtent,
		rnd:      rnd,

		SphereRadius: DefaultSphereRadius,
		BoxSize:      DefaultBoxSize,
	}
}

// Sphere spawns a sphere with mass 1 at pos.
func (f *Factory) Sphere(radius float32, pos physics.Vec3) (entity.Tracked, error) {
	if radius <= 0 {
		return entity.Tracked{}, fmt.Errorf("sphere radius must be positive: %v", radius)
	}
	m := scene.NewMesh(scene.Sphere)
	m.SetScalar(radius)
	return f.spawn(m, physics.NewBody(physics.Sphere{Radius: radius}, 1, pos))
}

// Box spawns a cube with mass 1 at pos.
func (f *Factory) Box(size float32, pos physics.Vec3) (entity.Tracked, error) {
	if size <= 0 {
		return entity.Tracked{}, fmt.Errorf("box size must be positive: %v", size)
	}
	m := scene.NewMesh(scene.Box)
	m.SetScalar(size)
	return f.spawn(m, physics.NewBody(physics.Cube(size), 1, pos))
}

// Spawn spawns an object of the given shape and the factory's size at pos.
func (f *Factory) Spawn(shape Shape, pos physics.Vec3) (entity.Tracked, error) {
	if shape == ShapeBox {
		return f.Box(f.BoxSize, pos)
	}
	return f.Sphere(f.SphereRadius, pos)
}

func (f *Factory) spawn(m *scene.Mesh, b *physics.Body) (entity.Tracked, error) {
	b.Material = f.Material
	m.CastShadow = true
	m.SetPosition(b.Position)
	m.SetOrientation(b.Quaternion)
	id, err := f.Registry.Spawn(m, b)
	if err != nil {
		return entity.Tracked{}, err
	}
	f.World.AddBody(b)
	f.Scene.AddMesh(m)
	if f.Trigger != nil {
		f.Registry.Subscribe(b, f.Trigger.Handle)
	}
	return entity.Tracked{ID: id, Mesh: m, Body: b}, nil
}

// Floor adds a static ground plane through the origin facing +Y and a matching mesh.
// The floor does not move and is therefore not tracked.
func (f *Factory) Floor() (*physics.Body, *scene.Mesh) {
	b := physics.NewBody(physics.Plane{}, 0, physics.Vec3{})
	b.Quaternion = physics.QuatFromEuler(-math32.Pi/2, 0, 0)
	b.Material = f.Material
	f.World.AddBody(b)

	m := scene.NewMesh(scene.Plane)
	m.SetScale(physics.V(floorSize, 1, floorSize))
	m.Color = scene.Gray
	f.Scene.AddMesh(m)
	return b, m
}

// RandomSphere drops a sphere of random size at a random spot above the floor.
func (f *Factory) RandomSphere() (entity.Tracked, error) {
	return f.Sphere(f.randomSize(), f.randomPosition())
}

// RandomBox drops a box of random size at a random spot above the floor.
func (f *Factory) RandomBox() (entity.Tracked, error) {
	return f.Box(f.randomSize(), f.randomPosition())
}

// Random drops a random object of the given shape.
func (f *Factory) Random(shape Shape) (entity.Tracked, error) {
	if shape == ShapeBox {
		return f.RandomBox()
	}
	return f.RandomSphere()
}

func (f *Factory) randomSize() float32 {
	return 0.5 + f.rnd.Float32()*0.5
}

func (f *Factory) randomPosition() physics.Vec3 {
	e := f.Extent
	return physics.V(
		(f.rnd.Float32()*2-1)*e,
		1+f.rnd.Float32()*5,
		(f.rnd.Float32()*2-1)*e,
	)
}

// Grid spawns side³ objects in a cube centered above the origin, one unit apart,
// with the lowest layer at y=1.
func (f *Factory) Grid(shape Shape, side int) ([]entity.Tracked, error) {
	if side <= 0 {
		return nil, fmt.Errorf("grid side must be positive: %d", side)
	}
	n := side * side * side
	out := make([]entity.Tracked, 0, n)
	for i := range n {
		e, err := f.Spawn(shape, GridPosition(i, side))
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

// GridPosition returns the position of the i-th object in a grid with the given side.
func GridPosition(i, side int) physics.Vec3 {
	half := side / 2
	layer := side * side
	return physics.V(
		float32(i%side-half),
		float32(i/layer+1),
		float32((i%layer)/side-half),
	)
}

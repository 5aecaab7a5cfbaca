// Package scene holds the render-side state: meshes with a transform and a look.
// It is independent of the graphics backend; the render package draws it.
package scene

import (
	"iter"
	"slices"

	"physics-playground/internal/physics"
)

// Kind is the geometry a mesh is drawn with.
type Kind int

const (
	// Sphere is a unit-radius sphere; Scale sets the radius.
	Sphere Kind = iota
	// Box is a unit cube; Scale sets the edge lengths.
	Box
	// Plane is a unit quad in the XZ plane facing +Y; Scale X and Z set its size.
	Plane
)

func (k Kind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Box:
		return "box"
	case Plane:
		return "plane"
	}
	return "unknown"
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	White = Color{255, 255, 255, 255}
	Gray  = Color{119, 119, 119, 255}
)

// Mesh is a drawable object with a transform.
type Mesh struct {
	Kind        Kind
	Position    physics.Vec3
	Orientation physics.Quat
	Scale       physics.Vec3
	Color       Color
	CastShadow  bool
}

// NewMesh returns a white mesh of the given kind at the origin with unit scale.
func NewMesh(kind Kind) *Mesh {
	return &Mesh{
		Kind:        kind,
		Orientation: physics.IdentityQuat(),
		Scale:       physics.V(1, 1, 1),
		Color:       White,
	}
}

func (m *Mesh) SetPosition(p physics.Vec3) {
	m.Position = p
}

func (m *Mesh) SetOrientation(q physics.Quat) {
	m.Orientation = q
}

func (m *Mesh) SetScale(s physics.Vec3) {
	m.Scale = s
}

// SetScalar sets a uniform scale.
func (m *Mesh) SetScalar(s float32) {
	m.Scale = physics.V(s, s, s)
}

// Scene is an ordered collection of meshes. Draw order is insertion order.
type Scene struct {
	meshes []*Mesh
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddMesh appends m. Adding a mesh that is already in the scene is a no-op.
func (s *Scene) AddMesh(m *Mesh) {
	if s.Contains(m) {
		return
	}
	s.meshes = append(s.meshes, m)
}

// RemoveMesh removes m. Removing an unknown mesh is a no-op.
func (s *Scene) RemoveMesh(m *Mesh) {
	s.meshes = slices.DeleteFunc(s.meshes, func(x *Mesh) bool {
		return x == m
	})
}

func (s *Scene) Contains(m *Mesh) bool {
	return slices.Contains(s.meshes, m)
}

func (s *Scene) Len() int {
	return len(s.meshes)
}

// Meshes returns an iterator over all meshes in draw order.
func (s *Scene) Meshes() iter.Seq[*Mesh] {
	return func(yield func(*Mesh) bool) {
		for _, m := range s.meshes {
			if !yield(m) {
				return
			}
		}
	}
}

package physics

import "github.com/chewxy/math32"

// ShapeKind identifies the geometry of a Shape.
type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindBox
	KindPlane
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindPlane:
		return "plane"
	}
	return "unknown"
}

// Shape is the collision geometry of a body, in body-local coordinates.
type Shape interface {
	Kind() ShapeKind
	// HalfExtents returns the half size of the world-space bounding box around the body position.
	// Infinite shapes return +Inf components.
	HalfExtents() Vec3
	// InvInertia returns the scalar inverse moment of inertia for a body of inverse mass invMass.
	// Zero means the body does not rotate in response to contacts.
	InvInertia(invMass float32) float32
}

// Sphere is a ball centered on the body position.
type Sphere struct {
	Radius float32
}

func (s Sphere) Kind() ShapeKind { return KindSphere }

func (s Sphere) HalfExtents() Vec3 {
	return Vec3{s.Radius, s.Radius, s.Radius}
}

func (s Sphere) InvInertia(invMass float32) float32 {
	if invMass == 0 || s.Radius <= 0 {
		return 0
	}
	// Solid sphere: I = 2/5 m r^2.
	return invMass / (0.4 * s.Radius * s.Radius)
}

// Box is an axis-aligned box centered on the body position.
// Boxes keep their orientation: contacts do not make them spin.
type Box struct {
	Half Vec3
}

// Cube returns a box with edge length size.
func Cube(size float32) Box {
	h := size / 2
	return Box{Half: Vec3{h, h, h}}
}

func (b Box) Kind() ShapeKind { return KindBox }

func (b Box) HalfExtents() Vec3 { return b.Half }

func (b Box) InvInertia(float32) float32 { return 0 }

// Plane is an infinite static half-space. Its normal is the body-local +Z axis,
// so a floor is a plane body rotated by QuatFromEuler(-Pi/2, 0, 0).
type Plane struct{}

func (Plane) Kind() ShapeKind { return KindPlane }

func (Plane) HalfExtents() Vec3 {
	inf := math32.Inf(1)
	return Vec3{inf, inf, inf}
}

func (Plane) InvInertia(float32) float32 { return 0 }

// Radius returns the bounding radius of shape s, e.g. the resting height of a sphere on a floor.
func Radius(s Shape) float32 {
	switch v := s.(type) {
	case Sphere:
		return v.Radius
	case Box:
		return v.Half.Len()
	}
	return math32.Inf(1)
}

package physics

// Material is a named surface type. Pairs of materials map to a ContactMaterial.
type Material struct {
	Name string
}

// ContactMaterial describes how two surfaces interact on contact.
type ContactMaterial struct {
	Friction    float32
	Restitution float32
}

// DefaultContactMaterial is bouncy with little friction.
func DefaultContactMaterial() ContactMaterial {
	return ContactMaterial{Friction: 0.1, Restitution: 0.7}
}

type materialPair struct {
	a, b *Material
}

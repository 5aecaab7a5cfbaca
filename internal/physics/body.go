package physics

// BodyID identifies a body inside its world. IDs are assigned by World.AddBody and never reused.
type BodyID uint64

// SleepState is the sleep state of a dynamic body.
type SleepState int

const (
	Awake SleepState = iota
	Sleepy
	Sleeping
)

func (s SleepState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleepy:
		return "sleepy"
	case Sleeping:
		return "sleeping"
	}
	return "unknown"
}

const (
	defaultLinearDamping  = 0.01
	defaultAngularDamping = 0.01
)

// Body is a rigid body with a shape, a mass and a pose.
// Static bodies (mass 0) do not move and are not affected by gravity.
// Position, Quaternion and the velocities are only changed by the world during a step,
// except for the initial setup before the body is added.
type Body struct {
	Position        Vec3
	Quaternion      Quat
	Velocity        Vec3
	AngularVelocity Vec3
	Mass            float32
	Shape           Shape
	Material        *Material
	LinearDamping   float32
	AngularDamping  float32

	id          BodyID
	world       *World
	sleepState  SleepState
	sleepySince float32
}

// NewBody returns a body with the given shape, mass and position.
// Orientation is the identity and velocities are zero. mass <= 0 makes the body static.
func NewBody(shape Shape, mass float32, position Vec3) *Body {
	if mass < 0 {
		mass = 0
	}
	return &Body{
		Position:       position,
		Quaternion:     IdentityQuat(),
		Mass:           mass,
		Shape:          shape,
		LinearDamping:  defaultLinearDamping,
		AngularDamping: defaultAngularDamping,
	}
}

// ID returns the body's ID. It is zero until the body is added to a world.
func (b *Body) ID() BodyID {
	return b.id
}

// World returns the world the body belongs to or nil.
func (b *Body) World() *World {
	return b.world
}

func (b *Body) IsStatic() bool {
	return b.Mass == 0
}

func (b *Body) InvMass() float32 {
	if b.Mass == 0 {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) invInertia() float32 {
	if b.Shape == nil {
		return 0
	}
	return b.Shape.InvInertia(b.InvMass())
}

func (b *Body) SleepState() SleepState {
	return b.sleepState
}

// IsActive reports whether the body takes part in integration: dynamic and not sleeping.
func (b *Body) IsActive() bool {
	return !b.IsStatic() && b.sleepState != Sleeping
}

// WakeUp puts a sleeping body back into simulation.
func (b *Body) WakeUp() {
	b.sleepState = Awake
}

// Sleep stops simulating the body until it is hit or woken up.
func (b *Body) Sleep() {
	b.sleepState = Sleeping
	b.Velocity = Vec3{}
	b.AngularVelocity = Vec3{}
}

// velocityAt returns the velocity of the body point at offset r from its center.
func (b *Body) velocityAt(r Vec3) Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(r))
}

// applyImpulse applies impulse j at offset r from the center.
func (b *Body) applyImpulse(j, r Vec3) {
	if b.IsStatic() {
		return
	}
	b.Velocity = b.Velocity.Add(j.Scale(b.InvMass()))
	if ii := b.invInertia(); ii != 0 {
		b.AngularVelocity = b.AngularVelocity.Add(r.Cross(j).Scale(ii))
	}
}

// bounds returns the world-space bounding box of the body.
func (b *Body) bounds() (lo, hi Vec3) {
	h := b.Shape.HalfExtents()
	return b.Position.Sub(h), b.Position.Add(h)
}

// updateSleep advances the sleep state machine by one step at world time now.
func (b *Body) updateSleep(now float32, s Settings) {
	if b.IsStatic() || !s.AllowSleep {
		return
	}
	speedSq := b.Velocity.LenSq() + b.AngularVelocity.LenSq()
	limitSq := s.SleepSpeedLimit * s.SleepSpeedLimit
	switch b.sleepState {
	case Awake:
		if speedSq < limitSq {
			b.sleepState = Sleepy
			b.sleepySince = now
		}
	case Sleepy:
		if speedSq > limitSq {
			b.WakeUp()
		} else if now-b.sleepySince > s.SleepTimeLimit {
			b.Sleep()
		}
	}
}

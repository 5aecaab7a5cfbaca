package physics

import (
	"context"
	"slices"

	"github.com/ErikKalkoken/go-set"
	"github.com/chewxy/math32"
	"github.com/maniartech/signals"
)

const (
	// restitutionThreshold is the approach speed below which contacts do not bounce.
	// It must stay above gravity*dt/(1-restitution) or a resting body keeps hopping.
	restitutionThreshold = 1
	// penetrationSlop is the overlap tolerated before positions are corrected.
	penetrationSlop = 0.005
	// correctionPercent is the share of the remaining overlap removed per step.
	correctionPercent = 0.8
	// wakeSpeedFactor times the sleep speed limit is the speed a body needs to wake a sleeping one.
	wakeSpeedFactor = 2
)

// Settings holds tunables of the solver and the sleep logic.
type Settings struct {
	AllowSleep      bool
	SleepSpeedLimit float32
	SleepTimeLimit  float32
	Iterations      int
}

// DefaultSettings returns sleep enabled (speed limit 0.1, time limit 1s) and 10 solver iterations.
func DefaultSettings() Settings {
	return Settings{
		AllowSleep:      true,
		SleepSpeedLimit: 0.1,
		SleepTimeLimit:  1,
		Iterations:      10,
	}
}

// Collision is emitted for every contact between two bodies during a step.
// Normal points from BodyA to BodyB.
type Collision struct {
	BodyA       *Body
	BodyB       *Body
	Normal      Vec3
	Depth       float32
	ImpactSpeed float32
}

// ImpactVelocityAlongNormal returns the approach speed of the two bodies along the contact normal.
// It is never negative.
func (c Collision) ImpactVelocityAlongNormal() float32 {
	return c.ImpactSpeed
}

// Involves reports whether the body with id takes part in the collision.
func (c Collision) Involves(id BodyID) bool {
	return c.BodyA.ID() == id || c.BodyB.ID() == id
}

// World holds a set of bodies and runs the simulation: gravity, integration,
// sweep-and-prune broadphase, narrowphase, impulse solver and sleeping.
// A world is not safe for concurrent use.
type World struct {
	Gravity        Vec3
	Settings       Settings
	DefaultContact ContactMaterial
	// Collisions fires synchronously for every contact during Step, before the contact is solved.
	Collisions signals.Signal[Collision]

	bodies      []*Body
	members     set.Set[BodyID]
	lastID      BodyID
	materials   map[materialPair]ContactMaterial
	broadphase  sweepAndPrune
	contacts    []contact
	accumulator float32
	time        float32
	steps       uint64
}

// NewWorld returns an empty world with earth gravity (0, -9.82, 0) in Y-up style.
func NewWorld() *World {
	return &World{
		Gravity:        Vec3{Y: -9.82},
		Settings:       DefaultSettings(),
		DefaultContact: DefaultContactMaterial(),
		Collisions:     signals.NewSync[Collision](),
		members:        set.Of[BodyID](),
		materials:      make(map[materialPair]ContactMaterial),
	}
}

// SetGravity sets the gravity vector (e.g. (0, -9.82, 0) for down in -Y).
func (w *World) SetGravity(g Vec3) {
	w.Gravity = g
}

// CollisionEvents returns the signal that fires for each contact.
func (w *World) CollisionEvents() signals.Signal[Collision] {
	return w.Collisions
}

// AddContactMaterial defines how bodies with materials a and b interact.
func (w *World) AddContactMaterial(a, b *Material, cm ContactMaterial) {
	w.materials[materialPair{a, b}] = cm
}

func (w *World) contactMaterial(a, b *Material) ContactMaterial {
	if cm, ok := w.materials[materialPair{a, b}]; ok {
		return cm
	}
	if cm, ok := w.materials[materialPair{b, a}]; ok {
		return cm
	}
	return w.DefaultContact
}

// AddBody appends a body to the world and assigns its ID.
// Adding a body that already belongs to a world is a no-op.
func (w *World) AddBody(b *Body) {
	if b.world != nil {
		return
	}
	w.lastID++
	b.id = w.lastID
	b.world = w
	w.bodies = append(w.bodies, b)
	w.members.Add(b.id)
}

// RemoveBody removes a body from the world. Removing an unknown body is a no-op.
func (w *World) RemoveBody(b *Body) {
	if b.world != w {
		return
	}
	w.bodies = slices.DeleteFunc(w.bodies, func(x *Body) bool {
		return x == b
	})
	w.members.Delete(b.id)
	b.world = nil
}

// HasBody reports whether b currently belongs to w.
func (w *World) HasBody(b *Body) bool {
	return b.world == w && w.members.Contains(b.id)
}

// Bodies returns the bodies of the world in insertion order.
func (w *World) Bodies() []*Body {
	return slices.Clone(w.bodies)
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return w.members.Size()
}

// Time returns the simulated time in seconds.
func (w *World) Time() float32 {
	return w.time
}

// StepCount returns the number of internal steps taken so far.
func (w *World) StepCount() uint64 {
	return w.steps
}

// Step advances the world with a fixed time step.
// elapsed is the wall time since the last call; it is accumulated and consumed in
// steps of fixed, running at most maxSubSteps steps per call. Leftover backlog beyond
// that is dropped so that a slow frame does not make the next one slower.
// Returns the number of internal steps taken.
func (w *World) Step(fixed, elapsed float32, maxSubSteps int) int {
	if fixed <= 0 {
		return 0
	}
	if maxSubSteps <= 0 {
		maxSubSteps = 1
	}
	w.accumulator += max(elapsed, 0)
	n := 0
	for w.accumulator >= fixed && n < maxSubSteps {
		w.StepOnce(fixed)
		w.accumulator -= fixed
		n++
	}
	w.accumulator = math32.Mod(w.accumulator, fixed)
	return n
}

// StepOnce advances the world by exactly dt seconds.
func (w *World) StepOnce(dt float32) {
	if dt <= 0 {
		return
	}
	// Impact speeds are measured before this step's gravity is added.
	w.detect()
	w.prepare(dt)
	for _, b := range w.bodies {
		if b.IsActive() {
			b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		}
	}
	w.emit()
	w.solveVelocities()
	w.correctPositions()
	w.integrate(dt)
	w.time += dt
	w.steps++
	for _, b := range w.bodies {
		b.updateSleep(w.time, w.Settings)
	}
}

func (w *World) detect() {
	w.contacts = w.contacts[:0]
	wakeSq := w.Settings.SleepSpeedLimit * wakeSpeedFactor
	wakeSq *= wakeSq
	for _, p := range w.broadphase.collectPairs(w.bodies) {
		c, ok := collide(p[0], p[1])
		if !ok {
			continue
		}
		wakeByContact(c.a, c.b, wakeSq)
		wakeByContact(c.b, c.a, wakeSq)
		w.contacts = append(w.contacts, c)
	}
}

// wakeByContact wakes the sleeping body s when it is touched by a moving body.
func wakeByContact(s, other *Body, wakeSq float32) {
	if s.SleepState() != Sleeping || !other.IsActive() {
		return
	}
	if other.Velocity.LenSq()+other.AngularVelocity.LenSq() >= wakeSq {
		s.WakeUp()
	}
}

func effInvMass(b *Body) float32 {
	if !b.IsActive() {
		return 0
	}
	return b.InvMass()
}

func effInvInertia(b *Body) float32 {
	if !b.IsActive() {
		return 0
	}
	return b.invInertia()
}

// effectiveMass returns the inverse of the impulse-to-velocity response along dir.
func effectiveMass(c *contact, dir Vec3) float32 {
	k := effInvMass(c.a) + effInvMass(c.b)
	k += c.ra.Cross(dir).LenSq() * effInvInertia(c.a)
	k += c.rb.Cross(dir).LenSq() * effInvInertia(c.b)
	if k == 0 {
		return 0
	}
	return 1 / k
}

func (c *contact) relativeVelocity() Vec3 {
	return c.b.velocityAt(c.rb).Sub(c.a.velocityAt(c.ra))
}

func (w *World) prepare(dt float32) {
	for i := range w.contacts {
		c := &w.contacts[i]
		c.material = w.contactMaterial(c.a.Material, c.b.Material)
		c.impact = max(-c.relativeVelocity().Dot(c.normal), 0)
		c.t1, c.t2 = c.normal.Tangents()
		c.massN = effectiveMass(c, c.normal)
		c.massT1 = effectiveMass(c, c.t1)
		c.massT2 = effectiveMass(c, c.t2)
		c.bias = 0
		if c.impact > restitutionThreshold {
			c.bias = c.material.Restitution * c.impact
		}
	}
}

func (w *World) emit() {
	if w.Collisions == nil || w.Collisions.IsEmpty() {
		return
	}
	ctx := context.Background()
	for _, c := range w.contacts {
		w.Collisions.Emit(ctx, Collision{
			BodyA:       c.a,
			BodyB:       c.b,
			Normal:      c.normal,
			Depth:       c.depth,
			ImpactSpeed: c.impact,
		})
	}
}

func applyPair(c *contact, j Vec3) {
	if c.a.IsActive() {
		c.a.applyImpulse(j.Neg(), c.ra)
	}
	if c.b.IsActive() {
		c.b.applyImpulse(j, c.rb)
	}
}

func (w *World) solveVelocities() {
	iterations := max(w.Settings.Iterations, 1)
	for range iterations {
		for i := range w.contacts {
			c := &w.contacts[i]
			if c.massN == 0 {
				continue
			}
			vn := c.relativeVelocity().Dot(c.normal)
			lambda := (c.bias - vn) * c.massN
			prev := c.accN
			c.accN = max(prev+lambda, 0)
			applyPair(c, c.normal.Scale(c.accN-prev))

			limit := c.material.Friction * c.accN
			c.accT1 = solveFriction(c, c.t1, c.massT1, c.accT1, limit)
			c.accT2 = solveFriction(c, c.t2, c.massT2, c.accT2, limit)
		}
	}
}

func solveFriction(c *contact, t Vec3, mass, acc, limit float32) float32 {
	if mass == 0 {
		return acc
	}
	vt := c.relativeVelocity().Dot(t)
	next := clamp(acc-vt*mass, -limit, limit)
	applyPair(c, t.Scale(next-acc))
	return next
}

func (w *World) correctPositions() {
	for i := range w.contacts {
		c := &w.contacts[i]
		ia, ib := effInvMass(c.a), effInvMass(c.b)
		if ia+ib == 0 {
			continue
		}
		corr := max(c.depth-penetrationSlop, 0) * correctionPercent / (ia + ib)
		if corr == 0 {
			continue
		}
		c.a.Position = c.a.Position.Sub(c.normal.Scale(corr * ia))
		c.b.Position = c.b.Position.Add(c.normal.Scale(corr * ib))
	}
}

func (w *World) integrate(dt float32) {
	for _, b := range w.bodies {
		if !b.IsActive() {
			continue
		}
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		if b.AngularVelocity.LenSq() > 0 {
			b.Quaternion = b.Quaternion.Integrate(b.AngularVelocity, dt)
		}
		b.Velocity = b.Velocity.Scale(math32.Pow(1-b.LinearDamping, dt))
		b.AngularVelocity = b.AngularVelocity.Scale(math32.Pow(1-b.AngularDamping, dt))
	}
}

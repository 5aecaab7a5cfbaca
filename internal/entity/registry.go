// Package entity pairs render meshes with physics bodies and keeps them in sync.
package entity

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"

	"github.com/ErikKalkoken/go-set"
	"github.com/maniartech/signals"

	"physics-playground/internal/physics"
	"physics-playground/internal/scene"
)

const listenerKey = "entity.registry"

var (
	ErrInvalidEntity  = errors.New("entity needs a mesh and a body")
	ErrAlreadyTracked = errors.New("body is already tracked")
	ErrUnknownEntity  = errors.New("unknown entity")
)

// ID identifies a tracked entity. IDs are never reused.
type ID uint64

// Tracked is a mesh paired with the body that drives it. The registry does not own either.
type Tracked struct {
	ID   ID
	Mesh *scene.Mesh
	Body *physics.Body
}

// Handler is called for each collision the body of an entity takes part in.
type Handler func(physics.Collision)

// World is the physics side the registry detaches bodies from.
type World interface {
	RemoveBody(b *physics.Body)
	CollisionEvents() signals.Signal[physics.Collision]
}

// Scene is the render side the registry detaches meshes from.
type Scene interface {
	RemoveMesh(m *scene.Mesh)
}

// Registry tracks which mesh/body pairs are live. It owns the collision handlers
// of tracked bodies and dispatches the world's collision events to them.
//
// All methods are safe for concurrent use. Clear and Remove never interleave with
// a Sync pass.
type Registry struct {
	world World
	scene Scene

	mu       sync.Mutex
	entities []Tracked
	bodies   set.Set[*physics.Body]
	handlers map[*physics.Body]Handler
	lastID   ID
}

// New returns an empty registry which detaches from world and scn and listens
// to the world's collision events.
func New(world World, scn Scene) *Registry {
	r := &Registry{
		world:    world,
		scene:    scn,
		bodies:   set.Of[*physics.Body](),
		handlers: make(map[*physics.Body]Handler),
	}
	world.CollisionEvents().AddListener(r.dispatch, listenerKey)
	return r
}

// Close stops listening to collision events.
func (r *Registry) Close() {
	r.world.CollisionEvents().RemoveListener(listenerKey)
}

// Spawn starts tracking the pair of mesh and body and returns the new entity's ID.
// Adding mesh and body to their scene and world is up to the caller.
func (r *Registry) Spawn(mesh *scene.Mesh, body *physics.Body) (ID, error) {
	if mesh == nil || body == nil {
		return 0, ErrInvalidEntity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bodies.Contains(body) {
		return 0, ErrAlreadyTracked
	}
	r.lastID++
	r.entities = append(r.entities, Tracked{ID: r.lastID, Mesh: mesh, Body: body})
	r.bodies.Add(body)
	return r.lastID, nil
}

// Subscribe sets the collision handler of body, replacing any previous one.
// A body has at most one handler. Handlers are keyed by body identity, so a body
// may be subscribed before it is added to the world.
func (r *Registry) Subscribe(body *physics.Body, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[body] = h
}

// Unsubscribe removes the collision handler of body.
func (r *Registry) Unsubscribe(body *physics.Body) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, body)
}

// HasHandler reports whether body has a collision handler.
func (r *Registry) HasHandler(body *physics.Body) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[body]
	return ok
}

// Get returns the entity with id.
func (r *Registry) Get(id ID) (Tracked, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return Tracked{}, false
	}
	return r.entities[i], true
}

// Len returns the number of tracked entities.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}

// All returns an iterator over the entities tracked when the traversal starts,
// in insertion order. The lock is not held while yielding, so the loop body
// may call other methods; removals during the traversal do not skip entries.
func (r *Registry) All() iter.Seq[Tracked] {
	return func(yield func(Tracked) bool) {
		r.mu.Lock()
		snapshot := slices.Clone(r.entities)
		r.mu.Unlock()
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

// Sync copies position and orientation of every tracked body onto its mesh.
// Data only flows from physics to render.
func (r *Registry) Sync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entities {
		e.Mesh.SetPosition(e.Body.Position)
		e.Mesh.SetOrientation(e.Body.Quaternion)
	}
}

// Remove stops tracking one entity and detaches its mesh and body.
func (r *Registry) Remove(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrUnknownEntity
	}
	r.detach(r.entities[i])
	r.entities = slices.Delete(r.entities, i, i+1)
	return nil
}

// Clear detaches every tracked entity and empties the registry.
// Returns the number of entities removed.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entities)
	for _, e := range r.entities {
		r.detach(e)
	}
	r.entities = nil
	return n
}

// detach removes the handler first so it can not fire for a body that is being removed.
func (r *Registry) detach(e Tracked) {
	delete(r.handlers, e.Body)
	r.bodies.Delete(e.Body)
	r.world.RemoveBody(e.Body)
	r.scene.RemoveMesh(e.Mesh)
}

func (r *Registry) indexOf(id ID) int {
	return slices.IndexFunc(r.entities, func(e Tracked) bool {
		return e.ID == id
	})
}

// dispatch forwards a collision to the handlers of both bodies.
// Handlers are called without holding the lock.
func (r *Registry) dispatch(_ context.Context, c physics.Collision) {
	r.mu.Lock()
	ha := r.handlers[c.BodyA]
	hb := r.handlers[c.BodyB]
	r.mu.Unlock()
	if ha != nil {
		ha(c)
	}
	if hb != nil {
		hb(c)
	}
}

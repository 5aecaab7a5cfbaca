// Package sandbox assembles the playground: world, scene, registry, hit sound,
// spawner, frame loop and console commands.
package sandbox

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"physics-playground/internal/commands"
	"physics-playground/internal/engineconfig"
	"physics-playground/internal/entity"
	"physics-playground/internal/frameloop"
	"physics-playground/internal/hitsound"
	"physics-playground/internal/physics"
	"physics-playground/internal/scene"
	"physics-playground/internal/spawn"
)

// Deps are the platform-specific parts of an App.
type Deps struct {
	// Scene is the scene the renderer draws. A new one is created when nil.
	Scene     *scene.Scene
	Player    hitsound.Player
	Reporter  hitsound.Reporter
	Scheduler frameloop.Scheduler
	Clock     frameloop.Clock
	Camera    frameloop.CameraUpdater // optional
	Renderer  frameloop.Renderer      // optional
	Rand      *rand.Rand              // optional
}

// App is the running playground.
type App struct {
	Config   engineconfig.Config
	World    *physics.World
	Scene    *scene.Scene
	Registry *entity.Registry
	Trigger  *hitsound.Trigger
	Factory  *spawn.Factory
	Loop     *frameloop.Loop
	Commands *commands.Registry

	reporter hitsound.Reporter
	mu       sync.Mutex
	queue    []string
}

// New creates an app from cfg. Nothing is spawned until Populate is called.
func New(cfg engineconfig.Config, d Deps) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.Player == nil || d.Reporter == nil || d.Scheduler == nil || d.Clock == nil {
		return nil, errors.New("sandbox: player, reporter, scheduler and clock are required")
	}
	scn := d.Scene
	if scn == nil {
		scn = scene.New()
	}
	w := physics.NewWorld()
	w.SetGravity(cfg.Physics.GravityVec())
	w.Settings = cfg.Physics.Settings()
	w.DefaultContact = cfg.Physics.ContactMaterial()

	reg := entity.New(w, scn)
	trigger := hitsound.New(d.Player, d.Reporter)
	trigger.Threshold = cfg.Audio.Threshold
	trigger.VolumeScale = cfg.Audio.VolumeScale

	f := spawn.New(w, scn, reg, trigger, d.Rand)
	f.Extent = cfg.Scene.SpawnExtent
	f.SphereRadius = cfg.Scene.SphereRadius
	f.BoxSize = cfg.Scene.BoxSize

	a := &App{
		Config:   cfg,
		World:    w,
		Scene:    scn,
		Registry: reg,
		Trigger:  trigger,
		Factory:  f,
		Commands: commands.NewRegistry(),
		reporter: d.Reporter,
	}
	a.Loop = frameloop.New(cfg.FrameLoop(), frameloop.Deps{
		Scheduler: d.Scheduler,
		Clock:     d.Clock,
		World:     w,
		Syncer:    reg,
		Camera:    d.Camera,
		Renderer:  d.Renderer,
	})
	a.registerCommands()
	return a, nil
}

// Populate adds the floor and the configured grids of spheres and boxes.
func (a *App) Populate() error {
	a.Factory.Floor()
	if n := a.Config.Scene.SphereGrid; n > 0 {
		if _, err := a.Factory.Grid(spawn.ShapeSphere, n); err != nil {
			return err
		}
	}
	if n := a.Config.Scene.BoxGrid; n > 0 {
		if _, err := a.Factory.Grid(spawn.ShapeBox, n); err != nil {
			return err
		}
	}
	slog.Info("scene populated", "entities", a.Registry.Len(), "bodies", a.World.Len())
	return nil
}

// Start starts the frame loop.
func (a *App) Start() error {
	return a.Loop.Start()
}

// Clear removes every spawned object. The floor stays.
func (a *App) Clear() int {
	n := a.Registry.Clear()
	slog.Info("scene cleared", "removed", n)
	return n
}

// Enqueue queues a command script to run at the next Flush.
// It is safe to call while a frame is being drawn.
func (a *App) Enqueue(script string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, script)
}

// Flush runs all queued scripts. Errors are reported and do not stop later scripts.
// Flush must be called between frames.
func (a *App) Flush() int {
	a.mu.Lock()
	q := a.queue
	a.queue = nil
	a.mu.Unlock()
	var failed int
	for _, s := range q {
		if err := a.Commands.Script(s); err != nil {
			a.reporter.Report(err, fmt.Sprintf("Error running %q", s))
			failed++
		}
	}
	return failed
}

// Close removes all objects and detaches the registry from the world.
func (a *App) Close() {
	a.Registry.Clear()
	a.Registry.Close()
}

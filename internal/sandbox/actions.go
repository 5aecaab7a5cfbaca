package sandbox

import (
	"flag"
	"log/slog"

	"physics-playground/internal/frameloop"
	"physics-playground/internal/physics"
	"physics-playground/internal/spawn"
)

// Command names shared by the console, the debug panel and keyboard shortcuts.
const (
	CmdClear  = "clear"
	CmdSphere = "sphere"
	CmdBox    = "box"
	CmdGrid   = "grid"
	CmdSync   = "sync"
	CmdStats  = "stats"
)

func (a *App) registerCommands() {
	a.Commands.Register(CmdClear, "remove all objects", nil, func() error {
		a.Clear()
		return nil
	})
	a.registerSpawn(CmdSphere, spawn.ShapeSphere)
	a.registerSpawn(CmdBox, spawn.ShapeBox)

	gridFS := flag.NewFlagSet(CmdGrid, flag.ContinueOnError)
	gridShape := gridFS.String("shape", "sphere", "sphere or box")
	gridSide := gridFS.Int("side", 2, "objects per edge")
	a.Commands.Register(CmdGrid, "spawn a grid of objects [-shape sphere|box] [-side n]", gridFS, func() error {
		s, err := spawn.ParseShape(*gridShape)
		if err != nil {
			return err
		}
		_, err = a.Factory.Grid(s, *gridSide)
		return err
	})

	syncFS := flag.NewFlagSet(CmdSync, flag.ContinueOnError)
	order := syncFS.String("order", "before", "before or after the physics step")
	a.Commands.Register(CmdSync, "set when meshes are synced [-order before|after]", syncFS, func() error {
		o, err := frameloop.ParseSyncOrder(*order)
		if err != nil {
			return err
		}
		a.Loop.SetSyncOrder(o)
		slog.Info("sync order changed", "order", o)
		return nil
	})

	a.Commands.Register(CmdStats, "log simulation stats", nil, func() error {
		slog.Info("stats",
			"entities", a.Registry.Len(),
			"bodies", a.World.Len(),
			"time", a.World.Time(),
			"steps", a.World.StepCount(),
			"ticks", a.Loop.Ticks(),
			"hits", a.Trigger.Played(),
		)
		return nil
	})
}

// registerSpawn registers a command which drops one object at a random spot,
// or at -x -y -z when -at is given.
func (a *App) registerSpawn(name string, shape spawn.Shape) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	at := fs.Bool("at", false, "spawn at -x -y -z instead of a random spot")
	x := fs.Float64("x", 0, "")
	y := fs.Float64("y", 5, "")
	z := fs.Float64("z", 0, "")
	usage := "drop a " + shape.String() + " [-at -x n -y n -z n]"
	a.Commands.Register(name, usage, fs, func() error {
		var err error
		if *at {
			_, err = a.Factory.Spawn(shape, physics.V(float32(*x), float32(*y), float32(*z)))
		} else {
			_, err = a.Factory.Random(shape)
		}
		return err
	})
}

package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"physics-playground/internal/debug"
	"physics-playground/internal/engineconfig"
	"physics-playground/internal/frameloop"
	"physics-playground/internal/graphics"
	"physics-playground/internal/hitsound"
	"physics-playground/internal/logger"
	"physics-playground/internal/render"
	"physics-playground/internal/sandbox"
	"physics-playground/internal/scene"
	"physics-playground/internal/terminal"
)

// defined flags
var (
	levelFlag    logLevelFlag
	configFlag   = flag.String("config", engineconfig.DefaultPath, "path to the config file")
	logFileFlag  = flag.Bool("logfile", false, "Write logs to a file instead of the console")
	headlessFlag = flag.Bool("headless", false, "Run the simulation without a window")
	hzFlag       = flag.Int("hz", 60, "Frame rate in headless mode")
	ticksFlag    = flag.Int("ticks", 600, "Number of frames in headless mode; 0 runs until interrupted")
	actionsFlag  = flag.String("actions", "", `Commands to run after startup, e.g. "sphere; box; grid -side 3"`)
)

func init() {
	levelFlag.value = slog.LevelInfo
	flag.Var(&levelFlag, "loglevel", "set log level")
}

func main() {
	flag.Parse()
	if err := logger.Setup(levelFlag.value, *logFileFlag, "logs/app.log"); err != nil {
		log.Fatal(err)
	}
	cfg, err := engineconfig.Load(*configFlag)
	if err != nil {
		log.Fatal(err)
	}
	lg := logger.New()
	if *headlessFlag {
		runHeadless(cfg, lg)
		return
	}
	runWindow(cfg, lg)
}

func runHeadless(cfg engineconfig.Config, lg *logger.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	h := &frameloop.Headless{Hz: *hzFlag, Limit: *ticksFlag}
	app, err := sandbox.New(cfg, sandbox.Deps{
		Player:    hitsound.LogPlayer{},
		Reporter:  lg,
		Scheduler: h,
		Clock:     frameloop.NewSystemClock(),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()
	if err := app.Populate(); err != nil {
		log.Fatal(err)
	}
	if *actionsFlag != "" {
		app.Enqueue(*actionsFlag)
	}
	h.BetweenFrames = func() { app.Flush() }
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	h.Run(ctx)
	_ = app.Commands.Execute([]string{sandbox.CmdStats})
}

func runWindow(cfg engineconfig.Config, lg *logger.Logger) {
	win := graphics.Open(graphics.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		TargetFPS: cfg.Window.TargetFPS,
	})
	defer win.Close()

	var player hitsound.Player = hitsound.LogPlayer{}
	if cfg.Audio.HitSound != "" {
		sound, err := graphics.LoadSound(cfg.Audio.HitSound)
		if err == nil {
			defer sound.Unload()
		}
		player = hitsound.PlayerOrLog(sound, err)
	}

	scn := scene.New()
	cam := render.NewOrbitCamera()
	rnd := render.New(scn, cam)
	rnd.GridVisible = true
	defer rnd.Close()

	app, err := sandbox.New(cfg, sandbox.Deps{
		Scene:     scn,
		Player:    player,
		Reporter:  lg,
		Scheduler: win,
		Clock:     frameloop.NewSystemClock(),
		Camera:    cam,
		Renderer:  rnd,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	dbg := debug.New()
	dbg.SetShowFPS(cfg.Debug.ShowFPS)
	dbg.SetShowMemAlloc(cfg.Debug.ShowMemAlloc)
	dbg.ShowStats = cfg.Debug.ShowFPS
	dbg.StatsFunc = func() debug.Stats {
		return debug.Stats{Entities: app.Registry.Len(), Hits: app.Trigger.Played(), Time: app.World.Time()}
	}
	panel := debug.NewPanel(app.Enqueue)
	panel.Open = cfg.Debug.PanelOpen
	term := terminal.New(lg, app.Enqueue)
	rnd.Overlays = []render.Overlay{dbg, panel, term}

	if err := app.Populate(); err != nil {
		log.Fatal(err)
	}
	if *actionsFlag != "" {
		app.Enqueue(*actionsFlag)
	}
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	win.Run(func() {
		term.Update()
		panel.Update()
		cam.Enabled = !panel.Hovered()
		if !term.IsOpen() {
			handleShortcuts(app, dbg)
		}
		app.Flush()
	})

	cfg.Debug.ShowFPS = dbg.ShowFPS
	cfg.Debug.ShowMemAlloc = dbg.ShowMemAlloc
	cfg.Debug.PanelOpen = panel.Open
	if err := engineconfig.Save(*configFlag, cfg); err != nil {
		slog.Error("save config", "error", err)
	}
}

// handleShortcuts maps keys to commands: C clears, B drops a box, S drops a sphere,
// F2 toggles the FPS and stats overlay, F3 the memory overlay.
func handleShortcuts(app *sandbox.App, dbg *debug.Debug) {
	switch {
	case rl.IsKeyPressed(rl.KeyC):
		app.Enqueue(sandbox.CmdClear)
	case rl.IsKeyPressed(rl.KeyB):
		app.Enqueue(sandbox.CmdBox)
	case rl.IsKeyPressed(rl.KeyS):
		app.Enqueue(sandbox.CmdSphere)
	case rl.IsKeyPressed(rl.KeyF2):
		dbg.SetShowFPS(!dbg.ShowFPS)
		dbg.ShowStats = dbg.ShowFPS
	case rl.IsKeyPressed(rl.KeyF3):
		dbg.SetShowMemAlloc(!dbg.ShowMemAlloc)
	}
}

// Package game runs the ripple surface in a raylib window or headless.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/camera"
	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/renderer"
	"github.com/pthm-cable/ripple/scene"
	"github.com/pthm-cable/ripple/telemetry"
	"github.com/pthm-cable/ripple/ui"
)

// maxStepsPerFrame bounds catch-up after a stalled frame.
const maxStepsPerFrame = 4

// Options configures game behaviour.
type Options struct {
	LogStats  bool   // Log telemetry windows via slog
	OutputDir string // Directory for CSV logs and config snapshot (empty = disabled)
	Headless  bool   // Run without graphics
}

// Game holds the complete application state around one scene.
type Game struct {
	cfg   *config.Config
	scene *scene.Scene
	clock *stepClock

	// Rendering
	viewport *camera.Viewport
	water    *renderer.WaterSurface
	buoys    *renderer.BuoyRenderer
	hud      *ui.HUD
	controls *ui.ControlsPanel

	// Output
	output *telemetry.OutputManager

	// State
	paused   bool
	rawView  bool
	headless bool

	// Last pointer position fed to the queue, in screen pixels
	lastMouse   rl.Vector2
	mouseInside bool

	screenWidth, screenHeight float32
}

// NewGame creates a new game instance with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{})
}

// NewGameWithOptions creates a new game instance. The raylib window must
// already exist unless opts.Headless is set.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	sc, err := scene.New(cfg, scene.Options{Output: output, LogStats: opts.LogStats})
	if err != nil {
		// Config was validated on load, so this only fires on programmer error.
		panic(err)
	}

	g := &Game{
		cfg:          cfg,
		scene:        sc,
		clock:        newStepClock(cfg.Screen.TickRate, maxStepsPerFrame),
		output:       output,
		headless:     opts.Headless,
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}
	g.viewport = camera.New(g.screenWidth, g.screenHeight)

	if !opts.Headless {
		g.water = renderer.NewWaterSurface(cfg.Compositor, int32(g.screenWidth), int32(g.screenHeight))
		g.water.Init()
		g.buoys = renderer.NewBuoyRenderer()
		g.buoys.Init()
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(180)
	}

	slog.Info("ripple surface ready",
		"field_size", cfg.Field.Size,
		"max_ripples", cfg.Field.MaxRipples,
		"bodies", sc.BodyCount(),
		"headless", opts.Headless,
	)
	return g
}

// Update handles input and runs as many fixed steps as the frame time allows.
func (g *Game) Update() {
	g.handleInput()
	g.scene.Perf().RecordFrame()

	steps := g.clock.Advance(float64(rl.GetFrameTime()))
	if g.paused {
		g.clock.Reset()
		steps = 0
	}
	for i := 0; i < steps; i++ {
		g.scene.Step()
	}

	g.water.Sync(g.scene.Field())
}

// UpdateHeadless runs one simulation step without any graphics.
func (g *Game) UpdateHeadless() {
	g.scene.Step()
}

// Scene returns the underlying scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.scene.Tick()
}

// Unload releases GPU resources and closes output files.
func (g *Game) Unload() {
	if g.water != nil {
		g.water.Unload()
	}
	if g.buoys != nil {
		g.buoys.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

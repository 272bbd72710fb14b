// Ripple field preview tool - interactive tuning of field and shading parameters.
//
// Usage: go run ./cmd/ripplepreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ripple/camera"
	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/scene"
	"github.com/pthm-cable/ripple/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	renderSize   = 256 // CPU render resolution, scaled up to previewSize
	panelWidth   = windowWidth - previewSize - 30
)

// previewParams holds the tunable parameters shown as sliders.
type previewParams struct {
	BaseRadius  float32
	MaxAge      float32
	AgeRate     float32
	MaxRipples  float32
	Strength    float32
	PointerGain float32
}

func paramsFrom(cfg *config.Config) previewParams {
	return previewParams{
		BaseRadius:  float32(cfg.Field.BaseRadius),
		MaxAge:      float32(cfg.Field.MaxAge),
		AgeRate:     float32(cfg.Field.AgeRate),
		MaxRipples:  float32(cfg.Field.MaxRipples),
		Strength:    float32(cfg.Compositor.Strength),
		PointerGain: float32(cfg.Pointer.Gain),
	}
}

func (p previewParams) apply(cfg *config.Config) {
	cfg.Field.BaseRadius = float64(p.BaseRadius)
	cfg.Field.MaxAge = float64(p.MaxAge)
	cfg.Field.AgeRate = float64(p.AgeRate)
	cfg.Field.MaxRipples = int(p.MaxRipples)
	cfg.Compositor.Strength = float64(p.Strength)
	cfg.Pointer.Gain = float64(p.PointerGain)
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := paramsFrom(base)
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Ripple Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(base.Screen.TickRate))

	img := rl.GenImageColor(renderSize, renderSize, rl.White)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	frame := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	pixels := make([]color.RGBA, renderSize*renderSize)

	preview := rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize}
	vp := camera.New(previewSize, previewSize)

	sc := rebuild(base, params)
	needsRebuild := false
	paused := false

	for !rl.WindowShouldClose() {
		if needsRebuild {
			if next := rebuild(base, params); next != nil {
				sc = next
			}
			needsRebuild = false
		}

		// Stir with the mouse inside the preview.
		mouse := rl.GetMousePosition()
		if rl.CheckCollisionPointRec(mouse, preview) {
			u, v := vp.ScreenToUV(mouse.X-preview.X, mouse.Y-preview.Y)
			sc.Queue().Push(systems.PointerSample{U: u, V: v})
		} else {
			sc.Dispatcher().Reset()
		}

		if !paused {
			sc.Step()
		}
		sc.Render(frame)
		for i := range pixels {
			pixels[i] = color.RGBA{R: frame.Pix[i*4], G: frame.Pix[i*4+1], B: frame.Pix[i*4+2], A: 255}
		}
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: renderSize, Height: renderSize},
			preview,
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		stats := sc.Field().Stats()
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Ripples: %d/%d  Spawned: %d  Evicted: %d  Expired: %d",
			sc.Field().Len(), sc.Field().Config().MaxRipples, stats.Spawned, stats.Evicted, stats.Expired),
			15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Tick: %d  Time: %.2f  Coverage: %.3f", sc.Tick(), sc.Time(), sc.LastStats().Coverage),
			15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Ripple Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, format string, value *float32, min, max float32) {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf(format, min), fmt.Sprintf(format, max),
				*value, min, max,
			)
			rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != *value {
				*value = next
				needsRebuild = true
			}
			panelY += 35
		}

		slider("Base radius (ripple start size)", "%.3f", &params.BaseRadius, 0.01, 0.2)
		slider("Max age (ticks-equivalent lifetime)", "%.0f", &params.MaxAge, 20, 400)
		slider("Age rate (growth per tick)", "%.2f", &params.AgeRate, 0.05, 2)
		slider("Max ripples (FIFO bound)", "%.0f", &params.MaxRipples, 1, 64)
		slider("Strength (refraction scale)", "%.2f", &params.Strength, 0, 0.6)
		slider("Pointer gain (momentum per UV)", "%.1f", &params.PointerGain, 1, 40)

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Splash") {
			sc.Splash()
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Clear") {
			sc.Reset()
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRebuild = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		snippet := yamlSnippet(base, params)
		for _, line := range strings.Split(strings.TrimRight(snippet, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// rebuild creates a scene for params. Field parameters are fixed at
// construction, so every slider change starts a fresh surface.
func rebuild(base *config.Config, params previewParams) *scene.Scene {
	cfg := *base
	cfg.Bodies = append([]config.BodyConfig(nil), base.Bodies...)
	params.apply(&cfg)
	cfg.Compositor.TextureSize = cfg.Field.Size

	sc, err := scene.New(&cfg, scene.Options{})
	if err != nil {
		slog.Warn("rejected parameters", "error", err)
		return nil
	}
	return sc
}

// yamlSnippet renders the tuned sections as YAML.
func yamlSnippet(base *config.Config, params previewParams) string {
	cfg := *base
	params.apply(&cfg)
	out, err := yaml.Marshal(struct {
		Field      config.FieldConfig      `yaml:"field"`
		Pointer    config.PointerConfig    `yaml:"pointer"`
		Compositor config.CompositorConfig `yaml:"compositor"`
	}{cfg.Field, cfg.Pointer, cfg.Compositor})
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

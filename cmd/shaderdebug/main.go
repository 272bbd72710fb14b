// Shader debug tool - renders the water shader over a simulated surface to a
// PNG file, next to the CPU compositor's rendering of the same state.
//
// Usage: go run ./cmd/shaderdebug -ticks 120 -out gpu.png -cpu-out cpu.png
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/renderer"
	"github.com/pthm-cable/ripple/scene"
	"github.com/pthm-cable/ripple/surface"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	shaderPath := flag.String("shader", "", "Path to fragment shader (empty = use config)")
	outPath := flag.String("out", "debug.png", "Output PNG path for the shader render")
	cpuOut := flag.String("cpu-out", "", "Optional PNG path for the CPU compositor render")
	rawOut := flag.String("raw-out", "", "Optional PNG path for the raw displacement buffer")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	ticks := flag.Int("ticks", 60, "Simulation ticks before rendering")
	splash := flag.Bool("splash", true, "Splash every body before simulating")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *shaderPath != "" {
		cfg.Compositor.ShaderPath = *shaderPath
	}

	sc, err := scene.New(cfg, scene.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create scene: %v\n", err)
		os.Exit(1)
	}
	if *splash {
		sc.Splash()
	}
	for i := 0; i < *ticks; i++ {
		sc.Step()
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	water := renderer.NewWaterSurface(cfg.Compositor, int32(*width), int32(*height))
	water.Init()
	defer water.Unload()
	water.Sync(sc.Field())

	// Create render texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	// Render shader to texture
	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	water.Draw(float32(sc.Time()))
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	// Export to PNG
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Shader rendered to: %s (%dx%d, tick %d, %d ripples)\n",
		*outPath, *width, *height, sc.Tick(), sc.Field().Len())

	if *cpuOut != "" {
		cpu := image.NewRGBA(image.Rect(0, 0, *width, *height))
		sc.Compositor().Render(sc.Field().Buffer(), cpu, sc.Time())
		if err := surface.WritePNG(*cpuOut, cpu); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write CPU render: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("CPU compositor rendered to: %s\n", *cpuOut)
	}

	if *rawOut != "" {
		if err := surface.WritePNG(*rawOut, surface.BufferImage(sc.Field().Buffer())); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write displacement buffer: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Displacement buffer written to: %s\n", *rawOut)
	}
}

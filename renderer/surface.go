// Package renderer draws the water surface and floating bodies with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/systems"
)

// BufferReader yields the displacement buffer and whether it changed since
// the previous read.
type BufferReader interface {
	ReadBuffer() (systems.DisplacementBuffer, bool)
}

// WaterSurface draws the displacement buffer through the water shader.
type WaterSurface struct {
	shader        rl.Shader
	timeLoc       int32
	resolutionLoc int32
	strengthLoc   int32

	// Displacement texture
	dispTex rl.Texture2D
	texSize int
	uploads int

	shaderPath       string
	strength         float32
	screenW, screenH float32
	initialized      bool
}

// NewWaterSurface creates a water surface renderer.
func NewWaterSurface(cfg config.CompositorConfig, screenW, screenH int32) *WaterSurface {
	return &WaterSurface{
		shaderPath: cfg.ShaderPath,
		strength:   float32(cfg.Strength),
		texSize:    cfg.TextureSize,
		screenW:    float32(screenW),
		screenH:    float32(screenH),
	}
}

// Init initializes the renderer (must be called after raylib window is created).
func (w *WaterSurface) Init() {
	if w.initialized {
		return
	}

	img := rl.GenImageColor(w.texSize, w.texSize, rl.NewColor(systems.Neutral, systems.Neutral, systems.Neutral, 255))
	w.dispTex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(w.dispTex, rl.FilterBilinear)
	rl.SetTextureWrap(w.dispTex, rl.WrapClamp)
	rl.UnloadImage(img)

	w.shader = rl.LoadShader("", w.shaderPath)
	w.timeLoc = rl.GetShaderLocation(w.shader, "uTime")
	w.resolutionLoc = rl.GetShaderLocation(w.shader, "uResolution")
	w.strengthLoc = rl.GetShaderLocation(w.shader, "uStrength")

	rl.SetShaderValue(w.shader, w.strengthLoc, []float32{w.strength}, rl.ShaderUniformFloat)

	w.initialized = true
}

// Sync uploads the buffer to the GPU if it changed. Returns true on upload.
func (w *WaterSurface) Sync(src BufferReader) bool {
	if !w.initialized {
		w.Init()
	}
	buf, dirty := src.ReadBuffer()
	if !dirty || buf.Size != w.texSize {
		return false
	}
	rl.UpdateTexture(w.dispTex, buf.Pix)
	w.uploads++
	return true
}

// Resize updates screen dimensions. The texture keeps its size.
func (w *WaterSurface) Resize(width, height float32) {
	if width == w.screenW && height == w.screenH {
		return
	}
	w.screenW = width
	w.screenH = height
}

// Draw renders the shaded surface over the whole screen.
func (w *WaterSurface) Draw(time float32) {
	if !w.initialized {
		return
	}

	rl.SetShaderValue(w.shader, w.resolutionLoc, []float32{w.screenW, w.screenH}, rl.ShaderUniformVec2)
	rl.SetShaderValue(w.shader, w.timeLoc, []float32{time}, rl.ShaderUniformFloat)

	rl.BeginShaderMode(w.shader)
	rl.DrawTexturePro(w.dispTex, w.sourceRect(), w.screenRect(), rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
}

// DrawRaw draws the displacement texture without shading, for debugging.
func (w *WaterSurface) DrawRaw(dst rl.Rectangle) {
	if !w.initialized {
		return
	}
	rl.DrawTexturePro(w.dispTex, w.sourceRect(), dst, rl.Vector2{}, 0, rl.White)
}

// sourceRect flips the texture so the last buffer row (v near 1) is on top.
func (w *WaterSurface) sourceRect() rl.Rectangle {
	return rl.Rectangle{X: 0, Y: 0, Width: float32(w.texSize), Height: -float32(w.texSize)}
}

func (w *WaterSurface) screenRect() rl.Rectangle {
	return rl.Rectangle{X: 0, Y: 0, Width: w.screenW, Height: w.screenH}
}

// Uploads returns how many times the texture was refreshed.
func (w *WaterSurface) Uploads() int {
	return w.uploads
}

// Unload frees GPU resources.
func (w *WaterSurface) Unload() {
	if !w.initialized {
		return
	}
	rl.UnloadShader(w.shader)
	rl.UnloadTexture(w.dispTex)
	w.initialized = false
}

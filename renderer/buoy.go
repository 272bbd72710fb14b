package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/camera"
	"github.com/pthm-cable/ripple/components"
)

// BuoyRenderer draws floating bodies as lit spheres with a soft shadow.
type BuoyRenderer struct {
	shader  rl.Shader
	timeLoc int32

	// 1x1 white texture stretched over each ball so the shader gets 0..1 UVs
	quad rl.Texture2D

	initialized bool
}

// NewBuoyRenderer creates a new body renderer.
func NewBuoyRenderer() *BuoyRenderer {
	return &BuoyRenderer{}
}

// Init initializes the renderer (must be called after raylib window is created).
func (b *BuoyRenderer) Init() {
	if b.initialized {
		return
	}

	img := rl.GenImageColor(1, 1, rl.White)
	b.quad = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	b.shader = rl.LoadShader("", "shaders/buoy.fs")
	b.timeLoc = rl.GetShaderLocation(b.shader, "uTime")

	b.initialized = true
}

// Draw renders every body. Radii follow the viewport height so balls stay round.
func (b *BuoyRenderer) Draw(vp *camera.Viewport, bodies []components.BodyGeometry) {
	if !b.initialized {
		b.Init()
	}

	shadowColor := rl.NewColor(components.ShadowGray, components.ShadowGray, components.ShadowGray,
		uint8(components.ShadowOpacity*255))
	for _, g := range bodies {
		sx, sy := vp.UVToScreen(g.ShadowU, g.ShadowV)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, float32(g.ShadowRadius)*vp.H, shadowColor)
	}

	src := rl.Rectangle{X: 0, Y: 0, Width: 1, Height: 1}
	for _, g := range bodies {
		cx, cy := vp.UVToScreen(g.U, g.V)
		r := float32(g.Radius) * vp.H
		dst := rl.Rectangle{X: cx - r, Y: cy - r, Width: 2 * r, Height: 2 * r}

		// One shader pass per body so each gets its own time uniform.
		rl.SetShaderValue(b.shader, b.timeLoc, []float32{float32(g.ShadeTime)}, rl.ShaderUniformFloat)
		rl.BeginShaderMode(b.shader)
		rl.DrawTexturePro(b.quad, src, dst, rl.Vector2{}, 0, rl.White)
		rl.EndShaderMode()
	}
}

// Unload frees GPU resources.
func (b *BuoyRenderer) Unload() {
	if !b.initialized {
		return
	}
	rl.UnloadShader(b.shader)
	rl.UnloadTexture(b.quad)
	b.initialized = false
}

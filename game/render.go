package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/ui"
)

const controlsLegend = "[Mouse] Stir  [S] Splash  [R] Clear  [Space] Pause  [D] Displacement  [H] Panel  [F11] Fullscreen"

// Draw renders the surface, the floating bodies and the UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	if g.rawView {
		g.water.DrawRaw(rl.Rectangle{Width: g.screenWidth, Height: g.screenHeight})
	} else {
		g.water.Draw(float32(g.scene.Time()))
	}
	g.buoys.Draw(g.viewport, g.scene.Bodies())

	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the HUD and the controls panel.
func (g *Game) drawUI() {
	g.hud.Draw(g.hudData())
	g.applyActions(g.controls.Draw(int32(g.screenWidth), g.paused, g.rawView))
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)
}

// hudData gathers the HUD values for this frame.
func (g *Game) hudData() ui.HUDData {
	field := g.scene.Field()
	data := ui.HUDData{
		Title:        "Ripples",
		Ripples:      field.Len(),
		MaxRipples:   field.Config().MaxRipples,
		Tick:         g.scene.Tick(),
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Splashing:    g.scene.Splashing(),
		Coverage:     g.scene.LastStats().Coverage,
		Dropped:      g.scene.Queue().Dropped(),
		Uploads:      g.water.Uploads(),
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	}
	if len(g.cfg.Bodies) > 0 {
		data.Amplitude = g.cfg.Bodies[0].Amplitude
		data.BodyOffset = g.scene.FirstBodyOffset()
	}
	return data
}

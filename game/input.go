package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/systems"
	"github.com/pthm-cable/ripple/ui"
)

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.setPaused(!g.paused)
	}
	if rl.IsKeyPressed(rl.KeyD) {
		g.rawView = !g.rawView
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.scene.Reset()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.scene.Splash()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.controls.Toggle()
	}

	g.handlePointer()
}

// handlePointer turns mouse motion into pointer samples for the dispatcher.
func (g *Game) handlePointer() {
	if !rl.IsCursorOnScreen() {
		if g.mouseInside {
			// Re-entering elsewhere must not read as one long stroke.
			g.scene.Dispatcher().Reset()
		}
		g.mouseInside = false
		return
	}

	pos := rl.GetMousePosition()
	if g.mouseInside && pos == g.lastMouse {
		return
	}
	g.mouseInside = true
	g.lastMouse = pos

	if g.paused || !g.viewport.Contains(pos.X, pos.Y) {
		return
	}
	u, v := g.viewport.ScreenToUV(pos.X, pos.Y)
	g.scene.Queue().Push(systems.PointerSample{U: u, V: v})
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.viewport.Resize(w, h)
	g.water.Resize(w, h)
}

// applyActions performs the requests raised by the controls panel.
func (g *Game) applyActions(act ui.Action) {
	if act.Has(ui.ActionSplash) {
		g.scene.Splash()
	}
	if act.Has(ui.ActionReset) {
		g.scene.Reset()
	}
	if act.Has(ui.ActionPause) {
		g.setPaused(!g.paused)
	}
	if act.Has(ui.ActionRawView) {
		g.rawView = !g.rawView
	}
}

// setPaused freezes or resumes input. Samples are ignored while paused, so
// the dispatcher forgets its position rather than measuring the first sample
// after resuming against a stale one.
func (g *Game) setPaused(paused bool) {
	if paused && !g.paused {
		g.scene.Dispatcher().Reset()
	}
	g.paused = paused
}

package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Ripples      int
	MaxRipples   int
	Tick         int32
	FPS          int32
	Paused       bool
	Splashing    bool
	BodyOffset   float64 // First body's vertical offset
	Amplitude    float64
	Coverage     float64 // Fraction of the buffer away from neutral, last window
	Dropped      uint64
	Uploads      int
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD panel in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	const width = int32(240)
	padding := r.Theme.Padding
	x, y := padding, padding

	r.DrawPanel(x, y, width, 8*r.Theme.LineHeight+2*padding)
	x += padding
	y += padding / 2

	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d  (%d fps)", data.Tick, data.FPS))

	fill := float32(0)
	if data.MaxRipples > 0 {
		fill = float32(data.Ripples) / float32(data.MaxRipples)
	}
	y = r.DrawBar(x, y, "Ripples", fill, width-2*padding)
	y = r.DrawBar(x, y, "Coverage", float32(data.Coverage), width-2*padding)
	y = r.DrawCenteredBar(x, y, "Body", float32(data.BodyOffset), -float32(data.Amplitude), float32(data.Amplitude), width-2*padding)

	status := "Floating"
	if data.Splashing {
		status = "Splashing"
	}
	if data.Paused {
		status = "PAUSED"
	}
	y = r.DrawLabelValue(x, y, "State", status)
	r.DrawLabelValue(x, y, "Input", fmt.Sprintf("%d dropped, %d uploads", data.Dropped, data.Uploads))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

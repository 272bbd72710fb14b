package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a set of requests raised by the controls panel this frame.
type Action uint8

const (
	ActionReset Action = 1 << iota
	ActionSplash
	ActionPause
	ActionRawView
)

// Has reports whether a is set.
func (a Action) Has(flag Action) bool {
	return a&flag != 0
}

// ControlsPanel renders raygui buttons along the right edge of the screen.
type ControlsPanel struct {
	renderer *Renderer
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the panel and returns the buttons pressed this frame.
func (c *ControlsPanel) Draw(screenWidth int32, paused, rawView bool) Action {
	if !c.visible {
		return 0
	}

	r := c.renderer
	padding := r.Theme.Padding
	buttonH := float32(24)
	x := screenWidth - c.width - padding
	y := padding

	r.DrawPanel(x, y, c.width, 4*int32(buttonH)+5*padding+r.Theme.LineHeight)
	y = r.DrawSectionHeader(x+padding, y+padding/2, "Controls")

	var act Action
	bx := float32(x + padding)
	bw := float32(c.width - 2*padding)
	by := float32(y)
	button := func(label string, flag Action) {
		if gui.Button(rl.NewRectangle(bx, by, bw, buttonH), label) {
			act |= flag
		}
		by += buttonH + float32(padding)
	}

	button("Splash", ActionSplash)
	button("Clear ripples", ActionReset)
	if paused {
		button("Resume", ActionPause)
	} else {
		button("Pause", ActionPause)
	}
	if rawView {
		button("Shaded view", ActionRawView)
	} else {
		button("Displacement view", ActionRawView)
	}
	return act
}

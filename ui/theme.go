// Package ui draws the heads-up display and control panel over the water.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme, tuned for the pale water surface.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 245, G: 247, B: 250, A: 220},
		PanelBorder:     rl.Color{R: 150, G: 160, B: 170, A: 255},
		SectionHeader:   rl.Color{R: 30, G: 70, B: 120, A: 255},
		LabelColor:      rl.DarkGray,
		ValueColor:      rl.Black,
		BarBg:           rl.Color{R: 210, G: 215, B: 220, A: 255},
		BarFill:         rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillPositive: rl.Color{R: 100, G: 170, B: 120, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}

// Package surface shades the displacement buffer into a water image on the CPU.
// It mirrors the fragment shader used by the raylib renderer so headless runs
// and terminal previews see the same surface.
package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/systems"
)

// Shading constants shared with shaders/ripple_surface.fs.
const (
	shadowDepth     = 0.35
	centerTint      = 0.03
	specularGain    = 0.25
	fresnelExponent = 3
	causticGain     = 0.08
	refractionGain  = 0.15
)

var (
	waterBase      = [3]float64{0.95, 0.96, 0.97}
	refractionTint = [3]float64{0.9, 0.95, 1.0}
)

// Compositor turns displacement samples into water colours.
type Compositor struct {
	strength float64
}

// NewCompositor creates a compositor with the configured distortion strength.
func NewCompositor(cfg config.CompositorConfig) *Compositor {
	return &Compositor{strength: cfg.Strength}
}

// Sample bilinearly filters the buffer at (u, v) and returns the R and G
// channels in [0,1], matching a linear texture fetch with clamped edges.
func Sample(buf systems.DisplacementBuffer, u, v float64) (r, g float64) {
	if buf.Size == 0 {
		n := float64(systems.Neutral) / 255
		return n, n
	}
	fx := u*float64(buf.Size) - 0.5
	fy := v*float64(buf.Size) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := buf.At(x0, y0)
	c10 := buf.At(x0+1, y0)
	c01 := buf.At(x0, y0+1)
	c11 := buf.At(x0+1, y0+1)

	r = bilerp(float64(c00.R), float64(c10.R), float64(c01.R), float64(c11.R), tx, ty) / 255
	g = bilerp(float64(c00.G), float64(c10.G), float64(c01.G), float64(c11.G), tx, ty) / 255
	return r, g
}

// Shade returns the surface colour at (u, v) for time uniform t.
func (c *Compositor) Shade(buf systems.DisplacementBuffer, u, v, t float64) color.RGBA {
	r, g := Sample(buf, u, v)

	dx := (r - 0.5) * 2
	dy := (g - 0.5) * 2
	du := u + dx*c.strength
	dv := v + dy*c.strength

	dist := math.Hypot(u-0.5, v-0.5)
	var col [3]float64
	for i := range col {
		col[i] = waterBase[i] + centerTint*(1-dist)
	}

	depth := math.Abs(dx)
	shade := -depth * shadowDepth

	shade += math.Sin(du*40+t*0.6)*0.012 +
		math.Sin(dv*35-t*0.5)*0.012 +
		math.Sin(du*25+dv*25+t*0.4)*0.008

	fresnel := math.Pow(1-depth, fresnelExponent)
	shade += smoothstep(0.4, 0.8, dx) * specularGain * fresnel

	caustic := math.Sin(du*50+t) * math.Sin(dv*50-t*0.7)
	shade += math.Max(0, caustic) * causticGain * (1 - depth)

	refraction := smoothstep(0.2, 0.5, depth) * refractionGain
	for i := range col {
		col[i] += shade + refraction*refractionTint[i]
	}

	return color.RGBA{R: toByte(col[0]), G: toByte(col[1]), B: toByte(col[2]), A: 255}
}

// Render shades every pixel of dst. The top row of dst is the top of the
// surface (v = 1).
func (c *Compositor) Render(buf systems.DisplacementBuffer, dst *image.RGBA, t float64) {
	b := dst.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		v := 1 - (float64(y-b.Min.Y)+0.5)/h
		for x := b.Min.X; x < b.Max.X; x++ {
			u := (float64(x-b.Min.X) + 0.5) / w
			dst.SetRGBA(x, y, c.Shade(buf, u, v, t))
		}
	}
}

func bilerp(c00, c10, c01, c11, tx, ty float64) float64 {
	top := c00 + (c10-c00)*tx
	bottom := c01 + (c11-c01)*tx
	return top + (bottom-top)*ty
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func toByte(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

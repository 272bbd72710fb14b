package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/pthm-cable/ripple/components"
)

// Ball lighting constants shared with the raylib body shader.
const (
	ballExtent = 0.35 // Sphere radius in the units the height gradient is measured in
	rimGain    = 0.35
)

var lightDir = normalize3(0.5, 1.2, 1.0)

// DrawBodies composites each body's shadow and ball over dst. Radii are
// measured against the image height so bodies stay round on any aspect.
func DrawBodies(dst *image.RGBA, bodies []components.BodyGeometry) {
	b := dst.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())

	for _, g := range bodies {
		sx, sy := g.ShadowU*w, (1-g.ShadowV)*h
		sr := g.ShadowRadius * h
		eachPixel(dst, sx, sy, sr, func(x, y int, _, _ float64) {
			blendGray(dst, x, y, components.ShadowGray, components.ShadowOpacity)
		})

		cx, cy := g.U*w, (1-g.V)*h
		r := g.Radius * h
		eachPixel(dst, cx, cy, r, func(x, y int, nx, ny float64) {
			dst.SetRGBA(x, y, ShadeBall(nx, ny))
		})
	}
}

// ShadeBall returns the lit ball colour for a point on the visible disc,
// with nx, ny in [-1,1] and y pointing up.
func ShadeBall(nx, ny float64) color.RGBA {
	nz := math.Sqrt(math.Max(0, 1-nx*nx-ny*ny))

	diffuse := math.Max(nx*lightDir[0]+ny*lightDir[1]+nz*lightDir[2], 0)
	gradient := (ny*ballExtent + 1) * 0.5

	v := (0.95 + diffuse*0.4) * (0.85 + gradient*0.5)
	rim := 1 - nz
	v += rim * rim * rimGain

	c := toByte(v)
	return color.RGBA{R: c, G: c, B: c, A: 255}
}

// eachPixel visits pixels whose centres fall inside the circle, passing the
// unit-disc coordinates of the centre.
func eachPixel(dst *image.RGBA, cx, cy, r float64, fn func(x, y int, nx, ny float64)) {
	if r <= 0 {
		return
	}
	b := dst.Bounds()
	x0 := max(b.Min.X, int(math.Floor(cx-r)))
	x1 := min(b.Max.X, int(math.Ceil(cx+r)))
	y0 := max(b.Min.Y, int(math.Floor(cy-r)))
	y1 := min(b.Max.Y, int(math.Ceil(cy+r)))

	for y := y0; y < y1; y++ {
		ny := (cy - (float64(y) + 0.5)) / r
		for x := x0; x < x1; x++ {
			nx := (float64(x) + 0.5 - cx) / r
			if nx*nx+ny*ny > 1 {
				continue
			}
			fn(x, y, nx, ny)
		}
	}
}

func blendGray(dst *image.RGBA, x, y int, gray uint8, alpha float64) {
	c := dst.RGBAAt(x, y)
	mix := func(a uint8) uint8 {
		return uint8(float64(a)*(1-alpha) + float64(gray)*alpha + 0.5)
	}
	dst.SetRGBA(x, y, color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 255})
}

func normalize3(x, y, z float64) [3]float64 {
	l := math.Sqrt(x*x + y*y + z*z)
	return [3]float64{x / l, y / l, z / l}
}

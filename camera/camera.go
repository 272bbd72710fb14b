// Package camera maps between screen pixels and normalized surface coordinates.
package camera

// Viewport maps a screen-sized window onto the unit water surface.
// Screen y grows downward while surface v grows upward.
type Viewport struct {
	// Viewport dimensions (screen size)
	W, H float32
}

// New creates a viewport for a window of the given size.
func New(w, h float32) *Viewport {
	v := &Viewport{}
	v.Resize(w, h)
	return v
}

// ScreenToUV converts a screen position to surface coordinates in [0,1].
// Positions outside the window are clamped to the surface edge.
func (v *Viewport) ScreenToUV(sx, sy float32) (u, w float64) {
	u = float64(clamp(sx/v.W, 0, 1))
	w = float64(clamp(1-sy/v.H, 0, 1))
	return u, w
}

// UVToScreen converts surface coordinates to a screen position.
func (v *Viewport) UVToScreen(u, w float64) (sx, sy float32) {
	sx = float32(u) * v.W
	sy = (1 - float32(w)) * v.H
	return sx, sy
}

// Contains reports whether a screen position lies inside the window.
func (v *Viewport) Contains(sx, sy float32) bool {
	return sx >= 0 && sy >= 0 && sx < v.W && sy < v.H
}

// Resize updates the window dimensions. The surface itself does not change;
// only the mapping and aspect ratio follow the window.
func (v *Viewport) Resize(w, h float32) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	v.W = w
	v.H = h
}

// Aspect returns width over height.
func (v *Viewport) Aspect() float32 {
	return v.W / v.H
}

// Scale returns the screen pixels covered by one surface unit along each axis.
func (v *Viewport) Scale() (sx, sy float32) {
	return v.W, v.H
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

package components

// Shadow placement relative to the body, matching the drawn ball.
const (
	ShadowScale   = 1.25
	ShadowDrop    = 0.025 // Downward shift in surface units
	ShadowGray    = 0xa0
	ShadowOpacity = 0.5

	// The bob offset is measured in clip units spanning two surface units.
	offsetToSurface = 0.5
)

// BodyGeometry is everything a renderer needs to draw one body for a frame.
type BodyGeometry struct {
	U, V         float64 // Ball centre
	Radius       float64 // Ball radius after the breathing pulse
	ShadowU      float64
	ShadowV      float64
	ShadowRadius float64
	ShadeTime    float64
}

// Geometry returns the body's drawn placement at the detector's current tick.
// Only the ball breathes; the shadow keeps its resting size.
func (f *Float) Geometry() BodyGeometry {
	x, y := f.Detector.Position()
	v := y + f.Detector.Offset()*offsetToSurface
	return BodyGeometry{
		U:            x,
		V:            v,
		Radius:       f.Radius * f.Detector.Scale(),
		ShadowU:      x,
		ShadowV:      v - ShadowDrop,
		ShadowRadius: f.Radius * ShadowScale,
		ShadeTime:    f.Detector.ShadeTime(),
	}
}

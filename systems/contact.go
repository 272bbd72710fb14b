package systems

import (
	"math"

	"github.com/pthm-cable/ripple/config"
)

// ContactState is the water-line state of a floating body.
type ContactState uint8

const (
	Floating  ContactState = iota // Above the band or rising
	Splashing                     // Descending through the contact band
)

func (s ContactState) String() string {
	if s == Splashing {
		return "splashing"
	}
	return "floating"
}

// Breathing pulse applied to the drawn body.
const (
	pulseSpeed     = 0.015
	pulseAmplitude = 0.012
	shadeTimeScale = 0.01
)

// BodyContactDetector watches an oscillating body and emits a splash burst
// when it descends through the water line.
type BodyContactDetector struct {
	cfg config.ContactConfig

	// Horizontal placement is fixed; only the offset moves.
	x, y         float64
	amplitude    float64
	angularSpeed float64

	tick           int
	offset         float64
	previousOffset float64
	state          ContactState
	bursts         int
}

// NewBodyContactDetector creates a detector for one floating body.
func NewBodyContactDetector(cfg config.ContactConfig, body config.BodyConfig) *BodyContactDetector {
	return &BodyContactDetector{
		cfg:          cfg,
		x:            body.X,
		y:            body.Y,
		amplitude:    body.Amplitude,
		angularSpeed: body.AngularSpeed,
	}
}

// Update advances the oscillation by one tick and returns the number of spawns.
func (d *BodyContactDetector) Update(s Spawner) int {
	tick := d.tick + 1
	offset := d.amplitude * math.Sin(float64(tick)*d.angularSpeed)
	return d.Step(tick, offset, s)
}

// Step records the body's offset at tick and fires a burst when the body is
// moving down inside the contact band on a throttled tick.
func (d *BodyContactDetector) Step(tick int, offset float64, s Spawner) int {
	d.tick = tick
	d.previousOffset = d.offset
	d.offset = offset

	movingDown := d.offset < d.previousOffset
	inBand := d.offset > d.cfg.BandLow && d.offset < d.cfg.BandHigh

	if !(movingDown && inBand) {
		d.state = Floating
		return 0
	}
	d.state = Splashing

	if d.cfg.Throttle < 1 || tick%d.cfg.Throttle != 0 {
		return 0
	}
	return d.Splash(s)
}

// Splash emits one burst at the body's position regardless of its motion.
func (d *BodyContactDetector) Splash(s Spawner) int {
	d.bursts++
	return d.splash(s)
}

// splash emits the outer ring, the centre and the staggered inner ring.
func (d *BodyContactDetector) splash(s Spawner) int {
	c := d.cfg
	n := 0

	for i := 0; i < c.OuterCount; i++ {
		angle := float64(i) / float64(c.OuterCount) * 2 * math.Pi
		s.Spawn(d.x+math.Cos(angle)*c.OuterRadius, d.y+math.Sin(angle)*c.OuterRadius, c.OuterMomentum)
		n++
	}

	s.Spawn(d.x, d.y, c.CenterMomentum)
	n++

	if c.InnerCount > 0 {
		halfSector := math.Pi / float64(c.InnerCount)
		for i := 0; i < c.InnerCount; i++ {
			angle := float64(i)/float64(c.InnerCount)*2*math.Pi + halfSector
			s.Spawn(d.x+math.Cos(angle)*c.InnerRadius, d.y+math.Sin(angle)*c.InnerRadius, c.InnerMomentum)
			n++
		}
	}
	return n
}

// State returns the current contact state.
func (d *BodyContactDetector) State() ContactState { return d.state }

// Offset returns the body's current vertical offset.
func (d *BodyContactDetector) Offset() float64 { return d.offset }

// Ticks returns the detector's tick counter.
func (d *BodyContactDetector) Ticks() int { return d.tick }

// Bursts returns the number of splash bursts emitted so far.
func (d *BodyContactDetector) Bursts() int { return d.bursts }

// Position returns the body's fixed surface position.
func (d *BodyContactDetector) Position() (x, y float64) { return d.x, d.y }

// Scale returns the breathing scale of the drawn body.
func (d *BodyContactDetector) Scale() float64 {
	return 1 + math.Sin(float64(d.tick)*pulseSpeed)*pulseAmplitude
}

// ShadeTime returns the time uniform for the body's own shading.
func (d *BodyContactDetector) ShadeTime() float64 {
	return float64(d.tick) * shadeTimeScale
}

// Package systems implements the ripple field and the triggers that spawn into it.
package systems

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"runtime"

	"github.com/pthm-cable/ripple/config"
)

// Neutral is the channel value that encodes zero displacement.
const Neutral uint8 = 127

// neutralColor is the clear colour of the displacement buffer.
var neutralColor = color.RGBA{R: Neutral, G: Neutral, B: Neutral, A: 255}

// ErrInvalidConfig is returned by NewRippleField for unusable field parameters.
var ErrInvalidConfig = errors.New("invalid ripple field config")

// Spawner accepts ripple spawn requests in normalized surface coordinates.
type Spawner interface {
	Spawn(u, v, momentum float64)
}

// Ripple is a single decaying circular disturbance.
type Ripple struct {
	U, V       float64 // Origin in [0,1]x[0,1]
	Age        float64 // Accumulated simulation time
	BaseRadius float64 // Starting radius in normalized units
	Momentum   float64 // Spawn strength multiplier
}

// FieldStats holds lifetime counters for a ripple field.
type FieldStats struct {
	Spawned uint64 // Spawn calls accepted
	Evicted uint64 // Ripples removed by the FIFO bound
	Expired uint64 // Ripples removed for exceeding MaxAge
	Ticks   uint64
}

// DisplacementBuffer is a square grid of RGBA samples. Row y holds samples for
// v = (y+0.5)/Size. R and G carry the displacement, B mirrors it and A is opaque.
type DisplacementBuffer struct {
	Size int
	Pix  []color.RGBA
}

// At returns the sample at (x, y). Out-of-range coordinates are clamped to the edge.
func (b DisplacementBuffer) At(x, y int) color.RGBA {
	x = clampInt(x, 0, b.Size-1)
	y = clampInt(y, 0, b.Size-1)
	return b.Pix[y*b.Size+x]
}

// Displacement decodes the signed displacement vector stored at (x, y).
func (b DisplacementBuffer) Displacement(x, y int) (dx, dy float64) {
	c := b.At(x, y)
	return DecodeChannel(c.R), DecodeChannel(c.G)
}

// DecodeChannel maps a stored channel value to a signed displacement in [-1, 1].
func DecodeChannel(c uint8) float64 {
	return (float64(c)/255.0 - 0.5) * 2
}

// RippleField owns the active ripples and the displacement buffer they are
// rasterized into. All methods are meant to be called from a single goroutine.
type RippleField struct {
	cfg     config.FieldConfig
	ripples []Ripple
	buf     DisplacementBuffer

	// Per-tick scratch, reused to avoid allocation
	stamps []rippleStamp

	workers int
	dirty   bool
	stats   FieldStats
}

// NewRippleField validates cfg and creates a field with a neutral buffer.
func NewRippleField(cfg config.FieldConfig) (*RippleField, error) {
	switch {
	case cfg.Size <= 0:
		return nil, fmt.Errorf("%w: size must be > 0, got %d", ErrInvalidConfig, cfg.Size)
	case cfg.MaxAge <= 0:
		return nil, fmt.Errorf("%w: max age must be > 0, got %g", ErrInvalidConfig, cfg.MaxAge)
	case cfg.MaxRipples < 1:
		return nil, fmt.Errorf("%w: max ripples must be >= 1, got %d", ErrInvalidConfig, cfg.MaxRipples)
	case cfg.BaseRadius <= 0:
		return nil, fmt.Errorf("%w: base radius must be > 0, got %g", ErrInvalidConfig, cfg.BaseRadius)
	case cfg.AgeRate < 0:
		return nil, fmt.Errorf("%w: age rate must be >= 0, got %g", ErrInvalidConfig, cfg.AgeRate)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.Size {
		workers = cfg.Size
	}

	rf := &RippleField{
		cfg:     cfg,
		ripples: make([]Ripple, 0, cfg.MaxRipples+1),
		buf: DisplacementBuffer{
			Size: cfg.Size,
			Pix:  make([]color.RGBA, cfg.Size*cfg.Size),
		},
		stamps:  make([]rippleStamp, 0, cfg.MaxRipples),
		workers: workers,
	}
	rf.clear()
	rf.dirty = true
	return rf, nil
}

// Config returns the field's construction parameters.
func (rf *RippleField) Config() config.FieldConfig {
	return rf.cfg
}

// Spawn appends a ripple at (u, v). Coordinates are clamped to [0,1] and a
// non-positive momentum becomes 1. When the FIFO bound is exceeded the oldest
// ripple is evicted.
func (rf *RippleField) Spawn(u, v, momentum float64) {
	if !(momentum > 0) {
		momentum = 1
	}
	rf.ripples = append(rf.ripples, Ripple{
		U:          clampUnit(u),
		V:          clampUnit(v),
		BaseRadius: rf.cfg.BaseRadius,
		Momentum:   momentum,
	})
	rf.stats.Spawned++

	if len(rf.ripples) > rf.cfg.MaxRipples {
		copy(rf.ripples, rf.ripples[1:])
		rf.ripples = rf.ripples[:len(rf.ripples)-1]
		rf.stats.Evicted++
	}
}

// Tick ages every ripple by AgeRate, drops expired ones and rewrites the buffer.
func (rf *RippleField) Tick() {
	kept := rf.ripples[:0]
	for _, r := range rf.ripples {
		r.Age += rf.cfg.AgeRate
		if r.Age > rf.cfg.MaxAge {
			rf.stats.Expired++
			continue
		}
		kept = append(kept, r)
	}
	rf.ripples = kept
	rf.stats.Ticks++

	rf.rasterize()
	rf.dirty = true
}

// ReadBuffer returns the current buffer and whether it changed since the last
// read. The view must not be modified and is valid until the next Tick.
func (rf *RippleField) ReadBuffer() (DisplacementBuffer, bool) {
	dirty := rf.dirty
	rf.dirty = false
	return rf.buf, dirty
}

// Buffer returns the current buffer without acknowledging the dirty flag.
func (rf *RippleField) Buffer() DisplacementBuffer {
	return rf.buf
}

// Ripples returns a copy of the active ripples in spawn order.
func (rf *RippleField) Ripples() []Ripple {
	out := make([]Ripple, len(rf.ripples))
	copy(out, rf.ripples)
	return out
}

// Len returns the number of active ripples.
func (rf *RippleField) Len() int {
	return len(rf.ripples)
}

// Stats returns lifetime counters.
func (rf *RippleField) Stats() FieldStats {
	return rf.stats
}

// Reset drops all ripples and clears the buffer.
func (rf *RippleField) Reset() {
	rf.ripples = rf.ripples[:0]
	rf.clear()
	rf.dirty = true
}

// clear fills the buffer with the neutral colour.
func (rf *RippleField) clear() {
	for i := range rf.buf.Pix {
		rf.buf.Pix[i] = neutralColor
	}
}

func clampUnit(x float64) float64 {
	if math.IsNaN(x) {
		return 0.5
	}
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Package telemetry provides ripple field statistics, performance timing and CSV output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/ripple/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	pointerSpawns int
	burstSpawns   int
	bursts        int

	// Lifetime counters seen at the last flush, for per-window deltas
	lastField   systems.FieldStats
	lastDropped uint64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordPointerSpawns records ripples spawned by pointer motion.
func (c *Collector) RecordPointerSpawns(n int) {
	c.pointerSpawns += n
}

// RecordBurst records one splash burst of n ripples.
func (c *Collector) RecordBurst(n int) {
	if n <= 0 {
		return
	}
	c.bursts++
	c.burstSpawns += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// FieldSnapshot is the field state the caller samples at flush time.
type FieldSnapshot struct {
	Active  int
	Stats   systems.FieldStats
	Dropped uint64 // Lifetime pointer samples dropped by the input queue
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, field FieldSnapshot, disp DisplacementStats) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		ActiveRipples: field.Active,

		PointerSpawns: c.pointerSpawns,
		BurstSpawns:   c.burstSpawns,
		Bursts:        c.bursts,
		Evicted:       field.Stats.Evicted - c.lastField.Evicted,
		Expired:       field.Stats.Expired - c.lastField.Expired,
		DroppedInput:  field.Dropped - c.lastDropped,

		DispMean: disp.Mean,
		DispStd:  disp.Std,
		DispP50:  disp.P50,
		DispP90:  disp.P90,
		DispMax:  disp.Max,
		Coverage: disp.Coverage,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.pointerSpawns = 0
	c.burstSpawns = 0
	c.bursts = 0
	c.lastField = field.Stats
	c.lastDropped = field.Dropped

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

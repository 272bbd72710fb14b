// Package scene wires the ripple field, its triggers and telemetry into one
// per-frame step that every front end drives.
package scene

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/components"
	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/surface"
	"github.com/pthm-cable/ripple/systems"
	"github.com/pthm-cable/ripple/telemetry"
)

// Scene owns the water surface state and advances it one tick at a time.
// It is not safe for concurrent use; only the pointer queue may be fed from
// another goroutine.
type Scene struct {
	cfg *config.Config

	// ECS
	world      *ecs.World
	bodyMapper *ecs.Map1[components.Float]
	bodyFilter *ecs.Filter1[components.Float]
	bodyCount  int

	field      *systems.RippleField
	dispatcher *systems.InputDispatcher
	compositor *surface.Compositor

	tick int32
	time float64 // Compositor time uniform

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	lastStats     telemetry.WindowStats
	statsCallback func(telemetry.WindowStats)
	logStats      bool
}

// Options configures optional scene behaviour.
type Options struct {
	Output   *telemetry.OutputManager // nil disables CSV output
	LogStats bool                     // Log each telemetry window with slog
}

// New creates a scene with one floating body per configured body.
func New(cfg *config.Config, opts Options) (*Scene, error) {
	field, err := systems.NewRippleField(cfg.Field)
	if err != nil {
		return nil, fmt.Errorf("creating ripple field: %w", err)
	}

	world := ecs.NewWorld()
	s := &Scene{
		cfg:        cfg,
		world:      world,
		bodyMapper: ecs.NewMap1[components.Float](world),
		bodyFilter: ecs.NewFilter1[components.Float](world),
		field:      field,
		dispatcher: systems.NewInputDispatcher(cfg.Pointer),
		compositor: surface.NewCompositor(cfg.Compositor),
		collector:  telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.TickDT),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:     opts.Output,
		logStats:   opts.LogStats,
	}

	for _, b := range cfg.Bodies {
		s.AddBody(b)
	}
	return s, nil
}

// AddBody places a new floating body on the surface.
func (s *Scene) AddBody(b config.BodyConfig) ecs.Entity {
	fl := components.Float{
		Detector: systems.NewBodyContactDetector(s.cfg.Contact, b),
		Radius:   b.Radius,
	}
	s.bodyCount++
	return s.bodyMapper.NewEntity(&fl)
}

// RemoveBody removes a floating body. Removing a body twice is a no-op.
func (s *Scene) RemoveBody(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	s.world.RemoveEntity(e)
	s.bodyCount--
}

// Step runs one tick: body contact, pointer input, field aging and
// rasterization, then the time uniform and telemetry.
func (s *Scene) Step() {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseContact)
	query := s.bodyFilter.Query()
	for query.Next() {
		fl := query.Get()
		if n := fl.Detector.Update(s.field); n > 0 {
			s.collector.RecordBurst(n)
		}
	}

	s.perf.StartPhase(telemetry.PhasePointer)
	s.collector.RecordPointerSpawns(s.dispatcher.Flush(s.field))

	s.perf.StartPhase(telemetry.PhaseField)
	s.field.Tick()

	s.time += s.cfg.Compositor.TimeStep
	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perf.EndTick(s.field.Len())
}

// flushTelemetry emits a window summary when the current window is complete.
func (s *Scene) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	snap := telemetry.FieldSnapshot{
		Active:  s.field.Len(),
		Stats:   s.field.Stats(),
		Dropped: s.dispatcher.Queue().Dropped(),
	}
	disp := telemetry.ComputeDisplacementStats(s.field.Buffer(), s.cfg.Telemetry.SampleStride)
	stats := s.collector.Flush(s.tick, snap, disp)
	s.lastStats = stats

	perfStats := s.perf.Stats()
	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if err := s.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := s.output.WritePerf(perfStats, s.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if s.statsCallback != nil {
		s.statsCallback(stats)
	}
}

// Splash fires a burst at every body immediately.
func (s *Scene) Splash() int {
	total := 0
	query := s.bodyFilter.Query()
	for query.Next() {
		fl := query.Get()
		n := fl.Detector.Splash(s.field)
		s.collector.RecordBurst(n)
		total += n
	}
	return total
}

// Reset clears every ripple and forgets the pointer position.
func (s *Scene) Reset() {
	s.field.Reset()
	s.dispatcher.Reset()
}

// Bodies returns the drawn geometry of every body for the current tick.
func (s *Scene) Bodies() []components.BodyGeometry {
	out := make([]components.BodyGeometry, 0, s.bodyCount)
	query := s.bodyFilter.Query()
	for query.Next() {
		fl := query.Get()
		out = append(out, fl.Geometry())
	}
	return out
}

// Splashing reports whether any body is inside the contact band moving down.
func (s *Scene) Splashing() bool {
	splashing := false
	query := s.bodyFilter.Query()
	for query.Next() {
		fl := query.Get()
		if fl.Detector.State() == systems.Splashing {
			splashing = true
		}
	}
	return splashing
}

// FirstBodyOffset returns the vertical offset of the oldest body, or 0.
func (s *Scene) FirstBodyOffset() float64 {
	offset, found := 0.0, false
	query := s.bodyFilter.Query()
	for query.Next() {
		fl := query.Get()
		if !found {
			offset, found = fl.Detector.Offset(), true
		}
	}
	return offset
}

// Render shades the surface and draws the bodies into dst on the CPU.
func (s *Scene) Render(dst *image.RGBA) {
	s.compositor.Render(s.field.Buffer(), dst, s.time)
	surface.DrawBodies(dst, s.Bodies())
}

// SetStatsCallback sets a function called whenever a telemetry window closes.
func (s *Scene) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Field returns the ripple field.
func (s *Scene) Field() *systems.RippleField { return s.field }

// Queue returns the pointer sample queue producers push into.
func (s *Scene) Queue() *systems.PointerQueue { return s.dispatcher.Queue() }

// Dispatcher returns the pointer input dispatcher.
func (s *Scene) Dispatcher() *systems.InputDispatcher { return s.dispatcher }

// Compositor returns the CPU compositor.
func (s *Scene) Compositor() *surface.Compositor { return s.compositor }

// Tick returns the number of completed steps.
func (s *Scene) Tick() int32 { return s.tick }

// Time returns the compositor time uniform.
func (s *Scene) Time() float64 { return s.time }

// BodyCount returns the number of floating bodies.
func (s *Scene) BodyCount() int { return s.bodyCount }

// Perf returns the performance collector.
func (s *Scene) Perf() *telemetry.PerfCollector { return s.perf }

// LastStats returns the most recently flushed telemetry window.
func (s *Scene) LastStats() telemetry.WindowStats { return s.lastStats }

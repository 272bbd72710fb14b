package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed stage of a scene step.
type Phase int

const (
	PhaseContact Phase = iota
	PhasePointer
	PhaseField
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"contact", "pointer", "field", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// stepTiming is the cost of one scene step.
type stepTiming struct {
	total   time.Duration
	phases  [numPhases]time.Duration
	ripples int // Active ripples rasterized in the field phase
}

// PerfCollector keeps step timings for the last window of ticks. It is
// driven from the step goroutine only.
type PerfCollector struct {
	ring  []stepTiming
	next  int
	count int

	cur       stepTiming
	started   time.Time
	mark      time.Time
	current   Phase
	hasPhase  bool
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]stepTiming, window)}
}

// StartTick begins timing a scene step.
func (p *PerfCollector) StartTick() {
	p.started = time.Now()
	p.cur = stepTiming{}
	p.hasPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.current, p.mark, p.hasPhase = phase, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.hasPhase && p.current >= 0 && p.current < numPhases {
		p.cur.phases[p.current] += now.Sub(p.mark)
	}
}

// EndTick closes the step and records how many ripples the field held.
func (p *PerfCollector) EndTick(ripples int) {
	now := time.Now()
	p.closePhase(now)
	p.hasPhase = false
	p.cur.total = now.Sub(p.started)
	p.cur.ripples = ripples

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks a presented frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the window of recorded steps.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64 // Share of the average step

	// Field phase cost divided by the ripples it rasterized.
	AvgRipples     float64
	FieldPerRipple time.Duration

	TicksPerSecond float64
	FrameDuration  time.Duration
	FPS            float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		st.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return st
	}

	var total time.Duration
	var phases [numPhases]time.Duration
	ripples := 0
	for i, s := range p.ring[:p.count] {
		total += s.total
		if i == 0 || s.total < st.MinTick {
			st.MinTick = s.total
		}
		st.MaxTick = max(st.MaxTick, s.total)
		for ph, d := range s.phases {
			phases[ph] += d
		}
		ripples += s.ripples
	}

	n := time.Duration(p.count)
	st.AvgTick = total / n
	for ph := range phases {
		st.PhaseAvg[ph] = phases[ph] / n
		if st.AvgTick > 0 {
			st.PhasePct[ph] = float64(st.PhaseAvg[ph]) / float64(st.AvgTick) * 100
		}
	}
	st.AvgRipples = float64(ripples) / float64(p.count)
	if ripples > 0 {
		st.FieldPerRipple = phases[PhaseField] / time.Duration(ripples)
	}
	if st.AvgTick > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgTick)
	}
	return st
}

// LogStats logs the window with slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Float64("ripples", s.AvgRipples),
		slog.Int64("field_ns_per_ripple", s.FieldPerRipple.Nanoseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd        int32   `csv:"window_end"`
	AvgTickUS        int64   `csv:"avg_tick_us"`
	MinTickUS        int64   `csv:"min_tick_us"`
	MaxTickUS        int64   `csv:"max_tick_us"`
	TicksPerSec      float64 `csv:"ticks_per_sec"`
	FPS              float64 `csv:"fps"`
	AvgRipples       float64 `csv:"avg_ripples"`
	FieldNSPerRipple int64   `csv:"field_ns_per_ripple"`
	ContactPct       float64 `csv:"contact_pct"`
	PointerPct       float64 `csv:"pointer_pct"`
	FieldPct         float64 `csv:"field_pct"`
	TelemetryPct     float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:        windowEnd,
		AvgTickUS:        s.AvgTick.Microseconds(),
		MinTickUS:        s.MinTick.Microseconds(),
		MaxTickUS:        s.MaxTick.Microseconds(),
		TicksPerSec:      s.TicksPerSecond,
		FPS:              s.FPS,
		AvgRipples:       s.AvgRipples,
		FieldNSPerRipple: s.FieldPerRipple.Nanoseconds(),
		ContactPct:       s.PhasePct[PhaseContact],
		PointerPct:       s.PhasePct[PhasePointer],
		FieldPct:         s.PhasePct[PhaseField],
		TelemetryPct:     s.PhasePct[PhaseTelemetry],
	}
}

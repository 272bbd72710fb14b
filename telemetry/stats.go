package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ripple/systems"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Field state at window end
	ActiveRipples int `csv:"active_ripples"`

	// Events during window
	PointerSpawns int    `csv:"pointer_spawns"`
	BurstSpawns   int    `csv:"burst_spawns"`
	Bursts        int    `csv:"bursts"`
	Evicted       uint64 `csv:"evicted"`
	Expired       uint64 `csv:"expired"`
	DroppedInput  uint64 `csv:"dropped_input"`

	// Displacement distribution (sampled at window end)
	DispMean float64 `csv:"disp_mean"`
	DispStd  float64 `csv:"disp_std"`
	DispP50  float64 `csv:"disp_p50"`
	DispP90  float64 `csv:"disp_p90"`
	DispMax  float64 `csv:"disp_max"`
	Coverage float64 `csv:"coverage"`
}

// DisplacementStats summarizes the magnitude of the displacement buffer.
type DisplacementStats struct {
	Mean     float64
	Std      float64
	P50      float64
	P90      float64
	Max      float64
	Coverage float64 // Fraction of samples away from neutral
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDisplacementStats samples every stride-th texel in both directions
// and summarizes the decoded displacement magnitudes.
func ComputeDisplacementStats(buf systems.DisplacementBuffer, stride int) DisplacementStats {
	if buf.Size == 0 || len(buf.Pix) == 0 {
		return DisplacementStats{}
	}
	if stride < 1 {
		stride = 1
	}

	n := (buf.Size + stride - 1) / stride
	mags := make([]float64, 0, n*n)
	active := 0
	for y := 0; y < buf.Size; y += stride {
		for x := 0; x < buf.Size; x += stride {
			c := buf.At(x, y)
			if c.R != systems.Neutral || c.G != systems.Neutral {
				active++
			}
			dx, dy := buf.Displacement(x, y)
			mags = append(mags, math.Hypot(dx, dy))
		}
	}

	mean, std := stat.MeanStdDev(mags, nil)
	sort.Float64s(mags)

	return DisplacementStats{
		Mean:     mean,
		Std:      std,
		P50:      Percentile(mags, 0.50),
		P90:      Percentile(mags, 0.90),
		Max:      mags[len(mags)-1],
		Coverage: float64(active) / float64(len(mags)),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("active_ripples", s.ActiveRipples),
		slog.Int("pointer_spawns", s.PointerSpawns),
		slog.Int("burst_spawns", s.BurstSpawns),
		slog.Int("bursts", s.Bursts),
		slog.Uint64("evicted", s.Evicted),
		slog.Uint64("expired", s.Expired),
		slog.Uint64("dropped_input", s.DroppedInput),
		slog.Float64("disp_mean", s.DispMean),
		slog.Float64("disp_std", s.DispStd),
		slog.Float64("disp_p50", s.DispP50),
		slog.Float64("disp_p90", s.DispP90),
		slog.Float64("disp_max", s.DispMax),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"active_ripples", s.ActiveRipples,
		"pointer_spawns", s.PointerSpawns,
		"burst_spawns", s.BurstSpawns,
		"bursts", s.Bursts,
		"evicted", s.Evicted,
		"expired", s.Expired,
		"dropped_input", s.DroppedInput,
		"disp_mean", s.DispMean,
		"disp_p90", s.DispP90,
		"coverage", s.Coverage,
	)
}

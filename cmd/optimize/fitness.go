package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/scene"
	"github.com/pthm-cable/ripple/systems"
	"github.com/pthm-cable/ripple/telemetry"
)

// Targets describe the surface the calibration steers toward.
type Targets struct {
	Coverage float64 // Fraction of the buffer away from neutral
	DispMean float64 // Mean displacement magnitude
}

// FitnessEvaluator runs headless scenes driven by scripted pointer strokes
// and scores how close their telemetry lands to the targets.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int32
	seeds      []int64
	baseConfig *config.Config
	targets    Targets

	mu          sync.Mutex
	lastMetrics runMetrics // averaged over seeds for the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int32, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}
}

// LastMetrics returns the seed-averaged metrics of the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() runMetrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// warmupWindows are skipped while the surface fills up.
const warmupWindows = 1

// runMetrics summarizes one headless run.
type runMetrics struct {
	Coverage   float64 // Mean coverage over scored windows
	DispMean   float64 // Mean displacement over scored windows
	CoverageCV float64 // Coefficient of variation of coverage
	Windows    int
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runMetrics, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runMetrics
	total := 0.0
	for _, r := range results {
		total += fe.score(r)
		avg.Coverage += r.Coverage
		avg.DispMean += r.DispMean
		avg.CoverageCV += r.CoverageCV
		avg.Windows += r.Windows
	}
	n := float64(len(results))
	avg.Coverage /= n
	avg.DispMean /= n
	avg.CoverageCV /= n
	avg.Windows /= len(results)

	fe.mu.Lock()
	fe.lastMetrics = avg
	fe.mu.Unlock()

	return total / n
}

// runSimulation executes a single headless run and summarizes its windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runMetrics {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	sc, err := scene.New(cfg, scene.Options{})
	if err != nil {
		return runMetrics{}
	}

	var windows []telemetry.WindowStats
	sc.SetStatsCallback(func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	})

	stroke := newStroke(seed)
	for sc.Tick() < fe.ticks {
		sc.Queue().Push(stroke.Sample(sc.Tick()))
		sc.Step()
	}
	return summarize(windows)
}

// summarize averages the scored windows of a run.
func summarize(windows []telemetry.WindowStats) runMetrics {
	if len(windows) <= warmupWindows {
		return runMetrics{}
	}
	scored := windows[warmupWindows:]

	coverage := make([]float64, len(scored))
	var disp float64
	for i, w := range scored {
		coverage[i] = w.Coverage
		disp += w.DispMean
	}

	mean, std := stat.MeanStdDev(coverage, nil)
	cv := 0.0
	if mean > 0 && len(coverage) >= 2 {
		cv = std / mean
	}
	return runMetrics{
		Coverage:   mean,
		DispMean:   disp / float64(len(scored)),
		CoverageCV: cv,
		Windows:    len(scored),
	}
}

// Score weights.
const (
	weightCoverage  = 1.0
	weightDispMean  = 1.0
	weightStability = 0.25
)

// failedRunScore is assigned to runs that produced no scored windows.
const failedRunScore = 1e6

// score returns the squared relative error to the targets plus a penalty for
// uneven coverage.
func (fe *FitnessEvaluator) score(m runMetrics) float64 {
	if m.Windows == 0 {
		return failedRunScore
	}
	cov := relErr(m.Coverage, fe.targets.Coverage)
	disp := relErr(m.DispMean, fe.targets.DispMean)
	return weightCoverage*cov*cov + weightDispMean*disp*disp + weightStability*m.CoverageCV*m.CoverageCV
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return got
	}
	return (got - want) / want
}

// copyConfig creates a copy of the base config safe to mutate.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Bodies = append([]config.BodyConfig(nil), fe.baseConfig.Bodies...)
	return &cfg
}

// stroke is a scripted pointer path: a Lissajous figure whose phase and
// frequencies come from the seed.
type stroke struct {
	fx, fy float64 // Cycles per tick
	phase  float64
	radius float64
}

func newStroke(seed int64) *stroke {
	rng := rand.New(rand.NewSource(seed))
	return &stroke{
		fx:     0.004 + rng.Float64()*0.006,
		fy:     0.003 + rng.Float64()*0.006,
		phase:  rng.Float64() * 2 * math.Pi,
		radius: 0.25 + rng.Float64()*0.15,
	}
}

// Sample returns the pointer position at tick.
func (s *stroke) Sample(tick int32) systems.PointerSample {
	t := float64(tick) * 2 * math.Pi
	return systems.PointerSample{
		U: 0.5 + s.radius*math.Sin(t*s.fx+s.phase),
		V: 0.5 + s.radius*math.Sin(t*s.fy),
	}
}

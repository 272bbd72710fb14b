package scene

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/systems"
	"github.com/pthm-cable/ripple/telemetry"
)

func init() {
	config.MustInit("")
}

func newTestScene(t *testing.T, mutate func(*config.Config)) *Scene {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Field.Size = 64
	cfg.Field.Workers = 2
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsInvalidField(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Field.MaxAge = 0

	if _, err := New(cfg, Options{}); !errors.Is(err, systems.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStepAdvancesTimeUniform(t *testing.T) {
	s := newTestScene(t, nil)

	for i := 0; i < 100; i++ {
		s.Step()
	}

	if s.Tick() != 100 {
		t.Errorf("expected 100 ticks, got %d", s.Tick())
	}
	if math.Abs(s.Time()-1.6) > 1e-9 {
		t.Errorf("expected time 1.6, got %v", s.Time())
	}
}

func TestBodyBurstsOverOnePeriod(t *testing.T) {
	s := newTestScene(t, nil)

	for i := 0; i < 800; i++ {
		s.Step()
	}

	stats := s.Field().Stats()
	if stats.Spawned == 0 || stats.Spawned%21 != 0 {
		t.Errorf("expected whole 21-ripple bursts from the body, got %d spawns", stats.Spawned)
	}
	if s.Field().Len() > s.cfg.Field.MaxRipples {
		t.Errorf("field exceeded its bound: %d", s.Field().Len())
	}
}

func TestPointerSpawnRasterizedSameStep(t *testing.T) {
	s := newTestScene(t, func(cfg *config.Config) { cfg.Bodies = nil })
	if s.BodyCount() != 0 {
		t.Fatalf("expected a scene without bodies, got %d", s.BodyCount())
	}

	s.Queue().Push(systems.PointerSample{U: 0.4, V: 0.5})
	s.Queue().Push(systems.PointerSample{U: 0.5, V: 0.5})
	s.Step()

	if s.Field().Len() != 1 {
		t.Fatalf("expected one pointer ripple, got %d", s.Field().Len())
	}
	buf, dirty := s.Field().ReadBuffer()
	if !dirty {
		t.Error("expected dirty buffer after a step")
	}
	if c := buf.At(32, 32); c.R == systems.Neutral {
		t.Error("expected the new ripple to be visible in the same step")
	}
}

func TestStatsCallbackPerWindow(t *testing.T) {
	s := newTestScene(t, nil)

	var windows []telemetry.WindowStats
	s.SetStatsCallback(func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	})

	ticks := s.cfg.Derived.WindowTicks * 2
	for i := 0; i < ticks; i++ {
		s.Step()
	}

	if len(windows) != 2 {
		t.Fatalf("expected 2 telemetry windows, got %d", len(windows))
	}
	if windows[1].WindowStartTick != int32(s.cfg.Derived.WindowTicks) {
		t.Errorf("expected second window to start at %d, got %d", s.cfg.Derived.WindowTicks, windows[1].WindowStartTick)
	}
	if s.LastStats().WindowEndTick != int32(ticks) {
		t.Errorf("expected last stats to end at %d, got %d", ticks, s.LastStats().WindowEndTick)
	}
}

func TestSplashAndReset(t *testing.T) {
	s := newTestScene(t, nil)

	if n := s.Splash(); n != 21 {
		t.Fatalf("expected a 21-ripple burst, got %d", n)
	}
	if s.Field().Len() != s.cfg.Field.MaxRipples {
		t.Errorf("expected the field to be at its bound, got %d", s.Field().Len())
	}

	s.Reset()
	if s.Field().Len() != 0 {
		t.Errorf("expected no ripples after reset, got %d", s.Field().Len())
	}
}

func TestAddBodyAndGeometry(t *testing.T) {
	s := newTestScene(t, nil)
	e := s.AddBody(config.BodyConfig{X: 0.25, Y: 0.75, Amplitude: 0.1, AngularSpeed: 0.01, Radius: 0.05})
	defer func() {
		s.RemoveBody(e)
		if s.BodyCount() != 1 {
			t.Errorf("expected 1 body after removal, got %d", s.BodyCount())
		}
	}()

	if s.BodyCount() != 2 {
		t.Fatalf("expected 2 bodies, got %d", s.BodyCount())
	}
	bodies := s.Bodies()
	if len(bodies) != 2 {
		t.Fatalf("expected 2 geometries, got %d", len(bodies))
	}
	found := false
	for _, g := range bodies {
		if g.U == 0.25 && g.Radius == 0.05 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected geometry for the added body, got %+v", bodies)
	}
}

func TestRemoveBodyTwice(t *testing.T) {
	s := newTestScene(t, nil)
	e := s.AddBody(config.BodyConfig{X: 0.25, Y: 0.75, Amplitude: 0.1, AngularSpeed: 0.01, Radius: 0.05})

	s.RemoveBody(e)
	if s.world.Alive(e) {
		t.Error("expected the removed body's entity to be gone")
	}
	if s.BodyCount() != 1 {
		t.Fatalf("expected 1 body after removal, got %d", s.BodyCount())
	}

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("second removal panicked: %v", r)
		}
	}()
	s.RemoveBody(e)
	if s.BodyCount() != 1 {
		t.Errorf("expected second removal to leave 1 body, got %d", s.BodyCount())
	}
	if got := len(s.Bodies()); got != 1 {
		t.Errorf("expected 1 geometry after removals, got %d", got)
	}
	s.Step()
}

func TestRenderProducesOpaqueImage(t *testing.T) {
	s := newTestScene(t, nil)
	s.Splash()
	s.Step()

	dst := image.NewRGBA(image.Rect(0, 0, 32, 18))
	s.Render(dst)

	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 255 {
			t.Fatalf("expected opaque pixel at byte %d", i)
		}
	}
}

func TestFirstBodyOffsetFollowsDetector(t *testing.T) {
	s := newTestScene(t, nil)
	if s.FirstBodyOffset() != 0 {
		t.Errorf("expected zero offset before the first step, got %v", s.FirstBodyOffset())
	}

	s.Step()
	amp := s.cfg.Bodies[0].Amplitude
	if off := s.FirstBodyOffset(); off == 0 || math.Abs(off) > amp {
		t.Errorf("expected a non-zero offset within the amplitude, got %v", off)
	}

	empty := newTestScene(t, func(cfg *config.Config) { cfg.Bodies = nil })
	if empty.FirstBodyOffset() != 0 {
		t.Error("expected zero offset without bodies")
	}
}

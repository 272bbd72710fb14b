package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/ripple/config"
)

func init() {
	// Initialize config for tests
	config.MustInit("")
}

// spawnCall records a single Spawn invocation.
type spawnCall struct {
	u, v, momentum float64
}

// recordingSpawner captures spawn requests instead of drawing them.
type recordingSpawner struct {
	calls []spawnCall
}

func (r *recordingSpawner) Spawn(u, v, momentum float64) {
	r.calls = append(r.calls, spawnCall{u, v, momentum})
}

func testFieldConfig() config.FieldConfig {
	return config.FieldConfig{
		Size:       64,
		BaseRadius: 0.06,
		MaxAge:     140,
		AgeRate:    0.35,
		MaxRipples: 15,
		Workers:    1,
	}
}

func newTestField(t testing.TB, cfg config.FieldConfig) *RippleField {
	t.Helper()
	rf, err := NewRippleField(cfg)
	if err != nil {
		t.Fatalf("creating field: %v", err)
	}
	return rf
}

func isNeutral(buf DisplacementBuffer) bool {
	for _, p := range buf.Pix {
		if p != neutralColor {
			return false
		}
	}
	return true
}

func TestNewRippleFieldRejectsInvalidConfig(t *testing.T) {
	bad := []config.FieldConfig{
		{Size: 0, BaseRadius: 0.06, MaxAge: 140, AgeRate: 0.35, MaxRipples: 15},
		{Size: 64, BaseRadius: 0.06, MaxAge: 0, AgeRate: 0.35, MaxRipples: 15},
		{Size: 64, BaseRadius: 0.06, MaxAge: 140, AgeRate: 0.35, MaxRipples: 0},
		{Size: 64, BaseRadius: 0, MaxAge: 140, AgeRate: 0.35, MaxRipples: 15},
	}
	for i, cfg := range bad {
		_, err := NewRippleField(cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
}

func TestNewRippleFieldStartsNeutral(t *testing.T) {
	rf := newTestField(t, testFieldConfig())

	buf, dirty := rf.ReadBuffer()
	if !dirty {
		t.Error("expected a fresh field to report a dirty buffer")
	}
	if buf.Size != 64 || len(buf.Pix) != 64*64 {
		t.Fatalf("unexpected buffer shape: size=%d len=%d", buf.Size, len(buf.Pix))
	}
	if !isNeutral(buf) {
		t.Error("expected a fresh buffer to be neutral")
	}
}

func TestSpawnRespectsBound(t *testing.T) {
	cfg := testFieldConfig()
	rf := newTestField(t, cfg)

	for i := 0; i < 100; i++ {
		rf.Spawn(float64(i%10)/10, 0.5, 1)
		if rf.Len() > cfg.MaxRipples {
			t.Fatalf("after spawn %d: %d ripples exceeds bound %d", i, rf.Len(), cfg.MaxRipples)
		}
	}
	if rf.Stats().Evicted != uint64(100-cfg.MaxRipples) {
		t.Errorf("expected %d evictions, got %d", 100-cfg.MaxRipples, rf.Stats().Evicted)
	}
}

func TestSpawnEvictsOldestFirst(t *testing.T) {
	cfg := testFieldConfig()
	rf := newTestField(t, cfg)

	n := cfg.MaxRipples + 1
	for i := 0; i < n; i++ {
		rf.Spawn(float64(i)/float64(n), 0.25, 1)
	}

	ripples := rf.Ripples()
	if len(ripples) != cfg.MaxRipples {
		t.Fatalf("expected %d ripples, got %d", cfg.MaxRipples, len(ripples))
	}
	for _, r := range ripples {
		if r.U == 0 {
			t.Fatal("first-spawned ripple should have been evicted")
		}
	}
	for i, r := range ripples {
		want := float64(i+1) / float64(n)
		if r.U != want {
			t.Errorf("ripple %d: expected u=%g, got %g", i, want, r.U)
		}
	}
}

func TestSpawnClampsAndDefaults(t *testing.T) {
	rf := newTestField(t, testFieldConfig())

	rf.Spawn(-0.5, 1.5, 0)
	rf.Spawn(0.3, 0.7, -2)
	rf.Spawn(math.NaN(), 0.2, math.NaN())
	rf.Spawn(0.4, 0.6, 1.7)

	r := rf.Ripples()
	if r[0].U != 0 || r[0].V != 1 {
		t.Errorf("expected clamped origin (0, 1), got (%g, %g)", r[0].U, r[0].V)
	}
	if r[0].Momentum != 1 || r[1].Momentum != 1 || r[2].Momentum != 1 {
		t.Errorf("expected non-positive momenta to default to 1, got %g %g %g",
			r[0].Momentum, r[1].Momentum, r[2].Momentum)
	}
	if r[2].U != 0.5 {
		t.Errorf("expected NaN coordinate to clamp to 0.5, got %g", r[2].U)
	}
	if r[3].Momentum != 1.7 {
		t.Errorf("expected momentum 1.7 to be kept, got %g", r[3].Momentum)
	}
	for i, rp := range r {
		if rp.Age != 0 {
			t.Errorf("ripple %d: expected age 0 at spawn, got %g", i, rp.Age)
		}
		if rp.BaseRadius != 0.06 {
			t.Errorf("ripple %d: expected base radius 0.06, got %g", i, rp.BaseRadius)
		}
	}
}

func TestTickAgesByFixedRate(t *testing.T) {
	cfg := testFieldConfig()
	rf := newTestField(t, cfg)
	rf.Spawn(0.5, 0.5, 1)

	rf.Tick()
	rf.Tick()

	r := rf.Ripples()
	if len(r) != 1 {
		t.Fatalf("expected 1 ripple, got %d", len(r))
	}
	if math.Abs(r[0].Age-2*cfg.AgeRate) > 1e-12 {
		t.Errorf("expected age %g after two ticks, got %g", 2*cfg.AgeRate, r[0].Age)
	}
}

func TestTickExpiresOldRipples(t *testing.T) {
	cfg := testFieldConfig()
	cfg.MaxAge = 1
	cfg.AgeRate = 0.4
	rf := newTestField(t, cfg)
	rf.Spawn(0.5, 0.5, 1)

	prevAge := 0.0
	for tick := 1; tick <= 2; tick++ {
		rf.Tick()
		r := rf.Ripples()
		if len(r) != 1 {
			t.Fatalf("tick %d: expected ripple to survive, got %d ripples", tick, len(r))
		}
		if r[0].Age < prevAge {
			t.Fatalf("tick %d: age decreased from %g to %g", tick, prevAge, r[0].Age)
		}
		prevAge = r[0].Age
	}

	rf.Tick()
	if rf.Len() != 0 {
		t.Fatalf("expected ripple with age %g > 1 to expire", prevAge+cfg.AgeRate)
	}
	if rf.Stats().Expired != 1 {
		t.Errorf("expected 1 expiry, got %d", rf.Stats().Expired)
	}
	buf, _ := rf.ReadBuffer()
	if !isNeutral(buf) {
		t.Error("expected neutral buffer once all ripples expired")
	}
}

func TestRasterDrawsCrestAndTrough(t *testing.T) {
	rf := newTestField(t, testFieldConfig())
	rf.Spawn(0.5, 0.5, 1)
	rf.Tick()

	buf, _ := rf.ReadBuffer()
	var above, below bool
	for _, p := range buf.Pix {
		if p.R > Neutral {
			above = true
		}
		if p.R < Neutral {
			below = true
		}
		if p.R != p.G || p.A != 255 {
			t.Fatalf("expected gray opaque samples, got %+v", p)
		}
	}
	if !above || !below {
		t.Errorf("expected both crest and trough samples, above=%v below=%v", above, below)
	}

	centre := buf.At(32, 32)
	if centre.R <= Neutral {
		t.Errorf("expected bright centre, got %d", centre.R)
	}
	corner := buf.At(0, 0)
	if corner != neutralColor {
		t.Errorf("expected untouched corner to stay neutral, got %+v", corner)
	}
}

// goldenRadius is the first ring's outer radius in pixels after one tick.
func goldenRadius(cfg config.FieldConfig, momentum float64) float64 {
	t := cfg.AgeRate / cfg.MaxAge
	return cfg.BaseRadius * (1 + 12*t) * momentum * float64(cfg.Size)
}

func goldenFieldConfig() config.FieldConfig {
	cfg := testFieldConfig()
	cfg.Size = 512
	return cfg
}

func TestRasterGoldenAfterOneTick(t *testing.T) {
	cfg := goldenFieldConfig()
	rf := newTestField(t, cfg)
	rf.Spawn(0.5, 0.5, 1)
	rf.Tick()
	buf, _ := rf.ReadBuffer()

	r := goldenRadius(cfg, 1)
	if math.Abs(r-31.6416) > 1e-6 {
		t.Fatalf("expected ring radius 31.6416px, got %g", r)
	}
	lastInner := r * (0.7 + 4*0.16) // 42.4px
	lastOuter := r * (1.0 + 4*0.16) // 51.9px

	if c := buf.At(256, 256); c.R != 134 {
		t.Errorf("expected centre 134, got %d", c.R)
	}
	for y := 0; y < cfg.Size; y++ {
		for x := 0; x < cfg.Size; x++ {
			d := math.Hypot(float64(x)+0.5-256, float64(y)+0.5-256)
			got := buf.At(x, y).R
			switch {
			case d < lastInner-0.5 && got != 134:
				t.Fatalf("pixel (%d,%d) at %.2fpx inside the last ring: expected 134, got %d", x, y, d, got)
			case d >= lastOuter && got != Neutral:
				t.Fatalf("pixel (%d,%d) at %.2fpx beyond the last ring: expected %d, got %d", x, y, d, Neutral, got)
			}
		}
	}

	// Between the 0.6 stop and the outer edge of the last ring the trough
	// fades back towards neutral.
	troughD := lastInner + 0.65*(lastOuter-lastInner)
	x := int(256 + troughD)
	if got := buf.At(x, 256).R; got >= Neutral {
		t.Errorf("expected trough below %d at x=%d, got %d", Neutral, x, got)
	}
	if got := buf.At(304, 256).R; got != 125 {
		t.Errorf("expected 125 at 48.5px, got %d", got)
	}
}

func TestRasterMomentumScalesRadius(t *testing.T) {
	cfg := goldenFieldConfig()
	r := goldenRadius(cfg, 1)

	one := newTestField(t, cfg)
	one.Spawn(0.5, 0.5, 1)
	one.Tick()
	two := newTestField(t, cfg)
	two.Spawn(0.5, 0.5, 2)
	two.Tick()
	bufOne, _ := one.ReadBuffer()
	bufTwo, _ := two.ReadBuffer()

	// 1.7r is past momentum 1's last ring but inside momentum 2's crest.
	x := 256 + int(1.7*r)
	if got := bufOne.At(x, 256).R; got != Neutral {
		t.Errorf("momentum 1: expected neutral at 1.7r, got %d", got)
	}
	if got := bufTwo.At(x, 256).R; got != 134 {
		t.Errorf("momentum 2: expected crest 134 at 1.7r, got %d", got)
	}

	// Momentum 2 reaches 2*1.64r and no further.
	edge := 2 * r * (1.0 + 4*0.16)
	for y := 0; y < cfg.Size; y++ {
		for x := 0; x < cfg.Size; x++ {
			d := math.Hypot(float64(x)+0.5-256, float64(y)+0.5-256)
			if d >= edge && bufTwo.At(x, y).R != Neutral {
				t.Fatalf("momentum 2: pixel (%d,%d) at %.2fpx beyond %.2fpx is %d", x, y, d, edge, bufTwo.At(x, y).R)
			}
		}
	}
	if got := bufTwo.At(256+int(2*r*1.34)-2, 256).R; got != 134 {
		t.Errorf("momentum 2: expected crest just inside doubled last ring, got %d", got)
	}
	// Brightness does not depend on momentum.
	if a, b := bufOne.At(256, 256).R, bufTwo.At(256, 256).R; a != b {
		t.Errorf("expected equal centre brightness, got %d and %d", a, b)
	}
}

func TestRasterIsDeterministic(t *testing.T) {
	spawn := func(rf *RippleField) {
		rf.Spawn(0.3, 0.4, 1.2)
		rf.Spawn(0.6, 0.55, 0.7)
		rf.Spawn(0.5, 0.5, 2.0)
	}

	serial := testFieldConfig()
	parallel := testFieldConfig()
	parallel.Workers = 4

	a := newTestField(t, serial)
	b := newTestField(t, serial)
	c := newTestField(t, parallel)
	for _, rf := range []*RippleField{a, b, c} {
		spawn(rf)
		for i := 0; i < 10; i++ {
			rf.Tick()
		}
	}

	bufA, _ := a.ReadBuffer()
	bufB, _ := b.ReadBuffer()
	bufC, _ := c.ReadBuffer()
	for i := range bufA.Pix {
		if bufA.Pix[i] != bufB.Pix[i] {
			t.Fatalf("pixel %d differs between identical fields", i)
		}
		if bufA.Pix[i] != bufC.Pix[i] {
			t.Fatalf("pixel %d differs between 1 and 4 workers", i)
		}
	}
}

func TestRasterIsPureFunctionOfRipples(t *testing.T) {
	rf := newTestField(t, testFieldConfig())
	rf.Spawn(0.5, 0.5, 1)
	rf.Tick()

	first, _ := rf.ReadBuffer()
	snapshot := make([]byte, 0, len(first.Pix)*4)
	for _, p := range first.Pix {
		snapshot = append(snapshot, p.R, p.G, p.B, p.A)
	}

	// Re-rasterizing the same ripple set must reproduce the buffer exactly.
	rf.rasterize()
	second, _ := rf.ReadBuffer()
	for i, p := range second.Pix {
		if p.R != snapshot[i*4] || p.A != snapshot[i*4+3] {
			t.Fatalf("pixel %d changed on re-rasterization", i)
		}
	}
}

func TestReadBufferAcknowledgesDirty(t *testing.T) {
	rf := newTestField(t, testFieldConfig())

	if _, dirty := rf.ReadBuffer(); !dirty {
		t.Error("expected initial read to be dirty")
	}
	if _, dirty := rf.ReadBuffer(); dirty {
		t.Error("expected second read without tick to be clean")
	}
	rf.Tick()
	if _, dirty := rf.ReadBuffer(); !dirty {
		t.Error("expected read after tick to be dirty")
	}
}

func TestResetClearsField(t *testing.T) {
	rf := newTestField(t, testFieldConfig())
	rf.Spawn(0.5, 0.5, 1)
	rf.Tick()
	rf.Reset()

	if rf.Len() != 0 {
		t.Errorf("expected no ripples after reset, got %d", rf.Len())
	}
	buf, dirty := rf.ReadBuffer()
	if !dirty || !isNeutral(buf) {
		t.Error("expected a dirty neutral buffer after reset")
	}
}

func TestDecodeChannel(t *testing.T) {
	if d := DecodeChannel(255); math.Abs(d-1) > 1e-12 {
		t.Errorf("expected 255 to decode to 1, got %g", d)
	}
	if d := DecodeChannel(0); d != -1 {
		t.Errorf("expected 0 to decode to -1, got %g", d)
	}
	if d := DecodeChannel(Neutral); math.Abs(d) > 0.01 {
		t.Errorf("expected neutral to decode near 0, got %g", d)
	}
}

func TestRippleLeavesBufferAfterLifetime(t *testing.T) {
	rf := newTestField(t, config.FieldConfig{
		Size:       512,
		BaseRadius: 0.06,
		MaxAge:     140,
		AgeRate:    0.35,
		MaxRipples: 15,
	})
	rf.Spawn(0.5, 0.5, 1)

	ticks := int(math.Ceil(140 / 0.35))
	for i := 0; i < ticks; i++ {
		rf.Tick()
	}

	buf, _ := rf.ReadBuffer()
	if !isNeutral(buf) {
		t.Fatalf("expected neutral buffer after %d ticks", ticks)
	}

	rf.Tick()
	if rf.Len() != 0 {
		t.Errorf("expected ripple to be gone one tick past its lifetime, got %d", rf.Len())
	}
}

func BenchmarkRippleFieldTick(b *testing.B) {
	rf := newTestField(b, config.Cfg().Field)
	for i := 0; i < 15; i++ {
		rf.Spawn(float64(i)/15, 0.5, 1.4)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rf.Tick()
		if rf.Len() == 0 {
			b.StopTimer()
			for j := 0; j < 15; j++ {
				rf.Spawn(float64(j)/15, 0.5, 1.4)
			}
			b.StartTimer()
		}
	}
}

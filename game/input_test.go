package game

import (
	"testing"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/scene"
	"github.com/pthm-cable/ripple/systems"
)

func init() {
	config.MustInit("")
}

func newPauseTestGame(t *testing.T) *Game {
	t.Helper()
	sc, err := scene.New(config.Cfg(), scene.Options{})
	if err != nil {
		t.Fatalf("creating scene: %v", err)
	}
	return &Game{scene: sc}
}

func TestPauseForgetsPointerPosition(t *testing.T) {
	g := newPauseTestGame(t)
	d := g.scene.Dispatcher()
	field := g.scene.Field()

	d.Feed(systems.PointerSample{U: 0.1, V: 0.1}, field)

	g.setPaused(true)
	if !g.paused {
		t.Fatal("expected game to be paused")
	}
	g.setPaused(false)

	// A far sample after resuming only re-primes the dispatcher.
	if d.Feed(systems.PointerSample{U: 0.9, V: 0.9}, field) {
		t.Error("expected no spawn from the first sample after resuming")
	}
	if !d.Feed(systems.PointerSample{U: 0.5, V: 0.5}, field) {
		t.Error("expected a spawn once the dispatcher is primed again")
	}
}

func TestResumeKeepsPointerPosition(t *testing.T) {
	g := newPauseTestGame(t)
	d := g.scene.Dispatcher()
	field := g.scene.Field()

	d.Feed(systems.PointerSample{U: 0.1, V: 0.1}, field)
	g.setPaused(false)

	if !d.Feed(systems.PointerSample{U: 0.9, V: 0.9}, field) {
		t.Error("expected unpaused motion to keep measuring against the last sample")
	}
}

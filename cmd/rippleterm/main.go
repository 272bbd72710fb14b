// Terminal front end - stir the ripple surface with the mouse in a terminal.
//
// Usage: go run ./cmd/rippleterm [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/ripple/camera"
	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/scene"
	"github.com/pthm-cable/ripple/surface"
	"github.com/pthm-cable/ripple/systems"
)

// Internal render resolution before scaling to the terminal grid.
const (
	renderW = 256
	renderH = 144
)

// command is a key action handed from the poll goroutine to the step loop.
type command int

const (
	cmdQuit command = iota
	cmdSplash
	cmdReset
	cmdPause
	cmdResize
	cmdLeave
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	// Logs go to stderr so they don't fight the terminal screen.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	sc, err := scene.New(cfg, scene.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create scene: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	t := newTerminal(screen, cfg, sc)
	t.run()
}

// terminal drives one scene on a tcell screen.
type terminal struct {
	screen tcell.Screen
	cfg    *config.Config
	scene  *scene.Scene
	glyph  rune

	// Cell grid mapped onto the surface with two pixels per cell vertically.
	// Only the poll goroutine touches it.
	pointerView *camera.Viewport
	frame       *image.RGBA

	commands chan command
	paused   bool
}

func newTerminal(screen tcell.Screen, cfg *config.Config, sc *scene.Scene) *terminal {
	glyph, _ := utf8.DecodeRuneInString(cfg.Terminal.Glyph)
	if glyph == utf8.RuneError {
		glyph = '▀'
	}
	w, h := screen.Size()
	return &terminal{
		screen:      screen,
		cfg:         cfg,
		scene:       sc,
		glyph:       glyph,
		pointerView: camera.New(float32(w), float32(surfaceRows(h))),
		frame:       image.NewRGBA(image.Rect(0, 0, renderW, renderH)),
		commands:    make(chan command, 16),
	}
}

// run steps the scene at the tick rate and redraws at the frame interval
// until the user quits.
func (t *terminal) run() {
	go t.poll()

	tick := time.NewTicker(time.Duration(t.cfg.Derived.TickDT * float64(time.Second)))
	defer tick.Stop()
	frame := time.NewTicker(time.Duration(t.cfg.Terminal.FrameInterval * float64(time.Second)))
	defer frame.Stop()

	for {
		select {
		case c := <-t.commands:
			switch c {
			case cmdQuit:
				return
			case cmdSplash:
				t.scene.Splash()
			case cmdReset:
				t.scene.Reset()
			case cmdPause:
				t.paused = !t.paused
			case cmdResize:
				t.screen.Sync()
			case cmdLeave:
				t.scene.Dispatcher().Reset()
			}
		case <-tick.C:
			if !t.paused {
				t.scene.Step()
			}
		case <-frame.C:
			t.draw()
		}
	}
}

// poll reads terminal events until the user quits or the screen closes.
func (t *terminal) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil || !t.handleEvent(ev) {
			return
		}
	}
}

// handleEvent runs on the poll goroutine. Mouse motion goes straight to the
// pointer queue; everything else is forwarded to the step loop. It returns
// false once the user asks to quit.
func (t *terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			t.commands <- cmdQuit
			return false
		case ev.Rune() == 's':
			t.commands <- cmdSplash
		case ev.Rune() == 'r':
			t.commands <- cmdReset
		case ev.Rune() == ' ':
			t.commands <- cmdPause
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.scene.Queue().Push(t.cellSample(x, y))
	case *tcell.EventFocus:
		if !ev.Focused {
			t.commands <- cmdLeave
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		t.pointerView.Resize(float32(w), float32(surfaceRows(h)))
		t.commands <- cmdResize
	}
	return true
}

// cellSample maps the centre of cell (x, y) onto the surface. Each cell
// covers two surface pixel rows.
func (t *terminal) cellSample(x, y int) systems.PointerSample {
	u, v := t.pointerView.ScreenToUV(float32(x)+0.5, float32(2*y)+1)
	return systems.PointerSample{U: u, V: v}
}

// draw renders the surface and paints it with half-block cells.
func (t *terminal) draw() {
	w, h := t.screen.Size()
	if w <= 0 || h <= 1 {
		return
	}

	t.scene.Render(t.frame)
	cells := surface.Resized(t.frame, w, surfaceRows(h), false)

	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			top := cells.RGBAAt(x, 2*y)
			bottom := cells.RGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y, t.glyph, nil, style)
		}
	}

	status := fmt.Sprintf(" ripples %2d/%d  tick %d  dropped %d  [s] splash [r] clear [space] pause [q] quit",
		t.scene.Field().Len(), t.cfg.Field.MaxRipples, t.scene.Tick(), t.scene.Queue().Dropped())
	if t.paused {
		status = " PAUSED" + status
	}
	t.drawText(0, h-1, status)
	t.screen.Show()
}

func (t *terminal) drawText(x, y int, s string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	w, _ := t.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// surfaceRows returns the pixel rows available for the surface on a screen
// h cells tall. The last row is reserved for the status line.
func surfaceRows(h int) int {
	if h < 2 {
		return 1
	}
	return 2 * (h - 1)
}

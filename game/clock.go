package game

// stepClock turns variable frame durations into a whole number of fixed
// simulation steps.
type stepClock struct {
	dt       float64
	acc      float64
	maxSteps int // Steps allowed per frame before the backlog is dropped
}

func newStepClock(tickRate float64, maxSteps int) *stepClock {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &stepClock{dt: 1 / tickRate, maxSteps: maxSteps}
}

// Advance adds frame seconds and returns the number of steps to run.
func (c *stepClock) Advance(frame float64) int {
	if frame > 0 {
		c.acc += frame
	}
	n := 0
	for c.acc >= c.dt && n < c.maxSteps {
		c.acc -= c.dt
		n++
	}
	// A stall longer than maxSteps would otherwise spiral.
	if c.acc >= c.dt {
		c.acc = 0
	}
	return n
}

// Reset discards any accumulated time.
func (c *stepClock) Reset() {
	c.acc = 0
}

package systems

import (
	"math"
	"sync/atomic"

	"github.com/pthm-cable/ripple/config"
)

// PointerSample is a pointer position normalized to [0,1]x[0,1].
type PointerSample struct {
	U, V float64
}

// PointerQueue hands pointer samples from the event goroutine to the tick
// goroutine. One producer, one consumer.
type PointerQueue struct {
	ch      chan PointerSample
	dropped atomic.Uint64
}

// NewPointerQueue creates a queue holding up to capacity pending samples.
func NewPointerQueue(capacity int) *PointerQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &PointerQueue{ch: make(chan PointerSample, capacity)}
}

// Push enqueues a sample without blocking. A full queue drops the sample.
func (q *PointerQueue) Push(s PointerSample) bool {
	select {
	case q.ch <- s:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain calls fn for each sample queued at the time of the call.
func (q *PointerQueue) Drain(fn func(PointerSample)) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		fn(<-q.ch)
	}
	return n
}

// Pending returns the number of queued samples.
func (q *PointerQueue) Pending() int { return len(q.ch) }

// Dropped returns how many samples were discarded by a full queue.
func (q *PointerQueue) Dropped() uint64 { return q.dropped.Load() }

// InputDispatcher turns raw pointer samples into momentum-weighted spawns.
type InputDispatcher struct {
	cfg   config.PointerConfig
	queue *PointerQueue

	lastU, lastV float64
	primed       bool
	spawns       int
}

// NewInputDispatcher creates a dispatcher with its own pending-sample queue.
func NewInputDispatcher(cfg config.PointerConfig) *InputDispatcher {
	return &InputDispatcher{
		cfg:   cfg,
		queue: NewPointerQueue(cfg.QueueCapacity),
	}
}

// Queue returns the queue producers push samples into.
func (d *InputDispatcher) Queue() *PointerQueue { return d.queue }

// Feed measures momentum against the previous sample and spawns when it
// clears the dead zone. The last position is updated either way. The first
// sample has nothing to measure against and only sets the position.
func (d *InputDispatcher) Feed(p PointerSample, s Spawner) bool {
	if !d.primed {
		d.lastU, d.lastV = p.U, p.V
		d.primed = true
		return false
	}
	dx := p.U - d.lastU
	dy := p.V - d.lastV
	momentum := math.Min(math.Sqrt(dx*dx+dy*dy)*d.cfg.Gain, d.cfg.MaxMomentum)

	d.lastU, d.lastV = p.U, p.V

	if !(momentum > d.cfg.DeadZone) {
		return false
	}
	s.Spawn(p.U, p.V, momentum)
	d.spawns++
	return true
}

// Flush feeds every pending sample and returns the number of spawns.
func (d *InputDispatcher) Flush(s Spawner) int {
	n := 0
	d.queue.Drain(func(p PointerSample) {
		if d.Feed(p, s) {
			n++
		}
	})
	return n
}

// Reset forgets the last position, e.g. when the pointer leaves the surface.
func (d *InputDispatcher) Reset() {
	d.primed = false
}

// LastPosition returns the most recent sample position.
func (d *InputDispatcher) LastPosition() (u, v float64) { return d.lastU, d.lastV }

// Spawns returns the lifetime spawn count.
func (d *InputDispatcher) Spawns() int { return d.spawns }

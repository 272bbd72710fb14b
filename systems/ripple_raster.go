package systems

import (
	"math"
	"sync"
)

// Ring layout of a single ripple stamp.
const (
	ringCount      = 5
	ringSpacing    = 0.16 // Added to both radii per ring
	ringInner      = 0.7  // Inner radius factor of the first ring
	ringFalloff    = 0.18 // Brightness falloff per ring (squared)
	peakBrightness = 95.0
	radiusGrowth   = 12.0 // Radius multiplier gained over a ripple's lifetime
	fadeExponent   = 1.5
)

// Gradient stop offsets within a ring.
const (
	stopCrest  = 0.3
	stopTrough = 0.6
)

// ringStamp is one annular gradient in buffer pixel space.
type ringStamp struct {
	inner, outer float64
	crest        float64 // stop 0 value
	shoulder     float64 // stop 0.3 value
	trough       float64 // stop 0.6 value
}

// rippleStamp is a ripple resolved to pixel space for one raster pass.
type rippleStamp struct {
	cx, cy         float64
	rings          [ringCount]ringStamp
	x0, x1, y0, y1 int // Inclusive pixel bounds of the outermost ring
}

// newRippleStamp resolves a ripple's age into ring geometry and brightness.
func newRippleStamp(r Ripple, maxAge float64, size int) rippleStamp {
	t := r.Age / maxAge
	radius := r.BaseRadius * (1 + radiusGrowth*t) * r.Momentum
	alpha := math.Pow(math.Max(0, 1-t), fadeExponent)

	s := float64(size)
	st := rippleStamp{
		cx: r.U * s,
		cy: r.V * s,
	}
	px := radius * s

	for i := 0; i < ringCount; i++ {
		offset := float64(i) * ringSpacing
		falloff := 1 - float64(i)*ringFalloff
		b := peakBrightness * alpha * falloff * falloff
		n := float64(Neutral)
		st.rings[i] = ringStamp{
			inner:    px * (ringInner + offset),
			outer:    px * (1.0 + offset),
			crest:    math.Round(n + b),
			shoulder: math.Round(n + b*0.6),
			trough:   math.Round(n - b*0.4),
		}
	}

	reach := st.rings[ringCount-1].outer
	st.x0 = clampInt(int(math.Floor(st.cx-reach)), 0, size-1)
	st.x1 = clampInt(int(math.Ceil(st.cx+reach)), 0, size-1)
	st.y0 = clampInt(int(math.Floor(st.cy-reach)), 0, size-1)
	st.y1 = clampInt(int(math.Ceil(st.cy+reach)), 0, size-1)
	return st
}

// sample evaluates the ring gradient at distance d from the centre. Inside the
// inner radius the first stop is padded; at or beyond the outer radius the
// ring is fully transparent and ok is false.
func (rs *ringStamp) sample(d float64) (value, alpha float64, ok bool) {
	if d >= rs.outer || rs.outer <= rs.inner {
		return 0, 0, false
	}
	t := (d - rs.inner) / (rs.outer - rs.inner)
	switch {
	case t <= 0:
		return rs.crest, 1, true
	case t < stopCrest:
		return lerp(rs.crest, rs.shoulder, t/stopCrest), 1, true
	case t < stopTrough:
		return lerp(rs.shoulder, rs.trough, (t-stopCrest)/(stopTrough-stopCrest)), 1, true
	default:
		s := (t - stopTrough) / (1 - stopTrough)
		return lerp(rs.trough, float64(Neutral), s), 1 - s, true
	}
}

// rasterize rewrites the buffer from the current ripples, oldest first.
func (rf *RippleField) rasterize() {
	rf.clear()
	if len(rf.ripples) == 0 {
		return
	}

	rf.stamps = rf.stamps[:0]
	for _, r := range rf.ripples {
		rf.stamps = append(rf.stamps, newRippleStamp(r, rf.cfg.MaxAge, rf.cfg.Size))
	}

	size := rf.cfg.Size
	if rf.workers <= 1 {
		rf.rasterRows(0, size)
		return
	}

	rowsPer := (size + rf.workers - 1) / rf.workers
	var wg sync.WaitGroup
	for w := 0; w < rf.workers; w++ {
		y0 := w * rowsPer
		if y0 >= size {
			break
		}
		y1 := y0 + rowsPer
		if y1 > size {
			y1 = size
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			rf.rasterRows(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// rasterRows composites every stamp into rows [y0, y1). Each pixel sees the
// stamps and rings in the same order regardless of how rows are split.
func (rf *RippleField) rasterRows(y0, y1 int) {
	size := rf.cfg.Size
	pix := rf.buf.Pix

	for si := range rf.stamps {
		st := &rf.stamps[si]
		ya := max(y0, st.y0)
		yb := min(y1-1, st.y1)
		for y := ya; y <= yb; y++ {
			dy := float64(y) + 0.5 - st.cy
			row := y * size
			for x := st.x0; x <= st.x1; x++ {
				dx := float64(x) + 0.5 - st.cx
				d := math.Sqrt(dx*dx + dy*dy)

				p := &pix[row+x]
				v := float64(p.R)
				for ri := range st.rings {
					c, a, ok := st.rings[ri].sample(d)
					if !ok {
						continue
					}
					v = math.Round(c*a + v*(1-a))
				}
				g := uint8(clampFloat(v, 0, 255))
				p.R, p.G, p.B = g, g, g
			}
		}
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	vp := New(1280, 720)

	if vp.W != 1280 || vp.H != 720 {
		t.Errorf("expected viewport 1280x720, got %fx%f", vp.W, vp.H)
	}
}

func TestScreenToUVFlipsY(t *testing.T) {
	vp := New(1280, 720)

	testCases := []struct {
		name   string
		sx, sy float32
		u, v   float64
	}{
		{"top-left", 0, 0, 0, 1},
		{"bottom-left", 0, 720, 0, 0},
		{"center", 640, 360, 0.5, 0.5},
		{"top-right", 1280, 0, 1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, v := vp.ScreenToUV(tc.sx, tc.sy)
			if math.Abs(u-tc.u) > 1e-6 || math.Abs(v-tc.v) > 1e-6 {
				t.Errorf("ScreenToUV(%v, %v) = (%v, %v), want (%v, %v)", tc.sx, tc.sy, u, v, tc.u, tc.v)
			}
		})
	}
}

func TestScreenToUVClampsOutside(t *testing.T) {
	vp := New(800, 600)

	u, v := vp.ScreenToUV(-50, 900)
	if u != 0 || v != 0 {
		t.Errorf("expected (0, 0) for a point below-left of the window, got (%v, %v)", u, v)
	}
	if vp.Contains(-50, 900) {
		t.Error("expected point outside the window not to be contained")
	}
}

func TestUVRoundtrip(t *testing.T) {
	vp := New(1280, 720)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		u, v := vp.ScreenToUV(tc.sx, tc.sy)
		sx, sy := vp.UVToScreen(u, v)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, u, v, sx, sy)
		}
	}
}

func TestResizeChangesMappingOnly(t *testing.T) {
	vp := New(1280, 720)
	vp.Resize(640, 640)

	if vp.Aspect() != 1 {
		t.Errorf("expected aspect 1 after square resize, got %f", vp.Aspect())
	}
	u, v := vp.ScreenToUV(320, 160)
	if math.Abs(u-0.5) > 1e-6 || math.Abs(v-0.75) > 1e-6 {
		t.Errorf("expected (0.5, 0.75) after resize, got (%v, %v)", u, v)
	}
}

func TestResizeRejectsZero(t *testing.T) {
	vp := New(1280, 720)
	vp.Resize(0, 0)

	if vp.W < 1 || vp.H < 1 {
		t.Errorf("expected minimum 1x1 viewport, got %fx%f", vp.W, vp.H)
	}
}

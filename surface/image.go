package surface

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/pthm-cable/ripple/systems"
)

// BufferImage copies the displacement buffer into an image with the top row
// at v = 1, the way the surface is drawn on screen.
func BufferImage(buf systems.DisplacementBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buf.Size, buf.Size))
	for y := 0; y < buf.Size; y++ {
		row := buf.Size - 1 - y
		for x := 0; x < buf.Size; x++ {
			img.SetRGBA(x, y, buf.Pix[row*buf.Size+x])
		}
	}
	return img
}

// Scale resamples src into dst's bounds. Smooth selects the bilinear kernel;
// otherwise the cheaper approximation is used for interactive previews.
func Scale(dst draw.Image, src image.Image, smooth bool) {
	interp := draw.Interpolator(draw.ApproxBiLinear)
	if smooth {
		interp = draw.BiLinear
	}
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}

// Resized returns src scaled to w x h.
func Resized(src image.Image, w, h int, smooth bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	Scale(dst, src, smooth)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return nil
}

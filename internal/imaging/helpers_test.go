package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// newSolidImage creates an opaque image filled with a single color.
func newSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// encodePNG encodes an image as PNG bytes.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// newRaster builds a raster filled with v.
func newRaster(width, height int, v uint8) *Raster {
	r := &Raster{W: width, H: height, Pix: make([]uint8, width*height)}
	for i := range r.Pix {
		r.Pix[i] = v
	}
	return r
}

// fillRaster sets the rectangle [x1,x2) x [y1,y2) to v.
func fillRaster(r *Raster, x1, y1, x2, y2 int, v uint8) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r.Pix[y*r.W+x] = v
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

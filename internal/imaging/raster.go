package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// Raster is a single-channel 8-bit intensity image.
//
// Pixels are stored row-major: the intensity at (x, y) is Pix[y*W+x].
// A Raster is owned by a single tracing call; operations return new rasters
// instead of modifying the receiver.
type Raster struct {
	W, H int
	Pix  []uint8
}

// NewRaster converts any image to grayscale intensities using the BT.601
// luma weights.
//
// The origin of the result is always (0, 0), regardless of img.Bounds().Min.
func NewRaster(img image.Image) *Raster {
	return rasterFromChannel(effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114))
}

// At returns the intensity at (x, y). No bounds checking is performed.
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.W+x]
}

// Gray exposes the raster as an *image.Gray sharing the same pixel buffer.
func (r *Raster) Gray() *image.Gray {
	return &image.Gray{
		Pix:    r.Pix,
		Stride: r.W,
		Rect:   image.Rect(0, 0, r.W, r.H),
	}
}

// Blur applies a 3x3 Gaussian kernel to suppress single-pixel noise.
//
// The kernel is fixed:
//
//	1 2 1
//	2 4 2
//	1 2 1
//
// normalized by 16. Border pixels use clamped (replicated) edge values.
func (r *Raster) Blur() *Raster {
	if r.W == 0 || r.H == 0 {
		return &Raster{W: r.W, H: r.H}
	}

	k := convolution.NewKernel(3, 3)
	copy(k.Matrix, []float64{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	})

	blurred := convolution.Convolve(r.Gray(), k.Normalized(), &convolution.Options{})
	return rasterFromChannel(blurred)
}

// Variance returns the population variance of all pixel intensities.
//
// An empty raster has zero variance.
func (r *Raster) Variance() float64 {
	n := len(r.Pix)
	if n == 0 {
		return 0
	}

	var sum float64
	for _, v := range r.Pix {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range r.Pix {
		d := float64(v) - mean
		sq += d * d
	}
	return sq / float64(n)
}

// rasterFromChannel reads the red channel of an RGBA image whose color
// channels are all equal, as produced by the grayscale and filter passes.
func rasterFromChannel(img *image.RGBA) *Raster {
	bounds := img.Bounds()
	r := &Raster{
		W:   bounds.Dx(),
		H:   bounds.Dy(),
		Pix: make([]uint8, bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < r.H; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < r.W; x++ {
			r.Pix[y*r.W+x] = row[x*4]
		}
	}
	return r
}

package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// Mask values.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

// Mask is a binary image where every pixel is either Background or Foreground.
//
// Pixels are stored row-major like Raster. Contour extraction treats
// Foreground pixels as shape and everything else as paper.
type Mask struct {
	W, H int
	Pix  []uint8
}

// NewMask creates an all-background mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At reports whether (x, y) is a foreground pixel. Coordinates outside the
// mask are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Pix[y*m.W+x] != Background
}

// Set marks (x, y) as foreground or background. No bounds checking is performed.
func (m *Mask) Set(x, y int, on bool) {
	if on {
		m.Pix[y*m.W+x] = Foreground
	} else {
		m.Pix[y*m.W+x] = Background
	}
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != Background {
			n++
		}
	}
	return n
}

// Gray exposes the mask as an *image.Gray sharing the same pixel buffer.
func (m *Mask) Gray() *image.Gray {
	return &image.Gray{
		Pix:    m.Pix,
		Stride: m.W,
		Rect:   image.Rect(0, 0, m.W, m.H),
	}
}

// OtsuLevel picks the global threshold that best separates dark and light pixels.
//
// The level maximizes the between-class variance of the intensity histogram,
// which is the same as minimizing the weighted intra-class variance. Pixels
// with intensity <= level form the dark class. Ties keep the lowest level, so
// a uniform raster yields 0.
func OtsuLevel(r *Raster) uint8 {
	total := len(r.Pix)
	if total == 0 {
		return 0
	}

	bins := histogram.NewRGBAHistogram(r.Gray()).R.Bins

	var sumAll float64
	for i, c := range bins {
		sumAll += float64(i) * float64(c)
	}

	var (
		best     uint8
		bestVar  float64
		weightLo float64
		sumLo    float64
	)
	for t := 0; t < 256; t++ {
		weightLo += float64(bins[t])
		if weightLo == 0 {
			continue
		}
		weightHi := float64(total) - weightLo
		if weightHi == 0 {
			break
		}
		sumLo += float64(t) * float64(bins[t])

		meanLo := sumLo / weightLo
		meanHi := (sumAll - sumLo) / weightHi
		between := weightLo * weightHi * (meanLo - meanHi) * (meanLo - meanHi)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}

// BinarizeDark thresholds a raster at level and inverts the result, so that
// dark pixels (intensity <= level) become foreground.
func BinarizeDark(r *Raster, level uint8) *Mask {
	m := NewMask(r.W, r.H)
	for i, v := range r.Pix {
		if v <= level {
			m.Pix[i] = Foreground
		}
	}
	return m
}

// Dilate grows foreground regions by one pass of a 3x3 square structuring element.
func (m *Mask) Dilate() *Mask {
	if m.W == 0 || m.H == 0 {
		return NewMask(m.W, m.H)
	}
	return maskFromRGBA(effect.Dilate(m.Gray(), 1))
}

// DilateEdges thickens edge pixels with a 2x2 structuring element anchored
// at its bottom-right cell: each foreground pixel also marks its right,
// lower and lower-right neighbors.
func (m *Mask) DilateEdges() *Mask {
	if m.W == 0 || m.H == 0 {
		return NewMask(m.W, m.H)
	}
	return maskFromRGBA(effect.Dilate(m.Gray(), 0.5))
}

// Erode shrinks foreground regions by one pass of a 3x3 square structuring
// element. Pixels beyond the border replicate the edge, so shapes touching
// the border are not eroded from that side.
func (m *Mask) Erode() *Mask {
	if m.W == 0 || m.H == 0 {
		return NewMask(m.W, m.H)
	}
	return maskFromRGBA(effect.Erode(m.Gray(), 1))
}

// Open applies a morphological opening (erosion then dilation) with a 3x3
// element, removing foreground specks narrower than three pixels.
func (m *Mask) Open() *Mask {
	return m.Erode().Dilate()
}

// maskFromRGBA reads a filter result back into a mask, treating any channel
// value of 128 or more as foreground.
func maskFromRGBA(img *image.RGBA) *Mask {
	bounds := img.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.H; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < m.W; x++ {
			if row[x*4] >= 128 {
				m.Pix[y*m.W+x] = Foreground
			}
		}
	}
	return m
}

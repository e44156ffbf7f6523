package imaging

import (
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Swatch is one color family found in an image.
type Swatch struct {
	// Hex is the mean color of the family as "#rrggbb".
	Hex string `json:"hex"`

	// Share is the fraction of sampled pixels in the family (0-1).
	Share float64 `json:"share"`
}

// swatchBucket accumulates the pixels of one quantized color.
type swatchBucket struct {
	r, g, b uint64
	n       int
}

// DominantColors returns up to count color families among the pixels of img
// that are foreground in mask, most common first. A nil mask samples every
// pixel.
//
// # Color Quantization
//
// Pixels are grouped by dividing each 8-bit component by 16, so colors within
// 16 units of each other (per component) fall in the same family. The swatch
// reports the mean of the original colors in the family rather than the
// quantized key, so a flat ink color comes back unchanged.
//
// The mask, when given, must have the dimensions of img.
func DominantColors(img image.Image, mask *Mask, count int) []Swatch {
	if count <= 0 {
		return nil
	}

	bounds := img.Bounds()
	buckets := make(map[uint32]*swatchBucket)
	total := 0

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			if mask != nil && !mask.At(x, y) {
				continue
			}
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r8, g8, b8 := r>>8, g>>8, b>>8
			key := (r8/16)<<8 | (g8/16)<<4 | b8/16

			bk := buckets[key]
			if bk == nil {
				bk = &swatchBucket{}
				buckets[key] = bk
			}
			bk.r += uint64(r8)
			bk.g += uint64(g8)
			bk.b += uint64(b8)
			bk.n++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	keys := make([]uint32, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// Ties resolve on the key so the result does not depend on map order.
	sort.Slice(keys, func(i, j int) bool {
		ni, nj := buckets[keys[i]].n, buckets[keys[j]].n
		if ni != nj {
			return ni > nj
		}
		return keys[i] < keys[j]
	})
	if len(keys) > count {
		keys = keys[:count]
	}

	swatches := make([]Swatch, len(keys))
	for i, k := range keys {
		bk := buckets[k]
		n := float64(bk.n)
		c := colorful.Color{
			R: float64(bk.r) / n / 255,
			G: float64(bk.g) / n / 255,
			B: float64(bk.b) / n / 255,
		}
		swatches[i] = Swatch{
			Hex:   c.Clamped().Hex(),
			Share: n / float64(total),
		}
	}
	return swatches
}

// InkColor returns the dominant color of the dark foreground of an image:
// the pixels BinarizeDark selects at the Otsu level of raster. img and
// raster must have the same dimensions. The second result is false when no
// pixel is foreground.
func InkColor(img image.Image, raster *Raster) (string, bool) {
	mask := BinarizeDark(raster, OtsuLevel(raster))
	swatches := DominantColors(img, mask, 1)
	if len(swatches) == 0 {
		return "", false
	}
	return swatches[0].Hex, true
}

package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Flatten composites an image with transparency over an opaque white canvas.
//
// Transparent regions of a motif are paper, not ink. Without flattening, the
// color channels behind fully transparent pixels (usually black) would be read
// as dark foreground by the grayscale conversion.
//
// Opaque images are returned unchanged.
func Flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// FitWithin downscales an image so that neither side exceeds maxSide pixels.
//
// The aspect ratio is preserved and Lanczos resampling is used. Images that
// already fit, or a maxSide of zero or less, are returned unchanged.
func FitWithin(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxSide && bounds.Dy() <= maxSide {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

// Save writes an image to disk; the format follows the file extension.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}

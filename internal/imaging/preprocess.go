package imaging

import "image"

// Prepared is the output of the preprocessing stage: a denoised grayscale
// raster and the statistics measured on it.
type Prepared struct {
	// Raster holds blurred intensities.
	Raster *Raster

	// Image is the flattened and downscaled color image the raster was
	// built from. It has the raster's dimensions.
	Image image.Image

	// Format is the decoder name of the source bytes.
	Format string

	// Variance is the population variance of the blurred intensities.
	Variance float64
}

// Prepare decodes image bytes and produces the denoised raster every tracing
// strategy starts from.
//
// Steps: decode (EXIF orientation applied), flatten transparency onto white,
// optionally downscale so no side exceeds maxSide (0 disables), convert to
// grayscale, blur with the fixed 3x3 Gaussian kernel, measure variance.
//
// Returns a *DecodeError when data is not a readable raster image.
func Prepare(data []byte, maxSide int) (*Prepared, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}

	img = FitWithin(Flatten(img), maxSide)
	blurred := NewRaster(img).Blur()

	return &Prepared{
		Raster:   blurred,
		Image:    img,
		Format:   format,
		Variance: blurred.Variance(),
	}, nil
}

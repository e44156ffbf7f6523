// Package imaging provides the raster side of motif tracing: decoding,
// grayscale conversion, denoising and binary masks.
//
// All pixel buffers in this package are row-major with the origin at the
// top-left corner, X increasing rightward and Y increasing downward.
//
// # Types
//
//   - Raster: single-channel 8-bit intensities
//   - Mask: binary image of Foreground (255) and Background (0) pixels
//
// Operations return new buffers and never modify their input, so a Raster
// or Mask can be shared read-only once built.
//
// # Preprocessing
//
// Prepare runs the steps every trace starts with: decode (PNG, JPEG, GIF,
// BMP, TIFF, WebP), apply EXIF orientation, flatten transparency onto white,
// optionally downscale, convert to grayscale and blur with a fixed 3x3
// Gaussian kernel. The blur is mandatory; on noisy photographs it materially
// changes the number of contours found.
//
// # Masks
//
// Two mask builders exist, one per tracing strategy:
//   - Canny: dual-threshold gradient edges, for photographs
//   - OtsuLevel + BinarizeDark: global threshold with dark ink as foreground,
//     for flat motifs
//
// Masks support 3x3 Erode, Dilate and Open.
//
// # Error Handling
//
// Unreadable input yields a *DecodeError. Everything else in this package
// works on any size of input, including empty images.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless.
package imaging

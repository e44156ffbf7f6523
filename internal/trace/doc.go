// Package trace converts a bitmap into an SVG of classified vector shapes.
//
// A trace runs a fixed pipeline over one image:
//
//	bytes -> grayscale + blur -> strategy -> mask -> contour forest
//	      -> per-shape filter/classify/path -> layout -> SVG
//
// The strategy is chosen once per image (SelectStrategy) and drives every
// later stage: how the mask is built, how far contours are simplified and
// how paths are painted. Each top-level shape becomes one <path> whose
// subpaths are its outer ring and its holes, filled with the even-odd rule.
// Shapes are grouped into "badges" (compact) and "banners" (large or
// strip-like), or into a single badges group with the flat layout.
//
// # Known Limitation
//
// When a shape's outer ring is below the area filter its holes are dropped
// with it, even if they are large enough on their own. A hole cannot be
// drawn as a closed shape without the ring it is cut from.
//
// # Concurrency
//
// Trace holds no shared state. Concurrent calls are independent; the input
// bytes are only read.
package trace

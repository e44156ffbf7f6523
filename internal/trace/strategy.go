package trace

import (
	"strings"

	"github.com/ironsheep/motif-tracer/internal/imaging"
)

// PhotoVarianceThreshold is the grayscale variance above which an image is
// treated as a photograph and traced in outline mode. Chosen empirically:
// flat motifs and line art stay well below it, textured photos exceed it.
const PhotoVarianceThreshold = 500.0

// Preset is the tracing style requested by the caller.
type Preset string

const (
	PresetSolid    Preset = "solid"
	PresetOutline  Preset = "outline"
	PresetDetailed Preset = "detailed"
)

// ParsePreset normalizes a preset name. Empty or unrecognized names yield
// PresetSolid.
func ParsePreset(s string) Preset {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case PresetOutline, PresetDetailed:
		return p
	default:
		return PresetSolid
	}
}

// Layout controls how classified shapes are grouped in the output.
type Layout string

const (
	LayoutBadgesBanners Layout = "badges_banners"
	LayoutFlat          Layout = "flat"
)

// ParseLayout normalizes a layout name. Empty or unrecognized names yield
// LayoutBadgesBanners.
func ParseLayout(s string) Layout {
	if Layout(strings.ToLower(strings.TrimSpace(s))) == LayoutFlat {
		return LayoutFlat
	}
	return LayoutBadgesBanners
}

// Strategy is the tracing mode actually used for an image. It drives the
// mask construction, the simplification tolerance and the path styling.
type Strategy int

const (
	// StrategySolid fills shapes found by global thresholding.
	StrategySolid Strategy = iota

	// StrategyOutline strokes edges found by Canny edge detection.
	StrategyOutline

	// StrategyDetailed fills shapes like StrategySolid with a tighter
	// simplification tolerance and thinner strokes.
	StrategyDetailed
)

// String returns the strategy name used in logs and metrics.
func (s Strategy) String() string {
	switch s {
	case StrategyOutline:
		return "outline"
	case StrategyDetailed:
		return "detailed"
	default:
		return "solid"
	}
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outline reports whether shapes are traced from edges rather than filled regions.
func (s Strategy) Outline() bool {
	return s == StrategyOutline
}

// SelectStrategy decides how to trace an image. The first matching rule wins:
//
//  1. preset outline -> StrategyOutline
//  2. preset detailed -> StrategyDetailed
//  3. variance > PhotoVarianceThreshold -> StrategyOutline
//  4. otherwise -> StrategySolid
func SelectStrategy(variance float64, preset Preset) Strategy {
	switch {
	case preset == PresetOutline:
		return StrategyOutline
	case preset == PresetDetailed:
		return StrategyDetailed
	case variance > PhotoVarianceThreshold:
		return StrategyOutline
	default:
		return StrategySolid
	}
}

// Tolerance returns the simplification epsilon for a contour of the given
// perimeter: a fraction of the perimeter that depends on the strategy,
// never less than 0.5 pixel.
func (s Strategy) Tolerance(perimeter float64) float64 {
	var eps float64
	switch s {
	case StrategyDetailed:
		eps = 0.005 * perimeter
	case StrategyOutline:
		eps = 0.02 * perimeter
	default:
		eps = 0.01 * perimeter
	}
	if eps < 0.5 {
		return 0.5
	}
	return eps
}

// Style is the paint applied to every path of a trace.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Style returns the paint for this strategy using ink as the color.
//
// Outline traces are stroked only; solid and detailed traces are filled and
// stroked with the same ink.
func (s Strategy) Style(ink string) Style {
	switch s {
	case StrategyOutline:
		return Style{Fill: "none", Stroke: ink, StrokeWidth: 1.0}
	case StrategyDetailed:
		return Style{Fill: ink, Stroke: ink, StrokeWidth: 0.8}
	default:
		return Style{Fill: ink, Stroke: ink, StrokeWidth: 1.0}
	}
}

// BuildMask turns a denoised raster into the binary mask contours are traced on.
//
// Outline: Canny edges (CannyLow/CannyHigh) thickened by a 2x2 dilation so
// broken edge fragments join into closed loops. Solid and detailed: Otsu threshold with
// dark pixels as foreground, then a 3x3 opening to remove specks.
func BuildMask(r *imaging.Raster, s Strategy) *imaging.Mask {
	if s.Outline() {
		return imaging.Canny(r, imaging.CannyLow, imaging.CannyHigh).DilateEdges()
	}
	return imaging.BinarizeDark(r, imaging.OtsuLevel(r)).Open()
}

package trace

import (
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/motif-tracer/internal/detection"
)

// Area filter defaults.
const (
	// MinAreaFloor is the smallest area, in square pixels, a contour must have
	// to be traced, whatever the canvas size.
	MinAreaFloor = 12.0

	// MinAreaRatio scales the area filter with the canvas so dust is removed
	// at any resolution.
	MinAreaRatio = 0.00015
)

// MinArea returns the default area filter for a canvas:
// max(MinAreaFloor, MinAreaRatio * width * height).
func MinArea(width, height int) float64 {
	return math.Max(MinAreaFloor, MinAreaRatio*float64(width*height))
}

// PathElement is one SVG <path> built from a top-level shape and its holes.
type PathElement struct {
	// D is the path data: one "M ... Z" subpath per ring.
	D string `json:"d"`

	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`

	// FillRule is always "evenodd" so holes subtract from the outer ring.
	FillRule string `json:"fill_rule"`

	// Rings holds the simplified polygons in D, outer ring first.
	Rings []detection.Contour `json:"-"`
}

// String renders the element as an SVG <path/> tag.
func (p PathElement) String() string {
	var sb strings.Builder
	sb.WriteString(`<path d="`)
	sb.WriteString(p.D)
	sb.WriteString(`" fill="`)
	sb.WriteString(p.Fill)
	sb.WriteString(`" stroke="`)
	sb.WriteString(p.Stroke)
	sb.WriteString(`" stroke-width="`)
	sb.WriteString(strconv.FormatFloat(p.StrokeWidth, 'f', -1, 64))
	sb.WriteString(`" fill-rule="`)
	sb.WriteString(p.FillRule)
	sb.WriteString(`"/>`)
	return sb.String()
}

// BuildPath converts a shape and its holes into one even-odd path.
//
// Every ring (the outer contour and each hole) whose area is below minArea is
// skipped; the survivors are simplified with the strategy's tolerance and
// concatenated, outer ring first. When the outer contour itself is filtered,
// nothing is emitted even if holes would survive: a hole has no meaning
// without the ring it is cut from.
//
// The second return value is false when no path is emitted.
func BuildPath(shape detection.Shape, s Strategy, minArea float64, style Style) (PathElement, bool) {
	if shape.Outer.Area() < minArea {
		return PathElement{}, false
	}

	outer := detection.Simplify(shape.Outer, s.Tolerance(shape.Outer.Perimeter()))
	if len(outer) < 2 {
		return PathElement{}, false
	}
	rings := []detection.Contour{outer}
	parts := []string{ringData(outer)}

	for _, hole := range shape.Holes {
		if hole.Area() < minArea {
			continue
		}
		poly := detection.Simplify(hole, s.Tolerance(hole.Perimeter()))
		if len(poly) < 2 {
			continue
		}
		rings = append(rings, poly)
		parts = append(parts, ringData(poly))
	}

	return PathElement{
		D:           strings.Join(parts, " "),
		Fill:        style.Fill,
		Stroke:      style.Stroke,
		StrokeWidth: style.StrokeWidth,
		FillRule:    "evenodd",
		Rings:       rings,
	}, true
}

// ringData formats a closed polygon as "Mx0,y0 Lx1,y1 ... Z".
func ringData(poly detection.Contour) string {
	var sb strings.Builder
	for i, p := range poly {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(strconv.Itoa(p.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.Y))
	}
	sb.WriteString(" Z")
	return sb.String()
}

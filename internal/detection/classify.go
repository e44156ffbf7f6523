package detection

// Classification thresholds.
const (
	// FrameRatio is the share of the canvas above which a shape is treated as
	// a frame or background artifact and dropped.
	FrameRatio = 0.93

	// BannerAreaRatio is the share of the canvas at or above which a shape is
	// a banner regardless of its proportions.
	BannerAreaRatio = 0.02

	// StripAspect is the width/height ratio (or its inverse) at or beyond
	// which a shape is a strip and therefore a banner.
	StripAspect = 3.0

	// BorderMargin is how close, in pixels, a bounding box must come to a
	// canvas edge to count as touching it.
	BorderMargin = 2

	// BorderTouchLimit is the number of touched canvas edges at which a shape
	// is treated as a scan-border artifact and dropped.
	BorderTouchLimit = 2
)

// Class is the verdict of Classify for one top-level shape.
type Class int

const (
	// ClassBadge is a compact, roughly square shape.
	ClassBadge Class = iota

	// ClassBanner is a large shape or a wide or tall strip.
	ClassBanner

	// ClassFrame is a shape covering almost the whole canvas; dropped.
	ClassFrame

	// ClassBorder is a shape touching two or more canvas edges; dropped.
	ClassBorder
)

// String returns the lowercase class name.
func (c Class) String() string {
	switch c {
	case ClassBadge:
		return "badge"
	case ClassBanner:
		return "banner"
	case ClassFrame:
		return "frame"
	case ClassBorder:
		return "border"
	default:
		return "unknown"
	}
}

// Kept reports whether shapes of this class appear in the output.
func (c Class) Kept() bool {
	return c == ClassBadge || c == ClassBanner
}

// Classify assigns a top-level shape to the badge or banner group, or rejects
// it as a frame or border artifact.
//
// Parameters:
//   - area: Absolute area of the shape's outer contour.
//   - box: Bounding box of the outer contour.
//   - width, height: Canvas dimensions in pixels.
//
// # Rules
//
// Rejections are checked first:
//   - area/canvas > FrameRatio -> ClassFrame
//   - box within BorderMargin of two or more canvas edges -> ClassBorder
//
// Then, a shape is a banner if any of:
//   - area/canvas >= BannerAreaRatio
//   - box width/height >= StripAspect
//   - box width/height <= 1/StripAspect
//
// and a badge otherwise. A zero box height counts as 1.
func Classify(area float64, box Bounds, width, height int) Class {
	canvas := float64(width * height)
	if canvas <= 0 {
		return ClassFrame
	}

	ratio := area / canvas
	if ratio > FrameRatio {
		return ClassFrame
	}
	if TouchedEdges(box, width, height) >= BorderTouchLimit {
		return ClassBorder
	}

	h := box.Height()
	if h == 0 {
		h = 1
	}
	aspect := float64(box.Width()) / float64(h)

	if ratio >= BannerAreaRatio || aspect >= StripAspect || aspect <= 1/StripAspect {
		return ClassBanner
	}
	return ClassBadge
}

// TouchedEdges counts the canvas edges a bounding box comes within
// BorderMargin pixels of.
func TouchedEdges(box Bounds, width, height int) int {
	touched := 0
	if box.X1 <= BorderMargin-1 {
		touched++
	}
	if box.Y1 <= BorderMargin-1 {
		touched++
	}
	if box.X2 >= width-BorderMargin {
		touched++
	}
	if box.Y2 >= height-BorderMargin {
		touched++
	}
	return touched
}

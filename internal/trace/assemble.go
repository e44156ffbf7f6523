package trace

import (
	"strconv"
	"strings"
)

// EmptyResultWarning is reported, and embedded as an SVG comment, when no
// shape survives filtering.
const EmptyResultWarning = "no usable contours (try different image or outline preset)"

// Group names used as <g> ids.
const (
	GroupBadges  = "badges"
	GroupBanners = "banners"
)

// Assemble wraps the grouped paths into a standalone SVG document whose
// viewBox matches the source image.
//
// One <g> element is written per non-empty group, badges first. When both
// groups are empty the document holds a single comment, so the output is
// valid SVG even for images with nothing to trace.
func Assemble(width, height int, badges, banners []PathElement) string {
	w := strconv.Itoa(width)
	h := strconv.Itoa(height)

	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)
	sb.WriteString(w + " " + h)
	sb.WriteString(`" width="` + w + `" height="` + h + `">`)
	sb.WriteByte('\n')

	wrote := writeGroup(&sb, GroupBadges, badges)
	if writeGroup(&sb, GroupBanners, banners) {
		wrote = true
	}
	if !wrote {
		sb.WriteString("<!-- " + EmptyResultWarning + " -->\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeGroup(sb *strings.Builder, id string, paths []PathElement) bool {
	if len(paths) == 0 {
		return false
	}
	sb.WriteString(`<g id="` + id + `">`)
	for i, p := range paths {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.String())
	}
	sb.WriteString("</g>\n")
	return true
}

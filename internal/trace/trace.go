package trace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/motif-tracer/internal/detection"
	"github.com/ironsheep/motif-tracer/internal/imaging"
)

// DefaultInk is the color of every traced path unless configured otherwise.
const DefaultInk = "#000000"

// InkAuto takes the path color from the image: the dominant color of its
// dark foreground.
const InkAuto = "auto"

// Options tune a single tracing call. The zero value traces with the solid
// preset, the badges/banners layout and black ink.
type Options struct {
	Layout Layout
	Preset Preset

	// Ink is the fill and stroke color as "#rgb" or "#rrggbb", or InkAuto.
	// Empty means DefaultInk.
	Ink string

	// MinArea overrides the area filter when positive; otherwise MinArea(W, H)
	// is used.
	MinArea float64

	// MaxSide downscales images whose width or height exceeds it. Zero keeps
	// the original resolution.
	MaxSide int
}

// ParseInk validates a hex color and returns it normalized as "#rrggbb".
// InkAuto is accepted in any case and returned as is.
func ParseInk(s string) (string, error) {
	if s == "" {
		return DefaultInk, nil
	}
	if strings.EqualFold(s, InkAuto) {
		return InkAuto, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid ink color %q: %w", s, err)
	}
	return c.Hex(), nil
}

// Result is the immutable outcome of tracing one image.
type Result struct {
	// Width and Height are the traced canvas dimensions (after MaxSide).
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the decoder name of the input bytes.
	Format string `json:"format"`

	// Variance is the grayscale variance the strategy was selected from.
	Variance float64 `json:"variance"`

	Strategy Strategy `json:"strategy"`
	Layout   Layout   `json:"layout"`

	// Contours is the number of contours found before filtering.
	Contours int `json:"contours"`

	// SVG is the assembled document.
	SVG string `json:"svg"`

	Badges  []PathElement `json:"badges"`
	Banners []PathElement `json:"banners"`

	// Warning is EmptyResultWarning when no shape survived filtering.
	Warning string `json:"warning,omitempty"`
}

// Empty reports whether no shape survived filtering.
func (r *Result) Empty() bool {
	return len(r.Badges) == 0 && len(r.Banners) == 0
}

// BadgePaths returns the badge elements as SVG strings.
func (r *Result) BadgePaths() []string {
	return pathStrings(r.Badges)
}

// BannerPaths returns the banner elements as SVG strings.
func (r *Result) BannerPaths() []string {
	return pathStrings(r.Banners)
}

func pathStrings(paths []PathElement) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

// Trace converts encoded image bytes into a classified SVG.
//
// # Pipeline
//
//  1. Preprocess: decode, flatten transparency, grayscale, 3x3 blur, variance
//  2. Select strategy from the variance and preset (SelectStrategy)
//  3. Build the mask: Canny + dilation (outline) or Otsu + opening (solid)
//  4. Find contours as a two-level forest (detection.FindContours)
//  5. For each top-level shape: drop it if below the area filter, classify
//     it (dropping frames and border artifacts), build its even-odd path
//  6. Apply the layout and assemble the SVG
//
// Returns a *imaging.DecodeError when data is not a readable image. An image
// without usable shapes is not an error: the result is Empty and carries
// EmptyResultWarning.
//
// Trace keeps no state between calls and may be called concurrently.
func Trace(data []byte, opts Options) (*Result, error) {
	ink, err := ParseInk(opts.Ink)
	if err != nil {
		return nil, err
	}
	layout := ParseLayout(string(opts.Layout))
	preset := ParsePreset(string(opts.Preset))

	prep, err := imaging.Prepare(data, opts.MaxSide)
	if err != nil {
		return nil, err
	}

	raster := prep.Raster
	if ink == InkAuto {
		ink = DefaultInk
		if sampled, ok := imaging.InkColor(prep.Image, raster); ok {
			ink = sampled
		}
	}
	strategy := SelectStrategy(prep.Variance, preset)
	forest := detection.FindContours(BuildMask(raster, strategy))

	minArea := opts.MinArea
	if minArea <= 0 {
		minArea = MinArea(raster.W, raster.H)
	}
	style := strategy.Style(ink)

	var badges, banners []PathElement
	for shape := range forest.Shapes() {
		area := shape.Outer.Area()
		if area < minArea {
			continue
		}
		class := detection.Classify(area, shape.Outer.Bounds(), raster.W, raster.H)
		if !class.Kept() {
			continue
		}
		el, ok := BuildPath(shape, strategy, minArea, style)
		if !ok {
			continue
		}
		if class == detection.ClassBanner {
			banners = append(banners, el)
		} else {
			badges = append(badges, el)
		}
	}

	if layout == LayoutFlat {
		badges = append(badges, banners...)
		banners = nil
	}

	res := &Result{
		Width:    raster.W,
		Height:   raster.H,
		Format:   prep.Format,
		Variance: prep.Variance,
		Strategy: strategy,
		Layout:   layout,
		Contours: forest.Len(),
		SVG:      Assemble(raster.W, raster.H, badges, banners),
		Badges:   badges,
		Banners:  banners,
	}
	if res.Empty() {
		res.Warning = EmptyResultWarning
	}
	return res, nil
}

// Response is the wire form of a tracing call shared by the HTTP and MCP adapters.
type Response struct {
	OK      bool     `json:"ok"`
	SVG     string   `json:"svg"`
	Badges  []string `json:"badges"`
	Banners []string `json:"banners"`
	Error   string   `json:"error,omitempty"`
	Warning string   `json:"warning,omitempty"`

	// Strategy is the tracing mode that was applied.
	Strategy string `json:"strategy,omitempty"`

	// ID, DownloadURL and StorageError are filled by adapters that persist
	// the SVG.
	ID           string `json:"id,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
	StorageError string `json:"storage_error,omitempty"`
}

// Run traces image bytes with the given layout and preset names and returns
// the wire response. Unknown names fall back to the defaults.
func Run(data []byte, layout, preset string) Response {
	return NewResponse(Trace(data, Options{Layout: Layout(layout), Preset: Preset(preset)}))
}

// NewResponse converts a Trace outcome into its wire form.
func NewResponse(res *Result, err error) Response {
	if err != nil {
		return Response{
			OK:      false,
			Badges:  []string{},
			Banners: []string{},
			Error:   err.Error(),
		}
	}
	return Response{
		OK:       true,
		SVG:      res.SVG,
		Badges:   res.BadgePaths(),
		Banners:  res.BannerPaths(),
		Warning:  res.Warning,
		Strategy: res.Strategy.String(),
	}
}

// IsDecodeError reports whether err means the input was not a readable image.
func IsDecodeError(err error) bool {
	var de *imaging.DecodeError
	return errors.As(err, &de)
}

// Package preview rasterizes traced paths so a trace can be inspected as a
// bitmap next to the source image.
//
// Rendering uses the same even-odd rule the SVG declares, so holes show as
// paper exactly where an SVG viewer would show them.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/ironsheep/motif-tracer/internal/trace"
)

// Render draws every emitted path of res on a white canvas of the traced size.
func Render(res *trace.Result) (*image.RGBA, error) {
	dc, err := paint(res)
	if err != nil {
		return nil, err
	}
	defer dc.Close()

	img := dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}

// PNG renders res and encodes the result as PNG.
func PNG(res *trace.Result) ([]byte, error) {
	dc, err := paint(res)
	if err != nil {
		return nil, err
	}
	defer dc.Close()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// paint returns a context holding the rendered paths. The caller closes it.
func paint(res *trace.Result) (*gg.Context, error) {
	if res == nil || res.Width <= 0 || res.Height <= 0 {
		return nil, errors.New("nothing to render")
	}

	dc := gg.NewContext(res.Width, res.Height)
	dc.ClearWithColor(gg.White)
	dc.SetFillRule(gg.FillRuleEvenOdd)

	for _, group := range [][]trace.PathElement{res.Badges, res.Banners} {
		for _, el := range group {
			if err := paintElement(dc, el); err != nil {
				dc.Close()
				return nil, err
			}
		}
	}

	if err := dc.FlushGPU(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("failed to flush preview: %w", err)
	}
	return dc, nil
}

func paintElement(dc *gg.Context, el trace.PathElement) error {
	if len(el.Rings) == 0 {
		return nil
	}

	// Contour points are pixel indices; pixel centers sit at +0.5.
	for _, ring := range el.Rings {
		for i, p := range ring {
			x, y := float64(p.X)+0.5, float64(p.Y)+0.5
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
	}

	if el.Fill != "" && el.Fill != "none" {
		dc.SetHexColor(el.Fill)
		if err := dc.FillPreserve(); err != nil {
			return fmt.Errorf("failed to fill path: %w", err)
		}
	}

	if el.Stroke != "" && el.Stroke != "none" && el.StrokeWidth > 0 {
		dc.SetHexColor(el.Stroke)
		dc.SetLineWidth(el.StrokeWidth)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to stroke path: %w", err)
		}
		return nil
	}

	dc.ClearPath()
	return nil
}

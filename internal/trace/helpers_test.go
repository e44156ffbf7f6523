package trace

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
)

// rect is a filled rectangle [X1,X2) x [Y1,Y2) drawn with gray level V.
type rect struct {
	X1, Y1, X2, Y2 int
	V              uint8
}

// motifPNG renders gray rectangles on a uniform background and encodes the
// result as PNG.
func motifPNG(t *testing.T, width, height int, bg uint8, rects ...rect) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = bg
	}
	for _, r := range rects {
		for y := r.Y1; y < r.Y2; y++ {
			for x := r.X1; x < r.X2; x++ {
				img.SetGray(x, y, color.Gray{Y: r.V})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// svgPath is a <path> element found in an SVG document.
type svgPath struct {
	Group string
	Attrs map[string]string
}

// parseSVG checks that doc is well-formed XML with an <svg> root and returns
// the root attributes and every path with the id of its enclosing group.
func parseSVG(t *testing.T, doc string) (map[string]string, []svgPath) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))

	var (
		root  map[string]string
		paths []svgPath
		group string
		depth int
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("invalid SVG: %v\n%s", err, doc)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]string)
			for _, a := range el.Attr {
				attrs[a.Name.Local] = a.Value
			}
			switch {
			case depth == 0:
				if el.Name.Local != "svg" {
					t.Fatalf("root element is %s", el.Name.Local)
				}
				root = attrs
			case el.Name.Local == "g":
				group = attrs["id"]
			case el.Name.Local == "path":
				paths = append(paths, svgPath{Group: group, Attrs: attrs})
			}
			depth++
		case xml.EndElement:
			depth--
			if el.Name.Local == "g" {
				group = ""
			}
		}
	}
	if root == nil {
		t.Fatal("no <svg> element")
	}
	return root, paths
}

// checkPathData verifies d is a sequence of "M x,y (L x,y)* Z" subpaths and
// returns the number of subpaths.
func checkPathData(t *testing.T, d string) int {
	t.Helper()
	rings := 0
	open := false
	for _, tok := range strings.Fields(d) {
		var x, y int
		switch {
		case tok == "Z":
			if !open {
				t.Fatalf("Z without open subpath in %q", d)
			}
			open = false
			rings++
		case strings.HasPrefix(tok, "M"):
			if open {
				t.Fatalf("M inside open subpath in %q", d)
			}
			if _, err := fmt.Sscanf(tok, "M%d,%d", &x, &y); err != nil {
				t.Fatalf("bad move %q: %v", tok, err)
			}
			open = true
		case strings.HasPrefix(tok, "L"):
			if !open {
				t.Fatalf("L outside subpath in %q", d)
			}
			if _, err := fmt.Sscanf(tok, "L%d,%d", &x, &y); err != nil {
				t.Fatalf("bad line %q: %v", tok, err)
			}
		default:
			t.Fatalf("unexpected token %q in %q", tok, d)
		}
	}
	if open {
		t.Fatalf("unterminated subpath in %q", d)
	}
	if rings == 0 {
		t.Fatalf("empty path data")
	}
	return rings
}

// startPoint returns the first coordinate of path data.
func startPoint(t *testing.T, d string) (int, int) {
	t.Helper()
	var x, y int
	if _, err := fmt.Sscanf(d, "M%d,%d", &x, &y); err != nil {
		t.Fatalf("bad path data %q: %v", d, err)
	}
	return x, y
}

func near(a, b, tol int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

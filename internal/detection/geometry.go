package detection

import "math"

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// (X1, Y1) is inclusive and (X2, Y2) is exclusive, so a single pixel at
// (5, 7) has bounds {5, 7, 6, 8}.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Width returns the horizontal extent in pixels.
func (b Bounds) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent in pixels.
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// Contour is a closed loop of pixel coordinates. The last point connects back
// to the first.
type Contour []Point

// SignedArea returns the shoelace area of the polygon through the contour's
// pixel centers. The sign depends on the winding direction.
func (c Contour) SignedArea() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return float64(sum) / 2
}

// Area returns the absolute polygon area.
func (c Contour) Area() float64 {
	return math.Abs(c.SignedArea())
}

// Perimeter returns the length of the closed polygon, including the segment
// from the last point back to the first.
func (c Contour) Perimeter() float64 {
	n := len(c)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		length += math.Hypot(float64(c[j].X-c[i].X), float64(c[j].Y-c[i].Y))
	}
	return length
}

// Bounds returns the smallest box containing every point of the contour.
func (c Contour) Bounds() Bounds {
	if len(c) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: c[0].X, Y1: c[0].Y, X2: c[0].X, Y2: c[0].Y}
	for _, p := range c[1:] {
		b.X1 = minInt(b.X1, p.X)
		b.Y1 = minInt(b.Y1, p.Y)
		b.X2 = maxInt(b.X2, p.X)
		b.Y2 = maxInt(b.Y2, p.Y)
	}
	b.X2++
	b.Y2++
	return b
}

// Simplify approximates a closed contour with fewer vertices using the
// Douglas-Peucker algorithm.
//
// Every removed point lies within epsilon of the polygon edge that replaces
// it. The contour is split at its first point and the point farthest from it,
// and each half is simplified independently; the first point is always kept,
// so the result starts where the contour starts.
func Simplify(c Contour, epsilon float64) Contour {
	n := len(c)
	if n <= 2 {
		return append(Contour(nil), c...)
	}

	far := 0
	farDist := -1.0
	for i := 1; i < n; i++ {
		d := math.Hypot(float64(c[i].X-c[0].X), float64(c[i].Y-c[0].Y))
		if d > farDist {
			far, farDist = i, d
		}
	}
	if farDist == 0 {
		return Contour{c[0]}
	}

	keep := make([]bool, n+1)
	keep[0], keep[far], keep[n] = true, true, true

	// Index n stands for point 0 again, closing the loop.
	at := func(i int) Point { return c[i%n] }

	type span struct{ from, to int }
	stack := []span{{0, far}, {far, n}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.to-s.from < 2 {
			continue
		}

		a, b := at(s.from), at(s.to)
		split := -1
		maxDist := epsilon
		for i := s.from + 1; i < s.to; i++ {
			if d := lineDistance(at(i), a, b); d > maxDist {
				split, maxDist = i, d
			}
		}
		if split < 0 {
			continue
		}
		keep[split] = true
		stack = append(stack, span{s.from, split}, span{split, s.to})
	}

	out := make(Contour, 0, 8)
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, c[i])
		}
	}
	return out
}

// lineDistance returns the distance from p to the line through a and b, or
// to a itself when a and b coincide.
func lineDistance(p, a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	px := float64(p.X - a.X)
	py := float64(p.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(px, py)
	}
	return math.Abs(dx*py-dy*px) / length
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

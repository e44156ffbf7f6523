package detection

import (
	"testing"

	"github.com/ironsheep/motif-tracer/internal/imaging"
)

// maskFromRows builds a mask from an ASCII picture where '#' is foreground.
func maskFromRows(t *testing.T, rows ...string) *imaging.Mask {
	t.Helper()
	m := imaging.NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.W {
			t.Fatalf("row %d has length %d, want %d", y, len(row), m.W)
		}
		for x, c := range row {
			if c == '#' {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// fillMask marks the rectangle [x1,x2) x [y1,y2) as foreground.
func fillMask(m *imaging.Mask, x1, y1, x2, y2 int, on bool) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			m.Set(x, y, on)
		}
	}
}

// drawRect draws a one-pixel rectangle outline with inclusive corners.
func drawRect(m *imaging.Mask, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		m.Set(x, y1, true)
		m.Set(x, y2, true)
	}
	for y := y1; y <= y2; y++ {
		m.Set(x1, y, true)
		m.Set(x2, y, true)
	}
}

package trace

import (
	"strings"
	"testing"

	"github.com/ironsheep/motif-tracer/internal/detection"
)

func square(x1, y1, x2, y2 int) detection.Contour {
	return detection.Contour{{X: x1, Y: y1}, {X: x1, Y: y2}, {X: x2, Y: y2}, {X: x2, Y: y1}}
}

func TestMinArea(t *testing.T) {
	tests := []struct {
		w, h int
		want float64
	}{
		{100, 100, 12},
		{200, 200, 12},
		{1000, 1000, 150},
		{0, 0, 12},
	}
	for _, tt := range tests {
		if got := MinArea(tt.w, tt.h); got != tt.want {
			t.Errorf("MinArea(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestBuildPath(t *testing.T) {
	shape := detection.Shape{
		Outer: square(0, 0, 50, 50),
		Holes: []detection.Contour{
			square(10, 10, 20, 20),
			square(30, 30, 32, 32), // area 4, below the filter
		},
	}
	style := StrategySolid.Style(DefaultInk)

	el, ok := BuildPath(shape, StrategySolid, 12, style)
	if !ok {
		t.Fatal("expected a path")
	}

	wantD := "M0,0 L0,50 L50,50 L50,0 Z M10,10 L10,20 L20,20 L20,10 Z"
	if el.D != wantD {
		t.Errorf("D = %q, want %q", el.D, wantD)
	}
	if len(el.Rings) != 2 {
		t.Errorf("expected 2 rings, got %d", len(el.Rings))
	}
	if el.FillRule != "evenodd" {
		t.Errorf("FillRule = %q", el.FillRule)
	}
	if el.Fill != DefaultInk || el.Stroke != DefaultInk || el.StrokeWidth != 1.0 {
		t.Errorf("unexpected style %+v", el)
	}
}

func TestBuildPath_OuterBelowFilter(t *testing.T) {
	// Holes are never emitted without their outer ring.
	shape := detection.Shape{
		Outer: square(0, 0, 3, 3),
		Holes: []detection.Contour{square(0, 0, 20, 20)},
	}
	if _, ok := BuildPath(shape, StrategySolid, 12, StrategySolid.Style(DefaultInk)); ok {
		t.Error("expected no path when the outer ring is filtered")
	}
}

func TestBuildPath_Simplifies(t *testing.T) {
	outer := detection.Contour{
		{X: 0, Y: 0}, {X: 0, Y: 25}, {X: 0, Y: 50}, {X: 25, Y: 50},
		{X: 50, Y: 50}, {X: 50, Y: 25}, {X: 50, Y: 0}, {X: 25, Y: 0},
	}
	el, ok := BuildPath(detection.Shape{Outer: outer}, StrategyOutline, 12, StrategyOutline.Style(DefaultInk))
	if !ok {
		t.Fatal("expected a path")
	}
	if el.D != "M0,0 L0,50 L50,50 L50,0 Z" {
		t.Errorf("D = %q", el.D)
	}
	if el.Fill != "none" {
		t.Errorf("outline fill = %q, want none", el.Fill)
	}
}

func TestPathElement_String(t *testing.T) {
	el := PathElement{
		D:           "M0,0 L0,9 L9,9 Z",
		Fill:        "none",
		Stroke:      "#000000",
		StrokeWidth: 0.8,
		FillRule:    "evenodd",
	}
	want := `<path d="M0,0 L0,9 L9,9 Z" fill="none" stroke="#000000" stroke-width="0.8" fill-rule="evenodd"/>`
	if got := el.String(); got != want {
		t.Errorf("String() = %s\nwant       %s", got, want)
	}

	el.StrokeWidth = 1
	if !strings.Contains(el.String(), `stroke-width="1"`) {
		t.Errorf("integral width not formatted compactly: %s", el.String())
	}
}

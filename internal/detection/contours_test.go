package detection

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/ironsheep/motif-tracer/internal/imaging"
)

func TestFindContours_Empty(t *testing.T) {
	forest := FindContours(imaging.NewMask(20, 20))
	if forest.Len() != 0 {
		t.Errorf("expected empty forest, got %d contours", forest.Len())
	}
	for range forest.Shapes() {
		t.Error("empty forest yielded a shape")
	}
	if roots := forest.Roots(); len(roots) != 0 {
		t.Errorf("expected no roots, got %v", roots)
	}

	if FindContours(imaging.NewMask(0, 0)).Len() != 0 {
		t.Error("zero-size mask should yield an empty forest")
	}
}

func TestFindContours_FilledSquare(t *testing.T) {
	m := imaging.NewMask(30, 30)
	fillMask(m, 5, 5, 15, 15, true)

	forest := FindContours(m)
	roots := forest.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}

	node := forest.Node(roots[0])
	want := Contour{{5, 5}, {5, 14}, {14, 14}, {14, 5}}
	if !reflect.DeepEqual(node.Contour, want) {
		t.Errorf("contour = %v, want %v", node.Contour, want)
	}
	if node.Hole {
		t.Error("outer contour flagged as hole")
	}
	if node.Parent() != None || node.FirstChild() != None {
		t.Errorf("unexpected links: parent %d child %d", node.Parent(), node.FirstChild())
	}
	if got := node.Contour.Area(); got != 81 {
		t.Errorf("Area() = %f, want 81", got)
	}
	if got := node.Contour.Bounds(); got != (Bounds{5, 5, 15, 15}) {
		t.Errorf("Bounds() = %+v", got)
	}
}

func TestFindContours_SinglePixel(t *testing.T) {
	m := imaging.NewMask(5, 5)
	m.Set(2, 3, true)

	forest := FindContours(m)
	if forest.Len() != 1 {
		t.Fatalf("expected 1 contour, got %d", forest.Len())
	}
	c := forest.Node(forest.Roots()[0]).Contour
	if !reflect.DeepEqual(c, Contour{{2, 3}}) {
		t.Errorf("contour = %v", c)
	}
	if c.Area() != 0 {
		t.Errorf("single pixel area = %f", c.Area())
	}
}

func TestFindContours_FullMask(t *testing.T) {
	m := imaging.NewMask(8, 6)
	fillMask(m, 0, 0, 8, 6, true)

	forest := FindContours(m)
	if forest.Len() != 1 {
		t.Fatalf("expected 1 contour, got %d", forest.Len())
	}
	want := Contour{{0, 0}, {0, 5}, {7, 5}, {7, 0}}
	if got := forest.Node(0).Contour; !reflect.DeepEqual(got, want) {
		t.Errorf("contour = %v, want %v", got, want)
	}
}

func TestFindContours_Ring(t *testing.T) {
	m := imaging.NewMask(30, 30)
	fillMask(m, 5, 5, 25, 25, true)
	fillMask(m, 10, 10, 20, 20, false)

	forest := FindContours(m)
	roots := forest.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	children := forest.Children(roots[0])
	if len(children) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(children))
	}

	hole := forest.Node(children[0])
	if !hole.Hole {
		t.Error("child not flagged as hole")
	}
	if hole.Parent() != roots[0] {
		t.Errorf("hole parent = %d, want %d", hole.Parent(), roots[0])
	}
	if hole.FirstChild() != None {
		t.Error("hole has children")
	}

	// The hole border runs over the ink pixels around the 10x10 gap.
	area := hole.Contour.Area()
	if area < 100 || area > 121 {
		t.Errorf("hole area = %f, want within [100, 121]", area)
	}
	if outer := forest.Node(roots[0]).Contour.Area(); outer != 361 {
		t.Errorf("outer area = %f, want 361", outer)
	}
}

func TestFindContours_OutlineRectangle(t *testing.T) {
	m := imaging.NewMask(20, 20)
	drawRect(m, 5, 5, 15, 15)

	forest := FindContours(m)
	if forest.Len() != 2 {
		t.Fatalf("expected outer and hole, got %d contours", forest.Len())
	}
	shapes := 0
	for s := range forest.Shapes() {
		shapes++
		if s.Outer.Area() != 100 {
			t.Errorf("outer area = %f, want 100", s.Outer.Area())
		}
		if len(s.Holes) != 1 {
			t.Fatalf("expected 1 hole, got %d", len(s.Holes))
		}
		if a := s.Holes[0].Area(); a < 90 || a > 100 {
			t.Errorf("hole area = %f", a)
		}
	}
	if shapes != 1 {
		t.Errorf("expected 1 shape, got %d", shapes)
	}
}

func TestFindContours_IslandInHole(t *testing.T) {
	m := imaging.NewMask(30, 30)
	fillMask(m, 5, 5, 25, 25, true)
	fillMask(m, 10, 10, 20, 20, false)
	fillMask(m, 13, 13, 17, 17, true)

	forest := FindContours(m)
	roots := forest.Roots()
	if len(roots) != 2 {
		t.Fatalf("expected ring and island as roots, got %d", len(roots))
	}
	if forest.Len() != 3 {
		t.Errorf("expected 3 contours, got %d", forest.Len())
	}

	ring, island := forest.Node(roots[0]), forest.Node(roots[1])
	if ring.Contour[0] != (Point{5, 5}) {
		t.Errorf("first root starts at %v, want the ring", ring.Contour[0])
	}
	if island.Contour[0] != (Point{13, 13}) {
		t.Errorf("second root starts at %v, want the island", island.Contour[0])
	}
	if len(forest.Children(roots[0])) != 1 || len(forest.Children(roots[1])) != 0 {
		t.Error("hole should belong to the ring only")
	}
	if island.Parent() != None {
		t.Error("island must be a top-level contour")
	}
}

func TestFindContours_DiscoveryOrder(t *testing.T) {
	m := maskFromRows(t,
		"..........",
		"......##..",
		"......##..",
		"..........",
		".##.......",
		".##.......",
		"..........",
	)

	forest := FindContours(m)
	roots := forest.Roots()
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if got := forest.Node(roots[0]).Contour[0]; got != (Point{6, 1}) {
		t.Errorf("first root starts at %v, want (6,1)", got)
	}
	if got := forest.Node(roots[1]).Contour[0]; got != (Point{1, 4}) {
		t.Errorf("second root starts at %v, want (1,4)", got)
	}
}

func TestFindContours_DiagonalConnectivity(t *testing.T) {
	// Ink touching at a corner is one shape; paper touching at a corner is
	// not connected, so the center gap is a hole.
	m := maskFromRows(t,
		".....",
		".#.#.",
		"..#..",
		".#.#.",
		".....",
	)
	forest := FindContours(m)
	if n := len(forest.Roots()); n != 1 {
		t.Errorf("diagonal pixels: expected 1 root, got %d", n)
	}

	ring := maskFromRows(t,
		".....",
		"..#..",
		".#.#.",
		"..#..",
		".....",
	)
	forest = FindContours(ring)
	roots := forest.Roots()
	if len(roots) != 1 {
		t.Fatalf("diamond: expected 1 root, got %d", len(roots))
	}
	if n := len(forest.Children(roots[0])); n != 1 {
		t.Errorf("diamond: expected 1 hole, got %d", n)
	}
}

func TestFindContours_BorderTouchingGapIsNotHole(t *testing.T) {
	m := maskFromRows(t,
		"#####",
		"#...#",
		"#....",
		"#####",
	)
	forest := FindContours(m)
	if forest.Len() != 1 {
		t.Errorf("open gap must not be a hole, got %d contours", forest.Len())
	}
}

func TestFindContours_ContoursLieOnInk(t *testing.T) {
	m := imaging.NewMask(30, 30)
	fillMask(m, 5, 5, 25, 25, true)
	fillMask(m, 10, 10, 20, 20, false)

	forest := FindContours(m)
	for h := range forest.Walk() {
		for _, p := range forest.Node(h).Contour {
			if !m.At(p.X, p.Y) {
				t.Errorf("contour %d point %v is not foreground", h, p)
			}
		}
	}
}

// Every contour is reachable exactly once, roots are outers and every child
// is a hole pointing back at its root.
func TestFindContours_HierarchyRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		w, h := 8+rng.Intn(25), 8+rng.Intn(25)
		m := imaging.NewMask(w, h)
		for i := range m.Pix {
			if rng.Float64() < 0.45 {
				m.Pix[i] = imaging.Foreground
			}
		}

		forest := FindContours(m)

		seen := make(map[Handle]int)
		for handle := range forest.Walk() {
			seen[handle]++
		}
		if len(seen) != forest.Len() {
			t.Fatalf("trial %d: walked %d handles, forest has %d", trial, len(seen), forest.Len())
		}
		for handle, n := range seen {
			if n != 1 {
				t.Fatalf("trial %d: handle %d visited %d times", trial, handle, n)
			}
		}

		_, fgFirst := labelComponents(m, true)
		bgLabels, bgFirst := labelComponents(m, false)
		outside := borderLabels(bgLabels, w, h)
		holes := 0
		for label := range bgFirst {
			if !outside[int32(label+1)] {
				holes++
			}
		}

		roots := forest.Roots()
		if len(roots) != len(fgFirst) {
			t.Fatalf("trial %d: %d roots, %d components", trial, len(roots), len(fgFirst))
		}

		children := 0
		for _, r := range roots {
			node := forest.Node(r)
			if node.Hole || node.Parent() != None {
				t.Fatalf("trial %d: root %d is not a top-level outer", trial, r)
			}
			if len(node.Contour) == 0 {
				t.Fatalf("trial %d: root %d has empty contour", trial, r)
			}
			for _, c := range forest.Children(r) {
				children++
				child := forest.Node(c)
				if !child.Hole || child.Parent() != r {
					t.Fatalf("trial %d: child %d of %d malformed", trial, c, r)
				}
				if child.FirstChild() != None {
					t.Fatalf("trial %d: hole %d has children", trial, c)
				}
			}
		}
		if children != holes {
			t.Fatalf("trial %d: %d hole contours, %d enclosed gaps", trial, children, holes)
		}
	}
}

func TestForest_WalkStopsEarly(t *testing.T) {
	m := imaging.NewMask(30, 10)
	fillMask(m, 1, 1, 5, 5, true)
	fillMask(m, 10, 1, 14, 5, true)
	fillMask(m, 20, 1, 24, 5, true)

	forest := FindContours(m)
	n := 0
	for range forest.Walk() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected to stop after 2 handles, got %d", n)
	}
}

func TestCompress(t *testing.T) {
	c := Contour{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}, {2, 1}, {2, 0}, {1, 0}}
	want := Contour{{0, 0}, {0, 2}, {2, 2}, {2, 0}}
	if got := compress(c); !reflect.DeepEqual(got, want) {
		t.Errorf("compress() = %v, want %v", got, want)
	}
}

package detection

import (
	"iter"
	"sort"

	"github.com/ironsheep/motif-tracer/internal/imaging"
)

// Handle identifies a contour inside a Forest. Handles are stable for the
// lifetime of the forest.
type Handle int

// None is the handle of a missing link (no parent, no child, no sibling).
const None Handle = -1

// Node is one contour of a Forest together with its hierarchy links.
type Node struct {
	// Contour is the traced border.
	Contour Contour

	// Hole reports whether the contour borders a hole rather than the outside
	// of a shape.
	Hole bool

	parent     Handle
	firstChild Handle
	lastChild  Handle
	next       Handle
	prev       Handle
}

// Parent returns the enclosing outer contour of a hole, or None for an outer contour.
func (n *Node) Parent() Handle { return n.parent }

// FirstChild returns the first hole of an outer contour, or None.
func (n *Node) FirstChild() Handle { return n.firstChild }

// Next returns the next sibling at the same level, or None.
func (n *Node) Next() Handle { return n.next }

// Prev returns the previous sibling at the same level, or None.
func (n *Node) Prev() Handle { return n.prev }

// Forest is a two-level contour hierarchy: outer borders of shapes at the top
// level, the borders of their holes as children.
//
// Nodes live in an arena and reference each other by Handle. A Forest is
// built once by FindContours and never modified afterwards, so it can be read
// from several goroutines.
type Forest struct {
	nodes []Node
	first Handle
	last  Handle
}

func newForest() *Forest {
	return &Forest{first: None, last: None}
}

// Len returns the total number of contours, outer and hole.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Node returns the node for handle h. It panics if h is not a handle of f.
func (f *Forest) Node(h Handle) *Node {
	return &f.nodes[h]
}

// Roots returns the handles of all top-level contours in discovery order.
func (f *Forest) Roots() []Handle {
	var roots []Handle
	for h := f.first; h != None; h = f.nodes[h].next {
		roots = append(roots, h)
	}
	return roots
}

// Children returns the handles of the holes of h in discovery order.
func (f *Forest) Children(h Handle) []Handle {
	var children []Handle
	for c := f.nodes[h].firstChild; c != None; c = f.nodes[c].next {
		children = append(children, c)
	}
	return children
}

// Shape is an outer contour together with the contours of its direct holes.
type Shape struct {
	Handle Handle
	Outer  Contour
	Holes  []Contour
}

// Shapes yields every top-level contour with its holes, in discovery order.
func (f *Forest) Shapes() iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		for h := f.first; h != None; h = f.nodes[h].next {
			s := Shape{Handle: h, Outer: f.nodes[h].Contour}
			for c := f.nodes[h].firstChild; c != None; c = f.nodes[c].next {
				s.Holes = append(s.Holes, f.nodes[c].Contour)
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Walk yields every handle of the forest exactly once: each top-level contour
// followed by its holes.
func (f *Forest) Walk() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for h := f.first; h != None; h = f.nodes[h].next {
			if !yield(h) {
				return
			}
			for c := f.nodes[h].firstChild; c != None; c = f.nodes[c].next {
				if !yield(c) {
					return
				}
			}
		}
	}
}

func (f *Forest) addRoot(c Contour) Handle {
	h := Handle(len(f.nodes))
	f.nodes = append(f.nodes, Node{
		Contour:    c,
		parent:     None,
		firstChild: None,
		lastChild:  None,
		next:       None,
		prev:       f.last,
	})
	if f.last != None {
		f.nodes[f.last].next = h
	} else {
		f.first = h
	}
	f.last = h
	return h
}

func (f *Forest) addChild(parent Handle, c Contour) Handle {
	h := Handle(len(f.nodes))
	p := &f.nodes[parent]
	f.nodes = append(f.nodes, Node{
		Contour:    c,
		Hole:       true,
		parent:     parent,
		firstChild: None,
		lastChild:  None,
		next:       None,
		prev:       p.lastChild,
	})
	// p may be stale after append; index again.
	p = &f.nodes[parent]
	if p.lastChild != None {
		f.nodes[p.lastChild].next = h
	} else {
		p.firstChild = h
	}
	p.lastChild = h
	return h
}

// FindContours traces the borders of all foreground shapes in a mask and
// arranges them into a two-level hierarchy.
//
// Foreground pixels are 8-connected and background pixels 4-connected, so
// every connected foreground component has exactly one outer border and
// every enclosed background region (hole) is bounded by exactly one
// component. Each component becomes a top-level node; each hole becomes a
// child of the component around it. A shape sitting inside a hole is again a
// top-level node: nesting deeper than two levels flattens into the same two
// levels, which matches even-odd filling of each shape with its holes.
//
// # Algorithm
//
//  1. Label foreground components (8-connectivity) and background regions
//     (4-connectivity) with an iterative flood fill
//  2. Background regions that do not touch the image border are holes
//  3. Borders are traced with Suzuki-Abe border following, starting from the
//     first pixel of the component (outer) or the foreground pixel left of
//     the first pixel of the hole (hole)
//  4. Straight runs are compressed to their end points
//
// Contours are discovered in raster order of their starting pixel. An empty
// mask yields an empty forest.
func FindContours(m *imaging.Mask) *Forest {
	forest := newForest()
	width, height := m.W, m.H
	if width == 0 || height == 0 {
		return forest
	}

	fgLabels, fgFirst := labelComponents(m, true)
	bgLabels, bgFirst := labelComponents(m, false)
	outside := borderLabels(bgLabels, width, height)

	type event struct {
		start int // raster index used for ordering
		label int
		hole  bool
	}
	events := make([]event, 0, len(fgFirst)+len(bgFirst))
	for label, idx := range fgFirst {
		events = append(events, event{start: idx, label: label})
	}
	for label, idx := range bgFirst {
		if outside[int32(label+1)] {
			continue
		}
		events = append(events, event{start: idx, label: label, hole: true})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].start < events[j].start
	})

	owners := make(map[int]Handle, len(fgFirst))
	for _, e := range events {
		x, y := e.start%width, e.start/width
		if !e.hole {
			c := traceBorder(m, Point{X: x, Y: y}, Point{X: x - 1, Y: y})
			owners[e.label+1] = forest.addRoot(c)
			continue
		}
		// The pixel left of a hole's first pixel is foreground of the
		// enclosing component.
		start := Point{X: x - 1, Y: y}
		owner, ok := owners[int(fgLabels[y*width+x-1])]
		if !ok {
			continue
		}
		forest.addChild(owner, traceBorder(m, start, Point{X: x, Y: y}))
	}

	return forest
}

// labelComponents assigns 1-based labels to connected regions of foreground
// pixels (8-connectivity) or background pixels (4-connectivity).
//
// Returns the label of each pixel (0 for pixels of the other kind) and the
// raster index of the first pixel of each region, indexed by label-1. Since
// pixels are scanned in raster order, regions are numbered in order of their
// first pixel.
func labelComponents(m *imaging.Mask, foreground bool) ([]int32, []int) {
	width, height := m.W, m.H
	labels := make([]int32, width*height)
	var first []int

	var neighbors []Point
	if foreground {
		neighbors = []Point{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	} else {
		neighbors = []Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	}

	stack := make([]int, 0, 64)
	for i := range labels {
		if labels[i] != 0 || (m.Pix[i] != imaging.Background) != foreground {
			continue
		}
		first = append(first, i)
		label := int32(len(first))
		labels[i] = label
		stack = append(stack[:0], i)

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := p%width, p/width
			for _, d := range neighbors {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if labels[j] != 0 || (m.Pix[j] != imaging.Background) != foreground {
					continue
				}
				labels[j] = label
				stack = append(stack, j)
			}
		}
	}
	return labels, first
}

// borderLabels collects the labels present on the image frame. Background
// regions carrying them are open to the outside and are not holes.
func borderLabels(labels []int32, width, height int) map[int32]bool {
	seen := make(map[int32]bool)
	for x := 0; x < width; x++ {
		seen[labels[x]] = true
		seen[labels[(height-1)*width+x]] = true
	}
	for y := 0; y < height; y++ {
		seen[labels[y*width]] = true
		seen[labels[y*width+width-1]] = true
	}
	return seen
}

// clockwise lists the 8 neighbor offsets in clockwise order on screen
// (y grows downward), starting east.
var clockwise = [8]Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// direction returns the index in clockwise of the offset from c to n.
func direction(c, n Point) int {
	d := Point{X: n.X - c.X, Y: n.Y - c.Y}
	for i, o := range clockwise {
		if o == d {
			return i
		}
	}
	return 0
}

// traceBorder follows the border through start, beginning the search from
// the background neighbor from, and returns the compressed contour.
//
// This is steps 3.1-3.5 of Suzuki and Abe's border following: the first
// foreground neighbor is searched clockwise, every later one
// counterclockwise, and tracing stops when the walk returns to start
// heading for the same second pixel.
func traceBorder(m *imaging.Mask, start, from Point) Contour {
	d := direction(start, from)
	first := Point{X: -1, Y: -1}
	for k := 0; k < 8; k++ {
		o := clockwise[(d+k)%8]
		p := Point{X: start.X + o.X, Y: start.Y + o.Y}
		if m.At(p.X, p.Y) {
			first = p
			break
		}
	}
	if first.X < 0 {
		return Contour{start}
	}

	border := Contour{}
	prev, cur := first, start
	for {
		border = append(border, cur)

		d := direction(cur, prev)
		var next Point
		for k := 1; k <= 8; k++ {
			o := clockwise[(d-k+16)%8]
			p := Point{X: cur.X + o.X, Y: cur.Y + o.Y}
			if m.At(p.X, p.Y) {
				next = p
				break
			}
		}

		if next == start && cur == first {
			break
		}
		prev, cur = cur, next
	}

	return compress(border)
}

// compress drops points in the middle of straight horizontal, vertical or
// diagonal runs. The first point is always kept.
func compress(c Contour) Contour {
	n := len(c)
	if n <= 2 {
		return c
	}
	out := Contour{c[0]}
	for i := 1; i < n; i++ {
		prev := c[i-1]
		next := c[(i+1)%n]
		in := Point{X: c[i].X - prev.X, Y: c[i].Y - prev.Y}
		outDir := Point{X: next.X - c[i].X, Y: next.Y - c[i].Y}
		if in != outDir {
			out = append(out, c[i])
		}
	}
	return out
}

// Package detection finds shape contours in binary masks and classifies them.
//
// # Contour Hierarchy
//
// FindContours returns a Forest with two levels: the outer border of every
// connected foreground component, and under each of them the borders of its
// holes. Shapes nested inside holes are top-level again. Nodes are stored in
// an arena and linked by Handle; callers iterate with Forest.Shapes, which
// yields each outer contour together with its holes.
//
// # Geometry
//
// Contours are closed loops of pixel coordinates. Area, Perimeter and Bounds
// treat them as polygons through pixel centers. Simplify reduces them with
// the Douglas-Peucker algorithm.
//
// # Classification
//
// Classify sorts top-level shapes into badges and banners using the share of
// the canvas they cover and the proportions of their bounding box, and
// rejects frame and scan-border artifacts.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
package detection

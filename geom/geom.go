// Package geom provides scalar geometry types shared by every layer of
// the module. Units are abstract: one unit is a terminal cell for the
// cell-grid surface and a pixel for the typeset surface.
package geom

import (
	"fmt"
	"math"
)

// Point is a position in container coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the point translated by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the point translated by the negation of other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Equals returns true if two points are equal.
func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size is a width and height.
type Size struct {
	W, H float64
}

// Sz is shorthand for constructing a Size.
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// IsZero returns true if either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.W <= 0 || s.H <= 0
}

// Equals returns true if two sizes are equal.
func (s Size) Equals(other Size) bool {
	return s.W == other.W && s.H == other.H
}

// String returns a string representation of the size.
func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}

// Rect is an axis-aligned rectangle: origin plus size.
type Rect struct {
	Min  Point
	Size Size
}

// RectAt constructs a rectangle from origin and dimensions.
func RectAt(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 {
	return r.Min.X + r.Size.W
}

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 {
	return r.Min.Y + r.Size.H
}

// IsEmpty returns true if the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return r.Size.IsZero()
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.MaxX() && p.Y >= r.Min.Y && p.Y < r.MaxY()
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X < other.MaxX() && other.Min.X < r.MaxX() &&
		r.Min.Y < other.MaxY() && other.Min.Y < r.MaxY()
}

// Offset returns the rectangle translated by the point.
func (r Rect) Offset(by Point) Rect {
	r.Min = r.Min.Add(by)
	return r
}

// Equals returns true if two rectangles are equal.
func (r Rect) Equals(other Rect) bool {
	return r.Min.Equals(other.Min) && r.Size.Equals(other.Size)
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("%s+%s", r.Min, r.Size)
}

// CeilCells rounds a dimension up to whole units. Used when a fractional
// intrinsic size must occupy whole cells on a grid surface.
func CeilCells(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v))
}

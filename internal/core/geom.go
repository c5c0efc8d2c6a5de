// Package core provides the small, dependency-free building blocks shared by
// the simulation and the terminal front end: world geometry, player intent
// and a character screen buffer.
package core

import "math"

// Rect is an axis-aligned box in world units. Y grows downward.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Overlaps reports whether two rectangles touch or overlap.
// Shared edges count as contact.
func (r Rect) Overlaps(other Rect) bool {
	return !(other.X > r.Right() ||
		other.Right() < r.X ||
		other.Y > r.Bottom() ||
		other.Bottom() < r.Y)
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Dist returns the euclidean distance between two points.
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

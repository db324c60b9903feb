package coord

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Point
}

// NewBox returns an empty box that extends to the first point added.
func NewBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: Point{X: inf, Y: inf, Z: inf},
		Max: Point{X: -inf, Y: -inf, Z: -inf},
	}
}

// Extend will grow the box to include p.
func (b Box) Extend(p Point) Box {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
	return b
}

// Size returns the extent of the box along each axis.
func (b Box) Size() Point {
	return b.Max.Sub(b.Min)
}

// Center returns the centroid of the box.
func (b Box) Center() Point {
	return Point{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

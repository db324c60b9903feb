package coord

import (
	"math"
	"strconv"
)

// Precision is the positioning resolution of the motion platform,
// 0.01 length-units (2 decimal places).
//
// Coordinates are rounded to this resolution whenever they cross a
// device-command or mesh-emission boundary; arithmetic in between is
// done at full float64 precision.
const Precision = 0.01

type Point struct{ X, Y, Z float64 }

func (p Point) Equal(b Point) bool {
	return p.X == b.X && p.Y == b.Y && p.Z == b.Z
}
func (p Point) Cross(op Point) Point {
	return Point{
		p.Y*op.Z - p.Z*op.Y,
		p.Z*op.X - p.X*op.Z,
		p.X*op.Y - p.Y*op.X,
	}
}
func (p Point) Dot(op Point) float64 {
	return p.X*op.X + p.Y*op.Y + p.Z*op.Z
}

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	p.Z += target.Z
	return p
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	p.Z -= target.Z
	return p
}

// Round will round a value to the device resolution.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format will render v at the device resolution with exactly
// 2 decimal places.
func Format(v float64) string {
	return strconv.FormatFloat(Round(v), 'f', 2, 64)
}

// Round will round all axis values to the device resolution.
func (p Point) Round() Point {
	p.X = Round(p.X)
	p.Y = Round(p.Y)
	p.Z = Round(p.Z)
	return p
}

func (p Point) String() string {
	return "[" + Format(p.X) + ", " + Format(p.Y) + ", " + Format(p.Z) + "]"
}

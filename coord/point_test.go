package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Add(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 3}
	b := Point{X: 4, Y: 5, Z: 6}

	assert.Equal(t, Point{X: 5, Y: 7, Z: 9}, a.Add(b))
}

func TestPoint_Sub(t *testing.T) {
	a := Point{X: 4, Y: 5, Z: 6}
	b := Point{X: 1, Y: 2, Z: 3}

	assert.Equal(t, Point{X: 3, Y: 3, Z: 3}, a.Sub(b))
}

func TestPoint_Cross(t *testing.T) {
	x := Point{X: 1}
	y := Point{Y: 1}

	assert.Equal(t, Point{Z: 1}, x.Cross(y))
	assert.Equal(t, Point{Z: -1}, y.Cross(x))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.226))
	assert.Equal(t, 1.22, Round(1.224))
	assert.Equal(t, -0.5, Round(-0.4951))
	assert.Equal(t, 0.0, Round(0.004))

	// idempotent
	for _, v := range []float64{1.226, -3.14159, 0.005, 180, 0.1 + 0.2} {
		assert.Equal(t, Round(v), Round(Round(v)))
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.23", Format(1.226))
	assert.Equal(t, "180.00", Format(180))
	assert.Equal(t, "-0.50", Format(-0.4951))
	assert.Equal(t, "0.00", Format(0))
}

func TestBox_Extend(t *testing.T) {
	b := NewBox()
	b = b.Extend(Point{X: 1, Y: 2, Z: 3})
	b = b.Extend(Point{X: -1, Y: 5, Z: 0})

	assert.Equal(t, Point{X: -1, Y: 2, Z: 0}, b.Min)
	assert.Equal(t, Point{X: 1, Y: 5, Z: 3}, b.Max)
	assert.Equal(t, Point{X: 2, Y: 3, Z: 3}, b.Size())
	assert.Equal(t, Point{X: 0, Y: 3.5, Z: 1.5}, b.Center())
}

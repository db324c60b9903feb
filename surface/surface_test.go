package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/machine"
	"github.com/mastercactapus/surfscan/scad"
)

func TestSurface_Depth(t *testing.T) {

	// probes indicate a rise
	// of 3mm depth over 10mm of X
	probes := []coord.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 10},

		{X: 10, Y: 3, Z: 0},
		{X: 10, Y: 3, Z: 10},
	}

	s, err := New(probes)
	require.NoError(t, err)

	ok, y := s.Depth(5, 5)
	assert.True(t, ok)
	assert.InDelta(t, 1.5, y, 0.0001)

	ok, y = s.Depth(0, 0)
	assert.True(t, ok)
	assert.InDelta(t, 0, y, 0.0001)

	ok, _ = s.Depth(-1, 5)
	assert.False(t, ok)

	ok, _ = s.Depth(5, 11)
	assert.False(t, ok)
}

func TestSurface_TooFewPoints(t *testing.T) {
	_, err := New([]coord.Point{{X: 0}, {X: 1}})
	assert.Error(t, err)
}

func planeGrid(size int, depth func(x, z float64) float64) scad.Grid {
	var g scad.Grid
	for row := 0; row < size; row++ {
		g.Rows = append(g.Rows, len(g.Points))
		for col := 0; col < size; col++ {
			x, z := float64(col), float64(row)
			g.Points = append(g.Points, machine.ProbeResult{
				Point: coord.Point{X: x, Y: depth(x, z), Z: z},
				Valid: true,
			})
		}
	}
	return g
}

func TestFillInvalid(t *testing.T) {
	g := planeGrid(3, func(x, z float64) float64 { return x + z })

	// center sample missed
	g.Points[4].Y = 0
	g.Points[4].Valid = false

	n, err := FillInvalid(g)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, g.Points[4].Valid)
	assert.InDelta(t, 2, g.Points[4].Y, 0.01)
}

func TestFillInvalid_Corner(t *testing.T) {
	g := planeGrid(3, func(x, z float64) float64 { return x + z })

	// corner sits outside the hull of the remaining points
	g.Points[8].Y = 0
	g.Points[8].Valid = false

	n, err := FillInvalid(g)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, g.Points[8].Valid)
	assert.InDelta(t, 3, g.Points[8].Y, 0.01)
}

func TestFillInvalid_AllValid(t *testing.T) {
	g := planeGrid(2, func(x, z float64) float64 { return 1 })

	n, err := FillInvalid(g)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFillInvalid_TooFewValid(t *testing.T) {
	g := planeGrid(2, func(x, z float64) float64 { return 1 })
	g.Points[0].Valid = false
	g.Points[1].Valid = false

	_, err := FillInvalid(g)
	assert.Error(t, err)
}

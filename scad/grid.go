// Package scad builds a watertight polyhedron from raster-scanned
// surface points and writes it as an OpenSCAD module.
package scad

import (
	"errors"
	"fmt"

	"github.com/mastercactapus/surfscan/machine"
)

var (
	// ErrInsufficientData means fewer than 2 rows or 2 columns were
	// scanned; no solid can be built from a single line of points.
	ErrInsufficientData = errors.New("scad: need at least 2 rows and 2 columns to create a polyhedron")

	// ErrMalformedGrid means the scan rows are inconsistent; building
	// a mesh from them would silently skip surface area.
	ErrMalformedGrid = errors.New("scad: grid rows are not rectangular")
)

// Grid is an ordered sequence of scan points with row-start offsets.
type Grid struct {
	Points []machine.ProbeResult

	// Rows holds the index into Points where each scan row begins.
	Rows []int
}

func (g Grid) NumRows() int { return len(g.Rows) }

func (g Grid) NumCols() int {
	if len(g.Rows) > 1 {
		return g.Rows[1]
	}
	return len(g.Points)
}

// Validate checks that row offsets are strictly increasing and every
// row holds the same number of columns.
func (g Grid) Validate() error {
	cols := g.NumCols()
	if len(g.Rows) > 0 && g.Rows[0] != 0 {
		return fmt.Errorf("%w: first row starts at %d", ErrMalformedGrid, g.Rows[0])
	}
	for i, start := range g.Rows {
		end := len(g.Points)
		if i+1 < len(g.Rows) {
			end = g.Rows[i+1]
		}
		if end-start != cols {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformedGrid, i, end-start, cols)
		}
	}
	return nil
}

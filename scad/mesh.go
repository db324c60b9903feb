package scad

import (
	"github.com/mastercactapus/surfscan/coord"
)

// DefaultThickness is how far the synthetic backplane sits behind the
// shallowest scanned point.
const DefaultThickness = 5

// A FaceSection labels a contiguous run of faces in the face list so
// the writer can annotate the output the way a human modeler would.
type FaceSection struct {
	Label string
	Count int
}

// Mesh is a closed polyhedron: the scanned front surface, a flat
// backplane, and four connecting walls.
//
// Vertices holds the front points first, then the backplane points;
// FrontCount is the index of the first backplane vertex. Faces index
// into Vertices with 3 or 4 entries each, wound clockwise when viewed
// from outside the solid. A Mesh is never mutated once built.
type Mesh struct {
	Vertices   []coord.Point
	FrontCount int

	Faces    [][]int
	Sections []FaceSection

	// Offset is the minimum corner of the solid (backplane included)
	// and Dim its extent, for the generated accessor functions. Box
	// bounds the scanned front points only.
	Offset coord.Point
	Dim    coord.Point
	Box    coord.Box
}

func (m *Mesh) face(idx ...int) {
	m.Faces = append(m.Faces, idx)
	m.Sections[len(m.Sections)-1].Count++
}

func (m *Mesh) section(label string) {
	m.Sections = append(m.Sections, FaceSection{Label: label})
}

// Build constructs the closed polyhedron for a completed grid.
//
// All faces follow a single winding convention: vertex order is
// clockwise looking at each face from outside the solid, so every
// computed normal points away from it. Edge rows get per-column
// backplane points (closed with triangles); interior rows only need
// their two outer points (closed with quads).
func Build(g Grid, thickness float64) (*Mesh, error) {
	numPoints := len(g.Points)
	numRows := g.NumRows()
	numCols := 0
	if numRows > 1 {
		numCols = g.Rows[1]
	}
	if numRows < 2 || numCols < 2 {
		return nil, ErrInsufficientData
	}
	err := g.Validate()
	if err != nil {
		return nil, err
	}
	lastRow := numRows - 1
	lastCol := numCols - 1

	box := coord.NewBox()
	for _, p := range g.Points {
		box = box.Extend(p.Point)
	}
	backplaneY := box.Min.Y - thickness

	dim := box.Size()
	dim.Y += thickness

	m := &Mesh{
		FrontCount: numPoints,
		Offset:     coord.Point{X: box.Min.X, Y: backplaneY, Z: box.Min.Z},
		Dim:        dim,
		Box:        box,
	}

	m.Vertices = make([]coord.Point, 0, numPoints+2*numCols+2*(numRows-2))
	for _, p := range g.Points {
		m.Vertices = append(m.Vertices, p.Point.Round())
	}

	// Backplane points: the perimeter needs a point at every column
	// of the edge rows and at both ends of each interior row, but
	// nothing inside the plane.
	bpRows := make([]int, 0, numRows)
	for row := 0; row < numRows; row++ {
		bpRows = append(bpRows, len(m.Vertices)-numPoints)
		if row == 0 || row == lastRow {
			for col := 0; col < numCols; col++ {
				p := g.Points[row*numCols+col]
				m.Vertices = append(m.Vertices, coord.Point{X: p.X, Y: backplaneY, Z: p.Z}.Round())
			}
			continue
		}
		left := g.Points[row*numCols]
		right := g.Points[row*numCols+lastCol]
		m.Vertices = append(m.Vertices,
			coord.Point{X: left.X, Y: backplaneY, Z: left.Z}.Round(),
			coord.Point{X: right.X, Y: backplaneY, Z: right.Z}.Round(),
		)
	}

	// Front surface: each 2x2 block splits into two triangles along
	// the same diagonal so the sheet stays manifold.
	m.section("Scanned faces")
	for row := 0; row < numRows-1; row++ {
		for col := 0; col < numCols-1; col++ {
			pt1 := row*numCols + col
			pt2 := pt1 + 1
			pt3 := (row+1)*numCols + col
			pt4 := pt3 + 1

			m.face(pt1, pt2, pt3)
			m.face(pt2, pt4, pt3)
		}
	}

	// Backplane: triangle fans against the edge rows (those have
	// per-column points), quads between interior rows. Index order is
	// mirrored relative to the front faces since the plane is viewed
	// from behind.
	m.section("Backplane faces")
	fbp := numPoints
	if numRows == 2 {
		// both rows are edge rows, triangulate the strip directly
		for col := 0; col < numCols-1; col++ {
			b1 := fbp + col
			b2 := b1 + 1
			t1 := fbp + numCols + col
			t2 := t1 + 1
			m.face(t1, b2, b1)
			m.face(b2, t1, t2)
		}
	} else {
		for row := 0; row < numRows-1; row++ {
			switch {
			case row == 0:
				pt3 := fbp + bpRows[1]
				for col := 0; col < numCols-1; col++ {
					pt1 := fbp + col
					m.face(pt3, pt1+1, pt1)
				}
				m.face(pt3-1, pt3, pt3+1)
			case row == lastRow-1:
				pt3 := fbp + bpRows[row] + 1
				for col := 0; col < numCols-1; col++ {
					pt1 := pt3 + 1 + col
					m.face(pt1, pt1+1, pt3)
				}
				m.face(pt3+1, pt3, pt3-1)
			default:
				pt1 := fbp + bpRows[row]
				m.face(pt1+2, pt1+3, pt1+1, pt1)
			}
		}
	}

	// Four walls of quads close the solid.
	m.section("Bottom connecting faces")
	for col := 0; col < numCols-1; col++ {
		m.face(col, fbp+col, fbp+col+1, col+1)
	}

	m.section("Top connecting faces")
	for col := 0; col < numCols-1; col++ {
		pt1 := g.Rows[lastRow] + col
		pt3 := fbp + bpRows[lastRow] + col
		m.face(pt1, pt1+1, pt3+1, pt3)
	}

	m.section("Left connecting faces")
	for row := 0; row < numRows-1; row++ {
		m.face(g.Rows[row], g.Rows[row+1], fbp+bpRows[row+1], fbp+bpRows[row])
	}

	// interior backplane rows only carry two points, so the right
	// edge sits at +1 there but at +lastCol on the edge rows
	m.section("Right connecting faces")
	right := func(row int) int {
		if row == 0 || row == lastRow {
			return fbp + bpRows[row] + lastCol
		}
		return fbp + bpRows[row] + 1
	}
	for row := 0; row < numRows-1; row++ {
		pt1 := g.Rows[row] + lastCol
		pt2 := g.Rows[row+1] + lastCol
		m.face(pt1, right(row), right(row+1), pt2)
	}

	return m, nil
}

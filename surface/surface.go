package surface

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/mastercactapus/surfscan/coord"
)

// Surface interpolates probed depths across the scan plane.
type Surface struct {
	minX, minZ, maxX, maxZ float64
	triangles              []coord.Triangle
}

func New(points []coord.Point) (*Surface, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 points to create a surface")
	}

	points2d := make([]delaunay.Point, len(points))
	m := make(map[delaunay.Point]coord.Point, len(points))

	s := &Surface{
		minX: points[0].X,
		minZ: points[0].Z,
		maxX: points[0].X,
		maxZ: points[0].Z,
	}
	var d delaunay.Point
	for i, p := range points {
		s.minX = math.Min(s.minX, p.X)
		s.minZ = math.Min(s.minZ, p.Z)
		s.maxX = math.Max(s.maxX, p.X)
		s.maxZ = math.Max(s.maxZ, p.Z)

		d.X = p.X
		d.Y = p.Z
		m[d] = p
		points2d[i] = d
	}
	s.minX -= coord.Epsilon
	s.minZ -= coord.Epsilon
	s.maxX += coord.Epsilon
	s.maxZ += coord.Epsilon

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, err
	}

	s.triangles = make([]coord.Triangle, 0, len(tri.Triangles)/3)

	for i := 0; i < len(tri.Triangles); i += 3 {
		s.triangles = append(s.triangles, coord.Triangle{
			A: m[tri.Points[tri.Triangles[i]]],
			B: m[tri.Points[tri.Triangles[i+1]]],
			C: m[tri.Points[tri.Triangles[i+2]]],
		})
	}

	return s, nil
}

// Depth returns the interpolated depth at x,z. It returns false
// if the point is outside the surface.
func (s Surface) Depth(x, z float64) (bool, float64) {
	if x < s.minX || s.maxX < x || z < s.minZ || s.maxZ < z {
		return false, 0
	}
	for _, t := range s.triangles {
		if !t.ContainsXZ(x, z) {
			continue
		}
		return true, t.Y(x, z)
	}

	return false, 0
}

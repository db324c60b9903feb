package surface

import (
	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/scad"
)

// FillInvalid interpolates depths for samples the probe never
// reached, patching the grid in place. It returns the number of
// samples that were filled.
func FillInvalid(g scad.Grid) (int, error) {
	valid := make([]coord.Point, 0, len(g.Points))
	for _, p := range g.Points {
		if !p.Valid {
			continue
		}
		valid = append(valid, p.Point)
	}
	if len(valid) == len(g.Points) {
		return 0, nil
	}

	s, err := New(valid)
	if err != nil {
		return 0, err
	}

	var n int
	for i, p := range g.Points {
		if p.Valid {
			continue
		}
		ok, y := s.Depth(p.X, p.Z)
		if !ok {
			// outside the hull of valid samples, corner case
			y = nearest(valid, p.X, p.Z)
		}
		g.Points[i].Y = coord.Round(y)
		g.Points[i].Valid = true
		n++
	}

	return n, nil
}

func nearest(points []coord.Point, x, z float64) float64 {
	best := points[0]
	bestDist := distSq(best, x, z)
	for _, p := range points[1:] {
		d := distSq(p, x, z)
		if d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best.Y
}

func distSq(p coord.Point, x, z float64) float64 {
	dx := p.X - x
	dz := p.Z - z
	return dx*dx + dz*dz
}

package machine

import (
	"log"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/device"
	"github.com/mastercactapus/surfscan/gcode"
)

// Probe step sizes. The coarse step trades precision for speed; once
// the switch closes the probe backs off and re-approaches at the
// device's native resolution.
const (
	CoarseStep = 0.5
	FineStep   = 0.01
)

// Approach performs a coarse-then-fine contact probe along the depth
// axis, moving from start toward zero.
//
// It returns the depth at which the switch closed, rounded to the
// device resolution. found is false when the travel was exhausted
// without contact; the scan treats that as a warning, not a failure.
func (m *Machine) Approach(start float64) (depth float64, found bool, err error) {
	y := coord.Round(start)

	err = device.Send(m.ch, gcode.AccelYFast)
	if err != nil {
		return 0, false, err
	}

	for y > 0 {
		y = coord.Round(y - CoarseStep)
		if y < 0 {
			y = 0
		}
		err = device.Send(m.ch, gcode.WaitIdle, gcode.MoveY(gcode.FeedCoarse, y))
		if err != nil {
			return 0, false, err
		}
		triggered, err := m.ch.Triggered()
		if err != nil {
			return 0, false, err
		}
		if !triggered {
			continue
		}

		// Back off until the switch clears; the head can overshoot
		// into the surface before the first read.
		for {
			y = coord.Round(y + CoarseStep)
			err = device.Send(m.ch, gcode.MoveY(gcode.FeedCoarse, y), gcode.WaitIdle)
			if err != nil {
				return 0, false, err
			}
			triggered, err = m.ch.Triggered()
			if err != nil {
				return 0, false, err
			}
			if !triggered {
				break
			}
		}

		for y > 0 {
			y = coord.Round(y - FineStep)
			err = device.Send(m.ch, gcode.MoveY(gcode.FeedFine, y), gcode.WaitIdle)
			if err != nil {
				return 0, false, err
			}
			triggered, err = m.ch.Triggered()
			if err != nil {
				return 0, false, err
			}
			if triggered {
				return y, true, nil
			}
		}

		log.Printf("WARNING: probe never triggered during fine approach from Y=%s, surface not found", coord.Format(start))
		return 0, false, nil
	}

	log.Printf("WARNING: probe never triggered from Y=%s, surface not found", coord.Format(start))
	return 0, false, nil
}

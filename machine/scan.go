package machine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mastercactapus/surfscan/coord"
)

// ErrBadStep is returned when a scan's step configuration could never
// terminate the raster loop.
var ErrBadStep = errors.New("machine: scan steps must be positive and end must not precede start")

// ScanOptions configure a raster scan of a vertical surface.
type ScanOptions struct {
	// Start is the lower-left corner of the scan area; its Y value is
	// the depth the probe approaches from.
	Start coord.Point

	// End is the upper-right corner. Both ends are inclusive.
	End coord.Point

	// StepX and StepZ are the grid spacing along the primary and
	// layer axes.
	StepX, StepZ float64

	// Clearance is how far the probe retracts past the last contact
	// before the next cell. When HasClearance is false the probe
	// retracts all the way to Start.Y, the conservative default: an
	// unspecified clearance cannot be assumed collision-safe.
	Clearance    float64
	HasClearance bool

	// Name identifies the scan in log and error messages.
	Name string
}

func (opt ScanOptions) validate() error {
	if opt.StepX <= 0 || opt.StepZ <= 0 {
		return ErrBadStep
	}
	if opt.End.X < opt.Start.X || opt.End.Z < opt.Start.Z {
		return ErrBadStep
	}
	return nil
}

// Scan walks the grid from opt.Start to opt.End, probing every cell
// and feeding results to rec one row at a time.
//
// A probe that finds no surface is recorded as an invalid result and
// the scan continues. A channel error aborts immediately; rows
// already handed to rec are unaffected. Cancellation is honored
// between cells only, so each probe cycle completes atomically, and
// the probe retracts to the start depth before Scan returns.
func (m *Machine) Scan(ctx context.Context, opt ScanOptions, rec Recorder) error {
	err := opt.validate()
	if err != nil {
		return err
	}

	log.Printf("Scan %q: moving probe head to starting position ...", opt.Name)
	err = m.MoveTo(opt.Start)
	if err != nil {
		return err
	}

	start := opt.Start.Round()
	pos := start
	row, col := 0, 0

	var depth float64
	var found bool

	for pos.Z <= opt.End.Z {
		col = 0
		for pos.X <= opt.End.X {
			select {
			case <-ctx.Done():
				retreat := pos
				retreat.Y = start.Y
				if err = m.MoveTo(retreat); err != nil {
					return err
				}
				return ctx.Err()
			default:
			}

			err = m.MoveTo(pos)
			if err != nil {
				return err
			}

			depth, found, err = m.Approach(pos.Y)
			if err != nil {
				return fmt.Errorf("scan %q: probe at row %d col %d %s: %v", opt.Name, row, col, pos, err)
			}
			if !found {
				log.Printf("WARNING: scan %q: no contact at row %d col %d X=%s Z=%s", opt.Name, row, col, coord.Format(pos.X), coord.Format(pos.Z))
			}
			pos.Y = depth

			err = rec.AddPoint(ProbeResult{Point: pos, Valid: found})
			if err != nil {
				return err
			}
			m.publish(pos)

			// retract before traveling to the next cell
			if opt.HasClearance {
				pos.Y = coord.Round(pos.Y + opt.Clearance)
			} else {
				pos.Y = start.Y
			}
			err = m.MoveTo(pos)
			if err != nil {
				return err
			}

			pos.X = coord.Round(pos.X + opt.StepX)
			col++
		}

		// row complete: step back to the last column, reset the depth
		// seed, then advance a layer
		pos.X = coord.Round(pos.X - opt.StepX)
		pos.Y = start.Y
		err = m.MoveTo(pos)
		if err != nil {
			return err
		}

		pos.Z = coord.Round(pos.Z + opt.StepZ)
		pos.X = start.X
		row++
	}

	err = m.MoveTo(start)
	if err != nil {
		return err
	}

	return rec.Finalize()
}

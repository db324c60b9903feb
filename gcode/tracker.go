package gcode

import (
	"errors"

	"github.com/mastercactapus/surfscan/coord"
)

// Tracker interprets the scanner's command dialect and keeps the
// resulting machine position.
//
// It understands linear motion (G0/G1), homing (G28), absolute and
// relative distance mode (G90/G91), metric units (G21), dwell (G4)
// and acceleration setup (M201). Anything else is an error, so a
// malformed command stream is caught instead of silently drifting.
type Tracker struct {
	pos  coord.Point
	home coord.Point

	relative bool
	feed     float64
}

// NewTracker returns a Tracker homed at the given position.
func NewTracker(home coord.Point) *Tracker {
	return &Tracker{pos: home, home: home}
}

func (t *Tracker) Pos() coord.Point     { return t.pos }
func (t *Tracker) Feed() float64        { return t.feed }
func (t *Tracker) Relative() bool       { return t.relative }
func (t *Tracker) SetPos(p coord.Point) { t.pos = p }

// Run applies a single block to the tracked state.
func (t *Tracker) Run(b Block) error {
	err := b.Validate()
	if err != nil {
		return err
	}

	var move bool
	for _, g := range b {
		switch g.W {
		case 'G':
			switch g.Arg {
			case 0, 1:
				move = true
			case 4:
				// dwell
			case 21:
				// metric, the only supported unit
			case 28:
				t.pos = t.home
			case 90:
				t.relative = false
			case 91:
				t.relative = true
			default:
				return errors.New("unsupported code: " + g.String())
			}
		case 'M':
			if g.Arg != 201 {
				return errors.New("unsupported code: " + g.String())
			}
			// acceleration limits, no positional effect
		case 'F':
			t.feed = g.Arg
		case 'P':
			// dwell argument
		default:
			if !g.IsAxis() {
				return errors.New("unsupported code: " + g.String())
			}
		}
	}

	if !move {
		return nil
	}

	apply := func(w byte, axis *float64) {
		ok, v := b.Arg(w)
		if !ok {
			return
		}
		if t.relative {
			*axis += v
		} else {
			*axis = v
		}
	}
	apply('X', &t.pos.X)
	apply('Y', &t.pos.Y)
	apply('Z', &t.pos.Z)
	return nil
}

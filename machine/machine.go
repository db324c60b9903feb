// Package machine drives a touch probe mounted on a motion platform:
// jogging, single contact probes, and full raster scans of a vertical
// surface.
package machine

import (
	"io"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/device"
	"github.com/mastercactapus/surfscan/gcode"
)

// ProbeResult is a single contact measurement. Valid is false when
// the probe exhausted its travel without the switch closing; the
// coordinate then carries the zero sentinel depth.
type ProbeResult struct {
	coord.Point
	Valid bool
}

// A Recorder consumes probe results in scan order, one row at a time.
type Recorder interface {
	AddPoint(ProbeResult) error
	Finalize() error
}

type Machine struct {
	ch device.Channel

	progress chan coord.Point
}

func New(ch device.Channel) *Machine {
	return &Machine{
		ch:       ch,
		progress: make(chan coord.Point, 1),
	}
}

// Init puts the device in the state the scanner expects: metric units
// and slow acceleration on both scan axes.
func (m *Machine) Init() error {
	return device.Send(m.ch, gcode.Metric, gcode.AccelYSlow, gcode.AccelXSlow)
}

// Progress reports the platform position after each completed grid
// cell. Sends are dropped when no one is listening.
func (m *Machine) Progress() <-chan coord.Point {
	return m.progress
}

func (m *Machine) publish(p coord.Point) {
	select {
	case m.progress <- p:
	default:
	}
}

// MoveTo moves the platform to p. The depth axis moves first so the
// probe clears the scanned object before the platform travels across
// it.
func (m *Machine) MoveTo(p coord.Point) error {
	p = p.Round()
	return device.Send(m.ch,
		gcode.AccelYSlow,
		gcode.MoveY(gcode.FeedTravel, p.Y),
		gcode.WaitIdle,
		gcode.MoveXZ(p.X, p.Z),
		gcode.WaitIdle,
	)
}

// Run sends every block the reader yields to the device, in order.
func (m *Machine) Run(gr gcode.Reader) error {
	for {
		b, err := gr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		err = m.ch.SendCommand(b.String())
		if err != nil {
			return err
		}
	}
}

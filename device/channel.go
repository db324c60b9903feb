// Package device provides the motion-platform command channel and its
// transports: direct serial hardware, a websocket relay, and a
// simulator.
package device

import "github.com/mastercactapus/surfscan/gcode"

// A Channel is the minimal capability the scanner needs from a motion
// platform with an attached touch probe.
//
// SendCommand blocks until the device has acknowledged the command.
// Any error is a transport failure and fatal to an in-progress scan;
// retrying motion commands blindly risks a probe collision, so no
// implementation retries.
type Channel interface {
	SendCommand(cmd string) error
	Triggered() (bool, error)
	Close() error
}

// Send writes each block to the channel as a single command line.
func Send(ch Channel, blocks ...gcode.Block) error {
	for _, b := range blocks {
		err := ch.SendCommand(b.String())
		if err != nil {
			return err
		}
	}
	return nil
}

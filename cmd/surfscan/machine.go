package main

import (
	"context"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/gcode"
	"github.com/mastercactapus/surfscan/machine"
)

type Machine interface {
	Run(gcode.Reader) error
	MoveTo(coord.Point) error
	Scan(context.Context, machine.ScanOptions, machine.Recorder) error

	Progress() <-chan coord.Point
}

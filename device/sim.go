package device

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/gcode"
)

// Surface gives the depth-axis value at which the probe switch closes
// for a given platform position.
type Surface func(x, z float64) float64

// SimChannel is a fully simulated motion platform.
//
// Commands are parsed and tracked so the simulated probe switch reads
// consistently with the commanded position. With a nil Surface the
// switch closes at random, which is enough to exercise a UI without
// hardware attached.
type SimChannel struct {
	mx sync.Mutex

	tracker *gcode.Tracker
	surface Surface

	countdown int

	commands []string
	closed   bool
}

var _ Channel = &SimChannel{}

// NewSimChannel creates a simulator homed at home. surface may be nil
// for random triggering.
func NewSimChannel(home coord.Point, surface Surface) *SimChannel {
	s := &SimChannel{
		tracker: gcode.NewTracker(home),
		surface: surface,
	}
	if surface == nil {
		s.countdown = rand.Intn(5) + 1
	}
	return s
}

func (s *SimChannel) SendCommand(cmd string) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.closed {
		return fmt.Errorf("sim: channel closed")
	}

	blocks, err := gcode.Parse(cmd + "\n")
	if err != nil {
		return fmt.Errorf("sim: %v", err)
	}
	for _, b := range blocks {
		err = s.tracker.Run(b)
		if err != nil {
			return fmt.Errorf("sim: %v", err)
		}
	}
	s.commands = append(s.commands, cmd)
	return nil
}

func (s *SimChannel) Triggered() (bool, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.closed {
		return false, fmt.Errorf("sim: channel closed")
	}

	if s.surface == nil {
		if s.countdown > 0 {
			s.countdown--
			return false, nil
		}
		s.countdown = rand.Intn(5) + 1
		return true, nil
	}

	pos := s.tracker.Pos()
	return pos.Y <= s.surface(pos.X, pos.Z), nil
}

func (s *SimChannel) Close() error {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.closed = true
	return nil
}

// Pos returns the currently commanded platform position.
func (s *SimChannel) Pos() coord.Point {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.tracker.Pos()
}

// Commands returns every command line accepted so far.
func (s *SimChannel) Commands() []string {
	s.mx.Lock()
	defer s.mx.Unlock()
	c := make([]string, len(s.commands))
	copy(c, s.commands)
	return c
}

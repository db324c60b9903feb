package gcode

// Feed rates for the scanner's firmware dialect (Marlin-style,
// tuned for the Lulzbot Mini).
const (
	FeedTravel = 4000
	FeedCoarse = 500
	FeedFine   = 100
)

// Fixed commands.
var (
	Home   = Block{{W: 'G', Arg: 28}}
	Metric = Block{{W: 'G', Arg: 21}}

	// WaitIdle blocks the device until all queued motion has finished.
	WaitIdle = Block{{W: 'G', Arg: 4}, {W: 'P', Arg: 0}}

	AccelXSlow = Block{{W: 'M', Arg: 201}, {W: 'X', Arg: 100}}
	AccelYSlow = Block{{W: 'M', Arg: 201}, {W: 'Y', Arg: 100}}
	AccelYFast = Block{{W: 'M', Arg: 201}, {W: 'Y', Arg: 1000}}
)

// Move templates; callers get a Clone with the arguments filled in.
var (
	moveY  = Block{{W: 'G', Arg: 0}, {W: 'F'}, {W: 'Y'}}
	moveXZ = Block{{W: 'G', Arg: 0}, {W: 'F', Arg: FeedTravel}, {W: 'X'}, {W: 'Z'}}
)

// MoveY returns a rapid move of the depth axis at the given feed rate.
func MoveY(feed, y float64) Block {
	b := moveY.Clone()
	b.SetArg('F', feed)
	b.SetArg('Y', y)
	return b
}

// MoveXZ returns a rapid move across the scan plane at travel speed.
func MoveXZ(x, z float64) Block {
	b := moveXZ.Clone()
	b.SetArg('X', x)
	b.SetArg('Z', z)
	return b
}

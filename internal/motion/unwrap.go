package motion

import (
	"math"
)

// wrapThreshold separates a small step backwards from a crossing of the
// 0/360 boundary.
const wrapThreshold = 270

// Unwrapper turns a 0..360 angle stream into a continuous rotation
// relative to the first angle it saw. The output depends on call history.
// The zero value is ready to use.
type Unwrapper struct {
	turns       int
	prev        float64
	offset      float64
	initialized bool
	last        float64
}

// Next feeds v and returns the unwrapped rotation. With limit set the result
// is reduced modulo 360 (keeping the sign of the unwrapped value).
//
// The first call only records v as the reference and returns 0.
func (u *Unwrapper) Next(v float64, limit bool) float64 {
	if !u.initialized {
		u.offset = v
		u.prev = v
		u.initialized = true
		u.last = 0
		return 0
	}

	diff := v - u.prev
	if diff < -wrapThreshold {
		// 359 -> 0, increasing
		u.turns++
	} else if diff > wrapThreshold {
		// 0 -> 359, decreasing
		u.turns--
	}
	u.prev = v

	u.last = v - (u.offset - 360*float64(u.turns))
	if limit {
		return math.Mod(u.last, 360)
	}
	return u.last
}

// Turns returns the number of full turns registered so far.
func (u *Unwrapper) Turns() int {
	return u.turns
}

// Last returns the most recent unlimited output, 0 before the first call.
func (u *Unwrapper) Last() float64 {
	return u.last
}

// Initialized reports whether a reference angle has been recorded.
func (u *Unwrapper) Initialized() bool {
	return u.initialized
}

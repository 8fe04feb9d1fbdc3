package motion

import (
	"math"
)

const (
	// DefaultDampener is the largest change in degrees that is treated as
	// jitter.
	DefaultDampener = 5.0
	// DefaultMotionGate is the largest |acceleration.x| in m/s² at which
	// jitter is still suppressed.
	DefaultMotionGate = 0.5
)

// Dampener suppresses small rotation changes while the device is not
// accelerating sideways.
type Dampener struct {
	Threshold  float64
	MotionGate float64

	last        float64
	initialized bool
}

// NewDampener returns a Dampener with the given thresholds.
func NewDampener(threshold, motionGate float64) *Dampener {
	return &Dampener{Threshold: threshold, MotionGate: motionGate}
}

// Next returns the dampened value for current given the sideways
// acceleration accelX. The first call passes current through.
func (d *Dampener) Next(current, accelX float64) float64 {
	if !d.initialized {
		d.last = current
		d.initialized = true
		return current
	}

	small := math.Abs(math.Abs(d.last)-math.Abs(current)) <= d.Threshold
	still := math.Abs(accelX) <= d.MotionGate
	if small && still {
		return d.last
	}

	d.last = current
	return current
}

// Last returns the most recent output.
func (d *Dampener) Last() (float64, bool) {
	return d.last, d.initialized
}

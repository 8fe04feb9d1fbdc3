// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/motion_tracker/internal/motion"
	"github.com/relabs-tech/motion_tracker/internal/orientation"
)

type mockSource struct {
	start time.Time
	last  time.Time
	now   func() time.Time
}

// NewMockSource creates a mock source that spins alpha at 30°/s through the
// 0/360 boundary, sways beta and gamma and adds a little sideways shake.
func NewMockSource() Source {
	return newMockSource(time.Now)
}

func newMockSource(now func() time.Time) *mockSource {
	t := now()
	return &mockSource{start: t, last: t, now: now}
}

func (m *mockSource) Next() (Reading, error) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()
	interval := t.Sub(m.last).Seconds() * 1000
	m.last = t

	o := motion.OrientationSample{
		Angles: orientation.NewAngles(
			math.Mod(elapsed*30, 360),
			20*math.Sin(elapsed),
			15*math.Cos(elapsed*0.7),
		),
		Absolute: false,
	}

	shake := 0.6 * math.Sin(elapsed*2.3)
	mo := motion.MotionSample{
		Acceleration:                 &motion.Vec3{X: shake},
		AccelerationIncludingGravity: &motion.Vec3{X: shake, Z: standardGravity},
		RotationRate:                 &motion.RotationRate{Alpha: 30},
		Interval:                     interval,
	}

	return Reading{Orientation: &o, Motion: &mo}, nil
}

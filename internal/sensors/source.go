// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors provides sample sources that stand in for a browser host:
// a mock generator, an MPU9250 IMU and an NMEA GPS receiver.
package sensors

import (
	"github.com/relabs-tech/motion_tracker/internal/motion"
)

// Reading is what a source produced in one step. Either sample may be nil.
type Reading struct {
	Orientation *motion.OrientationSample
	Motion      *motion.MotionSample
}

// Source is anything that can provide samples over time.
type Source interface {
	Next() (Reading, error)
}

// Apply forwards the samples in r to ing.
func (r Reading) Apply(ing motion.Ingestor) {
	if r.Orientation != nil {
		ing.IngestOrientation(*r.Orientation)
	}
	if r.Motion != nil {
		ing.IngestMotion(*r.Motion)
	}
}

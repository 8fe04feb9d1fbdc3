// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"github.com/relabs-tech/motion_tracker/internal/orientation"
)

// Vec3 is an acceleration in m/s².
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RotationRate is an angular velocity in °/s around the alpha/beta/gamma axes.
type RotationRate struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// OrientationSample is one deviceorientation event.
type OrientationSample struct {
	orientation.Angles

	// Absolute is true when the angles are relative to the Earth frame.
	// It is stored but does not change any computation.
	Absolute bool `json:"absolute"`
}

// MotionSample is one devicemotion event. Field names follow the DOM event
// so a browser can forward it as-is.
type MotionSample struct {
	Acceleration                 *Vec3         `json:"acceleration"`
	AccelerationIncludingGravity *Vec3         `json:"accelerationIncludingGravity"`
	RotationRate                 *RotationRate `json:"rotationRate"`
	Interval                     float64       `json:"interval"` // ms
}

// DisplayOrientation is the layout of the host screen.
type DisplayOrientation int

const (
	Portrait DisplayOrientation = iota
	Landscape
)

// DisplayOrientationFromViewport is portrait iff height >= width.
func DisplayOrientationFromViewport(width, height float64) DisplayOrientation {
	if height >= width {
		return Portrait
	}
	return Landscape
}

func (o DisplayOrientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	default:
		return "unknown"
	}
}

// Ingestor receives raw host events. Host adapters call it; it never calls
// back into them.
type Ingestor interface {
	IngestOrientation(OrientationSample)
	IngestMotion(MotionSample)
	SetDisplayOrientation(DisplayOrientation)
	CalibrationNeeded()
}

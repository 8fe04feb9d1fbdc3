// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package host decodes sensor events sent by a host platform (a browser page
// or a producer) and forwards them to a motion.Ingestor.
package host

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/relabs-tech/motion_tracker/internal/motion"
	"github.com/relabs-tech/motion_tracker/internal/orientation"
)

// Event types, named after the DOM events they carry.
const (
	TypeDeviceOrientation       = "deviceorientation"
	TypeDeviceMotion            = "devicemotion"
	TypeViewport                = "viewport"
	TypeOrientationChange       = "orientationchange"
	TypeResize                  = "resize"
	TypeCompassNeedsCalibration = "compassneedscalibration"
)

// ErrUnknownEvent is returned for an event type the adapter does not handle.
var ErrUnknownEvent = errors.New("host: unknown event type")

// Event is the JSON envelope exchanged with hosts. Only the fields of the
// given Type are meaningful.
type Event struct {
	Type string `json:"type"`

	// deviceorientation
	Alpha    *float64 `json:"alpha,omitempty"`
	Beta     *float64 `json:"beta,omitempty"`
	Gamma    *float64 `json:"gamma,omitempty"`
	Absolute bool     `json:"absolute,omitempty"`

	// devicemotion
	Acceleration                 *motion.Vec3         `json:"acceleration,omitempty"`
	AccelerationIncludingGravity *motion.Vec3         `json:"accelerationIncludingGravity,omitempty"`
	RotationRate                 *motion.RotationRate `json:"rotationRate,omitempty"`
	Interval                     float64              `json:"interval,omitempty"`

	// viewport, resize
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Decode parses one JSON event.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("host: decode event: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("host: decode event: missing type")
	}
	return ev, nil
}

// OrientationEvent wraps a sample for sending.
func OrientationEvent(s motion.OrientationSample) Event {
	return Event{
		Type:     TypeDeviceOrientation,
		Alpha:    s.Alpha,
		Beta:     s.Beta,
		Gamma:    s.Gamma,
		Absolute: s.Absolute,
	}
}

// MotionEvent wraps a sample for sending.
func MotionEvent(s motion.MotionSample) Event {
	return Event{
		Type:                         TypeDeviceMotion,
		Acceleration:                 s.Acceleration,
		AccelerationIncludingGravity: s.AccelerationIncludingGravity,
		RotationRate:                 s.RotationRate,
		Interval:                     s.Interval,
	}
}

// OrientationSample extracts the deviceorientation payload.
func (e Event) OrientationSample() motion.OrientationSample {
	return motion.OrientationSample{
		Angles:   orientation.Angles{Alpha: e.Alpha, Beta: e.Beta, Gamma: e.Gamma},
		Absolute: e.Absolute,
	}
}

// MotionSample extracts the devicemotion payload.
func (e Event) MotionSample() motion.MotionSample {
	return motion.MotionSample{
		Acceleration:                 e.Acceleration,
		AccelerationIncludingGravity: e.AccelerationIncludingGravity,
		RotationRate:                 e.RotationRate,
		Interval:                     e.Interval,
	}
}

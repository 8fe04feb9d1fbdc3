// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package motion keeps the latest device samples and turns them into tilt,
// rotation and a dampened, multi-turn rotation.
//
// A Tracker is not safe for concurrent use. Ingestion and queries must be
// serialized by the caller, normally by running them on one goroutine.
package motion

import (
	"math"

	"github.com/relabs-tech/motion_tracker/internal/orientation"
)

// Options configures a Tracker. Zero thresholds take the defaults.
type Options struct {
	// Dampener is the jitter threshold in degrees.
	Dampener float64
	// MotionGate is the |acceleration.x| limit in m/s² for suppressing jitter.
	MotionGate float64
	// FacingBeta and FacingGamma bound the "screen faces the user" heuristic.
	FacingBeta  float64
	FacingGamma float64
	// SharedUnwrap makes RelativeRotation and SpecialRotation drive the same
	// unwrap filter. By default each has its own.
	SharedUnwrap bool
}

const (
	DefaultFacingBeta  = 70.0
	DefaultFacingGamma = 45.0
)

// DefaultOptions returns the standard thresholds with independent filters.
func DefaultOptions() Options {
	return Options{
		Dampener:    DefaultDampener,
		MotionGate:  DefaultMotionGate,
		FacingBeta:  DefaultFacingBeta,
		FacingGamma: DefaultFacingGamma,
	}
}

func (o Options) withDefaults() Options {
	if o.Dampener <= 0 {
		o.Dampener = DefaultDampener
	}
	if o.MotionGate <= 0 {
		o.MotionGate = DefaultMotionGate
	}
	if o.FacingBeta <= 0 {
		o.FacingBeta = DefaultFacingBeta
	}
	if o.FacingGamma <= 0 {
		o.FacingGamma = DefaultFacingGamma
	}
	return o
}

// Tracker holds the latest samples and the filter state built from them.
type Tracker struct {
	opts Options

	orient    OrientationSample
	motion    MotionSample
	haveMove  bool
	display   DisplayOrientation
	calibReqs int

	relUnwrap     *Unwrapper
	specialUnwrap *Unwrapper
	dampener      *Dampener
}

var _ Ingestor = (*Tracker)(nil)

// NewTracker creates a tracker in portrait orientation with no samples.
func NewTracker(opts Options) *Tracker {
	opts = opts.withDefaults()

	rel := &Unwrapper{}
	special := rel
	if !opts.SharedUnwrap {
		special = &Unwrapper{}
	}

	return &Tracker{
		opts:          opts,
		display:       Portrait,
		relUnwrap:     rel,
		specialUnwrap: special,
		dampener:      NewDampener(opts.Dampener, opts.MotionGate),
	}
}

// Options returns the effective options.
func (t *Tracker) Options() Options {
	return t.opts
}

// IngestOrientation replaces the stored angles.
func (t *Tracker) IngestOrientation(s OrientationSample) {
	t.orient = s
}

// IngestMotion replaces the stored acceleration, rotation rate and interval.
func (t *Tracker) IngestMotion(s MotionSample) {
	t.motion = s
	t.haveMove = true
}

// SetDisplayOrientation records a new screen layout. Call it on an
// orientation change, not on every layout pass.
func (t *Tracker) SetDisplayOrientation(o DisplayOrientation) {
	t.display = o
}

// CalibrationNeeded records that the host asked for compass calibration.
// Filter state is left untouched.
func (t *Tracker) CalibrationNeeded() {
	t.calibReqs++
}

// CalibrationRequests returns how many calibration notifications arrived.
func (t *Tracker) CalibrationRequests() int {
	return t.calibReqs
}

// Orientation returns the last orientation sample as received.
func (t *Tracker) Orientation() OrientationSample {
	return t.orient
}

// Motion returns the last motion sample and whether one was ingested.
func (t *Tracker) Motion() (MotionSample, bool) {
	return t.motion, t.haveMove
}

// Force returns the last acceleration without gravity, nil if none.
func (t *Tracker) Force() *Vec3 {
	return t.motion.Acceleration
}

// ForceG returns the last acceleration including gravity, nil if none.
func (t *Tracker) ForceG() *Vec3 {
	return t.motion.AccelerationIncludingGravity
}

// DisplayOrientation returns the current screen layout.
func (t *Tracker) DisplayOrientation() DisplayOrientation {
	return t.display
}

// IsPortrait reports whether the screen is in portrait layout.
func (t *Tracker) IsPortrait() bool {
	return t.display == Portrait
}

// Tilt is gamma in portrait and -beta in landscape.
func (t *Tracker) Tilt() float64 {
	_, beta, gamma := t.orient.Degrees()
	if t.IsPortrait() {
		return gamma
	}
	return -beta
}

// Rotation returns the stored alpha, 0 if none was reported.
func (t *Tracker) Rotation() float64 {
	alpha, _, _ := t.orient.Degrees()
	return alpha
}

// RelativeRotation feeds alpha through the unwrap filter. With limit the
// result is reduced modulo 360. Until alpha is reported the filter is not fed
// and its last output is returned.
func (t *Tracker) RelativeRotation(limit bool) float64 {
	if t.orient.Alpha == nil {
		last := t.relUnwrap.Last()
		if limit {
			return math.Mod(last, 360)
		}
		return last
	}
	return t.relUnwrap.Next(t.Rotation(), limit)
}

// IsFacingUser guesses whether the screen faces the user.
func (t *Tracker) IsFacingUser() bool {
	_, beta, gamma := t.orient.Degrees()
	return beta > t.opts.FacingBeta || math.Abs(gamma) > t.opts.FacingGamma
}

// Heading returns the compass heading of the stored angles, NaN if undefined.
func (t *Tracker) Heading() float64 {
	return orientation.CompassHeadingOf(t.orient.Angles)
}

// Matrix returns the rotation matrix of the stored angles.
func (t *Tracker) Matrix() orientation.Matrix {
	return orientation.RotationMatrixOf(t.orient.Angles)
}

// Quaternion returns the quaternion of the stored angles.
func (t *Tracker) Quaternion() orientation.Quaternion {
	return orientation.QuaternionOf(t.orient.Angles)
}

// SpecialRotation is the unwrapped rotation that follows the mirrored
// compass heading while the screen faces the user and raw alpha otherwise.
// When alpha is missing or the heading is undefined the filter is not fed and
// its last output is returned.
func (t *Tracker) SpecialRotation() float64 {
	if t.orient.Alpha == nil {
		return t.specialUnwrap.Last()
	}
	if !t.IsFacingUser() {
		return t.specialUnwrap.Next(t.Rotation(), false)
	}

	h := t.Heading()
	if !orientation.HeadingDefined(h) {
		return t.specialUnwrap.Last()
	}
	return t.specialUnwrap.Next(orientation.MirrorHeading(h), false)
}

// DampenRotation returns SpecialRotation with small changes suppressed while
// the device is not accelerating sideways. It fails with ErrNoAcceleration
// until an acceleration sample has been ingested; no filter state changes in
// that case.
func (t *Tracker) DampenRotation() (float64, error) {
	accel := t.Force()
	if accel == nil {
		return 0, ErrNoAcceleration
	}
	if t.orient.Alpha == nil {
		// Keep the dampener unseeded until there is a rotation to dampen.
		if last, ok := t.dampener.Last(); ok {
			return last, nil
		}
		return t.specialUnwrap.Last(), nil
	}
	return t.dampener.Next(t.SpecialRotation(), accel.X), nil
}

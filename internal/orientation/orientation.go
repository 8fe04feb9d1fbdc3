// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package orientation converts deviceorientation angles (alpha, beta, gamma)
// into a compass heading, a rotation matrix and a quaternion.
//
// Axis naming follows the W3C DeviceOrientation source:
//
//	X = beta  (front-to-back tilt, -180..180)
//	Y = gamma (left-to-right tilt, -90..90)
//	Z = alpha (compass direction, 0..360, increasing counter-clockwise)
//
// Every function here is pure and safe to call from any goroutine.
package orientation

import (
	"math"
)

const degToRad = math.Pi / 180

// Angles is one deviceorientation reading. A nil field was not reported by
// the host, which is different from a reading of 0.
type Angles struct {
	Alpha *float64 `json:"alpha"`
	Beta  *float64 `json:"beta"`
	Gamma *float64 `json:"gamma"`
}

// Deg returns a pointer to v, for filling Angles literals.
func Deg(v float64) *float64 {
	return &v
}

// NewAngles builds a fully reported reading.
func NewAngles(alpha, beta, gamma float64) Angles {
	return Angles{Alpha: Deg(alpha), Beta: Deg(beta), Gamma: Deg(gamma)}
}

// Degrees returns alpha, beta, gamma with missing fields as 0.
func (a Angles) Degrees() (alpha, beta, gamma float64) {
	return valueOr0(a.Alpha), valueOr0(a.Beta), valueOr0(a.Gamma)
}

func valueOr0(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// trig holds cos/sin of the three axes, already scaled.
type trig struct {
	cX, cY, cZ float64
	sX, sY, sZ float64
}

// newTrig converts the angles to radians, multiplies them by scale (1 for
// the matrix and heading, 0.5 for the quaternion) and takes cos/sin.
func newTrig(alpha, beta, gamma, scale float64) trig {
	x := beta * degToRad * scale
	y := gamma * degToRad * scale
	z := alpha * degToRad * scale
	return trig{
		cX: math.Cos(x), cY: math.Cos(y), cZ: math.Cos(z),
		sX: math.Sin(x), sY: math.Sin(y), sZ: math.Sin(z),
	}
}

// CompassHeading returns the heading in degrees, in [0,360).
//
// The result is a mirror image of alpha around 360 (alpha 30 gives 330);
// see MirrorHeading. When the heading is undefined (Vy == 0, e.g. the device
// lies flat) NaN is returned; check with HeadingDefined.
func CompassHeading(alpha, beta, gamma float64) float64 {
	t := newTrig(alpha, beta, gamma, 1)

	vx := -t.cZ*t.sY - t.sZ*t.sX*t.cY
	vy := -t.sZ*t.sY + t.cZ*t.sX*t.cY

	if vy == 0 {
		return math.NaN()
	}

	heading := math.Atan(vx / vy)

	// Use the whole unit circle.
	if vy < 0 {
		heading += math.Pi
	} else if vx < 0 {
		heading += 2 * math.Pi
	}

	deg := heading / degToRad
	if deg >= 360 {
		deg -= 360
	}
	if deg == 0 {
		// atan(-0) is -0.
		deg = 0
	}
	return deg
}

// CompassHeadingOf is CompassHeading for a possibly incomplete reading.
func CompassHeadingOf(a Angles) float64 {
	return CompassHeading(a.Degrees())
}

// HeadingDefined reports whether h is a usable heading.
func HeadingDefined(h float64) bool {
	return !math.IsNaN(h)
}

// MirrorHeading converts a CompassHeading result back to the alpha
// convention: |h - 360|, with 360 folded to 0 to stay in [0,360). NaN stays
// NaN.
func MirrorHeading(h float64) float64 {
	return math.Mod(math.Abs(h-360), 360)
}

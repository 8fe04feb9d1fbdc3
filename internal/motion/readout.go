package motion

import (
	"math"

	"github.com/relabs-tech/motion_tracker/internal/orientation"
)

// Readout is a JSON snapshot of everything a Tracker computes.
type Readout struct {
	Tilt             float64 `json:"tilt"`
	Rotation         float64 `json:"rotation"`
	RelativeRotation float64 `json:"relative_rotation"`
	SpecialRotation  float64 `json:"special_rotation"`
	// Dampened is nil until an acceleration sample is available.
	Dampened *float64 `json:"dampened,omitempty"`
	// Heading is nil when undefined.
	Heading *float64 `json:"heading,omitempty"`

	Portrait   bool `json:"portrait"`
	FacingUser bool `json:"facing_user"`

	Matrix     orientation.Matrix     `json:"matrix"`
	Quaternion orientation.Quaternion `json:"quaternion"`

	Acceleration                 *Vec3 `json:"acceleration,omitempty"`
	AccelerationIncludingGravity *Vec3 `json:"accelerationIncludingGravity,omitempty"`
}

// Readout advances the filters once with the stored samples and returns all
// outputs. RelativeRotation is reported modulo 360.
func (t *Tracker) Readout() Readout {
	r := Readout{
		Tilt:                         t.Tilt(),
		Rotation:                     t.Rotation(),
		RelativeRotation:             t.RelativeRotation(true),
		Portrait:                     t.IsPortrait(),
		FacingUser:                   t.IsFacingUser(),
		Matrix:                       t.Matrix(),
		Quaternion:                   t.Quaternion(),
		Acceleration:                 t.Force(),
		AccelerationIncludingGravity: t.ForceG(),
	}

	if h := t.Heading(); !math.IsNaN(h) {
		r.Heading = &h
	}

	if d, err := t.DampenRotation(); err == nil {
		r.Dampened = &d
		r.SpecialRotation = t.specialUnwrap.Last()
	} else {
		r.SpecialRotation = t.SpecialRotation()
	}

	return r
}

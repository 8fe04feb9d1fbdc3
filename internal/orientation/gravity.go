package orientation

import (
	"math"
)

// AnglesFromGravity estimates beta and gamma from a gravity vector in device
// coordinates (any unit, only ratios matter). Alpha cannot be observed from
// gravity and is left unreported.
//
//	beta  = atan2(y, z)
//	gamma = atan2(-x, sqrt(y² + z²))
//
// A zero vector yields no reading at all.
func AnglesFromGravity(x, y, z float64) Angles {
	if x == 0 && y == 0 && z == 0 {
		return Angles{}
	}

	beta := math.Atan2(y, z) / degToRad
	gamma := math.Atan2(-x, math.Sqrt(y*y+z*z)) / degToRad

	return Angles{Beta: Deg(beta), Gamma: Deg(gamma)}
}

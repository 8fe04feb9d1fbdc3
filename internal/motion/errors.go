package motion

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned when a query needs a sample that has not been
// ingested yet.
var ErrMissingInput = errors.New("motion: missing input")

// ErrNoAcceleration is returned by DampenRotation before any acceleration
// has been ingested.
var ErrNoAcceleration = fmt.Errorf("%w: no acceleration data yet", ErrMissingInput)

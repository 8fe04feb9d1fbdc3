package host

import (
	"fmt"

	"github.com/relabs-tech/motion_tracker/internal/motion"
)

// Adapter applies host events to an Ingestor.
//
// An orientationchange does not update the display orientation by itself:
// the viewport only has its new size after the following resize, so the
// adapter arms on orientationchange and applies the next resize. Other
// resizes are ignored.
type Adapter struct {
	ing   motion.Ingestor
	armed bool
}

// NewAdapter returns an adapter feeding ing.
func NewAdapter(ing motion.Ingestor) *Adapter {
	return &Adapter{ing: ing}
}

// Apply forwards ev. It returns ErrUnknownEvent for unhandled types.
func (a *Adapter) Apply(ev Event) error {
	switch ev.Type {
	case TypeDeviceOrientation:
		a.ing.IngestOrientation(ev.OrientationSample())
	case TypeDeviceMotion:
		a.ing.IngestMotion(ev.MotionSample())
	case TypeViewport:
		a.ing.SetDisplayOrientation(motion.DisplayOrientationFromViewport(ev.Width, ev.Height))
	case TypeOrientationChange:
		a.armed = true
	case TypeResize:
		if !a.armed {
			return nil
		}
		a.armed = false
		a.ing.SetDisplayOrientation(motion.DisplayOrientationFromViewport(ev.Width, ev.Height))
	case TypeCompassNeedsCalibration:
		a.ing.CalibrationNeeded()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

// ApplyJSON decodes and applies one event.
func (a *Adapter) ApplyJSON(data []byte) (Event, error) {
	ev, err := Decode(data)
	if err != nil {
		return Event{}, err
	}
	return ev, a.Apply(ev)
}

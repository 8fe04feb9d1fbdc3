package sensors

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/motion_tracker/internal/motion"
	"github.com/relabs-tech/motion_tracker/internal/orientation"
)

// minCourseSpeedKnots is the ground speed below which the RMC course is noise.
const minCourseSpeedKnots = 1.0

type gpsSource struct {
	port   io.ReadCloser
	reader *bufio.Reader
}

// NewGPSSource opens an NMEA receiver on a serial port. Each valid RMC fix
// with enough ground speed becomes an absolute orientation sample carrying
// alpha only.
func NewGPSSource(portName string, baudRate int) (Source, error) {
	serialOpts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("GPS: open %s: %w", portName, err)
	}

	return newGPSReader(port), nil
}

func newGPSReader(r io.ReadCloser) *gpsSource {
	return &gpsSource{port: r, reader: bufio.NewReader(r)}
}

// Next blocks until the next usable RMC sentence.
func (g *gpsSource) Next() (Reading, error) {
	for {
		line, err := g.reader.ReadString('\n')
		if err != nil {
			return Reading{}, fmt.Errorf("GPS read: %w", err)
		}

		if s, ok := orientationFromNMEA(line); ok {
			return Reading{Orientation: s}, nil
		}
	}
}

// Close releases the serial port.
func (g *gpsSource) Close() error {
	return g.port.Close()
}

// orientationFromNMEA converts an RMC sentence into an orientation sample.
// Other sentences, void fixes, slow fixes and garbage yield false.
func orientationFromNMEA(line string) (*motion.OrientationSample, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return nil, false
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return nil, false
	}
	if sentence.DataType() != nmea.TypeRMC {
		return nil, false
	}

	m := sentence.(nmea.RMC)
	if m.Validity != nmea.ValidRMC || m.Speed < minCourseSpeedKnots {
		return nil, false
	}

	return &motion.OrientationSample{
		Angles:   orientation.Angles{Alpha: orientation.Deg(courseToAlpha(m.Course))},
		Absolute: true,
	}, true
}

// courseToAlpha converts a clockwise course over ground to a
// counter-clockwise alpha.
func courseToAlpha(course float64) float64 {
	a := math.Mod(360-course, 360)
	if a < 0 {
		a += 360
	}
	return a
}

package sensors

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/motion_tracker/internal/motion"
)

func TestCourseToAlpha(t *testing.T) {
	assert.Equal(t, 0.0, courseToAlpha(0))
	assert.Equal(t, 0.0, courseToAlpha(360))
	assert.Equal(t, 270.0, courseToAlpha(90))
	assert.InDelta(t, 275.6, courseToAlpha(84.4), 1e-9)
	assert.Equal(t, 1.0, courseToAlpha(359))
}

func TestOrientationFromNMEA(t *testing.T) {
	t.Run("valid moving fix", func(t *testing.T) {
		s, ok := orientationFromNMEA("$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n")
		require.True(t, ok)
		require.NotNil(t, s.Alpha)
		assert.InDelta(t, 275.6, *s.Alpha, 1e-9)
		assert.Nil(t, s.Beta)
		assert.Nil(t, s.Gamma)
		assert.True(t, s.Absolute)
	})

	rejected := map[string]string{
		"void fix":     "$GPRMC,123519,V,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*7D",
		"too slow":     "$GPRMC,123519,A,4807.038,N,01131.000,E,000.2,084.4,230394,003.1,W*6C",
		"other type":   "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
		"bad checksum": "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*00",
		"not nmea":     "hello",
		"empty":        "",
	}
	for name, line := range rejected {
		t.Run(name, func(t *testing.T) {
			_, ok := orientationFromNMEA(line)
			assert.False(t, ok)
		})
	}
}

func TestGPSReaderSkipsToUsableFix(t *testing.T) {
	in := strings.Join([]string{
		"garbage",
		"$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
		"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A",
		"",
	}, "\r\n")
	src := newGPSReader(io.NopCloser(strings.NewReader(in)))

	r, err := src.Next()
	require.NoError(t, err)
	require.NotNil(t, r.Orientation)
	assert.Nil(t, r.Motion)
	assert.InDelta(t, 275.6, *r.Orientation.Alpha, 1e-9)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, src.Close())
}

func TestConvertRaw(t *testing.T) {
	var sp gravitySplitter

	// Flat, face up, not moving.
	r := convertRaw(rawSample{Az: 16384, Gz: 131}, &sp, 10*time.Millisecond)
	require.NotNil(t, r.Motion)
	require.NotNil(t, r.Orientation)

	assert.InDelta(t, standardGravity, r.Motion.AccelerationIncludingGravity.Z, 1e-9)
	assert.InDelta(t, 0, r.Motion.Acceleration.Z, 1e-9)
	assert.InDelta(t, 1.0, r.Motion.RotationRate.Alpha, 1e-9)
	assert.Equal(t, 10.0, r.Motion.Interval)

	assert.Nil(t, r.Orientation.Alpha)
	assert.InDelta(t, 0, *r.Orientation.Beta, 1e-9)
	assert.InDelta(t, 0, *r.Orientation.Gamma, 1e-9)

	// A sideways jolt shows up as linear acceleration.
	r = convertRaw(rawSample{Ax: 8192, Az: 16384}, &sp, 10*time.Millisecond)
	assert.InDelta(t, 0.8*standardGravity/2, r.Motion.Acceleration.X, 1e-9)
}

func TestMockSource(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	src := newMockSource(func() time.Time { return now })

	now = base.Add(13 * time.Second)
	r, err := src.Next()
	require.NoError(t, err)
	require.NotNil(t, r.Orientation)
	require.NotNil(t, r.Motion)
	assert.InDelta(t, 30.0, *r.Orientation.Alpha, 1e-9) // 390 wraps to 30
	assert.Equal(t, 13000.0, r.Motion.Interval)

	tr := motion.NewTracker(motion.DefaultOptions())
	r.Apply(tr)
	assert.InDelta(t, 30.0, tr.Rotation(), 1e-9)
	require.NotNil(t, tr.Force())
}

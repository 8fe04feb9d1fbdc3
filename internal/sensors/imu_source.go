// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/motion_tracker/internal/motion"
	"github.com/relabs-tech/motion_tracker/internal/orientation"
)

const (
	standardGravity = 9.80665 // m/s²

	// Power-on full-scale ranges: ±2 g and ±250 °/s.
	accelCountsPerG   = 16384.0
	gyroCountsPerDegS = 131.0

	// gravityLowPass is the weight of the previous gravity estimate.
	gravityLowPass = 0.8
)

// rawSample is one accelerometer + gyroscope reading in counts.
type rawSample struct {
	Ax, Ay, Az int16
	Gx, Gy, Gz int16
}

// gravitySplitter separates gravity from linear acceleration with a
// first-order low-pass filter.
type gravitySplitter struct {
	g      motion.Vec3
	primed bool
}

func (s *gravitySplitter) split(a motion.Vec3) (gravity, linear motion.Vec3) {
	if !s.primed {
		s.g = a
		s.primed = true
	} else {
		k := gravityLowPass
		s.g = motion.Vec3{
			X: k*s.g.X + (1-k)*a.X,
			Y: k*s.g.Y + (1-k)*a.Y,
			Z: k*s.g.Z + (1-k)*a.Z,
		}
	}
	return s.g, motion.Vec3{X: a.X - s.g.X, Y: a.Y - s.g.Y, Z: a.Z - s.g.Z}
}

// convertRaw turns counts into a motion sample and a tilt-only orientation
// sample. The MPU9250 axes are taken as the device axes, so gyro X/Y/Z map to
// beta/gamma/alpha.
func convertRaw(raw rawSample, sp *gravitySplitter, interval time.Duration) Reading {
	withG := motion.Vec3{
		X: float64(raw.Ax) / accelCountsPerG * standardGravity,
		Y: float64(raw.Ay) / accelCountsPerG * standardGravity,
		Z: float64(raw.Az) / accelCountsPerG * standardGravity,
	}
	gravity, linear := sp.split(withG)

	mo := motion.MotionSample{
		Acceleration:                 &linear,
		AccelerationIncludingGravity: &withG,
		RotationRate: &motion.RotationRate{
			Alpha: float64(raw.Gz) / gyroCountsPerDegS,
			Beta:  float64(raw.Gx) / gyroCountsPerDegS,
			Gamma: float64(raw.Gy) / gyroCountsPerDegS,
		},
		Interval: float64(interval) / float64(time.Millisecond),
	}

	o := motion.OrientationSample{
		Angles: orientation.AnglesFromGravity(gravity.X, gravity.Y, gravity.Z),
	}

	return Reading{Orientation: &o, Motion: &mo}
}

type imuSource struct {
	imu      *mpu9250.MPU9250
	splitter gravitySplitter
	last     time.Time
}

// NewIMUSource initializes an MPU9250 over SPI. It reports tilt (beta,
// gamma) and acceleration; alpha is never reported since there is no
// magnetometer fusion.
func NewIMUSource(spiDev, csPin string) (Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("IMU: periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU: CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU: SPI transport (%s): %w", spiDev, err)
	}

	imu, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("IMU: device creation: %w", err)
	}

	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("IMU: initialization: %w", err)
	}

	if err := imu.Calibrate(); err != nil {
		log.Printf("Warning: IMU calibration failed: %v", err)
	} else {
		log.Printf("IMU calibration complete")
	}

	return &imuSource{imu: imu}, nil
}

// Next reads accelerometer and gyroscope data from the IMU.
func (s *imuSource) Next() (Reading, error) {
	raw, err := s.readRaw()
	if err != nil {
		return Reading{}, err
	}

	now := time.Now()
	var interval time.Duration
	if !s.last.IsZero() {
		interval = now.Sub(s.last)
	}
	s.last = now

	return convertRaw(raw, &s.splitter, interval), nil
}

func (s *imuSource) readRaw() (rawSample, error) {
	var raw rawSample
	var err error

	if raw.Ax, err = s.imu.GetAccelerationX(); err != nil {
		return rawSample{}, fmt.Errorf("IMU accel X: %w", err)
	}
	if raw.Ay, err = s.imu.GetAccelerationY(); err != nil {
		return rawSample{}, fmt.Errorf("IMU accel Y: %w", err)
	}
	if raw.Az, err = s.imu.GetAccelerationZ(); err != nil {
		return rawSample{}, fmt.Errorf("IMU accel Z: %w", err)
	}
	if raw.Gx, err = s.imu.GetRotationX(); err != nil {
		return rawSample{}, fmt.Errorf("IMU gyro X: %w", err)
	}
	if raw.Gy, err = s.imu.GetRotationY(); err != nil {
		return rawSample{}, fmt.Errorf("IMU gyro Y: %w", err)
	}
	if raw.Gz, err = s.imu.GetRotationZ(); err != nil {
		return rawSample{}, fmt.Errorf("IMU gyro Z: %w", err)
	}

	return raw, nil
}

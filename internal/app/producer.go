// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_tracker/internal/config"
	"github.com/relabs-tech/motion_tracker/internal/host"
	"github.com/relabs-tech/motion_tracker/internal/sensors"
)

// openSource builds the configured sample source.
func openSource(cfg *config.Config) (sensors.Source, error) {
	switch cfg.Source {
	case config.SourceMock:
		log.Println("producer: using mock source")
		return sensors.NewMockSource(), nil
	case config.SourceIMU:
		log.Printf("producer: using MPU9250 on %s (CS %s)", cfg.IMUSPIDevice, cfg.IMUCSPin)
		return sensors.NewIMUSource(cfg.IMUSPIDevice, cfg.IMUCSPin)
	case config.SourceGPS:
		log.Printf("producer: using GPS on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)
		return sensors.NewGPSSource(cfg.GPSSerialPort, cfg.GPSBaudRate)
	default:
		return nil, fmt.Errorf("producer: unknown source %q", cfg.Source)
	}
}

// closeSource releases sources that hold a device open, such as the GPS
// serial port.
func closeSource(src sensors.Source) {
	c, ok := src.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("producer: closing source: %v", err)
	}
}

// publishReading sends each sample of r to its topic.
func publishReading(client mqtt.Client, cfg *config.Config, r sensors.Reading) error {
	if r.Orientation != nil {
		if err := publishJSON(client, cfg.TopicOrientation, false, host.OrientationEvent(*r.Orientation)); err != nil {
			return err
		}
	}
	if r.Motion != nil {
		if err := publishJSON(client, cfg.TopicMotion, false, host.MotionEvent(*r.Motion)); err != nil {
			return err
		}
	}
	return nil
}

// RunProducer reads the configured source and publishes its samples to MQTT.
// Mock and IMU sources are polled every SAMPLE_INTERVAL; the GPS source paces
// itself on incoming sentences.
func RunProducer() error {
	log.Println("starting motion sample producer")

	cfg := config.Get()

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource(src)

	client, err := connectMQTT("producer", cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	log.Println("producer: starting publish loop")

	if cfg.Source == config.SourceGPS {
		for {
			r, err := src.Next()
			if err != nil {
				return err
			}
			if err := publishReading(client, cfg, r); err != nil {
				log.Printf("producer: %v", err)
				continue
			}
			log.Printf("producer: published GPS alpha=%.1f", *r.Orientation.Alpha)
		}
	}

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	lastLog := time.Time{}
	for t := range ticker.C {
		r, err := src.Next()
		if err != nil {
			log.Printf("producer: source error: %v", err)
			continue
		}
		if err := publishReading(client, cfg, r); err != nil {
			log.Printf("producer: %v", err)
			continue
		}

		if t.Sub(lastLog) >= time.Duration(cfg.ConsoleLogInterval)*time.Millisecond {
			lastLog = t
			logReading(t, r)
		}
	}
	return nil
}

func logReading(t time.Time, r sensors.Reading) {
	line := t.Format(time.RFC3339) + " tick:"
	if o := r.Orientation; o != nil {
		line += " angles"
		for _, v := range []*float64{o.Alpha, o.Beta, o.Gamma} {
			if v == nil {
				line += " -"
			} else {
				line += fmt.Sprintf(" %.2f", *v)
			}
		}
	}
	if m := r.Motion; m != nil && m.Acceleration != nil {
		line += fmt.Sprintf(" | accel x=%.2f y=%.2f z=%.2f", m.Acceleration.X, m.Acceleration.Y, m.Acceleration.Z)
	}
	log.Print(line)
}

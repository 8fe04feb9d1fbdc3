// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"time"

	"github.com/relabs-tech/motion_tracker/internal/config"
	"github.com/relabs-tech/motion_tracker/internal/motion"
	"github.com/relabs-tech/motion_tracker/internal/sensors"
)

// RunMockConsole drives a tracker from the mock source without a broker and
// prints every readout.
func RunMockConsole() error {
	opts := motion.DefaultOptions()
	interval := 100 * time.Millisecond
	if cfg := config.Get(); cfg != nil {
		opts = trackerOptions(cfg)
		interval = time.Duration(cfg.SampleInterval) * time.Millisecond
	}

	src := sensors.NewMockSource()
	s := newSession(opts)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		r, err := src.Next()
		if err != nil {
			return err
		}
		r.Apply(s.tracker)

		fmt.Println(formatReadout(s.readout()))
	}
	return nil
}

// formatReadout renders the fields a person watches on a console.
func formatReadout(r motion.Readout) string {
	heading := "   ---"
	if r.Heading != nil {
		heading = fmt.Sprintf("%6.1f", *r.Heading)
	}
	dampened := "   ---"
	if r.Dampened != nil {
		dampened = fmt.Sprintf("%6.1f", *r.Dampened)
	}
	layout := "L"
	if r.Portrait {
		layout = "P"
	}
	return fmt.Sprintf(
		"TILT=%6.1f  ROT=%6.1f  REL=%6.1f  SPECIAL=%7.1f  DAMP=%s  HDG=%s  [%s facing=%v]",
		r.Tilt, r.Rotation, r.RelativeRotation, r.SpecialRotation, dampened, heading, layout, r.FacingUser,
	)
}

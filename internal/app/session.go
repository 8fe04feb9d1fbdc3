// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"time"

	"github.com/relabs-tech/motion_tracker/internal/config"
	"github.com/relabs-tech/motion_tracker/internal/host"
	"github.com/relabs-tech/motion_tracker/internal/motion"
)

// trackerOptions maps the configuration onto tracker options.
func trackerOptions(cfg *config.Config) motion.Options {
	return motion.Options{
		Dampener:     cfg.DampenerThreshold,
		MotionGate:   cfg.MotionGate,
		FacingBeta:   cfg.FacingBeta,
		FacingGamma:  cfg.FacingGamma,
		SharedUnwrap: cfg.SharedUnwrap,
	}
}

// session is one Tracker plus the host adapter feeding it. It is not safe for
// concurrent use; every caller runs it from a single goroutine.
type session struct {
	tracker *motion.Tracker
	adapter *host.Adapter
}

func newSession(opts motion.Options) *session {
	tr := motion.NewTracker(opts)
	return &session{tracker: tr, adapter: host.NewAdapter(tr)}
}

func (s *session) apply(ev host.Event) error {
	return s.adapter.Apply(ev)
}

func (s *session) readout() motion.Readout {
	return s.tracker.Readout()
}

// runLoop is the only goroutine touching s. Events are applied as they
// arrive; on every tick a readout is handed to emit, once at least one event
// has been seen. It returns when ctx is done or events is closed.
func runLoop(ctx context.Context, component string, s *session, events <-chan host.Event, tick <-chan time.Time, emit func(motion.Readout)) {
	seen := false
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := s.apply(ev); err != nil {
				log.Printf("%s: %v", component, err)
				continue
			}
			seen = true
		case <-tick:
			if !seen {
				continue
			}
			emit(s.readout())
		}
	}
}

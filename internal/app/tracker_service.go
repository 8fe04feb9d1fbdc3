package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/motion_tracker/internal/config"
	"github.com/relabs-tech/motion_tracker/internal/host"
	"github.com/relabs-tech/motion_tracker/internal/motion"
)

// RunTracker subscribes to the sample topics, feeds one Tracker and publishes
// its readout every SAMPLE_INTERVAL.
func RunTracker() error {
	cfg := config.Get()

	client, err := connectMQTT("tracker", cfg.MQTTBroker, cfg.MQTTClientIDTracker)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	// MQTT callbacks only enqueue; runLoop owns the tracker.
	events := make(chan host.Event, 64)
	enqueue := func(payload []byte) {
		ev, err := host.Decode(payload)
		if err != nil {
			log.Printf("tracker: %v", err)
			return
		}
		select {
		case events <- ev:
		default:
			log.Printf("tracker: event queue full, dropping %s", ev.Type)
		}
	}

	for _, topic := range []string{cfg.TopicOrientation, cfg.TopicMotion, cfg.TopicScreen} {
		if err := subscribe("tracker", client, topic, enqueue); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	opts := trackerOptions(cfg)
	log.Printf("tracker: dampener=%.1f° motion gate=%.2fm/s² shared unwrap=%v", opts.Dampener, opts.MotionGate, opts.SharedUnwrap)

	runLoop(ctx, "tracker", newSession(opts), events, ticker.C, func(r motion.Readout) {
		if err := publishJSON(client, cfg.TopicReadout, true, r); err != nil {
			log.Printf("tracker: %v", err)
		}
	})

	log.Println("tracker: shutting down")
	return nil
}

package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/motion_tracker/internal/config"
)

// RunConsoleMQTT prints tracker readouts, at most one per CONSOLE_LOG_INTERVAL.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT("console", cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}

	every := time.Duration(cfg.ConsoleLogInterval) * time.Millisecond
	var last time.Time

	err = subscribe("console", client, cfg.TopicReadout, func(payload []byte) {
		r, err := decodeReadout(payload)
		if err != nil {
			log.Printf("console: %v", err)
			return
		}
		if now := time.Now(); now.Sub(last) >= every {
			last = now
			fmt.Println("[MOTION] " + formatReadout(r))
		}
	})
	if err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

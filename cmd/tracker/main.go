package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/motion_tracker/internal/app"
	"github.com/relabs-tech/motion_tracker/internal/config"
)

func main() {
	configPath := flag.String("config", "./motion_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting motion-tracker service (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunTracker(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

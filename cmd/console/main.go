// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/motion_tracker/internal/app"
	"github.com/relabs-tech/motion_tracker/internal/config"
)

func main() {
	// Optional: without a config file the tracker runs with default options.
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	log.Println("starting motion-tracker (mock console)")

	if *configPath != "" {
		if err := config.InitGlobal(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	if err := app.RunMockConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

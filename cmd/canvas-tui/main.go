package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/notexe/canvas-tui/internal/canvas"
	"github.com/notexe/canvas-tui/internal/config"
	"github.com/notexe/canvas-tui/internal/logging"
	"github.com/notexe/canvas-tui/internal/task"
	"github.com/notexe/canvas-tui/internal/tui"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	timezone := flag.String("timezone", "", "Reference timezone (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *timezone != "" {
		cfg.UI.Timezone = *timezone
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid timezone %q: %v\n", cfg.UI.Timezone, err)
		os.Exit(1)
	}

	// Missing credentials are not fatal: the UI starts and idles with
	// a notice instead.
	var client *canvas.Client
	if cfg.Configured() {
		client, err = canvas.NewClient(cfg.Canvas, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating Canvas client: %v\n", err)
			os.Exit(1)
		}
	} else {
		log.Warnw("Canvas credentials missing", "config_path", *configPath)
	}

	agg := &task.Aggregator{
		BaseURL:    cfg.Canvas.BaseURL,
		Location:   loc,
		PastDays:   cfg.Window.PastDays,
		FutureDays: cfg.Window.FutureDays,
		ClampToNow: cfg.Window.ClampToNow,
		Log:        log,
	}

	if err := tui.Run(cfg, client, agg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

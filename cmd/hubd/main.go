package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/xmmersia/hubcore/hub"
	"github.com/xmmersia/hubcore/observability"
	"github.com/xmmersia/hubcore/server"
)

func main() {
	var (
		definitionFile = flag.String("config", "", "Path to hub definition file, JSON or YAML (required)")
		addr           = flag.String("addr", ":8080", "Listen address")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *definitionFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: hubd -config <file> [-addr :8080]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	def, err := hub.LoadDefinition(*definitionFile)
	if err != nil {
		log.Fatalf("Failed to load hub definition: %v", err)
	}

	h, err := hub.New(def, hub.WithObserver(observability.NewSlogObserver(logger)))
	if err != nil {
		log.Fatalf("Failed to assemble hub: %v", err)
	}

	logger.Info("hub assembled",
		"hub", h.Config().Slug,
		"actions", len(h.Actions()),
		"auth_required", h.Config().AuthRequired,
		"consent_required", h.Config().ConsentRequired,
	)

	if err := server.New(h, logger).Run(*addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/warfroggy/clashlens/internal/simulator"
	"github.com/warfroggy/clashlens/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers       = 5
	defaultDays          = 30
	defaultDuplicateRate = 0.2
	defaultTimeout       = 30 * time.Second
	defaultRunTimeout    = 5 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players       = flag.Int("players", defaultPlayers, "Number of synthetic players")
		days          = flag.Int("days", defaultDays, "Days of history per player")
		duplicateRate = flag.Float64("duplicates", defaultDuplicateRate, "Fraction of rows duplicated in each batch")
		seed          = flag.Int64("seed", time.Now().UnixNano(), "RNG seed; fixed seed reproduces the batch")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulator.Config{
		BaseURL:       *baseURL,
		Players:       *players,
		Days:          *days,
		DuplicateRate: *duplicateRate,
		Seed:          *seed,
		Timeout:       *timeout,
		Verbose:       *verbose,
	}

	if _, err := simulator.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

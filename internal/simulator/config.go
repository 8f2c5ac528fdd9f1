// Package simulator generates noisy synthetic snapshot histories and
// drives them through a running service to sanity-check timeline
// reconstruction end to end.
package simulator

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL       string        // Base URL of the service
	Players       int           // Number of synthetic players
	Days          int           // Days of history per player
	DuplicateRate float64       // Fraction of rows duplicated in the submitted batch
	Seed          int64         // RNG seed; same seed, same batches
	Timeout       time.Duration // HTTP request timeout
	Verbose       bool          // Enable verbose logging
}

// Stats holds simulation statistics.
type Stats struct {
	RowsGenerated  int
	RowsSubmitted  int
	RowsAccepted   int
	RowsDuplicate  int
	RowsFailed     int
	PlayersChecked int
	ChecksFailed   int
	StartTime      time.Time
	Duration       time.Duration
}
